// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

func writeConfig(content string) string {
	path := filepath.Join(GinkgoT().TempDir(), "hostdig.toml")
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

var _ = Describe("configuration", func() {

	It("has sensible defaults", func() {
		cfg := Defaults()
		Expect(cfg.Lanes).To(Equal(16))
		Expect(time.Duration(cfg.Delay)).To(Equal(2 * time.Second))
		Expect(cfg.OutputDir).To(Equal("."))
		Expect(cfg.Probe.BaseURL).To(Equal("https://api.pingdom.com/api/3.1"))
		Expect(time.Duration(cfg.Probe.Timeout)).To(Equal(30 * time.Second))
		Expect(cfg.Probe.Rate).To(BeZero())
		Expect(time.Duration(cfg.Redirect.Timeout)).To(Equal(20 * time.Second))
		Expect(cfg.Redirect.MaxHops).To(Equal(5))
		Expect(time.Duration(cfg.DNS.Timeout)).To(Equal(5 * time.Second))
		Expect(cfg.DNS.Nameservers).To(BeEmpty())
		Expect(cfg.Validate()).To(Succeed())
	})

	It("returns the defaults without a file", func() {
		Expect(Successful(Load(""))).To(Equal(Defaults()))
	})

	It("overrides only the settings in the file", func() {
		cfg := Successful(Load(writeConfig(`
lanes = 8
delay = "1m30s"

[probe]
timeout = "45s"
rate = 2.5

[redirect]
max-hops = 10

[dns]
nameservers = ["192.0.2.53", "192.0.2.54:5353"]
`)))
		expected := Defaults()
		expected.Lanes = 8
		expected.Delay = Duration(90 * time.Second)
		expected.Probe.Timeout = Duration(45 * time.Second)
		expected.Probe.Rate = 2.5
		expected.Redirect.MaxHops = 10
		expected.DNS.Nameservers = []string{"192.0.2.53", "192.0.2.54:5353"}
		Expect(cfg).To(Equal(expected))
	})

	It("rejects broken files", func() {
		Expect(Load(filepath.Join(GinkgoT().TempDir(), "missing.toml"))).Error().To(
			MatchError(ContainSubstring("cannot load configuration")))
		Expect(Load(writeConfig(`lanes = `))).Error().To(HaveOccurred())
		Expect(Load(writeConfig(`delay = "forever"`))).Error().To(HaveOccurred())
		Expect(Load(writeConfig(`lanse = 4`))).Error().To(
			MatchError(ContainSubstring(`unknown key "lanse"`)))
	})

	DescribeTable("validates ranges",
		func(mutate func(*Config), expected string) {
			cfg := Defaults()
			mutate(&cfg)
			Expect(cfg.Validate()).To(MatchError(ContainSubstring(expected)))
		},
		Entry("no lanes", func(c *Config) { c.Lanes = 0 }, "lanes out of range [1..64]"),
		Entry("too many lanes", func(c *Config) { c.Lanes = 65 }, "lanes out of range"),
		Entry("negative delay", func(c *Config) { c.Delay = -1 }, "delay must not be negative"),
		Entry("no output dir", func(c *Config) { c.OutputDir = "" }, "output directory"),
		Entry("no base URL", func(c *Config) { c.Probe.BaseURL = "" }, "probe base URL"),
		Entry("zero probe timeout", func(c *Config) { c.Probe.Timeout = 0 }, "probe timeout"),
		Entry("negative rate", func(c *Config) { c.Probe.Rate = -1 }, "probe rate"),
		Entry("zero redirect timeout", func(c *Config) { c.Redirect.Timeout = 0 }, "redirect timeout"),
		Entry("no hops", func(c *Config) { c.Redirect.MaxHops = 0 }, "max hops out of range [1..20]"),
		Entry("too many hops", func(c *Config) { c.Redirect.MaxHops = 21 }, "max hops out of range"),
		Entry("zero DNS timeout", func(c *Config) { c.DNS.Timeout = 0 }, "DNS timeout"),
	)

	It("reports all violations at once", func() {
		cfg := Defaults()
		cfg.Lanes = 0
		cfg.DNS.Timeout = 0
		err := cfg.Validate()
		Expect(err).To(MatchError(ContainSubstring("lanes")))
		Expect(err).To(MatchError(ContainSubstring("DNS timeout")))
	})

	It("accepts a zero delay", func() {
		cfg := Defaults()
		cfg.Delay = 0
		Expect(cfg.Validate()).To(Succeed())
	})

})

// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/siemens/hostdig/config"
	"github.com/siemens/hostdig/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

var _ = Describe("hostdig command", func() {

	var site *httptest.Server
	var api *httptest.Server
	var sitename string
	var cfgfile string
	var outdir string

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})

		site = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "hello")
		}))
		DeferCleanup(site.Close)
		sitename = strings.TrimPrefix(site.URL, "http://")

		api = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer s3cr3t" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			switch r.URL.Path {
			case "/checks":
				fmt.Fprintf(w, `{"checks":[
					{"id":1,"name":"site","hostname":%q},
					{"id":2,"name":"other","hostname":"other.example.com"}]}`, sitename)
			case "/single":
				_, _ = io.WriteString(w, `{"result":{"status":"up","probedesc":"Paris, France","statusdesc":"OK","statusdesclong":"OK"}}`)
			default:
				http.NotFound(w, r)
			}
		}))
		DeferCleanup(api.Close)

		outdir = GinkgoT().TempDir()
		cfgfile = filepath.Join(GinkgoT().TempDir(), "hostdig.toml")
		Expect(os.WriteFile(cfgfile, []byte(fmt.Sprintf(`
lanes = 2
delay = "0s"
output-dir = %q

[probe]
base-url = %q
timeout = "2s"

[dns]
nameservers = ["127.0.0.1:1"]
timeout = "200ms"
`, outdir, api.URL)), 0o644)).To(Succeed())

		Expect(os.Setenv(config.CredentialEnv, "s3cr3t")).To(Succeed())
		DeferCleanup(func() { _ = os.Unsetenv(config.CredentialEnv) })
	})

	run := func(stdin string, args ...string) (string, error) {
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetArgs(args)
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		err := cmd.Execute()
		return out.String(), err
	}

	reports := func() []string {
		return Successful(filepath.Glob(filepath.Join(outdir, "Hostname_results_*_UTC.csv")))
	}

	It("diagnoses the requested hosts and writes a report", func() {
		out, err := run("", "--config", cfgfile, "--no-progress", strings.ToUpper(sitename), "unknown.example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("report written to " + outdir))
		Expect(reports()).To(HaveLen(1))

		f := Successful(os.Open(reports()[0]))
		defer f.Close()
		records := Successful(csv.NewReader(f).ReadAll())
		Expect(records).To(HaveLen(2))
		Expect(records[0]).To(Equal(types.Columns))
		row := records[1]
		Expect(row[0]).To(Equal("site"))
		Expect(row[2]).To(Equal("up"))
		Expect(row[3]).To(Equal("Paris, France"))
		Expect(row[6]).To(Equal("1"))
		Expect(row[7]).To(Equal(sitename))
		Expect(row[8]).To(HavePrefix("DNS Lookup A Failed: "))
		Expect(row[11]).To(Equal("200 => " + site.URL + "/ (No redirection)"))
	})

	It("prompts for hostnames", func() {
		out, err := run(" , "+sitename+" ,\n", "--config", cfgfile, "--no-progress")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HavePrefix("Enter hostnames (comma-separated): "))
		Expect(reports()).To(HaveLen(1))
	})

	It("renders live progress", func() {
		out, err := run("", "--config", cfgfile, sitename)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("diagnosed 1 of 1 hosts"))
		Expect(out).To(ContainSubstring("lane 0"))
	})

	It("has nothing to do for unmonitored hosts", func() {
		out, err := run("", "--config", cfgfile, "--no-progress", "unknown.example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).NotTo(ContainSubstring("report written"))
		Expect(reports()).To(BeEmpty())
	})

	It("lets flags override the configuration file", func() {
		otherdir := filepath.Join(GinkgoT().TempDir(), "other")
		_, err := run("", "--config", cfgfile, "--no-progress", "--output-dir", otherdir, "--lanes", "3", sitename)
		Expect(err).NotTo(HaveOccurred())
		Expect(reports()).To(BeEmpty())
		Expect(Successful(filepath.Glob(filepath.Join(otherdir, "*.csv")))).To(HaveLen(1))
	})

	It("fails for an invalid credential", func() {
		Expect(os.Setenv(config.CredentialEnv, "wrong")).To(Succeed())
		_, err := run("", "--config", cfgfile, "--no-progress", sitename)
		Expect(err).To(MatchError(ContainSubstring("cannot retrieve checks")))
		Expect(reports()).To(BeEmpty())
	})

	It("rejects invalid settings", func() {
		out, err := run("", "--config", cfgfile, "--lanes", "0", sitename)
		Expect(err).To(MatchError(ContainSubstring("lanes out of range")))
		Expect(out).To(ContainSubstring("Usage:"))
		_, err = run("", "--spinner", "1ms", sitename)
		Expect(err).To(MatchError(ContainSubstring("--spinner must be at least 10ms")))
		_, err = run("", "--config", filepath.Join(outdir, "missing.toml"), sitename)
		Expect(err).To(MatchError(ContainSubstring("cannot load configuration")))
		Expect(reports()).To(BeEmpty())
	})

	It("splits hostname lists", func() {
		Expect(splitHostnames(" a.example.com,b.example.com ,, ")).To(Equal([]string{"a.example.com", "b.example.com"}))
		Expect(splitHostnames("")).To(BeEmpty())
	})

	It("runs directly", func(ctx context.Context) {
		cfg := Successful(config.Load(cfgfile))
		path := Successful(DiagnoseAndReport(ctx, runOptions{
			cfg:        cfg,
			credential: "s3cr3t",
			hostnames:  []string{sitename},
			out:        io.Discard,
		}))
		Expect(path).To(HavePrefix(outdir))
	})

})

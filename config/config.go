// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/siemens/hostdig/batch"
	"github.com/siemens/hostdig/dnsinspect"
	"github.com/siemens/hostdig/probe"
	"github.com/siemens/hostdig/redirect"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
)

// CredentialEnv names the environment variable carrying the API credential.
const CredentialEnv = "API_KEY"

// Limits of the tunables.
const (
	MaxLanes   = 64
	MaxHopsMin = 1
	MaxHopsMax = 20
)

// Duration is a time.Duration that can be read from TOML strings, such as
// "2s" or "1m30s".
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalText renders a duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config contains the tunables of a hostdig run.
type Config struct {
	Lanes     int      `toml:"lanes"`
	Delay     Duration `toml:"delay"`
	OutputDir string   `toml:"output-dir"`
	Probe     Probe    `toml:"probe"`
	Redirect  Redirect `toml:"redirect"`
	DNS       DNS      `toml:"dns"`
}

// Probe configures the uptime monitoring service client.
type Probe struct {
	BaseURL string   `toml:"base-url"`
	Timeout Duration `toml:"timeout"`
	Rate    float64  `toml:"rate"` // account-wide probe calls per second, 0 is unlimited.
}

// Redirect configures redirect tracing.
type Redirect struct {
	Timeout Duration `toml:"timeout"`
	MaxHops int      `toml:"max-hops"`
}

// DNS configures DNS inspection.
type DNS struct {
	Timeout     Duration `toml:"timeout"`
	Nameservers []string `toml:"nameservers"` // empty means the system resolver configuration.
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Lanes:     batch.DefaultLanes,
		Delay:     Duration(batch.DefaultDelay),
		OutputDir: ".",
		Probe: Probe{
			BaseURL: probe.DefaultBaseURL,
			Timeout: Duration(probe.DefaultTimeout),
		},
		Redirect: Redirect{
			Timeout: Duration(redirect.DefaultTimeout),
			MaxHops: redirect.DefaultMaxHops,
		},
		DNS: DNS{
			Timeout: Duration(dnsinspect.DefaultTimeout),
		},
	}
}

// Load returns the default configuration overridden by the settings from the
// specified TOML file. An empty path returns just the defaults. Unknown keys
// in the file are rejected.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("cannot load configuration %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("cannot load configuration %s: unknown key %q",
			path, undecoded[0].String())
	}
	log.Debugf("loaded configuration from %s", path)
	return cfg, nil
}

// Validate checks the tunables to be within their permitted ranges, reporting
// all violations.
func (c Config) Validate() error {
	var errs []error
	if c.Lanes < 1 || c.Lanes > MaxLanes {
		errs = append(errs, fmt.Errorf("lanes out of range [1..%d]", MaxLanes))
	}
	if c.Delay < 0 {
		errs = append(errs, errors.New("delay must not be negative"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output directory must not be empty"))
	}
	if c.Probe.BaseURL == "" {
		errs = append(errs, errors.New("probe base URL must not be empty"))
	}
	if c.Probe.Timeout <= 0 {
		errs = append(errs, errors.New("probe timeout must be positive"))
	}
	if c.Probe.Rate < 0 {
		errs = append(errs, errors.New("probe rate must not be negative"))
	}
	if c.Redirect.Timeout <= 0 {
		errs = append(errs, errors.New("redirect timeout must be positive"))
	}
	if c.Redirect.MaxHops < MaxHopsMin || c.Redirect.MaxHops > MaxHopsMax {
		errs = append(errs, fmt.Errorf("redirect max hops out of range [%d..%d]", MaxHopsMin, MaxHopsMax))
	}
	if c.DNS.Timeout <= 0 {
		errs = append(errs, errors.New("DNS timeout must be positive"))
	}
	return errors.Join(errs...)
}

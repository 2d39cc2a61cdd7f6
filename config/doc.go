/*
Package config provides the tunables of a hostdig run: their defaults, loading
overrides from an optional TOML file, and validation.

A configuration file may set any subset of the tunables, for instance:

	lanes = 8
	delay = "3s"
	output-dir = "/var/lib/hostdig"

	[probe]
	timeout = "45s"
	rate = 10.0

	[redirect]
	max-hops = 10
*/
package config

// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// promptHostnames asks for a comma-separated list of hostnames and reads it
// from a single input line.
func promptHostnames(in io.Reader, out io.Writer) ([]string, error) {
	fmt.Fprint(out, "Enter hostnames (comma-separated): ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return nil, fmt.Errorf("cannot read hostnames: %w", err)
	}
	return splitHostnames(line), nil
}

// splitHostnames splits a comma-separated list, dropping empty elements.
func splitHostnames(list string) []string {
	hostnames := []string{}
	for _, hostname := range strings.Split(list, ",") {
		if hostname = strings.TrimSpace(hostname); hostname != "" {
			hostnames = append(hostnames, hostname)
		}
	}
	return hostnames
}

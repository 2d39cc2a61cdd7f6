// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/siemens/hostdig/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var results = []types.CombinedResult{
	{
		Check: types.HostCheck{ID: "42", Name: "www", Hostname: "www.example.com"},
		Probe: types.ProbeOutcome{
			Status:                "up",
			ProbeDescription:      "Frankfurt, DE",
			StatusDescription:     "OK",
			LongStatusDescription: "HTTP/1.1 200 OK",
		},
		DNS: types.DNSRecordSet{
			A:     "192.0.2.1, 192.0.2.2",
			CNAME: "No CNAME Records Found",
			NS:    "ns1.example.com., ns2.example.com.",
		},
		Redirects: types.RedirectTrace{
			Outcome: types.Redirected,
			Hops: []types.RedirectHop{
				{StatusCode: 301, Location: "https://www.example.com/"},
				{StatusCode: 200, Location: "https://www.example.com/"},
			},
		},
	},
	{
		Check:     types.HostCheck{ID: "43", Name: "api", Hostname: "api.example.com"},
		Probe:     types.FailedProbe("401 Unauthorized"),
		DNS:       types.DNSRecordSet{A: "DNS Lookup A Failed: query for \"api.example.com.\" yields NXDOMAIN"},
		Redirects: types.RedirectTrace{Outcome: types.NotRedirected},
	},
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

var _ = Describe("reports", func() {

	It("names reports after the UTC time", func() {
		cest := time.FixedZone("CEST", 2*60*60)
		Expect(Filename(time.Date(2023, 6, 30, 16, 5, 9, 0, cest))).To(
			Equal("Hostname_results_2023-06-30_14-05-09_UTC.csv"))
	})

	It("writes header and rows", func() {
		var buff bytes.Buffer
		Expect(Write(&buff, results)).To(Succeed())
		records := Successful(csv.NewReader(&buff).ReadAll())
		Expect(records).To(HaveLen(3))
		Expect(records[0]).To(Equal(types.Columns))
		Expect(records[1]).To(Equal([]string{
			"www", "www.example.com", "up", "Frankfurt, DE", "OK", "HTTP/1.1 200 OK",
			"42", "www.example.com",
			"192.0.2.1, 192.0.2.2", "No CNAME Records Found", "ns1.example.com., ns2.example.com.",
			"301 => https://www.example.com/ | 200 => https://www.example.com/",
		}))
		Expect(records[2][2]).To(Equal("Error: 401 Unauthorized"))
		Expect(records[2][3]).To(Equal(types.NotAvailable))
		Expect(records[2][8]).To(Equal(`DNS Lookup A Failed: query for "api.example.com." yields NXDOMAIN`))
		Expect(records[2][11]).To(Equal("No Redirect"))
	})

	It("writes only the header for no results", func() {
		var buff bytes.Buffer
		Expect(Write(&buff, nil)).To(Succeed())
		Expect(Successful(csv.NewReader(&buff).ReadAll())).To(Equal([][]string{types.Columns}))
	})

	It("reports write errors", func() {
		Expect(Write(failingWriter{}, results)).To(MatchError(ContainSubstring("disk full")))
	})

	It("writes report files", func() {
		dir := filepath.Join(GinkgoT().TempDir(), "reports")
		now := time.Date(2023, 6, 30, 14, 5, 9, 0, time.UTC)
		path := Successful(WriteFile(dir, results, now))
		Expect(path).To(Equal(filepath.Join(dir, "Hostname_results_2023-06-30_14-05-09_UTC.csv")))
		f := Successful(os.Open(path))
		defer f.Close()
		Expect(Successful(csv.NewReader(f).ReadAll())).To(HaveLen(3))
	})

	It("fails for an unusable report directory", func() {
		file := filepath.Join(GinkgoT().TempDir(), "file")
		Expect(os.WriteFile(file, nil, 0o644)).To(Succeed())
		Expect(WriteFile(file, results, time.Now())).Error().To(
			MatchError(ContainSubstring("cannot create report directory")))
	})

})

// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/siemens/hostdig/types"

	log "github.com/sirupsen/logrus"
)

// filenameLayout is the time layout of report file names.
const filenameLayout = "Hostname_results_2006-01-02_15-04-05_UTC.csv"

// Filename returns the report file name for the specified point in time,
// converted to UTC.
func Filename(t time.Time) string {
	return t.UTC().Format(filenameLayout)
}

// Write writes the header row followed by the rows of all results to w.
func Write(w io.Writer, results []types.CombinedResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(types.Columns); err != nil {
		return fmt.Errorf("cannot write report header: %w", err)
	}
	for _, result := range results {
		if err := cw.Write(result.Row()); err != nil {
			return fmt.Errorf("cannot write report row for %q: %w", result.Check.Hostname, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("cannot write report: %w", err)
	}
	return nil
}

// WriteFile writes the results into a new report file in the specified
// directory, creating the directory if necessary. The file name is derived
// from now. WriteFile returns the path of the report file.
func WriteFile(dir string, results []types.CombinedResult, now time.Time) (path string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create report directory: %w", err)
	}
	path = filepath.Join(dir, Filename(now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("cannot create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cannot close report: %w", cerr)
		}
	}()
	if err := Write(f, results); err != nil {
		return "", err
	}
	log.Debugf("wrote %d results to %s", len(results), path)
	return path, nil
}

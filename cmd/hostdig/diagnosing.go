// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/siemens/hostdig/batch"
	"github.com/siemens/hostdig/config"
	"github.com/siemens/hostdig/dnsinspect"
	"github.com/siemens/hostdig/hostdiag"
	"github.com/siemens/hostdig/probe"
	"github.com/siemens/hostdig/redirect"
	"github.com/siemens/hostdig/report"

	"github.com/gosuri/uilive"
	log "github.com/sirupsen/logrus"
)

// runOptions carries everything a single diagnostic run needs.
type runOptions struct {
	cfg        config.Config
	credential string
	hostnames  []string
	progress   bool          // render live lane progress.
	spinner    time.Duration // spinner interval for live progress.
	out        io.Writer
}

// DiagnoseAndReport retrieves the checks of the uptime monitoring service,
// picks those monitoring the specified hostnames, diagnoses them in parallel
// lanes and finally writes the results into a new report. It returns the
// path of the report, or "" if there was nothing to do.
func DiagnoseAndReport(ctx context.Context, opts runOptions) (string, error) {
	cfg := opts.cfg
	proberOpts := []probe.Option{
		probe.WithBaseURL(cfg.Probe.BaseURL),
		probe.WithTimeout(time.Duration(cfg.Probe.Timeout)),
	}
	if cfg.Probe.Rate > 0 {
		proberOpts = append(proberOpts,
			probe.WithRateLimit(cfg.Probe.Rate, int(math.Max(1, math.Ceil(cfg.Probe.Rate)))))
	}
	prober := probe.New(proberOpts...)

	allChecks, err := prober.ListChecks(ctx, opts.credential)
	if err != nil {
		return "", err
	}
	checks := probe.Filter(allChecks, opts.hostnames)
	if len(checks) == 0 {
		log.Info("nothing to do: no checks match the specified hostnames")
		return "", nil
	}
	log.Infof("diagnosing %d of %d checks in %d lanes", len(checks), len(allChecks), cfg.Lanes)

	inspectorOpts := []dnsinspect.Option{dnsinspect.WithTimeout(time.Duration(cfg.DNS.Timeout))}
	if len(cfg.DNS.Nameservers) > 0 {
		inspectorOpts = append(inspectorOpts, dnsinspect.WithNameservers(cfg.DNS.Nameservers...))
	}
	diagnoser := hostdiag.New(
		prober,
		dnsinspect.New(inspectorOpts...),
		redirect.New(
			redirect.WithTimeout(time.Duration(cfg.Redirect.Timeout)),
			redirect.WithMaxHops(cfg.Redirect.MaxHops)))

	// The lane progress gets updated by the lanes themselves, while an
	// optional rendering goroutine periodically renders the progress until
	// the scheduler has finished.
	progress := newLaneProgress(batch.Partition(checks, cfg.Lanes))
	scheduler := batch.New(diagnoser,
		batch.WithLanes(cfg.Lanes),
		batch.WithDelay(time.Duration(cfg.Delay)),
		batch.WithObserver(progress.Update))

	schedulingDone := make(chan struct{})
	renderingDone := make(chan struct{})
	if opts.progress {
		go func() {
			// Avoid uilive's background updating, as it may flush while the
			// rendering into the buffer is still incomplete; flush explicitly
			// after each rendering instead.
			term := uilive.New()
			term.Out = opts.out
			renderer := newRenderer(term, len(checks), opts.spinner)
			defer func() {
				renderProgress(term, renderer, progress)
				close(renderingDone)
			}()
			renderProgress(term, renderer, progress)
			ticker := time.NewTicker(50 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					renderProgress(term, renderer, progress)
				case <-schedulingDone:
					return
				}
			}
		}()
	} else {
		close(renderingDone)
	}

	results := scheduler.Run(ctx, opts.credential, checks)
	close(schedulingDone)
	<-renderingDone

	path, err := report.WriteFile(cfg.OutputDir, results, time.Now())
	if err != nil {
		return "", err
	}
	log.Infof("wrote %d results", len(results))
	fmt.Fprintf(opts.out, "report written to %s\n", path)
	return path, nil
}

// renderProgress renders the current lane progress and flushes it to the
// terminal.
func renderProgress(term *uilive.Writer, r *renderer, progress *laneProgress) {
	r.Render(progress.Get())
	_ = term.Flush()
}

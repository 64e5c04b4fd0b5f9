// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package telemetry exports Prometheus metrics of analysis runs.
package telemetry

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"fillmore-labs.com/sinkguard/internal/analyze"
	"fillmore-labs.com/sinkguard/internal/finding"
)

const namespace = "sinkguard"

// Metrics are the run metrics. A nil *Metrics records nothing.
type Metrics struct {
	findings   *prometheus.CounterVec
	suppressed prometheus.Counter
	timeouts   prometheus.Counter
	degraded   *prometheus.CounterVec
	skipped    prometheus.Counter
	paths      prometheus.Histogram
}

// New creates the metrics and registers them on reg. Metrics already registered by another
// analyzer instance are shared. A nil reg returns nil metrics.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, nil
	}

	m := &Metrics{}

	var err error

	m.findings, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "findings_total",
		Help:      "Reported findings by defect class and mitigation status.",
	}, []string{"class", "status"}))
	if err != nil {
		return nil, err
	}

	m.suppressed, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "suppressed_total",
		Help:      "Candidate defects suppressed because every path is mitigated.",
	}))
	if err != nil {
		return nil, err
	}

	m.timeouts, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pattern_timeouts_total",
		Help:      "Pattern evaluations that exceeded the pattern timeout.",
	}))
	if err != nil {
		return nil, err
	}

	m.degraded, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "degraded_runs_total",
		Help:      "Runs that exhausted a budget, by reason.",
	}, []string{"reason"}))
	if err != nil {
		return nil, err
	}

	m.skipped, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "skipped_files_total",
		Help:      "Files skipped because of malformed input.",
	}))
	if err != nil {
		return nil, err
	}

	m.paths, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "paths_per_defect",
		Help:      "Control-flow paths enumerated per candidate defect.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
	}))
	if err != nil {
		return nil, err
	}

	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}

	return c, err
}

// Record adds the outcome of a run.
func (m *Metrics) Record(res *analyze.Result) {
	if m == nil {
		return
	}

	for i := range res.Findings {
		f := &res.Findings[i]

		switch f.Source {
		case finding.SourceDegraded, finding.SourceSkipped:
			continue
		}

		m.findings.WithLabelValues(f.Class, f.Metadata.MitigationStatus.String()).Inc()
	}

	m.suppressed.Add(float64(res.Stats.Suppressed))
	m.timeouts.Add(float64(res.Stats.Timeouts))
	m.skipped.Add(float64(len(res.Skipped)))

	for _, n := range res.Stats.Paths {
		m.paths.Observe(float64(n))
	}

	if res.Budget.Degraded {
		m.degraded.WithLabelValues(res.Budget.State.Reason.String()).Inc()
	}
}

// Findings returns the findings counter, labeled by class and status.
func (m *Metrics) Findings() *prometheus.CounterVec {
	return m.findings
}

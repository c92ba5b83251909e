/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package steps

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultExecuted = "executed"
	resultSkipped  = "skipped"
	resultFailed   = "failed"
)

var (
	stepCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launcher_git_steps_total",
			Help: "Total number of git steps processed, by step and result",
		},
		[]string{"step", "result"},
	)

	recoveredCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launcher_git_steps_recovered_total",
			Help: "Total number of conditions recovered from while running git steps",
		},
		[]string{"kind"},
	)
)

func observe(o Outcome, err error) {
	result := resultExecuted
	switch {
	case err != nil:
		result = resultFailed
	case o.Skipped:
		result = resultSkipped
	}
	stepCounter.WithLabelValues(o.Step.String(), result).Inc()
	for _, r := range o.Recovered {
		recoveredCounter.WithLabelValues(string(r.Kind)).Inc()
	}
}

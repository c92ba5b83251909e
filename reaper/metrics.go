/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reaper

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultDeleted = "deleted"
	resultFailed  = "failed"
)

var deletions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "launcher_reaper_deletions_total",
		Help: "Total number of scratch directory deletions, by result",
	},
	[]string{"result"},
)

// Copyright 2024 The EUDI Wallet Authors.
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

// Package metrics defines a nil-safe Prometheus recorder: every method
// is a no-op on a nil receiver, so callers can pass a *Recorder around
// unconditionally and only pay for metrics when one was actually
// constructed and registered.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder records oracle-level counters and histograms. A nil *Recorder
// is valid and makes every method a no-op.
type Recorder struct {
	listsLoaded      *prometheus.CounterVec
	loadProblems     *prometheus.CounterVec
	chainValidations *prometheus.CounterVec
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	cacheEvictions   prometheus.Counter
}

// New builds a Recorder and registers its collectors with reg.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		listsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lote_oracle",
			Name:      "lists_loaded_total",
			Help:      "Number of LoTE lists successfully loaded, by traversal depth bucket.",
		}, []string{"depth"}),
		loadProblems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lote_oracle",
			Name:      "load_problems_total",
			Help:      "Number of problem events emitted during traversal, by kind.",
		}, []string{"kind"}),
		chainValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lote_oracle",
			Name:      "chain_validations_total",
			Help:      "Number of ChainValidatorFacade.Validate calls, by outcome.",
		}, []string{"outcome"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lote_oracle",
			Name:      "anchor_cache_hits_total",
			Help:      "Number of AsyncMemoCache lookups served from the live table.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lote_oracle",
			Name:      "anchor_cache_misses_total",
			Help:      "Number of AsyncMemoCache lookups that invoked the supplier.",
		}),
		cacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lote_oracle",
			Name:      "anchor_cache_evictions_total",
			Help:      "Number of AsyncMemoCache entries purged by the TTL sweep.",
		}),
	}

	collectors := []prometheus.Collector{
		r.listsLoaded, r.loadProblems, r.chainValidations, r.cacheHits, r.cacheMisses, r.cacheEvictions,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ListLoaded records a successfully loaded list at the given depth.
func (r *Recorder) ListLoaded(depth string) {
	if r == nil {
		return
	}
	r.listsLoaded.WithLabelValues(depth).Inc()
}

// LoadProblem records a problem event of the given kind.
func (r *Recorder) LoadProblem(kind string) {
	if r == nil {
		return
	}
	r.loadProblems.WithLabelValues(kind).Inc()
}

// ChainValidation records a ChainValidatorFacade.Validate outcome
// ("trusted", "not_trusted", "none").
func (r *Recorder) ChainValidation(outcome string) {
	if r == nil {
		return
	}
	r.chainValidations.WithLabelValues(outcome).Inc()
}

// CacheHit records an AsyncMemoCache lookup served without invoking the
// supplier.
func (r *Recorder) CacheHit() {
	if r == nil {
		return
	}
	r.cacheHits.Inc()
}

// CacheMiss records an AsyncMemoCache lookup that invoked the supplier.
func (r *Recorder) CacheMiss() {
	if r == nil {
		return
	}
	r.cacheMisses.Inc()
}

// CacheEviction records an AsyncMemoCache entry purged by the TTL sweep.
func (r *Recorder) CacheEviction() {
	if r == nil {
		return
	}
	r.cacheEvictions.Inc()
}

// Copyright 2025 QuickDeck Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shenyubao/quickdeck/pkg/log"
)

// ProviderSet is a Wire provider set for metrics
var ProviderSet = wire.NewSet(NewServer)

// MetricsConfig 指标服务配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// Server exposes job execution metrics over promhttp.
type Server struct {
	config   MetricsConfig
	registry *prometheus.Registry
	httpSrv  *http.Server

	executionsTotal   *prometheus.CounterVec
	executionDuration prometheus.Histogram
}

// NewServer creates a metrics server and registers engine collectors.
func NewServer(config MetricsConfig) *Server {
	registry := prometheus.NewRegistry()

	s := &Server{
		config:   config,
		registry: registry,
		executionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quickdeck_job_executions_total",
			Help: "Total job executions by terminal status.",
		}, []string{"status", "execution_type"}),
		executionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quickdeck_job_execution_duration_seconds",
			Help:    "Wall-clock duration of job executions.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 14),
		}),
	}

	registry.MustRegister(s.executionsTotal, s.executionDuration)
	return s
}

// ObserveExecution records one finished run.
func (s *Server) ObserveExecution(status, executionType string, duration time.Duration) {
	if s == nil {
		return
	}
	s.executionsTotal.WithLabelValues(status, executionType).Inc()
	s.executionDuration.Observe(duration.Seconds())
}

// Start serves /metrics until Stop is called. No-op when disabled.
func (s *Server) Start() error {
	if s == nil || !s.config.Enabled {
		return nil
	}
	host := s.config.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := s.config.Port
	if port == 0 {
		port = 9090
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("metrics server stopped unexpectedly", "error", err)
		}
	}()
	log.Infow("metrics server started", "addr", s.httpSrv.Addr)
	return nil
}

// Stop shuts the metrics endpoint down.
func (s *Server) Stop(ctx context.Context) error {
	if s == nil || s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

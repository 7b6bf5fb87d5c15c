// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package monitor exposes a small HTTP surface for unattended benchmark
// runs: liveness, prometheus metrics and run progress.
package monitor

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/perturbench/perturbench/services/llm"
)

// Tracker counts work units as a run progresses. Safe for concurrent use.
type Tracker struct {
	total     int64
	done      atomic.Int64
	failed    atomic.Int64
	startedAt time.Time
}

// NewTracker starts tracking a run of total work units.
func NewTracker(total int) *Tracker {
	return &Tracker{total: int64(total), startedAt: time.Now()}
}

// Done records one completed unit.
func (t *Tracker) Done() { t.done.Add(1) }

// Fail records one failed unit. Failed units also count as completed.
func (t *Tracker) Fail() {
	t.failed.Add(1)
	t.done.Add(1)
}

// ProgressSnapshot is a point-in-time view of the run.
type ProgressSnapshot struct {
	Total     int64         `json:"total"`
	Done      int64         `json:"done"`
	Failed    int64         `json:"failed"`
	Percent   float64       `json:"percent"`
	Elapsed   time.Duration `json:"elapsed_ns"`
	StartedAt time.Time     `json:"started_at"`
}

// Snapshot returns the current progress.
func (t *Tracker) Snapshot() ProgressSnapshot {
	done := t.done.Load()
	snap := ProgressSnapshot{
		Total:     t.total,
		Done:      done,
		Failed:    t.failed.Load(),
		Elapsed:   time.Since(t.startedAt),
		StartedAt: t.startedAt,
	}
	if t.total > 0 {
		snap.Percent = 100 * float64(done) / float64(t.total)
	}
	return snap
}

// Server serves the monitoring endpoints for one run.
type Server struct {
	tracker *Tracker
	usage   *llm.Usage
	logger  *slog.Logger
	httpSrv *http.Server
}

// NewServer builds a monitoring server. tracker and usage may be nil;
// the corresponding response fields are then omitted.
func NewServer(tracker *Tracker, usage *llm.Usage, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{tracker: tracker, usage: usage, logger: logger}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/progress", s.handleProgress)

	return router
}

func (s *Server) handleProgress(c *gin.Context) {
	body := gin.H{}
	if s.tracker != nil {
		body["progress"] = s.tracker.Snapshot()
	}
	if s.usage != nil {
		body["usage"] = s.usage.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// Start serves in the background until Shutdown is called.
func (s *Server) Start(addr string) {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		s.logger.Info("monitor listening", "address", addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("monitor server failed", "error", err)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

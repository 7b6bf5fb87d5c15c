// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// ProgressBar renders a single-line text progress bar, redrawn in place.
// Safe for concurrent use; rendering is serialized.
type ProgressBar struct {
	mu      sync.Mutex
	out     io.Writer
	total   int
	current int
	width   int
	label   string
}

// NewProgressBar creates a progress bar writing to out.
func NewProgressBar(out io.Writer, label string, total int) *ProgressBar {
	return &ProgressBar{out: out, label: label, total: total, width: 40}
}

// Set updates the current position and redraws the bar.
func (p *ProgressBar) Set(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = current
	p.draw()
}

// Increment advances the bar by one unit.
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current++
	p.draw()
}

// Finish completes the bar and emits a trailing newline.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = p.total
	p.draw()
	fmt.Fprintln(p.out)
}

func (p *ProgressBar) draw() {
	if p.total <= 0 {
		return
	}
	frac := float64(p.current) / float64(p.total)
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(p.width))
	arrow := ""
	if filled > 0 {
		arrow = strings.Repeat("-", filled-1) + ">"
	}
	spaces := strings.Repeat(" ", p.width-len(arrow))
	fmt.Fprintf(p.out, "\r%s: [%s%s] %d/%d", p.label, arrow, spaces, p.current, p.total)
}

// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressBar_Draw(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, "Filtering", 10)

	bar.Set(5)
	out := buf.String()
	if !strings.Contains(out, "5/10") {
		t.Errorf("expected counter 5/10 in output, got %q", out)
	}
	if !strings.Contains(out, "Filtering") {
		t.Errorf("expected label in output, got %q", out)
	}
}

func TestProgressBar_FinishReachesTotal(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, "Eval", 3)
	bar.Increment()
	bar.Finish()
	if !strings.Contains(buf.String(), "3/3") {
		t.Errorf("Finish should draw the full bar, got %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("Finish should emit a trailing newline")
	}
}

func TestProgressBar_ZeroTotalIsNoop(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, "Empty", 0)
	bar.Increment()
	if buf.Len() != 0 {
		t.Errorf("zero-total bar should not draw, got %q", buf.String())
	}
}

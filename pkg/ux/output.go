// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the perturbench CLI.
package ux

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Perturbench color palette
var (
	ColorPrimary   = lipgloss.Color("#7C6FDE") // violet - brand color
	ColorHighlight = lipgloss.Color("#A79BF0") // light violet - highlights
	ColorSuccess   = lipgloss.Color("#3DD68C") // green - kept records, correct answers
	ColorWarning   = lipgloss.Color("#F4D03F") // amber - skips, retries
	ColorError     = lipgloss.Color("#E74C3C") // red - failed tuples
	ColorMuted     = lipgloss.Color("#5C6370") // gray - rationale text, N/A cells
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title     lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
	Box       lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorHighlight),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorMuted),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1),
}

// Title prints a bold title line.
func Title(msg string) {
	fmt.Println(Styles.Title.Render(msg))
}

// Success prints a success line with a check mark.
func Success(msg string) {
	fmt.Println(Styles.Success.Render("✓ " + msg))
}

// Warn prints a warning line.
func Warn(msg string) {
	fmt.Println(Styles.Warning.Render("! " + msg))
}

// Error prints an error line to stderr.
func Error(msg string) {
	fmt.Fprintln(os.Stderr, Styles.Error.Render("✗ "+msg))
}

// Info prints a plain info line.
func Info(msg string) {
	fmt.Println(msg)
}

// KeyValue prints an aligned "key: value" line for run banners.
func KeyValue(key, value string) {
	fmt.Printf("   %-16s %s\n", key+":", Styles.Bold.Render(value))
}

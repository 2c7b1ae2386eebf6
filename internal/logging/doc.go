// SPDX-License-Identifier: MPL-2.0

// Package logging builds the structured loggers handed to resolution
// components. Every logger is a *slog.Logger backed by a charmbracelet/log
// handler, so components depend only on log/slog.
package logging

// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for the resolution hot paths:
//   - entry manifest loading and page classification
//   - component closure expansion across shared components
//   - incremental page registration after an app.json change
//
// Run them with:
//
//	go test -bench=. -benchmem ./internal/benchmark/
package benchmark

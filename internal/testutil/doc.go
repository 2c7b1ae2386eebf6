// SPDX-License-Identifier: MPL-2.0

// Package testutil provides fixture helpers for tests that build small
// mini-program projects, either in memory or on disk, failing the test
// immediately when a fixture cannot be written.
package testutil

// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// It defines the error kinds raised by manifest resolution (configuration,
// incomplete asset, invariant violation and resolution failures), a builder
// for errors that carry remediation hints, and a catalog of Markdown
// guidance rendered by the CLI in verbose mode.
package issue

// SPDX-License-Identifier: MPL-2.0

// Package format supplies the platform dialect details the resolver needs:
// file extensions, the stylesheet polyfill and the project config file name.
// Everything else in resolution is platform-agnostic.
package format

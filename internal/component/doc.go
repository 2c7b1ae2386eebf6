// SPDX-License-Identifier: MPL-2.0

// Package component discovers the transitive set of component files a page
// needs.
//
// A FileListResolver expands one JSON config into the bundles of the
// components it references. A GraphResolver drives the expansion over a
// frontier of JSON files until no new component appears. The shared Set is
// the only cycle guard: a component already in it is never expanded again,
// so mutually-referencing components terminate.
package component

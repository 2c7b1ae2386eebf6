// SPDX-License-Identifier: MPL-2.0

// Package manifest parses entry manifests (app.json) and page/component
// configs, and merges every entry's manifest into the single application
// manifest the packager emits.
//
// Parsing goes through an embedded CUE schema (manifest_schema.cue); JSON is
// valid CUE, so schema violations report JSON paths such as
// "subPackages[0].root". Fields the schema does not name are preserved in
// Extra and written back out unchanged.
package manifest

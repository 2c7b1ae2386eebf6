// SPDX-License-Identifier: MPL-2.0

// Package resolve owns one resolution pass over a set of entry manifests.
//
// A Resolver holds every registry the pass needs: the manifest merger, the
// subpackage classifier, the file registry and its template graph, the
// component set and the file tree. LoadEntries performs the initial pass;
// AppJSONChange and DrainPending grow it when an entry manifest is
// rewritten afterwards.
package resolve

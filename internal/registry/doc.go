// SPDX-License-Identifier: MPL-2.0

// Package registry schedules discovered files with the bundler exactly once.
//
// Every Register call partitions its unseen files: each script becomes its
// own named entry, and the remaining assets of the call are declared together
// under a generated chunk name. Template files additionally become root
// nodes of the template dependency graph.
package registry

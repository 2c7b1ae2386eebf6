// SPDX-License-Identifier: MPL-2.0

// Package sourceroot computes output-tree paths for source files.
//
// A Resolver is built once from the compiled-source directory, the declared
// resource roots and every entry's directory. After construction it holds no
// mutable state and may be shared by any number of goroutines.
package sourceroot

// SPDX-License-Identifier: MPL-2.0

// Package modresolve turns component requests into absolute file paths.
//
// Supported request forms:
//   - relative ("./card", "../shared/card"), resolved from the requesting directory
//   - absolute ("/abs/path/card"), then app-root-relative ("/components/card")
//   - aliased ("@ui/button"), longest alias prefix wins
//   - bare ("vant-weapp/button"), looked up in node_modules walking upwards
//
// A candidate is tried as a file, then with each extension in order, then as
// a directory (package.json "main", then index).
package modresolve

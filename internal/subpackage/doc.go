// SPDX-License-Identifier: MPL-2.0

// Package subpackage answers membership and ownership questions about
// subpackage roots. Code-splitting uses these answers to decide whether a
// shared module can move into a single subpackage.
//
// Roots are matched as literal, anchored path prefixes: "packageA/" owns
// "packageA/pages/cat/cat.js" but not "main/packageA/x.js".
package subpackage

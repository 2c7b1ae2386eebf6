// SPDX-License-Identifier: MPL-2.0

// Command minipack resolves mini-program manifests and their dependencies.
package main

import cmd "github.com/minipack/minipack/cmd/minipack"

func main() {
	cmd.Execute()
}

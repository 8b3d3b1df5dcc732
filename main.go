// SPDX-License-Identifier: MPL-2.0

// uvipack packages Python ASGI applications into container images and runs them.
package main

import cmd "uvipack/cmd/uvipack"

func main() {
	cmd.Execute()
}

// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/jdm3/dirun/cmd/dirun"

func main() {
	cmd.Execute()
}

// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/itaminv/itaminv/cmd/itaminv"

func main() {
	cmd.Execute()
}

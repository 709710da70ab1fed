/*
Copyright © 2025 Tilefort Authors
SPDX-License-Identifier: Apache-2.0
*/
package main

import "github.com/tilefort/tilefort/pkg/cli"

func main() {
	cli.Execute()
}

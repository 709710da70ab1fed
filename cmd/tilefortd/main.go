/*
Copyright © 2025 Tilefort Authors
SPDX-License-Identifier: Apache-2.0
*/
package main

import (
	"log"
	"os"

	"github.com/tilefort/tilefort/pkg/api"
)

func main() {
	if err := api.Serve(api.Options{
		ConfigPaths:  os.Args[1:],
		Watch:        true,
		StartupDelay: -1,
	}); err != nil {
		log.Fatal(err)
	}
}

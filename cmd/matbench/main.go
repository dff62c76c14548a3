// Copyright 2025 The intmat Authors. SPDX-License-Identifier: Apache-2.0

// Command matbench times the multiplication strategies of imat/contrib/matmul
// on random matrices and checks that they all agree.
//
// Usage:
//
//	matbench --rows 512 --inner 512 --cols 512 --loads 2,16,64
//	matbench --config bench.yaml --workers 4
//
// Flags given on the command line override values from the config file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

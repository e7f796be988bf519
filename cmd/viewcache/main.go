// Package main provides the viewcache CLI. It loads a JSON fixture and prints
// count and fetch windows of it under sorting, filtering and quick matching,
// the way a paged view would request them.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

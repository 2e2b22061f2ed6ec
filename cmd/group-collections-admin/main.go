// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Command group-collections-admin manages the legacy groups table and
// previews slug and role resolution.
package main

import (
	"fmt"
	"os"

	"github.com/mesh-research/group-collections-service/cmd/group-collections-admin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

var (
	// root
	verbose bool
	// root
	profile bool
	// root
	pprofPort uint16
	// batch
	inputFile string
	// check
	interactive bool
	// check
	hashed bool
	// check
	jsonOutput bool
	// batch
	threads int
)

// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package util

import "testing"

func TestFormatCount(t *testing.T) {
	if got := FormatCount(12345678); got != "12,345,678" {
		t.Errorf("FormatCount: %s, want: 12,345,678", got)
	}
}

func TestMemory(t *testing.T) {
	m, err := Memory()
	if err != nil {
		t.Skipf("memory stats not available: %s", err)
	}
	if m.TotalMiB <= 0 || m.AvailableMiB > m.TotalMiB {
		t.Errorf("Unexpected memory status: %+v", m)
	}
}

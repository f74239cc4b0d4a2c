// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cracktime

import (
	"fmt"
	"math"
)

const (
	minute = 60.0
	hour   = 60 * minute
	day    = 24 * hour
	year   = 365 * day
)

// Humanize maps seconds to a coarse, human readable bucket. Infinite durations land in
// the "centuries" bucket.
func Humanize(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 1 {
		return "less than 1 second"
	}

	switch {
	case math.IsInf(seconds, 1):
		return "centuries"
	case seconds < minute:
		return fmt.Sprintf("%.0f sec", math.Round(seconds))
	case seconds < hour:
		return fmt.Sprintf("%.0f min", math.Round(seconds/minute))
	case seconds < day:
		return fmt.Sprintf("%.0f hr", math.Round(seconds/hour))
	case seconds < year:
		return fmt.Sprintf("%.0f days", math.Round(seconds/day))
	case seconds < 1000*year:
		return fmt.Sprintf("%.1f years", seconds/year)
	default:
		return "centuries"
	}
}

// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package util

import (
	"fmt"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"net/http"
	_ "net/http/pprof"
	"runtime"
	"time"
)

// Stats logs the elapsed time and memory use when the returned func is called.
func Stats() func() {
	start := time.Now()
	return func() {
		log.Debug().Msgf("time to run %v", time.Since(start))
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		log.Debug().Msgf("Alloc: %d MB, TotalAlloc: %d MB, Sys: %d MB",
			ms.Alloc/1024/1024, ms.TotalAlloc/1024/1024, ms.Sys/1024/1024)
		log.Debug().Msgf("Mallocs: %d, Frees: %d, GC: %d", ms.Mallocs, ms.Frees, ms.NumGC)
	}
}

func ApplyCliSettings(verbose bool, profile bool, pprofPort uint16) {
	if verbose {
		log.Warn().Msgf("verbosity up")
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if profile {
		log.Info().Msgf("profiling is enabled for this session. Server will listen on port %d", pprofPort)
		go func() {
			if err := http.ListenAndServe(fmt.Sprintf("localhost:%d", pprofPort), nil); err != nil {
				log.Error().Err(err).Msgf("error starting profiling server on port %d", pprofPort)
				return
			}
		}()
	}
}

// FormatCount formats n with English thousands separators.
func FormatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// MemoryStatus is a snapshot of the host memory.
type MemoryStatus struct {
	TotalMiB     float64 `json:"totalMiB"`
	AvailableMiB float64 `json:"availableMiB"`
	UsedPercent  float64 `json:"usedPercent"`
}

func Memory() (MemoryStatus, error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return MemoryStatus{}, err
	}

	return MemoryStatus{
		TotalMiB:     float64(v.Total) / (1024 * 1024),
		AvailableMiB: float64(v.Available) / (1024 * 1024),
		UsedPercent:  v.UsedPercent,
	}, nil
}

// CheckRam warns when holding items of itemSize bytes would not fit in the available
// memory. It never stops the process.
func CheckRam(items uint64, itemSize uint64) {
	required := items * itemSize
	if memStat, err := mem.VirtualMemory(); err == nil {
		log.Debug().Msgf("system has %.2f MiB of RAM available", float64(memStat.Available)/(1024*1024))
		if required > memStat.Available {
			log.Warn().Msgf("estimated memory use for %d items is %d MiB, more than is available. Expect swapping", items, required/(1024*1024))
		}
	} else {
		log.Debug().Err(err).Msg("error getting the system memory")
	}
}

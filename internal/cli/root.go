// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rootCmd = &cobra.Command{
		Use:   "pwdassess [COMMAND] [OPTIONS]",
		Short: "Assess password strength and check it against the Pwned Passwords corpus",
		Long: "Estimate how long a password would resist guessing attacks, score its strength and check it " +
			"against the Pwned Passwords (haveibeenpwned.com) corpus using k-anonymity range queries. " +
			"Only the first 5 characters of the SHA1 hash ever leave this machine.",
		SilenceUsage: true,
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print more information on the processing")
	rootCmd.PersistentFlags().BoolVar(&profile, "profile", false, "Enable the profiling server (pprof) when running commands")
	rootCmd.PersistentFlags().Uint16Var(&pprofPort, "profile-port", 6060, "The port to use for the pprof server. Only used if the profile flag is set")
	rootCmd.PersistentFlags().String("hibp-url", "", "Base URL of the Pwned Passwords range API (env HIBP_URL)")
	rootCmd.PersistentFlags().Bool("pattern-scorer", true, "Score passwords with zxcvbn pattern matching (env PATTERN_SCORER)")
	rootCmd.PersistentFlags().String("redis-url", "", "Share the range cache through redis (env REDIS_URL)")

	viper.BindPFlag("HIBP_URL", rootCmd.PersistentFlags().Lookup("hibp-url"))
	viper.BindPFlag("PATTERN_SCORER", rootCmd.PersistentFlags().Lookup("pattern-scorer"))
	viper.BindPFlag("REDIS_URL", rootCmd.PersistentFlags().Lookup("redis-url"))
}

func Execute() error {
	return rootCmd.Execute()
}

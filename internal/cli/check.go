// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"io"
	"os"
	"pwd-assessor/internal/assess"
	"pwd-assessor/internal/config"
	"pwd-assessor/internal/util"
	"pwd-assessor/pkg/hibp"
	"regexp"
)

var sha1HexRe = regexp.MustCompile(`^[a-fA-F\d]{40}$`)

var (
	checkCmd = &cobra.Command{
		Use:   "check [PASSWORD]",
		Short: "Assess a password and look it up in the Pwned Passwords corpus",
		Args: func(cmd *cobra.Command, args []string) error {
			if !interactive {
				if err := cobra.ExactArgs(1)(cmd, args); err != nil {
					return err
				}
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return checkCommand(cmd.Context(), "")
			}
			return checkCommand(cmd.Context(), args[0])
		},
	}
)

func init() {
	checkCmd.Flags().BoolVarP(&interactive, "interactive", "n", false, "Interactive mode.")
	checkCmd.Flags().BoolVarP(&hashed, "hashed", "s", false, "If the supplied password will be a Hexadecimal SHA1 hash or a plain text string. Only the breach lookup runs for hashes.")
	checkCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full report as JSON to stdout.")

	rootCmd.AddCommand(checkCmd)
}

func checkCommand(ctx context.Context, password string) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	engine, release, err := newEngine(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer release()

	if !interactive {
		return checkInput(ctx, engine, password, os.Stdout)
	}

	var label string
	if hashed {
		label = "SHA1 Hex hash"
	} else {
		label = "Password"
	}

	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if hashed && !sha1HexRe.MatchString(input) {
				return errors.New("input is not a valid SHA1 Hexadecimal hash")
			}
			return nil
		},
	}

	if !hashed {
		prompt.Mask = '*'
	} else {
		log.Info().Msgf("flag 'hashed' is set. Please use SHA1 hashed passwords.")
	}

	log.Info().Msgf("running interactive session. ^C to exit")
	if err = runInteractiveSession(ctx, prompt, engine); err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			log.Info().Msgf("goodbye")
		} else {
			log.Error().Err(err).Msgf("error during interactive session")
		}
	}
	// No error to avoid the default cobra error message
	return nil
}

func runInteractiveSession(ctx context.Context, prompt promptui.Prompt, engine *assess.Engine) error {
	for {
		result, err := prompt.Run()
		if err != nil {
			return err
		}

		if err = checkInput(ctx, engine, result, os.Stdout); err != nil {
			log.Error().Err(err).Msg("error during check")
		}
	}
}

func checkInput(ctx context.Context, engine *assess.Engine, input string, out io.Writer) error {
	if hashed {
		res, err := engine.CheckHash(ctx, input)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(out, map[string]hibp.Result{"breach": res})
		}
		logBreach(res)
		return nil
	}

	report := engine.Assess(ctx, input)
	if jsonOutput {
		return writeJSON(out, report)
	}

	logReport(report)
	return nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func logBreach(res hibp.Result) {
	switch {
	case res.Errored:
		log.Warn().Msg("breach lookup failed, the password may or may not be pwned")
	case res.Found:
		log.Warn().Msgf("password is present in the breach corpus, seen %s times", util.FormatCount(res.Count))
	default:
		log.Info().Msg("password is not present in the breach corpus")
	}
}

func logReport(r assess.Report) {
	log.Info().Msgf("strength: %s (%d/4)", r.Strength.Label, r.Strength.Score)
	logBreach(r.Breach)

	if r.Crack != nil {
		guesses := "unknown"
		if r.Crack.Guesses != nil {
			guesses = fmt.Sprintf("%d", *r.Crack.Guesses)
		}
		log.Info().Msgf("estimated entropy: %.1f bits (%s), keyspace: %s guesses", r.Crack.Bits, r.Crack.BitsSource, guesses)
		for _, a := range r.Crack.Adversaries {
			log.Info().Msgf("time to crack, %s: %s", a.Label, a.Display)
		}
	}

	if r.Pattern != nil {
		if r.Pattern.Feedback.Warning != "" {
			log.Warn().Msg(r.Pattern.Feedback.Warning)
		}
		for _, s := range r.Pattern.Feedback.Suggestions {
			log.Info().Msgf("suggestion: %s", s)
		}
	}

	if r.Hashing != nil {
		log.Info().Msgf("%s salt: %s", r.Hashing.Algorithm, r.Hashing.Salt)
		log.Info().Msgf("%s hash: %s", r.Hashing.Algorithm, r.Hashing.Hash)
	}
	if r.InsecureHashes != nil {
		log.Info().Msgf("md5 (insecure, for comparison only): %s", r.InsecureHashes.MD5)
		log.Info().Msgf("sha1 (insecure, for comparison only): %s", r.InsecureHashes.SHA1)
	}
}

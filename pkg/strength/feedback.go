// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	suggestFewWords     = "Use a few words, avoid common phrases"
	suggestNoComplexity = "No need for symbols, digits, or uppercase letters"
	suggestAnotherWord  = "Add another word or two. Uncommon words are better."
)

type patternMatch struct {
	pattern    string
	token      string
	dictionary string
}

func emptyFeedback() Feedback {
	return Feedback{Suggestions: []string{}}
}

// feedbackFor explains the weakest part of a password. Passwords scoring 3 or more get
// no feedback.
func feedbackFor(score int, matches []patternMatch) Feedback {
	if score > 2 {
		return emptyFeedback()
	}

	longest, ok := longestMatch(matches)
	if !ok {
		return Feedback{Suggestions: []string{suggestFewWords, suggestNoComplexity}}
	}

	fb := matchFeedback(longest, len(matches) == 1)
	fb.Suggestions = append([]string{suggestAnotherWord}, fb.Suggestions...)
	return fb
}

// longestMatch skips bruteforce filler, only recognised patterns give useful advice.
func longestMatch(matches []patternMatch) (patternMatch, bool) {
	var best patternMatch
	found := false
	for _, m := range matches {
		if m.pattern == "" || m.pattern == "bruteforce" {
			continue
		}
		if !found || utf8.RuneCountInString(m.token) > utf8.RuneCountInString(best.token) {
			best = m
			found = true
		}
	}

	return best, found
}

func matchFeedback(m patternMatch, soleMatch bool) Feedback {
	switch m.pattern {
	case "dictionary", "leet":
		return dictionaryFeedback(m, soleMatch)
	case "spatial":
		return Feedback{
			Warning:     "Keyboard patterns are easy to guess",
			Suggestions: []string{"Use a longer keyboard pattern with more turns"},
		}
	case "repeat":
		return Feedback{
			Warning:     `Repeats like "aaa" are easy to guess`,
			Suggestions: []string{"Avoid repeated words and characters"},
		}
	case "sequence":
		return Feedback{
			Warning:     "Sequences like abc or 6543 are easy to guess",
			Suggestions: []string{"Avoid sequences"},
		}
	case "date":
		return Feedback{
			Warning:     "Dates are often easy to guess",
			Suggestions: []string{"Avoid dates and years that are associated with you"},
		}
	}

	return emptyFeedback()
}

func dictionaryFeedback(m patternMatch, soleMatch bool) Feedback {
	fb := emptyFeedback()

	switch strings.ToLower(m.dictionary) {
	case "passwords":
		if soleMatch {
			fb.Warning = "This is a very common password"
		} else {
			fb.Warning = "This is similar to a commonly used password"
		}
	case "english":
		if soleMatch {
			fb.Warning = "A word by itself is easy to guess"
		}
	case "surnames", "malenames", "femalenames":
		if soleMatch {
			fb.Warning = "Names and surnames by themselves are easy to guess"
		} else {
			fb.Warning = "Common names and surnames are easy to guess"
		}
	}

	if first, _ := utf8.DecodeRuneInString(m.token); unicode.IsUpper(first) {
		if strings.ToUpper(m.token) == m.token {
			fb.Suggestions = append(fb.Suggestions, "All-uppercase is almost as easy to guess as all-lowercase")
		} else {
			fb.Suggestions = append(fb.Suggestions, "Capitalization doesn't help very much")
		}
	}

	if m.pattern == "leet" {
		fb.Suggestions = append(fb.Suggestions, "Predictable substitutions like '@' instead of 'a' don't help very much")
	}

	return fb
}

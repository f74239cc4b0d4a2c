// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package charset infers the symbol space a password was drawn from.
//
// The figures produced here are a crude upper bound on the password entropy: they
// assume every character was picked uniformly at random from every class seen in
// the password, which is almost never true for human passwords.
package charset

import (
	"math"
	"unicode"
	"unicode/utf8"
)

const (
	lowerWeight      = 26
	upperWeight      = 26
	digitWeight      = 10
	symbolWeight     = 33
	whitespaceWeight = 1
)

// Profile is the result of classifying the characters of a password.
type Profile struct {
	// Size is the effective alphabet size, never less than 1.
	Size           int  `json:"size"`
	Length         int  `json:"length"`
	HasLower       bool `json:"hasLower"`
	HasUpper       bool `json:"hasUpper"`
	HasDigit       bool `json:"hasDigit"`
	HasSymbol      bool `json:"hasSymbol"`
	WhitespaceOnly bool `json:"whitespaceOnly"`
}

// Detect scans the password once and sums the weight of every character class present.
// A password made only of whitespace gets a symbol weight of 1 instead of 33.
func Detect(password string) Profile {
	p := Profile{Length: utf8.RuneCountInString(password)}

	whitespace := p.Length > 0
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			p.HasLower = true
		case r >= 'A' && r <= 'Z':
			p.HasUpper = true
		case r >= '0' && r <= '9':
			p.HasDigit = true
		default:
			p.HasSymbol = true
		}

		if !unicode.IsSpace(r) {
			whitespace = false
		}
	}
	p.WhitespaceOnly = whitespace

	if p.HasLower {
		p.Size += lowerWeight
	}
	if p.HasUpper {
		p.Size += upperWeight
	}
	if p.HasDigit {
		p.Size += digitWeight
	}
	if p.HasSymbol {
		if p.WhitespaceOnly {
			p.Size += whitespaceWeight
		} else {
			p.Size += symbolWeight
		}
	}

	if p.Size < 1 {
		p.Size = 1
	}

	return p
}

// EntropyPerChar is log2 of the alphabet size.
func (p Profile) EntropyPerChar() float64 {
	return math.Log2(float64(p.Size))
}

// Bits is the naive entropy estimate, length times the entropy per character.
func (p Profile) Bits() float64 {
	return float64(p.Length) * p.EntropyPerChar()
}

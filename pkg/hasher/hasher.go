// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package hasher produces hashes of a password for side by side comparison: one slow,
// salted, credential style hash and two fast unsalted digests.
//
// Nothing here is meant for storing credentials. The outputs exist so a user can see
// how different a slow KDF looks from MD5 or SHA-1, and are thrown away afterwards.
package hasher

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

const (
	AlgorithmPBKDF2 = "pbkdf2-sha512"
	AlgorithmArgon2 = "argon2id"
)

const (
	DefaultIterations = 100000
	DefaultKeyLength  = 64
	DefaultSaltLength = 16

	argonTime    uint32 = 3
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 2
)

// Bundle is the slow, salted hash of a password, hex encoded.
type Bundle struct {
	Algorithm string `json:"algorithm"`
	Salt      string `json:"salt"`
	Hash      string `json:"hash"`
}

// Digests are fast unsalted digests. Never use them to store a password.
type Digests struct {
	MD5  string `json:"md5"`
	SHA1 string `json:"sha1"`
}

type Hasher struct {
	algorithm  string
	iterations int
	keyLength  int
	saltLength int
}

type Option func(*Hasher)

func WithAlgorithm(algorithm string) Option {
	return func(h *Hasher) {
		h.algorithm = algorithm
	}
}

// WithIterations sets the PBKDF2 iteration count. It is ignored for argon2id.
func WithIterations(iterations int) Option {
	return func(h *Hasher) {
		h.iterations = iterations
	}
}

func WithSaltLength(n int) Option {
	return func(h *Hasher) {
		h.saltLength = n
	}
}

func New(opts ...Option) (*Hasher, error) {
	h := &Hasher{
		algorithm:  AlgorithmPBKDF2,
		iterations: DefaultIterations,
		keyLength:  DefaultKeyLength,
		saltLength: DefaultSaltLength,
	}
	for _, opt := range opts {
		opt(h)
	}

	switch h.algorithm {
	case AlgorithmPBKDF2, AlgorithmArgon2:
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", h.algorithm)
	}
	if h.iterations < 1 {
		return nil, fmt.Errorf("iterations must be positive, have %d", h.iterations)
	}
	if h.saltLength < DefaultSaltLength {
		return nil, fmt.Errorf("salt must be at least %d bytes, have %d", DefaultSaltLength, h.saltLength)
	}

	return h, nil
}

func (h *Hasher) Algorithm() string {
	return h.algorithm
}

// Slow derives a key from the password with a fresh random salt on every call. The KDF
// is fed the hex text of the salt, the same bytes the caller sees in Bundle.Salt.
func (h *Hasher) Slow(password string) (Bundle, error) {
	raw := make([]byte, h.saltLength)
	if _, err := rand.Read(raw); err != nil {
		return Bundle{}, fmt.Errorf("generate salt: %w", err)
	}
	salt := hex.EncodeToString(raw)

	var key []byte
	switch h.algorithm {
	case AlgorithmArgon2:
		key = argon2.IDKey([]byte(password), []byte(salt), argonTime, argonMemory, argonThreads, uint32(h.keyLength))
	default:
		key = pbkdf2.Key([]byte(password), []byte(salt), h.iterations, h.keyLength, sha512.New)
	}

	return Bundle{Algorithm: h.algorithm, Salt: salt, Hash: hex.EncodeToString(key)}, nil
}

// Fast returns the unsalted MD5 and SHA-1 digests of the password.
func Fast(password string) Digests {
	m := md5.Sum([]byte(password))
	s := sha1.Sum([]byte(password))
	return Digests{MD5: hex.EncodeToString(m[:]), SHA1: hex.EncodeToString(s[:])}
}

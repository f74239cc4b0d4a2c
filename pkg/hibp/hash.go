// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const prefixLen = 5

// Split hashes the password with SHA-1 and returns the uppercase hex prefix sent to the
// corpus and the suffix kept locally.
func Split(password string) (prefix, suffix string) {
	sum := sha1.Sum([]byte(password))
	hash := strings.ToUpper(hex.EncodeToString(sum[:]))
	return hash[:prefixLen], hash[prefixLen:]
}

// FindSuffix scans a range response for the suffix. The comparison ignores case and a
// count that does not parse is reported as 0. A body that can not be scanned to the end
// is an error, never a miss.
func FindSuffix(body []byte, suffix string) (bool, int, error) {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		candidate, count, _ := strings.Cut(line, ":")
		if candidate == "" {
			continue
		}

		if strings.EqualFold(candidate, suffix) {
			n, err := strconv.Atoi(strings.TrimSpace(count))
			if err != nil || n < 0 {
				n = 0
			}
			return true, n, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, 0, fmt.Errorf("error reading range response: %w", err)
	}

	return false, 0, nil
}

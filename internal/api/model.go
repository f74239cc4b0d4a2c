// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"pwd-assessor/internal/util"
	"pwd-assessor/pkg/hibp"
)

// An empty password is a valid request, it gets the "Empty" verdict.
type passwordRequest struct {
	Password string `json:"password"`
}

type hashRequest struct {
	Hash string `json:"hash" binding:"required"`
}

type hashResponse struct {
	Breach hibp.Result `json:"breach"`
}

type healthResponse struct {
	Status string             `json:"status"`
	Memory *util.MemoryStatus `json:"memory,omitempty"`
}

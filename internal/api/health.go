// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"net/http"
	"pwd-assessor/internal/util"
)

func health(c *gin.Context) {
	resp := healthResponse{Status: "ok"}
	if m, err := util.Memory(); err == nil {
		resp.Memory = &m
	} else {
		log.Debug().Err(err).Msg("error reading memory stats")
	}

	c.JSON(http.StatusOK, resp)
}

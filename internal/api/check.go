// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"github.com/gin-gonic/gin"
	"net/http"
	"pwd-assessor/internal/assess"
	"pwd-assessor/pkg/hibp"
)

type checkApi struct {
	engine *assess.Engine
}

func (q *checkApi) checkPassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, q.engine.Assess(c.Request.Context(), req.Password))
}

func (q *checkApi) checkHash(c *gin.Context) {
	var req hashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := q.engine.CheckHash(c.Request.Context(), req.Hash)
	if err != nil {
		if errors.Is(err, hibp.ErrBadHash) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	c.JSON(http.StatusOK, hashResponse{Breach: res})
}

func RegisterCheckApi(group *gin.RouterGroup, engine *assess.Engine) {
	q := &checkApi{engine: engine}

	group.POST("/password", q.checkPassword)
	group.POST("/hash", q.checkHash)
}

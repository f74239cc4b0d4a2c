// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"net/http"
	"pwd-assessor/internal/assess"
)

const requestIDHeader = "X-Request-ID"

// NewRouter wires the API routes. metrics, when not nil, is served on /metrics.
func NewRouter(engine *assess.Engine, metrics http.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(logger.SetLogger(logger.WithLogger(func(c *gin.Context, z zerolog.Logger) zerolog.Logger {
		return zerolog.New(gin.DefaultWriter).With().
			Timestamp().
			Str("request_id", c.Writer.Header().Get(requestIDHeader)).
			Logger()
	})))

	router.GET("/health", health)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	v1 := router.Group("/v1")
	v1.GET("/health", health)

	RegisterCheckApi(v1.Group("/check"), engine)
	return router
}

// requestID tags every request with a correlation id, reusing the caller's if given.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		c.Writer.Header().Set(requestIDHeader, reqID)

		c.Next()
	}
}

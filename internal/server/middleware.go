package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ninja0404/token-risk/pkg/logger"
	"github.com/ninja0404/token-risk/pkg/utils"
)

func recoveryHandler(c *gin.Context, recovered interface{}) {
	logger.LogFromContext(c.Request.Context()).Error("HTTP处理 panic",
		logger.Any("panic", recovered),
		logger.String("path", c.Request.URL.Path),
		logger.FieldStack(utils.GetStack()))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// requestLogger 给每个请求挂上带 trace id 的 logger
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		traceID := c.GetHeader("X-Request-Id")
		if traceID == "" {
			traceID = utils.GenerateReportID()
		}
		l := logger.With(logger.FieldTraceId(traceID))
		c.Request = c.Request.WithContext(logger.ContextWithLog(c.Request.Context(), l))
		c.Header("X-Request-Id", traceID)

		c.Next()

		l.Info("HTTP请求",
			logger.FieldMethod(c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.FieldCost(time.Since(start)))
	}
}

// corsMiddleware 反射 Origin 并允许携带凭证
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Add("Vary", "Origin")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if reqHeaders := c.GetHeader("Access-Control-Request-Headers"); reqHeaders != "" {
			h.Set("Access-Control-Allow-Headers", reqHeaders)
		} else {
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		c.Next()
	}
}

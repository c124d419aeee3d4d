package middleware

import (
	"net/http"
	"strings"
	"time"

	"bread-converter/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 處理器寫入 gin context 的欄位，供存取日誌使用
const (
	KeyConversionID = "conversion_id"
	KeyParser       = "parser"
	KeyCacheHit     = "cache_hit"
)

// probePaths 健康檢查路徑只記 debug，避免探針洗版
var probePaths = map[string]bool{
	"/health": true,
	"/ready":  true,
	"/live":   true,
}

// Logger 存取日誌：路由、狀態、耗時與轉換結果摘要
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("request_id", requestid.Get(c)),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.Int("bytes", c.Writer.Size()),
			zap.String("ip", c.ClientIP()),
		}
		fields = append(fields, conversionFields(c)...)
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", strings.Join(c.Errors.Errors(), "; ")))
		}

		switch {
		case probePaths[c.Request.URL.Path] && status < http.StatusInternalServerError:
			common.LogDebug("健康檢查", fields...)
		case status >= http.StatusInternalServerError:
			common.LogError("伺服器錯誤", fields...)
		case status == http.StatusUnprocessableEntity:
			common.LogInfo("食譜未通過驗證", fields...)
		case status >= http.StatusBadRequest:
			common.LogWarn("用戶端錯誤", fields...)
		default:
			common.LogInfo("請求完成", fields...)
		}
	}
}

// conversionFields 取出處理器留下的轉換資訊
func conversionFields(c *gin.Context) []zap.Field {
	var fields []zap.Field
	if id := c.GetString(KeyConversionID); id != "" {
		fields = append(fields, zap.String(KeyConversionID, id))
	}
	if parser := c.GetString(KeyParser); parser != "" {
		fields = append(fields, zap.String(KeyParser, parser))
	}
	if hit, ok := c.Get(KeyCacheHit); ok {
		fields = append(fields, zap.Any(KeyCacheHit, hit))
	}
	return fields
}

// Recovery panic 時記錄堆疊資訊並回傳 500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				common.LogError("Panic recovered",
					zap.Any("error", err),
					zap.String("request_id", requestid.Get(c)),
					zap.String("route", c.FullPath()),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, common.ErrInternalError.Response())
			}
		}()

		c.Next()
	}
}

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"sync"
	"time"

	"bread-converter/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deduplicator 記錄近期 POST 請求的指紋
type Deduplicator struct {
	mu       sync.Mutex
	window   time.Duration
	requests map[string]time.Time
	now      func() time.Time
}

// NewDeduplicator window <= 0 時使用 1 秒
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = time.Second
	}
	return &Deduplicator{
		window:   window,
		requests: make(map[string]time.Time),
		now:      time.Now,
	}
}

// seen 在視窗內出現過則回傳 true，否則記錄本次
func (d *Deduplicator) seen(fingerprint string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now

	// 順手清掉過期的指紋，避免 map 無限成長
	if len(d.requests) > 1024 {
		for k, t := range d.requests {
			if now.Sub(t) > d.window {
				delete(d.requests, k)
			}
		}
	}
	return false
}

// Handler 請求去重中間件，只處理 POST
func (d *Deduplicator) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		fingerprint := c.Request.Method + ":" + c.Request.URL.Path
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				// 交給後續處理器回報（例如超過大小限制）
				c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), errReader{err}))
				c.Next()
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
			fingerprint = common.HashParts(fingerprint, c.ClientIP(), string(body))
		}

		if d.seen(fingerprint) {
			common.LogInfo("Duplicate request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrTooManyRequests.Response())
			return
		}

		c.Next()
	}
}

// errReader 重播讀取請求體時的錯誤
type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

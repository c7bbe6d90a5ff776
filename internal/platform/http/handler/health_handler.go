// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger は依存先（データベースなど）への疎通を確認します。
type Pinger interface {
	Ping(ctx context.Context) error
}

const pingTimeout = 2 * time.Second

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// pinger が与えられた場合は疎通を確認し、失敗時は503を返します。
func Health(pinger Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		status := http.StatusOK
		if pinger != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
			defer cancel()
			if err := pinger.Ping(ctx); err != nil {
				slog.Error("health check failed", "error", err)
				status = http.StatusServiceUnavailable
			}
		}

		if c.Request.Method == http.MethodHead {
			c.Status(status)
			return
		}
		if status != http.StatusOK {
			c.JSON(status, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(status, gin.H{"status": "ok"})
	}
}

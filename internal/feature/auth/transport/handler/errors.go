package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"account_backend/internal/api"
	"account_backend/internal/feature/auth/domain"
	"account_backend/internal/platform/http/middleware"
)

// statusFor はドメインエラーの種別をHTTPステータスに変換します。
// 重複（Conflict）はsignup・updateの公開仕様どおり403として返します。
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrConflict):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError はerrを {"error": "..."} として書き込み、チェーンを中断します。
// メッセージを公開するのはドメインエラーのみで、それ以外はログに記録して500を返します。
func respondError(c *gin.Context, op string, err error) {
	log := middleware.Logger(c.Request.Context())

	var derr *domain.Error
	if !errors.As(err, &derr) {
		log.Error(op+" failed", "error", err, "remote_addr", c.ClientIP())
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}

	log.Warn(op+" rejected", "error", err, "remote_addr", c.ClientIP())
	c.AbortWithStatusJSON(statusFor(derr), api.ErrorResponse{Error: derr.Message})
}

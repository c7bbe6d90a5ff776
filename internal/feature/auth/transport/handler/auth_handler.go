// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"account_backend/internal/api"
	"account_backend/internal/feature/auth/domain"
	"account_backend/internal/feature/auth/domain/entity"
	"account_backend/internal/feature/auth/transport/http/dto"
	"account_backend/internal/platform/http/middleware"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は指定されたメールアドレスとパスワードで新規ユーザーを登録します。
	Signup(ctx context.Context, email, password string) (*entity.User, error)
	// Signin はユーザーを認証し、成功時にアクセストークンを返します。
	Signin(ctx context.Context, email, password string) (string, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - 不正なJSON・検証エラー時は400を返却
// - メール重複時は403を返却
// - 成功時は作成したユーザーのプロフィールと201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req api.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, "signup", domain.Validation("invalid request body"))
		return
	}
	if err := dto.ValidateSignup(&req); err != nil {
		respondError(c, "signup", err)
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, "signup", err)
		return
	}

	middleware.Logger(c.Request.Context()).Info("user signup successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// Signin はサインインAPIエンドポイントを処理します。
// - 不正なJSON・検証エラー時は400を返却
// - 認証失敗時は、メール不明・パスワード誤りを区別せず401を返却
// - 成功時はアクセストークン付きで200を返却
func (h *AuthHandler) Signin(c *gin.Context) {
	var req api.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, "signin", domain.Validation("invalid request body"))
		return
	}
	if err := dto.ValidateSignin(&req); err != nil {
		respondError(c, "signin", err)
		return
	}

	token, err := h.auth.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, "signin", err)
		return
	}

	middleware.Logger(c.Request.Context()).Info("user signin successful", "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.TokenResponse{AccessToken: token})
}

package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"account_backend/internal/api"
	authhandler "account_backend/internal/feature/auth/transport/handler"
	"account_backend/internal/platform/http/handler"
	"account_backend/internal/platform/http/middleware"
	jwtmw "account_backend/internal/platform/jwt"
	"account_backend/internal/shared/ratelimiter"
)

// Deps はルーターが各ルートに組み込む依存です。
type Deps struct {
	Auth          *authhandler.AuthHandler
	Users         *authhandler.UserHandler
	Verifier      jwtmw.Verifier
	SigninLimiter ratelimiter.Limiter
	// Pinger は任意。nilの場合 /healthz は生存確認のみを返す
	Pinger handler.Pinger
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())

	// 認証不要
	// 導通確認用
	health := handler.Health(d.Pinger)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.GET("/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", api.OpenAPISpec)
	})

	auth := r.Group("/auth")
	// 新規ユーザー登録
	auth.POST("/signup", d.Auth.Signup)
	// サインイン（アクセストークン発行）
	signin := []gin.HandlerFunc{d.Auth.Signin}
	if d.SigninLimiter != nil {
		signin = append([]gin.HandlerFunc{middleware.RateLimit(d.SigninLimiter)}, signin...)
	}
	auth.POST("/signin", signin...)

	// 認証必須のルート
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに Bearer トークンが必要になる
	authed := auth.Group("")
	authed.Use(jwtmw.AuthRequired(d.Verifier))
	{
		authed.GET("/me", d.Users.Me)
		authed.GET("/users", d.Users.List)
		authed.GET("/users/:id", d.Users.Get)
		// 自分のアカウントのみ変更可能
		authed.PATCH("/users/:id", authhandler.RequireOwner(), d.Users.Update)
		authed.DELETE("/users/:id", authhandler.RequireOwner(), d.Users.Delete)
	}

	return r
}

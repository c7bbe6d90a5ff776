package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"account_backend/internal/feature/auth/domain"
	"account_backend/internal/feature/auth/usecase"
	jwtmw "account_backend/internal/platform/jwt"
)

// ParseUserID はパスパラメータ :id を正のユーザーIDとしてバインドします。
func ParseUserID(c *gin.Context) (uint, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil || id < 1 {
		return 0, domain.Validation("id must be a positive integer")
	}
	return uint(id), nil
}

// RequireOwner は認証済みの呼び出し元が :id のユーザー本人である場合のみリクエストを通します。
// jwtmw.AuthRequired の後に適用する必要があります。
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, ok := jwtmw.UserIDFrom(c)
		if !ok {
			respondError(c, "ownership check", domain.ErrInvalidToken)
			return
		}

		ownerID, err := ParseUserID(c)
		if err != nil {
			respondError(c, "ownership check", err)
			return
		}

		if err := usecase.Authorize(callerID, ownerID); err != nil {
			respondError(c, "ownership check", err)
			return
		}
		c.Next()
	}
}

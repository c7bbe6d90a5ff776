package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"account_backend/internal/api"
	"account_backend/internal/feature/auth/domain"
	"account_backend/internal/feature/auth/domain/entity"
	"account_backend/internal/feature/auth/transport/http/dto"
	jwtmw "account_backend/internal/platform/jwt"
)

// UserUsecase はアカウント操作のユースケースを定義します。
type UserUsecase interface {
	GetUserByID(ctx context.Context, id uint) (*entity.User, error)
	UpdateUser(ctx context.Context, id uint, patch entity.UserPatch) (*entity.User, error)
	ListUsers(ctx context.Context) ([]entity.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

// UserHandler は /auth/me と /auth/users のHTTPリクエストを処理します。
// すべてのルートは jwtmw.AuthRequired の後ろに置かれ、更新・削除はさらに RequireOwner を通ります。
type UserHandler struct {
	users UserUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(users UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// Me は認証済みの呼び出し元自身のプロフィールを返します。
func (h *UserHandler) Me(c *gin.Context) {
	callerID, ok := jwtmw.UserIDFrom(c)
	if !ok {
		respondError(c, "get me", domain.ErrInvalidToken)
		return
	}

	user, err := h.users.GetUserByID(c.Request.Context(), callerID)
	if err != nil {
		respondError(c, "get me", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// List は全ユーザーを返します。
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponses(users))
}

// Get はパスパラメータ :id のユーザーを返します。
// - 不正なIDは400、存在しない場合は404を返却
func (h *UserHandler) Get(c *gin.Context) {
	id, err := ParseUserID(c)
	if err != nil {
		respondError(c, "get user", err)
		return
	}

	user, err := h.users.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "get user", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// Update はプロフィールを部分更新します。
// - メール重複時は403を返却
func (h *UserHandler) Update(c *gin.Context) {
	id, err := ParseUserID(c)
	if err != nil {
		respondError(c, "update user", err)
		return
	}

	var req api.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, "update user", domain.Validation("invalid request body"))
		return
	}
	patch, err := dto.ValidateUpdateUser(&req)
	if err != nil {
		respondError(c, "update user", err)
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, "update user", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// Delete はアカウントと所有するデータをまとめて削除し、204を返します。
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := ParseUserID(c)
	if err != nil {
		respondError(c, "delete user", err)
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, "delete user", err)
		return
	}
	c.Status(http.StatusNoContent)
}

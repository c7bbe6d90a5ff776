package adapters

import (
	"time"

	"account_backend/internal/feature/auth/domain/entity"
)

// UserModel はusersテーブルのGORMモデルです。
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"size:255;uniqueIndex;not null"`
	Password  string    `gorm:"size:255;not null"`
	FirstName *string   `gorm:"size:255"`
	LastName  *string   `gorm:"size:255"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName はGORMで使用するテーブル名を返します。
func (UserModel) TableName() string {
	return "users"
}

// ToEntity はGORMモデルをドメインエンティティに変換します。
func (m *UserModel) ToEntity() *entity.User {
	return &entity.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.Password,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// UserModelFromEntity はドメインエンティティをGORMモデルに変換します。
func UserModelFromEntity(u *entity.User) *UserModel {
	return &UserModel{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.PasswordHash,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// BookmarkModel はbookmarksテーブルのGORMモデルです。
// ブックマークはユーザーに属し、ユーザー削除時に一緒に削除されます。
type BookmarkModel struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"index;not null"`
	Title       string    `gorm:"size:255;not null"`
	Description *string   `gorm:"size:1024"`
	Link        string    `gorm:"size:2048;not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName はGORMで使用するテーブル名を返します。
func (BookmarkModel) TableName() string {
	return "bookmarks"
}

// Models はauthフィーチャーが所有するテーブルをマイグレーション順に返します。
func Models() []any {
	return []any{&UserModel{}, &BookmarkModel{}}
}

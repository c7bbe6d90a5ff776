package usecase

import (
	"context"
	"errors"

	"account_backend/internal/feature/auth/domain"
	"account_backend/internal/feature/auth/domain/entity"
)

// GetUserByID returns the user or domain.ErrUserNotFound.
func (u *AccountUsecase) GetUserByID(ctx context.Context, id uint) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	return user, nil
}

// UpdateUser applies a partial profile update. Omitted fields are left unchanged.
func (u *AccountUsecase) UpdateUser(ctx context.Context, id uint, patch entity.UserPatch) (*entity.User, error) {
	user, err := u.users.Update(ctx, id, patch)
	if err != nil {
		return nil, translate(err, domain.ErrEmailInUse)
	}
	return user, nil
}

// ListUsers returns every user. There is no pagination.
func (u *AccountUsecase) ListUsers(ctx context.Context) ([]entity.User, error) {
	return u.users.List(ctx)
}

// DeleteUser removes the user together with all records the user owns.
func (u *AccountUsecase) DeleteUser(ctx context.Context, id uint) error {
	if err := u.users.DeleteCascade(ctx, id); err != nil {
		return translate(err, nil)
	}
	return nil
}

// translate maps repository signals to domain errors; anything else is returned unchanged.
func translate(err error, conflict *domain.Error) error {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return domain.ErrUserNotFound
	case conflict != nil && errors.Is(err, ErrEmailAlreadyExists):
		return conflict
	default:
		return err
	}
}

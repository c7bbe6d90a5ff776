package usecase

import "account_backend/internal/feature/auth/domain"

// Authorize allows a caller to act only on the account it owns.
func Authorize(callerID, ownerID uint) error {
	if callerID != ownerID {
		return domain.ErrNotOwner
	}
	return nil
}

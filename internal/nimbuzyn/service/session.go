package service

import (
	"context"
	"errors"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/store"
	"github.com/nimbuzyn/nimbuzyn/pkg/jwtx"
)

// SessionService turns a successful login into a signed session token and
// resolves tokens back to accounts. There is no server-side session state:
// logout is the client discarding its token.
type SessionService struct {
	Store  store.Store
	Signer *jwtx.SessionSigner
}

// Issue mints a session token for the user.
func (s *SessionService) Issue(user domain.User) (string, error) {
	return s.Signer.Mint(user.ID)
}

// Resolve verifies a token and returns the account it belongs to. A valid
// token for a user that no longer resolves fails with ErrInvalidCredentials.
func (s *SessionService) Resolve(ctx context.Context, token string) (domain.User, error) {
	userID, err := s.Signer.Verify(token)
	if err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	return user, nil
}

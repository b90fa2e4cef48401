package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// UserGetter is the store surface the credential verifier needs.
type UserGetter interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// UserProvider verifies email/password pairs against the user store.
type UserProvider struct {
	store  UserGetter
	hasher PasswordAuthenticator
	logger Logger
}

var _ CredentialVerifier = (*UserProvider)(nil)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserGetter) *UserProvider {
	return &UserProvider{
		store:  store,
		hasher: NewBcryptHasher(DefaultBcryptCost),
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(logger Logger) *UserProvider {
	if logger != nil {
		u.logger = logger
	}
	return u
}

func (u *UserProvider) WithHasher(hasher PasswordAuthenticator) *UserProvider {
	if hasher != nil {
		u.hasher = hasher
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return
// the identity. Unknown emails and wrong passwords produce the same
// error so callers can not tell them apart.
func (u *UserProvider) VerifyIdentity(ctx context.Context, email, password string) (Identity, error) {
	user, err := u.store.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := u.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		u.logger.Debug("VerifyIdentity password mismatch", "email", email)
		return nil, ErrInvalidCredentials
	}

	return IdentityFromUser(user), nil
}

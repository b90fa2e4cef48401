package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	auth "github.com/teachmeit/go-auth"
)

func TestUserProviderVerifyIdentity(t *testing.T) {
	ctx := context.Background()

	store := newMemoryStore()
	_, err := store.Save(ctx, &auth.User{
		FirstName:    "Pepe",
		LastName:     "Rone",
		Email:        "pepe.rone@example.com",
		PasswordHash: "hashed:super-secret-pw",
	})
	require.NoError(t, err)

	provider := auth.NewUserProvider(store).WithHasher(stubHasher{})

	t.Run("valid credentials return identity", func(t *testing.T) {
		identity, err := provider.VerifyIdentity(ctx, "pepe.rone@example.com", "super-secret-pw")
		require.NoError(t, err)
		assert.Equal(t, "pepe.rone@example.com", identity.Email())
		assert.Equal(t, "Pepe Rone", identity.Name())
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := provider.VerifyIdentity(ctx, "nobody@example.com", "super-secret-pw")
		assert.True(t, auth.IsInvalidCredentials(err))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := provider.VerifyIdentity(ctx, "pepe.rone@example.com", "wrong-pw")
		assert.True(t, auth.IsInvalidCredentials(err))
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		_, errUnknown := provider.VerifyIdentity(ctx, "nobody@example.com", "super-secret-pw")
		_, errWrongPw := provider.VerifyIdentity(ctx, "pepe.rone@example.com", "wrong-pw")
		assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
	})
}

func TestIdentityFromUserNil(t *testing.T) {
	assert.Nil(t, auth.IdentityFromUser(nil))
}

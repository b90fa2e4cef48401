package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"

	goerrors "github.com/goliatone/go-errors"
)

// codeSpace covers the 6 digit range 000000-999999.
var codeSpace = big.NewInt(1_000_000)

// NewVerificationCode returns a uniform random 6 digit numeric string.
// Codes are single use per field and overwritten by each new request;
// collisions across users are possible and acceptable.
func NewVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate verification code")
	}
	return fmt.Sprintf("%06d", n), nil
}

package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account record the flows operate on. Email is the sole
// external identifier; uniqueness is enforced by the store at creation.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FirstName    string    `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName     string    `bun:"last_name,notnull" json:"last_name,omitempty"`
	Email        string    `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone        string    `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash string    `bun:"password_hash" json:"-"`

	// EmailVerifyCode is non nil only while the account is unverified and
	// a verification email is in flight.
	EmailVerified   bool    `bun:"is_email_verified" json:"is_email_verified"`
	EmailVerifyCode *string `bun:"email_verify_code" json:"-"`

	// PasswordResetCode is non nil only between a forgot password request
	// and the completing reset.
	PasswordResetCode *string `bun:"password_reset_code" json:"-"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// FullName joins first and last name for email templates.
func (u *User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// VerifyCodeMatches compares a submitted code against the stored email
// verification code. A user with no code in flight matches nothing.
func (u *User) VerifyCodeMatches(code string) bool {
	return u.EmailVerifyCode != nil && code != "" && *u.EmailVerifyCode == code
}

// ResetCodeMatches compares a submitted code against the stored password
// reset code.
func (u *User) ResetCodeMatches(code string) bool {
	return u.PasswordResetCode != nil && code != "" && *u.PasswordResetCode == code
}

func prepareUserDefaults(user *User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = strings.TrimSpace(user.Email)
}

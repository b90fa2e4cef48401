package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
)

// SignUpInput carries the fields collected at registration.
type SignUpInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone_number"`
	Password  string `json:"password"`
}

// SignInResult pairs the bearer token with the authenticated record.
// The caller owns both; no ambient security context is mutated.
type SignInResult struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// Flows orchestrates the account workflows: sign in, sign up, email
// verification, and password reset. Each workflow is a synchronous
// sequence of collaborator calls; failures propagate immediately and
// nothing is retried or rolled back.
type Flows struct {
	verifier CredentialVerifier
	tokens   TokenIssuer
	store    UserStore
	hasher   PasswordAuthenticator
	mailer   Mailer
	renderer TemplateRenderer
	logger   Logger
}

// NewFlows wires the orchestrator with default hasher, mailer, and
// renderer. Override collaborators with the With* methods.
func NewFlows(verifier CredentialVerifier, tokens TokenIssuer, store UserStore) *Flows {
	return &Flows{
		verifier: verifier,
		tokens:   tokens,
		store:    store,
		hasher:   NewBcryptHasher(DefaultBcryptCost),
		mailer:   NewConsoleMailer(nil),
		renderer: literalRenderer{},
		logger:   defLogger{},
	}
}

func (f *Flows) WithLogger(logger Logger) *Flows {
	if logger != nil {
		f.logger = logger
	}
	return f
}

func (f *Flows) WithHasher(hasher PasswordAuthenticator) *Flows {
	if hasher != nil {
		f.hasher = hasher
	}
	return f
}

func (f *Flows) WithMailer(mailer Mailer) *Flows {
	if mailer != nil {
		f.mailer = mailer
	}
	return f
}

func (f *Flows) WithRenderer(renderer TemplateRenderer) *Flows {
	if renderer != nil {
		f.renderer = renderer
	}
	return f
}

func (f *Flows) guard(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during "+op)
	default:
		return nil
	}
}

// SignIn validates the credentials and returns a bearer token with the
// stored record. Verification status is checked before a token is
// minted, an unverified account never receives one.
func (f *Flows) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	if err := f.guard(ctx, "sign in"); err != nil {
		return nil, err
	}

	identity, err := f.verifier.VerifyIdentity(ctx, email, password)
	if err != nil {
		f.logger.Debug("SignIn verify identity failed", "email", email, "error", err)
		return nil, ErrInvalidCredentials
	}

	user, err := f.store.GetByEmail(ctx, email)
	if err != nil && !repository.IsRecordNotFound(err) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user during sign in")
	}

	if user != nil && !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	token, err := f.tokens.Generate(identity)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue token")
	}

	return &SignInResult{Token: token, User: user}, nil
}

// SignUp creates an unverified account carrying a fresh verification
// code and emails the code to the new address.
func (f *Flows) SignUp(ctx context.Context, input SignUpInput) (*User, error) {
	if err := f.guard(ctx, "sign up"); err != nil {
		return nil, err
	}

	exists, err := f.store.Exists(ctx, input.Email)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing account")
	}

	if exists {
		return nil, ErrEmailAlreadyRegistered
	}

	code, err := NewVerificationCode()
	if err != nil {
		return nil, err
	}

	hash, err := f.hasher.HashPassword(input.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           input.Email,
		Phone:           input.Phone,
		PasswordHash:    hash,
		EmailVerified:   false,
		EmailVerifyCode: &code,
	}

	if id, err := hashid.NewUUID(input.Email); err == nil {
		user.ID = id
	}

	saved, err := f.store.Save(ctx, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
	}

	if err := f.sendCodeEmail(ctx, saved, code, TemplateEmailVerification, "Email Verification"); err != nil {
		return nil, err
	}

	return saved, nil
}

// VerifyEmail confirms control of the address. On a matching code the
// verified flag flips and the code is cleared.
func (f *Flows) VerifyEmail(ctx context.Context, email, code string) (*User, error) {
	if err := f.guard(ctx, "email verification"); err != nil {
		return nil, err
	}

	user, err := f.getUser(ctx, email, "email verification")
	if err != nil {
		return nil, err
	}

	if !user.VerifyCodeMatches(code) {
		return nil, ErrInvalidCode
	}

	user.EmailVerified = true
	user.EmailVerifyCode = nil

	saved, err := f.store.Save(ctx, user)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist verified user")
	}

	if err := f.sendNotice(ctx, saved, "Email Verification", "<p>Your email address has been verified.</p>"); err != nil {
		return nil, err
	}

	return saved, nil
}

// ForgotPassword issues a fresh reset code, overwriting any prior one,
// and emails it to the account address.
func (f *Flows) ForgotPassword(ctx context.Context, email string) (*User, error) {
	if err := f.guard(ctx, "forgot password"); err != nil {
		return nil, err
	}

	user, err := f.getUser(ctx, email, "forgot password")
	if err != nil {
		return nil, err
	}

	code, err := NewVerificationCode()
	if err != nil {
		return nil, err
	}

	user.PasswordResetCode = &code

	saved, err := f.store.Save(ctx, user)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist reset code")
	}

	if err := f.sendCodeEmail(ctx, saved, code, TemplatePasswordReset, "Password Reset"); err != nil {
		return nil, err
	}

	return saved, nil
}

// CheckPasswordResetCode reports whether the submitted code matches the
// stored reset code without consuming it.
func (f *Flows) CheckPasswordResetCode(ctx context.Context, email, code string) (*User, error) {
	if err := f.guard(ctx, "reset code check"); err != nil {
		return nil, err
	}

	user, err := f.getUser(ctx, email, "reset code check")
	if err != nil {
		return nil, err
	}

	if !user.ResetCodeMatches(code) {
		return nil, ErrInvalidCode
	}

	return user, nil
}

// ResetPassword consumes the reset code and installs the new password.
// The stale code fails any further reset attempt.
func (f *Flows) ResetPassword(ctx context.Context, email, code, newPassword string) (*User, error) {
	if err := f.guard(ctx, "password reset"); err != nil {
		return nil, err
	}

	user, err := f.getUser(ctx, email, "password reset")
	if err != nil {
		return nil, err
	}

	if !user.ResetCodeMatches(code) {
		return nil, ErrInvalidCode
	}

	hash, err := f.hasher.HashPassword(newPassword)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash new password")
	}

	user.PasswordHash = hash
	user.PasswordResetCode = nil

	saved, err := f.store.Save(ctx, user)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist new password")
	}

	if err := f.sendNotice(ctx, saved, "Password reset successfully", "<p>Your password was reset successfully.</p>"); err != nil {
		return nil, err
	}

	return saved, nil
}

func (f *Flows) getUser(ctx context.Context, email, op string) (*User, error) {
	user, err := f.store.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user during "+op)
	}
	return user, nil
}

func (f *Flows) sendCodeEmail(ctx context.Context, user *User, code, template, subject string) error {
	body, err := f.renderer.Render(template, map[string]any{
		"user": user,
		"code": code,
	})
	if err != nil {
		return err
	}

	return f.send(ctx, user, subject, body)
}

func (f *Flows) sendNotice(ctx context.Context, user *User, subject, body string) error {
	return f.send(ctx, user, subject, body)
}

// send dispatches a message. A transport failure aborts the workflow
// but does not undo the state change that already persisted.
func (f *Flows) send(ctx context.Context, user *User, subject, body string) error {
	msg := Message{
		Subject: subject,
		HTML:    body,
		Mode:    MailModeSMTP,
		To:      user.Email,
	}

	if err := f.mailer.SendHTML(ctx, msg); err != nil {
		f.logger.Error("mailer dispatch failed", "to", user.Email, "subject", subject, "error", err)
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to send notification email")
	}

	return nil
}

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// userSaveColumns is the explicit column list for upserts so cleared
// verification and reset codes are written back as NULL.
var userSaveColumns = []string{
	"first_name",
	"last_name",
	"email",
	"phone_number",
	"password_hash",
	"is_email_verified",
	"email_verify_code",
	"password_reset_code",
	"updated_at",
}

// Users is the account repository
type Users interface {
	repository.Repository[*User]

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)

	Exists(ctx context.Context, email string) (bool, error)
	ExistsTx(ctx context.Context, tx bun.IDB, email string) (bool, error)

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)

	Save(ctx context.Context, user *User) (*User, error)
	SaveTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users     = (*users)(nil)
	_ UserStore = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)
	return a.Repository.CreateTx(ctx, tx, user)
}

func (a *users) Exists(ctx context.Context, email string) (bool, error) {
	return a.ExistsTx(ctx, a.db, email)
}

func (a *users) ExistsTx(ctx context.Context, tx bun.IDB, email string) (bool, error) {
	return tx.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Exists(ctx)
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": email,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) Save(ctx context.Context, user *User) (*User, error) {
	return a.SaveTx(ctx, a.db, user)
}

// SaveTx upserts the record by email. Updates use an explicit column
// list, a nil code field clears the stored code.
func (a *users) SaveTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	existing, err := a.GetByEmailTx(ctx, tx, user.Email)
	if err != nil {
		if !repository.IsRecordNotFound(err) {
			return nil, err
		}
		return a.RegisterTx(ctx, tx, user)
	}

	user.ID = existing.ID

	now := time.Now()
	user.UpdatedAt = &now

	_, err = tx.NewUpdate().
		Model(user).
		Column(userSaveColumns...).
		WherePK().
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, err
	}

	return user, nil
}

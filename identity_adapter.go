package auth

// userIdentity adapts a persisted User into the Identity the token
// service consumes.
type userIdentity struct {
	id    string
	email string
	name  string
}

var _ Identity = (*userIdentity)(nil)

func (i userIdentity) ID() string    { return i.id }
func (i userIdentity) Email() string { return i.email }
func (i userIdentity) Name() string  { return i.name }

// IdentityFromUser exposes a User as an Identity.
func IdentityFromUser(user *User) Identity {
	if user == nil {
		return nil
	}
	return userIdentity{
		id:    user.ID.String(),
		email: user.Email,
		name:  user.FullName(),
	}
}

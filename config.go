package auth

// SimpleConfig is a plain struct implementation of Config for embedding
// applications that do not carry their own configuration container.
type SimpleConfig struct {
	SigningKey      string   `json:"signing_key" yaml:"signing_key"`
	TokenExpiration int      `json:"token_expiration" yaml:"token_expiration"`
	Issuer          string   `json:"issuer" yaml:"issuer"`
	Audience        []string `json:"audience" yaml:"audience"`
}

var _ Config = (*SimpleConfig)(nil)

func (c *SimpleConfig) GetSigningKey() string { return c.SigningKey }

// GetTokenExpiration is the token lifetime in hours.
func (c *SimpleConfig) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return 24
	}
	return c.TokenExpiration
}

func (c *SimpleConfig) GetIssuer() string { return c.Issuer }

func (c *SimpleConfig) GetAudience() []string { return c.Audience }

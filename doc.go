// Package auth implements email/password account flows for web backends:
// sign in, sign up, email verification, and password reset.
//
// The Flows orchestrator drives each workflow as a short sequence of calls
// to narrow collaborators (CredentialVerifier, TokenIssuer, UserStore,
// Mailer, PasswordAuthenticator) plus state transitions on the User record.
// Defaults are provided for every collaborator so the package is usable
// out of the box:
//   - UserProvider verifies credentials against the Users repository with
//     bcrypt comparison.
//   - TokenService issues and validates HS256 JWTs.
//   - The Users repository persists accounts through Bun.
//   - Renderer produces HTML email bodies from django templates; transport
//     stays behind the Mailer interface.
//
// AuthController exposes the workflows as a JSON API over go-router for
// applications that want the stock HTTP surface.
package auth

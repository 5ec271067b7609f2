// Package auth issues and validates the bearer tokens that protect the
// HTTP API. Tokens are HS256 JWTs signed with the configured shared secret;
// there are no user accounts, so the subject names the client the token
// was issued to.
package auth

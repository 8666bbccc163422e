package auth

import "context"

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID string
	Email  string
	Token  string
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.UserID != ""
}

// UserID returns the caller's id or "".
func UserID(ctx context.Context) string {
	id, _ := FromContext(ctx)
	return id.UserID
}

// Verifier resolves a bearer token to the caller.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// JWTVerifier checks HS256 access tokens locally. Supabase access tokens
// verify the same way when given the project's JWT secret.
type JWTVerifier struct {
	Secret string
}

func (v JWTVerifier) Verify(_ context.Context, token string) (Identity, error) {
	c, err := ParseToken(token, v.Secret)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: c.UserID(), Email: c.Email, Token: token}, nil
}

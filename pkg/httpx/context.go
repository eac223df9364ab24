package httpx

import "context"

type ctxKey string

const (
	// CtxKeyEmail and CtxKeyPlatform together carry the authenticated
	// compound identity.
	CtxKeyEmail    ctxKey = "email"
	CtxKeyPlatform ctxKey = "platform"
	CtxKeyClaims   ctxKey = "claims"
)

// IdentityFromCtx returns the authenticated (email, platform) pair, or
// ok=false when the request was not authenticated.
func IdentityFromCtx(ctx context.Context) (email, platform string, ok bool) {
	email, _ = ctx.Value(CtxKeyEmail).(string)
	platform, _ = ctx.Value(CtxKeyPlatform).(string)
	return email, platform, email != "" && platform != ""
}

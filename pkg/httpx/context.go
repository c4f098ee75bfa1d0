package httpx

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyClaims ctxKey = "claims" // full jwtx.Claims if a handler needs them
)

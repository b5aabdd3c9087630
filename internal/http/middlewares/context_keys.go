package middlewares

// Keys for identity and request metadata stashed on the gin context.
// Exported so handler tests can seed identity without a real token.
const (
	CtxUserID    = "auth.userID"
	CtxEmail     = "auth.email"
	CtxName      = "auth.name"
	CtxRole      = "auth.role"
	CtxRequestID = "request_id"
)

package middlewares

const (
	CtxUserID    = "auth.userID"
	CtxUsername  = "auth.username"
	CtxRole      = "auth.role"
	CtxRequestID = "request_id"
)

// SessionCookieName is the server-signed cookie carrying the session token.
const SessionCookieName = "fleet_session"

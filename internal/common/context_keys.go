// File: internal/common/context_keys.go
package common

const (
	// LoggerKey is the gin context key holding the request-scoped *zap.Logger.
	LoggerKey = "logger"
	// SessionKey is the gin context key holding the client's *session.Session.
	SessionKey = "session"
	// SessionUserKey is the gin context key holding the logged-in *session.Snapshot.
	SessionUserKey = "sessionUser"
	// SessionUserAttribute is the session attribute the login flow writes the snapshot under.
	SessionUserAttribute = "user"
)

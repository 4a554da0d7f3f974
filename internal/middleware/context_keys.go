package middleware

// contextKey is a private type for context keys defined in this package, so
// they can never collide with keys from other packages.
type contextKey string

const (
	loggerKey    = contextKey("logger")
	requestIDKey = contextKey("requestID")
)

package requestctx

import "context"

type ctxKey string

const (
	requestIDKey  ctxKey = "request_id"
	sessionIDKey  ctxKey = "session_id"
	newSessionKey ctxKey = "new_session"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

func GetSessionID(ctx context.Context) string {
	if value, ok := ctx.Value(sessionIDKey).(string); ok {
		return value
	}
	return ""
}

// WithNewSession marks a session id that was minted for this request rather than
// presented by the client.
func WithNewSession(ctx context.Context) context.Context {
	return context.WithValue(ctx, newSessionKey, true)
}

func IsNewSession(ctx context.Context) bool {
	value, _ := ctx.Value(newSessionKey).(bool)
	return value
}

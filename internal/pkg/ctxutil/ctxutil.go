package ctxutil

import "context"

type requestDataKey struct{}

// RequestData is the authenticated identity of the current request. It is
// attached by the auth middleware and threaded through context; services
// always receive the acting user id explicitly, never from globals.
type RequestData struct {
	UserID      int64
	Username    string
	Role        string
	TokenString string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey{})
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}

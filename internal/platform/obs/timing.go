package obs

import (
	"context"
	"time"

	"evacuation-planner-service/internal/platform/log"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID returns ctx carrying id for Time and handler logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(RequestIDKey).(string)
	return reqID
}

// Time logs the duration of op when the returned func is called, usually deferred
// with a pointer to the named error result.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Info("op finished", "req_id", reqID, "op", name, "dur", dur, "err", *errp)
			return
		}
		log.Debug("op finished", "req_id", reqID, "op", name, "dur", dur)
	}
}

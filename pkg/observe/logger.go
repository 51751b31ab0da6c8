package observe

import (
	"context"
	"log/slog"
)

// Logger logs every event: transitions at debug, violations and failures at warn.
func Logger(logger *slog.Logger) Observer {
	return Func(func(ctx context.Context, e Event) {
		attrs := []any{
			"agent", e.Agent,
			"event_id", e.ID,
			"input", e.Input,
			"duration", e.Duration,
		}
		if e.Err != nil {
			logger.WarnContext(ctx, "agent "+string(e.Type), append(attrs, "before", e.Before.String(), "err", e.Err)...)
			return
		}
		logger.DebugContext(ctx, "agent transition", append(attrs,
			"output", e.Output,
			"before", e.Before.String(),
			"after", e.After.String(),
		)...)
	})
}

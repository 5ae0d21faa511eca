package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
type LogFields struct {
	GuildID    *string
	QuestionID *string
	ActorID    *string
	Action     *string
	Caller     *string // authenticated front-end service
	Component  string  // e.g. "tabot.lifecycle"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, newer non-nil values win.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := mergeFields(GetLogFields(ctx), fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.GuildID != nil {
		result.GuildID = next.GuildID
	}
	if next.QuestionID != nil {
		result.QuestionID = next.QuestionID
	}
	if next.ActorID != nil {
		result.ActorID = next.ActorID
	}
	if next.Action != nil {
		result.Action = next.Action
	}
	if next.Caller != nil {
		result.Caller = next.Caller
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr returns a pointer to v, for inline LogFields literals.
func Ptr[T any](v T) *T {
	return &v
}

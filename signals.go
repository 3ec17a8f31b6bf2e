package normalize

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for serialization events.
var (
	SignalSerializeStart    = capitan.NewSignal("normalize.serialize.start", "Serialization beginning")
	SignalSerializeComplete = capitan.NewSignal("normalize.serialize.complete", "Serialization finished")
	SignalSensitiveMasked   = capitan.NewSignal("normalize.mask.sensitive", "Sensitive key value masked")
)

// Keys for typed event data.
var (
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
	KeyMaskedCount = capitan.NewIntKey("masked_count")
	KeyFieldKey    = capitan.NewStringKey("field_key")
	KeyPattern     = capitan.NewStringKey("pattern")
)

// emitSerializeStart emits an event when a top-level call begins.
func emitSerializeStart(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalSerializeStart,
		KeyTypeName.Field(typeName),
	)
}

// emitSerializeComplete emits an event when a top-level call finishes.
func emitSerializeComplete(ctx context.Context, typeName string, duration time.Duration, masked int, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
		KeyMaskedCount.Field(masked),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSerializeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalSerializeComplete, fields...)
	}
}

// emitSensitiveMasked emits a security event when a hidden-key match causes
// a value to be masked. Fire-and-forget; serialization output does not
// depend on delivery.
func emitSensitiveMasked(ctx context.Context, key, pattern string) {
	capitan.Error(ctx, SignalSensitiveMasked,
		KeyFieldKey.Field(key),
		KeyPattern.Field(pattern),
	)
}

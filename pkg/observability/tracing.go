package observability

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// Tracer wraps X-Ray segments around store and tool operations. A nil *Tracer
// is valid and traces nothing, so callers never branch on whether tracing is
// enabled.
type Tracer struct {
	serviceName string
}

// NewTracer creates a tracer for the given service name.
func NewTracer(serviceName string) *Tracer {
	return &Tracer{serviceName: serviceName}
}

// Capture runs fn inside a subsegment, recording its error if any.
func (t *Tracer) Capture(ctx context.Context, name string, fn func(context.Context) error) error {
	if t == nil {
		return fn(ctx)
	}
	return xray.Capture(ctx, fmt.Sprintf("%s.%s", t.serviceName, name), fn)
}

// AddAnnotation adds an indexed annotation to the current segment.
func (t *Tracer) AddAnnotation(ctx context.Context, key, value string) {
	if t == nil {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddAnnotation(key, value)
	}
}

// RecordError records an error on the current segment.
func (t *Tracer) RecordError(ctx context.Context, err error) {
	if t == nil || err == nil {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddError(err)
	}
}

// Package render dispatches a built document to the format encoders.
package render

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	billdomain "github.com/ridewell/motorbill/internal/bill/domain"
	"github.com/ridewell/motorbill/internal/document"
	"github.com/ridewell/motorbill/internal/observability/metrics"
	"github.com/ridewell/motorbill/internal/pricing"
)

// Encoder turns the shared content model into format-specific bytes.
type Encoder interface {
	Encode(doc document.Document) ([]byte, error)
}

type Params struct {
	fx.In

	Log     *zap.Logger
	Builder *document.Builder
}

type Renderer struct {
	log      *zap.Logger
	builder  *document.Builder
	encoders map[document.Format]Encoder
}

func New(p Params, encoders map[document.Format]Encoder) *Renderer {
	return &Renderer{
		log:      p.Log.Named("document.render"),
		builder:  p.Builder,
		encoders: encoders,
	}
}

// Render produces the document bytes for a bill. The (bill, breakdown) pair
// is taken by value: no render path can mutate state another path observes.
func (r *Renderer) Render(bill billdomain.Bill, breakdown pricing.Breakdown, format document.Format) ([]byte, error) {
	encoder, ok := r.encoders[format]
	if !ok {
		return nil, document.ErrUnknownFormat
	}

	doc := r.builder.Build(bill, breakdown)
	out, err := encoder.Encode(doc)
	if err != nil {
		return nil, err
	}

	metrics.DocumentsRendered.WithLabelValues(string(format)).Inc()
	r.log.Debug("document rendered",
		zap.String("bill_id", bill.ID.String()),
		zap.String("format", string(format)),
		zap.Int("bytes", len(out)),
	)
	return out, nil
}

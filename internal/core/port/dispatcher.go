package port

import (
	"context"
	"herbie/internal/core/domain"
)

type SequenceDispatcher interface {
	// Dispatch sends every entry of a sequence to the recipient in order.
	// It blocks until the whole sequence has been attempted; callers that
	// must not wait run it on their own goroutine.
	Dispatch(ctx context.Context, recipientID string, sequence domain.ResponseSequence)
}

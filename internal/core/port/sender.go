package port

import (
	"context"
	"herbie/internal/core/domain"
)

type DMSender interface {
	// SendText sends a plain text direct message to the given participant.
	SendText(ctx context.Context, participantID, text string) error
	// SendMedia sends a direct message carrying a pre-uploaded media attachment.
	SendMedia(ctx context.Context, participantID, mediaID string) error
}

type IdentityResolver interface {
	// ResolveSelf returns the identity of the authenticated bot account.
	ResolveSelf(ctx context.Context) (domain.BotIdentity, error)
}

package service

import (
	"context"
	"time"

	"herbie/internal/core/domain"
	"herbie/internal/core/port"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// Dispatcher sends response sequences one message at a time, waiting a fixed
// delay between sends to pace delivery against platform rate limits and keep
// client-side ordering intact.
type Dispatcher struct {
	sender port.DMSender
	delay  time.Duration
}

func NewDispatcher(sender port.DMSender, delay time.Duration) *Dispatcher {
	return &Dispatcher{sender: sender, delay: delay}
}

// Dispatch attempts every entry of the sequence in order. A failed send is
// logged and does not abort the remaining entries. The delay elapses after
// every attempt, success or failure.
func (d *Dispatcher) Dispatch(ctx context.Context, recipientID string, sequence domain.ResponseSequence) {
	id, _ := uuid.NewV4()
	logger := log.With().Str("dispatch", id.String()).Str("recipientID", recipientID).Logger()

	logger.Debug().Int("entries", len(sequence)).Msg("dispatching sequence")

	for i, entry := range sequence {
		switch entry.Kind {
		case domain.Media:
			if err := d.sender.SendMedia(ctx, recipientID, entry.MediaID); err != nil {
				logger.Error().Err(err).Int("position", i).Str("mediaID", entry.MediaID).
					Msg("failed to send media message")
			} else {
				logger.Debug().Int("position", i).Str("mediaID", entry.MediaID).Msg("sent media message")
			}
		case domain.Text:
			if err := d.sender.SendText(ctx, recipientID, entry.Text); err != nil {
				logger.Error().Err(err).Int("position", i).Msg("failed to send text message")
			} else {
				logger.Debug().Int("position", i).Msg("sent text message")
			}
		default:
			logger.Warn().Int("position", i).Msg("unrecognized entry shape, skipping")
			continue
		}

		select {
		case <-time.After(d.delay):
		case <-ctx.Done():
			logger.Warn().Err(ctx.Err()).Int("position", i).Msg("dispatch cancelled")
			return
		}
	}
}

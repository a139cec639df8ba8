package service

import (
	"strings"

	"herbie/internal/core/domain"
	"herbie/internal/core/port"

	"github.com/rs/zerolog/log"
)

const (
	StartKey    = "start"
	FlameOffKey = "flameoff"

	exitPhrase = "flame off"
)

const fallbackText = "I didn’t understand that. Reply with 1, 2, 3, 4, or 'Flame Off' to end the chat."

// Responder maps normalized inbound text to a response sequence from the
// catalog.
type Responder struct {
	catalog    port.Catalog
	wakePhrase string
}

func NewResponder(catalog port.Catalog, wakePhrase string) *Responder {
	return &Responder{
		catalog:    catalog,
		wakePhrase: strings.ToLower(strings.TrimSpace(wakePhrase)),
	}
}

// Select normalizes the message text and picks a sequence. Precedence:
// greeting synonyms, the exit phrase, a direct catalog key, then a fixed
// fallback instructing the user on valid replies.
func (r *Responder) Select(text string) domain.ResponseSequence {
	key := strings.ToLower(strings.TrimSpace(text))

	switch {
	case key == "hi" || key == "hello" || (r.wakePhrase != "" && key == r.wakePhrase):
		key = StartKey
	case key == exitPhrase:
		key = FlameOffKey
	}

	sequence, ok := r.catalog.Lookup(key)
	if !ok {
		log.Debug().Str("key", key).Msg("no catalog entry, using fallback")
		return domain.ResponseSequence{{Kind: domain.Text, Text: fallbackText}}
	}

	return sequence
}

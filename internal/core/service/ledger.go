package service

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// MessageLedger remembers the last processed message ID per sender so
// redelivered webhook events can be discarded. Entries are never evicted;
// the map lives for the process lifetime.
type MessageLedger struct {
	lastSeen map[string]string
	mutex    *sync.Mutex
}

func NewMessageLedger() *MessageLedger {
	return &MessageLedger{
		lastSeen: make(map[string]string),
		mutex:    &sync.Mutex{},
	}
}

// CheckAndRecord reports whether messageID is the one already recorded for
// senderID. On a new message it replaces the stored ID, so only the latest
// seen message per sender is suppressed.
func (l *MessageLedger) CheckAndRecord(senderID, messageID string) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.lastSeen[senderID] == messageID {
		log.Debug().Str("senderID", senderID).Str("messageID", messageID).Msg("duplicate message")
		return true
	}

	l.lastSeen[senderID] = messageID
	return false
}

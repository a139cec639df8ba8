package domain

type EntryKind string

const (
	Text  EntryKind = "text"
	Media EntryKind = "media"
)

// ResponseEntry is a single canned outbound message. Kind decides which
// field carries the payload; an empty Kind marks an entry the catalog could
// not make sense of.
type ResponseEntry struct {
	Kind    EntryKind
	Text    string
	MediaID string
}

// ResponseSequence is an ordered list of entries sent as one reply.
type ResponseSequence []ResponseEntry

// DirectMessage is an inbound DM event reduced to the fields the bot acts on.
type DirectMessage struct {
	SenderID  string
	MessageID string
	Text      string
}

// BotIdentity is the account the bot runs as, resolved once at startup.
type BotIdentity struct {
	ID       string
	Username string
}

package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"herbie/internal/core/domain"

	"github.com/rs/zerolog/log"
)

// File is a response catalog backed by a JSON file on disk. It is read once
// and never mutated, so lookups need no synchronization.
type File struct {
	sequences map[string]domain.ResponseSequence
}

// A catalog entry is either a bare string or a media reference object.
type rawEntry struct {
	Type    string `json:"type"`
	MediaID string `json:"media_id"`
}

// NewFromFile loads and validates the catalog. Any read or parse failure is
// returned as an error; the caller is expected to treat it as fatal.
func NewFromFile(path string) (*File, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog file: %w", err)
	}

	var raw map[string][]json.RawMessage
	if err := json.Unmarshal(buf, &raw); err != nil {
		return nil, fmt.Errorf("error parsing catalog file %s: %w", path, err)
	}

	sequences := make(map[string]domain.ResponseSequence, len(raw))

	for key, entries := range raw {
		sequence := make(domain.ResponseSequence, 0, len(entries))
		for i, entry := range entries {
			parsed, err := parseEntry(entry)
			if err != nil {
				return nil, fmt.Errorf("error parsing catalog key %q entry %d: %w", key, i, err)
			}
			sequence = append(sequence, parsed)
		}
		sequences[key] = sequence
	}

	for _, required := range []string{"start", "flameoff"} {
		if _, ok := sequences[required]; !ok {
			return nil, fmt.Errorf("catalog file %s is missing required key %q", path, required)
		}
	}

	log.Info().Str("path", path).Int("triggers", len(sequences)).Msg("loaded response catalog")

	return &File{sequences: sequences}, nil
}

func parseEntry(entry json.RawMessage) (domain.ResponseEntry, error) {
	var text string
	if err := json.Unmarshal(entry, &text); err == nil {
		return domain.ResponseEntry{Kind: domain.Text, Text: text}, nil
	}

	var ref rawEntry
	if err := json.Unmarshal(entry, &ref); err != nil {
		return domain.ResponseEntry{}, fmt.Errorf("entry is neither text nor an object: %w", err)
	}

	if ref.Type == string(domain.Media) && ref.MediaID != "" {
		return domain.ResponseEntry{Kind: domain.Media, MediaID: ref.MediaID}, nil
	}

	// Tolerated at load, skipped with a warning at dispatch.
	log.Warn().Str("type", ref.Type).Msg("catalog entry has unrecognized shape")
	return domain.ResponseEntry{}, nil
}

// Lookup returns the sequence for a trigger key.
func (f *File) Lookup(key string) (domain.ResponseSequence, bool) {
	sequence, ok := f.sequences[key]
	return sequence, ok
}

package port

import "herbie/internal/core/domain"

type Catalog interface {
	// Lookup returns the response sequence registered for a trigger key.
	Lookup(key string) (domain.ResponseSequence, bool)
}

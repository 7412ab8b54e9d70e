package journal

import "errors"

// ErrNotJournaled is returned for entity types that were never registered.
var ErrNotJournaled = errors.New("entity type is not journaled")

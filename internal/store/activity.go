package store

import (
	"encoding/json"
	"fmt"

	"github.com/daniel/autoapply/internal/types"
)

// LogActivity prepends an entry to the activity log, keeping the most
// recent entry first. Entries are never mutated after creation.
func (s *Store) LogActivity(entry types.ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.loadDoc()

	var entries []types.ActivityEntry
	if raw, ok := doc[types.ListActivityLog]; ok {
		if err := json.Unmarshal(raw, &entries); err != nil {
			return fmt.Errorf("activity log is not a sequence of entries: %w", err)
		}
	}

	entries = append([]types.ActivityEntry{entry}, entries...)
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to serialize activity log: %w", err)
	}
	doc[types.ListActivityLog] = raw
	return s.writeDoc(doc)
}

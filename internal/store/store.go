// Package store provides durable storage of the single application-state
// aggregate as one JSON document on disk, with defaulting for forward
// compatibility and keyed partial updates for individual list entries.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/daniel/autoapply/internal/types"
)

// DefaultFileName is the state file name used when only a directory is
// configured.
const DefaultFileName = "autoapply_db_v1.json"

// Store persists the AppState aggregate at a fixed path. It is an explicit
// dependency of every component that reads or writes state; construct one
// per process and inject it.
type Store struct {
	path string
	mu   sync.Mutex
}

// New creates a store backed by the JSON document at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the persisted document.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted aggregate. An absent or unparsable document
// degrades to the built-in defaults; a parse failure is logged for
// diagnostics but never surfaced to the caller. A present, parsable
// document is shallow-merged over the default aggregate so that top-level
// fields introduced after the document was written come back populated.
func (s *Store) Load() types.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() types.AppState {
	doc := s.loadDoc()

	merged, err := json.Marshal(doc)
	if err != nil {
		log.Printf("store: failed to re-serialize merged state: %v", err)
		return types.DefaultState()
	}

	var state types.AppState
	if err := json.Unmarshal(merged, &state); err != nil {
		log.Printf("store: merged state does not fit aggregate shape: %v", err)
		return types.DefaultState()
	}
	return state
}

// loadDoc returns the persisted document as a top-level key map,
// shallow-merged over the defaults. Fields present in the document win
// verbatim; missing fields take their default value.
func (s *Store) loadDoc() map[string]json.RawMessage {
	doc := defaultDoc()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("store: failed to read %s: %v", s.path, err)
		}
		return doc
	}

	var persisted map[string]json.RawMessage
	if err := json.Unmarshal(data, &persisted); err != nil {
		log.Printf("store: failed to parse %s, falling back to defaults: %v", s.path, err)
		return doc
	}

	for key, value := range persisted {
		doc[key] = value
	}
	return doc
}

func defaultDoc() map[string]json.RawMessage {
	data, err := json.Marshal(types.DefaultState())
	if err != nil {
		// DefaultState is a fixed literal; this cannot fail at runtime.
		panic(fmt.Sprintf("store: failed to marshal default state: %v", err))
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		panic(fmt.Sprintf("store: failed to build default document: %v", err))
	}
	return doc
}

// Save serializes and persists the entire aggregate. The write is atomic
// from the caller's point of view (temp file + rename); a failure only
// risks losing this one update, so callers treat the returned error as a
// warning rather than a crash.
func (s *Store) Save(state types.AppState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}
	return s.write(data)
}

// write persists raw document bytes via temp file + rename. Callers hold mu.
func (s *Store) write(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".autoapply-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

func (s *Store) writeDoc(doc map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize state document: %w", err)
	}
	return s.write(data)
}

// Set loads the aggregate, assigns the named top-level key, and writes the
// whole document back. Last write wins; there are no concurrent writers by
// construction in this single-operator system.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize value for %q: %w", key, err)
	}

	doc := s.loadDoc()
	doc[key] = raw
	return s.writeDoc(doc)
}

// UpdateListItem locates the element of the named list whose "id" field
// equals itemID and shallow-merges fields onto it, then writes the whole
// aggregate back. When no element matches, the call is a silent no-op and
// nothing is written: callers must not assume the target exists.
//
// This is the only mutation primitive used by the downstream stages. It
// does not insert new elements; insertion is done via Set with a full
// replacement list.
func (s *Store) UpdateListItem(listKey, itemID string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.loadDoc()

	var list []map[string]any
	if raw, ok := doc[listKey]; ok {
		if err := json.Unmarshal(raw, &list); err != nil {
			return fmt.Errorf("list %q is not a sequence of objects: %w", listKey, err)
		}
	}

	index := -1
	for i, item := range list {
		if id, ok := item["id"].(string); ok && id == itemID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil
	}

	for key, value := range fields {
		list[index][key] = value
	}

	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to serialize list %q: %w", listKey, err)
	}
	doc[listKey] = raw
	return s.writeDoc(doc)
}

// Reset discards the persisted state and rewrites the default aggregate.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	data, err := json.MarshalIndent(types.DefaultState(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize default state: %w", err)
	}
	return s.write(data)
}

package allowlist

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Store is the durable set of user IDs exempt from classification. The
// file holds one decimal ID per line and is append-only; the in-memory
// set mirrors it for O(1) lookups. Users are never removed.
type Store struct {
	mu   sync.RWMutex
	ids  map[int64]struct{}
	path string
}

// NewStore loads the allowlist from path. A missing or unreadable file
// yields an empty store with a logged warning, never an error:
// availability wins over strict enforcement.
func NewStore(path string) *Store {
	s := &Store{
		ids:  make(map[int64]struct{}),
		path: path,
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Could not read allowlist file %s: %v. Starting with an empty list.", path, err)
		}
		return s
	}

	for _, line := range strings.Split(string(content), "\n") {
		id, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err != nil {
			continue
		}
		s.ids[id] = struct{}{}
	}
	return s
}

func (s *Store) Contains(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Add inserts id and appends it to the durable file, reporting whether
// the ID was newly inserted. The check, the in-memory insert and the
// append run under one lock, so concurrent callers can never write the
// same ID twice. The in-memory insert happens before the append: if the
// append fails the error is returned and memory is ahead of disk until
// a restart reloads the file.
func (s *Store) Add(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return false, nil
	}
	s.ids[id] = struct{}{}

	if err := s.appendLine(strconv.FormatInt(id, 10)); err != nil {
		return true, fmt.Errorf("append %d to allowlist %s: %w", id, s.path, err)
	}
	return true, nil
}

func (s *Store) appendLine(line string) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}
	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(line + "\n")
	return err
}

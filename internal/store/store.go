// Package store persists the item price state of a product line as JSON.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mswatii/cs2-craftcalc/internal/catalog"
	"github.com/mswatii/cs2-craftcalc/internal/models"
)

// Store owns the item state of one line and the file it lives in
type Store struct {
	mu    sync.RWMutex
	path  string
	line  *catalog.Line
	state models.ItemState
}

// FileName returns the default state file name of a line
func FileName(line *catalog.Line) string {
	return line.ID + ".json"
}

// Open loads the state at path. A missing file yields the line defaults. Older
// files holding only the output list are accepted and paired with the default
// weapons.
func Open(path string, line *catalog.Line) (*Store, error) {
	s := &Store{path: path, line: line}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.state = line.DefaultState()
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	state, err := decode(data, line)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	s.state = state
	return s, nil
}

func decode(data []byte, line *catalog.Line) (models.ItemState, error) {
	state := line.DefaultState()
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return state, nil
	}

	if data[0] == '[' {
		var primary []models.PriceableItem
		if err := json.Unmarshal(data, &primary); err != nil {
			return models.ItemState{}, err
		}
		state.Primary = primary
		return state, nil
	}

	var record map[string]json.RawMessage
	if err := json.Unmarshal(data, &record); err != nil {
		return models.ItemState{}, err
	}
	if raw, ok := record[line.PrimaryKey]; ok {
		if err := json.Unmarshal(raw, &state.Primary); err != nil {
			return models.ItemState{}, err
		}
	}
	if raw, ok := record[string(models.CategoryWeapons)]; ok {
		if err := json.Unmarshal(raw, &state.Weapons); err != nil {
			return models.ItemState{}, err
		}
	}
	return state, nil
}

// Path returns the backing file
func (s *Store) Path() string { return s.path }

// Line returns the product line the state belongs to
func (s *Store) Line() *catalog.Line { return s.line }

// State returns a copy of the whole state
func (s *Store) State() models.ItemState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Items returns a copy of one category's items
func (s *Store) Items(c models.Category) []models.PriceableItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PriceableItem(nil), s.state.List(c)...)
}

// Names returns the item names of a category in order
func (s *Store) Names(c models.Category) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.state.List(c)
	out := make([]string, len(list))
	for i, it := range list {
		out[i] = it.Name
	}
	return out
}

// Find returns one item by exact name
func (s *Store) Find(c models.Category, name string) (models.PriceableItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, err := s.index(c, name)
	if err != nil {
		return models.PriceableItem{}, err
	}
	return s.state.List(c)[i], nil
}

func (s *Store) index(c models.Category, name string) (int, error) {
	list := s.state.List(c)
	names := make([]string, len(list))
	for i, it := range list {
		if it.Name == name {
			return i, nil
		}
		names[i] = it.Name
	}
	return -1, &models.LookupError{Kind: models.ErrUnknownItem, Name: name, Suggestions: catalog.Suggest(name, names)}
}

// SetPrice overwrites one item's price and flushes
func (s *Store) SetPrice(c models.Category, name string, price float64) error {
	if price < 0 {
		return fmt.Errorf("price must not be negative: %v", price)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.index(c, name)
	if err != nil {
		return err
	}
	s.list(c)[i].MinPrice = price
	return s.flushLocked()
}

// ApplyPrices writes a batch of prices keyed by item name and flushes once.
// Names not in the category are ignored. It returns how many items changed.
func (s *Store) ApplyPrices(c models.Category, prices map[string]float64) (int, error) {
	if len(prices) == 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.list(c)
	n := 0
	for i := range list {
		if p, ok := prices[list[i].Name]; ok && p > 0 {
			list[i].MinPrice = p
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return n, s.flushLocked()
}

// Reset restores the line defaults and flushes
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.line.DefaultState()
	return s.flushLocked()
}

func (s *Store) list(c models.Category) []models.PriceableItem {
	if c == models.CategoryWeapons {
		return s.state.Weapons
	}
	return s.state.Primary
}

// Flush writes the state to disk
func (s *Store) Flush() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	data, err := encode(s.state, s.line.PrimaryKey)
	if err != nil {
		return err
	}
	return writeAtomic(s.path, data)
}

// encode writes the record with the line's output key, non-ASCII kept verbatim
func encode(state models.ItemState, primaryKey string) ([]byte, error) {
	primary, err := marshal(state.Primary)
	if err != nil {
		return nil, err
	}
	weapons, err := marshal(state.Weapons)
	if err != nil {
		return nil, err
	}
	key, err := marshal(primaryKey)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(primary)
	buf.WriteString(`,"weapons":`)
	buf.Write(weapons)
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

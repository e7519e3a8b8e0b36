package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/maldun/UltraMekCore/models"
)

// JSONStore handles data persistence using a local JSON file
type JSONStore struct {
	filePath string
	mutex    sync.RWMutex
	data     *JSONData
}

// JSONData represents the structure of the JSON database. Entries are kept
// encoded so every load hands out a fresh value.
type JSONData struct {
	Units  map[string]map[string]*storedUnit `json:"units"`
	Boards map[string]json.RawMessage        `json:"boards"`
}

type storedUnit struct {
	Format models.Format   `json:"format"`
	Data   json.RawMessage `json:"data"`
}

// NewJSONStore creates a new JSON storage manager
func NewJSONStore(filePath string) (*JSONStore, error) {
	store := &JSONStore{
		filePath: filePath,
		data: &JSONData{
			Units:  make(map[string]map[string]*storedUnit),
			Boards: make(map[string]json.RawMessage),
		},
	}

	// Load existing data if file exists
	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %w", err)
		}
	} else {
		if err := store.saveToFile(); err != nil {
			return nil, fmt.Errorf("failed to create JSON store file: %w", err)
		}
	}

	return store, nil
}

// loadFromFile loads data from the JSON file
func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(file, js.data); err != nil {
		return err
	}
	if js.data.Units == nil {
		js.data.Units = make(map[string]map[string]*storedUnit)
	}
	if js.data.Boards == nil {
		js.data.Boards = make(map[string]json.RawMessage)
	}
	return nil
}

// saveToFile saves data to the JSON file
func (js *JSONStore) saveToFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	data, err := json.MarshalIndent(js.data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(js.filePath, data, 0644)
}

// SaveUnit saves a decoded unit record under category and name
func (js *JSONStore) SaveUnit(category, name string, unit *models.Record) error {
	encoded, err := json.Marshal(unit)
	if err != nil {
		return fmt.Errorf("failed to marshal unit %s: %w", name, err)
	}

	js.mutex.Lock()
	units, ok := js.data.Units[category]
	if !ok {
		units = make(map[string]*storedUnit)
		js.data.Units[category] = units
	}
	units[name] = &storedUnit{Format: unit.Format, Data: encoded}
	js.mutex.Unlock()

	return js.saveToFile()
}

// LoadUnit loads a unit record by category and name
func (js *JSONStore) LoadUnit(category, name string) (*models.Record, error) {
	js.mutex.RLock()
	entry, exists := js.data.Units[category][name]
	js.mutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unit %s/%s: %w", category, name, ErrNotFound)
	}

	unit := models.NewRecord(entry.Format)
	if err := json.Unmarshal(entry.Data, unit); err != nil {
		return nil, fmt.Errorf("failed to unmarshal unit %s: %w", name, err)
	}
	return unit, nil
}

// UnitNames lists the stored unit names of a category in sorted order
func (js *JSONStore) UnitNames(category string) ([]string, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	names := make([]string, 0, len(js.data.Units[category]))
	for name := range js.data.Units[category] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// SaveBoard saves a decoded board by name
func (js *JSONStore) SaveBoard(name string, board *models.Board) error {
	encoded, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to marshal board %s: %w", name, err)
	}

	js.mutex.Lock()
	js.data.Boards[name] = encoded
	js.mutex.Unlock()

	return js.saveToFile()
}

// LoadBoard loads a board by name
func (js *JSONStore) LoadBoard(name string) (*models.Board, error) {
	js.mutex.RLock()
	encoded, exists := js.data.Boards[name]
	js.mutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("board %s: %w", name, ErrNotFound)
	}

	board := &models.Board{}
	if err := json.Unmarshal(encoded, board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board %s: %w", name, err)
	}
	return board, nil
}

// Close closes the store (no-op for JSON store)
func (js *JSONStore) Close() error {
	return nil
}

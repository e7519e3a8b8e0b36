package persistence

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/maldun/UltraMekCore/config"
	"github.com/maldun/UltraMekCore/models"
)

// ErrNotFound is returned when a unit or board is not in the store
var ErrNotFound = errors.New("not found")

// Storage defines the interface for data persistence. Units are keyed by
// category ("mechs", "vehicles") and display name, boards by file name.
type Storage interface {
	SaveUnit(category, name string, unit *models.Record) error
	LoadUnit(category, name string) (*models.Record, error)
	UnitNames(category string) ([]string, error)
	SaveBoard(name string, board *models.Board) error
	LoadBoard(name string) (*models.Board, error)
	Close() error
}

// Open creates the backend selected by cfg
func Open(cfg config.StoreConfig, logger *slog.Logger) (Storage, error) {
	switch cfg.Type {
	case config.StorePostgres:
		db, err := NewPostgresStore(cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.StoreJSON:
		db, err := NewJSONStore(cfg.File)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
	return nil, fmt.Errorf("unknown store type %q", cfg.Type)
}

package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maldun/UltraMekCore/models"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore handles database operations using PostgreSQL
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore creates a new PostgreSQL storage manager
func NewPostgresStore(connectionString string, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db, logger: logger.With("component", "postgres_store")}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema initializes the database schema
func (dm *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS units (
		category TEXT NOT NULL,
		name TEXT NOT NULL,
		format TEXT NOT NULL,
		data JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		PRIMARY KEY (category, name)
	);

	CREATE TABLE IF NOT EXISTS boards (
		id SERIAL PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		size_x INTEGER NOT NULL,
		size_y INTEGER NOT NULL,
		tiles JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := dm.db.Exec(schema)
	return err
}

// SaveUnit saves a decoded unit record to the database
func (dm *PostgresStore) SaveUnit(category, name string, unit *models.Record) error {
	dataJSON, err := json.Marshal(unit)
	if err != nil {
		return fmt.Errorf("failed to marshal unit %s: %w", name, err)
	}

	query := `
	INSERT INTO units (category, name, format, data)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (category, name)
	DO UPDATE SET
		format = $3, data = $4,
		updated_at = NOW()
	`

	if _, err := dm.db.Exec(query, category, name, string(unit.Format), string(dataJSON)); err != nil {
		return fmt.Errorf("failed to save unit %s: %w", name, err)
	}

	dm.logger.Debug("unit saved", "category", category, "name", name, "format", unit.Format)
	return nil
}

// LoadUnit loads a unit record from the database by category and name
func (dm *PostgresStore) LoadUnit(category, name string) (*models.Record, error) {
	query := `SELECT format, data FROM units WHERE category = $1 AND name = $2`

	var format, dataJSON string
	err := dm.db.QueryRow(query, category, name).Scan(&format, &dataJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("unit %s/%s: %w", category, name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load unit: %w", err)
	}

	unit := models.NewRecord(models.Format(format))
	if err := json.Unmarshal([]byte(dataJSON), unit); err != nil {
		return nil, fmt.Errorf("failed to unmarshal unit %s: %w", name, err)
	}
	return unit, nil
}

// UnitNames lists the stored unit names of a category in sorted order
func (dm *PostgresStore) UnitNames(category string) ([]string, error) {
	rows, err := dm.db.Query(`SELECT name FROM units WHERE category = $1 ORDER BY name`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan unit name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SaveBoard saves a board to the database
func (dm *PostgresStore) SaveBoard(name string, board *models.Board) error {
	tilesJSON, err := json.Marshal(board.Grid)
	if err != nil {
		return fmt.Errorf("failed to marshal board tiles: %w", err)
	}

	query := `
	INSERT INTO boards (name, size_x, size_y, tiles)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (name)
	DO UPDATE SET
		size_x = $2, size_y = $3, tiles = $4,
		updated_at = NOW()
	`

	if _, err := dm.db.Exec(query, name, board.SizeX, board.SizeY, string(tilesJSON)); err != nil {
		return fmt.Errorf("failed to save board: %w", err)
	}

	dm.logger.Debug("board saved", "name", name, "size_x", board.SizeX, "size_y", board.SizeY)
	return nil
}

// LoadBoard loads a board from the database by name
func (dm *PostgresStore) LoadBoard(name string) (*models.Board, error) {
	query := `SELECT size_x, size_y, tiles FROM boards WHERE name = $1`

	var (
		sizeX, sizeY int
		tilesJSON    string
	)
	err := dm.db.QueryRow(query, name).Scan(&sizeX, &sizeY, &tilesJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("board %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	board := models.NewBoard(sizeX, sizeY)
	if err := json.Unmarshal([]byte(tilesJSON), &board.Grid); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board tiles: %w", err)
	}

	return board, nil
}

// Close closes the database connection
func (dm *PostgresStore) Close() error {
	dm.logger.Info("closing database connection")
	return dm.db.Close()
}

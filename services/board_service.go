package services

import (
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/maldun/UltraMekCore/metrics"
	"github.com/maldun/UltraMekCore/models"
	"github.com/maldun/UltraMekCore/parsers"
	"github.com/maldun/UltraMekCore/persistence"
)

// BoardService loads hex boards and serves their layer projections
type BoardService struct {
	dir     string
	cache   *BoardCache
	db      persistence.Storage
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewBoardService creates a board service resolving relative names against dir.
// db and m may be nil.
func NewBoardService(dir string, db persistence.Storage, m *metrics.Metrics, logger *slog.Logger) *BoardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BoardService{
		dir:     dir,
		cache:   NewBoardCache(),
		db:      db,
		metrics: m,
		logger:  logger.With("component", "board_service"),
	}
}

// Path resolves a board file name against the board directory
func (bs *BoardService) Path(filename string) string {
	if filepath.IsAbs(filename) || bs.dir == "" {
		return filename
	}
	return filepath.Join(bs.dir, filename)
}

// Load returns the board for filename: from memory, then the store, then
// by parsing the file. Freshly parsed boards are written to the store.
func (bs *BoardService) Load(filename string) (*models.Board, error) {
	return bs.cache.Get(filename, func() (*models.Board, error) {
		if bs.db != nil {
			board, err := bs.db.LoadBoard(filename)
			if err == nil {
				bs.logger.Debug("board loaded from store", "board", filename)
				return board, nil
			}
			if !errors.Is(err, persistence.ErrNotFound) {
				bs.logger.Warn("board store lookup failed", "board", filename, "error", err)
			}
		}

		start := time.Now()
		board, err := parsers.ParseBoardFile(bs.Path(filename))
		bs.metrics.ObserveParse(models.FormatBoard, time.Since(start), err)
		if err != nil {
			return nil, err
		}
		bs.logger.Info("board parsed", "board", filename, "size_x", board.SizeX, "size_y", board.SizeY, "tiles", board.Populated())

		if bs.db != nil {
			if err := bs.db.SaveBoard(filename, board); err != nil {
				bs.logger.Warn("failed to store board", "board", filename, "error", err)
			}
		}
		return board, nil
	})
}

// Layers returns the layer projection record of a board
func (bs *BoardService) Layers(filename string) (*models.Record, error) {
	board, err := bs.Load(filename)
	if err != nil {
		return nil, err
	}
	return board.Layers().Record(), nil
}

// Forget evicts a board from memory so the next Load rereads it
func (bs *BoardService) Forget(filename string) {
	bs.cache.Evict(filename)
}

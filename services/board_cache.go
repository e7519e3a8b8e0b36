package services

import (
	"sync"

	"github.com/maldun/UltraMekCore/models"
)

// BoardCache keeps decoded boards in memory by file name. A board's layer
// projection is cached on the board itself, so repeated layer requests for
// a cached board never recompute it.
type BoardCache struct {
	boards map[string]*models.Board
	mutex  sync.RWMutex
}

// NewBoardCache creates an empty board cache
func NewBoardCache() *BoardCache {
	return &BoardCache{
		boards: make(map[string]*models.Board),
	}
}

// Get returns the cached board for name, calling load to create it on a miss
func (bc *BoardCache) Get(name string, load func() (*models.Board, error)) (*models.Board, error) {
	bc.mutex.RLock()
	board, exists := bc.boards[name]
	bc.mutex.RUnlock()

	if exists {
		return board, nil
	}
	return bc.create(name, load)
}

func (bc *BoardCache) create(name string, load func() (*models.Board, error)) (*models.Board, error) {
	bc.mutex.Lock()
	defer bc.mutex.Unlock()

	// Check again if board was loaded by another goroutine
	if board, exists := bc.boards[name]; exists {
		return board, nil
	}

	board, err := load()
	if err != nil {
		return nil, err
	}
	bc.boards[name] = board
	return board, nil
}

// Evict drops a board so the next Get reloads it
func (bc *BoardCache) Evict(name string) {
	bc.mutex.Lock()
	defer bc.mutex.Unlock()

	delete(bc.boards, name)
}

// Len returns the number of cached boards
func (bc *BoardCache) Len() int {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()

	return len(bc.boards)
}

package services

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maldun/UltraMekCore/models"
	"github.com/maldun/UltraMekCore/parsers"
)

func TestBoardServiceLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tiny.board", tinyBoard)
	store := newStore(t)

	bs := NewBoardService(dir, store, nil, nil)
	board, err := bs.Load("tiny.board")
	require.NoError(t, err)
	assert.Equal(t, 2, board.SizeX)
	assert.Equal(t, "plains", board.Tile(1, 0).TileType)

	again, err := bs.Load("tiny.board")
	require.NoError(t, err)
	assert.Same(t, board, again)

	stored, err := store.LoadBoard("tiny.board")
	require.NoError(t, err)
	assert.Equal(t, board.Grid, stored.Grid)
}

func TestBoardServiceFallsBackToStore(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tiny.board", tinyBoard)
	store := newStore(t)

	_, err := NewBoardService(dir, store, nil, nil).Load("tiny.board")
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	board, err := NewBoardService(dir, store, nil, nil).Load("tiny.board")
	require.NoError(t, err)
	assert.Equal(t, -1, board.Tile(0, 0).Height)
}

func TestBoardServiceLayers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tiny.board", tinyBoard)
	bs := NewBoardService(dir, nil, nil, nil)

	rec, err := bs.Layers("tiny.board")
	require.NoError(t, err)
	assert.Equal(t, models.FormatBoard, rec.Format)

	heights, _ := rec.Get(models.LayerHeights)
	assert.Equal(t, []any{[]any{-1, 0}, []any{0, 0}}, heights)

	roads, _ := rec.Get(models.LayerRoads)
	assert.Equal(t, []any{1, 0}, roads.([]any)[1].([]any)[0])
}

func TestBoardServiceErrors(t *testing.T) {
	bs := NewBoardService(t.TempDir(), nil, nil, nil)

	_, err := bs.Load("missing.board")
	assert.ErrorIs(t, err, parsers.ErrMissingFile)

	_, err = bs.Layers("missing.board")
	assert.ErrorIs(t, err, parsers.ErrMissingFile)
}

func TestBoardServicePath(t *testing.T) {
	bs := NewBoardService("/srv/boards", nil, nil, nil)
	assert.Equal(t, filepath.Join("/srv/boards", "16x17 Grass.board"), bs.Path("16x17 Grass.board"))
	assert.Equal(t, "/tmp/x.board", bs.Path("/tmp/x.board"))
}

func TestBoardServiceForget(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tiny.board", tinyBoard)
	bs := NewBoardService(dir, nil, nil, nil)

	first, err := bs.Load("tiny.board")
	require.NoError(t, err)
	bs.Forget("tiny.board")
	second, err := bs.Load("tiny.board")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestBoardCacheLoadsOnce(t *testing.T) {
	cache := NewBoardCache()
	var loads atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Get("shared", func() (*models.Board, error) {
				loads.Add(1)
				return models.NewBoard(1, 1), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
	assert.Equal(t, 1, cache.Len())
}

func TestBoardCacheDoesNotKeepFailures(t *testing.T) {
	cache := NewBoardCache()
	_, err := cache.Get("bad", func() (*models.Board, error) {
		return nil, parsers.ErrMalformedSyntax
	})
	assert.ErrorIs(t, err, parsers.ErrMalformedSyntax)
	assert.Equal(t, 0, cache.Len())
}

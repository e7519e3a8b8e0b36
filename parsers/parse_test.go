package parsers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maldun/UltraMekCore/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForPath(t *testing.T) {
	tests := map[string]models.Format{
		"units/Atlas AS7-D.mtf":    models.FormatMTF,
		"units/Rommel Tank.BLK":    models.FormatBLK,
		"forces/lance.mul":         models.FormatMUL,
		"boards/16x17 Grass.board": models.FormatBoard,
	}
	for path, want := range tests {
		got, ok := FormatForPath(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}

	_, ok := FormatForPath("readme.txt")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	t.Run("mtf", func(t *testing.T) {
		rec, err := Parse(models.FormatMTF, atlasMTF)
		require.NoError(t, err)
		assert.Equal(t, models.FormatMTF, rec.Format)
		assert.Equal(t, "Atlas", rec.String("chassis"))
	})

	t.Run("blk", func(t *testing.T) {
		rec, err := Parse(models.FormatBLK, rommelBLK)
		require.NoError(t, err)
		assert.Equal(t, models.FormatBLK, rec.Format)
		assert.Equal(t, "Rommel Tank", rec.String("name"))
	})

	t.Run("mul", func(t *testing.T) {
		rec, err := Parse(models.FormatMUL, exampleMUL)
		require.NoError(t, err)
		assert.Equal(t, models.FormatMUL, rec.Format)
		assert.Equal(t, []string{"1", "2"}, rec.Record("entities").Keys())
	})

	t.Run("board", func(t *testing.T) {
		rec, err := Parse(models.FormatBoard, scenarioBoard)
		require.NoError(t, err)
		assert.Equal(t, models.FormatBoard, rec.Format)
		assert.Equal(t, 2, value(rec, "size_x"))
		assert.Equal(t, []any{[]any{-1, 0}, []any{0, 0}}, value(rec, models.LayerHeights))
	})

	t.Run("unknown", func(t *testing.T) {
		rec, err := Parse(models.Format("xlsx"), "")
		assert.Nil(t, rec)
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("errors propagate", func(t *testing.T) {
		_, err := Parse(models.FormatMUL, `<unit><entity/></unit>`)
		assert.ErrorIs(t, err, ErrMissingRequiredField)
	})
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Rommel Tank.blk")
	require.NoError(t, os.WriteFile(path, []byte(rommelBLK), 0644))

	rec, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, 65, value(rec, "tonnage"))

	_, err = ParseFile(filepath.Join(dir, "notes.txt"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = ParseFile(filepath.Join(dir, "gone.mul"))
	assert.ErrorIs(t, err, ErrMissingFile)
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{
		Format: models.FormatBoard,
		Line:   4,
		Field:  "height",
		Kind:   ErrTypeCoercion,
		Detail: "not a number",
	}
	assert.Equal(t, `board line 4: type coercion failed "height": not a number`, err.Error())
}

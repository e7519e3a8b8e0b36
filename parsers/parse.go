package parsers

import (
	"path/filepath"
	"strings"

	"github.com/maldun/UltraMekCore/models"
)

var suffixFormats = map[string]models.Format{
	".mtf":   models.FormatMTF,
	".blk":   models.FormatBLK,
	".mul":   models.FormatMUL,
	".board": models.FormatBoard,
}

// FormatForPath selects a pipeline from a file extension
func FormatForPath(path string) (models.Format, bool) {
	f, ok := suffixFormats[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Parse runs the pipeline for format on text and returns the canonical
// record. Force files yield the scenario record, boards their layer
// projection.
func Parse(format models.Format, text string) (*models.Record, error) {
	switch format {
	case models.FormatMTF:
		return ParseMTF(text)
	case models.FormatBLK:
		return ParseBLK(text)
	case models.FormatMUL:
		scenario, err := ParseMUL(text)
		if err != nil {
			return nil, err
		}
		return scenario.Record(), nil
	case models.FormatBoard:
		board, err := ParseBoard(text)
		if err != nil {
			return nil, err
		}
		return board.Layers().Record(), nil
	}
	return nil, &ParseError{Format: format, Kind: ErrUnknownFormat}
}

// ParseFile selects the pipeline from the file extension and runs it
func ParseFile(path string) (*models.Record, error) {
	format, ok := FormatForPath(path)
	if !ok {
		return nil, &ParseError{Format: models.Format(filepath.Ext(path)), Field: path, Kind: ErrUnknownFormat}
	}
	text, err := readFile(format, path)
	if err != nil {
		return nil, err
	}
	return Parse(format, text)
}

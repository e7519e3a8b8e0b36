package parsers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/maldun/UltraMekCore/models"
)

// Line markers of the board format
const (
	boardSizeMarker = "size"
	boardHexMarker  = "hex"
	boardEndMarker  = "end"
)

// hex lines carry the height at this token position: hex <id> <height> ...
const boardHeightToken = 2

type boardToken struct {
	text   string
	quoted bool
}

// ParseBoard decodes a hex board. Tile lines fill the grid in row-major
// order starting at the size line; lines after "end" are not read.
func ParseBoard(text string) (*models.Board, error) {
	var (
		board *models.Board
		index int
	)

	for n, line := range strings.Split(text, "\n") {
		lineNo := n + 1
		switch {
		case strings.HasPrefix(line, boardSizeMarker):
			if board != nil {
				return nil, malformed(models.FormatBoard, lineNo, "size declared twice", nil)
			}
			sizeX, sizeY, err := parseSize(line, lineNo)
			if err != nil {
				return nil, err
			}
			board = models.NewBoard(sizeX, sizeY)

		case strings.HasPrefix(line, boardHexMarker):
			if board == nil {
				return nil, malformed(models.FormatBoard, lineNo, "hex line before size line", nil)
			}
			if index >= board.SizeX*board.SizeY {
				return nil, &ParseError{
					Format: models.FormatBoard,
					Line:   lineNo,
					Kind:   ErrDimensionMismatch,
					Detail: fmt.Sprintf("more than %d tiles for a %dx%d board", board.SizeX*board.SizeY, board.SizeX, board.SizeY),
				}
			}
			tile, err := parseTile(line, lineNo, index%board.SizeX, index/board.SizeX)
			if err != nil {
				return nil, err
			}
			board.Grid[tile.PosX][tile.PosY] = tile
			index++

		case strings.HasPrefix(line, boardEndMarker):
			return finishBoard(board)
		}
	}
	return finishBoard(board)
}

// ParseBoardFile reads and decodes a .board file. A missing file is
// reported before any parsing happens.
func ParseBoardFile(path string) (*models.Board, error) {
	text, err := readFile(models.FormatBoard, path)
	if err != nil {
		return nil, err
	}
	return ParseBoard(text)
}

func finishBoard(board *models.Board) (*models.Board, error) {
	if board == nil {
		return nil, malformed(models.FormatBoard, 0, "no size line", nil)
	}
	return board, nil
}

func parseSize(line string, lineNo int) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0, 0, malformed(models.FormatBoard, lineNo, "size line needs two dimensions", nil)
	}
	sizeX, errX := strconv.Atoi(fields[1])
	sizeY, errY := strconv.Atoi(fields[2])
	if errX != nil || errY != nil {
		return 0, 0, &ParseError{
			Format: models.FormatBoard,
			Line:   lineNo,
			Kind:   ErrTypeCoercion,
			Detail: fmt.Sprintf("size %q x %q", fields[1], fields[2]),
		}
	}
	if sizeX <= 0 || sizeY <= 0 {
		return 0, 0, malformed(models.FormatBoard, lineNo, fmt.Sprintf("non-positive size %dx%d", sizeX, sizeY), nil)
	}
	return sizeX, sizeY, nil
}

func parseTile(line string, lineNo, x, y int) (*models.Tile, error) {
	tokens := tokenizeBoardLine(line)
	if len(tokens) <= boardHeightToken {
		return nil, malformed(models.FormatBoard, lineNo, "hex line too short", nil)
	}

	height, err := strconv.Atoi(tokens[boardHeightToken].text)
	if err != nil {
		return nil, &ParseError{
			Format: models.FormatBoard,
			Line:   lineNo,
			Field:  "height",
			Kind:   ErrTypeCoercion,
			Err:    err,
		}
	}

	var quoted []string
	for _, tok := range tokens {
		if tok.quoted {
			quoted = append(quoted, tok.text)
		}
	}
	if len(quoted) < 2 {
		return nil, malformed(models.FormatBoard, lineNo, "hex line needs quoted terrain and theme", nil)
	}

	return &models.Tile{
		PosX:       x,
		PosY:       y,
		Height:     height,
		TileType:   quoted[len(quoted)-1],
		Properties: parseProperties(quoted[len(quoted)-2]),
	}, nil
}

// parseProperties splits "road:1:0;woods:1" into properties. A bare name
// yields a property without values.
func parseProperties(raw string) []models.Property {
	props := make([]models.Property, 0)
	for _, item := range strings.Split(raw, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.Split(item, ":")
		prop := models.Property{
			Name:   parts[0],
			Values: make([]any, 0, len(parts)-1),
		}
		for _, v := range parts[1:] {
			prop.Values = append(prop.Values, coerceInt(strings.TrimSpace(v)))
		}
		props = append(props, prop)
	}
	return props
}

// tokenizeBoardLine splits on whitespace, keeping double-quoted tokens
// (which may be empty or contain spaces) as single tokens.
func tokenizeBoardLine(line string) []boardToken {
	var tokens []boardToken
	for i := 0; i < len(line); {
		switch c := line[i]; {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '"':
			end := strings.IndexByte(line[i+1:], '"')
			if end < 0 {
				// unterminated: take the rest of the line
				tokens = append(tokens, boardToken{text: line[i+1:], quoted: true})
				return tokens
			}
			tokens = append(tokens, boardToken{text: line[i+1 : i+1+end], quoted: true})
			i += end + 2
		default:
			j := i
			for j < len(line) && line[j] != ' ' && line[j] != '\t' && line[j] != '\r' && line[j] != '"' {
				j++
			}
			tokens = append(tokens, boardToken{text: line[i:j]})
			i = j
		}
	}
	return tokens
}

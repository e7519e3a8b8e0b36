package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
)

// Board is a hex map decoded from a .board file. Grid is addressed
// Grid[x][y]; cells without a tile line stay nil.
type Board struct {
	SizeX int       `json:"size_x"`
	SizeY int       `json:"size_y"`
	Grid  [][]*Tile `json:"grid"`

	layersOnce sync.Once
	layers     *Layers
}

// NewBoard creates a board with an empty x-major grid
func NewBoard(sizeX, sizeY int) *Board {
	grid := make([][]*Tile, sizeX)
	for x := range grid {
		grid[x] = make([]*Tile, sizeY)
	}
	return &Board{
		SizeX: sizeX,
		SizeY: sizeY,
		Grid:  grid,
	}
}

// Tile returns the tile at (x, y), nil when out of range or unpopulated
func (b *Board) Tile(x, y int) *Tile {
	if x < 0 || x >= b.SizeX || y < 0 || y >= b.SizeY {
		return nil
	}
	return b.Grid[x][y]
}

// Tiles returns all populated tiles in row-major order
func (b *Board) Tiles() []*Tile {
	tiles := make([]*Tile, 0, b.SizeX*b.SizeY)
	for y := 0; y < b.SizeY; y++ {
		for x := 0; x < b.SizeX; x++ {
			if t := b.Grid[x][y]; t != nil {
				tiles = append(tiles, t)
			}
		}
	}
	return tiles
}

// Populated returns the number of cells that hold a tile
func (b *Board) Populated() int {
	n := 0
	for x := range b.Grid {
		for _, t := range b.Grid[x] {
			if t != nil {
				n++
			}
		}
	}
	return n
}

// Tile is a single hex of a board
type Tile struct {
	PosX       int        `json:"pos_x"`
	PosY       int        `json:"pos_y"`
	TileType   string     `json:"tile_type"`
	Height     int        `json:"height"`
	Properties []Property `json:"properties"`
}

// Property returns the first property with the given name
func (t *Tile) Property(name string) (Property, bool) {
	for _, p := range t.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Property is a terrain feature of a tile, e.g. road:1:0. Values hold
// ints where the source text was numeric and strings otherwise.
type Property struct {
	Name   string
	Values []any
}

// Int returns the i-th value if it is an integer
func (p Property) Int(i int) (int, bool) {
	if i < 0 || i >= len(p.Values) {
		return 0, false
	}
	v, ok := p.Values[i].(int)
	return v, ok
}

// MarshalJSON encodes the property as a tuple [name, values...]
func (p Property) MarshalJSON() ([]byte, error) {
	tuple := make([]any, 0, len(p.Values)+1)
	tuple = append(tuple, p.Name)
	tuple = append(tuple, p.Values...)
	return json.Marshal(tuple)
}

// UnmarshalJSON decodes a [name, values...] tuple
func (p *Property) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var tuple []any
	if err := dec.Decode(&tuple); err != nil {
		return err
	}
	if len(tuple) == 0 {
		return fmt.Errorf("property tuple is empty")
	}
	name, ok := tuple[0].(string)
	if !ok {
		return fmt.Errorf("property name must be a string, got %T", tuple[0])
	}

	p.Name = name
	p.Values = make([]any, 0, len(tuple)-1)
	for _, v := range tuple[1:] {
		if n, ok := v.(json.Number); ok {
			if i, err := strconv.Atoi(n.String()); err == nil {
				v = i
			} else {
				v = n.String()
			}
		}
		p.Values = append(p.Values, v)
	}
	return nil
}

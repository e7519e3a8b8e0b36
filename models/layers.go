package models

// Layer names of the projection. The set is closed.
const (
	LayerHeights   = "heights"
	LayerTileTypes = "tile_types"
	LayerRoads     = "roads"
)

// FlagLayers are the terrain features projected into one numeric layer each
var FlagLayers = []string{
	"woods",
	"water",
	"rough",
	"swamp",
	"pavement",
	"building",
	"planted_fields",
	"snow",
	"ice",
}

const roadProperty = "road"

// Layers is the per-property projection of a board. Every layer has the
// board's shape and is addressed [x][y].
type Layers struct {
	SizeX     int
	SizeY     int
	Heights   [][]int
	TileTypes [][]string
	Roads     [][][2]int
	Flags     map[string][][]int
}

// Layers returns the layer projection, computing it on first use
func (b *Board) Layers() *Layers {
	b.layersOnce.Do(func() {
		b.layers = projectLayers(b)
	})
	return b.layers
}

func projectLayers(b *Board) *Layers {
	l := &Layers{
		SizeX:     b.SizeX,
		SizeY:     b.SizeY,
		Heights:   intGrid(b.SizeX, b.SizeY),
		TileTypes: make([][]string, b.SizeX),
		Roads:     make([][][2]int, b.SizeX),
		Flags:     make(map[string][][]int, len(FlagLayers)),
	}
	for _, name := range FlagLayers {
		l.Flags[name] = intGrid(b.SizeX, b.SizeY)
	}

	for x := 0; x < b.SizeX; x++ {
		l.TileTypes[x] = make([]string, b.SizeY)
		l.Roads[x] = make([][2]int, b.SizeY)

		for y := 0; y < b.SizeY; y++ {
			t := b.Grid[x][y]
			if t == nil {
				continue
			}
			l.Heights[x][y] = t.Height
			l.TileTypes[x][y] = t.TileType

			if road, ok := t.Property(roadProperty); ok {
				a, _ := road.Int(0)
				c, _ := road.Int(1)
				l.Roads[x][y] = [2]int{a, c}
			}
			for _, name := range FlagLayers {
				if p, ok := t.Property(name); ok {
					v, _ := p.Int(0)
					l.Flags[name][x][y] = v
				}
			}
		}
	}
	return l
}

func intGrid(sizeX, sizeY int) [][]int {
	grid := make([][]int, sizeX)
	for x := range grid {
		grid[x] = make([]int, sizeY)
	}
	return grid
}

// Numeric returns a numeric layer by name: heights or one of FlagLayers
func (l *Layers) Numeric(name string) ([][]int, bool) {
	if name == LayerHeights {
		return l.Heights, true
	}
	grid, ok := l.Flags[name]
	return grid, ok
}

// Names returns every layer name in projection order
func (l *Layers) Names() []string {
	names := []string{LayerHeights, LayerTileTypes, LayerRoads}
	return append(names, FlagLayers...)
}

// Record flattens the projection into a record with size_x, size_y and one
// 2D array per layer.
func (l *Layers) Record() *Record {
	rec := NewRecord(FormatBoard)
	rec.Set("size_x", l.SizeX)
	rec.Set("size_y", l.SizeY)
	rec.Set(LayerHeights, intRows(l.Heights))

	types := make([]any, len(l.TileTypes))
	for x, col := range l.TileTypes {
		row := make([]any, len(col))
		for y, v := range col {
			row[y] = v
		}
		types[x] = row
	}
	rec.Set(LayerTileTypes, types)

	roads := make([]any, len(l.Roads))
	for x, col := range l.Roads {
		row := make([]any, len(col))
		for y, v := range col {
			row[y] = []any{v[0], v[1]}
		}
		roads[x] = row
	}
	rec.Set(LayerRoads, roads)

	for _, name := range FlagLayers {
		rec.Set(name, intRows(l.Flags[name]))
	}
	return rec
}

func intRows(grid [][]int) []any {
	rows := make([]any, len(grid))
	for x, col := range grid {
		row := make([]any, len(col))
		for y, v := range col {
			row[y] = v
		}
		rows[x] = row
	}
	return rows
}

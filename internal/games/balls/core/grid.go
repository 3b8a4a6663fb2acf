package core

// Grid is the jagged playfield: an ordered sequence of rows, each an
// ordered sequence of tiles. Rows shrink as tiles are removed and are
// deleted once empty, so the grid is always fully packed.
type Grid struct {
	rows [][]Tile
}

// newRandomGrid fills height rows of width tiles with colors from src.
func newRandomGrid(width, height, paletteSize int, src Source) Grid {
	rows := make([][]Tile, height)
	for y := range rows {
		rows[y] = make([]Tile, width)
		for x := range rows[y] {
			rows[y][x] = Tile{Color: Color(src.Intn(paletteSize))}
		}
	}
	return Grid{rows: rows}
}

// newGridFromColors copies a color layout into a grid.
func newGridFromColors(layout [][]Color) Grid {
	rows := make([][]Tile, len(layout))
	for y, line := range layout {
		rows[y] = make([]Tile, len(line))
		for x, c := range line {
			rows[y][x] = Tile{Color: c}
		}
	}
	return Grid{rows: rows}
}

// Rows returns the number of live rows.
func (g *Grid) Rows() int {
	return len(g.rows)
}

// RowLen returns the length of row y, or 0 if the row does not exist.
func (g *Grid) RowLen(y int) int {
	if y < 0 || y >= len(g.rows) {
		return 0
	}
	return len(g.rows[y])
}

// InBounds returns true if c addresses a live tile.
// Bounds are checked against the specific row, not a global width.
func (g *Grid) InBounds(c Coord) bool {
	return c.Y >= 0 && c.Y < len(g.rows) && c.X >= 0 && c.X < len(g.rows[c.Y])
}

// at returns the tile at c. The caller guarantees c is in bounds.
func (g *Grid) at(c Coord) Tile {
	return g.rows[c.Y][c.X]
}

// Tiles returns the number of live tiles.
func (g *Grid) Tiles() int {
	n := 0
	for _, row := range g.rows {
		n += len(row)
	}
	return n
}

// Empty returns true once every tile has been removed.
func (g *Grid) Empty() bool {
	return len(g.rows) == 0
}

// neighbors appends the orthogonal neighbors of c that exist in the live
// grid to buf and returns it.
func (g *Grid) neighbors(c Coord, buf []Coord) []Coord {
	candidates := [4]Coord{
		{X: c.X - 1, Y: c.Y},
		{X: c.X + 1, Y: c.Y},
		{X: c.X, Y: c.Y - 1},
		{X: c.X, Y: c.Y + 1},
	}
	for _, n := range candidates {
		if g.InBounds(n) {
			buf = append(buf, n)
		}
	}
	return buf
}

// newVisited allocates a visited mask shaped like the live grid.
func (g *Grid) newVisited() [][]bool {
	visited := make([][]bool, len(g.rows))
	for y, row := range g.rows {
		visited[y] = make([]bool, len(row))
	}
	return visited
}

// flood collects the same-colored component containing origin using an
// explicit stack. Cells are marked in visited as they are discovered.
func (g *Grid) flood(origin Coord, visited [][]bool) Cluster {
	color := g.at(origin).Color
	visited[origin.Y][origin.X] = true

	cluster := Cluster{origin}
	stack := []Coord{origin}
	buf := make([]Coord, 0, 4)

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, n := range g.neighbors(c, buf[:0]) {
			if visited[n.Y][n.X] || g.at(n).Color != color {
				continue
			}
			visited[n.Y][n.X] = true
			cluster = append(cluster, n)
			stack = append(stack, n)
		}
	}
	return cluster
}

// remove deletes the tiles of a cluster, compacting rows leftward and the
// grid upward. The cluster must be in removal order.
func (g *Grid) remove(ordered Cluster) {
	for _, c := range ordered {
		row := g.rows[c.Y]
		g.rows[c.Y] = append(row[:c.X], row[c.X+1:]...)
		if len(g.rows[c.Y]) == 0 {
			g.rows = append(g.rows[:c.Y], g.rows[c.Y+1:]...)
		}
	}
}

// hasPair returns true if any two orthogonally adjacent tiles share a
// color, which is exactly when some cluster has at least two tiles.
func (g *Grid) hasPair() bool {
	for y, row := range g.rows {
		for x, t := range row {
			if x+1 < len(row) && row[x+1].Color == t.Color {
				return true
			}
			if y+1 < len(g.rows) && x < len(g.rows[y+1]) && g.rows[y+1][x].Color == t.Color {
				return true
			}
		}
	}
	return false
}

// colors returns a deep copy of the layout as color indices.
func (g *Grid) colors() [][]Color {
	out := make([][]Color, len(g.rows))
	for y, row := range g.rows {
		out[y] = make([]Color, len(row))
		for x, t := range row {
			out[y][x] = t.Color
		}
	}
	return out
}

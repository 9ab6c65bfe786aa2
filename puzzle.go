package nurikabe

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Cell is a grid coordinate, x columns from the left and y rows from
// the top.
type Cell struct {
	X, Y int
}

// Puzzle is a rectangular grid partially populated with positive
// integer clues. Clues are set with SetClue (or by ParsePuzzle); the
// Encoder only reads the puzzle.
type Puzzle struct {
	Width, Height int
	clues         map[Cell]int
}

// NewPuzzle returns a puzzle of the given dimensions with no clues
// set. Use SetClue to populate it, or ParsePuzzle to build one from
// text.
func NewPuzzle(width, height int) *Puzzle {
	return &Puzzle{Width: width, Height: height, clues: make(map[Cell]int)}
}

// SetClue records a clue at (x, y). It does not validate the clue;
// validation happens when the value is used to build an Encoder.
func (p *Puzzle) SetClue(x, y, value int) {
	p.clues[Cell{X: x, Y: y}] = value
}

// Clue returns the clue at (x, y) and whether one is present.
func (p *Puzzle) Clue(x, y int) (int, bool) {
	v, ok := p.clues[Cell{X: x, Y: y}]
	return v, ok
}

// InBounds reports whether (x, y) lies within the grid.
func (p *Puzzle) InBounds(x, y int) bool {
	return x >= 0 && x < p.Width && y >= 0 && y < p.Height
}

// clueCells returns the clue cells in a fixed deterministic order
// (row-major), each paired with its island index.
func (p *Puzzle) clueCells() []Cell {
	cells := make([]Cell, 0, len(p.clues))
	for c := range p.clues {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	return cells
}

// Neighbors returns the in-bounds four-connected neighbors of (x, y).
func (p *Puzzle) Neighbors(x, y int) []Cell {
	candidates := [4]Cell{
		{X: x - 1, Y: y},
		{X: x + 1, Y: y},
		{X: x, Y: y - 1},
		{X: x, Y: y + 1},
	}
	neighbors := make([]Cell, 0, 4)
	for _, c := range candidates {
		if p.InBounds(c.X, c.Y) {
			neighbors = append(neighbors, c)
		}
	}
	return neighbors
}

// ParsePuzzle reads a puzzle in the line-oriented ASCII format: each
// line is one grid row, top to bottom; a digit '1'-'9' is a clue of
// that value, any other character is a non-clue cell. Grid width is
// taken from the first line, and every subsequent line must match it.
func ParsePuzzle(r io.Reader) (*Puzzle, error) {
	var rows []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &MalformedPuzzleError{Reason: "input has no rows"}
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, &MalformedPuzzleError{
				Reason: fmt.Sprintf("row %d has width %d, want %d (from row 0)", i, len(row), width),
			}
		}
	}
	puzzle := NewPuzzle(width, len(rows))
	for y, row := range rows {
		for x, ch := range row {
			if ch < '1' || ch > '9' {
				continue
			}
			puzzle.SetClue(x, y, int(ch-'0'))
		}
	}
	return puzzle, nil
}

// String renders the puzzle in the same ASCII format ParsePuzzle
// accepts, with '.' standing in for every non-clue cell.
func (p *Puzzle) String() string {
	var b strings.Builder
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			if v, ok := p.Clue(x, y); ok {
				fmt.Fprintf(&b, "%d", v)
			} else {
				b.WriteByte('.')
			}
		}
		if y < p.Height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Solution is a decoded W×H boolean grid; true means the cell is a
// wall.
type Solution struct {
	Width, Height int
	Wall          [][]bool // Wall[y][x]
}

// String renders the solution using the spec's output format: clue
// cells print their digit, non-clue cells print 'x' for a wall and
// '.' otherwise. Panics if asked to print a wall at a clue cell; the
// decoder guarantees this never happens for a satisfying assignment,
// so a panic here indicates a defect in clause emission (CorruptModel
// in spec terms).
func (s *Solution) String(p *Puzzle) string {
	var b strings.Builder
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			if v, ok := p.Clue(x, y); ok {
				if s.Wall[y][x] {
					panic(fmt.Sprintf("CorruptModel: wall at clue cell (%d,%d)", x, y))
				}
				fmt.Fprintf(&b, "%d", v)
				continue
			}
			if s.Wall[y][x] {
				b.WriteByte('x')
			} else {
				b.WriteByte('.')
			}
		}
		if y < s.Height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// WallCount returns the number of wall cells in the solution.
func (s *Solution) WallCount() int {
	n := 0
	for _, row := range s.Wall {
		for _, w := range row {
			if w {
				n++
			}
		}
	}
	return n
}

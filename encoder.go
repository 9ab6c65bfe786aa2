package nurikabe

import "fmt"

// wallKey is the VariablePool key for w(x,y): cell (x,y) is a wall.
type wallKey struct {
	X, Y int
}

// islandKey is the VariablePool key for f(x,y,i,d): cell (x,y)
// belongs to island i at graph distance d from its clue.
type islandKey struct {
	X, Y, Island, Dist int
}

// wallDistKey is the VariablePool key for d(x,y,k): cell (x,y) is a
// wall at graph distance k from the wall anchor.
type wallDistKey struct {
	X, Y, Dist int
}

// Encoder owns a Puzzle's Variable Pool for the lifetime of one
// encoding and emits the clause families that make a satisfying
// assignment correspond to a valid solution (spec.md §4.C).
type Encoder struct {
	puzzle      *Puzzle
	anchor      Cell
	pool        *VariablePool
	cardinality CardinalityCompiler

	clueCells []Cell         // island index -> anchor cell, in build order
	clueIndex map[Cell]int   // clue cell -> its island index
	clueValue []int          // island index -> C_i
	cMax      int            // C_max
	wSize     int            // W_size = N - sum_clues
}

// Build validates puzzle and anchor, initializes a fresh Variable
// Pool, and materializes every w/f/d variable. A nil cardinality
// compiler defaults to SequentialCounter.
func Build(puzzle *Puzzle, anchor Cell, cardinality CardinalityCompiler) (*Encoder, error) {
	if cardinality == nil {
		cardinality = NewSequentialCounter()
	}

	clueCells := puzzle.clueCells()
	clueValue := make([]int, len(clueCells))
	clueIndex := make(map[Cell]int, len(clueCells))
	sumClues := 0
	cMax := 0
	for i, c := range clueCells {
		v, _ := puzzle.Clue(c.X, c.Y)
		if v < 1 {
			return nil, &MalformedPuzzleError{Reason: fmt.Sprintf("clue at %v is not positive: %d", c, v)}
		}
		clueValue[i] = v
		clueIndex[c] = i
		sumClues += v
		if v > cMax {
			cMax = v
		}
	}

	n := puzzle.Width * puzzle.Height
	if sumClues > n {
		return nil, &InfeasibleCluesError{SumClues: sumClues, Area: n}
	}
	wSize := n - sumClues

	if !puzzle.InBounds(anchor.X, anchor.Y) {
		return nil, &InvalidAnchorError{Anchor: anchor, Reason: "outside grid"}
	}
	if _, isClue := puzzle.Clue(anchor.X, anchor.Y); isClue && wSize > 0 {
		return nil, &InvalidAnchorError{Anchor: anchor, Reason: "coincides with a clue cell"}
	}

	e := &Encoder{
		puzzle:      puzzle,
		anchor:      anchor,
		pool:        NewVariablePool(),
		cardinality: cardinality,
		clueCells:   clueCells,
		clueIndex:   clueIndex,
		clueValue:   clueValue,
		cMax:        cMax,
		wSize:       wSize,
	}
	e.materializeVariables()
	return e, nil
}

func (e *Encoder) materializeVariables() {
	w, h := e.puzzle.Width, e.puzzle.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			e.pool.ID(wallKey{X: x, Y: y})
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for i := range e.clueCells {
				for d := 0; d < e.cMax; d++ {
					e.pool.ID(islandKey{X: x, Y: y, Island: i, Dist: d})
				}
			}
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for k := 0; k < e.wSize; k++ {
				e.pool.ID(wallDistKey{X: x, Y: y, Dist: k})
			}
		}
	}
}

// Pool exposes the underlying Variable Pool, primarily so callers can
// size an assignment buffer via Pool().Len().
func (e *Encoder) Pool() *VariablePool { return e.pool }

func (e *Encoder) w(x, y int) int { return e.pool.ID(wallKey{X: x, Y: y}) }

func (e *Encoder) f(x, y, island, dist int) int {
	return e.pool.ID(islandKey{X: x, Y: y, Island: island, Dist: dist})
}

func (e *Encoder) d(x, y, dist int) int {
	return e.pool.ID(wallDistKey{X: x, Y: y, Dist: dist})
}

// Encode emits every clause family (P1-P11) as a pure function of the
// encoder's state. Calling it twice produces two equal clause sets
// (modulo the cardinality compiler's own auxiliary-variable bookkeeping,
// which is also deterministic).
func (e *Encoder) Encode() [][]int {
	var clauses [][]int
	clauses = append(clauses, e.cover()...)
	clauses = append(clauses, e.clueAnchoring()...)
	clauses = append(clauses, e.islandReachability()...)
	clauses = append(clauses, e.islandLocalShape()...)
	clauses = append(clauses, e.islandSize()...)
	clauses = append(clauses, e.noTwoByTwoWalls()...)
	clauses = append(clauses, e.wallAnchorClauses()...)
	clauses = append(clauses, e.wallDistanceExclusivity()...)
	clauses = append(clauses, e.wallReachability()...)
	clauses = append(clauses, e.wallLocalConsistency()...)
	clauses = append(clauses, e.wallsReachable()...)
	return clauses
}

// cover is P1: exactly one of {w(x,y)} ∪ {f(x,y,i,d)} holds per cell.
func (e *Encoder) cover() [][]int {
	var clauses [][]int
	h, w := e.puzzle.Height, e.puzzle.Width
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			lits := []int{e.w(x, y)}
			for i := range e.clueCells {
				for dist := 0; dist < e.cMax; dist++ {
					lits = append(lits, e.f(x, y, i, dist))
				}
			}
			clauses = append(clauses, e.cardinality.Exactly(lits, 1, e.pool)...)
		}
	}
	return clauses
}

// clueAnchoring is P2: only clue cells may carry distance 0, and each
// clue sits at distance 0 in its own island.
func (e *Encoder) clueAnchoring() [][]int {
	var clauses [][]int
	for i, c := range e.clueCells {
		clauses = append(clauses, []int{e.f(c.X, c.Y, i, 0)})
	}
	h, w := e.puzzle.Height, e.puzzle.Width
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ownIsland, isClue := e.clueIndex[Cell{X: x, Y: y}]
			for j := range e.clueCells {
				if isClue && ownIsland == j {
					continue
				}
				clauses = append(clauses, []int{-e.f(x, y, j, 0)})
			}
		}
	}
	return clauses
}

// islandReachability is P3: every non-anchor island cell has a
// same-island neighbor one step closer to its clue.
func (e *Encoder) islandReachability() [][]int {
	var clauses [][]int
	h, w := e.puzzle.Height, e.puzzle.Width
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			neighbors := e.puzzle.Neighbors(x, y)
			for i := range e.clueCells {
				for dist := 1; dist < e.cMax; dist++ {
					clause := []int{-e.f(x, y, i, dist)}
					for _, nb := range neighbors {
						clause = append(clause, e.f(nb.X, nb.Y, i, dist-1))
					}
					clauses = append(clauses, clause)
				}
			}
		}
	}
	return clauses
}

// islandLocalShape is P4: any non-wall neighbor of an island-i cell
// must itself belong to island i at an adjacent distance. This also
// forbids two distinct islands from touching.
func (e *Encoder) islandLocalShape() [][]int {
	var clauses [][]int
	h, w := e.puzzle.Height, e.puzzle.Width
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			neighbors := e.puzzle.Neighbors(x, y)
			for i := range e.clueCells {
				for dist := 0; dist < e.cMax; dist++ {
					for _, nb := range neighbors {
						clause := []int{-e.f(x, y, i, dist), e.w(nb.X, nb.Y)}
						if dist > 0 {
							clause = append(clause, e.f(nb.X, nb.Y, i, dist-1))
						}
						if dist < e.cMax-1 {
							clause = append(clause, e.f(nb.X, nb.Y, i, dist+1))
						}
						clauses = append(clauses, clause)
					}
				}
			}
		}
	}
	return clauses
}

// islandSize is P5: each island i has exactly C_i cells.
func (e *Encoder) islandSize() [][]int {
	var clauses [][]int
	h, w := e.puzzle.Height, e.puzzle.Width
	for i := range e.clueCells {
		var lits []int
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				for dist := 0; dist < e.cMax; dist++ {
					lits = append(lits, e.f(x, y, i, dist))
				}
			}
		}
		clauses = append(clauses, e.cardinality.Exactly(lits, e.clueValue[i], e.pool)...)
	}
	return clauses
}

// noTwoByTwoWalls is P6: no 2x2 window is entirely wall.
func (e *Encoder) noTwoByTwoWalls() [][]int {
	var clauses [][]int
	h, w := e.puzzle.Height, e.puzzle.Width
	for y := 0; y < h-1; y++ {
		for x := 0; x < w-1; x++ {
			clauses = append(clauses, []int{
				-e.w(x, y), -e.w(x+1, y), -e.w(x, y+1), -e.w(x+1, y+1),
			})
		}
	}
	return clauses
}

// wallAnchorClauses is P7: the caller-supplied anchor is the unique
// cell at wall-distance 0. Degenerates to no clauses when W_size is 0
// (no walls, hence no d-family at all).
func (e *Encoder) wallAnchorClauses() [][]int {
	if e.wSize == 0 {
		return nil
	}
	var clauses [][]int
	h, w := e.puzzle.Height, e.puzzle.Width
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == e.anchor.X && y == e.anchor.Y {
				clauses = append(clauses, []int{e.d(x, y, 0)})
			} else {
				clauses = append(clauses, []int{-e.d(x, y, 0)})
			}
		}
	}
	return clauses
}

// wallDistanceExclusivity is P8: a cell is either not a wall, or a
// wall at exactly one distance from the anchor.
func (e *Encoder) wallDistanceExclusivity() [][]int {
	var clauses [][]int
	h, w := e.puzzle.Height, e.puzzle.Width
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			lits := []int{-e.w(x, y)}
			for k := 0; k < e.wSize; k++ {
				lits = append(lits, e.d(x, y, k))
			}
			clauses = append(clauses, e.cardinality.Exactly(lits, 1, e.pool)...)
		}
	}
	return clauses
}

// wallReachability is P9: every non-anchor wall has a wall neighbor
// one step closer to the anchor.
func (e *Encoder) wallReachability() [][]int {
	var clauses [][]int
	h, w := e.puzzle.Height, e.puzzle.Width
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			neighbors := e.puzzle.Neighbors(x, y)
			for k := 1; k < e.wSize; k++ {
				clause := []int{-e.d(x, y, k)}
				for _, nb := range neighbors {
					clause = append(clause, e.d(nb.X, nb.Y, k-1))
				}
				clauses = append(clauses, clause)
			}
		}
	}
	return clauses
}

// wallLocalConsistency is P10: any wall-neighbor of a wall at distance
// k must itself sit at distance k-1 or k+1. Per spec.md §9's scoping
// note, the outer loop starts at k=1, not k=0: d=0 is already pinned
// by P7, so starting at k=0 here would only add a spurious disjunct.
func (e *Encoder) wallLocalConsistency() [][]int {
	var clauses [][]int
	h, w := e.puzzle.Height, e.puzzle.Width
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			neighbors := e.puzzle.Neighbors(x, y)
			for k := 1; k < e.wSize; k++ {
				for _, nb := range neighbors {
					clause := []int{-e.d(x, y, k), -e.w(nb.X, nb.Y), e.d(nb.X, nb.Y, k-1)}
					if k < e.wSize-1 {
						clause = append(clause, e.d(nb.X, nb.Y, k+1))
					}
					clauses = append(clauses, clause)
				}
			}
		}
	}
	return clauses
}

// wallsReachable is P11: every wall cell has some distance from the
// anchor. Redundant given P8 (see spec.md §8, property 7) but kept for
// solver propagation.
func (e *Encoder) wallsReachable() [][]int {
	var clauses [][]int
	h, w := e.puzzle.Height, e.puzzle.Width
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			clause := []int{-e.w(x, y)}
			for k := 0; k < e.wSize; k++ {
				clause = append(clause, e.d(x, y, k))
			}
			clauses = append(clauses, clause)
		}
	}
	return clauses
}

// Decode reads w(x,y) from assignment (indexed by variable id minus
// one, positive meaning true) and produces the W×H wall grid. It
// returns a CorruptModelError if the assignment places a wall at a
// clue cell, which can only happen if clause emission is broken.
func (e *Encoder) Decode(assignment []int) (*Solution, error) {
	h, w := e.puzzle.Height, e.puzzle.Width
	wall := make([][]bool, h)
	for y := range wall {
		wall[y] = make([]bool, w)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			id := e.w(x, y)
			isWall := id-1 < len(assignment) && assignment[id-1] > 0
			if isWall {
				if _, isClue := e.puzzle.Clue(x, y); isClue {
					return nil, &CorruptModelError{Cell: Cell{X: x, Y: y}}
				}
			}
			wall[y][x] = isWall
		}
	}
	return &Solution{Width: w, Height: h, Wall: wall}, nil
}

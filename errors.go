package nurikabe

import "fmt"

// MalformedPuzzleError reports an inconsistency in puzzle ingest: a
// ragged grid, an out-of-range clue, or similar.
type MalformedPuzzleError struct {
	Reason string
}

func (e *MalformedPuzzleError) Error() string {
	return fmt.Sprintf("malformed puzzle: %s", e.Reason)
}

// InvalidAnchorError reports that the caller-supplied wall-connectivity
// anchor cannot be used: it lies outside the grid, or it coincides
// with a clue cell (see spec.md §9, "Clue at anchor").
type InvalidAnchorError struct {
	Anchor Cell
	Reason string
}

func (e *InvalidAnchorError) Error() string {
	return fmt.Sprintf("invalid anchor %v: %s", e.Anchor, e.Reason)
}

// InfeasibleCluesError reports that the sum of clues exceeds the grid
// area, so no wall count could possibly be non-negative.
type InfeasibleCluesError struct {
	SumClues, Area int
}

func (e *InfeasibleCluesError) Error() string {
	return fmt.Sprintf("infeasible clues: sum of clues %d exceeds grid area %d", e.SumClues, e.Area)
}

// UnsolvableError wraps the SAT solver's UNSAT outcome. It does not
// necessarily indicate a bug in the puzzle: it may also mean the
// supplied wall anchor cannot be a wall in any solution (see spec.md
// §9, "Anchor selection"). Callers may retry Build with a different
// anchor.
type UnsolvableError struct {
	Anchor Cell
}

func (e *UnsolvableError) Error() string {
	return fmt.Sprintf("unsolvable with anchor %v", e.Anchor)
}

// CorruptModelError indicates that a model passed to Decode
// contradicts the wall/clue exclusivity the encoder establishes (a
// clue cell assigned true for w(x,y)). This is fatal and indicates a
// defect in clause emission, not a property of the puzzle.
type CorruptModelError struct {
	Cell Cell
}

func (e *CorruptModelError) Error() string {
	return fmt.Sprintf("corrupt model: wall assigned at clue cell %v", e.Cell)
}

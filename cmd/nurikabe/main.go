// Command nurikabe reads a Nurikabe puzzle and prints its solution.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tsasaki/nurikabe"
)

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `nurikabe: solve a Nurikabe puzzle by reduction to SAT.

Usage:

  nurikabe [input.txt]

nurikabe reads a single puzzle in the line-oriented ASCII format: a
digit '1'-'9' is a clue of that value, any other character is a
non-clue cell. If no input file is given, it reads from standard
input.

The solver needs a wall-connectivity anchor cell (see spec §9); since
choosing one is outside the core encoder's scope, this CLI tries every
non-clue cell in row-major order until one yields a solution.
`)
	}
	flag.Parse()

	var r io.Reader = os.Stdin
	if flag.NArg() >= 1 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		r = f
	}

	puzzle, err := nurikabe.ParsePuzzle(r)
	if err != nil {
		log.Fatalln("error reading puzzle:", err)
	}

	solution, anchor, err := solveWithAnyAnchor(puzzle)
	if err != nil {
		log.Fatalln("error solving puzzle:", err)
	}
	fmt.Fprintf(os.Stderr, "solved with anchor %v\n", anchor)
	fmt.Println(solution.String(puzzle))
}

// solveWithAnyAnchor implements anchor-selection strategy (a) from
// spec.md §9: iterate over candidate anchors in row-major order until
// one produces a solution.
func solveWithAnyAnchor(puzzle *nurikabe.Puzzle) (*nurikabe.Solution, nurikabe.Cell, error) {
	solver := nurikabe.NewDPLLSolver()
	candidates := anchorCandidates(puzzle)
	var lastErr error
	for _, anchor := range candidates {
		encoder, err := nurikabe.Build(puzzle, anchor, nil)
		if err != nil {
			var invalid *nurikabe.InvalidAnchorError
			if errors.As(err, &invalid) {
				lastErr = err
				continue
			}
			return nil, anchor, err
		}
		assignment, sat := solver.Solve(encoder.Encode())
		if !sat {
			lastErr = &nurikabe.UnsolvableError{Anchor: anchor}
			continue
		}
		solution, err := encoder.Decode(assignment)
		if err != nil {
			return nil, anchor, err
		}
		return solution, anchor, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no candidate anchor cells")
	}
	return nil, nurikabe.Cell{}, lastErr
}

// anchorCandidates lists non-clue cells in row-major order. If the
// grid is entirely clues (W_size = 0, spec.md §8 boundary behavior),
// the anchor is moot, so cell (0,0) stands in for it.
func anchorCandidates(puzzle *nurikabe.Puzzle) []nurikabe.Cell {
	var cells []nurikabe.Cell
	for y := 0; y < puzzle.Height; y++ {
		for x := 0; x < puzzle.Width; x++ {
			if _, isClue := puzzle.Clue(x, y); !isClue {
				cells = append(cells, nurikabe.Cell{X: x, Y: y})
			}
		}
	}
	if len(cells) == 0 {
		cells = append(cells, nurikabe.Cell{X: 0, Y: 0})
	}
	return cells
}

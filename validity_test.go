package nurikabe

// This file collects the structural checks spec.md §8's invariants
// describe, independent of any particular puzzle: wall connectivity,
// absence of 2x2 wall blocks, and per-island size/connectivity/
// non-adjacency. encoder_test.go applies them to the solutions of its
// satisfiable scenarios.

func noTwoByTwoWallBlock(sol *Solution) bool {
	for y := 0; y < sol.Height-1; y++ {
		for x := 0; x < sol.Width-1; x++ {
			if sol.Wall[y][x] && sol.Wall[y+1][x] && sol.Wall[y][x+1] && sol.Wall[y+1][x+1] {
				return false
			}
		}
	}
	return true
}

func wallsConnected(sol *Solution) bool {
	var start Cell
	found := false
	total := 0
	for y := 0; y < sol.Height; y++ {
		for x := 0; x < sol.Width; x++ {
			if sol.Wall[y][x] {
				total++
				if !found {
					start = Cell{X: x, Y: y}
					found = true
				}
			}
		}
	}
	if total == 0 {
		return true
	}
	visited := bfsCount(sol.Width, sol.Height, start, func(c Cell) bool {
		return sol.Wall[c.Y][c.X]
	})
	return visited == total
}

// islandsValid checks, for every clue cell in puzzle, that its
// non-wall connected component has exactly the clue's size and
// contains no other clue cell (equivalently: distinct islands never
// touch, since touching would merge their components).
func islandsValid(puzzle *Puzzle, sol *Solution) bool {
	for y := 0; y < puzzle.Height; y++ {
		for x := 0; x < puzzle.Width; x++ {
			clue, isClue := puzzle.Clue(x, y)
			if !isClue {
				continue
			}
			if sol.Wall[y][x] {
				return false
			}
			component := make(map[Cell]bool)
			bfsVisit(sol.Width, sol.Height, Cell{X: x, Y: y}, func(c Cell) bool {
				return !sol.Wall[c.Y][c.X]
			}, component)
			if len(component) != clue {
				return false
			}
			clueCount := 0
			for c := range component {
				if _, ok := puzzle.Clue(c.X, c.Y); ok {
					clueCount++
				}
			}
			if clueCount != 1 {
				return false
			}
		}
	}
	return true
}

func bfsCount(width, height int, start Cell, include func(Cell) bool) int {
	visited := make(map[Cell]bool)
	bfsVisit(width, height, start, include, visited)
	return len(visited)
}

func bfsVisit(width, height int, start Cell, include func(Cell) bool, visited map[Cell]bool) {
	if !include(start) || visited[start] {
		return
	}
	queue := []Cell{start}
	visited[start] = true
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, nb := range (&Puzzle{Width: width, Height: height}).Neighbors(c.X, c.Y) {
			if visited[nb] || !include(nb) {
				continue
			}
			visited[nb] = true
			queue = append(queue, nb)
		}
	}
}

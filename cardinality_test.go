package nurikabe

import (
	"testing"

	"github.com/kr/pretty"
)

// evalClauses reports whether assignment (1-indexed by |literal|,
// assignment[v-1] > 0 meaning true) satisfies every clause.
func evalClauses(clauses [][]int, assignment []int) bool {
	for _, clause := range clauses {
		if len(clause) == 0 {
			return false
		}
		satisfied := false
		for _, lit := range clause {
			v := lit
			if v < 0 {
				v = -v
			}
			val := assignment[v-1] > 0
			if lit < 0 {
				val = !val
			}
			if val {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}

// TestSequentialCounterExactly brute-forces every assignment of n
// base literals and confirms the compiled clauses accept exactly
// those assignments with precisely k true literals, for every n and
// k in a small range.
func TestSequentialCounterExactly(t *testing.T) {
	for n := 0; n <= 4; n++ {
		for k := 0; k <= n; k++ {
			pool := NewVariablePool()
			lits := make([]int, n)
			for i := range lits {
				lits[i] = pool.ID(wallKey{X: i, Y: 0})
			}
			sc := NewSequentialCounter()
			clauses := sc.Exactly(lits, k, pool)

			total := pool.Len()
			for assn := 0; assn < (1 << uint(total)); assn++ {
				assignment := make([]int, total)
				for v := 0; v < total; v++ {
					if assn&(1<<uint(v)) != 0 {
						assignment[v] = v + 1
					} else {
						assignment[v] = -(v + 1)
					}
				}
				trueCount := 0
				for _, l := range lits {
					if assignment[l-1] > 0 {
						trueCount++
					}
				}
				want := trueCount == k
				got := evalClauses(clauses, assignment)
				if got && !want {
					t.Fatalf("n=%d k=%d: assignment %# v accepted but has %d true base literals",
						n, k, pretty.Formatter(assignment), trueCount)
				}
				// Note: got may be false even when want is true, because
				// the auxiliary-variable assignment picked by the brute
				// force may not be the one the encoding's implications
				// require; that is checked by the existence test below.
			}

			// Existence: for every base assignment with exactly k true
			// literals, there must be SOME extension to the auxiliary
			// variables that satisfies the clauses (otherwise the
			// compiler would make legitimate solutions unreachable).
			for base := 0; base < (1 << uint(n)); base++ {
				trueCount := 0
				for i := 0; i < n; i++ {
					if base&(1<<uint(i)) != 0 {
						trueCount++
					}
				}
				if trueCount != k {
					continue
				}
				if !existsExtension(clauses, lits, base, total) {
					t.Fatalf("n=%d k=%d: base assignment %0*b has no satisfying extension", n, k, n, base)
				}
			}
		}
	}
}

// existsExtension brute-forces every assignment to the auxiliary
// variables (those beyond len(lits)), holding the base literals fixed
// per the bit pattern base, and reports whether any extension
// satisfies clauses.
func existsExtension(clauses [][]int, lits []int, base, total int) bool {
	n := len(lits)
	auxCount := total - n
	for aux := 0; aux < (1 << uint(auxCount)); aux++ {
		assignment := make([]int, total)
		for i := 0; i < n; i++ {
			if base&(1<<uint(i)) != 0 {
				assignment[lits[i]-1] = lits[i]
			} else {
				assignment[lits[i]-1] = -lits[i]
			}
		}
		for v := n; v < total; v++ {
			if aux&(1<<uint(v-n)) != 0 {
				assignment[v] = v + 1
			} else {
				assignment[v] = -(v + 1)
			}
		}
		if evalClauses(clauses, assignment) {
			return true
		}
	}
	return false
}

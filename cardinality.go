package nurikabe

// CardinalityCompiler compiles an "exactly k of these literals are
// true" constraint into a list of CNF clauses equisatisfiable with
// it, allocating any auxiliary variables it needs from pool. The
// Encoder treats every implementation as a black box (spec.md §4.B):
// any standard cardinality network is a conforming substitute for
// SequentialCounter.
type CardinalityCompiler interface {
	Exactly(lits []int, k int, pool *VariablePool) [][]int
}

// cardinalityAuxKey names a register cell of a sequential counter.
// call distinguishes the auxiliary variables of one Exactly
// invocation (and its internal at-most-on-negated-literals pass) from
// every other invocation against the same pool; i and j are the
// register's own two indices.
type cardinalityAuxKey struct {
	call, i, j int
}

// SequentialCounter is a textbook sequential-counter cardinality
// network (Sinz 2005): an at-most-k constraint over n literals is
// compiled using an (n-1)×k register of auxiliary variables, where
// register cell s[i][j] means "at least j+1 of the first i+1 literals
// are true". Clause count and auxiliary variable count are both
// O(n·k), matching the budget spec.md §9 commits the encoder to.
//
// Exactly(lits, k) is compiled as AtMost(lits, k) conjoined with
// AtMost(¬lits, n-k) (at-least-k restated as at-most-(n-k) of the
// negated literals), each pass allocating its own register.
type SequentialCounter struct {
	calls int
}

// NewSequentialCounter returns a SequentialCounter with no internal
// state beyond the per-call auxiliary-variable namespace counter.
func NewSequentialCounter() *SequentialCounter {
	return &SequentialCounter{}
}

var _ CardinalityCompiler = (*SequentialCounter)(nil)

// Exactly implements CardinalityCompiler.
func (sc *SequentialCounter) Exactly(lits []int, k int, pool *VariablePool) [][]int {
	n := len(lits)
	if k < 0 || k > n {
		// No assignment can satisfy this; emit a clause that can
		// never be true rather than silently producing no
		// constraint at all.
		return [][]int{{}}
	}
	var clauses [][]int
	clauses = append(clauses, sc.atMost(lits, k, pool)...)
	negated := make([]int, n)
	for i, l := range lits {
		negated[i] = -l
	}
	clauses = append(clauses, sc.atMost(negated, n-k, pool)...)
	return clauses
}

// atMost compiles "at most k of lits are true" and reserves a fresh
// auxiliary-variable namespace for this call.
func (sc *SequentialCounter) atMost(lits []int, k int, pool *VariablePool) [][]int {
	n := len(lits)
	if k < 0 {
		k = 0
	}
	if k >= n {
		return nil
	}
	if k == 0 {
		clauses := make([][]int, n)
		for i, l := range lits {
			clauses[i] = []int{-l}
		}
		return clauses
	}

	call := sc.calls
	sc.calls++
	aux := func(i, j int) int {
		return pool.ID(cardinalityAuxKey{call: call, i: i, j: j})
	}

	s := make([][]int, n-1)
	for i := range s {
		s[i] = make([]int, k)
		for j := range s[i] {
			s[i][j] = aux(i, j)
		}
	}

	var clauses [][]int
	add := func(c ...int) {
		clauses = append(clauses, append([]int(nil), c...))
	}

	add(-lits[0], s[0][0])
	for j := 1; j < k; j++ {
		add(-s[0][j])
	}
	for i := 1; i <= n-2; i++ {
		add(-lits[i], s[i][0])
		add(-s[i-1][0], s[i][0])
		for j := 1; j < k; j++ {
			add(-lits[i], -s[i-1][j-1], s[i][j])
			add(-s[i-1][j], s[i][j])
		}
		add(-lits[i], -s[i-1][k-1])
	}
	add(-lits[n-1], -s[n-2][k-1])
	return clauses
}

package nurikabe

import (
	"container/heap"
	"sort"
)

// Solver is the black-box SAT engine the Encoder's output is handed
// to (spec.md §1, §6): it ingests a CNF clause set and returns either
// an unsatisfiable verdict or a satisfying assignment, indexed by
// variable id minus one with sign giving the variable's value. The
// core encoder never depends on a concrete Solver; DPLLSolver is the
// default implementation this module ships so the CLI can run
// end-to-end without an external dependency.
type Solver interface {
	Solve(clauses [][]int) (assignment []int, sat bool)
}

// DPLLSolver is a Davis-Putnam-style backtracking SAT solver with
// two-watched-literal unit propagation, as described in the 2001
// paper "Chaff: Engineering an Efficient SAT Solver". Variable ids need
// not be contiguous; ids below the largest one that occur in no clause
// are reported false.
type DPLLSolver struct{}

// NewDPLLSolver returns the default Solver.
func NewDPLLSolver() *DPLLSolver { return &DPLLSolver{} }

var _ Solver = (*DPLLSolver)(nil)

// Solve implements Solver.
func (*DPLLSolver) Solve(problem [][]int) (assignment []int, sat bool) {
	sv := newDPLLState(problem)
	if !sv.solve() {
		return nil, false
	}
	maxVar := 0
	if n := len(sv.sourceVars); n > 0 {
		maxVar = sv.sourceVars[n-1].v
	}
	soln := make([]int, maxVar)
	for i := range soln {
		soln[i] = -(i + 1)
	}
	for _, v := range sv.sourceVars {
		assn := v.assn
		if assn == dpllUnassigned {
			assn = sv.assignments[v.i] & 3
		}
		switch assn {
		case dpllFalse:
			soln[v.v-1] = -v.v
		case dpllTrue:
			soln[v.v-1] = v.v
		default:
			panic("DPLLSolver: incomplete solution")
		}
	}
	return soln, true
}

type dpllState struct {
	// sourceVars lists each input variable (ids need not be
	// contiguous; any nonzero integers work).
	//
	// If simplification finds a unit clause for a variable, it is
	// assigned directly here and excluded from the solver's clause
	// database. If simplification finds the whole formula trivially
	// sat or unsat, simpleSat records that and solve() skips the
	// search entirely.
	sourceVars []dpllSourceVar
	simpleSat  dpllAssn
	simplified [][]int

	// State below is for the variables simplification couldn't
	// resolve directly.
	origVars    []int // internal var index -> source var
	assignments []dpllAssn
	watches     [][]int // one watch list per literal; len is 2*len(assignments)
	unassigned  dpllLitHeap

	decisions    []dpllDecision
	implications []dpllLiteral
	propIndex    int

	clauses []dpllClause
}

type dpllSourceVar struct {
	v    int
	assn dpllAssn
	i    int // index into assignments, when assn is dpllUnassigned
}

type dpllClause struct {
	lits []dpllLiteral // watch literals are lits[0] and lits[1]
}

// dpllLiteral is 2*(variable index) for the positive sense, or that
// plus 1 for the negated sense.
type dpllLiteral uint32

type dpllAssn uint8

const (
	dpllUnassigned dpllAssn = 0
	dpllTrue       dpllAssn = 1
	dpllFalse      dpllAssn = 2
	// ...Second variants record that an assignment is being tried a
	// second time (after backtracking); same low bit as the first try.
	dpllTrueSecond  dpllAssn = 5
	dpllFalseSecond dpllAssn = 6
)

func (a dpllAssn) inv() dpllAssn { return a ^ 3 }

func (l dpllLiteral) assn() dpllAssn { return dpllAssn(l&1) + 1 }

type dpllDecision struct {
	implicationIdx int
	lit            dpllLiteral
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// newDPLLState simplifies problem and, if that doesn't already decide
// satisfiability, builds the watch-list state needed to search for a
// model.
func newDPLLState(problem [][]int) *dpllState {
	sv := dpllSimplify(problem)
	if sv.simpleSat != dpllUnassigned {
		return sv
	}
	vars := make(map[int]int) // variable value -> internal index
	for _, cls := range sv.simplified {
		for _, v := range cls {
			v = abs(v)
			if _, ok := vars[v]; !ok {
				sv.origVars = append(sv.origVars, v)
				vars[v] = 0
			}
		}
	}
	sort.Ints(sv.origVars)
	for i, v := range sv.origVars {
		vars[v] = i
	}
	for i, sourceVar := range sv.sourceVars {
		if sourceVar.assn == dpllUnassigned {
			sv.sourceVars[i].i = vars[sourceVar.v]
		}
	}

	sv.watches = make([][]int, len(sv.origVars)*2)
	sv.assignments = make([]dpllAssn, len(sv.origVars))
	sv.clauses = make([]dpllClause, len(sv.simplified))
	for i, cls := range sv.simplified {
		for j, v := range cls {
			neg := v < 0
			if neg {
				v = -v
			}
			lit := dpllLiteral(vars[v]) << 1
			if neg {
				lit ^= 1
			}
			sv.clauses[i].lits = append(sv.clauses[i].lits, lit)
			if j < 2 {
				sv.watches[lit] = append(sv.watches[lit], i)
			}
		}
	}

	sv.unassigned.watches = sv.watches
	sv.unassigned.index = make(map[dpllLiteral]int)
	for lit, watchers := range sv.watches {
		if len(watchers) > 0 {
			sv.pushUnassigned(dpllLiteral(lit))
		}
	}
	return sv
}

// dpllSimplify finds unit and empty clauses, assigns what it can, and
// iterates to a fixpoint. It returns a state with only sourceVars,
// simplified, and (if decided) simpleSat set.
func dpllSimplify(problem [][]int) *dpllState {
	var sv dpllState
	vars := make(map[int]dpllAssn)
	sv.simplified = make([][]int, len(problem))
	for i, cls := range problem {
		seen := make(map[int]struct{})
		var clause1 []int
		for _, v := range cls {
			if v == 0 {
				panic("DPLLSolver: zero literal passed to Solve")
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			clause1 = append(clause1, v)
			vars[abs(v)] = dpllUnassigned
		}
		sv.simplified[i] = clause1
	}

	changed := true
	for changed {
		if len(sv.simplified) == 0 {
			sv.simpleSat = dpllTrue
			for v, assn := range vars {
				if assn == dpllUnassigned {
					vars[v] = dpllTrue
				}
			}
			break
		}
		changed = false
		var i int
	clauseLoop:
		for _, cls := range sv.simplified {
			if len(cls) == 0 {
				sv.simpleSat = dpllFalse
				return &sv
			}
			if len(cls) == 1 {
				v := cls[0]
				assn := dpllTrue
				if v < 0 {
					assn = dpllFalse
					v = -v
				}
				if vars[v] != dpllUnassigned && vars[v] != assn {
					sv.simpleSat = dpllFalse
					return &sv
				}
				vars[v] = assn
				changed = true
				continue clauseLoop
			}
			var j int
			for _, v := range cls {
				assn := vars[abs(v)]
				if assn == dpllUnassigned {
					cls[j] = v
					j++
					continue
				}
				changed = true
				if (assn == dpllTrue) == (v > 0) {
					continue clauseLoop
				}
			}
			sv.simplified[i] = cls[:j]
			i++
		}
		sv.simplified = sv.simplified[:i]
	}

	sv.sourceVars = make([]dpllSourceVar, 0, len(vars))
	for v, assn := range vars {
		sv.sourceVars = append(sv.sourceVars, dpllSourceVar{v: v, assn: assn})
	}
	sort.Slice(sv.sourceVars, func(i, j int) bool {
		return sv.sourceVars[i].v < sv.sourceVars[j].v
	})
	return &sv
}

func (sv *dpllState) solve() bool {
	switch sv.simpleSat {
	case dpllTrue:
		return true
	case dpllFalse:
		return false
	}

	for {
		lit, ok := sv.popUnassigned()
		if !ok {
			return true
		}
		sv.deleteUnassigned(lit ^ 1)
		v := lit >> 1
		sv.assignments[v] = lit.assn()
		sv.decisions = append(sv.decisions, dpllDecision{
			implicationIdx: len(sv.implications),
			lit:            lit,
		})
		sv.propIndex = len(sv.implications)
		sv.implications = append(sv.implications, lit)

		for !sv.bcp() {
			if !sv.resolveConflict() {
				return false
			}
		}
	}
}

// bcp performs boolean constraint propagation: it follows the
// implications of the current assignment until there are none left
// (returning true) or it finds a clause that cannot be satisfied
// (returning false).
func (sv *dpllState) bcp() bool {
	for {
		imps := sv.implications[sv.propIndex:]
		if len(imps) == 0 {
			return true
		}
		sv.propIndex = len(sv.implications)
		for _, impliedLit := range imps {
			neg := impliedLit ^ 1
			watches := sv.watches[neg]
		watchesLoop:
			for i := 0; i < len(watches); {
				clauseIdx := watches[i]
				cls := sv.clauses[clauseIdx]
				if cls.lits[0] == neg {
					cls.lits[0], cls.lits[1] = cls.lits[1], cls.lits[0]
				} else if cls.lits[1] != neg {
					panic("DPLLSolver: inconsistent watch state")
				}
				lit0 := cls.lits[0]
				if sv.assignments[lit0>>1]&3 == lit0.assn() {
					// Already satisfied by the other watch.
					i++
					continue
				}
				// Look for a replacement watch.
				for j := 2; j < len(cls.lits); j++ {
					lit := cls.lits[j]
					assn := sv.assignments[lit>>1] & 3
					if assn == lit.assn().inv() {
						continue
					}
					sv.watches[lit] = append(sv.watches[lit], clauseIdx)
					if assn == dpllUnassigned {
						sv.updateUnassigned(lit)
					}
					watches[i], watches[len(watches)-1] = watches[len(watches)-1], watches[i]
					watches = watches[:len(watches)-1]
					sv.watches[neg] = watches
					cls.lits[1], cls.lits[j] = cls.lits[j], cls.lits[1]
					continue watchesLoop
				}
				i++
				otherWatch := cls.lits[0]
				v := int(otherWatch >> 1)
				if sv.assignments[v] != dpllUnassigned {
					return false
				}
				sv.assignments[v] = otherWatch.assn()
				sv.deleteUnassigned(otherWatch)
				sv.implications = append(sv.implications, otherWatch)
			}
		}
	}
}

// resolveConflict flips the most recently made decision that hasn't
// already been tried both ways, rolling back the implications it
// produced. It returns false if every decision has been exhausted
// (the formula is unsatisfiable).
func (sv *dpllState) resolveConflict() bool {
	di := -1
	var dec dpllDecision
	for i := len(sv.decisions) - 1; i >= 0; i-- {
		dec = sv.decisions[i]
		if sv.assignments[dec.lit>>1]&4 == 0 {
			di = i
			break
		}
	}
	if di == -1 {
		return false
	}
	for i := len(sv.implications) - 1; i > dec.implicationIdx; i-- {
		lit := sv.implications[i]
		sv.pushUnassigned(lit)
		sv.assignments[lit>>1] = dpllUnassigned
	}
	sv.implications = sv.implications[:dec.implicationIdx+1]
	sv.implications[len(sv.implications)-1] ^= 1
	sv.decisions = sv.decisions[:di+1]
	sv.decisions[di].lit ^= 1
	sv.assignments[dec.lit>>1] ^= 5 // flip bit 0, set bit 2
	sv.propIndex = dec.implicationIdx
	return true
}

func (sv *dpllState) pushUnassigned(lit dpllLiteral) {
	heap.Push(&sv.unassigned, dpllLitHeapItem{lit: lit})
}

func (sv *dpllState) popUnassigned() (dpllLiteral, bool) {
	if len(sv.unassigned.items) == 0 {
		return 0, false
	}
	e := heap.Pop(&sv.unassigned).(dpllLitHeapItem)
	return e.lit, true
}

func (sv *dpllState) deleteUnassigned(lit dpllLiteral) {
	if i, ok := sv.unassigned.index[lit]; ok {
		heap.Remove(&sv.unassigned, i)
	}
}

func (sv *dpllState) updateUnassigned(lit dpllLiteral) {
	if i, ok := sv.unassigned.index[lit]; ok {
		heap.Fix(&sv.unassigned, i)
	} else {
		heap.Push(&sv.unassigned, dpllLitHeapItem{lit: lit})
	}
}

// dpllLitHeap is a max-heap of unassigned literals ordered by watch
// list size, so the solver branches on the literal most likely to
// propagate.
type dpllLitHeap struct {
	watches [][]int // reference to the parent state's watches
	items   []dpllLitHeapItem
	index   map[dpllLiteral]int
}

type dpllLitHeapItem struct {
	lit dpllLiteral
	i   int
}

func (h *dpllLitHeap) Len() int { return len(h.items) }

func (h *dpllLitHeap) Less(i, j int) bool {
	return len(h.watches[h.items[i].lit]) > len(h.watches[h.items[j].lit])
}

func (h *dpllLitHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].i = i
	h.items[j].i = j
	h.index[h.items[i].lit] = i
	h.index[h.items[j].lit] = j
}

func (h *dpllLitHeap) Push(x any) {
	item := x.(dpllLitHeapItem)
	item.i = len(h.items)
	h.index[item.lit] = item.i
	h.items = append(h.items, item)
}

func (h *dpllLitHeap) Pop() any {
	item := h.items[len(h.items)-1]
	h.items = h.items[:len(h.items)-1]
	delete(h.index, item.lit)
	return item
}

package nurikabe

// VariablePool allocates and remembers stable positive integer ids for
// symbolic variable keys. A key may be any comparable value; small
// structs of plain fields (see wallKey, islandKey, wallDistKey) work
// well and compare by value, so no separate key-stringification layer
// is needed.
//
// The first call to ID with a given key returns a fresh id greater
// than all previously returned ids. Later calls with an equal key
// return that same id. Ids are never reused.
type VariablePool struct {
	ids  map[any]int
	next int
}

// NewVariablePool returns an empty pool.
func NewVariablePool() *VariablePool {
	return &VariablePool{ids: make(map[any]int)}
}

// ID returns the positive integer id for key, allocating one on first
// use.
func (p *VariablePool) ID(key any) int {
	if id, ok := p.ids[key]; ok {
		return id
	}
	p.next++
	p.ids[key] = p.next
	return p.next
}

// Len returns the highest id issued so far, or 0 if ID has never been
// called. Callers use it to size an assignment buffer. Auxiliary
// variables (the cardinality compiler's registers, in particular) are
// minted through ID with keys of their own, so they always land above
// the ids already in use.
func (p *VariablePool) Len() int {
	return p.next
}

package vs

import "github.com/nickyhof/SessionVars/core"

// varPayload is the per-version payload of a variable: a scalar value, or a
// record store when the variable is record-typed.
type varPayload struct {
	value   core.Value
	records *recordStore
}

func (p varPayload) copy() varPayload {
	if p.records != nil {
		return varPayload{records: p.records.copy()}
	}
	return varPayload{value: p.value.Copy()}
}

func (p varPayload) size() int {
	if p.records != nil {
		return p.records.size()
	}
	return p.value.Size()
}

// variable is a named slot inside a package. Regular variables keep exactly
// one state; transactional variables grow a state per nesting level that
// touched them.
type variable struct {
	name          string
	typ           core.ValueType
	transactional bool
	owner         *pkg
	chain[varPayload]
}

// savepoint pushes a copy of the current version tagged with level, carrying
// the validity flag forward.
func (v *variable) savepoint(level int) {
	head := v.head
	v.push(level, head.valid, head.payload.copy())
}

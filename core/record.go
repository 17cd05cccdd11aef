package core

// Column describes one attribute of a record-typed variable. Key marks the
// column used to address tuples; when no column is marked, the first column
// is the key.
type Column struct {
	Name string
	Type ValueType
	Key  bool
}

// KeyIndex returns the index of the key column for a schema.
func KeyIndex(columns []Column) int {
	for i, c := range columns {
		if c.Key {
			return i
		}
	}
	return 0
}

// SameSchema reports whether two column lists agree in arity, names and types.
// The Key marker is not part of the comparison; it is fixed at first insert.
func SameSchema(a, b []Column) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Type != b[i].Type {
			return false
		}
	}
	return true
}

// Tuple is one row of a record-typed variable. Values are held in display
// form; Columns carries the shape the row was written under so that readers
// never depend on the variable's current schema pointer.
type Tuple struct {
	Columns []Column
	Values  []Value
}

// Copy deep-copies the tuple, detaching it from caller-owned memory.
func (t Tuple) Copy() Tuple {
	cols := make([]Column, len(t.Columns))
	copy(cols, t.Columns)
	vals := make([]Value, len(t.Values))
	for i, v := range t.Values {
		vals[i] = v.Copy()
	}
	return Tuple{Columns: cols, Values: vals}
}

// Size approximates the tuple footprint in bytes.
func (t Tuple) Size() int {
	n := 0
	for _, c := range t.Columns {
		n += len(c.Name)
	}
	for _, v := range t.Values {
		n += v.Size()
	}
	return n
}

package vs

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/nickyhof/SessionVars/core"
)

// recordStore holds the tuples of one version of a record-typed variable,
// addressed by the key column. The schema is fixed by the first insert and
// every later tuple must match it.
type recordStore struct {
	columns []core.Column
	keyIdx  int
	rows    *orderedmap.OrderedMap[string, core.Tuple]
}

func newRecordStore(columns []core.Column) *recordStore {
	cols := make([]core.Column, len(columns))
	copy(cols, columns)
	return &recordStore{
		columns: cols,
		keyIdx:  core.KeyIndex(cols),
		rows:    orderedmap.New[string, core.Tuple](),
	}
}

// copy deep-copies the store for a new version, preserving insertion order.
func (rs *recordStore) copy() *recordStore {
	dup := newRecordStore(rs.columns)
	dup.keyIdx = rs.keyIdx
	for pair := rs.rows.Oldest(); pair != nil; pair = pair.Next() {
		dup.rows.Set(pair.Key, pair.Value.Copy())
	}
	return dup
}

// rowKey normalizes a key value into its map representation. Null keys are
// permitted and collide with each other; the tag byte keeps null distinct
// from any non-null rendering.
func rowKey(v core.Value) string {
	if v.Null {
		return "n"
	}
	return "v" + v.Text()
}

// checkKey verifies that a lookup key matches the key column type.
func (rs *recordStore) checkKey(key core.Value) error {
	want := rs.columns[rs.keyIdx].Type
	if !key.Null && key.Type != want {
		return fmt.Errorf("%w: want %s, got %s", ErrKeyTypeMismatch, want, key.Type)
	}
	return nil
}

// checkTuple verifies that a tuple carries the store's schema.
func (rs *recordStore) checkTuple(t core.Tuple) error {
	if !core.SameSchema(rs.columns, t.Columns) {
		return fmt.Errorf("%w: variable has %d attributes", ErrSchemaMismatch, len(rs.columns))
	}
	return checkShape(t.Columns, t)
}

// checkShape verifies a tuple against a column layout: one value per column,
// each value matching its column type.
func checkShape(columns []core.Column, t core.Tuple) error {
	if len(t.Values) != len(columns) {
		return fmt.Errorf("%w: tuple has %d values, schema has %d attributes",
			ErrSchemaMismatch, len(t.Values), len(columns))
	}
	for i, v := range t.Values {
		if !v.Null && v.Type != columns[i].Type {
			return fmt.Errorf("%w: attribute %q wants %s, got %s",
				ErrSchemaMismatch, columns[i].Name, columns[i].Type, v.Type)
		}
	}
	return nil
}

func (rs *recordStore) insert(t core.Tuple) error {
	if err := rs.checkTuple(t); err != nil {
		return err
	}
	k := rowKey(t.Values[rs.keyIdx])
	if _, ok := rs.rows.Get(k); ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, t.Values[rs.keyIdx].Text())
	}
	rs.rows.Set(k, t.Copy())
	return nil
}

// update replaces the tuple whose key equals the new tuple's key value.
func (rs *recordStore) update(t core.Tuple) (bool, error) {
	if err := rs.checkTuple(t); err != nil {
		return false, err
	}
	k := rowKey(t.Values[rs.keyIdx])
	if _, ok := rs.rows.Get(k); !ok {
		return false, nil
	}
	rs.rows.Set(k, t.Copy())
	return true, nil
}

func (rs *recordStore) delete(key core.Value) (bool, error) {
	if err := rs.checkKey(key); err != nil {
		return false, err
	}
	_, ok := rs.rows.Delete(rowKey(key))
	return ok, nil
}

func (rs *recordStore) selectOne(key core.Value) (core.Tuple, bool, error) {
	if err := rs.checkKey(key); err != nil {
		return core.Tuple{}, false, err
	}
	t, ok := rs.rows.Get(rowKey(key))
	if !ok {
		return core.Tuple{}, false, nil
	}
	return t.Copy(), true, nil
}

// selectAll returns every tuple in insertion order.
func (rs *recordStore) selectAll() []core.Tuple {
	out := make([]core.Tuple, 0, rs.rows.Len())
	for pair := rs.rows.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.Copy())
	}
	return out
}

// selectByKeys returns the tuples matching the given keys, skipping misses.
func (rs *recordStore) selectByKeys(keys []core.Value) ([]core.Tuple, error) {
	out := make([]core.Tuple, 0, len(keys))
	for _, key := range keys {
		if err := rs.checkKey(key); err != nil {
			return nil, err
		}
		if t, ok := rs.rows.Get(rowKey(key)); ok {
			out = append(out, t.Copy())
		}
	}
	return out, nil
}

func (rs *recordStore) size() int {
	n := 0
	for pair := rs.rows.Oldest(); pair != nil; pair = pair.Next() {
		n += len(pair.Key) + pair.Value.Size()
	}
	return n
}

// recordVar resolves an existing record-typed variable. Repeated access to
// the same variable hits the last-lookup cache.
func (s *Store) recordVar(p *pkg, name string) (*variable, error) {
	if err := checkName("variable", name); err != nil {
		return nil, err
	}
	v := s.lastVar
	if v == nil || v.owner != p || v.name != name {
		var found bool
		v, found = p.lookup(name)
		if !found {
			return nil, fmt.Errorf("%w %q", ErrUnknownVariable, name)
		}
	}
	if !v.chain.head.valid {
		return nil, fmt.Errorf("%w %q", ErrUnknownVariable, name)
	}
	if v.typ != core.RecordType {
		return nil, fmt.Errorf("%w: variable %q holds %s", ErrNotRecord, name, v.typ)
	}
	s.lastVar = v
	return v, nil
}

// InsertRecord adds a tuple to a record-typed variable, creating the
// variable and its package as needed. The first insert fixes the schema and
// the key column for the variable's lifetime.
func (s *Store) InsertRecord(pkgName, varName string, t core.Tuple, transactional bool) error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("%w: tuple has no attributes", ErrSchemaMismatch)
	}
	// Validate the tuple shape before resolving: a failed insert must not
	// leave a freshly created package or variable behind.
	if err := checkShape(t.Columns, t); err != nil {
		return err
	}
	if err := checkName("variable", varName); err != nil {
		return err
	}
	p, err := s.resolvePackage(pkgName, true, true)
	if err != nil {
		return err
	}
	v, err := s.createVariable(p, varName, core.RecordType, transactional)
	if err != nil {
		return err
	}
	head := v.chain.head
	if head.payload.records == nil {
		head.payload = varPayload{records: newRecordStore(t.Columns)}
	}
	return head.payload.records.insert(t)
}

// UpdateRecord replaces the tuple matching the new tuple's key. It reports
// whether a tuple was found.
func (s *Store) UpdateRecord(pkgName, varName string, t core.Tuple) (bool, error) {
	v, err := s.writableRecordVar(pkgName, varName)
	if err != nil {
		return false, err
	}
	return v.chain.head.payload.records.update(t)
}

// DeleteRecord removes the tuple with the given key, reporting whether one
// existed.
func (s *Store) DeleteRecord(pkgName, varName string, key core.Value) (bool, error) {
	v, err := s.writableRecordVar(pkgName, varName)
	if err != nil {
		return false, err
	}
	return v.chain.head.payload.records.delete(key)
}

// writableRecordVar resolves a record variable for mutation, pushing a
// savepoint copy first when the transaction level requires one.
func (s *Store) writableRecordVar(pkgName, varName string) (*variable, error) {
	p, err := s.resolvePackage(pkgName, false, true)
	if err != nil {
		return nil, err
	}
	v, err := s.recordVar(p, varName)
	if err != nil {
		return nil, err
	}
	if v.chain.head.payload.records == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownVariable, varName)
	}
	if v.transactional {
		s.touchVar(v)
	}
	return v, nil
}

// SelectRecord returns a copy of the tuple with the given key.
func (s *Store) SelectRecord(pkgName, varName string, key core.Value) (core.Tuple, bool, error) {
	rs, err := s.readableRecords(pkgName, varName)
	if err != nil {
		return core.Tuple{}, false, err
	}
	return rs.selectOne(key)
}

// SelectRecords returns copies of every tuple in insertion order.
func (s *Store) SelectRecords(pkgName, varName string) ([]core.Tuple, error) {
	rs, err := s.readableRecords(pkgName, varName)
	if err != nil {
		return nil, err
	}
	return rs.selectAll(), nil
}

// SelectRecordsByKeys returns the tuples matching the given keys, in key
// order, skipping keys with no tuple.
func (s *Store) SelectRecordsByKeys(pkgName, varName string, keys []core.Value) ([]core.Tuple, error) {
	rs, err := s.readableRecords(pkgName, varName)
	if err != nil {
		return nil, err
	}
	return rs.selectByKeys(keys)
}

// RecordColumns returns a copy of the schema fixed at first insert.
func (s *Store) RecordColumns(pkgName, varName string) ([]core.Column, error) {
	rs, err := s.readableRecords(pkgName, varName)
	if err != nil {
		return nil, err
	}
	cols := make([]core.Column, len(rs.columns))
	copy(cols, rs.columns)
	return cols, nil
}

func (s *Store) readableRecords(pkgName, varName string) (*recordStore, error) {
	p, err := s.resolvePackage(pkgName, false, true)
	if err != nil {
		return nil, err
	}
	v, err := s.recordVar(p, varName)
	if err != nil {
		return nil, err
	}
	if v.chain.head.payload.records == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownVariable, varName)
	}
	return v.chain.head.payload.records, nil
}

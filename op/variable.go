package op

import (
	"iter"
	"time"

	"github.com/spf13/cast"

	"github.com/nickyhof/SessionVars/core"
	"github.com/nickyhof/SessionVars/vs"
)

type VariableOp struct {
	Package string
	Name    string
	Store   *vs.Store
}

// Get reads the raw value under a declared type. With strict set, a missing
// package or variable is an error instead of a null result.
func (op *VariableOp) Get(kind core.ValueType, strict bool) (core.Value, error) {
	return op.Store.Get(op.Package, op.Name, kind, strict)
}

func (op *VariableOp) get(want core.ValueType) (core.Value, bool, error) {
	v, err := op.Store.Get(op.Package, op.Name, want, false)
	if err != nil {
		return core.Value{}, false, err
	}
	return v, !v.Null, nil
}

func (op *VariableOp) GetString() (value string, exists bool, err error) {
	var v core.Value
	v, exists, err = op.get(core.StringType)
	if exists {
		value = cast.ToString(v.Data)
	}
	return
}

func (op *VariableOp) GetInt() (value int64, exists bool, err error) {
	var v core.Value
	v, exists, err = op.get(core.IntType)
	if exists {
		value, err = cast.ToInt64E(v.Data)
	}
	return
}

func (op *VariableOp) GetFloat() (value float64, exists bool, err error) {
	var v core.Value
	v, exists, err = op.get(core.FloatType)
	if exists {
		value, err = cast.ToFloat64E(v.Data)
	}
	return
}

func (op *VariableOp) GetBool() (value bool, exists bool, err error) {
	var v core.Value
	v, exists, err = op.get(core.BoolType)
	if exists {
		value, err = cast.ToBoolE(v.Data)
	}
	return
}

func (op *VariableOp) GetTime() (value time.Time, exists bool, err error) {
	var v core.Value
	v, exists, err = op.get(core.TimestampType)
	if exists {
		value, err = cast.ToTimeE(v.Data)
	}
	return
}

func (op *VariableOp) GetJson() (value any, exists bool, err error) {
	var v core.Value
	v, exists, err = op.get(core.JsonType)
	if exists {
		value = v.Data
	}
	return
}

func (op *VariableOp) Set(value core.Value, transactional bool) error {
	return op.Store.Set(op.Package, op.Name, value, transactional)
}

func (op *VariableOp) SetString(value string, transactional bool) error {
	return op.Set(core.Value{Type: core.StringType, Data: value}, transactional)
}

func (op *VariableOp) SetInt(value int64, transactional bool) error {
	return op.Set(core.Value{Type: core.IntType, Data: value}, transactional)
}

func (op *VariableOp) SetFloat(value float64, transactional bool) error {
	return op.Set(core.Value{Type: core.FloatType, Data: value}, transactional)
}

func (op *VariableOp) SetBool(value bool, transactional bool) error {
	return op.Set(core.Value{Type: core.BoolType, Data: value}, transactional)
}

func (op *VariableOp) SetTime(value time.Time, transactional bool) error {
	return op.Set(core.Value{Type: core.TimestampType, Data: value}, transactional)
}

func (op *VariableOp) Remove() error {
	return op.Store.RemoveVariable(op.Package, op.Name)
}

func (op *VariableOp) Exists() (bool, error) {
	return op.Store.Exists(op.Package, op.Name)
}

func (op *VariableOp) Insert(tuple core.Tuple, transactional bool) error {
	return op.Store.InsertRecord(op.Package, op.Name, tuple, transactional)
}

func (op *VariableOp) Update(tuple core.Tuple) (bool, error) {
	return op.Store.UpdateRecord(op.Package, op.Name, tuple)
}

func (op *VariableOp) Delete(key core.Value) (bool, error) {
	return op.Store.DeleteRecord(op.Package, op.Name, key)
}

func (op *VariableOp) Select(key core.Value) (core.Tuple, bool, error) {
	return op.Store.SelectRecord(op.Package, op.Name, key)
}

func (op *VariableOp) Columns() ([]core.Column, error) {
	return op.Store.RecordColumns(op.Package, op.Name)
}

func (op *VariableOp) Count() (int, error) {
	tuples, err := op.Store.SelectRecords(op.Package, op.Name)
	if err != nil {
		return 0, err
	}
	return len(tuples), nil
}

// Scan iterates the record variable's tuples in insertion order.
func (op *VariableOp) Scan() (iter.Seq[core.Tuple], error) {
	tuples, err := op.Store.SelectRecords(op.Package, op.Name)
	if err != nil {
		return nil, err
	}
	return func(yield func(core.Tuple) bool) {
		for _, t := range tuples {
			if !yield(t) {
				return
			}
		}
	}, nil
}

// ScanWithFilter iterates only the tuples the filter accepts.
func (op *VariableOp) ScanWithFilter(filterExpr func(t core.Tuple) bool) (iter.Seq[core.Tuple], error) {
	all, err := op.Scan()
	if err != nil {
		return nil, err
	}
	return func(yield func(core.Tuple) bool) {
		for t := range all {
			if filterExpr(t) && !yield(t) {
				return
			}
		}
	}, nil
}

package op

import (
	"iter"

	"github.com/nickyhof/SessionVars/vs"
)

type PackageOp struct {
	Name  string
	Store *vs.Store
}

// GetPackage binds an op to an existing package.
func GetPackage(name string, store *vs.Store) (*PackageOp, error) {
	ok, err := store.ExistsPackage(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, vs.ErrUnknownPackage
	}
	return &PackageOp{Name: name, Store: store}, nil
}

func (op *PackageOp) Drop() error {
	return op.Store.RemovePackage(op.Name)
}

func (op *PackageOp) VariableNames() []string {
	var names []string
	for _, info := range op.Store.ListAll() {
		if info.Package == op.Name {
			names = append(names, info.Variable)
		}
	}
	return names
}

// Variables iterates the package's visible variables with their type info.
func (op *PackageOp) Variables() iter.Seq[vs.VarInfo] {
	return func(yield func(vs.VarInfo) bool) {
		for _, info := range op.Store.ListAll() {
			if info.Package == op.Name {
				if !yield(info) {
					return
				}
			}
		}
	}
}

func (op *PackageOp) Exists(variable string) (bool, error) {
	return op.Store.Exists(op.Name, variable)
}

func (op *PackageOp) Stats() (vs.PackageStats, bool) {
	for _, st := range op.Store.Stats() {
		if st.Package == op.Name {
			return st, true
		}
	}
	return vs.PackageStats{}, false
}

// Variable binds a VariableOp without checking existence; reads through it
// surface the usual unknown-variable errors.
func (op *PackageOp) Variable(name string) *VariableOp {
	return &VariableOp{Package: op.Name, Name: name, Store: op.Store}
}

package vs

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/nickyhof/SessionVars/core"
)

// Host supplies the transaction context a Store lives in. The store never
// drives transactions itself; it only asks how deeply nested the current
// one is.
type Host interface {
	// NestingLevel returns the current transaction nesting level. A session
	// outside an explicit transaction reports level 1.
	NestingLevel() int
}

// Store is a session-local collection of packages and their variables.
// All state lives in memory and dies with the session; transactional
// variables additionally follow the host's transaction via version chains.
//
// A Store is not safe for concurrent use. Each session owns one.
type Store struct {
	host     Host
	packages *orderedmap.OrderedMap[string, *pkg]
	changes  *changesStack

	// last successful lookups, to skip registry walks on repeated access
	lastPkg *pkg
	lastVar *variable
}

// NewStore returns an empty store bound to the given transaction host.
func NewStore(host Host) *Store {
	return &Store{host: host}
}

func (s *Store) level() int {
	return s.host.NestingLevel()
}

func checkName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%w: %s name", ErrNullName, kind)
	}
	if len(name) > core.NameLimit {
		return fmt.Errorf("%w: %s name %q exceeds %d bytes", ErrNameTooLong, kind, name, core.NameLimit)
	}
	return nil
}

// prepareChanges creates the changes stack back-filled to the current
// nesting level. Frames for outer levels a write never reached are created
// empty here, so one frame always exists per active level.
func (s *Store) prepareChanges() {
	if s.changes == nil {
		s.changes = &changesStack{}
		for i := 0; i < s.level(); i++ {
			s.changes.push()
		}
	}
}

// touchPack ensures the package has its own version for the current level
// and sits in the current changes frame. The new version copies the old
// one's validity; the caller flips it afterwards.
func (s *Store) touchPack(p *pkg) {
	s.prepareChanges()
	if p.changedAt(s.level()) {
		return
	}
	p.savepoint(s.level())
	s.changes.top().addPack(p)
}

// touchVar does the same for a transactional variable, copying the payload
// so the parent level's version survives untouched.
func (s *Store) touchVar(v *variable) {
	s.prepareChanges()
	if v.changedAt(s.level()) {
		return
	}
	v.savepoint(s.level())
	s.changes.top().addVar(v)
}

// enrollPack registers a freshly created package in the current frame
// without pushing a copy: its initial version belongs to this level.
func (s *Store) enrollPack(p *pkg) {
	s.prepareChanges()
	if p.changedAt(s.level()) {
		return
	}
	p.chain.head.level = s.level()
	s.changes.top().addPack(p)
}

// enrollVar does the same for a freshly created transactional variable.
func (s *Store) enrollVar(v *variable) {
	s.prepareChanges()
	if v.changedAt(s.level()) {
		return
	}
	v.chain.head.level = s.level()
	s.changes.top().addVar(v)
}

// resolvePackage finds a package by name. With create set, a missing or
// removed package is (re-)created; otherwise strict controls whether the
// miss is an error or a nil result. A removed package counts as missing.
func (s *Store) resolvePackage(name string, create, strict bool) (*pkg, error) {
	if err := checkName("package", name); err != nil {
		return nil, err
	}
	if s.lastPkg != nil && s.lastPkg.name == name {
		p := s.lastPkg
		if p.chain.head.valid {
			return p, nil
		}
		// fall through: removed package may need resurrection
	}
	if s.packages == nil {
		if !create {
			if strict {
				return nil, fmt.Errorf("%w %q", ErrUnknownPackage, name)
			}
			return nil, nil
		}
		s.packages = orderedmap.New[string, *pkg]()
	}

	p, found := s.packages.Get(name)
	switch {
	case found && p.chain.head.valid:
		s.lastPkg = p
		return p, nil

	case found && create:
		// Removed earlier in this session: resurrect. The regular registry
		// starts over empty and every resident transactional variable is
		// forced invalid, so nothing leaks through from before the removal.
		s.touchPack(p)
		p.chain.head.valid = true
		p.resetRegular()
		for pair := p.trans.Oldest(); pair != nil; pair = pair.Next() {
			v := pair.Value
			s.touchVar(v)
			v.chain.head.valid = false
		}
		s.lastPkg = p
		return p, nil

	case found: // removed, no create
		if strict {
			return nil, fmt.Errorf("%w %q", ErrUnknownPackage, name)
		}
		return nil, nil

	case create:
		p = newPkg(name)
		p.push(0, true, struct{}{})
		s.packages.Set(name, p)
		s.enrollPack(p)
		s.lastPkg = p
		return p, nil

	default:
		if strict {
			return nil, fmt.Errorf("%w %q", ErrUnknownPackage, name)
		}
		return nil, nil
	}
}

// resolveVariable finds an existing variable of the wanted type in either
// registry. Type mismatches are errors even when strict is off; a missing or
// removed variable is an error only when strict is on.
func (s *Store) resolveVariable(p *pkg, name string, want core.ValueType, strict bool) (*variable, error) {
	if err := checkName("variable", name); err != nil {
		return nil, err
	}
	v, found := p.lookup(name)
	if !found {
		if strict {
			return nil, fmt.Errorf("%w %q", ErrUnknownVariable, name)
		}
		return nil, nil
	}
	if v.typ != want {
		return nil, fmt.Errorf("%w: variable %q holds %s", ErrTypeMismatch, name, v.typ)
	}
	if !v.chain.head.valid {
		if strict {
			return nil, fmt.Errorf("%w %q", ErrUnknownVariable, name)
		}
		return nil, nil
	}
	s.lastVar = v
	return v, nil
}

// createVariable finds or creates a variable for writing. The declared type
// and transactional mode must match an existing variable exactly.
func (s *Store) createVariable(p *pkg, name string, typ core.ValueType, transactional bool) (*variable, error) {
	if err := checkName("variable", name); err != nil {
		return nil, err
	}
	// Reverse check: mode is fixed at creation.
	if _, found := p.registry(!transactional).Get(name); found {
		mode := "NOT TRANSACTIONAL"
		if !transactional {
			mode = "TRANSACTIONAL"
		}
		return nil, fmt.Errorf("%w: variable %q already created as %s", ErrModeMismatch, name, mode)
	}

	reg := p.registry(transactional)
	v, found := reg.Get(name)
	if found {
		if v.typ != typ {
			return nil, fmt.Errorf("%w: variable %q holds %s", ErrTypeMismatch, name, v.typ)
		}
		if transactional {
			s.touchVar(v)
		}
		// A removed variable re-created by this write starts from scratch;
		// its old payload must not resurface.
		if !v.chain.head.valid {
			v.chain.head.payload = varPayload{value: core.NullValue(typ)}
		}
	} else {
		v = &variable{name: name, typ: typ, transactional: transactional, owner: p}
		v.push(0, true, varPayload{value: core.NullValue(typ)})
		reg.Set(name, v)
		if transactional {
			s.enrollVar(v)
		}
	}
	v.chain.head.valid = true
	s.lastVar = v
	return v, nil
}

// Set assigns a scalar value to a variable, creating the variable and its
// package as needed. The value is copied in; callers keep ownership of their
// argument.
func (s *Store) Set(pkgName, varName string, value core.Value, transactional bool) error {
	if value.Type == core.RecordType {
		return fmt.Errorf("%w: records are written with InsertRecord", ErrTypeMismatch)
	}
	if err := checkName("variable", varName); err != nil {
		return err
	}
	p, err := s.resolvePackage(pkgName, true, true)
	if err != nil {
		return err
	}
	v, err := s.createVariable(p, varName, value.Type, transactional)
	if err != nil {
		return err
	}
	v.chain.head.payload = varPayload{value: value.Copy()}
	return nil
}

// Get reads a variable's scalar value. With strict set, a missing package or
// variable is an error; otherwise a null value of the wanted type is
// returned. The result is a copy detached from store memory.
func (s *Store) Get(pkgName, varName string, want core.ValueType, strict bool) (core.Value, error) {
	p, err := s.resolvePackage(pkgName, false, strict)
	if err != nil {
		return core.Value{}, err
	}
	if p == nil {
		return core.NullValue(want), nil
	}
	v, err := s.resolveVariable(p, varName, want, strict)
	if err != nil {
		return core.Value{}, err
	}
	if v == nil {
		return core.NullValue(want), nil
	}
	if v.typ == core.RecordType {
		return core.Value{}, fmt.Errorf("%w: records are read with SelectRecords", ErrTypeMismatch)
	}
	return v.chain.head.payload.value.Copy(), nil
}

// Exists reports whether a variable exists and is visible at the current
// transaction level.
func (s *Store) Exists(pkgName, varName string) (bool, error) {
	if err := checkName("variable", varName); err != nil {
		return false, err
	}
	p, err := s.resolvePackage(pkgName, false, false)
	if err != nil || p == nil {
		return false, err
	}
	v, found := p.lookup(varName)
	if !found {
		return false, nil
	}
	return v.chain.head.valid, nil
}

// ExistsPackage reports whether a package exists and is visible.
func (s *Store) ExistsPackage(pkgName string) (bool, error) {
	p, err := s.resolvePackage(pkgName, false, false)
	if err != nil {
		return false, err
	}
	return p != nil, nil
}

// RemoveVariable removes a variable by name. Regular variables are destroyed
// on the spot; transactional ones are marked removed in the current level's
// version so an abort can bring them back.
func (s *Store) RemoveVariable(pkgName, varName string) error {
	if err := checkName("variable", varName); err != nil {
		return err
	}
	p, err := s.resolvePackage(pkgName, false, true)
	if err != nil {
		return err
	}
	if _, found := p.regular.Get(varName); found {
		p.regular.Delete(varName)
		s.lastVar = nil
		return nil
	}
	v, found := p.trans.Get(varName)
	if !found || !v.chain.head.valid {
		return fmt.Errorf("%w %q", ErrUnknownVariable, varName)
	}
	s.touchVar(v)
	v.chain.head.valid = false
	s.lastVar = nil
	return nil
}

// RemovePackage removes a package and everything in it. Regular variables
// are destroyed immediately and do not come back on abort; the package entry
// and its transactional variables follow the transaction.
func (s *Store) RemovePackage(pkgName string) error {
	p, err := s.resolvePackage(pkgName, false, true)
	if err != nil {
		return err
	}
	s.removePackage(p)
	s.lastPkg = nil
	s.lastVar = nil
	return nil
}

func (s *Store) removePackage(p *pkg) {
	p.resetRegular()
	s.touchPack(p)
	p.chain.head.valid = false
}

// RemoveAll removes every package.
func (s *Store) RemoveAll() error {
	if s.packages == nil {
		return nil
	}
	for pair := s.packages.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.chain.head.valid {
			s.removePackage(pair.Value)
		}
	}
	s.lastPkg = nil
	s.lastVar = nil
	return nil
}

// VarInfo names one visible variable.
type VarInfo struct {
	Package       string
	Variable      string
	Type          core.ValueType
	Transactional bool
}

// ListAll enumerates every visible variable in package creation order, then
// variable creation order, regular before transactional.
func (s *Store) ListAll() []VarInfo {
	var out []VarInfo
	if s.packages == nil {
		return out
	}
	for pp := s.packages.Oldest(); pp != nil; pp = pp.Next() {
		p := pp.Value
		if !p.chain.head.valid {
			continue
		}
		for vp := p.regular.Oldest(); vp != nil; vp = vp.Next() {
			out = append(out, VarInfo{p.name, vp.Value.name, vp.Value.typ, false})
		}
		for vp := p.trans.Oldest(); vp != nil; vp = vp.Next() {
			if vp.Value.chain.head.valid {
				out = append(out, VarInfo{p.name, vp.Value.name, vp.Value.typ, true})
			}
		}
	}
	return out
}

// teardown releases everything once the last package is gone and no
// transaction still references the stack.
func (s *Store) teardown() {
	s.packages = nil
	s.changes = nil
	s.lastPkg = nil
	s.lastVar = nil
}

package vs

// The host calls these hooks as its transaction moves through scopes. Every
// hook is a no-op while the changes stack does not exist, i.e. when no
// transactional object has been touched in the current transaction.
//
// Hooks that drain a frame must run while the nesting level still reports
// the scope being closed; the host decrements its level afterwards.

type action int

const (
	actionRelease action = iota
	actionRollback
)

// OnScopeStart signals that a nested scope (savepoint) opened.
func (s *Store) OnScopeStart() {
	if s.changes != nil {
		s.changes.push()
	}
}

// OnScopeCommit signals that the innermost scope released into its parent.
func (s *Store) OnScopeCommit() {
	if s.changes != nil {
		s.processChanges(actionRelease)
	}
}

// OnScopeAbort signals that the innermost scope rolled back.
func (s *Store) OnScopeAbort() {
	if s.changes != nil {
		s.processChanges(actionRollback)
	}
}

// OnPreCommit signals that the top-level transaction is about to commit.
func (s *Store) OnPreCommit() {
	if s.changes != nil {
		s.processChanges(actionRelease)
	}
}

// OnAbort signals that the top-level transaction rolled back.
func (s *Store) OnAbort() {
	if s.changes != nil {
		s.processChanges(actionRollback)
	}
}

// processChanges drains the innermost frame, applying the action to every
// object it recorded. Variables go first so that a package removal can force
// its variables invalid before the package's own release.
func (s *Store) processChanges(act action) {
	frame := s.changes.popFrame()
	level := s.level()

	for i := len(frame.vars) - 1; i >= 0; i-- {
		v := frame.vars[i]
		if v.chain.head == nil {
			continue // died with its package
		}
		switch act {
		case actionRollback:
			s.rollbackVar(v)
		case actionRelease:
			// A variable only reaches the frame before its package is
			// removed, so the package's validity is authoritative here.
			if !v.owner.chain.head.valid {
				v.chain.head.valid = false
			}
			if s.changes.empty() || v.chain.changedBeneath(level) {
				s.releaseVar(v)
			} else {
				s.changes.top().addVar(v)
				v.chain.head.level--
			}
		}
	}

	for i := len(frame.packs) - 1; i >= 0; i-- {
		p := frame.packs[i]
		if p.chain.head == nil {
			continue
		}
		switch act {
		case actionRollback:
			s.rollbackPack(p)
		case actionRelease:
			if s.changes.empty() || p.chain.changedBeneath(level) {
				s.releasePack(p)
			} else {
				s.changes.top().addPack(p)
				p.chain.head.level--
			}
		}
	}

	if s.changes.empty() {
		s.changes = nil
	}
	if s.packages != nil && s.packages.Len() == 0 {
		s.teardown()
	}
}

// rollbackVar discards the version written at the aborted level. A variable
// born in that scope disappears with it.
func (s *Store) rollbackVar(v *variable) {
	if _, empty := v.chain.pop(); empty {
		s.removeVar(v)
	}
}

// rollbackPack discards the package version written at the aborted level.
// A package born in that scope disappears; one that survives gets a fresh
// empty regular registry, since regular variables never follow the
// transaction back.
func (s *Store) rollbackPack(p *pkg) {
	if _, empty := p.chain.pop(); empty {
		s.removePack(p)
	} else {
		p.resetRegular()
	}
}

// releaseVar folds the released version into the parent level: the parent's
// own version is dropped, and a variable left removed with no history goes
// away entirely.
func (s *Store) releaseVar(v *variable) {
	v.chain.dropBeneathHead()
	if !v.chain.head.valid && !v.chain.hasPrev() {
		s.removeVar(v)
		return
	}
	v.chain.head.level--
}

func (s *Store) releasePack(p *pkg) {
	p.chain.dropBeneathHead()
	if !p.chain.head.valid && !p.chain.hasPrev() {
		s.removePack(p)
		return
	}
	p.chain.head.level--
}

// removeVar deletes a transactional variable for good. The nil head marks it
// dead for any outer frame still holding a reference.
func (s *Store) removeVar(v *variable) {
	v.owner.trans.Delete(v.name)
	v.chain.head = nil
	if s.lastVar == v {
		s.lastVar = nil
	}
}

// removePack deletes a package and its transactional variables for good.
func (s *Store) removePack(p *pkg) {
	if s.changes != nil && !s.changes.empty() {
		s.changes.top().dropPackage(p)
	}
	for pair := p.trans.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.chain.head = nil
	}
	p.chain.head = nil
	s.packages.Delete(p.name)
	if s.lastPkg == p {
		s.lastPkg = nil
	}
	if s.lastVar != nil && s.lastVar.owner == p {
		s.lastVar = nil
	}
}

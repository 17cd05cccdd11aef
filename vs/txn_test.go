package vs

import (
	"errors"
	"testing"

	"github.com/nickyhof/SessionVars/core"
)

func TestCommitKeepsTransactionalValue(t *testing.T) {
	s, h := newTestStore()

	mustSet(t, s, "app", "x", intVal(1), true)
	h.commitTop(s)

	if got := mustGetInt(t, s, "app", "x"); got != 1 {
		t.Errorf("expected 1 after commit, got %d", got)
	}
	if s.changes != nil {
		t.Errorf("changes stack should be gone after top-level commit")
	}
}

func TestRollbackRestoresPreviousValue(t *testing.T) {
	s, h := newTestStore()

	mustSet(t, s, "app", "x", intVal(1), true)
	h.commitTop(s)

	mustSet(t, s, "app", "x", intVal(2), true)
	if got := mustGetInt(t, s, "app", "x"); got != 2 {
		t.Errorf("expected 2 inside transaction, got %d", got)
	}
	h.abortTop(s)

	if got := mustGetInt(t, s, "app", "x"); got != 1 {
		t.Errorf("expected 1 after rollback, got %d", got)
	}
}

func TestRollbackRemovesNewVariable(t *testing.T) {
	s, h := newTestStore()

	mustSet(t, s, "app", "keep", intVal(1), true)
	h.commitTop(s)

	mustSet(t, s, "app", "gone", intVal(2), true)
	h.abortTop(s)

	if ok, _ := s.Exists("app", "gone"); ok {
		t.Errorf("variable created in aborted transaction should be gone")
	}
	if got := mustGetInt(t, s, "app", "keep"); got != 1 {
		t.Errorf("sibling variable damaged by rollback: %d", got)
	}
}

func TestRollbackRemovesNewPackage(t *testing.T) {
	s, h := newTestStore()

	mustSet(t, s, "fresh", "x", intVal(1), true)
	h.abortTop(s)

	if ok, _ := s.ExistsPackage("fresh"); ok {
		t.Errorf("package created in aborted transaction should be gone")
	}
	if s.packages != nil {
		t.Errorf("store should tear down when the last package rolls away")
	}
}

func TestSavepointRollback(t *testing.T) {
	s, h := newTestStore()

	mustSet(t, s, "app", "x", intVal(1), true)

	h.scope(s)
	mustSet(t, s, "app", "x", intVal(2), true)
	if got := mustGetInt(t, s, "app", "x"); got != 2 {
		t.Errorf("expected 2 inside savepoint, got %d", got)
	}
	h.rollback(s)

	if got := mustGetInt(t, s, "app", "x"); got != 1 {
		t.Errorf("expected 1 after savepoint rollback, got %d", got)
	}

	h.commitTop(s)
	if got := mustGetInt(t, s, "app", "x"); got != 1 {
		t.Errorf("expected 1 after commit, got %d", got)
	}
}

func TestSavepointRelease(t *testing.T) {
	s, h := newTestStore()

	mustSet(t, s, "app", "x", intVal(1), true)

	h.scope(s)
	mustSet(t, s, "app", "x", intVal(2), true)
	h.release(s)

	if got := mustGetInt(t, s, "app", "x"); got != 2 {
		t.Errorf("expected 2 after release, got %d", got)
	}

	// The released write still belongs to the outer transaction.
	h.abortTop(s)
	if ok, _ := s.Exists("app", "x"); ok {
		t.Errorf("outer rollback should discard the released write too")
	}
}

func TestNestedSavepoints(t *testing.T) {
	s, h := newTestStore()

	mustSet(t, s, "app", "x", intVal(1), true)
	h.commitTop(s)

	mustSet(t, s, "app", "x", intVal(2), true)
	h.scope(s)
	mustSet(t, s, "app", "x", intVal(3), true)
	h.scope(s)
	mustSet(t, s, "app", "x", intVal(4), true)
	h.rollback(s)

	if got := mustGetInt(t, s, "app", "x"); got != 3 {
		t.Errorf("expected 3 after inner rollback, got %d", got)
	}

	h.release(s)
	if got := mustGetInt(t, s, "app", "x"); got != 3 {
		t.Errorf("expected 3 after release, got %d", got)
	}

	h.commitTop(s)
	if got := mustGetInt(t, s, "app", "x"); got != 3 {
		t.Errorf("expected 3 after commit, got %d", got)
	}
}

func TestOneVersionPerLevel(t *testing.T) {
	s, h := newTestStore()

	mustSet(t, s, "app", "x", intVal(1), true)
	h.commitTop(s)

	mustSet(t, s, "app", "x", intVal(2), true)
	mustSet(t, s, "app", "x", intVal(3), true)
	mustSet(t, s, "app", "x", intVal(4), true)

	p, _ := s.packages.Get("app")
	v, _ := p.trans.Get("x")
	if d := v.chain.depth(); d != 2 {
		t.Errorf("repeated writes at one level should share a version, depth = %d", d)
	}

	h.abortTop(s)
	if got := mustGetInt(t, s, "app", "x"); got != 1 {
		t.Errorf("expected 1 after rollback, got %d", got)
	}
}

func TestRegularVariableIgnoresTransactions(t *testing.T) {
	s, h := newTestStore()

	mustSet(t, s, "app", "pin", intVal(1), false)
	mustSet(t, s, "app", "tx", intVal(1), true)
	h.commitTop(s)

	h.scope(s)
	mustSet(t, s, "app", "pin", intVal(2), false)
	mustSet(t, s, "app", "tx", intVal(2), true)
	h.rollback(s)

	if got := mustGetInt(t, s, "app", "pin"); got != 2 {
		t.Errorf("regular variable should keep rolled-back write, got %d", got)
	}
	if got := mustGetInt(t, s, "app", "tx"); got != 1 {
		t.Errorf("transactional variable should roll back, got %d", got)
	}
}

func TestRemoveVariableRollback(t *testing.T) {
	s, h := newTestStore()

	mustSet(t, s, "app", "x", intVal(1), true)
	h.commitTop(s)

	if err := s.RemoveVariable("app", "x"); err != nil {
		t.Fatalf("RemoveVariable failed: %v", err)
	}
	if ok, _ := s.Exists("app", "x"); ok {
		t.Errorf("removed variable should be invisible inside the transaction")
	}
	h.abortTop(s)

	if got := mustGetInt(t, s, "app", "x"); got != 1 {
		t.Errorf("rollback should undo the removal, got %d", got)
	}
}

func TestRemoveVariableCommit(t *testing.T) {
	s, h := newTestStore()

	mustSet(t, s, "app", "x", intVal(1), true)
	mustSet(t, s, "app", "keep", intVal(2), true)
	h.commitTop(s)

	if err := s.RemoveVariable("app", "x"); err != nil {
		t.Fatalf("RemoveVariable failed: %v", err)
	}
	h.commitTop(s)

	if ok, _ := s.Exists("app", "x"); ok {
		t.Errorf("removal should stick after commit")
	}
	p, _ := s.packages.Get("app")
	if _, resident := p.trans.Get("x"); resident {
		t.Errorf("committed removal should free the variable entry")
	}
}

func TestRemovePackageRollback(t *testing.T) {
	s, h := newTestStore()

	mustSet(t, s, "app", "pin", intVal(1), false)
	mustSet(t, s, "app", "tx", intVal(2), true)
	h.commitTop(s)

	if err := s.RemovePackage("app"); err != nil {
		t.Fatalf("RemovePackage failed: %v", err)
	}
	if ok, _ := s.ExistsPackage("app"); ok {
		t.Errorf("removed package should be invisible")
	}
	h.abortTop(s)

	if ok, _ := s.ExistsPackage("app"); !ok {
		t.Errorf("rollback should bring the package back")
	}
	if got := mustGetInt(t, s, "app", "tx"); got != 2 {
		t.Errorf("transactional variable should survive the undone removal, got %d", got)
	}
	// Regular variables die at removal and stay dead.
	if ok, _ := s.Exists("app", "pin"); ok {
		t.Errorf("regular variable must not come back from a package removal")
	}
}

func TestRemovePackageCommit(t *testing.T) {
	s, h := newTestStore()

	mustSet(t, s, "app", "tx", intVal(1), true)
	mustSet(t, s, "other", "y", intVal(2), true)
	h.commitTop(s)

	if err := s.RemovePackage("app"); err != nil {
		t.Fatalf("RemovePackage failed: %v", err)
	}
	h.commitTop(s)

	if ok, _ := s.ExistsPackage("app"); ok {
		t.Errorf("package removal should stick after commit")
	}
	if _, resident := s.packages.Get("app"); resident {
		t.Errorf("committed removal should free the package entry")
	}
	if got := mustGetInt(t, s, "other", "y"); got != 2 {
		t.Errorf("sibling package damaged: %d", got)
	}
}

func TestPackageResurrection(t *testing.T) {
	s, h := newTestStore()

	mustSet(t, s, "app", "old", intVal(1), true)
	h.commitTop(s)

	if err := s.RemovePackage("app"); err != nil {
		t.Fatalf("RemovePackage failed: %v", err)
	}
	// Re-creating the package inside the same transaction resurrects the
	// entry, but nothing from before the removal shows through.
	mustSet(t, s, "app", "new", intVal(2), true)

	if ok, _ := s.Exists("app", "old"); ok {
		t.Errorf("pre-removal variable must stay invisible after resurrection")
	}
	if got := mustGetInt(t, s, "app", "new"); got != 2 {
		t.Errorf("expected 2 for the new variable, got %d", got)
	}

	h.abortTop(s)

	// The rollback undoes both the removal and the resurrection.
	if got := mustGetInt(t, s, "app", "old"); got != 1 {
		t.Errorf("expected 1 after rollback, got %d", got)
	}
	if ok, _ := s.Exists("app", "new"); ok {
		t.Errorf("variable from the aborted resurrection should be gone")
	}
}

func TestPackageResurrectionCommit(t *testing.T) {
	s, h := newTestStore()

	mustSet(t, s, "app", "old", intVal(1), true)
	h.commitTop(s)

	if err := s.RemovePackage("app"); err != nil {
		t.Fatalf("RemovePackage failed: %v", err)
	}
	mustSet(t, s, "app", "new", intVal(2), true)
	h.commitTop(s)

	if ok, _ := s.Exists("app", "old"); ok {
		t.Errorf("pre-removal variable should be gone for good")
	}
	if got := mustGetInt(t, s, "app", "new"); got != 2 {
		t.Errorf("expected 2 after commit, got %d", got)
	}
}

func TestScopeStartWithoutChangesIsNoop(t *testing.T) {
	s, h := newTestStore()

	// No transactional object touched yet: every hook is a no-op.
	h.scope(s)
	h.release(s)
	h.commitTop(s)
	h.abortTop(s)

	if s.changes != nil {
		t.Errorf("changes stack should not exist")
	}

	// A write deep inside savepoints back-fills one frame per level.
	h.scope(s)
	h.scope(s)
	mustSet(t, s, "app", "x", intVal(1), true)
	if got := len(s.changes.frames); got != 3 {
		t.Fatalf("expected 3 back-filled frames, got %d", got)
	}
	h.rollback(s)
	h.rollback(s)
	h.abortTop(s)

	if ok, _ := s.ExistsPackage("app"); ok {
		t.Errorf("everything should roll away")
	}
}

func TestGetInsideRemovedPackage(t *testing.T) {
	s, h := newTestStore()

	mustSet(t, s, "app", "x", intVal(1), true)
	h.commitTop(s)

	if err := s.RemovePackage("app"); err != nil {
		t.Fatalf("RemovePackage failed: %v", err)
	}
	if _, err := s.Get("app", "x", core.IntType, true); !errors.Is(err, ErrUnknownPackage) {
		t.Errorf("reads through a removed package should fail, got %v", err)
	}
	v, err := s.Get("app", "x", core.IntType, false)
	if err != nil || !v.Null {
		t.Errorf("non-strict read should be null, got %v, %v", v, err)
	}
}

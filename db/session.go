package db

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nickyhof/SessionVars/vs"
)

var (
	ErrNoTransaction    = errors.New("no transaction in progress")
	ErrInTransaction    = errors.New("a transaction is already in progress")
	ErrUnknownSavepoint = errors.New("no such savepoint")
	ErrSavepointOutside = errors.New("SAVEPOINT can only be used in transaction blocks")
)

// Session owns one variable store and drives its transaction hooks. Outside
// an explicit transaction every statement commits on its own; BEGIN opens a
// block and SAVEPOINT nests scopes inside it.
//
// The session reports nesting level 1 outside explicit savepoints, one more
// per open savepoint.
type Session struct {
	ID    string
	store *vs.Store

	level      int
	inTxn      bool
	savepoints []string
}

func NewSession() *Session {
	session := &Session{
		ID:    uuid.NewString(),
		level: 1,
	}
	session.store = vs.NewStore(session)
	return session
}

// NestingLevel implements vs.Host.
func (session *Session) NestingLevel() int {
	return session.level
}

// Store exposes the underlying variable store for direct API use.
func (session *Session) Store() *vs.Store {
	return session.store
}

func (session *Session) InTransaction() bool {
	return session.inTxn
}

func (session *Session) Begin() error {
	if session.inTxn {
		return ErrInTransaction
	}
	session.inTxn = true
	return nil
}

// Commit releases every open savepoint scope and commits the transaction.
func (session *Session) Commit() error {
	if !session.inTxn {
		return ErrNoTransaction
	}
	for session.level > 1 {
		session.store.OnScopeCommit()
		session.level--
	}
	session.store.OnPreCommit()
	session.inTxn = false
	session.savepoints = nil
	return nil
}

// Rollback aborts every open savepoint scope and the transaction itself.
func (session *Session) Rollback() error {
	if !session.inTxn {
		return ErrNoTransaction
	}
	for session.level > 1 {
		session.store.OnScopeAbort()
		session.level--
	}
	session.store.OnAbort()
	session.inTxn = false
	session.savepoints = nil
	return nil
}

// Savepoint opens a nested scope. The same name may be reused; RELEASE and
// ROLLBACK TO address the innermost occurrence.
func (session *Session) Savepoint(name string) error {
	if !session.inTxn {
		return ErrSavepointOutside
	}
	session.level++
	session.store.OnScopeStart()
	session.savepoints = append(session.savepoints, name)
	return nil
}

// ReleaseSavepoint commits the named scope and everything nested inside it.
func (session *Session) ReleaseSavepoint(name string) error {
	idx, err := session.findSavepoint(name)
	if err != nil {
		return err
	}
	for len(session.savepoints) > idx {
		session.store.OnScopeCommit()
		session.level--
		session.savepoints = session.savepoints[:len(session.savepoints)-1]
	}
	return nil
}

// RollbackToSavepoint aborts everything down to the named scope, then
// re-establishes the savepoint so it can be rolled back to again.
func (session *Session) RollbackToSavepoint(name string) error {
	idx, err := session.findSavepoint(name)
	if err != nil {
		return err
	}
	for len(session.savepoints) > idx {
		session.store.OnScopeAbort()
		session.level--
		session.savepoints = session.savepoints[:len(session.savepoints)-1]
	}
	session.level++
	session.store.OnScopeStart()
	session.savepoints = append(session.savepoints, name)
	return nil
}

func (session *Session) findSavepoint(name string) (int, error) {
	if !session.inTxn {
		return 0, ErrNoTransaction
	}
	for i := len(session.savepoints) - 1; i >= 0; i-- {
		if session.savepoints[i] == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSavepoint, name)
}

// autocommitEnd closes the implicit transaction around one statement.
func (session *Session) autocommitEnd(failed bool) {
	if session.inTxn {
		return
	}
	if failed {
		session.store.OnAbort()
	} else {
		session.store.OnPreCommit()
	}
}

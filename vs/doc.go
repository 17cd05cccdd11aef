// Package vs implements the versioned variable store at the heart of
// SessionVars.
//
// Variables are grouped into named packages. A variable is either regular
// (immediate, untouched by transactions) or transactional (its writes follow
// the host transaction through commit, rollback and savepoints).
//
// # Version Chains
//
// Every transactional object carries a chain of versions, newest first, with
// at most one version per transaction nesting level. The first write at a
// deeper level pushes a copy of the current version; a rollback pops it, a
// release folds it into the parent level.
//
// # Changes Stack
//
// The store keeps one frame per nesting level listing the objects touched at
// that level. The stack is created lazily on the first transactional write
// and back-filled to the current depth, and drained one frame at a time as
// scopes close. Variables drain before packages so a package removal can
// force its variables invalid first.
//
// # Hosts
//
// The store never begins or ends transactions. A Host reports the current
// nesting level, and calls OnScopeStart, OnScopeCommit, OnScopeAbort,
// OnPreCommit and OnAbort as its transaction moves.
package vs

// Package db provides the session and command execution engine for
// SessionVars.
//
// The Session type owns one variable store and tracks the transaction
// nesting level. The Engine type is the main entry point for executing
// statements against a session.
//
// # Engine Usage
//
//	session := db.NewSession()
//	engine := db.NewEngine(session)
//	result, err := engine.Execute("SET vars.counter = 1 AS INT")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result.Display()
//
// # Result Types
//
// There are two result types:
//   - QueryResult: Returned by GET, EXISTS, LIST, STATS, SELECT
//   - CommitResult: Returned by SET, REMOVE, DROP, INSERT, UPDATE, DELETE
//     and transaction control statements
//
// QueryResult contains columns, data rows, and execution metrics.
// CommitResult contains counts of affected objects.
//
// Outside an explicit BEGIN block every statement runs in its own
// transaction: it commits on success and rolls back on error, so a failed
// statement leaves no partial effects behind.
package db

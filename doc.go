// Package SessionVars provides a session-scoped store of typed variables
// with transactional semantics.
//
// Variables are grouped into named packages. A variable is either regular
// (its value ignores transactions entirely) or transactional (its value
// follows BEGIN/COMMIT/ROLLBACK and savepoints, version by version). Scalar
// variables hold a single typed value; record variables hold keyed tuples
// with a schema fixed at first insert.
//
// # Quick Start
//
// Create an instance and run commands through its engine:
//
//	instance := SessionVars.Open()
//	engine := instance.Engine()
//
//	engine.Execute("SET app.counter = 1 AS INT")
//	engine.Execute("INSERT INTO app.users (id INT KEY, name STRING) VALUES (1, 'Alice')")
//
//	result, _ := engine.Execute("SELECT * FROM app.users")
//	result.Display()
//
// # Supported Commands
//
//   - SET, GET, EXISTS, REMOVE for scalar variables
//   - INSERT, UPDATE, DELETE, SELECT for record variables
//   - DROP PACKAGE, DROP ALL, LIST, STATS
//   - Transactions: BEGIN, COMMIT, ROLLBACK
//   - Savepoints: SAVEPOINT, RELEASE, ROLLBACK TO
//
// The op package offers a typed Go API over the same store for callers that
// prefer method calls over command strings.
package SessionVars

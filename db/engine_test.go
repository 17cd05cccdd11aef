package db

import (
	"errors"
	"testing"

	"github.com/nickyhof/SessionVars/vs"
)

func setupTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(NewSession())
}

func mustExecute(t *testing.T, engine *Engine, query string) Result {
	t.Helper()
	result, err := engine.Execute(query)
	if err != nil {
		t.Fatalf("Failed to execute %q: %v", query, err)
	}
	return result
}

func getValue(t *testing.T, engine *Engine, query string) string {
	t.Helper()
	result := mustExecute(t, engine, query)
	qr := result.(QueryResult)
	if len(qr.Data) != 1 || len(qr.Data[0]) != 1 {
		t.Fatalf("Expected single value for %q, got %v", query, qr.Data)
	}
	return qr.Data[0][0]
}

func insertTestRecords(t *testing.T, engine *Engine) {
	t.Helper()
	mustExecute(t, engine, "INSERT INTO app.users (id INT KEY, name STRING, age INT) VALUES (1, 'Alice', 30)")
	mustExecute(t, engine, "INSERT INTO app.users VALUES (2, 'Bob', 25)")
	mustExecute(t, engine, "INSERT INTO app.users VALUES (3, 'Charlie', 35)")
}

func TestEngineSetGet(t *testing.T) {
	engine := setupTestEngine(t)

	mustExecute(t, engine, "SET app.counter = 42 AS INT")

	if got := getValue(t, engine, "GET app.counter AS INT"); got != "42" {
		t.Errorf("Expected 42, got %s", got)
	}
}

func TestEngineGetMissing(t *testing.T) {
	engine := setupTestEngine(t)

	// Non-strict GET of a missing variable returns NULL
	if got := getValue(t, engine, "GET app.nothing"); got != "NULL" {
		t.Errorf("Expected NULL, got %s", got)
	}

	_, err := engine.Execute("GET app.nothing STRICT")
	if !errors.Is(err, vs.ErrUnknownPackage) {
		t.Errorf("Expected unknown package error, got %v", err)
	}
}

func TestEngineGetTypeMismatch(t *testing.T) {
	engine := setupTestEngine(t)

	mustExecute(t, engine, "SET app.name = 'Alice'")

	_, err := engine.Execute("GET app.name AS INT")
	if !errors.Is(err, vs.ErrTypeMismatch) {
		t.Errorf("Expected type mismatch error, got %v", err)
	}
}

func TestEngineExists(t *testing.T) {
	engine := setupTestEngine(t)

	mustExecute(t, engine, "SET app.flag = true AS BOOL")

	if got := getValue(t, engine, "EXISTS app.flag"); got != "true" {
		t.Errorf("Expected true, got %s", got)
	}
	if got := getValue(t, engine, "EXISTS app.other"); got != "false" {
		t.Errorf("Expected false, got %s", got)
	}
	if got := getValue(t, engine, "EXISTS PACKAGE app"); got != "true" {
		t.Errorf("Expected true, got %s", got)
	}
	if got := getValue(t, engine, "EXISTS PACKAGE missing"); got != "false" {
		t.Errorf("Expected false, got %s", got)
	}
}

func TestEngineRemove(t *testing.T) {
	engine := setupTestEngine(t)

	mustExecute(t, engine, "SET app.counter = 1 AS INT")
	result := mustExecute(t, engine, "REMOVE app.counter")

	cr := result.(CommitResult)
	if cr.VariablesRemoved != 1 {
		t.Errorf("Expected 1 variable removed, got %d", cr.VariablesRemoved)
	}
	if got := getValue(t, engine, "EXISTS app.counter"); got != "false" {
		t.Errorf("Expected false after remove, got %s", got)
	}
}

func TestEngineDropPackage(t *testing.T) {
	engine := setupTestEngine(t)

	mustExecute(t, engine, "SET app.a = 1 AS INT")
	mustExecute(t, engine, "SET app.b = 2 AS INT")
	result := mustExecute(t, engine, "DROP PACKAGE app")

	cr := result.(CommitResult)
	if cr.PackagesDropped != 1 {
		t.Errorf("Expected 1 package dropped, got %d", cr.PackagesDropped)
	}
	if got := getValue(t, engine, "EXISTS PACKAGE app"); got != "false" {
		t.Errorf("Expected false after drop, got %s", got)
	}
}

func TestEngineDropAll(t *testing.T) {
	engine := setupTestEngine(t)

	mustExecute(t, engine, "SET app.a = 1 AS INT")
	mustExecute(t, engine, "SET other.b = 2 AS INT")
	result := mustExecute(t, engine, "DROP ALL")

	cr := result.(CommitResult)
	if cr.PackagesDropped != 2 {
		t.Errorf("Expected 2 packages dropped, got %d", cr.PackagesDropped)
	}
}

func TestEngineList(t *testing.T) {
	engine := setupTestEngine(t)

	mustExecute(t, engine, "SET app.counter = 1 AS INT")
	mustExecute(t, engine, "SET app.name = 'x' TRANSACTIONAL")
	result := mustExecute(t, engine, "LIST")

	qr := result.(QueryResult)
	if len(qr.Data) != 2 {
		t.Fatalf("Expected 2 variables listed, got %d", len(qr.Data))
	}
	if qr.Data[0][1] != "counter" || qr.Data[0][3] != "false" {
		t.Errorf("Unexpected first row: %v", qr.Data[0])
	}
	if qr.Data[1][1] != "name" || qr.Data[1][3] != "true" {
		t.Errorf("Unexpected second row: %v", qr.Data[1])
	}
}

func TestEngineStats(t *testing.T) {
	engine := setupTestEngine(t)

	mustExecute(t, engine, "SET app.counter = 1 AS INT")
	result := mustExecute(t, engine, "STATS")

	qr := result.(QueryResult)
	if len(qr.Data) != 1 {
		t.Fatalf("Expected 1 package in stats, got %d", len(qr.Data))
	}
	if qr.Data[0][0] != "app" || qr.Data[0][2] != "1" {
		t.Errorf("Unexpected stats row: %v", qr.Data[0])
	}
}

func TestEngineInsertSelect(t *testing.T) {
	engine := setupTestEngine(t)
	insertTestRecords(t, engine)

	result := mustExecute(t, engine, "SELECT * FROM app.users")
	qr := result.(QueryResult)
	if qr.RecordsRead != 3 {
		t.Errorf("Expected 3 records, got %d", qr.RecordsRead)
	}
	if len(qr.Columns) != 3 || qr.Columns[0] != "id" {
		t.Errorf("Unexpected columns: %v", qr.Columns)
	}
}

func TestEngineSelectByKey(t *testing.T) {
	engine := setupTestEngine(t)
	insertTestRecords(t, engine)

	result := mustExecute(t, engine, "SELECT * FROM app.users WHERE KEY = 2")
	qr := result.(QueryResult)
	if len(qr.Data) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(qr.Data))
	}
	if qr.Data[0][1] != "Bob" {
		t.Errorf("Expected Bob, got %s", qr.Data[0][1])
	}
}

func TestEngineSelectByKeys(t *testing.T) {
	engine := setupTestEngine(t)
	insertTestRecords(t, engine)

	result := mustExecute(t, engine, "SELECT * FROM app.users WHERE KEY IN (1, 3)")
	qr := result.(QueryResult)
	if len(qr.Data) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(qr.Data))
	}
}

func TestEngineInsertWithoutSchema(t *testing.T) {
	engine := setupTestEngine(t)

	// First insert must carry column definitions
	_, err := engine.Execute("INSERT INTO app.users VALUES (1, 'Alice')")
	if err == nil {
		t.Fatal("Expected error inserting without a schema")
	}
}

func TestEngineInsertDuplicateKey(t *testing.T) {
	engine := setupTestEngine(t)
	insertTestRecords(t, engine)

	_, err := engine.Execute("INSERT INTO app.users VALUES (1, 'Dup', 99)")
	if !errors.Is(err, vs.ErrDuplicateKey) {
		t.Errorf("Expected duplicate key error, got %v", err)
	}
}

func TestEngineUpdateDelete(t *testing.T) {
	engine := setupTestEngine(t)
	insertTestRecords(t, engine)

	result := mustExecute(t, engine, "UPDATE app.users VALUES (2, 'Bobby', 26)")
	if cr := result.(CommitResult); cr.RecordsWritten != 1 {
		t.Errorf("Expected 1 record written, got %d", cr.RecordsWritten)
	}

	sel := mustExecute(t, engine, "SELECT * FROM app.users WHERE KEY = 2").(QueryResult)
	if sel.Data[0][1] != "Bobby" {
		t.Errorf("Expected Bobby after update, got %s", sel.Data[0][1])
	}

	result = mustExecute(t, engine, "DELETE FROM app.users WHERE KEY = 3")
	if cr := result.(CommitResult); cr.RecordsDeleted != 1 {
		t.Errorf("Expected 1 record deleted, got %d", cr.RecordsDeleted)
	}

	// Misses report zero counts rather than errors
	result = mustExecute(t, engine, "DELETE FROM app.users WHERE KEY = 99")
	if cr := result.(CommitResult); cr.RecordsDeleted != 0 {
		t.Errorf("Expected 0 records deleted on miss, got %d", cr.RecordsDeleted)
	}
}

func TestEngineTransactionCommit(t *testing.T) {
	engine := setupTestEngine(t)

	mustExecute(t, engine, "BEGIN")
	mustExecute(t, engine, "SET app.counter = 1 AS INT TRANSACTIONAL")
	mustExecute(t, engine, "COMMIT")

	if got := getValue(t, engine, "GET app.counter AS INT"); got != "1" {
		t.Errorf("Expected 1 after commit, got %s", got)
	}
}

func TestEngineTransactionRollback(t *testing.T) {
	engine := setupTestEngine(t)

	mustExecute(t, engine, "SET app.counter = 1 AS INT TRANSACTIONAL")
	mustExecute(t, engine, "BEGIN")
	mustExecute(t, engine, "SET app.counter = 2 AS INT TRANSACTIONAL")
	mustExecute(t, engine, "ROLLBACK")

	if got := getValue(t, engine, "GET app.counter AS INT"); got != "1" {
		t.Errorf("Expected 1 after rollback, got %s", got)
	}
}

func TestEngineSavepoints(t *testing.T) {
	engine := setupTestEngine(t)

	mustExecute(t, engine, "BEGIN")
	mustExecute(t, engine, "SET app.counter = 1 AS INT TRANSACTIONAL")
	mustExecute(t, engine, "SAVEPOINT sp1")
	mustExecute(t, engine, "SET app.counter = 2 AS INT TRANSACTIONAL")
	mustExecute(t, engine, "ROLLBACK TO SAVEPOINT sp1")

	if got := getValue(t, engine, "GET app.counter AS INT"); got != "1" {
		t.Errorf("Expected 1 after rollback to savepoint, got %s", got)
	}

	mustExecute(t, engine, "SET app.counter = 3 AS INT TRANSACTIONAL")
	mustExecute(t, engine, "RELEASE SAVEPOINT sp1")
	mustExecute(t, engine, "COMMIT")

	if got := getValue(t, engine, "GET app.counter AS INT"); got != "3" {
		t.Errorf("Expected 3 after release and commit, got %s", got)
	}
}

func TestEngineSavepointOutsideTransaction(t *testing.T) {
	engine := setupTestEngine(t)

	_, err := engine.Execute("SAVEPOINT sp1")
	if !errors.Is(err, ErrSavepointOutside) {
		t.Errorf("Expected savepoint outside transaction error, got %v", err)
	}
}

func TestEngineRegularVariableSurvivesRollback(t *testing.T) {
	engine := setupTestEngine(t)

	mustExecute(t, engine, "BEGIN")
	mustExecute(t, engine, "SET app.counter = 7 AS INT")
	mustExecute(t, engine, "ROLLBACK")

	if got := getValue(t, engine, "GET app.counter AS INT"); got != "7" {
		t.Errorf("Expected regular variable to survive rollback, got %s", got)
	}
}

func TestEngineAutocommitAbortOnError(t *testing.T) {
	engine := setupTestEngine(t)
	insertTestRecords(t, engine)

	// Make the rows transactional so a failed statement has effects to undo
	mustExecute(t, engine, "INSERT INTO app.audit (seq INT KEY, note STRING) VALUES (1, 'ok') TRANSACTIONAL")

	_, err := engine.Execute("INSERT INTO app.audit VALUES (1, 'dup') TRANSACTIONAL")
	if !errors.Is(err, vs.ErrDuplicateKey) {
		t.Fatalf("Expected duplicate key error, got %v", err)
	}

	// The surviving row is still there
	sel := mustExecute(t, engine, "SELECT * FROM app.audit").(QueryResult)
	if len(sel.Data) != 1 || sel.Data[0][1] != "ok" {
		t.Errorf("Unexpected rows after failed insert: %v", sel.Data)
	}
}

func TestEngineParseError(t *testing.T) {
	engine := setupTestEngine(t)

	if _, err := engine.Execute("FROB app.counter"); err == nil {
		t.Error("Expected parse error for unknown statement")
	}
}

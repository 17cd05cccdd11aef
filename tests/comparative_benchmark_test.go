//go:build comparative

package tests

import (
	"database/sql"
	"strconv"
	"testing"

	"github.com/nickyhof/SessionVars"
	"github.com/nickyhof/SessionVars/db"

	_ "github.com/duckdb/duckdb-go/v2"
)

// ============================================================================
// SETUP FUNCTIONS
// ============================================================================

// setupSessionVars creates a SessionVars engine with test data
func setupSessionVars(b *testing.B) *db.Engine {
	engine := SessionVars.Open().Engine()

	engine.Execute("INSERT INTO bench.users (id INT KEY, name STRING, age INT, city STRING) VALUES (1, 'User1', 21, 'City1')")
	for i := 2; i <= 1000; i++ {
		engine.Execute("INSERT INTO bench.users VALUES (" +
			strconv.Itoa(i) + ", 'User" + strconv.Itoa(i) + "', " + strconv.Itoa(20+i%50) + ", 'City" + strconv.Itoa(i%10) + "')")
	}

	return engine
}

// setupDuckDB creates a DuckDB instance with identical test data
func setupDuckDB(b *testing.B) *sql.DB {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		b.Fatalf("Failed to open DuckDB: %v", err)
	}

	_, err = db.Exec("CREATE TABLE users (id INTEGER PRIMARY KEY, name VARCHAR, age INTEGER, city VARCHAR)")
	if err != nil {
		b.Fatalf("Failed to create table: %v", err)
	}

	// Insert 1000 records
	for i := 1; i <= 1000; i++ {
		_, err = db.Exec("INSERT INTO users VALUES (?, ?, ?, ?)",
			i, "User"+strconv.Itoa(i), 20+i%50, "City"+strconv.Itoa(i%10))
		if err != nil {
			b.Fatalf("Failed to insert: %v", err)
		}
	}

	return db
}

// ============================================================================
// SELECT ALL BENCHMARKS
// ============================================================================

func BenchmarkSessionVars_SelectAll(b *testing.B) {
	engine := setupSessionVars(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("SELECT * FROM bench.users")
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

func BenchmarkDuckDB_SelectAll(b *testing.B) {
	db := setupDuckDB(b)
	defer db.Close()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rows, err := db.Query("SELECT * FROM users")
		if err != nil {
			b.Fatalf("Query error: %v", err)
		}
		// Consume all rows to match SessionVars behavior
		for rows.Next() {
			var id, age int
			var name, city string
			rows.Scan(&id, &name, &age, &city)
		}
		rows.Close()
	}
}

// ============================================================================
// POINT LOOKUP BENCHMARKS
// ============================================================================

func BenchmarkSessionVars_PointLookup(b *testing.B) {
	engine := setupSessionVars(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		id := (i % 1000) + 1
		_, err := engine.Execute("SELECT * FROM bench.users WHERE KEY = " + strconv.Itoa(id))
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

func BenchmarkDuckDB_PointLookup(b *testing.B) {
	db := setupDuckDB(b)
	defer db.Close()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		id := (i % 1000) + 1
		rows, err := db.Query("SELECT * FROM users WHERE id = ?", id)
		if err != nil {
			b.Fatalf("Query error: %v", err)
		}
		for rows.Next() {
			var id, age int
			var name, city string
			rows.Scan(&id, &name, &age, &city)
		}
		rows.Close()
	}
}

// ============================================================================
// MULTI-KEY LOOKUP BENCHMARKS
// ============================================================================

func BenchmarkSessionVars_MultiKey(b *testing.B) {
	engine := setupSessionVars(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("SELECT * FROM bench.users WHERE KEY IN (10, 250, 500, 750, 990)")
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

func BenchmarkDuckDB_MultiKey(b *testing.B) {
	db := setupDuckDB(b)
	defer db.Close()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rows, err := db.Query("SELECT * FROM users WHERE id IN (10, 250, 500, 750, 990)")
		if err != nil {
			b.Fatalf("Query error: %v", err)
		}
		for rows.Next() {
			var id, age int
			var name, city string
			rows.Scan(&id, &name, &age, &city)
		}
		rows.Close()
	}
}

// ============================================================================
// INSERT BENCHMARKS
// ============================================================================

func BenchmarkSessionVars_Insert(b *testing.B) {
	engine := SessionVars.Open().Engine()
	engine.Execute("INSERT INTO bench.items (id INT KEY, value STRING) VALUES (-1, 'seed')")

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("INSERT INTO bench.items VALUES (" +
			strconv.Itoa(i) + ", 'value" + strconv.Itoa(i) + "')")
		if err != nil {
			b.Fatalf("Insert error: %v", err)
		}
	}
}

func BenchmarkDuckDB_Insert(b *testing.B) {
	db, _ := sql.Open("duckdb", "")
	defer db.Close()
	db.Exec("CREATE TABLE items (id INTEGER PRIMARY KEY, value VARCHAR)")

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := db.Exec("INSERT INTO items VALUES (?, ?)", i, "value"+strconv.Itoa(i))
		if err != nil {
			b.Fatalf("Insert error: %v", err)
		}
	}
}

// ============================================================================
// UPDATE BENCHMARKS
// ============================================================================

func BenchmarkSessionVars_Update(b *testing.B) {
	engine := setupSessionVars(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		id := (i % 1000) + 1
		_, err := engine.Execute("UPDATE bench.users VALUES (" + strconv.Itoa(id) + ", 'Updated', 99, 'City0')")
		if err != nil {
			b.Fatalf("Update error: %v", err)
		}
	}
}

func BenchmarkDuckDB_Update(b *testing.B) {
	db := setupDuckDB(b)
	defer db.Close()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		id := (i % 1000) + 1
		_, err := db.Exec("UPDATE users SET name = 'Updated', age = 99, city = 'City0' WHERE id = ?", id)
		if err != nil {
			b.Fatalf("Update error: %v", err)
		}
	}
}

// ============================================================================
// TRANSACTION BENCHMARKS
// ============================================================================

func BenchmarkSessionVars_TxnRollback(b *testing.B) {
	engine := SessionVars.Open().Engine()
	engine.Execute("SET bench.counter = 0 AS INT TRANSACTIONAL")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Execute("BEGIN")
		engine.Execute("SET bench.counter = " + strconv.Itoa(i) + " AS INT TRANSACTIONAL")
		engine.Execute("ROLLBACK")
	}
}

func BenchmarkDuckDB_TxnRollback(b *testing.B) {
	db := setupDuckDB(b)
	defer db.Close()
	db.Exec("CREATE TABLE counter (v INTEGER)")
	db.Exec("INSERT INTO counter VALUES (0)")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tx, err := db.Begin()
		if err != nil {
			b.Fatalf("Begin error: %v", err)
		}
		tx.Exec("UPDATE counter SET v = ?", i)
		tx.Rollback()
	}
}

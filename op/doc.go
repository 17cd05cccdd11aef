// Package op provides high-level operations for working with SessionVars packages and variables.
//
// The op package sits between the command engine (db/) and the versioned
// store (vs/), providing convenient abstractions for common operations.
//
// # PackageOp
//
// PackageOp wraps package-level operations:
//
//	pkgOp, err := op.GetPackage("app", store)
//	names := pkgOp.VariableNames()        // List visible variables
//	pkgOp.Drop()                          // Remove the package
//	st, ok := pkgOp.Stats()               // Memory footprint
//
// # VariableOp
//
// VariableOp wraps one variable for typed access and record CRUD:
//
//	varOp := pkgOp.Variable("counter")
//
//	// Scalar reads
//	num, exists, _ := varOp.GetInt()
//	str, exists, _ := varOp.GetString()
//
//	// Scalar writes
//	varOp.SetInt(42, true)                // transactional
//	varOp.SetString("hello", false)       // regular
//
//	// Record CRUD
//	varOp.Insert(tuple, true)
//	varOp.Update(tuple)
//	varOp.Delete(key)
//	row, exists, _ := varOp.Select(key)
//
//	// Scanning with optional filter
//	rows, _ := varOp.Scan()
//	for t := range rows {
//	    // process all tuples
//	}
//
// # Architecture
//
// The layering is:
//
//	Command Parser (sql/)
//	     ↓
//	Command Engine (db/)
//	     ↓
//	Operations (op/)     ← This package
//	     ↓
//	Versioned Store (vs/)
package op

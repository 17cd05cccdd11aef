// Package core provides core types used throughout SessionVars.
//
// The package defines the value model shared by every layer: typed scalar
// values, record schemas and tuples, and the name length limit.
//
// # Value Types
//
// Supported value types:
//   - StringType: Text values
//   - IntType: 64-bit integers
//   - FloatType: Floating point numbers
//   - BoolType: Boolean values
//   - JsonType: Decoded JSON documents
//   - TimestampType: Date/time values
//   - RecordType: Keyed tuple collections
//
// # Values
//
// Value carries a declared type, the canonical Go payload, and a null flag:
//
//	v, err := core.ParseValue("42", core.IntType)
//
// # Records
//
// Record-typed variables hold Tuples addressed by a key column:
//
//	cols := []core.Column{
//	    {Name: "id", Type: core.IntType, Key: true},
//	    {Name: "name", Type: core.StringType},
//	}
package core

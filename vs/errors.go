package vs

import "errors"

var (
	// ErrUnknownPackage is returned when a named package does not exist.
	ErrUnknownPackage = errors.New("unrecognized package")
	// ErrUnknownVariable is returned when a named variable does not exist
	// in its package.
	ErrUnknownVariable = errors.New("unrecognized variable")
	// ErrTypeMismatch is returned when an access declares a type other
	// than the one the variable was created with.
	ErrTypeMismatch = errors.New("variable has a different type")
	// ErrModeMismatch is returned when an access declares a transactional
	// mode other than the one the variable was created with.
	ErrModeMismatch = errors.New("variable has a different transactional mode")
	// ErrKeyTypeMismatch is returned when a record lookup key does not
	// match the key column type.
	ErrKeyTypeMismatch = errors.New("key type differs from record key column")
	// ErrSchemaMismatch is returned when an inserted tuple does not match
	// the record schema fixed at first insert.
	ErrSchemaMismatch = errors.New("tuple does not match record schema")
	// ErrDuplicateKey is returned when an insert collides with an existing
	// tuple key.
	ErrDuplicateKey = errors.New("duplicate record key")
	// ErrNullName is returned when a package or variable name is empty.
	ErrNullName = errors.New("name cannot be null or empty")
	// ErrNameTooLong is returned when a name exceeds core.NameLimit bytes.
	ErrNameTooLong = errors.New("name is too long")
	// ErrNotRecord is returned when a record operation targets a scalar
	// variable.
	ErrNotRecord = errors.New("variable is not a record")
)

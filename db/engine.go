package db

import (
	"fmt"
	"time"

	"github.com/spf13/cast"

	"github.com/nickyhof/SessionVars/core"
	"github.com/nickyhof/SessionVars/op"
	"github.com/nickyhof/SessionVars/sql"
	"github.com/nickyhof/SessionVars/vs"
)

type Engine struct {
	Session *Session
}

func NewEngine(session *Session) *Engine {
	return &Engine{Session: session}
}

// Execute parses and runs one statement. Outside an explicit transaction the
// statement commits (or rolls back, on error) on its own.
func (engine *Engine) Execute(query string) (Result, error) {
	parser := sql.NewParser(query)
	statement, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	// Transaction control drives the session directly; everything else runs
	// under autocommit when no block is open.
	if txnErr, handled := engine.executeTxnStatement(statement); handled {
		if txnErr != nil {
			return nil, txnErr
		}
		return CommitResult{}, nil
	}

	result, err := engine.execute(statement)
	engine.Session.autocommitEnd(err != nil)
	return result, err
}

func (engine *Engine) executeTxnStatement(statement sql.Statement) (error, bool) {
	switch statement.Type() {
	case sql.BeginStatementType:
		return engine.Session.Begin(), true
	case sql.CommitStatementType:
		return engine.Session.Commit(), true
	case sql.RollbackStatementType:
		return engine.Session.Rollback(), true
	case sql.SavepointStatementType:
		return engine.Session.Savepoint(statement.(sql.SavepointStatement).Name), true
	case sql.ReleaseStatementType:
		return engine.Session.ReleaseSavepoint(statement.(sql.ReleaseStatement).Name), true
	case sql.RollbackToStatementType:
		return engine.Session.RollbackToSavepoint(statement.(sql.RollbackToStatement).Name), true
	default:
		return nil, false
	}
}

func (engine *Engine) execute(statement sql.Statement) (Result, error) {
	switch statement.Type() {
	case sql.SetStatementType:
		return engine.executeSetStatement(statement.(sql.SetStatement))
	case sql.GetStatementType:
		return engine.executeGetStatement(statement.(sql.GetStatement))
	case sql.ExistsStatementType:
		return engine.executeExistsStatement(statement.(sql.ExistsStatement))
	case sql.ExistsPackageStatementType:
		return engine.executeExistsPackageStatement(statement.(sql.ExistsPackageStatement))
	case sql.RemoveStatementType:
		return engine.executeRemoveStatement(statement.(sql.RemoveStatement))
	case sql.DropPackageStatementType:
		return engine.executeDropPackageStatement(statement.(sql.DropPackageStatement))
	case sql.DropAllStatementType:
		return engine.executeDropAllStatement()
	case sql.ListStatementType:
		return engine.executeListStatement()
	case sql.StatsStatementType:
		return engine.executeStatsStatement()
	case sql.InsertStatementType:
		return engine.executeInsertStatement(statement.(sql.InsertStatement))
	case sql.UpdateStatementType:
		return engine.executeUpdateStatement(statement.(sql.UpdateStatement))
	case sql.DeleteStatementType:
		return engine.executeDeleteStatement(statement.(sql.DeleteStatement))
	case sql.SelectStatementType:
		return engine.executeSelectStatement(statement.(sql.SelectStatement))
	default:
		return nil, fmt.Errorf("unsupported statement type: %v", statement.Type())
	}
}

// literalValue converts a parsed literal into a typed store value.
func literalValue(literal sql.Literal, kind core.ValueType) (core.Value, error) {
	if literal.Null {
		return core.NullValue(kind), nil
	}
	return core.ParseValue(literal.Raw, kind)
}

func (engine *Engine) variableOp(pkg, variable string) *op.VariableOp {
	return &op.VariableOp{Package: pkg, Name: variable, Store: engine.Session.Store()}
}

func (engine *Engine) executeSetStatement(statement sql.SetStatement) (Result, error) {
	startTime := time.Now()

	value, err := literalValue(statement.Value, statement.Value.Kind)
	if err != nil {
		return nil, err
	}
	varOp := engine.variableOp(statement.Package, statement.Variable)
	if err := varOp.Set(value, statement.Transactional); err != nil {
		return nil, err
	}

	return CommitResult{
		VariablesSet:     1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeGetStatement(statement sql.GetStatement) (Result, error) {
	startTime := time.Now()

	varOp := engine.variableOp(statement.Package, statement.Variable)
	value, err := varOp.Get(statement.Kind, statement.Strict)
	if err != nil {
		return nil, err
	}

	return QueryResult{
		Columns:          []string{"value"},
		Data:             [][]string{{value.Text()}},
		RecordsRead:      1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeExistsStatement(statement sql.ExistsStatement) (Result, error) {
	startTime := time.Now()

	varOp := engine.variableOp(statement.Package, statement.Variable)
	exists, err := varOp.Exists()
	if err != nil {
		return nil, err
	}

	return QueryResult{
		Columns:          []string{"exists"},
		Data:             [][]string{{cast.ToString(exists)}},
		RecordsRead:      1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeExistsPackageStatement(statement sql.ExistsPackageStatement) (Result, error) {
	startTime := time.Now()

	exists, err := engine.Session.Store().ExistsPackage(statement.Package)
	if err != nil {
		return nil, err
	}

	return QueryResult{
		Columns:          []string{"exists"},
		Data:             [][]string{{cast.ToString(exists)}},
		RecordsRead:      1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeRemoveStatement(statement sql.RemoveStatement) (Result, error) {
	startTime := time.Now()

	varOp := engine.variableOp(statement.Package, statement.Variable)
	if err := varOp.Remove(); err != nil {
		return nil, err
	}

	return CommitResult{
		VariablesRemoved: 1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeDropPackageStatement(statement sql.DropPackageStatement) (Result, error) {
	startTime := time.Now()

	pkgOp, err := op.GetPackage(statement.Package, engine.Session.Store())
	if err != nil {
		return nil, err
	}
	if err := pkgOp.Drop(); err != nil {
		return nil, err
	}

	return CommitResult{
		PackagesDropped:  1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeDropAllStatement() (Result, error) {
	startTime := time.Now()

	store := engine.Session.Store()
	dropped := 0
	for _, st := range store.Stats() {
		if st.Valid {
			dropped++
		}
	}
	if err := store.RemoveAll(); err != nil {
		return nil, err
	}

	return CommitResult{
		PackagesDropped:  dropped,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     dropped,
	}, nil
}

func (engine *Engine) executeListStatement() (Result, error) {
	startTime := time.Now()

	var data [][]string
	for _, info := range engine.Session.Store().ListAll() {
		data = append(data, []string{
			info.Package,
			info.Variable,
			info.Type.String(),
			cast.ToString(info.Transactional),
		})
	}

	return QueryResult{
		Columns:          []string{"package", "variable", "type", "transactional"},
		Data:             data,
		RecordsRead:      len(data),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(data),
	}, nil
}

func (engine *Engine) executeStatsStatement() (Result, error) {
	startTime := time.Now()

	var data [][]string
	for _, st := range engine.Session.Store().Stats() {
		data = append(data, []string{
			st.Package,
			cast.ToString(st.Valid),
			cast.ToString(st.Regular),
			cast.ToString(st.Trans),
			cast.ToString(st.Versions),
			cast.ToString(st.Bytes),
		})
	}

	return QueryResult{
		Columns:          []string{"package", "valid", "regular", "transactional", "versions", "bytes"},
		Data:             data,
		RecordsRead:      len(data),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(data),
	}, nil
}

// tupleFor builds a typed tuple from parsed literals against a schema.
func tupleFor(columns []core.Column, literals []sql.Literal) (core.Tuple, error) {
	if len(literals) != len(columns) {
		return core.Tuple{}, fmt.Errorf("%w: %d values for %d attributes",
			vs.ErrSchemaMismatch, len(literals), len(columns))
	}
	values := make([]core.Value, len(literals))
	for i, literal := range literals {
		value, err := literalValue(literal, columns[i].Type)
		if err != nil {
			return core.Tuple{}, err
		}
		values[i] = value
	}
	return core.Tuple{Columns: columns, Values: values}, nil
}

// schemaFor resolves the tuple schema for a record statement: the statement's
// own column definitions, or the schema fixed at first insert.
func (engine *Engine) schemaFor(pkg, variable string, columns []core.Column) ([]core.Column, error) {
	if len(columns) > 0 {
		return columns, nil
	}
	return engine.variableOp(pkg, variable).Columns()
}

func (engine *Engine) executeInsertStatement(statement sql.InsertStatement) (Result, error) {
	startTime := time.Now()

	columns := statement.Columns
	if len(columns) == 0 {
		existing, err := engine.schemaFor(statement.Package, statement.Variable, nil)
		if err != nil {
			return nil, fmt.Errorf("INSERT without column definitions needs an existing record: %w", err)
		}
		columns = existing
	}
	tuple, err := tupleFor(columns, statement.Values)
	if err != nil {
		return nil, err
	}

	varOp := engine.variableOp(statement.Package, statement.Variable)
	if err := varOp.Insert(tuple, statement.Transactional); err != nil {
		return nil, err
	}

	return CommitResult{
		RecordsWritten:   1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeUpdateStatement(statement sql.UpdateStatement) (Result, error) {
	startTime := time.Now()

	columns, err := engine.schemaFor(statement.Package, statement.Variable, nil)
	if err != nil {
		return nil, err
	}
	tuple, err := tupleFor(columns, statement.Values)
	if err != nil {
		return nil, err
	}

	varOp := engine.variableOp(statement.Package, statement.Variable)
	updated, err := varOp.Update(tuple)
	if err != nil {
		return nil, err
	}
	written := 0
	if updated {
		written = 1
	}

	return CommitResult{
		RecordsWritten:   written,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeDeleteStatement(statement sql.DeleteStatement) (Result, error) {
	startTime := time.Now()

	key, err := literalValue(statement.Key, statement.Key.Kind)
	if err != nil {
		return nil, err
	}
	varOp := engine.variableOp(statement.Package, statement.Variable)
	deleted, err := varOp.Delete(key)
	if err != nil {
		return nil, err
	}
	removed := 0
	if deleted {
		removed = 1
	}

	return CommitResult{
		RecordsDeleted:   removed,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeSelectStatement(statement sql.SelectStatement) (Result, error) {
	startTime := time.Now()

	store := engine.Session.Store()
	var tuples []core.Tuple
	var err error

	switch {
	case statement.Key != nil:
		var key core.Value
		key, err = literalValue(*statement.Key, statement.Key.Kind)
		if err != nil {
			return nil, err
		}
		var tuple core.Tuple
		var found bool
		tuple, found, err = store.SelectRecord(statement.Package, statement.Variable, key)
		if found {
			tuples = []core.Tuple{tuple}
		}
	case statement.Keys != nil:
		keys := make([]core.Value, len(statement.Keys))
		for i, literal := range statement.Keys {
			keys[i], err = literalValue(literal, literal.Kind)
			if err != nil {
				return nil, err
			}
		}
		tuples, err = store.SelectRecordsByKeys(statement.Package, statement.Variable, keys)
	default:
		tuples, err = store.SelectRecords(statement.Package, statement.Variable)
	}
	if err != nil {
		return nil, err
	}

	columns, err := engine.schemaFor(statement.Package, statement.Variable, nil)
	if err != nil {
		return nil, err
	}
	columnNames := make([]string, len(columns))
	for i, column := range columns {
		columnNames[i] = column.Name
	}

	data := make([][]string, len(tuples))
	for i, tuple := range tuples {
		row := make([]string, len(tuple.Values))
		for j, value := range tuple.Values {
			row[j] = value.Text()
		}
		data[i] = row
	}

	return QueryResult{
		Columns:          columnNames,
		Data:             data,
		RecordsRead:      len(data),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(data),
	}, nil
}

package sql

import (
	"errors"
	"strings"

	"github.com/nickyhof/SessionVars/core"
)

type StatementType int

const (
	SetStatementType StatementType = iota
	GetStatementType
	ExistsStatementType
	ExistsPackageStatementType
	RemoveStatementType
	DropPackageStatementType
	DropAllStatementType
	ListStatementType
	StatsStatementType
	InsertStatementType
	UpdateStatementType
	DeleteStatementType
	SelectStatementType
	BeginStatementType
	CommitStatementType
	RollbackStatementType
	SavepointStatementType
	ReleaseStatementType
	RollbackToStatementType
)

type Statement interface {
	Type() StatementType
}

// Literal is one parsed value with its inferred (or declared) type.
type Literal struct {
	Raw  string
	Kind core.ValueType
	Null bool
}

type SetStatement struct {
	Package       string
	Variable      string
	Value         Literal
	Transactional bool
}

type GetStatement struct {
	Package  string
	Variable string
	Kind     core.ValueType
	Strict   bool
}

type ExistsStatement struct {
	Package  string
	Variable string
}

type ExistsPackageStatement struct {
	Package string
}

type RemoveStatement struct {
	Package  string
	Variable string
}

type DropPackageStatement struct {
	Package string
}

type DropAllStatement struct{}

type ListStatement struct{}

type StatsStatement struct{}

type InsertStatement struct {
	Package       string
	Variable      string
	Columns       []core.Column // empty: use the schema fixed at first insert
	Values        []Literal
	Transactional bool
}

type UpdateStatement struct {
	Package  string
	Variable string
	Values   []Literal
}

type DeleteStatement struct {
	Package  string
	Variable string
	Key      Literal
}

type SelectStatement struct {
	Package  string
	Variable string
	Key      *Literal  // WHERE KEY = v
	Keys     []Literal // WHERE KEY IN (...)
}

type BeginStatement struct{}
type CommitStatement struct{}
type RollbackStatement struct{}

type SavepointStatement struct {
	Name string
}

type ReleaseStatement struct {
	Name string
}

type RollbackToStatement struct {
	Name string
}

func (s SetStatement) Type() StatementType {
	return SetStatementType
}

func (s GetStatement) Type() StatementType {
	return GetStatementType
}

func (s ExistsStatement) Type() StatementType {
	return ExistsStatementType
}

func (s ExistsPackageStatement) Type() StatementType {
	return ExistsPackageStatementType
}

func (s RemoveStatement) Type() StatementType {
	return RemoveStatementType
}

func (s DropPackageStatement) Type() StatementType {
	return DropPackageStatementType
}

func (s DropAllStatement) Type() StatementType {
	return DropAllStatementType
}

func (s ListStatement) Type() StatementType {
	return ListStatementType
}

func (s StatsStatement) Type() StatementType {
	return StatsStatementType
}

func (s InsertStatement) Type() StatementType {
	return InsertStatementType
}

func (s UpdateStatement) Type() StatementType {
	return UpdateStatementType
}

func (s DeleteStatement) Type() StatementType {
	return DeleteStatementType
}

func (s SelectStatement) Type() StatementType {
	return SelectStatementType
}

func (s BeginStatement) Type() StatementType {
	return BeginStatementType
}

func (s CommitStatement) Type() StatementType {
	return CommitStatementType
}

func (s RollbackStatement) Type() StatementType {
	return RollbackStatementType
}

func (s SavepointStatement) Type() StatementType {
	return SavepointStatementType
}

func (s ReleaseStatement) Type() StatementType {
	return ReleaseStatementType
}

func (s RollbackToStatement) Type() StatementType {
	return RollbackToStatementType
}

type Parser struct {
	lexer *Lexer
}

func NewParser(input string) *Parser {
	lexer := NewLexer(input)
	return &Parser{lexer: lexer}
}

func (parser *Parser) Parse() (Statement, error) {
	token := parser.lexer.NextToken()
	switch token.Type {
	case Set:
		return ParseSet(parser)
	case Get:
		return ParseGet(parser)
	case Exists:
		return ParseExists(parser)
	case Remove:
		return ParseRemove(parser)
	case Drop:
		return ParseDrop(parser)
	case List:
		return ListStatement{}, nil
	case Stats:
		return StatsStatement{}, nil
	case Insert:
		return ParseInsert(parser)
	case Update:
		return ParseUpdate(parser)
	case Delete:
		return ParseDelete(parser)
	case Select:
		return ParseSelect(parser)
	case Begin:
		return BeginStatement{}, nil
	case Commit:
		return CommitStatement{}, nil
	case Rollback:
		// Could be plain ROLLBACK or ROLLBACK TO [SAVEPOINT] name
		nextToken := parser.lexer.PeekToken()
		if nextToken.Type == To {
			parser.lexer.NextToken() // consume TO
			name, err := parseSavepointName(parser)
			if err != nil {
				return nil, err
			}
			return RollbackToStatement{Name: name}, nil
		}
		return RollbackStatement{}, nil
	case Savepoint:
		token = parser.lexer.NextToken()
		if token.Type != Identifier {
			return nil, errors.New("expected savepoint name")
		}
		return SavepointStatement{Name: token.Value}, nil
	case Release:
		name, err := parseSavepointName(parser)
		if err != nil {
			return nil, err
		}
		return ReleaseStatement{Name: name}, nil
	default:
		return nil, errors.New("unknown statement type")
	}
}

func parseSavepointName(parser *Parser) (string, error) {
	token := parser.lexer.NextToken()
	if token.Type == Savepoint {
		token = parser.lexer.NextToken()
	}
	if token.Type != Identifier {
		return "", errors.New("expected savepoint name")
	}
	return token.Value, nil
}

// parseQualifiedName splits a package.variable identifier.
func parseQualifiedName(token Token) (pkg string, variable string, err error) {
	if token.Type != Identifier {
		return "", "", errors.New("expected package.variable name")
	}
	parts := strings.SplitN(token.Value, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.New("expected qualified name of form package.variable")
	}
	if strings.Contains(parts[1], ".") {
		return "", "", errors.New("variable name cannot contain '.'")
	}
	return parts[0], parts[1], nil
}

func parsePackageName(token Token) (string, error) {
	if token.Type != Identifier || strings.Contains(token.Value, ".") {
		return "", errors.New("expected package name")
	}
	return token.Value, nil
}

// parseLiteral turns a value token into a Literal with an inferred type.
func parseLiteral(token Token) (Literal, error) {
	switch token.Type {
	case String:
		return Literal{Raw: token.Value, Kind: core.StringType}, nil
	case Int:
		return Literal{Raw: token.Value, Kind: core.IntType}, nil
	case Float:
		return Literal{Raw: token.Value, Kind: core.FloatType}, nil
	case True, False:
		return Literal{Raw: token.Value, Kind: core.BoolType}, nil
	case Null:
		return Literal{Kind: core.StringType, Null: true}, nil
	default:
		return Literal{}, errors.New("expected a literal value")
	}
}

func parseTypeKeyword(token Token) (core.ValueType, error) {
	switch token.Type {
	case TypeString:
		return core.StringType, nil
	case TypeInt:
		return core.IntType, nil
	case TypeFloat:
		return core.FloatType, nil
	case TypeBool:
		return core.BoolType, nil
	case TypeJson:
		return core.JsonType, nil
	case TypeTimestamp:
		return core.TimestampType, nil
	default:
		return 0, errors.New("expected a type name after AS")
	}
}

func ParseSet(parser *Parser) (Statement, error) {
	var setStatement SetStatement

	token := parser.lexer.NextToken()
	pkg, variable, err := parseQualifiedName(token)
	if err != nil {
		return nil, err
	}
	setStatement.Package = pkg
	setStatement.Variable = variable

	token = parser.lexer.NextToken()
	if token.Type != Equals {
		return nil, errors.New("expected '=' after variable name")
	}

	token = parser.lexer.NextToken()
	value, err := parseLiteral(token)
	if err != nil {
		return nil, err
	}

	token = parser.lexer.NextToken()
	if token.Type == As {
		token = parser.lexer.NextToken()
		kind, err := parseTypeKeyword(token)
		if err != nil {
			return nil, err
		}
		value.Kind = kind
		token = parser.lexer.NextToken()
	}
	setStatement.Value = value

	if token.Type == Transactional {
		setStatement.Transactional = true
		token = parser.lexer.NextToken()
	}
	if token.Type != EOF {
		return nil, errors.New("unexpected token after SET statement: " + token.String())
	}

	return setStatement, nil
}

func ParseGet(parser *Parser) (Statement, error) {
	var getStatement GetStatement

	token := parser.lexer.NextToken()
	pkg, variable, err := parseQualifiedName(token)
	if err != nil {
		return nil, err
	}
	getStatement.Package = pkg
	getStatement.Variable = variable
	getStatement.Kind = core.StringType

	token = parser.lexer.NextToken()
	if token.Type == As {
		token = parser.lexer.NextToken()
		kind, err := parseTypeKeyword(token)
		if err != nil {
			return nil, err
		}
		getStatement.Kind = kind
		token = parser.lexer.NextToken()
	}
	if token.Type == Strict {
		getStatement.Strict = true
		token = parser.lexer.NextToken()
	}
	if token.Type != EOF {
		return nil, errors.New("unexpected token after GET statement: " + token.String())
	}

	return getStatement, nil
}

func ParseExists(parser *Parser) (Statement, error) {
	token := parser.lexer.NextToken()

	if token.Type == PackageKeyword {
		token = parser.lexer.NextToken()
		pkg, err := parsePackageName(token)
		if err != nil {
			return nil, err
		}
		return ExistsPackageStatement{Package: pkg}, nil
	}

	pkg, variable, err := parseQualifiedName(token)
	if err != nil {
		return nil, err
	}
	return ExistsStatement{Package: pkg, Variable: variable}, nil
}

func ParseRemove(parser *Parser) (Statement, error) {
	token := parser.lexer.NextToken()
	pkg, variable, err := parseQualifiedName(token)
	if err != nil {
		return nil, err
	}
	return RemoveStatement{Package: pkg, Variable: variable}, nil
}

func ParseDrop(parser *Parser) (Statement, error) {
	token := parser.lexer.NextToken()
	switch token.Type {
	case PackageKeyword:
		token = parser.lexer.NextToken()
		pkg, err := parsePackageName(token)
		if err != nil {
			return nil, err
		}
		return DropPackageStatement{Package: pkg}, nil
	case All:
		return DropAllStatement{}, nil
	default:
		return nil, errors.New("expected PACKAGE or ALL after DROP")
	}
}

func ParseInsert(parser *Parser) (Statement, error) {
	var insertStatement InsertStatement

	token := parser.lexer.NextToken()
	if token.Type != Into {
		return nil, errors.New("expected INTO after INSERT")
	}

	token = parser.lexer.NextToken()
	pkg, variable, err := parseQualifiedName(token)
	if err != nil {
		return nil, err
	}
	insertStatement.Package = pkg
	insertStatement.Variable = variable

	// Optional column definitions; omitted when the schema already exists.
	token = parser.lexer.NextToken()
	if token.Type == ParenOpen {
		columns, err := parseColumnDefs(parser)
		if err != nil {
			return nil, err
		}
		insertStatement.Columns = columns
		token = parser.lexer.NextToken()
	}

	if token.Type != Values {
		return nil, errors.New("expected VALUES")
	}
	values, err := parseValueList(parser)
	if err != nil {
		return nil, err
	}
	insertStatement.Values = values

	token = parser.lexer.NextToken()
	if token.Type == Transactional {
		insertStatement.Transactional = true
		token = parser.lexer.NextToken()
	}
	if token.Type != EOF {
		return nil, errors.New("unexpected token after INSERT statement: " + token.String())
	}

	return insertStatement, nil
}

// parseColumnDefs reads (name TYPE [KEY], ...) with the opening paren
// already consumed.
func parseColumnDefs(parser *Parser) ([]core.Column, error) {
	var columns []core.Column

	for {
		token := parser.lexer.NextToken()
		if token.Type != Identifier || strings.Contains(token.Value, ".") {
			return nil, errors.New("expected column name")
		}
		column := core.Column{Name: token.Value}

		token = parser.lexer.NextToken()
		kind, err := parseTypeKeyword(token)
		if err != nil {
			return nil, errors.New("expected column type after " + column.Name)
		}
		column.Type = kind

		token = parser.lexer.NextToken()
		if token.Type == Key {
			column.Key = true
			token = parser.lexer.NextToken()
		}
		columns = append(columns, column)

		switch token.Type {
		case Comma:
			continue
		case ParenClose:
			return columns, nil
		default:
			return nil, errors.New("expected ',' or ')' in column definitions")
		}
	}
}

// parseValueList reads (v, v, ...) including the opening paren.
func parseValueList(parser *Parser) ([]Literal, error) {
	token := parser.lexer.NextToken()
	if token.Type != ParenOpen {
		return nil, errors.New("expected '(' before value list")
	}

	var values []Literal
	for {
		token = parser.lexer.NextToken()
		value, err := parseLiteral(token)
		if err != nil {
			return nil, err
		}
		values = append(values, value)

		token = parser.lexer.NextToken()
		switch token.Type {
		case Comma:
			continue
		case ParenClose:
			return values, nil
		default:
			return nil, errors.New("expected ',' or ')' in value list")
		}
	}
}

func ParseUpdate(parser *Parser) (Statement, error) {
	var updateStatement UpdateStatement

	token := parser.lexer.NextToken()
	pkg, variable, err := parseQualifiedName(token)
	if err != nil {
		return nil, err
	}
	updateStatement.Package = pkg
	updateStatement.Variable = variable

	token = parser.lexer.NextToken()
	if token.Type != Values {
		return nil, errors.New("expected VALUES after variable name")
	}
	values, err := parseValueList(parser)
	if err != nil {
		return nil, err
	}
	updateStatement.Values = values

	return updateStatement, nil
}

func ParseDelete(parser *Parser) (Statement, error) {
	var deleteStatement DeleteStatement

	token := parser.lexer.NextToken()
	if token.Type != From {
		return nil, errors.New("expected FROM after DELETE")
	}

	token = parser.lexer.NextToken()
	pkg, variable, err := parseQualifiedName(token)
	if err != nil {
		return nil, err
	}
	deleteStatement.Package = pkg
	deleteStatement.Variable = variable

	token = parser.lexer.NextToken()
	if token.Type != Where {
		return nil, errors.New("expected WHERE KEY = value")
	}
	token = parser.lexer.NextToken()
	if token.Type != Key {
		return nil, errors.New("expected KEY after WHERE")
	}
	token = parser.lexer.NextToken()
	if token.Type != Equals {
		return nil, errors.New("expected '=' after KEY")
	}
	token = parser.lexer.NextToken()
	key, err := parseLiteral(token)
	if err != nil {
		return nil, err
	}
	deleteStatement.Key = key

	return deleteStatement, nil
}

func ParseSelect(parser *Parser) (Statement, error) {
	var selectStatement SelectStatement

	token := parser.lexer.NextToken()
	if token.Type != Wildcard {
		return nil, errors.New("expected '*' after SELECT")
	}
	token = parser.lexer.NextToken()
	if token.Type != From {
		return nil, errors.New("expected FROM")
	}

	token = parser.lexer.NextToken()
	pkg, variable, err := parseQualifiedName(token)
	if err != nil {
		return nil, err
	}
	selectStatement.Package = pkg
	selectStatement.Variable = variable

	token = parser.lexer.NextToken()
	if token.Type == EOF {
		return selectStatement, nil
	}
	if token.Type != Where {
		return nil, errors.New("unexpected token after SELECT statement: " + token.String())
	}
	token = parser.lexer.NextToken()
	if token.Type != Key {
		return nil, errors.New("expected KEY after WHERE")
	}

	token = parser.lexer.NextToken()
	switch token.Type {
	case Equals:
		token = parser.lexer.NextToken()
		key, err := parseLiteral(token)
		if err != nil {
			return nil, err
		}
		selectStatement.Key = &key
		return selectStatement, nil
	case In:
		keys, err := parseValueList(parser)
		if err != nil {
			return nil, err
		}
		selectStatement.Keys = keys
		return selectStatement, nil
	default:
		return nil, errors.New("expected '=' or IN after KEY")
	}
}

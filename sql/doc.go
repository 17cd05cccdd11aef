// Package sql provides command lexing and parsing for SessionVars.
//
// The package includes a lexer that tokenizes command strings and a parser
// that produces statement values for the variable command language.
//
// # Lexer Usage
//
//	lexer := sql.NewLexer("SET app.counter = 42 AS INT")
//	for {
//	    token := lexer.NextToken()
//	    if token.Type == sql.EOF {
//	        break
//	    }
//	    fmt.Printf("Token: %s = %s\n", token.Type, token.Value)
//	}
//
// # Parser Usage
//
//	parser := sql.NewParser("GET app.counter AS INT STRICT")
//	statement, err := parser.Parse()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Supported Statements
//
// The parser supports the following statement types:
//   - SetStatement, GetStatement
//   - ExistsStatement, ExistsPackageStatement
//   - RemoveStatement, DropPackageStatement, DropAllStatement
//   - ListStatement, StatsStatement
//   - InsertStatement, UpdateStatement, DeleteStatement, SelectStatement
//   - BeginStatement, CommitStatement, RollbackStatement
//   - SavepointStatement, ReleaseStatement, RollbackToStatement
package sql

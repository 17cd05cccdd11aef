package sql

type Token struct {
	Type  TokenType
	Value string
}

type TokenType int

const (
	Identifier TokenType = iota
	Wildcard
	String
	Int
	Float
	Comma
	ParenOpen
	ParenClose
	Equals
	True
	False
	Null
	Set
	Get
	Exists
	Remove
	Drop
	All
	List
	Stats
	Insert
	Into
	Values
	Update
	Delete
	Select
	From
	Where
	Key
	In
	As
	Strict
	Transactional
	PackageKeyword
	Begin
	Commit
	Rollback
	Savepoint
	Release
	To
	TypeString
	TypeInt
	TypeFloat
	TypeBool
	TypeJson
	TypeTimestamp
	EOF
	Unknown
)

func (token Token) String() string {
	switch token.Type {
	case Identifier:
		return "Identifier(" + token.Value + ")"
	case Wildcard:
		return "Wildcard"
	case String:
		return "String(" + token.Value + ")"
	case Int:
		return "Int(" + token.Value + ")"
	case Float:
		return "Float(" + token.Value + ")"
	case Comma:
		return "Comma"
	case ParenOpen:
		return "ParenOpen"
	case ParenClose:
		return "ParenClose"
	case Equals:
		return "Equals"
	case True:
		return "True"
	case False:
		return "False"
	case Null:
		return "Null"
	case Set:
		return "Set"
	case Get:
		return "Get"
	case Exists:
		return "Exists"
	case Remove:
		return "Remove"
	case Drop:
		return "Drop"
	case All:
		return "All"
	case List:
		return "List"
	case Stats:
		return "Stats"
	case Insert:
		return "Insert"
	case Into:
		return "Into"
	case Values:
		return "Values"
	case Update:
		return "Update"
	case Delete:
		return "Delete"
	case Select:
		return "Select"
	case From:
		return "From"
	case Where:
		return "Where"
	case Key:
		return "Key"
	case In:
		return "In"
	case As:
		return "As"
	case Strict:
		return "Strict"
	case Transactional:
		return "Transactional"
	case PackageKeyword:
		return "Package"
	case Begin:
		return "Begin"
	case Commit:
		return "Commit"
	case Rollback:
		return "Rollback"
	case Savepoint:
		return "Savepoint"
	case Release:
		return "Release"
	case To:
		return "To"
	case TypeString:
		return "TypeString"
	case TypeInt:
		return "TypeInt"
	case TypeFloat:
		return "TypeFloat"
	case TypeBool:
		return "TypeBool"
	case TypeJson:
		return "TypeJson"
	case TypeTimestamp:
		return "TypeTimestamp"
	case EOF:
		return "EOF"
	default:
		return "Unknown(" + token.Value + ")"
	}
}

type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
}

func NewLexer(input string) *Lexer {
	lexer := &Lexer{input: input}
	lexer.readChar()
	return lexer
}

func (lexer *Lexer) readChar() {
	if lexer.readPosition >= len(lexer.input) {
		lexer.ch = 0
	} else {
		lexer.ch = lexer.input[lexer.readPosition]
	}
	lexer.position = lexer.readPosition
	lexer.readPosition++
}

func (lexer *Lexer) NextToken() Token {
	var token Token

	lexer.skipWhitespace()

	switch lexer.ch {
	case ',':
		token = Token{Type: Comma, Value: string(lexer.ch)}
	case '(':
		token = Token{Type: ParenOpen, Value: string(lexer.ch)}
	case ')':
		token = Token{Type: ParenClose, Value: string(lexer.ch)}
	case '=':
		token = Token{Type: Equals, Value: string(lexer.ch)}
	case '*':
		token = Token{Type: Wildcard, Value: string(lexer.ch)}
	case 0:
		token = Token{Type: EOF, Value: ""}
	case '\'':
		token = Token{Type: String, Value: lexer.readString()}
	case '-':
		lexer.readChar() // consume '-'
		if !isDigit(lexer.ch) {
			return Token{Type: Unknown, Value: "-"}
		}
		return lexer.readNumberToken("-")
	default:
		if isDigit(lexer.ch) {
			return lexer.readNumberToken("")
		} else if isAlphaNumeric(lexer.ch) {
			literal := lexer.readIdentifier()
			tokenType := lookupIdentifier(literal)
			return Token{Type: tokenType, Value: literal}
		}
		token = Token{Type: Unknown, Value: string(lexer.ch)}
	}

	lexer.readChar()
	return token
}

func (lexer *Lexer) PeekToken() Token {
	// Save current state
	savedPosition := lexer.position
	savedReadPosition := lexer.readPosition
	savedCh := lexer.ch

	// Get next token
	token := lexer.NextToken()

	// Restore state
	lexer.position = savedPosition
	lexer.readPosition = savedReadPosition
	lexer.ch = savedCh

	return token
}

func (lexer *Lexer) readNumberToken(sign string) Token {
	num := lexer.readNumber()
	if lexer.ch == '.' {
		lexer.readChar() // consume '.'
		decimal := lexer.readNumber()
		return Token{Type: Float, Value: sign + num + "." + decimal}
	}
	return Token{Type: Int, Value: sign + num}
}

func (lexer *Lexer) skipWhitespace() {
	for lexer.ch == ' ' || lexer.ch == '\t' || lexer.ch == '\n' || lexer.ch == '\r' {
		lexer.readChar()
	}
}

func (lexer *Lexer) readIdentifier() string {
	position := lexer.position
	for isAlphaNumeric(lexer.ch) {
		lexer.readChar()
	}
	return lexer.input[position:lexer.position]
}

func (lexer *Lexer) readString() string {
	lexer.readChar() // skip opening quote
	position := lexer.position
	for lexer.ch != '\'' && lexer.ch != 0 {
		lexer.readChar()
	}
	return lexer.input[position:lexer.position]
}

func (lexer *Lexer) readNumber() string {
	position := lexer.position
	for isDigit(lexer.ch) {
		lexer.readChar()
	}
	return lexer.input[position:lexer.position]
}

func isAlphaNumeric(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_' || ch == '.' || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func lookupIdentifier(id string) TokenType {
	// Convert to uppercase for case-insensitive matching
	switch toUpper(id) {
	case "TRUE":
		return True
	case "FALSE":
		return False
	case "NULL":
		return Null
	case "SET":
		return Set
	case "GET":
		return Get
	case "EXISTS":
		return Exists
	case "REMOVE":
		return Remove
	case "DROP":
		return Drop
	case "ALL":
		return All
	case "LIST":
		return List
	case "STATS":
		return Stats
	case "INSERT":
		return Insert
	case "INTO":
		return Into
	case "VALUES":
		return Values
	case "UPDATE":
		return Update
	case "DELETE":
		return Delete
	case "SELECT":
		return Select
	case "FROM":
		return From
	case "WHERE":
		return Where
	case "KEY":
		return Key
	case "IN":
		return In
	case "AS":
		return As
	case "STRICT":
		return Strict
	case "TRANSACTIONAL":
		return Transactional
	case "PACKAGE":
		return PackageKeyword
	case "BEGIN":
		return Begin
	case "COMMIT":
		return Commit
	case "ROLLBACK":
		return Rollback
	case "SAVEPOINT":
		return Savepoint
	case "RELEASE":
		return Release
	case "TO":
		return To
	case "STRING", "TEXT":
		return TypeString
	case "INT", "INTEGER", "BIGINT":
		return TypeInt
	case "FLOAT", "DOUBLE":
		return TypeFloat
	case "BOOL", "BOOLEAN":
		return TypeBool
	case "JSON", "JSONB":
		return TypeJson
	case "TIMESTAMP", "DATETIME":
		return TypeTimestamp
	default:
		return Identifier
	}
}

// toUpper converts a string to uppercase without allocating for ASCII strings
func toUpper(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'a' && s[i] <= 'z' {
			// Need to convert, allocate a new string
			b := make([]byte, len(s))
			for j := 0; j < len(s); j++ {
				if s[j] >= 'a' && s[j] <= 'z' {
					b[j] = s[j] - 32
				} else {
					b[j] = s[j]
				}
			}
			return string(b)
		}
	}
	return s
}

func tokenize(input string) []Token {
	lexer := NewLexer(input)

	var tokens []Token

	for {
		token := lexer.NextToken()
		if token.Type == EOF {
			return append(tokens, token)
		}
		tokens = append(tokens, token)
	}
}

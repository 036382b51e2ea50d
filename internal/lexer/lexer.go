package lexer

import (
	"fmt"
	"strconv"

	"github.com/tensorir/tirc/internal/config"
	"github.com/tensorir/tirc/internal/token"
)

// Lexer is a byte-at-a-time scanner producing the token vocabulary of
// spec.md §6. It never skips newlines — they are significant tokens —
// and has no notion of the parser's backtracking; that lives entirely
// in internal/cursor.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
	column       int
}

// New returns a Lexer positioned at the start of input.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken scans and returns the next token, including NEWLINE and EOF.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	line, col := l.line, l.column
	start := token.Position{Line: line, Column: col}

	switch l.ch {
	case 0:
		return l.finish(token.EOF, "", start)
	case '\n':
		l.readChar()
		return l.finish(token.NEWLINE, "\n", start)
	case ',':
		l.readChar()
		return l.finish(token.COMMA, ",", start)
	case ';':
		l.readChar()
		return l.finish(token.SEMICOLON, ";", start)
	case ':':
		l.readChar()
		return l.finish(token.COLON, ":", start)
	case '=':
		l.readChar()
		return l.finish(token.ASSIGN, "=", start)
	case '*':
		l.readChar()
		return l.finish(token.ASTERISK, "*", start)
	case '(':
		l.readChar()
		return l.finish(token.LPAREN, "(", start)
	case ')':
		l.readChar()
		return l.finish(token.RPAREN, ")", start)
	case '[':
		l.readChar()
		return l.finish(token.LBRACKET, "[", start)
	case ']':
		l.readChar()
		return l.finish(token.RBRACKET, "]", start)
	case '{':
		l.readChar()
		return l.finish(token.LBRACE, "{", start)
	case '}':
		l.readChar()
		return l.finish(token.RBRACE, "}", start)
	case '<':
		l.readChar()
		return l.finish(token.LT, "<", start)
	case '>':
		l.readChar()
		return l.finish(token.GT, ">", start)
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return l.finish(token.ARROW, "->", start)
		}
		l.readChar()
		return l.finish(token.ILLEGAL, "-", start)
	case '"':
		return l.readStringLiteral(start)
	case '@':
		return l.readSigilIdentifier(start, '@', token.KindGlobal)
	case '\'':
		return l.readSigilIdentifier(start, '\'', token.KindBasicBlock)
	case '%':
		return l.readPercentIdentifier(start)
	case '#':
		return l.readHashToken(start)
	case 'x':
		// A word starting with 'x' that is itself an opcode ("xor") is a
		// bare word; any other 'x' is the shape separator.
		end := l.position
		for end < len(l.input) && (isLetter(l.input[end]) || isDigit(l.input[end])) {
			end++
		}
		if config.IsOpcode(l.input[l.position:end]) {
			return l.readBareWord(start)
		}
		l.readChar()
		return l.finish(token.X, "x", start)
	default:
		if isDigit(l.ch) {
			return l.readNumber(start)
		}
		if isLetter(l.ch) {
			return l.readBareWord(start)
		}
		ch := l.ch
		l.readChar()
		return l.finish(token.ILLEGAL, string(ch), start)
	}
}

func (l *Lexer) finish(typ token.Type, lexeme string, start token.Position) token.Token {
	return token.Token{Type: typ, Lexeme: lexeme, Range: token.Range{Start: start, End: token.Position{Line: l.line, Column: l.column}}}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		break
	}
}

// readSigilIdentifier handles the '@' and '\'' sigils, whose IdentKind
// never depends on the identifier's case.
func (l *Lexer) readSigilIdentifier(start token.Position, sigil byte, kind token.IdentKind) token.Token {
	l.readChar() // consume sigil
	name := l.readIdentifierBody()
	tok := l.finish(token.IDENT, string(sigil)+name, start)
	tok.Literal = name
	tok.IdentKind = kind
	return tok
}

// readPercentIdentifier handles '%', whose IdentKind is decided by the
// case of the first letter of its body (see DESIGN.md's resolution of
// the sigil grammar: %Name is a type, %name is a temporary).
func (l *Lexer) readPercentIdentifier(start token.Position) token.Token {
	l.readChar() // consume %
	name := l.readIdentifierBody()
	tok := l.finish(token.IDENT, "%"+name, start)
	tok.Literal = name
	if len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z' {
		tok.IdentKind = token.KindType
	} else {
		tok.IdentKind = token.KindTemporary
	}
	return tok
}

// readHashToken handles '#', which introduces either an anonymous SSA
// reference (#digits.digits) or a key identifier (#name).
func (l *Lexer) readHashToken(start token.Position) token.Token {
	l.readChar() // consume #
	if isDigit(l.ch) {
		bb := l.readDigits()
		if l.ch != '.' {
			return l.finish(token.ILLEGAL, "#"+bb, start)
		}
		l.readChar() // consume '.'
		inst := l.readDigits()
		bbN, err1 := strconv.Atoi(bb)
		instN, err2 := strconv.Atoi(inst)
		if err1 != nil || err2 != nil {
			return l.finish(token.ILLEGAL, fmt.Sprintf("#%s.%s", bb, inst), start)
		}
		tok := l.finish(token.ANONYMOUS_ID, fmt.Sprintf("#%s.%s", bb, inst), start)
		tok.Literal = token.AnonymousID{BasicBlock: bbN, Instruction: instN}
		return tok
	}
	name := l.readIdentifierBody()
	tok := l.finish(token.IDENT, "#"+name, start)
	tok.Literal = name
	tok.IdentKind = token.KindKey
	return tok
}

func (l *Lexer) readIdentifierBody() string {
	pos := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[pos:l.position]
}

func (l *Lexer) readDigits() string {
	pos := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.position]
}

// readBareWord reads an unsigiled lowercase-or-uppercase word and
// classifies it as a keyword, data type, attribute, or opcode — the
// only categories the grammar admits for bare words (spec.md §6).
func (l *Lexer) readBareWord(start token.Position) token.Token {
	word := l.readIdentifierBody()
	switch {
	case config.Keywords[word]:
		return l.finish(token.Type(word), word, start)
	case config.DataTypeNames[word]:
		tok := l.finish(token.DATA_TYPE, word, start)
		tok.Literal = word
		return tok
	case config.AttributeNames[word]:
		tok := l.finish(token.ATTRIBUTE, word, start)
		tok.Literal = word
		return tok
	case config.IsOpcode(word):
		tok := l.finish(token.OPCODE, word, start)
		tok.Literal = word
		return tok
	default:
		return l.finish(token.ILLEGAL, word, start)
	}
}

func (l *Lexer) readNumber(start token.Position) token.Token {
	pos := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	isFloat := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	lexeme := l.input[pos:l.position]
	if isFloat {
		val, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return l.finish(token.ILLEGAL, lexeme, start)
		}
		tok := l.finish(token.FLOAT, lexeme, start)
		tok.Literal = val
		return tok
	}
	val, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return l.finish(token.ILLEGAL, lexeme, start)
	}
	tok := l.finish(token.INT, lexeme, start)
	tok.Literal = val
	return tok
}

func (l *Lexer) readStringLiteral(start token.Position) token.Token {
	l.readChar() // consume opening quote
	var content []byte
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				content = append(content, '\n')
			case 't':
				content = append(content, '\t')
			case '"':
				content = append(content, '"')
			case '\\':
				content = append(content, '\\')
			default:
				content = append(content, '\\', l.ch)
			}
			l.readChar()
			continue
		}
		content = append(content, l.ch)
		l.readChar()
	}
	l.readChar() // consume closing quote
	tok := l.finish(token.STRING_LITERAL, fmt.Sprintf("%q", string(content)), start)
	tok.Literal = string(content)
	return tok
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

package lib

import (
	"fmt"
	"strconv"
)

type TokenType int

const (
	TokenTypeIdent TokenType = iota
	TokenTypeDecimal
	TokenTypeExp
	TokenTypeLeftParen
	TokenTypeRightParen
	TokenTypeAssign
	TokenTypeOperator
	TokenTypeError
)

func (t TokenType) String() string {
	switch t {
	case TokenTypeIdent:
		return "Ident"
	case TokenTypeDecimal:
		return "Decimal"
	case TokenTypeExp:
		return "Exp"
	case TokenTypeLeftParen:
		return "LeftParen"
	case TokenTypeRightParen:
		return "RightParen"
	case TokenTypeAssign:
		return "Assign"
	case TokenTypeOperator:
		return "Operator"
	case TokenTypeError:
		return "Error"
	default:
		panic(fmt.Sprintf("unknown token type %d", int(t)))
	}
}

type Op int

const (
	OpPlus Op = iota
	OpMinus
	OpMult
	OpDiv
)

func (o Op) String() string {
	switch o {
	case OpPlus:
		return "Plus"
	case OpMinus:
		return "Minus"
	case OpMult:
		return "Mult"
	case OpDiv:
		return "Div"
	default:
		panic(fmt.Sprintf("unknown operator %d", int(o)))
	}
}

// Token is a tagged value. Which of the payload fields are meaningful
// depends on Type: Value for Ident, Decimal and Exp; Op for Operator; Pos and
// Message for Error.
type Token struct {
	Type    TokenType
	Value   string
	Op      Op
	Pos     int
	Message string

	// Width is the number of source characters the token consumed.
	Width int
}

// String returns the debug form of the token, e.g. Decimal("-4") or
// Operator(Minus).
func (t Token) String() string {
	switch t.Type {
	case TokenTypeIdent, TokenTypeDecimal, TokenTypeExp:
		return fmt.Sprintf("%s(%s)", t.Type, strconv.Quote(t.Value))
	case TokenTypeLeftParen, TokenTypeRightParen, TokenTypeAssign:
		return t.Type.String()
	case TokenTypeOperator:
		return fmt.Sprintf("Operator(%s)", t.Op)
	case TokenTypeError:
		return fmt.Sprintf("Error { pos: %d, message: %s }", t.Pos, strconv.Quote(t.Message))
	default:
		panic(fmt.Sprintf("unknown token type %d", int(t.Type)))
	}
}

// Err returns the lexical error carried by an Error token, or nil for any
// other token.
func (t Token) Err() error {
	if t.Type != TokenTypeError {
		return nil
	}
	return &LexError{Pos: t.Pos, Message: t.Message}
}

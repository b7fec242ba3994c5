package lib

import "fmt"

const (
	MessageUnknownSymbol = "Unknown symbol"
	MessageUnknownToken  = "Unknown token"
)

// LexError is the error form of an Error token.
type LexError struct {
	Pos     int
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("Error %s at position %d", e.Message, e.Pos)
}

package lib

import (
	"fmt"
	"io"
)

// Print writes the debug form of every token from r to w, one per line. On
// the first Error token it writes "Error <message> at position <pos>" and
// returns the corresponding *LexError. The count excludes the error line.
func Print(r TokenReader, w io.Writer) (int, error) {
	n := 0
	for {
		tok, done, err := r.Next()
		if err != nil {
			return n, err
		}
		if done {
			return n, nil
		}

		if lexErr := tok.Err(); lexErr != nil {
			if _, err := fmt.Fprintln(w, lexErr); err != nil {
				return n, err
			}
			return n, lexErr
		}

		if _, err := fmt.Fprintln(w, tok); err != nil {
			return n, err
		}
		n++
	}
}

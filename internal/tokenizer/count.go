package tokenizer

import (
	"errors"
	"unicode/utf8"

	"github.com/temirov/lens/internal/utils"
)

// CountResult captures the outcome of counting a byte slice.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountBytes estimates tokens for the provided data. Binary or non-UTF-8
// content is skipped rather than counted.
func CountBytes(counter Counter, data []byte) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errors.New("nil tokenizer counter")
	}
	if len(data) == 0 {
		tokens, countError := counter.CountString("")
		if countError != nil {
			return CountResult{}, countError
		}
		return CountResult{Tokens: tokens, Counted: true}, nil
	}
	if utils.IsBinary(data) {
		return CountResult{Counted: false}, nil
	}
	if !utf8.Valid(data) {
		return CountResult{Counted: false}, nil
	}
	tokens, countError := counter.CountString(string(data))
	if countError != nil {
		return CountResult{}, countError
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}

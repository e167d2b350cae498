// Package tokenizer estimates token counts for scanned file contents using
// tiktoken encodings.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters provided by the CLI.
type Config struct {
	Model string
}

const (
	defaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

type encodingCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter encodingCounter) Name() string {
	return counter.name
}

func (counter encodingCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("nil tiktoken encoder")
	}
	tokenIDs := counter.encoding.Encode(input, nil, nil)
	return len(tokenIDs), nil
}

// NewCounter returns a Counter for the requested model together with the
// resolved model or encoding name. Models without a registered encoding fall
// back to the default encoding.
func NewCounter(configuration Config) (Counter, string, error) {
	model := strings.TrimSpace(configuration.Model)
	if model == "" {
		model = defaultModel
	}
	lowerModel := strings.ToLower(model)

	if encoding, encodingError := tiktoken.EncodingForModel(lowerModel); encodingError == nil && encoding != nil {
		return encodingCounter{encoding: encoding, name: lowerModel}, model, nil
	}
	fallbackEncoding, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf("initialize fallback tokenizer: %w", fallbackError)
	}
	return encodingCounter{encoding: fallbackEncoding, name: defaultEncodingName}, defaultEncodingName, nil
}

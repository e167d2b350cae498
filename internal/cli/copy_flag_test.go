package cli

import (
	"io"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestRegisterCopyFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name        string
		arguments   []string
		expected    bool
		expectError bool
	}{
		{
			name:        "defaults_to_false",
			arguments:   []string{},
			expected:    false,
			expectError: false,
		},
		{
			name:        "sets_true_without_value",
			arguments:   []string{"--copy"},
			expected:    true,
			expectError: false,
		},
		{
			name:        "sets_false_with_equals",
			arguments:   []string{"--copy=false"},
			expected:    false,
			expectError: false,
		},
		{
			name:        "sets_false_with_no",
			arguments:   []string{"--copy", "no"},
			expected:    false,
			expectError: false,
		},
		{
			name:        "rejects_invalid_text",
			arguments:   []string{"--copy", "maybe"},
			expected:    false,
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			var flagValue bool
			flagSet := pflag.NewFlagSet("copy-flag", pflag.ContinueOnError)
			flagSet.SetOutput(io.Discard)
			registerCopyFlag(flagSet, &flagValue)
			normalizedArguments := normalizeCopyFlagArguments(testCase.arguments)
			parseErr := flagSet.Parse(normalizedArguments)
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected value %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestNormalizeCopyFlagArgumentsKeepsCommandNames(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		arguments []string
		expected  []string
	}{
		{
			name:      "bare_copy_before_command_stays_bare",
			arguments: []string{"--copy", "content", "."},
			expected:  []string{"--copy", "content", "."},
		},
		{
			name:      "bare_copy_before_alias_stays_bare",
			arguments: []string{"--copy", "c"},
			expected:  []string{"--copy", "c"},
		},
		{
			name:      "boolean_literal_wins_over_alias",
			arguments: []string{"--copy", "t"},
			expected:  []string{"--copy=true"},
		},
		{
			name:      "path_after_copy_inside_command_stays_positional",
			arguments: []string{"content", "--copy", "."},
			expected:  []string{"content", "--copy", "."},
		},
		{
			name:      "literal_after_copy_is_folded",
			arguments: []string{"content", "--copy", "false", "."},
			expected:  []string{"content", "--copy=false", "."},
		},
		{
			name:      "trailing_copy_becomes_true",
			arguments: []string{"content", ".", "--copy"},
			expected:  []string{"content", ".", "--copy=true"},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			normalized := normalizeCopyFlagArguments(testCase.arguments)
			if strings.Join(normalized, " ") != strings.Join(testCase.expected, " ") {
				t.Fatalf("expected %v, got %v", testCase.expected, normalized)
			}
		})
	}
}

package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
		expectError  bool
	}{
		{
			name:         "defaults_to_false",
			defaultValue: false,
			arguments:    []string{},
			expected:     false,
			expectError:  false,
		},
		{
			name:         "sets_true_without_value",
			defaultValue: false,
			arguments:    []string{"--tokens"},
			expected:     true,
			expectError:  false,
		},
		{
			name:         "sets_false_with_equals",
			defaultValue: true,
			arguments:    []string{"--tokens=false"},
			expected:     false,
			expectError:  false,
		},
		{
			name:         "sets_false_with_no_literal",
			defaultValue: true,
			arguments:    []string{"--tokens", "no"},
			expected:     false,
			expectError:  false,
		},
		{
			name:         "sets_true_with_on_literal",
			defaultValue: false,
			arguments:    []string{"--tokens", "on"},
			expected:     true,
			expectError:  false,
		},
		{
			name:         "ignores_non_boolean_trailing_value",
			defaultValue: false,
			arguments:    []string{"--tokens", "maybe"},
			expected:     true,
			expectError:  false,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "boolean-test"}
			flagSet := command.Flags()
			flagValue := !testCase.defaultValue
			registerBooleanFlag(flagSet, &flagValue, tokensFlagName, testCase.defaultValue, tokensFlagDescription)
			normalizedArguments := normalizeBooleanFlagArguments(command, testCase.arguments)
			parseErr := command.ParseFlags(normalizedArguments)
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if len(testCase.arguments) == 0 && flagValue != testCase.defaultValue {
				t.Fatalf("expected default %t, got %t", testCase.defaultValue, flagValue)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestNormalizeBooleanFlagArgumentsStopsAtTerminator(t *testing.T) {
	t.Parallel()

	command := &cobra.Command{Use: "boolean-test"}
	var flagValue bool
	registerBooleanFlag(command.Flags(), &flagValue, summaryFlagName, true, summaryFlagDescription)

	arguments := []string{"--", "--summary", "false"}
	normalized := normalizeBooleanFlagArguments(command, arguments)

	if len(normalized) != len(arguments) {
		t.Fatalf("expected %d arguments, got %d", len(arguments), len(normalized))
	}
	for index, argument := range arguments {
		if normalized[index] != argument {
			t.Fatalf("expected argument %q at %d, got %q", argument, index, normalized[index])
		}
	}
}

func TestCollectBooleanFlagNamesWalksSubcommands(t *testing.T) {
	t.Parallel()

	rootCommand := createRootCommand()
	collected := map[string]struct{}{}
	collectBooleanFlagNames(rootCommand, collected)

	for _, expected := range []string{versionFlagName, tokensFlagName, summaryFlagName, includeBinaryFlagName, dryRunFlagName} {
		if _, found := collected[expected]; !found {
			t.Fatalf("expected boolean flag %q to be collected", expected)
		}
	}
	if _, found := collected[copyFlagName]; found {
		t.Fatalf("copy flag should keep its own flag type")
	}
}

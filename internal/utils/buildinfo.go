// Package utils provides helper functions, including version retrieval.
package utils

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const unknownVersion = "unknown"

// GetApplicationVersion determines the running binary's version. Module build
// info is consulted first; source checkouts fall back to git describe.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != EmptyString && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}

	repositoryDirectory := findEnclosingRepository(".")
	if repositoryDirectory == EmptyString {
		return unknownVersion
	}

	describeArguments := [][]string{
		{"describe", "--tags", "--exact-match"},
		{"describe", "--tags", "--long", "--dirty"},
	}
	for _, arguments := range describeArguments {
		// #nosec G204
		describeCommand := exec.Command("git", arguments...)
		describeCommand.Dir = repositoryDirectory
		describeOutput, describeError := describeCommand.Output()
		if describeError == nil && len(describeOutput) > 0 {
			return strings.TrimSpace(string(describeOutput))
		}
	}
	return unknownVersion
}

// findEnclosingRepository walks upward from startDirectory looking for a .git
// directory and returns the containing directory, or an empty string.
func findEnclosingRepository(startDirectory string) string {
	currentDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return EmptyString
	}
	for {
		gitPath := filepath.Join(currentDirectory, GitDirectoryName)
		information, statError := os.Stat(gitPath)
		if statError == nil && information.IsDir() {
			return currentDirectory
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return EmptyString
		}
		currentDirectory = parentDirectory
	}
}

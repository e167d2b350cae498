package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	original := os.Stdout
	readPipe, writePipe, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = writePipe

	var buffer bytes.Buffer
	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(&buffer, readPipe)
		close(done)
	}()

	fn()

	writePipe.Close()
	os.Stdout = original
	<-done
	return buffer.String()
}

// writeProjectFixture creates a small project and makes it the working
// directory, with the home directory pointed at an empty location so no
// global configuration leaks into the run.
func writeProjectFixture(t *testing.T) string {
	t.Helper()
	projectDirectory := t.TempDir()
	if err := os.WriteFile(filepath.Join(projectDirectory, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o600); err != nil {
		t.Fatalf("write main.go: %v", err)
	}
	serviceDirectory := filepath.Join(projectDirectory, "server")
	if err := os.Mkdir(serviceDirectory, 0o755); err != nil {
		t.Fatalf("mkdir server: %v", err)
	}
	if err := os.WriteFile(filepath.Join(serviceDirectory, "handler.go"), []byte("package server\n\nfunc Handle() {}\n"), 0o600); err != nil {
		t.Fatalf("write handler.go: %v", err)
	}
	t.Setenv("HOME", t.TempDir())
	t.Chdir(projectDirectory)
	return projectDirectory
}

func executeCommand(t *testing.T, arguments ...string) error {
	t.Helper()
	rootCommand := createRootCommand()
	rootCommand.SetArgs(arguments)
	rootCommand.SetOut(io.Discard)
	rootCommand.SetErr(io.Discard)
	return rootCommand.Execute()
}

func TestContentCommandRendersMarkdownToStdout(t *testing.T) {
	writeProjectFixture(t)

	var executionError error
	outputText := captureStdout(t, func() {
		executionError = executeCommand(t, "content")
	})
	if executionError != nil {
		t.Fatalf("content command failed: %v", executionError)
	}

	for _, expected := range []string{
		"# 📁 Project Context & Codebase Analysis",
		"### 📊 Quick Stats",
		"main.go",
		"server/handler.go",
		"```go",
	} {
		if !strings.Contains(outputText, expected) {
			t.Fatalf("expected output to contain %q\noutput:\n%s", expected, outputText)
		}
	}
}

func TestContentCommandWritesFileWithOutputFlag(t *testing.T) {
	projectDirectory := writeProjectFixture(t)
	outputPath := filepath.Join(projectDirectory, "context", "project.md")

	stdoutText := captureStdout(t, func() {
		if executionError := executeCommand(t, "content", "--output", outputPath); executionError != nil {
			t.Fatalf("content command failed: %v", executionError)
		}
	})

	written, readError := os.ReadFile(outputPath)
	if readError != nil {
		t.Fatalf("read output file: %v", readError)
	}
	if !strings.Contains(string(written), "# 📁 Project Context & Codebase Analysis") {
		t.Fatalf("expected document header in written file")
	}
	if strings.Contains(stdoutText, "# 📁") {
		t.Fatalf("document must not reach stdout when --output is set")
	}
}

func TestContentCommandDryRunProducesNoOutputFile(t *testing.T) {
	projectDirectory := writeProjectFixture(t)
	outputPath := filepath.Join(projectDirectory, "context.md")

	var executionError error
	outputText := captureStdout(t, func() {
		executionError = executeCommand(t, "content", "--dry-run", "--output", outputPath)
	})
	if executionError != nil {
		t.Fatalf("dry run failed: %v", executionError)
	}

	if !strings.Contains(outputText, "Dry run complete") {
		t.Fatalf("expected dry run report, got:\n%s", outputText)
	}
	if !strings.Contains(outputText, "Would process") {
		t.Fatalf("expected processed file count in report")
	}
	if !strings.Contains(outputText, "characters (") {
		t.Fatalf("expected human-readable document size in report, got:\n%s", outputText)
	}
	if !strings.Contains(outputText, "Would write to "+outputPath) {
		t.Fatalf("expected destination in report, got:\n%s", outputText)
	}
	if _, statError := os.Stat(outputPath); !os.IsNotExist(statError) {
		t.Fatalf("dry run must not create the output file")
	}
}

func TestContentCommandDryRunReportsEmptyScan(t *testing.T) {
	projectDirectory := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(projectDirectory)

	var executionError error
	outputText := captureStdout(t, func() {
		executionError = executeCommand(t, "content", "--dry-run")
	})
	if executionError != nil {
		t.Fatalf("dry run failed: %v", executionError)
	}

	for _, expected := range []string{
		"Dry run complete",
		"Would process 0 files",
		"Would generate 20 characters (20b)",
		"Would write to stdout",
	} {
		if !strings.Contains(outputText, expected) {
			t.Fatalf("expected report to contain %q, got:\n%s", expected, outputText)
		}
	}
}

func TestContentCommandRejectsUnknownFormat(t *testing.T) {
	writeProjectFixture(t)

	executionError := executeCommand(t, "content", "--format", "yaml")
	if executionError == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if !strings.Contains(executionError.Error(), "Invalid format value") {
		t.Fatalf("unexpected error: %v", executionError)
	}
}

func TestContentCommandRejectsMissingRoot(t *testing.T) {
	projectDirectory := writeProjectFixture(t)

	executionError := executeCommand(t, "content", filepath.Join(projectDirectory, "missing"))
	if executionError == nil {
		t.Fatalf("expected error for missing root")
	}
	if !strings.Contains(executionError.Error(), "does not exist") {
		t.Fatalf("unexpected error: %v", executionError)
	}
}

func TestTreeCommandStreamsRawTree(t *testing.T) {
	writeProjectFixture(t)

	var executionError error
	outputText := captureStdout(t, func() {
		executionError = executeCommand(t, "tree")
	})
	if executionError != nil {
		t.Fatalf("tree command failed: %v", executionError)
	}

	for _, expected := range []string{"└── ", "main.go ✅", "Summary:"} {
		if !strings.Contains(outputText, expected) {
			t.Fatalf("expected output to contain %q\noutput:\n%s", expected, outputText)
		}
	}
	if strings.Contains(outputText, "package main") {
		t.Fatalf("tree output must not include file contents")
	}
}

func TestTreeCommandHonorsConfigurationFormat(t *testing.T) {
	projectDirectory := writeProjectFixture(t)
	configuration := "tree:\n  format: json\n"
	if err := os.WriteFile(filepath.Join(projectDirectory, ".lens.yaml"), []byte(configuration), 0o600); err != nil {
		t.Fatalf("write configuration: %v", err)
	}

	var executionError error
	outputText := captureStdout(t, func() {
		executionError = executeCommand(t, "tree")
	})
	if executionError != nil {
		t.Fatalf("tree command failed: %v", executionError)
	}

	if !strings.Contains(outputText, "\"project_info\"") {
		t.Fatalf("expected json document when configuration selects it, got:\n%s", outputText)
	}
}

func TestPreviewCommandListsVerdicts(t *testing.T) {
	projectDirectory := writeProjectFixture(t)
	if err := os.WriteFile(filepath.Join(projectDirectory, "image.png"), []byte{0x89, 0x50, 0x4E, 0x47}, 0o600); err != nil {
		t.Fatalf("write image.png: %v", err)
	}

	rootCommand := createRootCommand()
	var buffer bytes.Buffer
	rootCommand.SetOut(&buffer)
	rootCommand.SetErr(io.Discard)
	rootCommand.SetArgs([]string{"preview"})
	if executionError := rootCommand.Execute(); executionError != nil {
		t.Fatalf("preview command failed: %v", executionError)
	}

	outputText := buffer.String()
	if !strings.Contains(outputText, "✅ main.go") {
		t.Fatalf("expected included verdict for main.go, got:\n%s", outputText)
	}
	if !strings.Contains(outputText, "❌ image.png") {
		t.Fatalf("expected excluded verdict for image.png, got:\n%s", outputText)
	}
	if !strings.Contains(outputText, "Preview: ") {
		t.Fatalf("expected preview footer, got:\n%s", outputText)
	}
}

func TestInitCommandWritesConfiguration(t *testing.T) {
	projectDirectory := writeProjectFixture(t)

	rootCommand := createRootCommand()
	var buffer bytes.Buffer
	rootCommand.SetOut(&buffer)
	rootCommand.SetErr(io.Discard)
	rootCommand.SetArgs([]string{"init"})
	if executionError := rootCommand.Execute(); executionError != nil {
		t.Fatalf("init command failed: %v", executionError)
	}

	configurationPath := filepath.Join(projectDirectory, ".lens.yaml")
	if _, statError := os.Stat(configurationPath); statError != nil {
		t.Fatalf("expected configuration file: %v", statError)
	}
	if !strings.Contains(buffer.String(), "Created configuration at") {
		t.Fatalf("expected success message, got %q", buffer.String())
	}

	if secondRunError := executeCommand(t, "init"); secondRunError == nil {
		t.Fatalf("expected error when configuration already exists")
	}
	if forcedError := executeCommand(t, "init", "--force"); forcedError != nil {
		t.Fatalf("forced init failed: %v", forcedError)
	}
}

func TestResolveRootDirectory(t *testing.T) {
	projectDirectory := t.TempDir()
	filePath := filepath.Join(projectDirectory, "file.txt")
	if err := os.WriteFile(filePath, []byte("data"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	resolved, resolveError := resolveRootDirectory(projectDirectory)
	if resolveError != nil {
		t.Fatalf("unexpected error: %v", resolveError)
	}
	if resolved != filepath.Clean(projectDirectory) {
		t.Fatalf("expected %q, got %q", filepath.Clean(projectDirectory), resolved)
	}

	if _, missingError := resolveRootDirectory(filepath.Join(projectDirectory, "missing")); missingError == nil || !strings.Contains(missingError.Error(), "does not exist") {
		t.Fatalf("expected missing path error, got %v", missingError)
	}
	if _, fileError := resolveRootDirectory(filePath); fileError == nil || !strings.Contains(fileError.Error(), "is not a directory") {
		t.Fatalf("expected directory error, got %v", fileError)
	}
}

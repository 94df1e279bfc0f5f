package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the CLI with the given arguments and captures its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestGenerateCommandWritesTemplate(t *testing.T) {
	output, err := execute(t, "generate", "OPCUA", "AWS-S3")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(output), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc["AWSVersion"] != "2022-04-02" {
		t.Errorf("Expected AWSVersion 2022-04-02, got %v", doc["AWSVersion"])
	}
}

func TestGenerateCommandOutputFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "template.json")
	defer func() { generateOutput = "" }()

	output, err := execute(t, "generate", "S7", "DEBUG", "-o", outPath)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(output, outPath) {
		t.Errorf("Expected confirmation mentioning %s, got %q", outPath, output)
	}
}

func TestGenerateCommandRejectsUnknownProtocol(t *testing.T) {
	if _, err := execute(t, "generate", "PROFINET", "AWS-S3"); err == nil {
		t.Error("Expected an error for an unsupported protocol")
	}
}

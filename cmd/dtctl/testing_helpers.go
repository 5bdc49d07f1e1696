package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtkit-go/dtkit/dt/edit"
	"github.com/dtkit-go/dtkit/internal/dtbuf"
)

func u32(v uint32) []byte {
	b := make([]byte, 4)
	dtbuf.PutU32(b, v)
	return b
}

func cstr(s string) []byte { return append([]byte(s), 0) }

// writeTestDtb builds a small tree via build and writes it as a .dtb file
// under the test's temp directory, returning the file path.
func writeTestDtb(t *testing.T, build func(tr *edit.Tree)) string {
	t.Helper()
	tr := edit.NewTree()
	build(tr)

	blob, err := edit.Encode(tr)
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}

	path := filepath.Join(t.TempDir(), "fixture.dtb")
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

// captureOutput captures stdout while running a function.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return buf.String(), fnErr
}

func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

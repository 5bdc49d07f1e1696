package main

import (
	"testing"

	"github.com/dtkit-go/dtkit/dt/edit"
)

func TestInfoCommand(t *testing.T) {
	path := writeTestDtb(t, func(tr *edit.Tree) {
		tr.Root().SetProperty("compatible", cstr("vendor,board"))
		if _, err := tr.Root().AddChild("soc"); err != nil {
			t.Fatalf("AddChild: %v", err)
		}
	})

	quiet = false
	verbose = false
	jsonOut = false

	output, err := captureOutput(t, func() error {
		return runInfo(path)
	})
	if err != nil {
		t.Fatalf("runInfo() error = %v", err)
	}
	assertContains(t, output, []string{"Nodes: 2", "Properties: 1"})

	jsonOut = true
	output, err = captureOutput(t, func() error {
		return runInfo(path)
	})
	if err != nil {
		t.Fatalf("runInfo() error = %v", err)
	}
	assertJSON(t, output)
}

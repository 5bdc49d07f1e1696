package main

import (
	"testing"

	"github.com/dtkit-go/dtkit/dt/edit"
)

func buildGetFixture(t *testing.T) string {
	return writeTestDtb(t, func(tr *edit.Tree) {
		tr.Root().SetProperty("compatible", cstr("vendor,board"))
		soc, err := tr.Root().AddChild("soc")
		if err != nil {
			t.Fatalf("AddChild: %v", err)
		}
		uart, err := soc.AddChild("uart@1000")
		if err != nil {
			t.Fatalf("AddChild: %v", err)
		}
		uart.SetProperty("status", cstr("okay"))
		uart.SetProperty("reg", append(u32(0x1000), u32(0x100)...))
	})
}

func TestGetCommand(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		prop        string
		wantJSON    bool
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "get single property",
			path:        "/soc/uart@1000",
			prop:        "status",
			wantContain: []string{"okay"},
		},
		{
			name:        "get property as json",
			path:        "/soc/uart@1000",
			prop:        "status",
			wantJSON:    true,
			wantContain: []string{"okay"},
		},
		{
			name:        "get all properties",
			path:        "/soc/uart@1000",
			wantContain: []string{"status", "reg"},
		},
		{
			name:    "nonexistent path",
			path:    "/soc/missing@0",
			wantErr: true,
		},
		{
			name:    "nonexistent property",
			path:    "/soc/uart@1000",
			prop:    "clock-frequency",
			wantErr: true,
		},
	}

	dtbPath := buildGetFixture(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiet = false
			verbose = false
			jsonOut = tt.wantJSON

			output, err := captureOutput(t, func() error {
				return runGet(dtbPath, tt.path, tt.prop)
			})

			if (err != nil) != tt.wantErr {
				t.Fatalf("runGet() error = %v, wantErr %v\noutput: %s", err, tt.wantErr, output)
			}
			if tt.wantJSON && !tt.wantErr {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
		})
	}
}

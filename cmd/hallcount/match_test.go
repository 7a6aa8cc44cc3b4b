package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mmynk/hallcount/internal/matcher"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		matchThreshold = matcher.DefaultThreshold
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestMatchCommand(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantInvalid bool
		wantOutput  string
	}{
		{"match", []string{"match", "42", "41"}, false, "42"},
		{"negative head count", []string{"match", "-1", "5"}, true, ""},
		{"negative multi-digit count", []string{"match", "-15", "5"}, true, ""},
		{"negative count after separator", []string{"match", "--", "-1", "5"}, true, ""},
		{"negative signature count after separator", []string{"match", "--", "5", "-3"}, true, ""},
		{"negative threshold", []string{"match", "-t", "-1", "5", "5"}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if tt.wantInvalid {
				if !errors.Is(err, matcher.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("match failed: %v", err)
			}
			if !strings.Contains(out, tt.wantOutput) {
				t.Errorf("output %q does not contain %q", out, tt.wantOutput)
			}
		})
	}
}

func TestMatchCommand_UnknownFlag(t *testing.T) {
	_, err := runCLI(t, "match", "-x", "1", "2")
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if errors.Is(err, matcher.ErrInvalidInput) {
		t.Errorf("unknown flag reported as invalid input: %v", err)
	}
}

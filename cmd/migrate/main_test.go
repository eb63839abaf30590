package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPositive(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"12", 12, false},
		{"0", 0, true},
		{"-2", 0, true},
		{"x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := positive(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("positive(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("positive(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMigrateLogger(t *testing.T) {
	var buf bytes.Buffer
	l := &migrateLogger{logger: slog.New(slog.NewTextHandler(&buf, nil)), verbose: true}

	l.Printf("applied %d/u %s\n", 1, "templates")

	if !l.Verbose() {
		t.Error("Verbose() = false, want true")
	}
	if !strings.Contains(buf.String(), "applied 1/u templates") {
		t.Errorf("log output = %q", buf.String())
	}
}

func TestRootCmd_Commands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"up", "down", "force", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestRootCmd_MissingConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	root := newRootCmd()
	root.SetArgs([]string{"version"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	if err := root.Execute(); err == nil {
		t.Fatal("Execute() should fail without a config file")
	}
}

package packager_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mini-maxit/runner/internal/stages/packager"
	pkgerrors "github.com/mini-maxit/runner/pkg/errors"
	"github.com/mini-maxit/runner/pkg/languages"
)

func TestMaterialize_Python(t *testing.T) {
	code := "def add(a, b):\n    return a + b"

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"array spreads into arguments", `[2, 3]`, "print(add(2, 3))"},
		{"scalar is a single argument", `7`, "print(add(7))"},
		{"empty input means no arguments", ``, "print(add())"},
		{"empty array means no arguments", `[]`, "print(add())"},
		{"nested list stays a list", `[[1, 2], [3]]`, "print(add([1, 2], [3]))"},
		{"null and booleans", `[null, true, false]`, "print(add(None, True, False))"},
		{"numbers keep their text", `[1.50, -0, 1e3]`, "print(add(1.50, -0, 1e3))"},
		{"strings are quoted", `["a\"b", "line\nbreak"]`, `print(add("a\"b", "line\nbreak"))`},
		{"html characters are not escaped", `["<&>"]`, `print(add("<&>"))`},
		{"object keeps key order", `{"z": 1, "a": [null]}`, `print(add({"z": 1, "a": [None]}))`},
		{"object inside array", `[{"k": false}]`, `print(add({"k": False}))`},
		{"whitespace around input", " \n [1] \t", "print(add(1))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := packager.Materialize(languages.PYTHON, "add", code, json.RawMessage(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := code + "\n\n" + tt.expected + "\n"
			if got != want {
				t.Fatalf("unexpected source\n got: %q\nwant: %q", got, want)
			}
		})
	}
}

func TestMaterialize_Deterministic(t *testing.T) {
	input := json.RawMessage(`[{"b": 1, "a": 2, "c": {"y": null, "x": true}}, "s", 3]`)
	first, err := packager.Materialize(languages.PYTHON, "solve", "pass", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := packager.Materialize(languages.PYTHON, "solve", "pass", input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatalf("materialization is not deterministic:\n%q\n%q", first, again)
		}
	}
}

func TestMaterialize_Errors(t *testing.T) {
	tests := []struct {
		name       string
		lang       languages.LanguageType
		entryPoint string
		input      string
		want       error
	}{
		{"empty entry point", languages.PYTHON, "", `[1]`, pkgerrors.ErrInvalidEntryPoint},
		{"entry point with call syntax", languages.PYTHON, "f(1);g", `[1]`, pkgerrors.ErrInvalidEntryPoint},
		{"entry point starting with digit", languages.PYTHON, "1f", `[1]`, pkgerrors.ErrInvalidEntryPoint},
		{"unknown language", languages.LanguageType(99), "f", `[1]`, pkgerrors.ErrUnsupportedLanguage},
		{"malformed input", languages.PYTHON, "f", `[1,`, pkgerrors.ErrInvalidTestCases},
		{"trailing data", languages.PYTHON, "f", `1 2`, pkgerrors.ErrInvalidTestCases},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := packager.Materialize(tt.lang, tt.entryPoint, "pass", json.RawMessage(tt.input))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPrepareUnit_WritesPrivateSource(t *testing.T) {
	exchangeDir := filepath.Join(t.TempDir(), "exchange")
	p := packager.NewPackager(exchangeDir)

	unit, err := p.PrepareUnit(languages.PYTHON, "add", "def add(a, b):\n    return a + b", json.RawMessage(`[1, 2]`))
	if err != nil {
		t.Fatalf("PrepareUnit failed: %v", err)
	}
	defer unit.Release()

	if unit.Dir != filepath.Join(exchangeDir, unit.ID) {
		t.Fatalf("unit dir %q is not under exchange dir", unit.Dir)
	}
	if unit.SourceFile != "main.py" || unit.SourcePath != filepath.Join(unit.Dir, "main.py") {
		t.Fatalf("unexpected source path %q", unit.SourcePath)
	}

	content, err := os.ReadFile(unit.SourcePath)
	if err != nil {
		t.Fatalf("failed to read source: %v", err)
	}
	if string(content) != unit.Source {
		t.Fatalf("file content differs from unit source")
	}
	if !strings.HasSuffix(unit.Source, "print(add(1, 2))\n") {
		t.Fatalf("unexpected harness: %q", unit.Source)
	}

	entries, err := os.ReadDir(unit.Dir)
	if err != nil {
		t.Fatalf("failed to read unit dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file in unit dir, got %d", len(entries))
	}

	fi, err := os.Stat(unit.SourcePath)
	if err != nil {
		t.Fatalf("failed to stat source: %v", err)
	}
	if fi.Mode().Perm() != 0o644 {
		t.Fatalf("expected mode 0644, got %v", fi.Mode().Perm())
	}
}

func TestPrepareUnit_UniqueUnits(t *testing.T) {
	p := packager.NewPackager(t.TempDir())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		unit, err := p.PrepareUnit(languages.PYTHON, "f", "def f():\n    return 1", nil)
		if err != nil {
			t.Fatalf("PrepareUnit failed: %v", err)
		}
		if seen[unit.ID] || seen[unit.Dir] {
			t.Fatalf("duplicate unit %s", unit.ID)
		}
		seen[unit.ID] = true
		seen[unit.Dir] = true
		defer unit.Release()
	}
}

func TestPrepareUnit_InvalidEntryPointCreatesNothing(t *testing.T) {
	exchangeDir := t.TempDir()
	p := packager.NewPackager(exchangeDir)

	_, err := p.PrepareUnit(languages.PYTHON, "not valid", "pass", nil)
	if !errors.Is(err, pkgerrors.ErrInvalidEntryPoint) {
		t.Fatalf("expected ErrInvalidEntryPoint, got %v", err)
	}

	entries, err := os.ReadDir(exchangeDir)
	if err != nil {
		t.Fatalf("failed to read exchange dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no unit directories, found %d", len(entries))
	}
}

func TestRelease_RemovesDirAndIsIdempotent(t *testing.T) {
	p := packager.NewPackager(t.TempDir())

	unit, err := p.PrepareUnit(languages.PYTHON, "f", "pass", nil)
	if err != nil {
		t.Fatalf("PrepareUnit failed: %v", err)
	}

	if err := unit.Release(); err != nil {
		t.Fatalf("first release failed: %v", err)
	}
	if _, err := os.Stat(unit.Dir); !os.IsNotExist(err) {
		t.Fatalf("expected unit dir to be removed, stat err: %v", err)
	}
	if err := unit.Release(); err != nil {
		t.Fatalf("second release failed: %v", err)
	}
}

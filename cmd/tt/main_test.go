package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/treetable/internal/datasource"
	"github.com/vanderheijden86/treetable/pkg/loader"
	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/version"
)

const listingJSONL = `{"id":"a","cells":["Docs","4 KB"]}
{"id":"b","child_of":"a","cells":["readme.md","1 KB"]}
{"id":"c","child_of":"a","cells":["img","3 KB"]}
{"id":"d","child_of":"c","cells":["logo.png","3 KB"]}
`

const listingHTML = `<!DOCTYPE html>
<html><body>
<table>
  <tbody>
    <tr id="a"><td>Docs</td></tr>
    <tr id="b" class="child-of-a"><td>readme.md</td></tr>
    <tr id="c" class="child-of-a"><td>img</td></tr>
    <tr id="d" class="child-of-c"><td>logo.png</td></tr>
  </tbody>
</table>
</body></html>`

// writeSource writes content to name in a temp dir and points the config
// lookup at an empty directory.
func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

// treeLines returns the printed lines with the last column removed when
// there is more than one.
func treeLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if i := strings.LastIndex(line, "  "); i > 0 {
			if head := strings.TrimRight(line[:i], " "); head != "" {
				line = head
			}
		}
		lines = append(lines, line)
	}
	return lines
}

func TestVersionAndHelp(t *testing.T) {
	code, out, _ := runCLI(t, "--version")
	if code != 0 || strings.TrimSpace(out) != "tt "+version.Version {
		t.Errorf("--version: code %d, out %q", code, out)
	}

	code, out, _ = runCLI(t, "--help")
	if code != 0 {
		t.Errorf("--help exited %d", code)
	}
	for _, want := range []string{"Usage: tt", "-toggle", "-html-out", "-default-state"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q:\n%s", want, out)
		}
	}
}

func TestUsageErrors(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"NoSource", nil, "no source given"},
		{"UnknownFlag", []string{"--nope"}, "flag provided but not defined"},
		{"BadState", []string{"--default-state", "sideways", "x.jsonl"}, "default_state"},
		{"NegativeIndent", []string{"--indent", "-3", "x.jsonl"}, "indent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			if code != 2 {
				t.Errorf("exit code %d, want 2", code)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("stderr missing %q:\n%s", tt.want, stderr)
			}
		})
	}
}

func TestPrintTree(t *testing.T) {
	src := writeSource(t, "rows.jsonl", listingJSONL)

	// stdout is not a terminal, so the tree is printed without --print
	code, out, stderr := runCLI(t, src)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	want := []string{"▾ Docs", "  • readme.md", "  ▾ img", "    • logo.png"}
	if got := treeLines(out); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("printed tree:\n%s\nwant lines %q", out, want)
	}
	if !strings.Contains(out, "4 KB") {
		t.Errorf("second column missing:\n%s", out)
	}
}

func TestPrintOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"Collapsed", []string{"--default-state", "collapsed"}, []string{"▸ Docs"}},
		{"Toggle", []string{"--toggle", "c"}, []string{"▾ Docs", "  • readme.md", "  ▸ img"}},
		{"ToggleTwice", []string{"--toggle", "a", "--toggle", "a"}, []string{"▾ Docs", "  • readme.md", "  ▾ img", "    • logo.png"}},
		{"NoExpand", []string{"--no-expand"}, []string{"  Docs", "  • readme.md", "    img", "    • logo.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := writeSource(t, "rows.jsonl", listingJSONL)
			args := append(append([]string{"--print"}, tt.args...), src)
			code, out, stderr := runCLI(t, args...)
			if code != 0 {
				t.Fatalf("exit %d: %s", code, stderr)
			}
			if got := treeLines(out); strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("got lines %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigFile(t *testing.T) {
	src := writeSource(t, "rows.jsonl", listingJSONL)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("tree:\n  default_state: collapsed\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, out, stderr := runCLI(t, "--config", cfgPath, src)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if got := treeLines(out); len(got) != 1 || got[0] != "▸ Docs" {
		t.Errorf("config default_state ignored: %q", got)
	}

	// Flags win over the file
	code, out, _ = runCLI(t, "--config", cfgPath, "--default-state", "expanded", src)
	if code != 0 || len(treeLines(out)) != 4 {
		t.Errorf("flag did not override config: code %d\n%s", code, out)
	}
}

func TestInvalidConfigFile(t *testing.T) {
	src := writeSource(t, "rows.jsonl", listingJSONL)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("tree:\n  indent: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	code, _, stderr := runCLI(t, "--config", cfgPath, src)
	if code != 1 || !strings.Contains(stderr, "Error loading config") {
		t.Errorf("code %d, stderr %q", code, stderr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		args    []string
		want    string
	}{
		{"Cycle", "rows.jsonl", "{\"id\":\"x\",\"child_of\":\"y\"}\n{\"id\":\"y\",\"child_of\":\"x\"}\n", nil, "cyclic"},
		{"Duplicate", "rows.jsonl", "{\"id\":\"x\"}\n{\"id\":\"x\"}\n", nil, "duplicate"},
		{"UnknownToggle", "rows.jsonl", listingJSONL, []string{"--toggle", "zz"}, "--toggle zz"},
		{"UnknownType", "rows.csv", "id\n", nil, "Error loading rows"},
		{"HTMLOutNeedsHTML", "rows.jsonl", listingJSONL, []string{"--html-out", "out.html"}, "--html-out"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := writeSource(t, tt.file, tt.content)
			args := append(append([]string{}, tt.args...), src)
			code, _, stderr := runCLI(t, args...)
			if code != 1 {
				t.Errorf("exit code %d, want 1", code)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("stderr missing %q:\n%s", tt.want, stderr)
			}
		})
	}
}

func TestMissingSource(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	code, _, stderr := runCLI(t, filepath.Join(t.TempDir(), "missing.jsonl"))
	if code != 1 || !strings.Contains(stderr, "Error loading rows") {
		t.Errorf("code %d, stderr %q", code, stderr)
	}
}

func TestMalformedLineWarns(t *testing.T) {
	src := writeSource(t, "rows.jsonl", listingJSONL+"{not json\n")
	code, out, stderr := runCLI(t, src)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(stderr, "Warning:") {
		t.Errorf("expected a warning, stderr %q", stderr)
	}
	if len(treeLines(out)) != 4 {
		t.Errorf("valid rows not printed:\n%s", out)
	}
}

func TestHTMLOut(t *testing.T) {
	src := writeSource(t, "listing.html", listingHTML)
	out := filepath.Join(t.TempDir(), "out", "listing.html")

	code, stdout, stderr := runCLI(t, "--toggle", "c", "--html-out", out, src)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if stdout != "" {
		t.Errorf("nothing should be printed when writing files, got %q", stdout)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	for _, want := range []string{
		`class="treetable"`,
		`id="c" class="child-of-a parent collapsed"`,
		`id="d" class="child-of-c" style="display: none"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q:\n%s", want, html)
		}
	}
}

func TestFileOutputs(t *testing.T) {
	src := writeSource(t, "rows.jsonl", listingJSONL)
	dir := t.TempDir()
	md := filepath.Join(dir, "tree.md")
	svgPath := filepath.Join(dir, "tree.svg")
	pngPath := filepath.Join(dir, "tree.png")
	jsonl := filepath.Join(dir, "state.jsonl")
	db := filepath.Join(dir, "rows.db")

	code, _, stderr := runCLI(t,
		"--toggle", "c",
		"--md-out", md,
		"--svg-out", svgPath,
		"--png-out", pngPath,
		"--jsonl-out", jsonl,
		"--sqlite-out", db,
		src,
	)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}

	mdData, err := os.ReadFile(md)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(mdData), "img") || strings.Contains(string(mdData), "logo.png |") {
		t.Errorf("markdown should list visible rows only:\n%s", mdData)
	}

	svgData, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svgData), "<svg") || !strings.Contains(string(svgData), "3 of 4 rows visible") {
		t.Errorf("unexpected snapshot:\n%s", svgData)
	}
	pngData, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pngData, []byte("\x89PNG")) {
		t.Errorf("PNG snapshot has header %q", pngData[:min(8, len(pngData))])
	}

	// The JSONL state file loads back with the same tags
	rows, err := loader.LoadFile(jsonl, loader.ParseOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("state file has %d rows", len(rows))
	}
	if rows[2].ID != "c" || rows[2].State() != model.StateCollapsed {
		t.Errorf("row c state = %v", rows[2].State())
	}

	loaded, err := datasource.Load(context.Background(), db, loader.ParseOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Rows) != 4 || loaded.Rows[3].ParentID != "c" {
		t.Errorf("sqlite rows = %d", len(loaded.Rows))
	}

	// The SQLite file is itself a source
	code, out, stderr := runCLI(t, "--print", db)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if got := treeLines(out); len(got) != 3 || got[2] != "  ▸ img" {
		t.Errorf("sqlite source printed %q", got)
	}
}

func TestMultipleSources(t *testing.T) {
	first := writeSource(t, "a.jsonl", "{\"id\":\"a\",\"cells\":[\"Docs\"]}\n")
	second := filepath.Join(filepath.Dir(first), "b.yaml")
	if err := os.WriteFile(second, []byte("- id: b\n  child_of: a\n  cells: [readme.md]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, out, stderr := runCLI(t, first, second)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if got := treeLines(out); strings.Join(got, "|") != "▾ Docs|  • readme.md" {
		t.Errorf("combined sources printed %q", got)
	}
}

func TestProfile(t *testing.T) {
	src := writeSource(t, "rows.jsonl", listingJSONL)
	code, _, stderr := runCLI(t, "--profile", src)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	for _, want := range []string{"source_load", "initialize", "export"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("profile missing %q:\n%s", want, stderr)
		}
	}
}

func TestToggleListFlag(t *testing.T) {
	var l toggleList
	if err := l.Set(" a "); err != nil {
		t.Fatal(err)
	}
	if err := l.Set("b"); err != nil {
		t.Fatal(err)
	}
	if err := l.Set("  "); err == nil {
		t.Error("expected an error for an empty id")
	}
	if l.String() != "a,b" {
		t.Errorf("String() = %q", l.String())
	}
}

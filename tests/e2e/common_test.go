package main_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// ttBin is built once in TestMain. tuiSkipReason is empty when tt can run
// its TUI under script(1) on this machine.
var (
	ttBin         string
	tuiSkipReason string
)

func TestMain(m *testing.M) {
	os.Exit(runE2E(m))
}

func runE2E(m *testing.M) int {
	work, err := os.MkdirTemp("", "tt-e2e-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create work dir: %v\n", err)
		return 1
	}
	defer os.RemoveAll(work)

	// An empty config dir keeps the user's config.yaml out of the runs
	cfgDir := filepath.Join(work, "config")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create config dir: %v\n", err)
		return 1
	}
	os.Setenv("XDG_CONFIG_HOME", cfgDir)

	ttBin = filepath.Join(work, "tt")
	if runtime.GOOS == "windows" {
		ttBin += ".exe"
	}
	if out, err := exec.Command("go", "build", "-o", ttBin, "../../cmd/tt").CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build tt: %v\n%s", err, out)
		return 1
	}

	tuiSkipReason = checkTUIHarness(work)
	return m.Run()
}

// checkTUIHarness starts the viewer once under script with a short
// TT_TUI_AUTOCLOSE_MS. Some CI containers give script no usable PTY; there
// the program never gets a terminal and the TUI tests are skipped instead of
// timing out one by one.
func checkTUIHarness(work string) string {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		return "script TUI harness unsupported on " + runtime.GOOS
	}
	if _, err := exec.LookPath("script"); err != nil {
		return "script command not available"
	}

	dir := filepath.Join(work, "tui-check")
	if err := os.Mkdir(dir, 0o755); err != nil {
		return fmt.Sprintf("create check dir: %v", err)
	}
	rows := `{"id":"check","cells":["harness check"]}` + "\n"
	if err := os.WriteFile(filepath.Join(dir, "rows.jsonl"), []byte(rows), 0o644); err != nil {
		return fmt.Sprintf("write rows.jsonl: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cmd := underScript(ctx, "rows.jsonl")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color", "TT_TUI_AUTOCLOSE_MS=250")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "tt did not auto-close under script (no usable PTY)"
	}
	if err != nil {
		return fmt.Sprintf("tt under script failed: %v", err)
	}
	return ""
}

func buildTTBinary(t *testing.T) string {
	t.Helper()
	if ttBin == "" {
		t.Fatal("tt binary not built")
	}
	return ttBin
}

func requireTUIHarness(t *testing.T) {
	t.Helper()
	if tuiSkipReason != "" {
		t.Skipf("skipping: %s", tuiSkipReason)
	}
}

// underScript runs tt with args under script(1) so bubbletea sees a
// terminal. The util-linux and BSD variants take different arguments.
func underScript(ctx context.Context, args ...string) *exec.Cmd {
	if runtime.GOOS == "darwin" {
		return exec.CommandContext(ctx, "script", append([]string{"-q", "/dev/null", ttBin}, args...)...)
	}
	line := ttBin
	for _, arg := range args {
		if strings.ContainsAny(arg, " \t") {
			arg = "'" + arg + "'"
		}
		line += " " + arg
	}
	return exec.CommandContext(ctx, "script", "-q", "-e", "-f", "-c", line, "/dev/null")
}

// closeStdinAfter gives cmd a stdin that reaches EOF after d, so script
// exits even when tt ignores its input.
func closeStdinAfter(t *testing.T, ctx context.Context, cmd *exec.Cmd, d time.Duration) {
	t.Helper()
	r, w := io.Pipe()
	cmd.Stdin = r
	t.Cleanup(func() {
		w.Close()
		r.Close()
	})
	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(d):
		}
		w.Close()
	}()
}

// runCaptured runs cmd with stdout and stderr going to a file rather than a
// pipe; script keeps pipes open after tt exits.
func runCaptured(t *testing.T, cmd *exec.Cmd) ([]byte, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "screen.out")
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	cmd.Stdout = f
	cmd.Stderr = f
	runErr := cmd.Run()
	f.Close()

	out, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read captured output: %w (run: %v)", err, runErr)
	}
	return out, runErr
}

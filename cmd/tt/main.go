package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/treetable/internal/datasource"
	"github.com/vanderheijden86/treetable/pkg/config"
	"github.com/vanderheijden86/treetable/pkg/debug"
	"github.com/vanderheijden86/treetable/pkg/export"
	"github.com/vanderheijden86/treetable/pkg/loader"
	"github.com/vanderheijden86/treetable/pkg/metrics"
	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/treetable"
	"github.com/vanderheijden86/treetable/pkg/ui"
	"github.com/vanderheijden86/treetable/pkg/version"
	"github.com/vanderheijden86/treetable/pkg/watcher"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// toggleList collects repeated --toggle flags in order.
type toggleList []string

func (l *toggleList) String() string {
	return strings.Join(*l, ",")
}

func (l *toggleList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return errors.New("empty row id")
	}
	*l = append(*l, v)
	return nil
}

type cliFlags struct {
	configPath   string
	initConfig   bool
	defaultState string
	indent       int
	treeColumn   int
	noExpand     bool
	toggles      toggleList
	htmlOut      string
	mdOut        string
	svgOut       string
	pngOut       string
	jsonlOut     string
	sqliteOut    string
	print        bool
	watch        bool
	profile      bool
	debug        bool
	version      bool
	help         bool

	set map[string]bool // Flags given on the command line
}

func newFlagSet(stderr io.Writer) (*flag.FlagSet, *cliFlags) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("tt", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&f.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/tt/config.yaml)")
	fs.BoolVar(&f.initConfig, "init-config", false, "Run the interactive wizard and write the config file")
	fs.StringVar(&f.defaultState, "default-state", "", "Initial state of parents: expanded or collapsed (overrides config)")
	fs.IntVar(&f.indent, "indent", 0, "Indent per level in pixels (overrides config)")
	fs.IntVar(&f.treeColumn, "tree-column", 0, "Zero-based column that shows the tree (overrides config)")
	fs.BoolVar(&f.noExpand, "no-expand", false, "Do not install toggle controls")
	fs.Var(&f.toggles, "toggle", "Toggle a row after initialization (repeatable)")
	fs.StringVar(&f.htmlOut, "html-out", "", "Write annotated HTML (HTML sources only)")
	fs.StringVar(&f.mdOut, "md-out", "", "Write a Markdown table of the visible rows")
	fs.StringVar(&f.svgOut, "svg-out", "", "Write an SVG snapshot of the visible rows")
	fs.StringVar(&f.pngOut, "png-out", "", "Write a PNG snapshot of the visible rows")
	fs.StringVar(&f.jsonlOut, "jsonl-out", "", "Write all rows with their state as JSONL")
	fs.StringVar(&f.sqliteOut, "sqlite-out", "", "Write all rows to a SQLite database")
	fs.BoolVar(&f.print, "print", false, "Print the visible tree as text and exit")
	fs.BoolVar(&f.watch, "watch", false, "Reload when the source changes (TUI only)")
	fs.BoolVar(&f.profile, "profile", false, "Print timing metrics on exit")
	fs.BoolVar(&f.debug, "debug", false, "Log debug messages to stderr")
	fs.BoolVar(&f.version, "version", false, "Show version")
	fs.BoolVar(&f.help, "help", false, "Show help")

	fs.Usage = func() { printUsage(fs, stderr) }
	return fs, f
}

// run is main without the process exit, so tests can drive it. It returns
// the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs, f := newFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	f.set = map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	if f.help {
		fs.SetOutput(stdout)
		printUsage(fs, stdout)
		return 0
	}
	if f.version {
		fmt.Fprintf(stdout, "tt %s\n", version.Version)
		return 0
	}
	if f.debug {
		debug.SetEnabled(true)
	}
	if f.profile {
		metrics.SetEnabled(true)
		defer metrics.WriteSummary(stderr)
	}

	cfg, err := loadConfig(f.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	if f.initConfig {
		return runInitConfig(cfg, f.configPath, stdout, stderr)
	}

	paths := fs.Args()
	if len(paths) == 0 {
		fmt.Fprintln(stderr, "Error: no source given")
		fs.Usage()
		return 2
	}

	opts, err := treeOptions(cfg, f)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	ctx := context.Background()
	parseOpts := loader.ParseOptions{
		TreeColumn: opts.TreeColumn,
		WarningHandler: func(msg string) {
			fmt.Fprintf(stderr, "Warning: %s\n", msg)
		},
	}
	loaded, err := datasource.LoadAll(ctx, paths, parseOpts)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading rows: %v\n", err)
		return 1
	}

	t, err := treetable.Initialize(loaded.Rows, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	for _, id := range f.toggles {
		if err := t.Toggle(id); err != nil {
			fmt.Fprintf(stderr, "Error: --toggle %s: %v\n", id, err)
			return 1
		}
	}
	debug.Log("tt: %d rows, %d visible", t.Len(), len(t.VisibleRows()))

	wrote, err := writeOutputs(ctx, f, t, loaded)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if f.print || (!wrote && !isTerminal(stdout)) {
		if err := export.WriteText(stdout, t, export.TextOptions{ColumnWidth: cfg.UI.ColumnWidth}); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}
	if wrote {
		return 0
	}

	uiOpts := ui.Options{
		Title:       sourceTitle(paths),
		ColumnWidth: cfg.UI.ColumnWidth,
		ShowDetail:  cfg.UI.ShowDetail,
	}
	if f.watch {
		w, err := newWatcher(paths, cfg)
		if err != nil {
			fmt.Fprintf(stderr, "Error starting watcher: %v\n", err)
			return 1
		}
		defer w.Stop()
		uiOpts.Watcher = w
		uiOpts.Load = func(ctx context.Context) ([]*model.Row, error) {
			l, err := datasource.LoadAll(ctx, paths, parseOpts)
			if err != nil {
				return nil, err
			}
			return l.Rows, nil
		}
	}

	if err := runTUIProgram(ui.NewModel(t, uiOpts)); err != nil {
		fmt.Fprintf(stderr, "Error running tt: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Usage: tt [options] <source>...")
	fmt.Fprintln(w, "\nSources: .html/.htm, .jsonl, .json, .yaml/.yml, .db/.sqlite/.sqlite3")
	fmt.Fprintln(w, "\nOptions:")
	fs.PrintDefaults()
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func runInitConfig(cfg config.Config, path string, stdout, stderr io.Writer) int {
	cfg, err := config.RunWizard(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if path == "" {
		path = config.ConfigPath()
	}
	if path == "" {
		fmt.Fprintln(stderr, "Error: cannot determine config directory")
		return 1
	}
	if err := config.SaveTo(cfg, path); err != nil {
		fmt.Fprintf(stderr, "Error saving config: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return 0
}

// treeOptions applies command line overrides on top of the config file.
func treeOptions(cfg config.Config, f *cliFlags) (treetable.Options, error) {
	if f.set["default-state"] {
		cfg.Tree.DefaultState = f.defaultState
	}
	if f.set["indent"] {
		cfg.Tree.Indent = f.indent
	}
	if f.set["tree-column"] {
		cfg.Tree.TreeColumn = f.treeColumn
	}
	if f.noExpand {
		cfg.Tree.Expandable = false
	}
	return cfg.TreeOptions()
}

// writeOutputs writes every requested file and reports whether any was asked
// for.
func writeOutputs(ctx context.Context, f *cliFlags, t *treetable.Table, loaded *datasource.Loaded) (bool, error) {
	wrote := false
	treeCol := t.Options().TreeColumn

	if f.htmlOut != "" {
		if loaded.Document == nil {
			return wrote, errors.New("--html-out needs a single HTML source")
		}
		if err := export.SaveHTML(f.htmlOut, loaded.Document, t.Options()); err != nil {
			return wrote, fmt.Errorf("writing HTML: %w", err)
		}
		wrote = true
	}
	if f.mdOut != "" {
		opts := export.MarkdownOptions{Title: "Tree table", Diagram: true}
		if err := export.SaveMarkdown(f.mdOut, t, opts); err != nil {
			return wrote, fmt.Errorf("writing Markdown: %w", err)
		}
		wrote = true
	}
	if f.svgOut != "" {
		opts := export.SnapshotOptions{Path: f.svgOut, Format: export.FormatSVG}
		if err := export.SaveSnapshot(t, opts); err != nil {
			return wrote, fmt.Errorf("writing SVG: %w", err)
		}
		wrote = true
	}
	if f.pngOut != "" {
		opts := export.SnapshotOptions{Path: f.pngOut, Format: export.FormatPNG}
		if err := export.SaveSnapshot(t, opts); err != nil {
			return wrote, fmt.Errorf("writing PNG: %w", err)
		}
		wrote = true
	}
	if f.jsonlOut != "" {
		if err := saveJSONL(f.jsonlOut, t.Rows(), treeCol); err != nil {
			return wrote, fmt.Errorf("writing JSONL: %w", err)
		}
		wrote = true
	}
	if f.sqliteOut != "" {
		if err := export.SaveSQLite(ctx, f.sqliteOut, t.Rows()); err != nil {
			return wrote, fmt.Errorf("writing SQLite: %w", err)
		}
		wrote = true
	}
	return wrote, nil
}

func saveJSONL(path string, rows []*model.Row, treeColumn int) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := loader.WriteJSONL(out, rows, treeColumn); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func sourceTitle(paths []string) string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return strings.Join(names, ", ")
}

// newWatcher starts watching the sources with the intervals from cfg.
func newWatcher(paths []string, cfg config.Config) (*watcher.Watcher, error) {
	w, err := watcher.NewWatcher(paths,
		watcher.WithDebounceDuration(time.Duration(cfg.Watch.DebounceMS)*time.Millisecond),
		watcher.WithPollInterval(time.Duration(cfg.Watch.PollIntervalMS)*time.Millisecond),
		watcher.WithForcePoll(cfg.Watch.ForcePoll),
		watcher.WithOnError(func(err error) {
			debug.Log("tt: watcher: %v", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w, nil
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set TT_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("TT_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}

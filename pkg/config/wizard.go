package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// wizardValues holds the form fields as the user edits them. Numbers are
// strings because huh inputs are text.
type wizardValues struct {
	expandable   bool
	defaultState string
	indent       string
	treeColumn   string
	showDetail   bool
	watchPoll    bool
}

func valuesFrom(cfg Config) *wizardValues {
	return &wizardValues{
		expandable:   cfg.Tree.Expandable,
		defaultState: cfg.Tree.DefaultState,
		indent:       strconv.Itoa(cfg.Tree.Indent),
		treeColumn:   strconv.Itoa(cfg.Tree.TreeColumn),
		showDetail:   cfg.UI.ShowDetail,
		watchPoll:    cfg.Watch.ForcePoll,
	}
}

// apply copies the edited values onto cfg.
func (v *wizardValues) apply(cfg Config) (Config, error) {
	indent, err := nonNegative(v.indent)
	if err != nil {
		return cfg, fmt.Errorf("indent: %w", err)
	}
	col, err := nonNegative(v.treeColumn)
	if err != nil {
		return cfg, fmt.Errorf("tree column: %w", err)
	}
	cfg.Tree.Expandable = v.expandable
	cfg.Tree.DefaultState = v.defaultState
	cfg.Tree.Indent = indent
	cfg.Tree.TreeColumn = col
	cfg.UI.ShowDetail = v.showDetail
	cfg.Watch.ForcePoll = v.watchPoll
	return cfg, cfg.Validate()
}

func nonNegative(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%d must not be negative", n)
	}
	return n, nil
}

func validateNonNegative(s string) error {
	_, err := nonNegative(s)
	return err
}

func (v *wizardValues) form() *huh.Form {
	return newForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Install expand/collapse controls?").
				Description("Without controls the tree is still indented").
				Value(&v.expandable),
			huh.NewSelect[string]().
				Title("Initial state of parent rows").
				Options(
					huh.NewOption("Expanded", "expanded"),
					huh.NewOption("Collapsed", "collapsed"),
				).
				Value(&v.defaultState),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Indent per level (px)").
				Value(&v.indent).
				Validate(validateNonNegative),
			huh.NewInput().
				Title("Tree column (0 = first)").
				Value(&v.treeColumn).
				Validate(validateNonNegative),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Open the detail pane on start?").
				Value(&v.showDetail),
			huh.NewConfirm().
				Title("Poll for changes instead of using file events?").
				Description("Use on network filesystems").
				Value(&v.watchPoll),
		),
	)
}

// RunWizard asks for every setting, starting from cfg, and returns the
// edited configuration. The caller decides where to save it.
func RunWizard(cfg Config) (Config, error) {
	v := valuesFrom(cfg)
	if err := v.form().Run(); err != nil {
		return cfg, err
	}
	return v.apply(cfg)
}

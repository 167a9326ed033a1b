package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todolist/internal/ui"
)

// Exit codes: 0 ok, 1 runtime or store failure, 2 usage.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// Options wire the runner to its environment.
type Options struct {
	Out io.Writer
	Err io.Writer
}

func (o *Options) setDefaults() {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
}

// exitError carries an exit code for a failure that was already reported.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func failed(code int) error { return &exitError{code: code} }

// Run dispatches subcommands and returns an exit code.
func Run(ctx context.Context, args []string, opt Options) int {
	opt.setDefaults()

	a := &app{opt: opt}
	defer a.close()

	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(opt.Out)
	root.SetErr(opt.Err)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Anything else is cobra rejecting the command line.
	ui.Fail(opt.Err, err.Error())
	ui.Hint(opt.Err, "Run `todo --help` for usage.")
	return exitUsage
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "todo",
		Short: "todo - a searchable to-do list",
		Long: `todo - a searchable to-do list

Items are kept in a local SQLite database (or a JSON file) and listed
oldest first. Search matches any part of a name, ignoring case.`,
		Example: `  todo add "Buy milk"
  todo ls
  todo search milk
  todo rm 2
  todo ui`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{annotationNoStore: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[annotationNoStore] == "true" {
				return a.loadConfig(cmd)
			}
			return a.open(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return failed(exitUsage)
		},
	}

	root.CompletionOptions.DisableDefaultCmd = true

	f := root.PersistentFlags()
	f.StringVar(&a.flags.configPath, "config", "", "config file (default todo.yml, or $TODO_CONFIG)")
	f.StringVar(&a.flags.driver, "driver", "", "store driver: sqlite or json")
	f.StringVar(&a.flags.path, "path", "", "store file path")
	f.BoolVar(&a.flags.keepFilter, "keep-filter", false, "keep the search filter after adding an item")
	f.StringVar(&a.flags.theme, "theme", "", "color theme: classic, neon or mono")
	f.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newListCommand(a),
		newSearchCommand(a),
		newAddCommand(a),
		newRemoveCommand(a),
		newUICommand(a),
		newMigrateCommand(a),
	)
	return root
}

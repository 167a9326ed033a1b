package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todolist/internal/controller"
	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/tui"
	"github.com/idilsaglam/todolist/internal/ui"
)

func newListCommand(a *app) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items, oldest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.show(cmd, filter)
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only show items whose name contains this text")
	return cmd
}

func newSearchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text...>",
		Short: "List items whose name contains text, ignoring case",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.show(cmd, strings.Join(args, " "))
		},
	}
}

// show loads the list through the controller and prints whatever it renders.
func (a *app) show(cmd *cobra.Command, filter string) error {
	a.list.SetRenderer(controller.RenderFunc(func(items []model.Item) {
		if a.list.Err() == nil {
			ui.ItemTable(a.opt.Out, items, a.list.Filter())
		}
	}))
	a.fetch(cmd, filter)
	if err := a.list.Err(); err != nil {
		ui.Fail(a.opt.Err, "load: "+err.Error())
		return failed(exitFailure)
	}
	return nil
}

func (a *app) fetch(cmd *cobra.Command, filter string) {
	if filter == "" {
		a.list.OnLoad(cmd.Context())
		return
	}
	a.list.OnSearchTextChanged(cmd.Context(), filter)
}

func newAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name...>",
		Short: "Add a new item (name can be multiple words)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				ui.Fail(a.opt.Err, "add: empty name")
				ui.Hint(a.opt.Err, `usage: todo add <name...>`)
				return failed(exitUsage)
			}
			a.list.OnAddRequested(cmd.Context(), name)
			if err := a.list.Err(); err != nil {
				ui.Fail(a.opt.Err, "add: "+err.Error())
				return failed(exitFailure)
			}
			ui.OK(a.opt.Out, fmt.Sprintf("added %q", name))
			return nil
		},
	}
}

func newRemoveCommand(a *app) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:     "rm <index>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove the item at a 1-based index, as numbered by `todo ls`",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				ui.Fail(a.opt.Err, "rm: not a number: "+args[0])
				return failed(exitUsage)
			}

			a.fetch(cmd, filter)
			if err := a.list.Err(); err != nil {
				ui.Fail(a.opt.Err, "load: "+err.Error())
				return failed(exitFailure)
			}

			item, err := a.list.ItemAt(n - 1)
			if err != nil {
				var ie *controller.IndexError
				if errors.As(err, &ie) {
					err = fmt.Errorf("index out of range: have %d, got %d", ie.Len, n)
				}
				ui.Fail(a.opt.Err, err.Error())
				hint := "Hint: run `todo ls` to see valid indexes"
				if filter != "" {
					hint = fmt.Sprintf("Hint: run `todo ls --filter %q` to see valid indexes", filter)
				}
				ui.Hint(a.opt.Err, hint)
				return failed(exitUsage)
			}

			if err := a.list.OnDeleteRequested(cmd.Context(), n-1); err != nil {
				ui.Fail(a.opt.Err, err.Error())
				return failed(exitUsage)
			}
			if err := a.list.Err(); err != nil {
				ui.Fail(a.opt.Err, "rm: "+err.Error())
				return failed(exitFailure)
			}
			ui.OK(a.opt.Out, fmt.Sprintf("removed %q", item.Name))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "number items within this search, as ls --filter does")
	return cmd
}

func newUICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive list (/ search, a add, d delete, q quit)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := tui.Run(cmd.Context(), a.list); err != nil {
				ui.Fail(a.opt.Err, "ui: "+err.Error())
				return failed(exitFailure)
			}
			return nil
		},
	}
}

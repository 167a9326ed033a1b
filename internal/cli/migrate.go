package cli

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/db"
	"github.com/idilsaglam/todolist/internal/logger"
	"github.com/idilsaglam/todolist/internal/ui"
)

func newMigrateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "migrate",
		Short:       "Manage the SQLite schema",
		Annotations: map[string]string{annotationNoStore: "true"},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:         "up",
			Short:       "Apply pending migrations",
			Args:        cobra.NoArgs,
			Annotations: map[string]string{annotationNoStore: "true"},
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withDB(func(d *sql.DB) error {
					if err := db.MigrateUp(d); err != nil {
						return err
					}
					return a.reportVersion(d, "migrated")
				})
			},
		},
		&cobra.Command{
			Use:         "down [steps]",
			Short:       "Roll back migrations (default 1)",
			Args:        cobra.MaximumNArgs(1),
			Annotations: map[string]string{annotationNoStore: "true"},
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n < 1 {
						ui.Fail(a.opt.Err, "migrate down: steps must be a positive number: "+args[0])
						return failed(exitUsage)
					}
					steps = n
				}
				return a.withDB(func(d *sql.DB) error {
					if err := db.MigrateDown(d, steps); err != nil {
						return err
					}
					return a.reportVersion(d, "rolled back")
				})
			},
		},
		&cobra.Command{
			Use:         "version",
			Short:       "Print the applied schema version",
			Args:        cobra.NoArgs,
			Annotations: map[string]string{annotationNoStore: "true"},
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withDB(func(d *sql.DB) error {
					return a.reportVersion(d, "schema")
				})
			},
		},
	)
	return cmd
}

// withDB connects to the configured SQLite file without migrating it.
func (a *app) withDB(fn func(d *sql.DB) error) error {
	if a.cfg.Store.Driver != config.DriverSQLite {
		ui.Fail(a.opt.Err, fmt.Sprintf("migrate: the %s driver has no schema", a.cfg.Store.Driver))
		return failed(exitUsage)
	}
	d, err := db.Connect(a.cfg.Store.Path)
	if err != nil {
		ui.Fail(a.opt.Err, "migrate: "+err.Error())
		return failed(exitFailure)
	}
	defer func() { _ = d.Close() }()

	if err := fn(d); err != nil {
		a.log.Error("migrate", logger.String("path", a.cfg.Store.Path), logger.Error(err))
		ui.Fail(a.opt.Err, "migrate: "+err.Error())
		return failed(exitFailure)
	}
	return nil
}

func (a *app) reportVersion(d *sql.DB, verb string) error {
	version, dirty, err := db.Version(d)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("%s: version %d", verb, version)
	if dirty {
		msg += " (dirty)"
	}
	ui.OK(a.opt.Out, msg)
	return nil
}

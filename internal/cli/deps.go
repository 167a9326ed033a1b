package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/controller"
	"github.com/idilsaglam/todolist/internal/db"
	"github.com/idilsaglam/todolist/internal/logger"
	"github.com/idilsaglam/todolist/internal/store/jsonstore"
	"github.com/idilsaglam/todolist/internal/store/sqlstore"
	"github.com/idilsaglam/todolist/internal/ui"
)

// annotationNoStore marks commands that manage the store themselves.
const annotationNoStore = "todo/no-store"

type rootFlags struct {
	configPath string
	driver     string
	path       string
	keepFilter bool
	theme      string
	logLevel   string
}

type itemStore interface {
	controller.ItemStore
	Close() error
}

// app holds what subcommands share. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	opt   Options
	flags rootFlags

	cfg   *config.Config
	log   logger.Logger
	store itemStore
	list  *controller.List
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		ui.Fail(a.opt.Err, "config: "+err.Error())
		return failed(exitFailure)
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		if cfg.Store.Path == config.DefaultPath(cfg.Store.Driver) {
			// Let the new driver pick its own default file.
			cfg.Store.Path = ""
		}
		cfg.Store.Driver = a.flags.driver
	}
	if flags.Changed("path") {
		cfg.Store.Path = a.flags.path
	}
	if flags.Changed("keep-filter") {
		cfg.List.KeepFilterOnAdd = a.flags.keepFilter
	}
	if flags.Changed("theme") {
		cfg.UI.Theme = a.flags.theme
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.flags.logLevel
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		ui.Fail(a.opt.Err, "config: "+err.Error())
		return failed(exitUsage)
	}

	ui.SetTheme(cfg.UI.Theme)
	a.cfg = cfg
	return a.newLogger(cmd)
}

func (a *app) newLogger(cmd *cobra.Command) error {
	lc := logger.Config{Level: a.cfg.Log.Level}
	if a.cfg.Log.File != "" {
		lc.OutputPaths = []string{a.cfg.Log.File}
	} else if cmd.Name() == "ui" {
		// The screen owns the terminal.
		a.log = logger.NewNop()
		return nil
	}
	log, err := logger.New(lc)
	if err != nil {
		ui.Fail(a.opt.Err, "logger: "+err.Error())
		return failed(exitFailure)
	}
	a.log = log.With(logger.String("command", cmd.Name()))
	return nil
}

// open loads config and connects the configured store and controller.
func (a *app) open(cmd *cobra.Command) error {
	if err := a.loadConfig(cmd); err != nil {
		return err
	}

	s, err := openStore(a.cfg.Store)
	if err != nil {
		a.log.Error("open store", logger.String("driver", a.cfg.Store.Driver), logger.Error(err))
		ui.Fail(a.opt.Err, "open: "+err.Error())
		return failed(exitFailure)
	}
	a.store = s
	a.list = controller.NewList(s, a.log, controller.KeepFilterOnAdd(a.cfg.List.KeepFilterOnAdd))
	return nil
}

func openStore(cfg config.StoreConfig) (itemStore, error) {
	switch cfg.Driver {
	case config.DriverJSON:
		return jsonstore.New(cfg.Path), nil
	case config.DriverSQLite:
		d, err := db.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return sqlstore.NewItemStore(d), nil
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil && a.log != nil {
			a.log.Warn("close store", logger.Error(err))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

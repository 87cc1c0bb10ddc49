package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smith3v/impostor/pkg/config"
	"github.com/smith3v/impostor/pkg/db"
	"github.com/smith3v/impostor/pkg/logger"
	"github.com/smith3v/impostor/pkg/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// app carries the global flags and the store opened for the running
// subcommand.
type app struct {
	configFile string
	dbPath     string
	logLevel   string

	gdb   *gorm.DB
	store *store.Store
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "impostor",
		Short:         "A pass-the-device word game: find the impostor who doesn't know the secret word.",
		Args:          cobra.NoArgs,
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	fs := cmd.PersistentFlags()
	fs.StringVarP(&a.configFile, "config", "c", "", "path to a JSON config file (env: IMPOSTOR_CONFIG)")
	fs.StringVar(&a.dbPath, "db", "", "sqlite database file, overrides database.path (env: IMPOSTOR_DB)")
	fs.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error, overrides logging.level (env: IMPOSTOR_LOG_LEVEL)")
	bindEnv(fs)

	cmd.AddCommand(
		newCategoryCmd(a),
		newWordCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newPlayCmd(a),
		newBotCmd(a),
	)

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("impostor v{{.Version}}\n")

	return cmd
}

// bindEnv lets IMPOSTOR_<FLAG> fill any flag the user did not pass.
func bindEnv(fs *pflag.FlagSet) {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func (a *app) open(cmd *cobra.Command) error {
	if err := config.LoadConfig(a.configFile); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.dbPath != "" {
		config.AppConfig.Database.Driver = "sqlite"
		config.AppConfig.Database.Path = a.dbPath
	}
	level := config.AppConfig.Logging.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	if err := logger.Configure(logger.Options{
		Level:  level,
		File:   config.AppConfig.Logging.File,
		Output: cmd.ErrOrStderr(),
	}); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	gdb, err := db.InitDB(config.AppConfig.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.gdb = gdb
	a.store = store.New(gdb)
	return nil
}

func (a *app) close() error {
	if a.gdb == nil {
		return nil
	}
	sqlDB, err := a.gdb.DB()
	if err != nil {
		return err
	}
	a.gdb, a.store = nil, nil
	return sqlDB.Close()
}

// outcome turns a store error into the reason-coded failure shown to users.
func outcome(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", store.Reason(err), err)
}

func parseID(value string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return uint(id), nil
}

// Package commands implements the recordctl command tree.
package commands

import (
	"database/sql"

	"github.com/friendsofgo/errors"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	_ "modernc.org/sqlite"

	"github.com/nrfta/records-paging/internal/config"
	"github.com/nrfta/records-paging/resource"
)

// app carries state shared by subcommands once flags are parsed.
type app struct {
	v      *viper.Viper
	config *config.Config
	log    *logrus.Logger
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New()}
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "recordctl",
		Short:         "List laboratory records with offset or keyset pagination",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.v, configPath)
			if err != nil {
				return err
			}
			a.config = cfg
			a.log = cfg.Logger(cmd.ErrOrStderr())
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (yaml, toml or json)")
	flags.String("driver", "", "database driver: sqlite or postgres")
	flags.String("dsn", "", "database connection string")
	flags.String("log-level", "", "log level")
	flags.Bool("strict-cursor", false, "reject malformed cursors instead of restarting")
	for key, flag := range map[string]string{
		"database.driver":      "driver",
		"database.dsn":         "dsn",
		"log.level":            "log-level",
		"paging.strict_cursor": "strict-cursor",
	} {
		// BindPFlag only fails for a nil flag.
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(
		newListCommand(a),
		newFieldsCommand(),
		newResourcesCommand(),
	)

	return rootCmd
}

// open connects to the configured database.
func (a *app) open() (*sql.DB, error) {
	driver := "sqlite"
	if a.config.Database.Driver == config.DriverPostgres {
		driver = "postgres"
	}
	db, err := sql.Open(driver, a.config.Database.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", a.config.Database.Driver)
	}
	return db, nil
}

func lookupResource(name string) (*resource.Definition, error) {
	def, ok := resource.Lookup(name)
	if !ok {
		return nil, errors.Errorf("unknown resource %q, see recordctl resources", name)
	}
	return def, nil
}

// Package app implements the sourcectl commands.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	pgRepo "github.com/Nike1016/selfoss/internal/infra/adapter/persistence/postgres"
	sqliteRepo "github.com/Nike1016/selfoss/internal/infra/adapter/persistence/sqlite"
	"github.com/Nike1016/selfoss/internal/infra/db"
	"github.com/Nike1016/selfoss/internal/domain/spout"
	srcUC "github.com/Nike1016/selfoss/internal/usecase/source"
)

// cli carries the configuration shared by all commands of one invocation.
type cli struct {
	v   *viper.Viper
	out io.Writer
}

// NewRootCmd builds the sourcectl command tree writing results to out.
//
// Every flag can also be set through the environment (--database-url as
// DATABASE_URL) or a YAML file given with --config.
func NewRootCmd(out io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), out: out}
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "sourcectl",
		Short:         "Manage selfoss feed sources",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.loadConfigFile()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a YAML configuration file")
	flags.String("db-driver", string(db.DialectPostgres), "Database driver: pgx or sqlite")
	flags.String("database-url", "", "Postgres connection URL")
	flags.String("sqlite-path", "data/selfoss.db", "SQLite database file")
	flags.String("spouts-file", "", "YAML file with additional spout definitions")
	flags.StringP("output", "o", "table", "Output format: table or json")
	for _, name := range []string{"config", "db-driver", "database-url", "sqlite-path", "spouts-file", "output"} {
		if err := c.v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(
		c.newMigrateCmd(),
		c.newSpoutsCmd(),
		c.newListCmd(),
		c.newGetCmd(),
		c.newAddCmd(),
		c.newEditCmd(),
		c.newDeleteCmd(),
		c.newSetErrorCmd(),
		c.newValidateCmd(),
	)
	return root
}

func (c *cli) loadConfigFile() error {
	path := c.v.GetString("config")
	if path == "" {
		return nil
	}
	c.v.SetConfigFile(path)
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

func (c *cli) dbConfig() (db.Config, error) {
	dialect, err := db.ParseDialect(c.v.GetString("db-driver"))
	if err != nil {
		return db.Config{}, err
	}
	cfg := db.Config{Dialect: dialect, Pool: db.DefaultConnectionConfig()}
	switch dialect {
	case db.DialectPostgres:
		cfg.DSN = c.v.GetString("database-url")
		if cfg.DSN == "" {
			return db.Config{}, fmt.Errorf("--database-url (or DATABASE_URL) is required for %s", dialect)
		}
	case db.DialectSQLite:
		cfg.DSN = c.v.GetString("sqlite-path")
	}
	return cfg, nil
}

func (c *cli) openDB(ctx context.Context) (*sql.DB, db.Config, error) {
	cfg, err := c.dbConfig()
	if err != nil {
		return nil, db.Config{}, err
	}
	conn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, db.Config{}, err
	}
	return conn, cfg, nil
}

func (c *cli) registry() (*spout.StaticRegistry, error) {
	return spout.NewRegistry(c.v.GetString("spouts-file"))
}

// withService opens the database, runs fn and closes the database again.
func (c *cli) withService(ctx context.Context, fn func(svc *srcUC.Service) error) error {
	reg, err := c.registry()
	if err != nil {
		return err
	}
	conn, cfg, err := c.openDB(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	svc := &srcUC.Service{Spouts: reg}
	if cfg.Dialect == db.DialectPostgres {
		svc.Repo = pgRepo.NewSourceRepo(db.WrapX(conn, cfg.Dialect))
	} else {
		svc.Repo = sqliteRepo.NewSourceRepo(conn)
	}
	return fn(svc)
}

func (c *cli) jsonOutput() bool {
	return c.v.GetString("output") == "json"
}

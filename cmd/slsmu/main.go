package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
	"github.com/sanity-io/litter"
	"github.com/sirupsen/logrus"
	"github.com/slsmu/slsmu/internal/database"
	"github.com/slsmu/slsmu/internal/model"
	"github.com/slsmu/slsmu/internal/server"
	"github.com/slsmu/slsmu/internal/server/serializer"
	"github.com/slsmu/slsmu/internal/server/service"
	"github.com/slsmu/slsmu/internal/server/session"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	dbname    = "slsmu.db"
	envPrefix = "SLSMU_"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg     string
	role    string
	verbose bool
)

func main() {
	c := &coral.Command{
		Use:     "slsmu",
		Short:   "Accounts and contents server",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    coral.ExactArgs(0),
	}
	c.PersistentFlags().StringVarP(&cfg, "config", "c", "", "Configuration file")

	c.AddCommand(initCmd)
	c.AddCommand(reindexCmd)
	c.AddCommand(serverCmd)

	adduserCmd.Flags().StringVarP(&role, "role", "r", string(model.RoleUser), "Role of the account (admin or user)")
	c.AddCommand(adduserCmd)

	c.AddCommand(rmuserCmd)

	lsusersCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Dump the whole records")
	c.AddCommand(lsusersCmd)

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

// load reads the configuration from defaults, the configuration file and the environment.
// e.g. SLSMU_TOKEN__SECRET overrides token.secret
func load() (*koanf.Koanf, error) {
	konf := koanf.New(".")

	err := konf.Load(confmap.Provider(map[string]any{
		"address":         "localhost:5000",
		"database_codec":  "",
		"token.format":    session.FormatJWT,
		"token.issuer":    session.DefaultIssuer,
		"token.ttl":       "24h",
		"log.level":       "info",
		"log.format":      "text",
		"log.max_size":    20, // megabytes
		"log.max_backups": 2,
		"log.max_age":     10, // days
	}, "."), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load defaults")
	}

	if cfg != "" {
		if err := konf.Load(file.Provider(cfg), yaml.Parser()); err != nil {
			return nil, errors.Wrap(err, "could not load configuration file")
		}
	}

	err = konf.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
	return konf, errors.Wrap(err, "could not load environment")
}

func setupLogger(konf *koanf.Koanf) error {
	level, err := logrus.ParseLevel(konf.String("log.level"))
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	if konf.String("log.format") == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if filename := konf.String("log.file"); filename != "" {
		logrus.SetOutput(&lumberjack.Logger{
			Filename:   filename,
			MaxSize:    konf.Int("log.max_size"),
			MaxBackups: konf.Int("log.max_backups"),
			MaxAge:     konf.Int("log.max_age"),
		})
	}
	return nil
}

func dbnameWithPath(path string) string {
	if len(path) == 0 {
		return dbname
	}
	return filepath.Join(path, dbname)
}

func open(konf *koanf.Koanf) (database.Client, error) {
	db, err := database.StormOpen(dbnameWithPath(konf.String("database_path")), konf.String("database_codec"))
	return db, errors.Wrap(err, "could not open database")
}

var (
	initCmd = &coral.Command{
		Use:   "init",
		Short: "Init the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			return database.StormInit(dbnameWithPath(konf.String("database_path")), konf.String("database_codec"))
		},
	}

	//
	reindexCmd = &coral.Command{
		Use:   "reindex",
		Short: "Reindex the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			return database.StormReIndex(dbnameWithPath(konf.String("database_path")), konf.String("database_codec"))
		},
	}

	//
	adduserCmd = &coral.Command{
		Use:   "adduser EMAIL PASSWORD",
		Short: "Add an account to the database",
		Args:  coral.ExactArgs(2),
		RunE: func(_ *coral.Command, args []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			r, err := model.ParseRole(role)
			if err != nil {
				return err
			}

			db, err := open(konf)
			if err != nil {
				return err
			}
			defer db.Close()

			account, err := service.CreateAccount(db, args[0], args[1], r)
			if err != nil {
				return err
			}

			fmt.Printf("Account %s added with role %s\n", account.Email, account.Role)
			return nil
		},
	}

	//
	rmuserCmd = &coral.Command{
		Use:   "rmuser EMAIL",
		Short: "Remove an account and its contents from the database",
		Args:  coral.ExactArgs(1),
		RunE: func(_ *coral.Command, args []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			db, err := open(konf)
			if err != nil {
				return err
			}
			defer db.Close()

			// Fetch account
			account, err := db.FindAccount(args[0])
			if err != nil {
				if db.IsNotFound(err) {
					fmt.Println("No account for this email")
					return nil
				}
				return err
			}

			// Deleting account's contents
			if err = db.DeleteContentsByOwner(account.Email); err != nil {
				return err
			}
			fmt.Println("Contents removed")

			// Delete account
			if err = db.Delete(account); err != nil {
				return err
			}
			fmt.Println("Account removed")

			return nil
		},
	}

	//
	lsusersCmd = &coral.Command{
		Use:   "lsusers",
		Short: "List the accounts of the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			db, err := open(konf)
			if err != nil {
				return err
			}
			defer db.Close()

			accounts, err := db.FindAccounts()
			if err != nil {
				return err
			}

			for _, account := range accounts {
				if verbose {
					fmt.Println(litter.Sdump(serializer.Account(account)))
					continue
				}
				fmt.Printf("%-6s %s\n", account.Role, account.Email)
			}
			return nil
		},
	}

	//
	//
	serverCmd = &coral.Command{
		Use:   "server",
		Short: "Start server",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			if err = setupLogger(konf); err != nil {
				return errors.Wrap(err, "could not setup logger")
			}

			tokens, err := session.NewTokenService(session.TokenConfig{
				Format: konf.String("token.format"),
				Secret: konf.Bytes("token.secret"),
				Issuer: konf.String("token.issuer"),
				TTL:    konf.Duration("token.ttl"),
			})
			if err != nil {
				return err
			}

			db, err := open(konf)
			if err != nil {
				return err
			}
			defer db.Close()

			engine := server.EchoEngine(server.IOC{
				Version:  version,
				Database: db,
				Tokens:   tokens,
			})
			server.PrintRoutes(engine)

			address := konf.String("address")
			message := "could not run server"
			logrus.Infof("Server listening on %s", address)
			parts := strings.Split(address, ":")
			if len(parts) == 2 && parts[0] == "unix" {
				socketFile := parts[1]
				if _, err := os.Stat(socketFile); err == nil {
					logrus.Infof("Removing existing %s", socketFile)
					os.Remove(socketFile)
				}
				defer os.Remove(socketFile)
				listener, err := net.Listen(parts[0], socketFile)
				if err != nil {
					return err
				}
				return errors.Wrap(engine.Server.Serve(listener), message)
			}
			return errors.Wrap(engine.Start(address), message)
		},
	}
)

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yigit/vitrine/internal/app/repositories"
	"github.com/yigit/vitrine/internal/bootstrap"
	"github.com/yigit/vitrine/internal/config"
	"github.com/yigit/vitrine/internal/pkg/auth"
	"github.com/yigit/vitrine/internal/pkg/logger"
	"github.com/yigit/vitrine/internal/server"
)

// @title Vitrine API
// @version 1.0
// @description JSON endpoints of the Vitrine student project portal

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	app := &cli.App{
		Name:  "vitrine",
		Usage: "student project showcase",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations and exit",
				Action: migrate,
			},
			{
				Name:   "create-admin",
				Usage:  "apply migrations and make sure the admin account exists",
				Action: createAdmin,
			},
			{
				Name:      "hash-password",
				Usage:     "print the bcrypt hash of a password, for admin.password_hash",
				ArgsUsage: "<password>",
				Action:    hashPassword,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, _, err := bootstrap.LoadConfigAndSetupLogger(config.ResolvePath(c.String("config")))
	return cfg, err
}

func serve(c *cli.Context) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(config.ResolvePath(c.String("config")))
	if err != nil {
		return err
	}

	srv, err := server.NewServer(cfg, lgr)
	if err != nil {
		return err
	}
	if err := srv.Run(); err != nil {
		return err
	}

	lgr.Info().Msg("Application finished gracefully.")
	return nil
}

func migrate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	database, err := bootstrap.SetupDatabase(c.Context, cfg, logger.Get())
	if err != nil {
		return err
	}
	database.Close()
	return nil
}

func createAdmin(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	lgr := logger.Get()

	database, err := bootstrap.SetupDatabase(c.Context, cfg, lgr)
	if err != nil {
		return err
	}
	defer database.Close()

	created, err := bootstrap.SeedAdmin(c.Context, cfg, repositories.NewRepositories(database.Pool), lgr)
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(c.App.Writer, "admin %s created\n", cfg.Admin.Email)
	} else {
		fmt.Fprintf(c.App.Writer, "admin %s already exists\n", cfg.Admin.Email)
	}
	return nil
}

func hashPassword(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: vitrine hash-password <password>", 2)
	}

	hash, err := auth.HashPassword(c.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, hash)
	return nil
}

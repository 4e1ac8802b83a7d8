package main

import (
	"fmt"
	"log"
	"os"

	"github.com/darkside779/attendance/foundation/web"
	"github.com/darkside779/attendance/internal/auth"
	"github.com/darkside779/attendance/internal/commands"
	"github.com/darkside779/attendance/internal/pkg/config"
	"github.com/darkside779/attendance/internal/pkg/repository/postgresql"
	"github.com/darkside779/attendance/internal/router"

	"github.com/ardanlabs/conf"
	"github.com/redis/go-redis/v9"
)

var build = "develop"

func main() {
	if err := run(); err != nil {
		log.Fatalln("startup error:", err)
	}
}

func run() error {
	// Environment and flag overrides on top of config.yaml. ATTENDANCE_PORT=9090
	// or --port 9090 both work.
	var flags struct {
		conf.Version
		Port    string `conf:"help:override listen port"`
		Migrate bool   `conf:"default:true,help:apply schema migrations at startup"`
	}
	flags.Version.SVN = build
	flags.Version.Desc = "employee attendance and payroll backend"

	if err := conf.Parse(os.Args[1:], "ATTENDANCE", &flags); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage("ATTENDANCE", &flags)
			if err != nil {
				return err
			}
			fmt.Println(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString("ATTENDANCE", &flags)
			if err != nil {
				return err
			}
			fmt.Println(version)
			return nil
		}
		return err
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	if flags.Port != "" {
		cfg.Port = flags.Port
	}

	postgresDB := postgresql.NewDB(cfg)
	defer postgresDB.Close()

	if flags.Migrate {
		commands.MigrateUP(postgresDB)
	}

	redisDB := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisDB.Close()

	authenticator, err := auth.New(cfg.PrivatePEM)
	if err != nil {
		return err
	}

	app := web.NewApp()

	log.Println("listening on port", cfg.Port)

	return router.NewRouter(app, postgresDB, redisDB, cfg, authenticator).Init()
}

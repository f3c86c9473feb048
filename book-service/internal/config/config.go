package config

import (
	"cmp"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/azaliaz/bookshelf/book-service/internal/domain/consts"
)

const (
	defaultAddr        = "0.0.0.0"
	defaultPort        = 3000
	defaultMigratePath = "migrations"
)

type Config struct {
	Addr          string
	Port          int
	Debug         bool
	DBDsn         string
	MigratePath   string
	JWTSecret     string
	RedisAddr     string
	ActivityLimit int
}

func ReadConfig() (*Config, error) {
	return parse(os.Args[1:], os.Getenv)
}

func parse(args []string, getenv func(string) string) (*Config, error) {
	var host, dbDsn, migratePath, jwtSecret, redisAddr string
	var port, activityLimit int
	var debug bool

	fs := flag.NewFlagSet("book-service", flag.ContinueOnError)
	fs.StringVar(&host, "addr", defaultAddr, "flag to set the server startup host")
	fs.IntVar(&port, "port", defaultPort, "flag to set the server startup port")
	fs.BoolVar(&debug, "debug", false, "flag to set Debug logger level")
	fs.StringVar(&dbDsn, "db", "", "database connection addres, in-memory storage when empty")
	fs.StringVar(&migratePath, "m", defaultMigratePath, "path to migrations")
	fs.StringVar(&jwtSecret, "jwt-secret", "", "secret guarding mutating routes, disabled when empty")
	fs.StringVar(&redisAddr, "redis", "", "redis address for the activity log")
	fs.IntVar(&activityLimit, "activity-limit", consts.DefaultActivityLimit, "requests kept per user in the activity log")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	host = cmp.Or(getenv("SERVER_HOST"), host)
	var err error
	if port, err = intFromEnv(getenv("PORT"), port); err != nil {
		return nil, fmt.Errorf("PORT: %w", err)
	}
	if activityLimit, err = intFromEnv(getenv("ACTIVITY_LIMIT"), activityLimit); err != nil {
		return nil, fmt.Errorf("ACTIVITY_LIMIT: %w", err)
	}
	if v := getenv("DEBUG"); v != "" {
		if debug, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("DEBUG: %w", err)
		}
	}

	return &Config{
		Addr:          fmt.Sprintf("%s:%d", host, port),
		Port:          port,
		Debug:         debug,
		DBDsn:         cmp.Or(getenv("DB_DSN"), dbDsn),
		MigratePath:   cmp.Or(getenv("MIGRATE_PATH"), migratePath),
		JWTSecret:     cmp.Or(getenv("JWT_SECRET"), jwtSecret),
		RedisAddr:     cmp.Or(getenv("REDIS_ADDR"), redisAddr),
		ActivityLimit: activityLimit,
	}, nil
}

func intFromEnv(v string, def int) (int, error) {
	return strconv.Atoi(cmp.Or(v, strconv.Itoa(def)))
}

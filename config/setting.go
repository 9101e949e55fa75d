package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type serverConfig struct {
	Port        int    `koanf:"port" validate:"required"`
	Mode        string `koanf:"mode" validate:"required"`
	Concurrency int    `koanf:"concurrency"`
	BodyLimit   int    `koanf:"body_limit"`
	AppName     string `koanf:"app_name" validate:"required"`
}

type logLevel string

const (
	Debug logLevel = "debug"
	Info  logLevel = "info"
	Warn  logLevel = "warn"
	Error logLevel = "error"
	Fatal logLevel = "fatal"
	Panic logLevel = "panic"
)

type Module string

const (
	ModuleSearch   Module = "search"
	ModuleDatabase Module = "database"
	ModuleServer   Module = "server"
	ModuleSetting  Module = "setting"
	ModuleListing  Module = "listing"
	ModuleHealth   Module = "health"
)

type databaseConfig struct {
	Host         string `koanf:"host" validate:"required"`
	Port         int    `koanf:"port" validate:"required"`
	User         string `koanf:"user" validate:"required"`
	Password     string `koanf:"password"`
	Name         string `koanf:"name" validate:"required"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"`
}

// searchConfig is forwarded to the search engine client. Every knob is a
// passthrough: hosts feed the connection pool, indexes resolve which index a
// doc type targets (the "default" entry is mandatory), retries apply only to
// timeouts, and dump_file appends each outgoing request body for offline
// inspection.
type searchConfig struct {
	Disabled             bool              `koanf:"disabled"`
	Hosts                []string          `koanf:"hosts" validate:"required,min=1"`
	Indexes              map[string]string `koanf:"indexes" validate:"required"`
	TimeoutSeconds       float64           `koanf:"timeout_seconds"`
	RetryCount           int               `koanf:"retry_count"`
	RetryIntervalSeconds float64           `koanf:"retry_interval_seconds"`
	DumpFile             string            `koanf:"dump_file"`
	StatsdAddr           string            `koanf:"statsd_addr"`
}

type config struct {
	Server   serverConfig   `koanf:"server"`
	Database databaseConfig `koanf:"database"`
	Search   searchConfig   `koanf:"search"`
	LogLevel logLevel       `koanf:"log_level"`
	Dns      string         `koanf:"dns"`
}

func buildMySQLDSN(cfg databaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)
}

var defaultConfig = config{
	Server: serverConfig{
		Port:    8000,
		Mode:    "release",
		AppName: "searchkit",
	},
	Database: databaseConfig{
		Host:         "127.0.0.1",
		Port:         3306,
		User:         "root",
		Password:     "",
		Name:         "searchkit",
		MaxIdleConns: 5,
		MaxOpenConns: 20,
		MaxLifetime:  30,
	},
	Search: searchConfig{
		Disabled:             false,
		Hosts:                []string{"http://127.0.0.1:9200"},
		Indexes:              map[string]string{"default": "listings", "listing": "listings"},
		TimeoutSeconds:       5,
		RetryCount:           2,
		RetryIntervalSeconds: 0.5,
	},
	LogLevel: Info,
}

var (
	Cfg  = defaultConfig
	once sync.Once
)

func init() {
	path := "config.yaml"

	once.Do(func() {
		k := koanf.New(".")

		validate := validator.New()
		// defaults
		Cfg = defaultConfig

		// file
		if e := k.Load(file.Provider(path), yaml.Parser()); e != nil && !errors.Is(e, os.ErrNotExist) {
			return
		}

		// env APP_SEARCH_DISABLED
		if e := k.Load(env.Provider("APP_", ".", func(s string) string {
			return strings.ToLower(strings.TrimPrefix(s, "APP_"))
		}), nil); e != nil {
			return
		}

		// bind
		if e := k.Unmarshal("", &Cfg); e != nil {
			log.Errorf("failed to unmarshal config: %v", e)
		}

		if Cfg.Dns == "" {
			Cfg.Dns = buildMySQLDSN(Cfg.Database)
		}

		// Every lookup for an unmapped doc type falls back to the default
		// index, so the mapping must always carry one.
		if _, ok := Cfg.Search.Indexes["default"]; !ok {
			log.Errorf("%v: search.indexes is missing the required default entry", ModuleSetting)
		}

		// validate config
		if err := validate.Struct(Cfg); err != nil {
			if errs, ok := err.(validator.ValidationErrors); ok {
				var sb strings.Builder
				sb.WriteString(fmt.Sprintf("%v Config validation failed:\n", ModuleSetting))

				for _, e := range errs {
					sb.WriteString(
						fmt.Sprintf("  - %s: failed '%s' (value: %v)\n", e.Field(), e.Tag(), e.Value()),
					)
				}

				log.Error(sb.String())
			} else {
				log.Errorf("config validation failed: %v", err)
			}
		}
	})

}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/smith3v/impostor/pkg/logger"
	"github.com/spf13/viper"
)

const EnvPrefix = "IMPOSTOR"

type Config struct {
	Database DatabaseConfig `json:"database" mapstructure:"database"`
	Telegram TelegramConfig `json:"telegram" mapstructure:"telegram"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
	Game     GameSettings   `json:"game" mapstructure:"game"`
}

// DatabaseConfig selects the backing store. The local sqlite file is the
// default; postgres is accepted for hosted bot deployments.
type DatabaseConfig struct {
	Driver   string `json:"driver" mapstructure:"driver"`
	Path     string `json:"path" mapstructure:"path"`
	Host     string `json:"host" mapstructure:"host"`
	User     string `json:"user" mapstructure:"user"`
	Password string `json:"password" mapstructure:"password"`
	DBName   string `json:"dbname" mapstructure:"dbname"`
	Port     int    `json:"port" mapstructure:"port"`
	SSLMode  string `json:"sslmode" mapstructure:"sslmode"`
}

type TelegramConfig struct {
	Token string `json:"token" mapstructure:"token"`
}

type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	GormLevel string `json:"gorm_level" mapstructure:"gorm_level"`
}

// GameSettings holds the user-facing strings the generator and the store
// fall back to.
type GameSettings struct {
	ImposterMarker string `json:"imposter_marker" mapstructure:"imposter_marker"`
	DefaultHint    string `json:"default_hint" mapstructure:"default_hint"`
	DefaultIcon    string `json:"default_icon" mapstructure:"default_icon"`
}

var AppConfig = Default()

func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Driver:  "sqlite",
			Path:    "impostor.db",
			Port:    5432,
			SSLMode: "disable",
		},
		Logging: LoggingConfig{
			Level:     "info",
			GormLevel: "warn",
		},
		Game: GameSettings{
			ImposterMarker: "You are the IMPOSTOR",
			DefaultHint:    "No hint available",
			DefaultIcon:    "list",
		},
	}
}

// LoadConfig reads filename (JSON) when given, applies IMPOSTOR_* environment
// overrides on top of the defaults and stores the result in AppConfig.
func LoadConfig(filename string) error {
	v := newViper()

	if strings.TrimSpace(filename) != "" {
		v.SetConfigFile(filename)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			logger.Error("failed to read config file", "file", filename, "error", err)
			return err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Error("failed to decode config", "error", err)
		return err
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		return err
	}

	AppConfig = cfg
	return nil
}

func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Database.Driver) {
	case "sqlite":
		if strings.TrimSpace(c.Database.Path) == "" {
			errs = append(errs, errors.New("database.path is required for the sqlite driver"))
		}
	case "postgres":
		if strings.TrimSpace(c.Database.Host) == "" || strings.TrimSpace(c.Database.DBName) == "" {
			errs = append(errs, errors.New("database.host and database.dbname are required for the postgres driver"))
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Errorf("invalid database.port (must be between 1-65535 inclusive): %d", c.Database.Port))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported database.driver %q", c.Database.Driver))
	}
	if strings.TrimSpace(c.Game.ImposterMarker) == "" {
		errs = append(errs, errors.New("game.imposter_marker must not be empty"))
	}
	return errors.Join(errs...)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv picks it up during Unmarshal.
	d := Default()
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.user", d.Database.User)
	v.SetDefault("database.password", d.Database.Password)
	v.SetDefault("database.dbname", d.Database.DBName)
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.sslmode", d.Database.SSLMode)
	v.SetDefault("telegram.token", d.Telegram.Token)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.gorm_level", d.Logging.GormLevel)
	v.SetDefault("game.imposter_marker", d.Game.ImposterMarker)
	v.SetDefault("game.default_hint", d.Game.DefaultHint)
	v.SetDefault("game.default_icon", d.Game.DefaultIcon)
	return v
}

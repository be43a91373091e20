package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     uint   `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DbName   string `json:"db_name"`
}

func (p PostgresConfig) DbUrl() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		p.User, p.Password, p.Host, p.Port, p.DbName,
	)
}

type SqliteConfig struct {
	Path string `json:"path"`
}

type DatabaseConfig struct {
	Driver   string         `json:"driver"`
	Sqlite   SqliteConfig   `json:"sqlite"`
	Postgres PostgresConfig `json:"postgres"`
}

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil
	default:
		return errors.New("invalid duration")
	}
}

type JwtConfig struct {
	TokenLifetime  Duration `json:"token_lifetime"`
	PrivateKeyPath string   `json:"private_key_path"`
	PublicKeyPath  string   `json:"public_key_path"`
}

type Config struct {
	Mode     string         `json:"mode"`
	Addr     string         `json:"addr"`
	Domain   string         `json:"domain"`
	LogFile  string         `json:"log_file"`
	Database DatabaseConfig `json:"database"`
	Jwt      JwtConfig      `json:"jwt"`
}

func Load(path string) (*Config, error) {
	configBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}
	var c Config
	if err := json.Unmarshal(configBytes, &c); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSqlite
	}
	if c.Database.Driver != DriverSqlite && c.Database.Driver != DriverPostgres {
		return nil, fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	return &c, nil
}

func (c Config) Development() bool {
	return c.Mode == "development"
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":               c.Mode,
		"addr":               c.Addr,
		"domain":             c.Domain,
		"log_file":           c.LogFile,
		"db_driver":          c.Database.Driver,
		"sqlite_path":        c.Database.Sqlite.Path,
		"pg_host":            c.Database.Postgres.Host,
		"pg_port":            c.Database.Postgres.Port,
		"pg_user":            c.Database.Postgres.User,
		"pg_db_name":         c.Database.Postgres.DbName,
		"jwt_token_lifetime": c.Jwt.TokenLifetime.Duration.String(),
		"jwt_private_key":    c.Jwt.PrivateKeyPath,
		"jwt_public_key":     c.Jwt.PublicKeyPath,
	}
}

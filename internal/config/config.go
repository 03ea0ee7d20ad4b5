package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `yaml:"env" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	Postgres   `yaml:"postgres"`
	Sessions   `yaml:"sessions"`
	Membership `yaml:"membership"`
	Admin      `yaml:"admin"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Postgres struct {
	Host     string `yaml:"host" env-default:"postgres"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-required:"true"`
	Password string `yaml:"password" env-required:"true"`
	DBName   string `yaml:"dbname" env-required:"true"`
	SSLMode  string `yaml:"sslmode" env-default:"disable"`
}

type Sessions struct {
	TTL          time.Duration `yaml:"ttl" env-default:"720h"`
	ReapInterval time.Duration `yaml:"reap_interval" env-default:"1h"`
}

type Membership struct {
	Passcode string `yaml:"passcode" env:"MEMBERSHIP_PASSCODE" env-required:"true"`
}

type Admin struct {
	// BootstrapEmail marks the one signup that is created with admin
	// privileges. Empty means no admin is ever created through signup.
	BootstrapEmail string `yaml:"bootstrap_email" env:"ADMIN_BOOTSTRAP_EMAIL"`
}

func MustLoad(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("Config file does not exist" + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("Failed to read config" + err.Error())
	}

	return &cfg
}

package main

import (
	"github.com/caarlos0/env/v11"
)

// Config is the server configuration, read from the environment after
// the optional .env file has been loaded.
type Config struct {
	Addr        string `env:"ADDR" envDefault:":8081"`
	DBDSN       string `env:"DB_DSN"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	JWTSecret   string `env:"JWT_SECRET" envDefault:"dev-insecure-secret-change"`
	UploadBase  string `env:"UPLOAD_BASE" envDefault:"uploads"`
}

func loadConfig() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

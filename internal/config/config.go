package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"golang.org/x/crypto/bcrypt"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort     string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL  string `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret    string `env:"JWT_SECRET,required,notEmpty"`
	BcryptCost   int    `env:"BCRYPT_COST,required,notEmpty"`
	ServiceName  string `env:"SERVICE_NAME" envDefault:"auth-api-service"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	TraceConsole bool   `env:"TRACE_CONSOLE" envDefault:"false"`
}

// LoadConfig carga la configuración desde variables de entorno y la valida
// al arranque: secreto y factor de trabajo son obligatorios, no fallas en runtime.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST %d fuera de rango [%d, %d]", cfg.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &cfg, nil
}

package config

import (
	"fmt"
	"time"

	env "github.com/Netflix/go-env"
)

type Config struct {
	Addr           string        `env:"CHAT_ADDR,default=:8080"`
	DatabasePath   string        `env:"CHAT_DATABASE_PATH,default=chat.db"`
	LogLevel       string        `env:"CHAT_LOG_LEVEL,default=info"`
	JWTSecret      string        `env:"CHAT_JWT_SECRET,required=true"`
	StoreTimeout   time.Duration `env:"CHAT_STORE_TIMEOUT,default=5s"`
	SendBufferSize int           `env:"CHAT_SEND_BUFFER_SIZE,default=256"`
}

func Load() (*Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}

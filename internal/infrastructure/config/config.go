package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is shared by all four services; each binary reads the sections it
// needs. PORT has no default because each service picks its own.
type Config struct {
	Port     string        `env:"PORT"`
	Env      string        `env:"ENV,       default=development"`
	LogLevel string        `env:"LOG_LEVEL, default=info"`
	TokenTTL time.Duration `env:"TOKEN_TTL, default=24h"`

	// JWTSecret is the token signing key. Only the auth service may read it;
	// downstream services delegate verification instead of holding the key.
	JWTSecret string `env:"JWT_SECRET"`

	// Peer service locations.
	AuthURL      string `env:"AUTH_URL,       default=http://127.0.0.1:8000"`
	UsersSyncURL string `env:"USERS_SYNC_URL, default=http://127.0.0.1:8001/sync_user"`
	ProductsURL  string `env:"PRODUCTS_URL,   default=http://127.0.0.1:8002"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	// Database has no default: each service owns its own database, there is
	// no shared store between them.
	Database string `env:"MONGO_DB"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
// defaultPort and defaultDatabase apply when PORT / MONGO_DB are unset.
func Load(defaultPort, defaultDatabase string) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = defaultDatabase
	}
	return &cfg
}

package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	LocalDBPath  string // sqlite file backing the local ledger
	RemoteDBURL  string // postgres URL of the central store; empty means offline
	Port         string
	IsProduction bool
	RunMigration bool // apply remote schema migrations on startup

	JWTSecret         string
	JWTExpiryDuration time.Duration

	SyncInterval    time.Duration
	SyncBatchSize   int
	SyncCallTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("LOCAL_DB_PATH", "pharmapos.db")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("RUN_MIGRATION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("SYNC_INTERVAL", "30s")
	viper.SetDefault("SYNC_BATCH_SIZE", 50)
	viper.SetDefault("SYNC_CALL_TIMEOUT", "10s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.LocalDBPath = viper.GetString("LOCAL_DB_PATH")

	cfg.RemoteDBURL = viper.GetString("PGSQL_URL")
	if cfg.RemoteDBURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Running offline; the outbox will accumulate until a remote is configured.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 12 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	syncIntervalStr := viper.GetString("SYNC_INTERVAL")
	syncInterval, err := time.ParseDuration(syncIntervalStr)
	if err != nil {
		syncInterval = 30 * time.Second
		log.Printf("Warning: Invalid value for SYNC_INTERVAL ('%s'). Defaulting to %s.\n", syncIntervalStr, syncInterval.String())
	}
	cfg.SyncInterval = syncInterval

	syncTimeoutStr := viper.GetString("SYNC_CALL_TIMEOUT")
	syncTimeout, err := time.ParseDuration(syncTimeoutStr)
	if err != nil {
		syncTimeout = 10 * time.Second
		log.Printf("Warning: Invalid value for SYNC_CALL_TIMEOUT ('%s'). Defaulting to %s.\n", syncTimeoutStr, syncTimeout.String())
	}
	cfg.SyncCallTimeout = syncTimeout

	cfg.SyncBatchSize = viper.GetInt("SYNC_BATCH_SIZE")
	if cfg.SyncBatchSize <= 0 {
		cfg.SyncBatchSize = 50
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.RunMigration = viper.GetBool("RUN_MIGRATION")

	return cfg, nil
}

package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Telegram TelegramConfig
	Game     GameConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// StorageConfig selects the repository backend
type StorageConfig struct {
	// Backend is "mongodb" or "memory". Memory keeps all state in-process and
	// is only suitable for development and tests.
	Backend string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration for the admin surface
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// AdminConfig holds the admin account credentials
type AdminConfig struct {
	Email        string
	PasswordHash string // bcrypt hash
}

// TelegramConfig holds bot and deposit configuration
type TelegramConfig struct {
	BotToken       string
	AdminChatID    string
	DepositAddress string
	MockBot        bool
}

// GameConfig holds the accrual engine constants
type GameConfig struct {
	AccrualInterval   time.Duration
	PointsPerInterval float64
	MaxRetries        int
	RetryDelay        time.Duration
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("Storage.Backend", "mongodb")
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "clicker")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Telegram.MockBot", false)
	viper.SetDefault("Game.AccrualInterval", "5m")
	viper.SetDefault("Game.PointsPerInterval", 1.0)
	viper.SetDefault("Game.MaxRetries", 3)
	viper.SetDefault("Game.RetryDelay", "100ms")
	viper.SetDefault("LogLevel", "info")
}

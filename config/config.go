package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Interview    Interview
	GeminiApiKey string
	ApiLayerKey  string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Interview holds settings for the interview session engine.
type Interview struct {
	SessionDir string // directory for session snapshot files
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SESSION_DIR", "sessions")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Interview.SessionDir = viper.GetString("SESSION_DIR")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.ApiLayerKey = viper.GetString("APILAYER_API_KEY")

	log.Info().Str("port", config.Server.Port).Str("sessionDir", config.Interview.SessionDir).Msg("Config loaded")
	return &config, nil
}

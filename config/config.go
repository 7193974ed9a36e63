package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

var config *viper.Viper

// Settings is the typed view of the merged configuration.
type Settings struct {
	Server   ServerSettings   `mapstructure:"server"`
	Database DatabaseSettings `mapstructure:"database"`
	Network  NetworkSettings  `mapstructure:"network"`
	Signing  SigningSettings  `mapstructure:"signing"`
	Log      LogSettings      `mapstructure:"log"`
}

type ServerSettings struct {
	Port         string   `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type DatabaseSettings struct {
	URL string `mapstructure:"url"`
}

type NetworkSettings struct {
	Passphrase string `mapstructure:"passphrase"`
	BaseFee    uint32 `mapstructure:"base_fee"`
}

// SigningSettings holds the secret seed used to sign composed
// transactions. An empty seed leaves envelopes unsigned.
type SigningSettings struct {
	Seed string `mapstructure:"seed"`
}

type LogSettings struct {
	Level string `mapstructure:"level"`
}

// Init is an exported method that takes the environment starts the viper
// (external lib) and returns the configuration struct.
func Init(env string) {
	if err := InitFrom("config/", env); err != nil {
		logrus.Fatal(err)
	}
}

// InitFrom reads default.yaml from dir, then merges the file selected by
// env over it. Values from the process environment (or a .env file in the
// working directory) win over both, e.g. DATABASE_URL overrides
// database.url.
func InitFrom(dir, env string) error {
	// A missing .env is the normal case outside development.
	_ = gotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("default")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error on parsing default configuration file: %w", err)
	}

	// Map environment names to config files
	configName := env
	switch env {
	case "development":
		configName = "testnet"
	case "production":
		configName = "mainnet"
	// Keep other environments as-is (e.g., "test")
	}

	envConfig := viper.New()
	envConfig.SetConfigType("yaml")
	envConfig.AddConfigPath(dir)
	envConfig.SetConfigName(configName)
	if err := envConfig.ReadInConfig(); err != nil {
		return fmt.Errorf("error on parsing %s configuration file: %w", configName, err)
	}
	if err := v.MergeConfigMap(envConfig.AllSettings()); err != nil {
		return fmt.Errorf("error on merging %s configuration file: %w", configName, err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("server.port", "PORT", "SERVER_PORT")

	config = v
	return nil
}

func GetConfig() *viper.Viper {
	return config
}

// Load returns the settings of the configuration read by Init.
func Load() (*Settings, error) {
	if config == nil {
		return nil, fmt.Errorf("configuration not initialised")
	}
	var s Settings
	if err := config.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	// Unmarshal only sees environment values for keys present in a file,
	// so read the overridable leaves directly.
	s.Server.Port = config.GetString("server.port")
	s.Database.URL = config.GetString("database.url")
	s.Signing.Seed = config.GetString("signing.seed")
	s.Log.Level = config.GetString("log.level")
	s.Network.Passphrase = config.GetString("network.passphrase")
	return &s, nil
}

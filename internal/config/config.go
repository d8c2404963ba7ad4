package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	// ProfilesFile and Profile select a named connection from a profiles file.
	// When Profile is empty the ws_* keys describe the connection instead.
	ProfilesFile string `mapstructure:"profiles_file"`
	Profile      string `mapstructure:"profile"`

	Scheme      string `mapstructure:"ws_scheme"`
	Host        string `mapstructure:"ws_host"`
	Port        string `mapstructure:"ws_port"`
	ServicePath string `mapstructure:"ws_service_path"`
	Username    string `mapstructure:"ws_username"`
	Password    string `mapstructure:"ws_password"`

	RequestMethod     string        `mapstructure:"request_method"`
	RequestURL        string        `mapstructure:"request_url"`
	RequestTimeoutMS  int64         `mapstructure:"request_timeout_ms"`
	RequestTimeout    time.Duration `mapstructure:"-"`
	RequestVerifyTLS  bool          `mapstructure:"request_verify_tls"`
	ResponseEvaluator string        `mapstructure:"response_evaluator"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_name", "wsinvoke")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("profiles_file", "./configs/profiles.yaml")
	v.SetDefault("profile", "")
	v.SetDefault("ws_scheme", "https")
	v.SetDefault("ws_host", "")
	v.SetDefault("ws_port", "443")
	v.SetDefault("ws_service_path", "")
	v.SetDefault("ws_username", "")
	v.SetDefault("ws_password", "")
	v.SetDefault("request_method", "GET")
	v.SetDefault("request_url", "")
	v.SetDefault("request_timeout_ms", 0) // no deadline
	v.SetDefault("request_verify_tls", false)
	v.SetDefault("response_evaluator", "none")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.RequestTimeoutMS < 0 {
		return nil, fmt.Errorf("invalid request_timeout_ms (must not be negative)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutMS) * time.Millisecond

	return &cfg, nil
}

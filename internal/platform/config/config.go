// Package config はサーバー全体の設定をYAMLファイルと環境変数から読み込みます。
// DB・Redis・各データ提供元の接続情報はそれぞれのパッケージのLoadConfigで読み込みます。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvConfigFile は設定ファイルのパスを指定する環境変数です。
const EnvConfigFile = "CONFIG_FILE"

// DefaultPath は設定ファイルの既定パスです。
const DefaultPath = "config.yaml"

// Config はサーバーの設定です。
type Config struct {
	HTTP struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		SecureCookie       bool     `yaml:"secure_cookie"`
	} `yaml:"http"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Cache struct {
		QuoteTTL       time.Duration `yaml:"quote_ttl"`
		ClientStateTTL time.Duration `yaml:"client_state_ttl"`
	} `yaml:"cache"`
	Schedule struct {
		SessionPurgeCron string `yaml:"session_purge_cron"`
	} `yaml:"schedule"`
	JWT struct {
		// Secret はファイルには書かず環境変数JWT_SECRETで渡します。
		Secret     string        `yaml:"-"`
		Expiration time.Duration `yaml:"expiration"`
	} `yaml:"jwt"`
}

// LoadDotEnv はカレントディレクトリの.envを読み込みます。ファイルがなくてもエラーにしません。
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load はpathのYAMLを読み込み、環境変数で上書きし、未設定の項目に既定値を入れます。
// ファイルが存在しない場合は環境変数と既定値のみを使います。
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// PathFromEnv はCONFIG_FILEの値、未設定ならDefaultPathを返します。
func PathFromEnv() string {
	if v := os.Getenv(EnvConfigFile); v != "" {
		return v
	}
	return DefaultPath
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.HTTP.CORSAllowedOrigins = splitList(v)
	}
	if v := os.Getenv("SECURE_COOKIE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SECURE_COOKIE: %w", err)
		}
		c.HTTP.SecureCookie = b
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("SESSION_PURGE_CRON"); v != "" {
		c.Schedule.SessionPurgeCron = v
	}
	c.JWT.Secret = os.Getenv("JWT_SECRET")

	durations := []struct {
		env  string
		dest *time.Duration
	}{
		{"QUOTE_CACHE_TTL", &c.Cache.QuoteTTL},
		{"CLIENT_STATE_TTL", &c.Cache.ClientStateTTL},
		{"JWT_EXPIRATION", &c.JWT.Expiration},
	}
	for _, d := range durations {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.env, err)
		}
		*d.dest = parsed
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if len(c.HTTP.CORSAllowedOrigins) == 0 {
		c.HTTP.CORSAllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Cache.QuoteTTL <= 0 {
		c.Cache.QuoteTTL = 5 * time.Minute
	}
	if c.Schedule.SessionPurgeCron == "" {
		// 毎時0分0秒
		c.Schedule.SessionPurgeCron = "0 0 * * * *"
	}
	if c.JWT.Expiration <= 0 {
		c.JWT.Expiration = time.Hour
	}
}

// Validate は起動に必要な値が揃っているかを確認します。
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

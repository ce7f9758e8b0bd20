// Package config carga la configuración del gateway desde YAML con overrides por env.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Env     string `yaml:"app_env"`
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		TrustedProxies     []string `yaml:"trusted_proxies"`
		ReadTimeout        string   `yaml:"read_timeout"`
		WriteTimeout       string   `yaml:"write_timeout"`
		ShutdownTimeout    string   `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	JWT struct {
		SecretKey      string   `yaml:"secret_key"` // base64
		Algorithm      string   `yaml:"algorithm"`  // HS256 | HS384 | HS512
		Issuer         string   `yaml:"issuer"`
		AccessTTL      string   `yaml:"access_ttl"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"jwt"`

	Directory struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"directory"`

	Security struct {
		BcryptCost int `yaml:"bcrypt_cost"`
	} `yaml:"security"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// Rutas por defecto: el archivo real y, si no existe, el example versionado.
const (
	DefaultPath = "configs/config.yaml"
	ExamplePath = "configs/config.example.yaml"
)

// ResolvePath devuelve path si no está vacío; si no, el primer archivo por defecto
// que exista.
func ResolvePath(path string) string {
	if strings.TrimSpace(path) != "" {
		return path
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath
	}
	return ExamplePath
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	// Overrides por env antes de los defaults, así un env vacío no pisa nada.
	c.applyEnvOverrides()
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.Name == "" {
		c.App.Name = "kcs-v1"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8081"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "15s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "15s"
	}
	if c.JWT.Algorithm == "" {
		c.JWT.Algorithm = "HS256"
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "MLS"
	}
	if c.JWT.AccessTTL == "" {
		c.JWT.AccessTTL = "20m"
	}
	if len(c.JWT.AllowedOrigins) == 0 {
		c.JWT.AllowedOrigins = []string{"http://localhost:8083"}
	}
	if c.Directory.Timeout == "" {
		c.Directory.Timeout = "5s"
	}
	if c.Security.BcryptCost == 0 {
		c.Security.BcryptCost = 14
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "kcs:rl:"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvCSV("TRUSTED_PROXIES"); ok {
		c.Server.TrustedProxies = v
	}

	// JWT
	if v, ok := getEnvStr("JWT_SECRET_KEY"); ok {
		c.JWT.SecretKey = v
	}
	if v, ok := getEnvStr("JWT_ALGORITHM"); ok {
		c.JWT.Algorithm = strings.ToUpper(v)
	}
	if v, ok := getEnvStr("JWT_ISSUER"); ok {
		c.JWT.Issuer = v
	}
	if v, ok := getEnvStr("JWT_ACCESS_TTL"); ok {
		c.JWT.AccessTTL = v
	}
	if v, ok := getEnvCSV("JWT_ALLOWED_ORIGINS"); ok {
		c.JWT.AllowedOrigins = v
	}

	// DIRECTORY
	if v, ok := getEnvStr("DIRECTORY_BASE_URL"); ok {
		c.Directory.BaseURL = v
	}
	if v, ok := getEnvStr("DIRECTORY_TIMEOUT"); ok {
		c.Directory.Timeout = v
	}

	// SECURITY
	if v, ok := getEnvInt("BCRYPT_COST"); ok {
		c.Security.BcryptCost = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(v)
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvInt("RATE_LOGIN_LIMIT"); ok {
		c.Rate.Login.Limit = v
	}
	if v, ok := getEnvStr("RATE_LOGIN_WINDOW"); ok {
		c.Rate.Login.Window = v
	}

	// OBSERVABILITY
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := getEnvBool("METRICS_ENABLED"); ok {
		c.Metrics.Enabled = v
	}
}

// Validate exige la clave de firma y el directorio, y que las duraciones parseen.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWT.SecretKey) == "" {
		errs = append(errs, errors.New("jwt.secret_key (JWT_SECRET_KEY) is required"))
	}
	if strings.TrimSpace(c.Directory.BaseURL) == "" {
		errs = append(errs, errors.New("directory.base_url (DIRECTORY_BASE_URL) is required"))
	}
	for name, v := range map[string]string{
		"jwt.access_ttl":          c.JWT.AccessTTL,
		"directory.timeout":       c.Directory.Timeout,
		"rate.login.window":       c.Rate.Login.Window,
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
	} {
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", name, v))
		}
	}
	switch c.Cache.Kind {
	case "", "memory":
	case "redis":
		if c.Rate.Enabled && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
			errs = append(errs, errors.New("cache.redis.addr (REDIS_ADDR) is required when cache.kind=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.kind: unknown %q", c.Cache.Kind))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// dur parsea una duración ya validada, con fallback.
func dur(v string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return def
}

func (c *Config) AccessTTL() time.Duration        { return dur(c.JWT.AccessTTL, 20*time.Minute) }
func (c *Config) DirectoryTimeout() time.Duration { return dur(c.Directory.Timeout, 5*time.Second) }
func (c *Config) LoginWindow() time.Duration      { return dur(c.Rate.Login.Window, time.Minute) }
func (c *Config) ReadTimeout() time.Duration      { return dur(c.Server.ReadTimeout, 10*time.Second) }
func (c *Config) WriteTimeout() time.Duration     { return dur(c.Server.WriteTimeout, 15*time.Second) }
func (c *Config) ShutdownTimeout() time.Duration  { return dur(c.Server.ShutdownTimeout, 15*time.Second) }

// IsProd es true para app_env prod/production.
func (c *Config) IsProd() bool {
	return c.App.Env == "prod" || c.App.Env == "production"
}

// -----------------------------------------------------------------------------
// Config Package
// -----------------------------------------------------------------------------
// Uygulamanın merkezi konfigürasyon yönetimi. Değerler şu sırayla okunur,
// sonraki kaynak öncekini ezer:
//
//  1. Built-in varsayılanlar
//  2. .env dosyası (varsa, sadece henüz set edilmemiş değişkenler için)
//  3. YAML config dosyası (verilmişse)
//  4. Ortam değişkenleri: APP_*, LOG_*, DB_*, REDIS_*, CACHE_*, SCHEMA_*
//
// Ortam değişkenlerinde ilk "_" bölüm ayracıdır:
// DB_MAX_OPEN_CONNS → db.max_open_conns
// -----------------------------------------------------------------------------

package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/ceopag/eloquence-base/pkg/cache"
	"github.com/ceopag/eloquence-base/pkg/database"
	"github.com/ceopag/eloquence-base/pkg/logger"
)

// Config, uygulamanın merkezi yapılandırma nesnesidir.
type Config struct {
	App    AppConfig    `koanf:"app"`
	Log    LogConfig    `koanf:"log"`
	DB     DBConfig     `koanf:"db"`
	Redis  RedisConfig  `koanf:"redis"`
	Cache  CacheConfig  `koanf:"cache"`
	Schema SchemaConfig `koanf:"schema"`
}

type AppConfig struct {
	Name string `koanf:"name"`
	Env  string `koanf:"env"` // development, production, test
}

type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"` // boşsa sadece stderr
}

type DBConfig struct {
	Driver          string        `koanf:"driver"` // mysql, postgres, sqlite
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// CacheConfig, derlenmiş join planlarının cache ayarları.
type CacheConfig struct {
	Driver string        `koanf:"driver"` // none, memory, redis
	Prefix string        `koanf:"prefix"`
	TTL    time.Duration `koanf:"ttl"`
}

// SchemaConfig, model tanımlarının YAML dosyası. Boşsa kod içindeki modeller kullanılır.
type SchemaConfig struct {
	Path string `koanf:"path"`
}

var envSections = []string{"APP", "LOG", "DB", "REDIS", "CACHE", "SCHEMA"}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"app.name":             "eloquence-base",
		"app.env":              "development",
		"log.level":            "info",
		"log.file":             "",
		"db.driver":            database.DriverSQLite,
		"db.dsn":               ":memory:",
		"db.max_open_conns":    25,
		"db.max_idle_conns":    25,
		"db.conn_max_lifetime": "5m",
		"redis.host":           "127.0.0.1",
		"redis.port":           6379,
		"redis.password":       "",
		"redis.db":             0,
		"cache.driver":         cache.DriverMemory,
		"cache.prefix":         "eloquence:",
		"cache.ttl":            "10m",
		"schema.path":          "",
	}
}

// Option, Load ayarı.
type Option func(*options)

type options struct {
	file    string
	envFile string
}

// WithFile, YAML config dosyasını belirler.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// WithEnvFile, .env dosyasının yolunu değiştirir. Boş string .env yüklemeyi kapatır.
func WithEnvFile(path string) Option {
	return func(o *options) { o.envFile = path }
}

// Load, yapılandırmayı okur ve doğrular.
//
// Örnek:
//
//	cfg, err := config.Load(config.WithFile("config/app.yaml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
func Load(opts ...Option) (*Config, error) {
	o := &options{envFile: ".env"}
	for _, opt := range opts {
		opt(o)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "config: defaults")
	}

	if err := loadEnvFile(o.envFile); err != nil {
		return nil, err
	}

	if o.file != "" {
		if err := k.Load(file.Provider(o.file), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "config: load %s", o.file)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "config: environment")
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey, ortam değişkeni adını koanf key'ine çevirir. Bilinmeyen
// bölümler için "" döner ve değişken atlanır.
func envKey(name string) string {
	section, rest, ok := strings.Cut(name, "_")
	if !ok || rest == "" || !lo.Contains(envSections, section) {
		return ""
	}
	return strings.ToLower(section) + "." + strings.ToLower(rest)
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "config: load %s", path)
	}
	return nil
}

// Validate, config değerlerinin geçerliliğini kontrol eder.
func (c *Config) Validate() error {
	if _, err := database.GrammarFor(c.DB.Driver); err != nil {
		return errors.Wrap(err, "config: db.driver")
	}
	if strings.TrimSpace(c.DB.DSN) == "" {
		return errors.New("config: db.dsn is required")
	}

	switch c.Cache.Driver {
	case cache.DriverNone, cache.DriverMemory, cache.DriverRedis:
	default:
		return errors.Errorf("config: invalid cache.driver %q (none, memory or redis)", c.Cache.Driver)
	}
	if c.Cache.TTL < 0 {
		return errors.New("config: cache.ttl cannot be negative")
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(err, "config: invalid log.level %q", c.Log.Level)
	}

	if c.IsProduction() && c.Cache.Driver == cache.DriverMemory {
		logger.Warn().Msg("memory cache is not shared between instances; prefer redis in production")
	}
	return nil
}

// IsProduction, production ortamında olup olmadığını kontrol eder.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// IsDevelopment, development ortamında olup olmadığını kontrol eder.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsTesting, test ortamında olup olmadığını kontrol eder.
func (c *Config) IsTesting() bool {
	return c.App.Env == "test"
}

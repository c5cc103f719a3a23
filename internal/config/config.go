package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"

	DedupCookie = "cookie"
	DedupMemory = "memory"
	DedupRedis  = "redis"
)

type Config struct {
	Env         string            `yaml:"env" env:"ENV" env-default:"local" validate:"oneof=local dev prod"`
	TokenTTL    time.Duration     `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"12h"`
	HTTP        HTTPConfig        `yaml:"http"`
	Admin       AdminConfig       `yaml:"admin"`
	Session     SessionConfig     `yaml:"session"`
	Storage     StorageConfig     `yaml:"storage"`
	FileStorage FileStorageConfig `yaml:"file_storage"`
	Image       ImageConfig       `yaml:"image"`
	Gallery     GalleryConfig     `yaml:"gallery"`
	Stats       StatsConfig       `yaml:"stats"`
	Redis       RedisConf         `yaml:"redis"`
}

type HTTPConfig struct {
	Host         string        `yaml:"host" env:"HTTP_HOST"`
	Port         string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	DevOrigin    string        `yaml:"dev_origin" env:"HTTP_DEV_ORIGIN"`
	BodyLimit    string        `yaml:"body_limit" env:"HTTP_BODY_LIMIT" env-default:"64M"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"60s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"120s"`
}

// AdminConfig is the single admin account. PasswordHash wins over Password.
type AdminConfig struct {
	Email        string `yaml:"email" env:"ADMIN_EMAIL"`
	Password     string `yaml:"password" env:"ADMIN_PASSWORD"`
	PasswordHash string `yaml:"password_hash" env:"ADMIN_PASSWORD_HASH"`
}

type SessionConfig struct {
	Secret string `yaml:"secret" env:"SESSION_SECRET" validate:"required,min=16"`
	MaxAge int    `yaml:"max_age" env:"SESSION_MAX_AGE" env-default:"86400"`
	Secure bool   `yaml:"secure" env:"SESSION_SECURE"`
}

type StorageConfig struct {
	Driver     string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"file" validate:"oneof=file postgres"`
	EventsFile string `yaml:"events_file" env:"EVENTS_FILE" env-default:"./data/events.json"`
	DSN        string `yaml:"dsn" env:"DSN" validate:"required_if=Driver postgres"`
}

type FileStorageConfig struct {
	BaseDir string `yaml:"base_dir" env:"IMAGES_DIR" env-default:"./gallery-images"`
	BaseURL string `yaml:"base_url" env:"IMAGES_URL" env-default:"/gallery-images"`
	MaxSize int64  `yaml:"max_size" env:"IMAGES_MAX_SIZE" env-default:"20971520"`
}

type ImageConfig struct {
	FullWidth  int `yaml:"full_width" env-default:"1600" validate:"min=1"`
	ThumbWidth int `yaml:"thumb_width" env-default:"600" validate:"min=1"`
	Quality    int `yaml:"quality" env-default:"80" validate:"min=1,max=100"`
}

type GalleryConfig struct {
	DefaultLocation string `yaml:"default_location" env:"GALLERY_DEFAULT_LOCATION"`
}

type StatsConfig struct {
	DedupBackend   string        `yaml:"dedup_backend" env:"STATS_DEDUP_BACKEND" env-default:"cookie" validate:"oneof=cookie memory redis"`
	DedupCookieTTL time.Duration `yaml:"dedup_cookie_ttl" env-default:"720h"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	cfg, err := LoadPath(configPath)
	if err != nil {
		panic(err.Error())
	}

	return cfg
}

func LoadPath(configPath string) (*Config, error) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}

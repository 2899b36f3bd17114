package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string        `yaml:"env" env-required:"true"`
	StoragePath string        `yaml:"storage_path" env-required:"true"`
	TokenTTL    time.Duration `yaml:"token_ttl" env-default:"1h"`
	HTTPServer  `yaml:"http_server"`
	Showcase    `yaml:"showcase"`
	Preload     `yaml:"preload"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	Heartbeat   time.Duration `yaml:"heartbeat" env-default:"25s"`
}

type Showcase struct {
	ShowreelInterval time.Duration `yaml:"showreel_interval" env-default:"8s"`
	HeroInterval     time.Duration `yaml:"hero_interval" env-default:"5s"`
	ViewportMargin   int           `yaml:"viewport_margin" env-default:"200"`
	Quality          string        `yaml:"quality" env-default:"medium"`
}

type Preload struct {
	FetchTimeout time.Duration `yaml:"fetch_timeout" env-default:"10s"`
	SniffBytes   int           `yaml:"sniff_bytes" env-default:"4096"`
	CacheTTL     time.Duration `yaml:"cache_ttl" env-default:"10m"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

// fetchConfigPath fetches config path from command line flag or environment variable.
// Priority: flag > env > default.
// Default value is empty string.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}

package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage backends. The backend is an explicit configuration choice
// resolved once at startup; a failing remote store is never silently
// replaced with the local one mid-session.
const (
	BackendLocal  = "local"
	BackendGitHub = "github"
)

type (
	// Config represents an application configuration.
	Config struct {
		// Subconfigs.
		HTTPServer HTTPServer `yaml:"http_server"`
		Store      Store      `yaml:"store"`
		Product    Product    `yaml:"product"`
		Bank       Bank       `yaml:"bank"`
		Admin      Admin      `yaml:"admin"`
		RateLimit  RateLimit  `yaml:"rate_limit"`
		Logger     Logger     `yaml:"logger"`
	}
	// Config for HTTP server.
	HTTPServer struct {
		// The server startup address.
		Address string `yaml:"run_address" env:"RUN_ADDRESS" env-default:"127.0.0.1:8080"`
		// Read Header Timeout in seconds.
		Timeout time.Duration `yaml:"timeout" env-default:"5s"`
		// Idle timeout in seconds.
		IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
		// Shutdown timeout in seconds.
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"30s"`
		// Origin the browser widget is served from, for CORS.
		WidgetOrigin string `yaml:"widget_origin" env:"WIDGET_ORIGIN" env-default:"*"`
	}
	// Config for the order store.
	Store struct {
		// Which backend keeps the order list: "local" or "github".
		Backend string `yaml:"backend" env:"STORE_BACKEND" env-default:"local"`
		// Path of the local JSON file holding the order list.
		LocalPath string `yaml:"local_path" env:"STORE_LOCAL_PATH" env-default:"orders.json"`
		// Remote document coordinates and credential.
		GitHub GitHub `yaml:"github"`
	}
	// Config for the remote content-API document.
	GitHub struct {
		APIBase string        `yaml:"api_base" env:"GITHUB_API_BASE" env-default:"https://api.github.com"`
		Owner   string        `yaml:"owner" env:"GITHUB_OWNER" env-default:"BizzOn-VN"`
		Repo    string        `yaml:"repo" env:"GITHUB_REPO" env-default:"bepnhanga"`
		Path    string        `yaml:"path" env:"GITHUB_PATH" env-default:"orders.json"`
		Token   string        `yaml:"token" env:"GITHUB_TOKEN"`
		Timeout time.Duration `yaml:"timeout" env-default:"15s"`
	}
	// Config for the product on sale.
	Product struct {
		Name string `yaml:"name" env-default:"Gạch cua đồng Bếp Nhà Ngà"`
		// Price of one unit in whole VND.
		UnitPrice int64 `yaml:"unit_price" env:"UNIT_PRICE" env-default:"130000"`
		// Number of carousel images the widget cycles through.
		ImageCount int `yaml:"image_count" env-default:"3"`
		// Carousel auto-advance interval.
		SlideInterval time.Duration `yaml:"slide_interval" env-default:"4s"`
	}
	// Config for the bank-transfer QR reference.
	Bank struct {
		BankID      string `yaml:"bank_id" env-default:"VAB"`
		AccountNo   string `yaml:"account_no" env-default:"00125223"`
		Template    string `yaml:"template" env-default:"compact"`
		AccountName string `yaml:"account_name" env-default:"Nguyen Thi Tu Anh"`
	}
	// Config for the admin surface.
	Admin struct {
		// Static bearer token guarding /api/admin.
		Token string `yaml:"token" env:"ADMIN_TOKEN"`
	}
	// Config for order submission rate limiting.
	RateLimit struct {
		Interval time.Duration `yaml:"interval" env-default:"1s"`
		Burst    int           `yaml:"burst" env-default:"5"`
	}
	// Config for application's logger.
	Logger struct {
		// Path to store log files.
		Path string `yaml:"path" env:"LOG_PATH"`
		// Application logging level.
		Level string `yaml:"level" env:"LOG_LEVEL"`
		// Log files details.
		MaxSizeMB  int `yaml:"max_size_mb"`
		MaxBackups int `yaml:"max_backups"`
		MaxAgeDays int `yaml:"max_age_days"`
	}
)

// MustLoad returns an application configuration which is populated
// from the given configuration file, environment variables and flags.
func MustLoad() *Config {
	// Configuration yaml file path.
	configPath := flag.String("config", "./config/local.yml", "path to the config file")

	var cfg Config

	// Read given flags.
	flag.StringVar(&cfg.HTTPServer.Address, "a", "127.0.0.1:8080", "server startup address")
	flag.StringVar(&cfg.Store.Backend, "b", BackendLocal, "order store backend: local or github")
	flag.Parse()

	// Load from YAML cfg file when present.
	if _, err := os.Stat(*configPath); err == nil {
		file, err := os.Open(*configPath)
		if err != nil {
			log.Fatalf("failed to open config file: %s", *configPath)
		}
		if err = cleanenv.ParseYAML(file, &cfg); err != nil {
			log.Fatalf("failed to parse config file: %s", *configPath)
		}
	}

	// Read environment variables.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to read environment variables: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	return &cfg
}

// Validate checks invariants that cannot be expressed with struct tags.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendLocal:
	case BackendGitHub:
		if c.Store.GitHub.Token == "" {
			return fmt.Errorf("backend %q requires a token", BackendGitHub)
		}
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}

	if c.Product.UnitPrice <= 0 {
		return fmt.Errorf("unit price must be positive, got %d", c.Product.UnitPrice)
	}
	if c.Product.ImageCount < 1 {
		return fmt.Errorf("image count must be at least 1, got %d", c.Product.ImageCount)
	}

	return nil
}

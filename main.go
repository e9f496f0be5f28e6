package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"city311/dao"
	"city311/internal/geocode"
	"city311/route"
	"city311/service"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
		Mode string `yaml:"mode"`
	} `yaml:"server"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTLHours int    `yaml:"ttl_hours"`
	} `yaml:"redis"`
	Sqlite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Geocoder struct {
		NominatimURL     string `yaml:"nominatim_url"`
		CensusURL        string `yaml:"census_url"`
		SecondaryEnabled bool   `yaml:"secondary_enabled"`
	} `yaml:"geocoder"`
}

func main() {
	cfg, err := loadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := newLogger(cfg.Server.Mode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	tickets, err := dao.NewTicketStore(cfg.Sqlite.Path)
	if err != nil {
		sugar.Fatalw("open ticket store", "path", cfg.Sqlite.Path, "err", err)
	}

	var sessions dao.SessionStore
	if cfg.Redis.Enabled {
		sessions = dao.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLHours)*time.Hour)
		sugar.Infow("session store: redis", "addr", cfg.Redis.Addr)
	} else {
		sessions = dao.NewMemoryStore()
		sugar.Infow("session store: in-memory")
	}

	catalog := service.NewCatalog()

	var secondary service.Geocoder
	if cfg.Geocoder.SecondaryEnabled {
		secondary = geocode.NewCensusClient(cfg.Geocoder.CensusURL)
	}
	verifier := service.NewVerifier(
		geocode.NewNominatimClient(cfg.Geocoder.NominatimURL),
		secondary,
		catalog,
		sugar,
	)

	finalizer := service.NewFinalizer(tickets, sugar)
	dlg := service.NewDialogueService(catalog, verifier, finalizer, sugar)

	if cfg.Server.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	route.Register(r, dlg, sessions, tickets, sugar)

	sugar.Infow("listening", "addr", cfg.Server.Addr)
	if err := r.Run(cfg.Server.Addr); err != nil {
		sugar.Fatalw("server exited", "err", err)
	}
}

// loadConfig reads the yaml config, filling defaults so the binary
// runs with no file at all.
func loadConfig(path string) (*Config, error) {
	var cfg Config
	cfg.Server.Addr = ":8080"
	cfg.Server.Mode = "dev"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.TTLHours = 24
	cfg.Sqlite.Path = "tickets.db"

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

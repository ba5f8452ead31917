package cmd

import (
	"os"

	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/delivery/cli"
	"golang-p2p-risk/internal/repository"
	"golang-p2p-risk/internal/service"
	"golang-p2p-risk/pkg/cache"
	"golang-p2p-risk/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
)

type AppDependency struct {
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	cache     cache.Cache
	repo      *repository.Repository
	services  *service.Service
	printer   *cli.Printer
}

// NewAppDependency loads the configuration, applies the command-line
// overrides and wires the services on top of it.
func NewAppDependency(overrides ...func(*config.Config)) (*AppDependency, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}

	validator := goValidator.New()
	if len(overrides) > 0 {
		for _, override := range overrides {
			override(cfg)
		}
		if err := cfg.Validate(validator); err != nil {
			return nil, err
		}
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	printer, err := cli.NewPrinter(os.Stdout, outputFormat)
	if err != nil {
		return nil, err
	}

	inmemoryCache := cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval)
	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: validator,
		cache:     inmemoryCache,
		repo:      repository.NewRepository(log),
		services:  service.NewService(cfg, log, validator, inmemoryCache),
		printer:   printer,
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Debug("Closing app dependency")
	d.cache.Flush()
	// Sync returns EINVAL on terminals.
	_ = d.log.Sync()
	return nil
}

// Package di provides dependency injection container
package di

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ssargent/wpilog/pkg/catalog"
	"github.com/ssargent/wpilog/pkg/config"
	"github.com/ssargent/wpilog/pkg/metrics"
	"github.com/ssargent/wpilog/pkg/wpilog"
)

// CatalogFactory opens a catalog
type CatalogFactory func(cfg catalog.Config) (*catalog.Catalog, error)

// Container holds all the dependencies for the application
type Container struct {
	config         *config.Config
	logger         *slog.Logger
	registry       *prometheus.Registry
	metrics        *metrics.Metrics
	catalogFactory CatalogFactory
}

// NewContainer creates a new dependency injection container with the
// default configuration
func NewContainer() *Container {
	registry := prometheus.NewRegistry()
	return &Container{
		config:         config.DefaultConfig(),
		logger:         slog.New(slog.NewTextHandler(os.Stderr, nil)),
		registry:       registry,
		metrics:        metrics.NewMetrics(registry),
		catalogFactory: catalog.Open,
	}
}

// Configure replaces the configuration and rebuilds the logger, writing
// log output to w
func (c *Container) Configure(cfg *config.Config, w io.Writer) error {
	logger, err := NewLogger(cfg.Logging, w)
	if err != nil {
		return err
	}
	c.config = cfg
	c.logger = logger
	return nil
}

// GetConfig returns the active configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the application logger
func (c *Container) GetLogger() *slog.Logger {
	return c.logger
}

// GetMetrics returns the application metrics
func (c *Container) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// GetRegistry returns the registry the metrics are registered with
func (c *Container) GetRegistry() *prometheus.Registry {
	return c.registry
}

// ParseOptions returns parser options built from the active configuration,
// with the container's logger and metrics attached
func (c *Container) ParseOptions() (wpilog.Options, error) {
	return c.config.ParseOptions(c.logger, c.metrics)
}

// OpenCatalog opens the catalog named by the active configuration
func (c *Container) OpenCatalog() (*catalog.Catalog, error) {
	return c.catalogFactory(catalog.Config{
		Dir:      c.config.Catalog.Dir,
		Logger:   c.logger,
		Recorder: c.metrics,
	})
}

// SetCatalogFactory allows overriding the catalog factory (for testing)
func (c *Container) SetCatalogFactory(factory CatalogFactory) {
	c.catalogFactory = factory
}

// WriteMetrics writes the registry in the Prometheus text format to the
// configured textfile. It does nothing when no textfile is configured.
func (c *Container) WriteMetrics() error {
	path := c.config.Metrics.Textfile
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// NewLogger builds a slog logger from the logging configuration
func NewLogger(cfg config.Logging, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch cfg.Format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}

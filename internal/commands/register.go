// Package commands implements the CLI subcommands around the schema
// manager: initialization, validation and integrity checking.
package commands

import (
	"fmt"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/bread-finance/bread/internal/config"
	"github.com/bread-finance/bread/internal/di"
	"github.com/bread-finance/bread/pkg/logger"
)

// Register registers all subcommands on the commander.
func Register(c *subcommands.Commander) {
	c.Register(&dbInitCmd{}, "database")
	c.Register(&dbValidateCmd{}, "database")
	c.Register(&dbCheckCmd{}, "database")
}

// setup loads configuration and wires the container. The caller owns the
// container and must Close it.
func setup() (*di.Container, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	container, err := di.New(cfg, log)
	if err != nil {
		return nil, log, err
	}
	return container, log, nil
}

// Package di wires configuration, the store connection, the schema
// manager and the repositories together.
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bread-finance/bread/internal/config"
	"github.com/bread-finance/bread/internal/database"
	"github.com/bread-finance/bread/internal/repository"
	"github.com/bread-finance/bread/internal/schema"
)

// Container holds the wired application components.
type Container struct {
	DB        *database.DB
	Schema    *schema.Manager
	Reference *repository.ReferenceRepository
	Entities  *repository.EntityRepository
	Ledger    *repository.LedgerRepository
	Temporal  *repository.TemporalRepository
}

// New opens the store and constructs the schema manager and repositories.
func New(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	db, err := database.New(database.Config{
		Path:    cfg.DatabasePath,
		Profile: database.ProfileLedger,
		Name:    "ledger",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ledger database: %w", err)
	}

	return &Container{
		DB:        db,
		Schema:    schema.NewManager(db, log),
		Reference: repository.NewReferenceRepository(db.Conn(), log),
		Entities:  repository.NewEntityRepository(db.Conn(), log),
		Ledger:    repository.NewLedgerRepository(db.Conn(), log),
		Temporal:  repository.NewTemporalRepository(db.Conn(), log),
	}, nil
}

// Close releases the store connection.
func (c *Container) Close() {
	if c.DB != nil {
		_ = c.DB.Close()
	}
}

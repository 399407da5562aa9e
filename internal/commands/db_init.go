package commands

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/bread-finance/bread/internal/schema"
)

type dbInitCmd struct {
	force  bool
	noSeed bool
}

func (*dbInitCmd) Name() string { return "db_init" }
func (*dbInitCmd) Synopsis() string {
	return "create the ledger schema and seed the reference tables"
}
func (*dbInitCmd) Usage() string { return "bread db_init [-force] [-no-seed]\n" }

func (c *dbInitCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "drop and recreate all tables")
	f.BoolVar(&c.noSeed, "no-seed", false, "skip seeding the reference tables")
}

func (c *dbInitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	container, log, err := setup()
	if err != nil {
		return fail(log, err, "Failed to set up")
	}
	defer container.Close()

	if c.force {
		log.Warn().Msg("Dropping existing schema")
		if err := container.Schema.Drop(ctx); err != nil {
			return fail(log, err, "Failed to drop schema")
		}
	}

	initialized, err := container.Schema.IsInitialized(ctx)
	if err != nil {
		return fail(log, err, "Failed to inspect store")
	}

	if initialized && !c.force {
		result, err := container.Schema.Validate(ctx)
		if err != nil {
			return fail(log, err, "Failed to validate store")
		}
		if result.IsValid() {
			log.Info().Msg("Store already initialized")
			return subcommands.ExitSuccess
		}
		partial := result.PartialInit()
		if partial == nil {
			// Not a partial install: the installed schema diverges from
			// the expected shape and re-running creation won't fix it.
			logFindings(log, result)
			return subcommands.ExitFailure
		}
		log.Warn().Strs("missing", partial.Missing).Msg("Completing partial initialization")
	}

	if err := container.Schema.InitializeWith(ctx, schema.InitOptions{Seed: !c.noSeed}); err != nil {
		return fail(log, err, "Failed to initialize schema")
	}

	log.Info().Msg("Database initialized")
	return subcommands.ExitSuccess
}

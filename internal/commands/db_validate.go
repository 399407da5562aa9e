package commands

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/bread-finance/bread/internal/schema"
)

type dbValidateCmd struct{}

func (*dbValidateCmd) Name() string { return "db_validate" }
func (*dbValidateCmd) Synopsis() string {
	return "check the installed schema against the expected shape"
}
func (*dbValidateCmd) Usage() string          { return "bread db_validate\n" }
func (*dbValidateCmd) SetFlags(*flag.FlagSet) {}

func (c *dbValidateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	container, log, err := setup()
	if err != nil {
		return fail(log, err, "Failed to set up")
	}
	defer container.Close()

	result, err := container.Schema.Validate(ctx)
	if err != nil {
		return fail(log, err, "Failed to validate store")
	}

	if result.IsValid() {
		log.Info().Int("tables", result.TablesValidated).Msg("Schema is valid")
		return subcommands.ExitSuccess
	}

	logFindings(log, result)
	return subcommands.ExitFailure
}

// logFindings reports every validation finding, one line per finding.
func logFindings(log zerolog.Logger, result *schema.ValidationResult) {
	for _, name := range result.MissingTables {
		log.Error().Str("table", name).Msg("Missing table")
	}
	for _, finding := range result.ColumnFindings {
		log.Error().Str("finding", finding).Msg("Column mismatch")
	}
	for _, finding := range result.KeyFindings {
		log.Error().Str("finding", finding).Msg("Key mismatch")
	}
	for _, finding := range result.SeedFindings {
		log.Error().Str("finding", finding).Msg("Seed mismatch")
	}
	if partial := result.PartialInit(); partial != nil {
		log.Warn().Msg("Store is partially initialized; re-run db_init to complete it")
	}
}

// fail logs an error and maps it to a failing exit status.
func fail(log zerolog.Logger, err error, msg string) subcommands.ExitStatus {
	log.Error().Err(err).Msg(msg)
	return subcommands.ExitFailure
}

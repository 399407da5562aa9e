package commands

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/bread-finance/bread/internal/scheduler"
)

type dbCheckCmd struct{}

func (*dbCheckCmd) Name() string           { return "db_check" }
func (*dbCheckCmd) Synopsis() string       { return "run an integrity check on the store" }
func (*dbCheckCmd) Usage() string          { return "bread db_check\n" }
func (*dbCheckCmd) SetFlags(*flag.FlagSet) {}

func (c *dbCheckCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	container, log, err := setup()
	if err != nil {
		return fail(log, err, "Failed to set up")
	}
	defer container.Close()

	job := scheduler.NewCheckStoreJob(container.DB)
	job.SetLogger(log)

	if err := job.Run(ctx); err != nil {
		return fail(log, err, "Store check failed")
	}
	return subcommands.ExitSuccess
}

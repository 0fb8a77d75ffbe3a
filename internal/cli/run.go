package cli

import (
	"context"
	"fmt"

	"github.com/matzehuels/packopt/pkg/buildinfo"
	"github.com/matzehuels/packopt/pkg/errors"
	"github.com/matzehuels/packopt/pkg/pipeline"
)

// runPipeline prints the resolved options, runs one pipeline and reports the
// outcome. Fatal pipeline errors and refused confirmations are reported and
// end the command successfully; only cancellation is returned.
func (c *CLI) runPipeline(ctx context.Context, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	logger.Debug("starting "+appName, buildinfo.Fields()...)
	opts.Logger = logger

	printOptions(c.Out, opts)

	confirm := c.Confirm
	if confirm == nil && !opts.NoConfirm {
		confirm = newConfirm(ctx, c.In, c.Out)
	}

	watch := startStopwatch(logger)
	controller := pipeline.NewController(opts, confirm)
	res, err := controller.Run(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		logger.Debug("pipeline failed", "state", res.State, "code", errors.GetCode(err))
		printExit(c.Out, errors.UserMessage(err))
		return nil
	}
	if res.Aborted() {
		if res.KeptWorkDir {
			printInfo(c.Out, "Temporary directory kept at %s", res.WorkDir)
		}
		printExit(c.Out, declinedMessage)
		return nil
	}

	watch.finish("Finished run", "run", controller.RunID())
	printSummary(c.Out, res)
	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, "Exiting...")
	return nil
}

// Package cli implements the packopt command-line interface.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/packopt/pkg/archive"
	"github.com/matzehuels/packopt/pkg/buildinfo"
	"github.com/matzehuels/packopt/pkg/pipeline"
	"github.com/matzehuels/packopt/pkg/stage"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "packopt"

	// exitingMessage precedes every early-exit message.
	exitingMessage = "Exiting Program..."

	// declinedMessage is shown when a confirmation gate is refused.
	declinedMessage = "User did not confirm to continue"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// In and Out carry the interactive prompt and the human-readable report.
	In  io.Reader
	Out io.Writer

	// Confirm replaces the interactive prompt when set.
	Confirm pipeline.ConfirmFunc
}

// New creates a new CLI instance whose logger writes to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command. The root command itself runs
// the pipeline; completion is the only subcommand.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		opts       pipeline.Options
		configPath string
	)

	root := &cobra.Command{
		Use:   appName,
		Short: "Packopt optimizes resource packs",
		Long: `Packopt clones a resource pack into a temporary working tree, minifies its
JSON, YAML and shader files, recompresses its PNG images, and writes the
result to the output directory either as a plain tree or as a zip archive.

Every step asks for confirmation unless --no-confirm is given.`,
		Example: `  packopt -i ./pack -o ./dist
  packopt -i ./pack -o ./dist -z pack.zip --no-confirm
  packopt -c packopt.toml -z`,
		Version:      buildinfo.Get().Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveOptions(cmd, opts, configPath)
			if err != nil {
				return err
			}
			return c.runPipeline(cmd.Context(), resolved)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.Flags()
	flags.StringVarP(&opts.InputPath, flagInput, "i", "", "resource pack directory to optimize")
	flags.StringVarP(&opts.OutputPath, flagOutput, "o", "", "directory that receives the result")
	flags.StringVarP(&opts.ZipName, flagZip, "z", "", "zip the result into the output directory under `NAME`")
	flags.Lookup(flagZip).NoOptDefVal = pipeline.DefaultZipName
	flags.BoolVar(&opts.NoConfirm, flagNoConfirm, false, "approve every confirmation prompt")
	flags.StringSliceVar(&opts.Exclude, flagExclude, append([]string(nil), stage.DefaultExcludes...), "file suffixes left out of the result")
	flags.IntVarP(&opts.Workers, flagWorkers, "j", 0, "worker pool size per stage (0 = number of CPUs)")
	flags.StringVar(&opts.Digest, flagDigest, pipeline.DefaultDigest, "archive digest: sha1, sha256, xxhash")
	flags.IntVar(&opts.CompressionLevel, flagLevel, archive.DefaultLevel, "zip deflate level (1-9)")
	flags.StringVarP(&configPath, flagConfig, "c", "", "read options from a TOML `FILE`")

	root.AddCommand(c.completionCommand())

	return root
}

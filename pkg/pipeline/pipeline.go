// Package pipeline provides the resource-pack build pipeline for packopt.
//
// The pipeline clones a source tree into an ephemeral working tree, runs the
// fixed transform stages over it, then either zips the result or copies it to
// the output directory. Every step after validation is gated by a
// confirmation callback; a refusal ends the run as aborted with no further
// side effects.
//
// # Architecture
//
// The controller is a strictly sequential state machine:
//
//	Validate → ConfirmEmptyOutput → Clone → MinifyJSON → MinifyYAML →
//	StripShaders → RecompressPNG → (Archive | CopyToOutput) →
//	ConfirmDeleteWorkingTree → Done
//
// ConfirmEmptyOutput only runs when the output directory has content. Any
// refusal moves the run to Aborted. Any error is fatal and ends the run.
//
// # Usage
//
//	opts := pipeline.Options{
//	    InputPath:  "./pack",
//	    OutputPath: "./dist",
//	    ZipName:    "pack.zip",
//	    Logger:     logger,
//	}
//	result, err := pipeline.NewController(opts, confirm).Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if result.Aborted() {
//	    // user declined at result.AbortedAt
//	}
package pipeline

import (
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/packopt/pkg/archive"
	"github.com/matzehuels/packopt/pkg/errors"
	"github.com/matzehuels/packopt/pkg/stage"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultZipName is the archive name used when zipping is requested
	// without a name.
	DefaultZipName = "output.zip"

	// DefaultDigest is the digest reported for archives.
	DefaultDigest = string(archive.DefaultDigest)
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// Field tags match the keys of the TOML config file.
type Options struct {
	InputPath  string `toml:"input_path"`
	OutputPath string `toml:"output_path"`

	// ZipName triggers archiving into OutputPath/ZipName instead of a
	// direct copy to OutputPath.
	ZipName string `toml:"zip"`

	// NoConfirm auto-approves every confirmation gate.
	NoConfirm bool `toml:"no_confirm"`

	// Exclude lists suffixes left out when cloning the input. Nil selects
	// stage.DefaultExcludes; an empty slice excludes nothing.
	Exclude []string `toml:"exclude"`

	// Workers bounds the per-stage worker pool. Zero means GOMAXPROCS.
	Workers int `toml:"workers"`

	// Archive options
	Digest           string `toml:"digest"`
	CompressionLevel int    `toml:"compression_level"`

	// Runtime options (not serialized)
	Logger *log.Logger `toml:"-"`

	// validated tracks whether Validate has succeeded.
	validated bool
}

// SetDefaults fills in unset fields.
func (o *Options) SetDefaults() {
	if o.Exclude == nil {
		o.Exclude = append([]string(nil), stage.DefaultExcludes...)
	}
	if o.Digest == "" {
		o.Digest = DefaultDigest
	}
	if o.CompressionLevel == 0 {
		o.CompressionLevel = archive.DefaultLevel
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults, resolves the input and output paths to absolute
// form and checks every option. It is idempotent.
func (o *Options) Validate() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	input, output, err := resolvePaths(o.InputPath, o.OutputPath)
	if err != nil {
		return err
	}
	o.InputPath, o.OutputPath = input, output

	if err := ValidateZipName(o.ZipName); err != nil {
		return err
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeValidation, "invalid workers: %d (must be zero or positive)", o.Workers)
	}
	archiveOpts := o.ArchiveOptions()
	if err := archiveOpts.Validate(); err != nil {
		return err
	}
	o.Digest = string(archiveOpts.Digest)

	o.validated = true
	return nil
}

// ArchiveOptions returns the archive writer options.
func (o *Options) ArchiveOptions() archive.Options {
	return archive.Options{
		Digest: archive.Digest(o.Digest),
		Level:  o.CompressionLevel,
	}
}

// ShouldArchive reports whether the run ends in a zip instead of a copy.
func (o *Options) ShouldArchive() bool {
	return o.ZipName != ""
}

// ZipPath returns the destination of the archive.
func (o *Options) ZipPath() string {
	return filepath.Join(o.OutputPath, o.ZipName)
}

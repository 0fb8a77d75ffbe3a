package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/packopt/pkg/errors"
	"github.com/matzehuels/packopt/pkg/pipeline"
)

// Flag names. Config file keys spell them with underscores.
const (
	flagInput     = "input-path"
	flagOutput    = "output-path"
	flagZip       = "zip"
	flagNoConfirm = "no-confirm"
	flagExclude   = "exclude"
	flagWorkers   = "workers"
	flagDigest    = "digest"
	flagLevel     = "compression-level"
	flagConfig    = "config"
)

// loadConfig decodes a TOML config file. Unknown keys are rejected.
func loadConfig(path string) (pipeline.Options, toml.MetaData, error) {
	var opts pipeline.Options
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return opts, md, errors.Wrap(errors.ErrCodeConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return opts, md, errors.New(errors.ErrCodeConfig, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	return opts, md, nil
}

// resolveOptions merges the config file under the command-line flags.
// A flag set explicitly always wins; otherwise a key present in the file
// replaces the flag default.
func resolveOptions(cmd *cobra.Command, flags pipeline.Options, configPath string) (pipeline.Options, error) {
	opts := flags
	if configPath != "" {
		file, md, err := loadConfig(configPath)
		if err != nil {
			return opts, err
		}
		changed := cmd.Flags().Changed
		fromFile := func(key, flag string) bool {
			return md.IsDefined(key) && !changed(flag)
		}

		if fromFile("input_path", flagInput) {
			opts.InputPath = file.InputPath
		}
		if fromFile("output_path", flagOutput) {
			opts.OutputPath = file.OutputPath
		}
		if fromFile("zip", flagZip) {
			opts.ZipName = file.ZipName
		}
		if fromFile("no_confirm", flagNoConfirm) {
			opts.NoConfirm = file.NoConfirm
		}
		if fromFile("exclude", flagExclude) {
			opts.Exclude = file.Exclude
			if opts.Exclude == nil {
				opts.Exclude = []string{}
			}
		}
		if fromFile("workers", flagWorkers) {
			opts.Workers = file.Workers
		}
		if fromFile("digest", flagDigest) {
			opts.Digest = file.Digest
		}
		if fromFile("compression_level", flagLevel) {
			opts.CompressionLevel = file.CompressionLevel
		}
	}

	if opts.InputPath == "" {
		return opts, fmt.Errorf("required flag %q not set", flagInput)
	}
	if opts.OutputPath == "" {
		return opts, fmt.Errorf("required flag %q not set", flagOutput)
	}
	return opts, nil
}

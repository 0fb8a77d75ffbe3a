// Package pkg provides the core libraries for packopt resource pack optimization.
//
// # Overview
//
// Packopt shrinks a resource pack by cloning it into a scratch tree,
// minifying its text assets, recompressing its images and delivering the
// result as a directory or a zip archive. The pkg directory is organized as:
//
//  1. [tree] - Directory walking, predicates and path mapping
//  2. [transform] - Pure byte transforms (JSON, YAML, shader, PNG)
//  3. [stage] - Bounded worker pool and the transform stage descriptors
//  4. [archive] - Zip writing and archive digests
//  5. [pipeline] - The confirmation-gated state machine
//  6. [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Architecture
//
// The data flow of one run:
//
//	input directory
//	       ↓
//	  [stage] clone (excluding .md, .old)
//	       ↓
//	  working tree ← [transform] json → yaml → shader → png
//	       ↓
//	  [archive] zip  or  [stage] copy
//	       ↓
//	output directory
//
// # Quick Start
//
//	import "github.com/matzehuels/packopt/pkg/pipeline"
//
//	res, err := pipeline.NewController(pipeline.Options{
//	    InputPath:  "./pack",
//	    OutputPath: "./dist",
//	    NoConfirm:  true,
//	}, nil).Run(ctx)
//
// [tree]: github.com/matzehuels/packopt/pkg/tree
// [transform]: github.com/matzehuels/packopt/pkg/transform
// [stage]: github.com/matzehuels/packopt/pkg/stage
// [archive]: github.com/matzehuels/packopt/pkg/archive
// [pipeline]: github.com/matzehuels/packopt/pkg/pipeline
// [errors]: github.com/matzehuels/packopt/pkg/errors
// [observability]: github.com/matzehuels/packopt/pkg/observability
// [buildinfo]: github.com/matzehuels/packopt/pkg/buildinfo
package pkg

// Package transform holds the byte-level transforms applied by the pipeline
// stages.
//
// Each transform is a [Func]: it receives the full content of one file and
// returns the replacement content. Transforms are pure and never touch the
// filesystem, so the caller decides where the bytes come from and go to.
//
//   - [MinifyJSON]: compact JSON re-serialization
//   - [MinifyYAML]: YAML to compact JSON conversion
//   - [StripShaderComments]: line comment and blank line removal for GLSL
//   - [RecompressPNG]: lossless maximum-effort PNG re-encoding
//
// Failures carry [errors.ErrCodeParse] or [errors.ErrCodeCodec].
package transform

// Func transforms the content of one file.
type Func func(data []byte) ([]byte, error)

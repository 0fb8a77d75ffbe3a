// Package archive packages a directory tree into a single zip file and
// computes an advisory digest over the finished archive.
//
// Only files are stored, keyed by their slash-separated path relative to the
// tree root, in traversal order. Directories are implied by the entry names.
// The digest is reported to the operator and never embedded in the archive.
//
//	sum, err := archive.Write(ctx, workDir, "/out/pack.zip", archive.DefaultOptions())
//	fmt.Printf("%s: %s\n", sum.Digest, sum.Sum)
package archive

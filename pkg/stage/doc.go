// Package stage runs per-file work across a directory tree.
//
// An [Executor] applies a unit function to every entry of a batch. Batches
// with the [Parallel] policy spread units over a bounded worker pool sized to
// the available parallelism; batches with the [Sequential] policy run one unit
// at a time on the calling goroutine. Either way the call returns only after
// every started unit has finished, and the first failure aborts the batch.
//
// A [Stage] is a data descriptor: which files it matches, which
// [transform.Func] it applies and which policy it runs under. [Defaults]
// returns the fixed transform stages in pipeline order:
//
//	exec := stage.NewExecutor(0, logger)
//	for _, s := range stage.Defaults() {
//	    if _, err := exec.Apply(ctx, workDir, s); err != nil {
//	        return err
//	    }
//	}
//
// PNG recompression is Sequential: at most one image is decoded at a time.
package stage

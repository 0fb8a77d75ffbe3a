package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/packopt/pkg/archive"
	"github.com/matzehuels/packopt/pkg/errors"
	"github.com/matzehuels/packopt/pkg/observability"
	"github.com/matzehuels/packopt/pkg/stage"
)

// ConfirmFunc asks the operator to approve the step described by prompt.
type ConfirmFunc func(prompt string) bool

// AutoConfirm approves every prompt.
func AutoConfirm(string) bool { return true }

// Result describes how a run ended.
type Result struct {
	RunID string

	// State is the last state entered: Done, Aborted, or the state that
	// failed when Run returns an error.
	State State

	// AbortedAt is the declined state. Only meaningful when State is Aborted.
	AbortedAt State

	WorkDir     string
	KeptWorkDir bool

	Reports  []stage.Report
	Archive  *archive.Summary
	Duration time.Duration
}

// Aborted reports whether the operator declined a confirmation.
func (r *Result) Aborted() bool {
	return r.State == StateAborted
}

// step binds a transform stage to its state.
type step struct {
	state State
	stage stage.Stage
}

// stageStates maps the default stages onto the state machine.
var stageStates = map[string]State{
	stage.NameJSON:   StateMinifyJSON,
	stage.NameYAML:   StateMinifyYAML,
	stage.NameShader: StateStripShaders,
	stage.NamePNG:    StateRecompressPNG,
}

// Controller runs the pipeline once.
type Controller struct {
	opts    Options
	confirm ConfirmFunc
	runID   string
	steps   []step
}

// NewController creates a controller. When opts.NoConfirm is set, or confirm
// is nil, every gate is approved.
func NewController(opts Options, confirm ConfirmFunc) *Controller {
	if opts.NoConfirm || confirm == nil {
		confirm = AutoConfirm
	}
	defaults := stage.Defaults()
	steps := make([]step, 0, len(defaults))
	for _, s := range defaults {
		steps = append(steps, step{state: stageStates[s.Name], stage: s})
	}
	return &Controller{
		opts:    opts,
		confirm: confirm,
		runID:   uuid.NewString(),
		steps:   steps,
	}
}

// RunID returns the identifier attached to every log line of the run.
func (c *Controller) RunID() string {
	return c.runID
}

// run carries the mutable state of one Run call.
type run struct {
	*Controller
	ctx    context.Context
	logger *log.Logger
	exec   *stage.Executor
	result *Result
}

// Run executes the state machine. A declined confirmation ends the run with
// State Aborted and a nil error. Any other failure is returned as is, with
// State naming the step that failed.
func (c *Controller) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: c.runID, State: StateValidate}
	defer func() { res.Duration = time.Since(start) }()

	if err := c.opts.Validate(); err != nil {
		return res, err
	}

	logger := c.opts.Logger.With("run", shortID(c.runID))
	r := &run{
		Controller: c,
		ctx:        ctx,
		logger:     logger,
		exec:       stage.NewExecutor(c.opts.Workers, logger),
		result:     res,
	}
	return res, r.execute()
}

func (r *run) execute() (err error) {
	opts := &r.opts

	r.enter(StateConfirmEmptyOutput)
	empty, err := stage.IsEmpty(opts.OutputPath)
	if err != nil {
		return err
	}
	if !empty {
		prompt := fmt.Sprintf("Output directory is not empty.\nContinuing will delete all files in:\n%s", opts.OutputPath)
		if !r.gate(prompt) {
			return nil
		}
		if err := r.record(r.exec.Empty(r.ctx, opts.OutputPath)); err != nil {
			return err
		}
	}

	r.enter(StateClone)
	work, err := os.MkdirTemp("", "packopt-"+shortID(r.runID)+"-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create working directory")
	}
	r.result.WorkDir = work
	defer func() {
		if r.result.KeptWorkDir {
			return
		}
		if rmErr := os.RemoveAll(work); rmErr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeIO, rmErr, "remove working directory %s", work)
		}
	}()

	if !r.gate(fmt.Sprintf("Clone all files in %s into %s", opts.InputPath, work)) {
		return nil
	}
	if err := r.record(r.exec.Clone(r.ctx, opts.InputPath, work, stage.KeepFilter(opts.Exclude...))); err != nil {
		return err
	}

	for _, st := range r.steps {
		r.enter(st.state)
		if !r.gate(st.stage.Prompt) {
			return nil
		}
		if err := r.record(r.exec.Apply(r.ctx, work, st.stage)); err != nil {
			return err
		}
	}

	if opts.ShouldArchive() {
		if err := r.archive(work); err != nil || r.result.Aborted() {
			return err
		}
	} else {
		r.enter(StateCopyToOutput)
		if !r.gate(fmt.Sprintf("Copy all files in %s into %s", work, opts.OutputPath)) {
			return nil
		}
		if err := r.record(r.exec.Clone(r.ctx, work, opts.OutputPath, nil)); err != nil {
			return err
		}
	}

	r.enter(StateConfirmDeleteWorkingTree)
	if !r.gate(fmt.Sprintf("Delete temporary directory %s", work)) {
		r.result.KeptWorkDir = true
		r.logger.Info("Kept temporary directory", "path", work)
		return nil
	}
	r.logger.Info("Deleting temporary directory", "path", work)

	r.enter(StateDone)
	return nil
}

func (r *run) archive(work string) error {
	r.enter(StateArchive)
	dest := r.opts.ZipPath()
	if !r.gate(fmt.Sprintf("Zip all files and output to %s", dest)) {
		return nil
	}

	sum, err := archive.Write(r.ctx, work, dest, r.opts.ArchiveOptions())
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	r.result.Archive = sum
	r.logger.Info(fmt.Sprintf("Zipped %d files in %s", sum.Files, sum.Duration.Round(time.Millisecond)),
		"path", sum.Path,
		"bytes", sum.Bytes)
	r.logger.Info(fmt.Sprintf("Zip file %s hash: %s", sum.Digest.Label(), sum.Sum))
	return nil
}

func (r *run) enter(s State) {
	r.result.State = s
	r.logger.Debug("enter state", "state", s)
}

// gate asks for confirmation of the current state. A refusal moves the run
// to Aborted.
func (r *run) gate(prompt string) bool {
	approved := r.confirm(prompt)
	observability.Pipeline().OnConfirm(r.ctx, prompt, approved)
	if !approved {
		r.result.AbortedAt = r.result.State
		r.result.State = StateAborted
		r.logger.Warn("User did not confirm to continue", "state", r.result.AbortedAt)
	}
	return approved
}

func (r *run) record(report stage.Report, err error) error {
	r.result.Reports = append(r.result.Reports, report)
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

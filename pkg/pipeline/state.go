package pipeline

// State is a step of the pipeline state machine.
type State int

const (
	StateValidate State = iota
	StateConfirmEmptyOutput
	StateClone
	StateMinifyJSON
	StateMinifyYAML
	StateStripShaders
	StateRecompressPNG
	StateArchive
	StateCopyToOutput
	StateConfirmDeleteWorkingTree
	StateDone
	StateAborted
)

var stateNames = [...]string{
	StateValidate:                 "validate",
	StateConfirmEmptyOutput:       "confirm-empty-output",
	StateClone:                    "clone",
	StateMinifyJSON:               "minify-json",
	StateMinifyYAML:               "minify-yaml",
	StateStripShaders:             "strip-shaders",
	StateRecompressPNG:            "recompress-png",
	StateArchive:                  "archive",
	StateCopyToOutput:             "copy-to-output",
	StateConfirmDeleteWorkingTree: "confirm-delete-working-tree",
	StateDone:                     "done",
	StateAborted:                  "aborted",
}

// String returns the kebab-case state name.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted
}

package cli

import (
	"context"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/packopt/pkg/pipeline"
)

// newConfirm returns a confirmation gate that runs one interactive prompt per
// call. A prompt that cannot run, or is interrupted, counts as a refusal.
func newConfirm(ctx context.Context, in io.Reader, out io.Writer) pipeline.ConfirmFunc {
	return func(prompt string) bool {
		p := tea.NewProgram(newConfirmModel(prompt),
			tea.WithContext(ctx),
			tea.WithInput(in),
			tea.WithOutput(out),
		)
		final, err := p.Run()
		if err != nil {
			return false
		}
		m, ok := final.(confirmModel)
		return ok && m.approved
	}
}

// parseAnswer interprets a typed answer. ok is false for anything other
// than yes or no.
func parseAnswer(s string) (approved, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	return false, false
}

// =============================================================================
// confirmModel - yes/no prompt
// =============================================================================

type confirmModel struct {
	prompt   string
	input    string
	retries  int
	done     bool
	approved bool
}

func newConfirmModel(prompt string) confirmModel {
	return confirmModel{prompt: prompt}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.done, m.approved = true, false
		return m, tea.Quit
	case tea.KeyEnter, tea.KeyCtrlJ:
		if approved, ok := parseAnswer(m.input); ok {
			m.done, m.approved = true, approved
			return m, tea.Quit
		}
		m.input = ""
		m.retries++
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.input += string(key.Runes)
	}
	return m, nil
}

func (m confirmModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.prompt))
	b.WriteString("\n")
	b.WriteString("Continue? (Y)es (N)o")
	b.WriteString("\n")
	if m.retries > 0 && !m.done {
		b.WriteString(StyleWarning.Render("Please answer yes or no"))
		b.WriteString("\n")
	}
	b.WriteString(StyleHighlight.Render(iconInfo) + " " + m.input)
	if m.done {
		b.WriteString("\n")
	}
	return b.String()
}

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/forcefield/pkg/layout"
	"github.com/matzehuels/forcefield/pkg/pipeline"
)

// =============================================================================
// WatchModel - Live layout progress
// =============================================================================

// progressMsg carries one layout progress report into the model.
type progressMsg layout.Progress

// runDoneMsg signals that the pipeline finished.
type runDoneMsg struct {
	err error
}

// watchModel is the bubbletea model behind 'layout --watch'. It renders a
// progress bar fed by the pipeline's progress callback and cancels the run
// when the user presses q.
type watchModel struct {
	percent   float64
	message   string
	eta       time.Duration
	width     int
	canceling bool
	done      bool
	cancel    context.CancelFunc
}

func newWatchModel(cancel context.CancelFunc) watchModel {
	return watchModel{width: 80, cancel: cancel}
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.canceling = true
			m.cancel()
			// Keep running until the pipeline acknowledges the cancel.
			return m, nil
		}
	case progressMsg:
		m.percent = msg.Percent
		m.message = msg.Message
		m.eta = time.Duration(msg.ETAMillis) * time.Millisecond
		return m, nil
	case runDoneMsg:
		m.done = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder

	b.WriteString(StyleTitle.Render("Computing layout"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q cancel"))
	b.WriteString("\n\n")

	barWidth := 40
	if m.width > 0 && m.width-12 < barWidth {
		barWidth = m.width - 12
	}
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(m.percent / 100 * float64(barWidth))
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	bar := StyleHighlight.Render(strings.Repeat("█", filled)) + StyleDim.Render(strings.Repeat("░", barWidth-filled))
	b.WriteString(bar)
	b.WriteString(" " + StyleValue.Render(fmt.Sprintf("%3.0f%%", m.percent)))
	b.WriteString("\n")

	status := m.message
	if m.canceling {
		status = "canceling..."
	}
	if status != "" {
		b.WriteString(StyleDim.Render(status))
		b.WriteString("\n")
	}
	if m.eta > 0 && !m.canceling {
		b.WriteString(StyleDim.Render(fmt.Sprintf("about %s left", m.eta.Round(time.Second))))
		b.WriteString("\n")
	}

	return b.String()
}

// =============================================================================
// Execution
// =============================================================================

// runWatched executes the pipeline under a live progress view. A cancel from
// the view (or the parent context) surfaces as the pipeline's own canceled
// error once the run winds down.
func (c *CLI) runWatched(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newWatchModel(cancel))
	opts.OnProgress = func(pr layout.Progress) {
		p.Send(progressMsg(pr))
	}

	var (
		result *pipeline.Result
		runErr error
	)
	go func() {
		result, runErr = runner.Execute(runCtx, opts)
		p.Send(runDoneMsg{err: runErr})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		return nil, fmt.Errorf("progress view: %w", err)
	}

	if runErr != nil {
		return nil, runErr
	}
	return result, nil
}

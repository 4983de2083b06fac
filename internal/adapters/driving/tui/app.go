package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// historySeedLimit is how many past questions are loaded into the
// transcript on startup.
const historySeedLimit = 5

// entry is one question/answer exchange in the transcript.
type entry struct {
	question string
	answer   *domain.Answer
	err      error
}

// App is the chat application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the chat UI styles.
	styles *styles.Styles

	// input is the question input field.
	input textinput.Model

	// transcript scrolls through past exchanges.
	transcript viewport.Model

	// spin animates while a question is in flight.
	spin spinner.Model

	// entries holds the conversation so far, oldest first.
	entries []entry

	// asking is true while a question is in flight.
	asking bool

	// statusLine summarises the index state.
	statusLine string

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates the first WindowSizeMsg has arrived.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	input := textinput.New()
	input.Placeholder = "Ask a question about your documents..."
	input.Focus()
	input.CharLimit = 500

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		input:      input,
		spin:       spin,
		statusLine: "index status unknown",
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.SetWindowTitle("askdocs - Document QA"),
		a.loadStatusCmd(),
		a.loadHistoryCmd(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.transcript = viewport.New(msg.Width, a.transcriptHeight())
		a.transcript.SetContent(a.renderTranscript())
		a.transcript.GotoBottom()
		a.input.Width = msg.Width - 6
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.AnswerReceived:
		a.asking = false
		a.entries = append(a.entries, entry{
			question: msg.Question,
			answer:   msg.Answer,
			err:      msg.Err,
		})
		a.refreshTranscript()
		return a, nil

	case messages.StatusLoaded:
		if msg.Err == nil && msg.Status != nil {
			if msg.Status.Ready {
				a.statusLine = fmt.Sprintf("%d documents, %d passages indexed",
					msg.Status.Documents, msg.Status.Passages)
			} else {
				a.statusLine = "index not ready, run 'askdocs index' first"
			}
		}
		return a, nil

	case messages.HistoryLoaded:
		if msg.Err == nil && len(a.entries) == 0 {
			// Seed the transcript oldest first.
			for i := len(msg.Records) - 1; i >= 0; i-- {
				r := msg.Records[i]
				a.entries = append(a.entries, entry{
					question: r.Question,
					answer: &domain.Answer{
						Text:          r.Answer,
						WebSearchUsed: r.WebSearchUsed,
					},
				})
			}
			a.refreshTranscript()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.asking {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleKey processes keyboard input.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit

	case tea.KeyEsc:
		a.input.SetValue("")
		return a, nil

	case tea.KeyEnter:
		question := strings.TrimSpace(a.input.Value())
		if question == "" || a.asking {
			return a, nil
		}
		a.input.SetValue("")
		a.asking = true
		return a, tea.Batch(a.spin.Tick, a.askCmd(question))

	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		a.transcript, cmd = a.transcript.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(a.styles.Title.Render("AskDocs"))
	b.WriteString("\n\n")
	b.WriteString(a.transcript.View())
	b.WriteString("\n")

	if a.asking {
		b.WriteString(a.spin.View())
		b.WriteString(a.styles.Muted.Render(" thinking..."))
	} else {
		b.WriteString(a.styles.InputField.Render(a.input.View()))
	}
	b.WriteString("\n")

	status := a.statusLine + "  " +
		a.styles.Help.Render("enter: ask | ↑/↓: scroll | esc: clear | ctrl+c: quit")
	b.WriteString(a.styles.StatusBar.Render(status))

	return b.String()
}

// transcriptHeight is the viewport height given the surrounding chrome.
func (a *App) transcriptHeight() int {
	h := a.height - 7
	if h < 3 {
		h = 3
	}
	return h
}

// refreshTranscript re-renders the transcript and scrolls to the bottom.
func (a *App) refreshTranscript() {
	if !a.ready {
		return
	}
	a.transcript.SetContent(a.renderTranscript())
	a.transcript.GotoBottom()
}

// renderTranscript renders all exchanges, oldest first.
func (a *App) renderTranscript() string {
	if len(a.entries) == 0 {
		return a.styles.Muted.Render("No questions yet. Type one below and press Enter.")
	}

	var b strings.Builder
	for i := range a.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(a.renderEntry(&a.entries[i]))
	}
	return b.String()
}

// renderEntry renders one question/answer exchange.
func (a *App) renderEntry(e *entry) string {
	var b strings.Builder

	b.WriteString(a.styles.Question.Render("> " + e.question))
	b.WriteString("\n")

	if e.err != nil {
		b.WriteString(a.styles.Error.Render("error: " + e.err.Error()))
		return b.String()
	}

	b.WriteString(a.styles.Answer.Render(e.answer.Text))

	if e.answer.WebSearchUsed {
		b.WriteString("\n")
		b.WriteString(a.styles.WebBadge.Render("(answered from web search)"))
	}

	for i, c := range e.answer.Citations {
		b.WriteString("\n")
		if c.URL != "" {
			b.WriteString(a.styles.Citation.Render(
				fmt.Sprintf("[%d] %s (%s)", i+1, c.Source, c.URL)))
		} else {
			b.WriteString(a.styles.Citation.Render(
				fmt.Sprintf("[%d] %s, page %d", i+1, c.Source, c.Page)))
		}
	}

	return b.String()
}

// askCmd runs one question through the agent.
func (a *App) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.ports.Ask.Ask(a.ctx, question)
		return messages.AnswerReceived{
			Question: question,
			Answer:   answer,
			Err:      err,
		}
	}
}

// loadStatusCmd fetches the index status for the status line.
func (a *App) loadStatusCmd() tea.Cmd {
	if a.ports.Index == nil {
		return nil
	}
	return func() tea.Msg {
		status, err := a.ports.Index.Status(a.ctx)
		return messages.StatusLoaded{Status: status, Err: err}
	}
}

// loadHistoryCmd fetches recent questions to seed the transcript.
func (a *App) loadHistoryCmd() tea.Cmd {
	if a.ports.History == nil {
		return nil
	}
	return func() tea.Msg {
		records, err := a.ports.History.List(a.ctx, historySeedLimit)
		return messages.HistoryLoaded{Records: records, Err: err}
	}
}

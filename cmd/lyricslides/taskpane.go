package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/a-h/lyricslides/host"
	"github.com/a-h/lyricslides/pane"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

type PaneCommand struct {
	Endpoint string `help:"The URL of the slide generation endpoint." env:"GENERATION_ENDPOINT_URL"`
	Output   string `help:"The presentation file to save slides to." short:"o" default:"slides.pptx"`
	LogFile  string `help:"The file to write logs to." env:"LOG_FILE" default:"lyricslides.log"`
	LogLevel string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c PaneCommand) Run(ctx context.Context) (err error) {
	lf, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer lf.Close()
	log := newLogger(lf, c.LogLevel)

	doc := host.NewPresentation()
	p := tea.NewProgram(newTaskPaneModel(ctx, newPane(log, c.Endpoint, doc), doc, c.Output))
	if _, err = p.Run(); err != nil {
		return err
	}
	return nil
}

// Dracula color scheme.
var (
	Background  = lipgloss.Color("#282a36")
	CurrentLine = lipgloss.Color("#44475a")
	Foreground  = lipgloss.Color("#f8f8f2")
	Comment     = lipgloss.Color("#6272a4")
	Cyan        = lipgloss.Color("#8be9fd")
	Green       = lipgloss.Color("#50fa7b")
	Pink        = lipgloss.Color("#ff79c6")
	Purple      = lipgloss.Color("#bd93f9")
	Red         = lipgloss.Color("#ff5555")
)

var (
	headerStyle     = lipgloss.NewStyle().Background(CurrentLine).Foreground(Purple).Bold(true).Padding(0, 1)
	buttonStyle     = lipgloss.NewStyle().Background(Purple).Foreground(Background).Bold(true).Padding(0, 2)
	busyButtonStyle = lipgloss.NewStyle().Background(CurrentLine).Foreground(Comment).Padding(0, 2)
	statusStyle     = lipgloss.NewStyle().Foreground(Green)
	errorStyle      = lipgloss.NewStyle().Foreground(Red)
	slideTitleStyle = lipgloss.NewStyle().Foreground(Pink).Bold(true)
	slideBodyStyle  = lipgloss.NewStyle().Foreground(Foreground).Background(Background).Padding(0, 1).MarginBottom(1)
	slideIDStyle    = lipgloss.NewStyle().Foreground(Comment)
	spinnerStyle    = lipgloss.NewStyle().Foreground(Cyan)
)

type createdMsg struct {
	result pane.Result
	err    error
}

type taskPaneModel struct {
	ctx      context.Context
	pane     *pane.Pane
	doc      *host.Presentation
	output   string
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	busy     bool
	status   string
	err      error
}

func newTaskPaneModel(ctx context.Context, p *pane.Pane, doc *host.Presentation, output string) taskPaneModel {
	ti := textinput.New()
	ti.Placeholder = "https://madely.us/lyrics/..."
	ti.Prompt = "URL ┃ "
	ti.CharLimit = 2048
	ti.Width = 60
	ti.Focus()

	vp := viewport.New(80, 16)
	vp.SetContent(slideIDStyle.Render("No slides yet."))

	return taskPaneModel{
		ctx:      ctx,
		pane:     p,
		doc:      doc,
		output:   output,
		input:    ti,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		viewport: vp,
	}
}

func (m taskPaneModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m taskPaneModel) create(pageURL string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.pane.Create(m.ctx, pageURL)
		if result.Created > 0 && m.output != "" {
			if saveErr := savePresentation(m.doc, m.output); saveErr != nil {
				err = errors.Join(err, saveErr)
			}
		}
		return createdMsg{result: result, err: err}
	}
}

func (m taskPaneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case createdMsg:
		m.busy = false
		m.err = msg.err
		m.status = ""
		if msg.err == nil {
			m.status = fmt.Sprintf("Created %d slides for %q.", msg.result.Created, msg.result.Title)
			if m.output != "" && msg.result.Created > 0 {
				m.status += " Saved to " + m.output + "."
			}
		}
		m.viewport.SetContent(formatSlides(m.doc.Slides(), m.viewport.Width))
		m.viewport.GotoBottom()
		return m, nil
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 6
		m.input.Width = msg.Width - len(m.input.Prompt) - 2
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if m.busy {
				// Only one presentation is created at a time.
				return m, nil
			}
			m.busy = true
			m.err = nil
			m.status = "Creating slides..."
			return m, tea.Batch(m.spinner.Tick, m.create(strings.TrimSpace(m.input.Value())))
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m taskPaneModel) View() string {
	button := buttonStyle.Render("Create slides ⏎")
	if m.busy {
		button = busyButtonStyle.Render("Creating...")
	}
	var status string
	switch {
	case m.err != nil:
		status = errorStyle.Render(m.err.Error())
	case m.busy:
		status = m.spinner.View() + " " + statusStyle.Render(m.status)
	default:
		status = statusStyle.Render(m.status)
	}
	return fmt.Sprintf("%s\n\n%s  %s\n%s\n\n%s\n",
		headerStyle.Render("Lyric Slides"),
		m.input.View(),
		button,
		status,
		m.viewport.View(),
	)
}

func formatSlides(slides []host.Slide, width int) string {
	if len(slides) == 0 {
		return slideIDStyle.Render("No slides yet.")
	}
	if width <= 0 {
		width = 80
	}
	var sb strings.Builder
	for i, s := range slides {
		title, _ := s.PlaceholderText(host.PlaceholderTitle)
		body, _ := s.PlaceholderText(host.PlaceholderBody)
		sb.WriteString(slideIDStyle.Render(fmt.Sprintf("%d.", i+1)))
		sb.WriteString(" ")
		sb.WriteString(slideTitleStyle.Render(title))
		sb.WriteString("\n")
		sb.WriteString(slideBodyStyle.Render(wordwrap.String(body, width-4)))
		sb.WriteString("\n")
	}
	return sb.String()
}

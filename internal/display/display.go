// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type keeps an order status bar and an input prompt at the
// bottom of the terminal. All conversation output is printed above the
// rendered area via Program.Println, so concurrent writes never garble
// the display.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	stageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	totalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	unpricedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// BannerStyle is used for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	menuStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

const promptText = "you> "

// Status is what the bar shows about the current order.
type Status struct {
	Stage domain.Stage
	Items []string
	// Total is the priced order total, or negative when it cannot be priced.
	Total float64
	// Listening is true while the microphone is open.
	Listening bool
}

// statusMsg carries a new Status into the Bubble Tea loop.
type statusMsg Status

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may call
// [UI.Println], [UI.SetStatus], and read from [UI.InputChan] once
// [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	inputCh chan string
	talkCh  chan struct{}
	readyCh chan struct{}
	quitCh  chan struct{}
	done    atomic.Bool
}

// NewUI creates the display. Call Run() to start.
func NewUI() *UI {
	return &UI{
		inputCh: make(chan string, 16),
		talkCh:  make(chan struct{}, 1),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Println prints a line above the prompt. Falls back to fmt.Println
// when the program is not running.
func (u *UI) Println(a ...any) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt on its own line.
func (u *UI) Printf(format string, a ...any) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// TalkChan fires when the user presses ctrl+t to speak.
func (u *UI) TalkChan() <-chan struct{} { return u.talkCh }

// SetStatus updates the order status bar.
func (u *UI) SetStatus(s Status) {
	if u.program != nil && !u.done.Load() {
		u.program.Send(statusMsg(s))
	}
}

// ── Styled print helpers ─────────────────────────────────────────

// PrintChat prints an assistant reply, one styled line per text line.
func (u *UI) PrintChat(text string) {
	for _, line := range strings.Split(text, "\n") {
		u.Println(chatStyle.Render("  " + line))
	}
}

// PrintMenu prints the menu listing.
func (u *UI) PrintMenu(text string) {
	u.Println(secondaryStyle.Render("  ── Menu ──"))
	for _, line := range strings.Split(text, "\n") {
		u.Println(menuStyle.Render("  " + line))
	}
}

// PrintHint prints a dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an error line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentOutputStyle.Render("  " + text))
}

// PrintVoice prints a voice-recognised input line.
func (u *UI) PrintVoice(text string) {
	u.Println(secondaryStyle.Render("[voice] ") + userInputEchoStyle.Render(text))
}

// PrintUserInput echoes typed input into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render(promptText) + userInputEchoStyle.Render(text))
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	m := newModel(u.inputCh, u.talkCh, u.readyCh, u.PrintUserInput)
	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	input   textinput.Model
	inputCh chan<- string
	talkCh  chan<- struct{}
	readyCh chan struct{}
	echoFn  func(string)
	status  Status
	width   int
}

func newModel(inputCh chan<- string, talkCh chan<- struct{}, readyCh chan struct{}, echo func(string)) model {
	ti := textinput.New()
	// Plain-text prompt: styled prompts add ANSI bytes that break the
	// textinput width math.
	ti.Prompt = promptText
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	return model{
		input:   ti,
		inputCh: inputCh,
		talkCh:  talkCh,
		readyCh: readyCh,
		echoFn:  echo,
		status:  Status{Stage: domain.StageStart, Total: 0},
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, signalReady(m.readyCh), tea.SetWindowTitle("Mamma Mia's"))
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyCtrlT:
			select {
			case m.talkCh <- struct{}{}:
			default:
			}
			return m, nil
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) == "" {
				return m, nil
			}
			m.inputCh <- v
			// Echo from a Cmd so Println never runs inside Update.
			echo := m.echoFn
			return m, func() tea.Msg {
				echo(v)
				return nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(promptText) {
			m.input.Width = msg.Width - len(promptText)
		}
		return m, nil

	case statusMsg:
		m.status = Status(msg)
		return m, tea.SetWindowTitle(m.titleStr())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) titleStr() string {
	if len(m.status.Items) == 0 {
		return "Mamma Mia's"
	}
	return fmt.Sprintf("Mamma Mia's | %d item(s) | %s", len(m.status.Items), fmtTotal(m.status.Total))
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.renderBar())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	return b.String()
}

func (m model) renderBar() string {
	sep := sepStyle.Render("  │  ")
	parts := []string{labelStyle.Render("stage: ") + stageStyle.Render(stageLabel(m.status.Stage))}

	if n := len(m.status.Items); n > 0 {
		parts = append(parts, labelStyle.Render(strings.Join(m.status.Items, ", ")))
		if m.status.Total >= 0 {
			parts = append(parts, totalStyle.Render(fmtTotal(m.status.Total)))
		} else {
			parts = append(parts, unpricedStyle.Render("total unavailable"))
		}
	}
	if m.status.Listening {
		parts = append(parts, unpricedStyle.Render("● listening"))
	} else {
		parts = append(parts, secondaryStyle.Render("ctrl+t to talk"))
	}

	w := m.width
	if w <= 0 {
		w = 80
	}
	return barBg.Width(w).Render(" " + strings.Join(parts, sep) + " ")
}

// ── Helpers ──────────────────────────────────────────────────────

var stageLabels = map[domain.Stage]string{
	domain.StageStart:                   "welcome",
	domain.StageAwaitingOrder:           "choosing",
	domain.StageAwaitingItemDetails:     "sizes",
	domain.StageAwaitingSpecialRequests: "special requests",
	domain.StageAwaitingConfirmation:    "confirm",
	domain.StageAwaitingAmendment:       "changing order",
	domain.StageAwaitingDeliveryDetails: "delivery details",
	domain.StageCompleted:               "done",
}

func stageLabel(s domain.Stage) string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return string(s)
}

func fmtTotal(t float64) string {
	if t < 0 {
		return "n/a"
	}
	return fmt.Sprintf("$%.2f", t)
}

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/sigma-optimizer/internal/tui/styles"
)

// LogLine is one entry of the in-app activity log.
type LogLine struct {
	Time    time.Time
	Level   string // "info", "warn", "error", "success"
	Source  string // "OPTIMIZE", "CHART", "CONFIG"
	Message string
}

// LogStream is a scrollable log viewer. It follows new lines until the user
// scrolls up, and resumes on G.
type LogStream struct {
	lines      []LogLine
	viewport   viewport.Model
	autoScroll bool
	maxLines   int
}

// NewLogStream creates a new LogStream with the given dimensions.
func NewLogStream(width, height int) LogStream {
	return LogStream{
		viewport:   viewport.New(width, height),
		autoScroll: true,
		maxLines:   500,
	}
}

// SetSize resizes the viewport, keeping the content.
func (l *LogStream) SetSize(width, height int) {
	l.viewport.Width = width
	l.viewport.Height = max(height, 1)
	l.viewport.SetContent(l.renderLines())
	if l.autoScroll {
		l.viewport.GotoBottom()
	}
}

// Update handles scrolling keys.
func (l LogStream) Update(msg tea.Msg) (LogStream, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "G" {
		l.autoScroll = true
		l.viewport.GotoBottom()
		return l, nil
	}

	var cmd tea.Cmd
	l.viewport, cmd = l.viewport.Update(msg)
	l.autoScroll = l.viewport.AtBottom()
	return l, cmd
}

// View returns the title line and the viewport.
func (l LogStream) View() string {
	header := lipgloss.NewStyle().Foreground(styles.TextSecondary).Bold(true).Render("Activity")
	if !l.autoScroll {
		header += lipgloss.NewStyle().Foreground(styles.StatusWarn).Render(" (paused, G to follow)")
	}
	return header + "\n" + l.viewport.View()
}

// AddLine appends a log line, dropping the oldest beyond the buffer size.
func (l *LogStream) AddLine(line LogLine) {
	l.lines = append(l.lines, line)
	if over := len(l.lines) - l.maxLines; over > 0 {
		l.lines = l.lines[over:]
	}
	l.viewport.SetContent(l.renderLines())
	if l.autoScroll {
		l.viewport.GotoBottom()
	}
}

// Lines returns the buffered lines, oldest first.
func (l LogStream) Lines() []LogLine {
	return l.lines
}

// Last returns the most recent line; ok is false when the log is empty.
func (l LogStream) Last() (line LogLine, ok bool) {
	if len(l.lines) == 0 {
		return LogLine{}, false
	}
	return l.lines[len(l.lines)-1], true
}

func levelColor(level string) lipgloss.Color {
	switch strings.ToLower(level) {
	case "info":
		return styles.TextSecondary
	case "warn":
		return styles.StatusWarn
	case "error":
		return styles.StatusError
	case "success":
		return styles.StatusOK
	default:
		return styles.TextMuted
	}
}

// RenderLine formats a single log line.
func RenderLine(line LogLine) string {
	color := levelColor(line.Level)
	ts := lipgloss.NewStyle().Foreground(styles.TextMuted).Render(line.Time.Format("15:04:05"))
	lvl := lipgloss.NewStyle().Foreground(color).Bold(true).Render(fmt.Sprintf("%-7s", strings.ToUpper(line.Level)))
	src := lipgloss.NewStyle().Foreground(styles.AccentSecondary).Render(fmt.Sprintf("%-9s", line.Source))
	msg := lipgloss.NewStyle().Foreground(color).Render(line.Message)
	return ts + " " + lvl + " " + src + " " + msg
}

func (l *LogStream) renderLines() string {
	var b strings.Builder
	for _, line := range l.lines {
		b.WriteString(RenderLine(line))
		b.WriteByte('\n')
	}
	return b.String()
}

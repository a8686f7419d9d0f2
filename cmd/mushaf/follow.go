package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/escalopa/quran-mushaf/internal/application"
	"github.com/escalopa/quran-mushaf/internal/domain"
)

const (
	frameInterval = 50 * time.Millisecond
	seekStep      = 5 * time.Second
)

var (
	activeWordStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0000"))

	wordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)
)

// trackClock reports the playback position inside the audio file, which for
// full-surah tracks starts at the ayah offset.
type trackClock struct {
	*application.PlaybackTimer
	start time.Duration
}

func (c trackClock) Position() time.Duration {
	return c.start + c.PlaybackTimer.Position()
}

func newTrackClock(track application.Track) trackClock {
	return trackClock{
		PlaybackTimer: application.NewPlaybackTimer(max(track.End-track.Start, 0)),
		start:         track.Start,
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type followModel struct {
	title    string
	words    []domain.Word
	clock    trackClock
	sync     *application.Synchronizer
	bar      progress.Model
	labels   map[string]string
	length   time.Duration
	word     int
	active   bool
	quitting bool
	done     bool
}

func newFollowModel(title string, track application.Track, words []domain.Word, labels map[string]string) followModel {
	return followModel{
		title:  title,
		words:  words,
		clock:  newTrackClock(track),
		sync:   application.NewSynchronizer(track.Timings),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		labels: labels,
		length: track.End - track.Start,
	}
}

func (m followModel) Init() tea.Cmd {
	m.clock.Play()
	return tick()
}

func (m followModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case " ":
			m.clock.Toggle()
		case "left":
			m.clock.Seek(-seekStep)
		case "right":
			m.clock.Seek(seekStep)
		case "q", "Q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = max(min(msg.Width-4, 60), 10)
		return m, nil

	case tickMsg:
		m.word, m.active = m.sync.Update(m.clock.Position(), m.clock.Paused())
		if m.clock.Finished() {
			m.done = true
			return m, tea.Quit
		}
		return m, tick()
	}

	return m, nil
}

func (m followModel) View() string {
	if m.done {
		return completeStyle.Render("\n  "+m.labels["follow_done"]) + "\n"
	}
	if m.quitting {
		return ""
	}

	parts := make([]string, len(m.words))
	for i, w := range m.words {
		if m.active && w.WordNumber == m.word {
			parts[i] = activeWordStyle.Render(w.Uthmani)
		} else {
			parts[i] = wordStyle.Render(w.Uthmani)
		}
	}

	status := ""
	if m.clock.Paused() {
		status = pausedStyle.Render(" " + m.labels["follow_paused"])
	}

	var sb strings.Builder
	sb.WriteString(m.title + status + "\n\n")
	sb.WriteString(strings.Join(parts, " ") + "\n\n")
	sb.WriteString(m.bar.ViewAs(m.fraction()) + "\n\n")
	sb.WriteString(controlsStyle.Render(m.labels["follow_controls"]))
	return sb.String()
}

func (m followModel) fraction() float64 {
	if m.length <= 0 {
		return 0
	}
	return float64(m.clock.PlaybackTimer.Position()) / float64(m.length)
}

func (c *cli) followInteractive(track application.Track, words []domain.Word, title string) error {
	labels := map[string]string{}
	for _, key := range []string{"follow_done", "follow_paused", "follow_controls"} {
		labels[key] = c.tr.Get(c.lang, key)
	}

	p := tea.NewProgram(newFollowModel(title, track, words, labels), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// followPlain prints each word as the clock reaches it, until the track ends
func (c *cli) followPlain(ctx context.Context, track application.Track, words []domain.Word) error {
	clock := newTrackClock(track)
	text := make(map[int]string, len(words))
	for _, w := range words {
		text[w.WordNumber] = w.Uthmani
	}

	ctx, cancel := context.WithTimeout(ctx, track.End-track.Start+frameInterval)
	defer cancel()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	clock.Play()
	application.NewSynchronizer(track.Timings).Run(ctx, ticker.C, clock, func(word int, ok bool) {
		if ok {
			c.printf("%d %s\n", word, text[word])
		}
	})

	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	return nil
}

package status

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/madchat/pkg/process"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSizedModel(t *testing.T) StatusModel {
	t.Helper()
	// ASCII color profile for stable output
	lipgloss.SetColorProfile(termenv.Ascii)
	m, _ := NewStatusModel().Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func TestStatusBarInactiveOutput(t *testing.T) {
	m := newSizedModel(t)

	assert.False(t, m.Active())
	assert.Empty(t, m.View())
}

func TestStatusBarStartStreaming(t *testing.T) {
	m := newSizedModel(t)

	m, cmd := m.Update(StartStreamingMsg{State: process.StateSending})
	require.NotNil(t, cmd)

	assert.True(t, m.Active())
	assert.Equal(t, process.StateSending, m.State())
	view := m.View()
	assert.Contains(t, view, "Waiting for response")
	assert.Contains(t, view, "↑")
}

func TestStatusBarProcessStateAndCount(t *testing.T) {
	m := newSizedModel(t)
	m, _ = m.Update(StartStreamingMsg{State: process.StateSending})

	m, _ = m.Update(SetProcessStateMsg{State: process.StateReceiving})
	m, _ = m.Update(UpdateReceivedMsg{Chars: 42, Fragments: 7})

	view := m.View()
	assert.Contains(t, view, "Receiving")
	assert.Contains(t, view, "↓")
	assert.Contains(t, view, "42 chars in 7 fragments")
}

func TestStatusBarStop(t *testing.T) {
	m := newSizedModel(t)
	m, _ = m.Update(StartStreamingMsg{State: process.StateSending})

	m, cmd := m.Update(StopStreamingMsg{})

	assert.Nil(t, cmd)
	assert.False(t, m.Active())
	assert.Empty(t, m.View())
}

func TestStatusBarTimer(t *testing.T) {
	m := newSizedModel(t)
	m, _ = m.Update(StartStreamingMsg{State: process.StateSending})
	m.startTime = time.Now().Add(-65 * time.Second)

	m, cmd := m.Update(TickMsg(time.Now()))

	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "01:05")

	m, _ = m.Update(StopStreamingMsg{})
	_, cmd = m.Update(TickMsg(time.Now()))
	assert.Nil(t, cmd)
}

package display

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
)

func testModel() (model, chan string, chan struct{}) {
	in := make(chan string, 4)
	talk := make(chan struct{}, 1)
	return newModel(in, talk, make(chan struct{}), func(string) {}), in, talk
}

func TestEnterSendsInput(t *testing.T) {
	m, in, _ := testModel()
	m.input.SetValue("two margheritas")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected echo command")
	}
	select {
	case got := <-in:
		if got != "two margheritas" {
			t.Errorf("input = %q", got)
		}
	default:
		t.Fatal("nothing sent on input channel")
	}
	if next.(model).input.Value() != "" {
		t.Error("input not reset")
	}
}

func TestEnterIgnoresBlank(t *testing.T) {
	m, in, _ := testModel()
	m.input.SetValue("   ")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(in) != 0 {
		t.Error("blank input should not be sent")
	}
}

func TestCtrlTRequestsTalk(t *testing.T) {
	m, _, talk := testModel()
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT}) // second press must not block
	if len(talk) != 1 {
		t.Errorf("talk signals = %d, want 1", len(talk))
	}
}

func TestStatusBar(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   []string
	}{
		{"empty", Status{Stage: domain.StageAwaitingOrder}, []string{"choosing", "ctrl+t to talk"}},
		{"priced", Status{Stage: domain.StageAwaitingConfirmation, Items: []string{"2x Margherita"}, Total: 20}, []string{"confirm", "2x Margherita", "$20.00"}},
		{"unpriced", Status{Stage: domain.StageAwaitingItemDetails, Items: []string{"1x Calzone"}, Total: -1}, []string{"sizes", "total unavailable"}},
		{"listening", Status{Stage: domain.StageAwaitingOrder, Listening: true}, []string{"listening"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := testModel()
			next, _ := m.Update(statusMsg(tt.status))
			bar := next.(model).renderBar()
			for _, w := range tt.want {
				if !strings.Contains(bar, w) {
					t.Errorf("bar %q missing %q", bar, w)
				}
			}
		})
	}
}

func TestFmtTotal(t *testing.T) {
	if got := fmtTotal(23); got != "$23.00" {
		t.Errorf("fmtTotal(23) = %q", got)
	}
	if got := fmtTotal(-1); got != "n/a" {
		t.Errorf("fmtTotal(-1) = %q", got)
	}
}

package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"yield-radar/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
)

type stubSource struct {
	result domain.ScanResult
	picks  []domain.Opportunity
	memes  []domain.MemePair
	err    error
}

func (s *stubSource) GetScan(ctx context.Context) (domain.ScanResult, error) {
	if s.err != nil {
		return domain.ScanResult{}, s.err
	}
	return s.result, nil
}

func (s *stubSource) TopPicks(ctx context.Context) ([]domain.Opportunity, error) {
	return s.picks, nil
}

func (s *stubSource) GetMemePairs(ctx context.Context) ([]domain.MemePair, error) {
	return s.memes, nil
}

func testSource() *stubSource {
	opp := domain.Opportunity{
		Project: "aave-v3", Chain: "ethereum", Symbol: "USDC",
		APY: 12.5, TVLUSD: 60_000_000, Risk: domain.RiskLow, ROR: 12.5,
	}
	return &stubSource{
		result: domain.ScanResult{Focus: []domain.Opportunity{opp}, FetchedAt: time.Now().UTC()},
		picks:  []domain.Opportunity{opp},
		memes:  []domain.MemePair{{Symbol: "BONK", Chain: "sol", PriceUSD: "0.00002", Risk: domain.RiskMedium}},
	}
}

func TestModelLoadsScanOnInit(t *testing.T) {
	m := NewModel(testSource(), "alice")
	m.SetSize(120, 40)

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected init command")
	}

	msg := m.loadScan()
	loaded, ok := msg.(scanLoadedMsg)
	if !ok {
		t.Fatalf("expected scanLoadedMsg, got %T", msg)
	}
	updated, _ := m.Update(loaded)
	model := updated.(*Model)
	if model.loading {
		t.Fatal("still loading after scan message")
	}
	if len(model.result.Focus) != 1 {
		t.Fatalf("scan not stored: %+v", model.result)
	}
}

func TestModelTabNavigationWraps(t *testing.T) {
	m := NewModel(testSource(), "")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	model := updated.(*Model)
	if model.active != tabMeme {
		t.Fatalf("expected wrap to last tab, got %d", model.active)
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	model = updated.(*Model)
	if model.active != tabTopPicks {
		t.Fatalf("expected wrap to first tab, got %d", model.active)
	}
}

func TestModelQuitKeys(t *testing.T) {
	m := NewModel(testSource(), "")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Fatalf("expected QuitMsg, got %T", msg)
	}
}

func TestModelViewShowsScanData(t *testing.T) {
	m := NewModel(testSource(), "alice")
	m.SetSize(120, 40)

	msg := m.loadScan()
	updated, _ := m.Update(msg)
	model := updated.(*Model)
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab}) // Focus tab
	model = updated.(*Model)

	view := model.View()
	if !strings.Contains(view, "aave-v3") {
		t.Fatalf("view missing focus opportunity:\n%s", view)
	}
	if !strings.Contains(view, "Yield Radar") {
		t.Fatal("view missing header")
	}
}

func TestModelViewShowsError(t *testing.T) {
	source := testSource()
	source.err = errors.New("aggregator down")
	m := NewModel(source, "")
	m.SetSize(80, 24)

	msg := m.loadScan()
	if _, ok := msg.(loadErrMsg); !ok {
		t.Fatalf("expected loadErrMsg, got %T", msg)
	}
	updated, _ := m.Update(msg)
	view := updated.(*Model).View()
	if !strings.Contains(view, "aggregator down") {
		t.Fatalf("view missing error:\n%s", view)
	}
}

func TestMemeTabRows(t *testing.T) {
	m := NewModel(testSource(), "")
	m.SetSize(120, 40)

	msg := m.loadMemes()
	updated, _ := m.Update(msg)
	model := updated.(*Model)
	model.active = tabMeme

	view := model.View()
	if !strings.Contains(view, "BONK") {
		t.Fatalf("meme tab missing pair:\n%s", view)
	}
}

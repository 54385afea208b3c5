package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yuqiaowu/news-analyse/internal/domain"
	"github.com/yuqiaowu/news-analyse/internal/schedule"

	tea "github.com/charmbracelet/bubbletea"
)

type stubFetcher struct {
	snapshot  *domain.Snapshot
	err       error
	calls     int
	lastForce bool
}

func (s *stubFetcher) Fetch(_ context.Context, force bool) (*domain.Snapshot, error) {
	s.calls++
	s.lastForce = force
	return s.snapshot, s.err
}

func sampleSnapshot(ts time.Time) *domain.Snapshot {
	return &domain.Snapshot{
		Timestamp:       ts.UTC().Format(time.RFC3339),
		GlobalSummaryCN: "市场企稳",
		GlobalSummaryEN: "Markets are stabilizing",
		NewsAnalysis: []domain.NewsItem{
			{Classification: "IMPULSE", NewsSentiment: "Bullish", TitleCN: "利好", TitleEN: "Good news"},
		},
		Coins: []domain.CoinEntry{
			{Symbol: "BTC", Price: 97234.5, Change24h: 2.1, RSI4H: 61.2, Sentiment: "Bullish", Score: 72},
		},
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelLoadsSnapshot(t *testing.T) {
	fetcher := &stubFetcher{snapshot: sampleSnapshot(time.Now())}
	m := NewAppModel(fetcher)

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init must schedule the first fetch")
	}

	updated, _ := m.Update(snapshotMsg{snapshot: fetcher.snapshot})
	m = updated.(*AppModel)

	if m.fetching {
		t.Error("fetching flag must clear after a snapshot arrives")
	}
	out := m.View()
	if !strings.Contains(out, "市场企稳") {
		t.Errorf("default language should be Chinese, got:\n%s", out)
	}
	if !strings.Contains(out, "$97,234.50") {
		t.Errorf("coin price missing or misformatted:\n%s", out)
	}
}

func TestModelLanguageToggle(t *testing.T) {
	m := NewAppModel(&stubFetcher{})
	updated, _ := m.Update(snapshotMsg{snapshot: sampleSnapshot(time.Now())})
	m = updated.(*AppModel)

	updated, _ = m.Update(keyMsg("l"))
	m = updated.(*AppModel)
	if m.lang != domain.LangEN {
		t.Fatalf("lang = %s after toggle, want EN", m.lang)
	}
	if !strings.Contains(m.View(), "Markets are stabilizing") {
		t.Error("English summary not shown after toggle")
	}

	updated, _ = m.Update(keyMsg("l"))
	m = updated.(*AppModel)
	if m.lang != domain.LangCN {
		t.Fatalf("lang = %s after double toggle, want CN", m.lang)
	}
}

func TestModelForceRefreshKey(t *testing.T) {
	fetcher := &stubFetcher{snapshot: sampleSnapshot(time.Now())}
	m := NewAppModel(fetcher)
	updated, _ := m.Update(snapshotMsg{snapshot: fetcher.snapshot})
	m = updated.(*AppModel)

	updated, cmd := m.Update(keyMsg("r"))
	m = updated.(*AppModel)
	if !m.fetching {
		t.Fatal("r must start a refresh")
	}
	if cmd == nil {
		t.Fatal("r must return a fetch command")
	}

	// A second press while fetching is a no-op.
	_, cmd = m.Update(keyMsg("r"))
	if cmd != nil {
		t.Error("r while fetching must not start another fetch")
	}
}

func TestModelRetainsSnapshotOnFetchError(t *testing.T) {
	m := NewAppModel(&stubFetcher{})
	updated, _ := m.Update(snapshotMsg{snapshot: sampleSnapshot(time.Now())})
	m = updated.(*AppModel)

	updated, _ = m.Update(snapshotMsg{err: errors.New("connection refused")})
	m = updated.(*AppModel)

	if m.snapshot == nil {
		t.Fatal("failed fetch must not drop the previous snapshot")
	}
	out := m.View()
	if !strings.Contains(out, "connection refused") {
		t.Error("fetch error should surface inline")
	}
	if !strings.Contains(out, "市场企稳") {
		t.Error("stale content should keep rendering alongside the error")
	}
}

// runCmds executes a command tree so fetch commands actually hit the stub.
func runCmds(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, sub := range batch {
			runCmds(sub)
		}
	}
}

func TestModelTickTriggersRefetchWhenExpired(t *testing.T) {
	fetcher := &stubFetcher{}
	m := NewAppModel(fetcher)
	stale := sampleSnapshot(time.Now().Add(-5 * time.Hour))
	updated, _ := m.Update(snapshotMsg{snapshot: stale})
	m = updated.(*AppModel)

	updated, cmd := m.Update(tickMsg(time.Now()))
	m = updated.(*AppModel)
	if !m.fetching {
		t.Fatal("expired snapshot should refetch on tick")
	}
	if cmd == nil {
		t.Fatal("tick must return commands")
	}

	runCmds(cmd)
	if fetcher.calls == 0 {
		t.Fatal("tick commands must run a fetch")
	}
	if !fetcher.lastForce {
		t.Error("countdown-expiry refetch must be forced to bust intermediate caches")
	}
}

func TestModelTickNoRefetchWhenFresh(t *testing.T) {
	m := NewAppModel(&stubFetcher{})
	updated, _ := m.Update(snapshotMsg{snapshot: sampleSnapshot(time.Now())})
	m = updated.(*AppModel)

	updated, _ = m.Update(tickMsg(time.Now()))
	m = updated.(*AppModel)
	if m.fetching {
		t.Fatal("fresh snapshot must not refetch on tick")
	}
}

func TestModelStaleRetryDelay(t *testing.T) {
	m := NewAppModel(&stubFetcher{})
	base := time.Now()
	m.now = func() time.Time { return base }

	stale := sampleSnapshot(base.Add(-5 * time.Hour))
	updated, _ := m.Update(snapshotMsg{snapshot: stale})
	m = updated.(*AppModel)

	updated, _ = m.Update(tickMsg(base))
	m = updated.(*AppModel)
	if !m.fetching {
		t.Fatal("expired snapshot should refetch on tick")
	}

	// The refetch comes back with a snapshot that is still stale.
	updated, _ = m.Update(snapshotMsg{snapshot: stale})
	m = updated.(*AppModel)

	updated, _ = m.Update(tickMsg(base.Add(time.Second)))
	m = updated.(*AppModel)
	if m.fetching {
		t.Fatal("still-stale snapshot must wait the retry delay before refetching")
	}

	m.now = func() time.Time { return base.Add(schedule.StaleRetryDelay + time.Second) }
	updated, _ = m.Update(tickMsg(m.now()))
	m = updated.(*AppModel)
	if !m.fetching {
		t.Fatal("refetch should resume after the retry delay")
	}
}

func TestModelQuitKeys(t *testing.T) {
	m := NewAppModel(&stubFetcher{})
	for _, key := range []string{"q"} {
		_, cmd := m.Update(keyMsg(key))
		if cmd == nil {
			t.Fatalf("%s should quit", key)
		}
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
}

func TestFormatCountdown(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{4 * time.Hour, "04:00:00"},
		{90 * time.Second, "00:01:30"},
		{0, "00:00:00"},
	}
	for _, tc := range cases {
		if got := formatCountdown(tc.d); got != tc.want {
			t.Errorf("formatCountdown(%s) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

package tui

import (
	"context"
	"fmt"
	"time"

	"yield-radar/internal/domain"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ScanSource provides the data behind the dashboard tabs.
type ScanSource interface {
	GetScan(ctx context.Context) (domain.ScanResult, error)
	TopPicks(ctx context.Context) ([]domain.Opportunity, error)
	GetMemePairs(ctx context.Context) ([]domain.MemePair, error)
}

type tab int

const (
	tabTopPicks tab = iota
	tabFocus
	tabLongTerm
	tabShortTerm
	tabLayer2
	tabMeme
	tabCount
)

var tabTitles = [tabCount]string{
	"Top Picks", "Focus", "Long-Term", "Short-Term", "Layer 2", "Meme",
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 1)
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
	baseTableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

type scanLoadedMsg struct {
	result domain.ScanResult
	picks  []domain.Opportunity
}

type memeLoadedMsg struct {
	pairs []domain.MemePair
}

type loadErrMsg struct {
	err error
}

// Model is the SSH dashboard: tabbed tables over the latest opportunity scan.
type Model struct {
	source  ScanSource
	user    string
	active  tab
	tables  [tabCount]table.Model
	result  domain.ScanResult
	picks   []domain.Opportunity
	memes   []domain.MemePair
	loading bool
	err     error
	width   int
	height  int
}

func NewModel(source ScanSource, user string) *Model {
	m := &Model{source: source, user: user, loading: true}
	for i := range m.tables {
		m.tables[i] = newOpportunityTable()
	}
	m.tables[tabMeme] = newMemeTable()
	return m
}

// SetSize propagates the PTY dimensions before the program starts.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.resizeTables()
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadScan, m.loadMemes)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeTables()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "right", "l":
			m.active = (m.active + 1) % tabCount
			return m, nil
		case "shift+tab", "left", "h":
			m.active = (m.active + tabCount - 1) % tabCount
			return m, nil
		case "r":
			m.loading = true
			m.err = nil
			return m, tea.Batch(m.loadScan, m.loadMemes)
		}

	case scanLoadedMsg:
		m.loading = false
		m.err = nil
		m.result = msg.result
		m.picks = msg.picks
		m.fillOpportunityTables()
		return m, nil

	case memeLoadedMsg:
		m.memes = msg.pairs
		m.tables[tabMeme].SetRows(memeRows(msg.pairs))
		return m, nil

	case loadErrMsg:
		m.loading = false
		m.err = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	m.tables[m.active], cmd = m.tables[m.active].Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	header := titleStyle.Render("Yield Radar")
	if m.user != "" {
		header += statusStyle.Render(" @" + m.user)
	}

	tabs := ""
	for i := tab(0); i < tabCount; i++ {
		if i == m.active {
			tabs += activeTabStyle.Render(tabTitles[i])
		} else {
			tabs += inactiveTabStyle.Render(tabTitles[i])
		}
	}

	status := ""
	switch {
	case m.err != nil:
		status = errorStyle.Render("error: " + m.err.Error())
	case m.loading:
		status = statusStyle.Render("scanning...")
	case !m.result.FetchedAt.IsZero():
		status = statusStyle.Render("as of " + m.result.FetchedAt.Format(time.RFC822))
	}

	body := baseTableStyle.Render(m.tables[m.active].View())
	help := statusStyle.Render("tab/←→ switch · r refresh · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, body, status, help)
}

func (m *Model) loadScan() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := m.source.GetScan(ctx)
	if err != nil {
		return loadErrMsg{err: err}
	}
	picks, err := m.source.TopPicks(ctx)
	if err != nil {
		picks = nil
	}
	return scanLoadedMsg{result: result, picks: picks}
}

func (m *Model) loadMemes() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pairs, err := m.source.GetMemePairs(ctx)
	if err != nil {
		return memeLoadedMsg{pairs: nil}
	}
	return memeLoadedMsg{pairs: pairs}
}

func (m *Model) fillOpportunityTables() {
	m.tables[tabTopPicks].SetRows(opportunityRows(m.picks))
	m.tables[tabFocus].SetRows(opportunityRows(m.result.Focus))
	m.tables[tabLongTerm].SetRows(opportunityRows(m.result.LongTerm))
	m.tables[tabShortTerm].SetRows(opportunityRows(m.result.ShortTerm))
	m.tables[tabLayer2].SetRows(opportunityRows(m.result.Layer2))
}

func (m *Model) resizeTables() {
	height := m.height - 6
	if height < 4 {
		height = 4
	}
	for i := range m.tables {
		m.tables[i].SetHeight(height)
	}
}

func newOpportunityTable() table.Model {
	columns := []table.Column{
		{Title: "Project", Width: 22},
		{Title: "Chain", Width: 12},
		{Title: "Symbol", Width: 14},
		{Title: "APY %", Width: 9},
		{Title: "TVL $", Width: 12},
		{Title: "Risk", Width: 8},
		{Title: "ROR %", Width: 9},
		{Title: "", Width: 2},
	}
	return newTable(columns)
}

func newMemeTable() table.Model {
	columns := []table.Column{
		{Title: "Symbol", Width: 12},
		{Title: "Chain", Width: 10},
		{Title: "Price $", Width: 14},
		{Title: "Liq $", Width: 12},
		{Title: "Vol 24h $", Width: 12},
		{Title: "24h %", Width: 8},
		{Title: "Risk", Width: 8},
	}
	return newTable(columns)
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(styles)
	return t
}

func opportunityRows(opps []domain.Opportunity) []table.Row {
	rows := make([]table.Row, 0, len(opps))
	for _, o := range opps {
		flag := ""
		if o.Outlier {
			flag = "!"
		}
		rows = append(rows, table.Row{
			o.Project,
			o.Chain,
			o.Symbol,
			fmt.Sprintf("%.2f", o.APY),
			compactUSD(o.TVLUSD),
			string(o.Risk),
			fmt.Sprintf("%.2f", o.ROR),
			flag,
		})
	}
	return rows
}

func memeRows(pairs []domain.MemePair) []table.Row {
	rows := make([]table.Row, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, table.Row{
			p.Symbol,
			p.Chain,
			p.PriceUSD,
			compactUSD(p.LiquidityUSD),
			compactUSD(p.Volume24hUSD),
			fmt.Sprintf("%+.1f", p.Change24hPct),
			string(p.Risk),
		})
	}
	return rows
}

func compactUSD(v float64) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.0fK", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

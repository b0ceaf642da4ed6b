// Package tui is an interactive browser over check results.
package tui

import (
	"fmt"
	"layercheck/internal/data/history"
	"layercheck/internal/engine/analysis"
	"layercheck/internal/engine/graph"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	violationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type panelMode int

const (
	panelFindings panelMode = iota
	panelModules
)

// moduleInfo is one row of the module explorer.
type moduleInfo struct {
	Name       string
	Tier       int
	Classified bool
	Metrics    graph.ModuleMetrics
}

type moduleDetails struct {
	Name         string
	Dependencies []string
	Dependents   []string
}

// Update carries a fresh check result into the browser.
type Update struct {
	Result analysis.Result
	At     time.Time
}

type updateMsg Update

type model struct {
	findingList list.Model
	moduleList  list.Model
	mode        panelMode
	trendReport *history.TrendReport
	showTrend   bool

	result     analysis.Result
	modules    []moduleInfo
	lastUpdate time.Time

	details    moduleDetails
	hasDetails bool
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyActions(msg, m)
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		width := msg.Width - h
		height := msg.Height - v - 8
		if height < 5 {
			height = 5
		}
		m.findingList.SetSize(width, height)
		m.moduleList.SetSize(width, height)
	case updateMsg:
		m = m.apply(Update(msg))
		return m, nil
	}

	var cmd tea.Cmd
	if m.mode == panelFindings {
		m.findingList, cmd = m.findingList.Update(msg)
	} else {
		m.moduleList, cmd = m.moduleList.Update(msg)
	}
	return m, cmd
}

func (m model) apply(u Update) model {
	m.result = u.Result
	m.lastUpdate = u.At
	if m.lastUpdate.IsZero() {
		m.lastUpdate = time.Now()
	}

	report := u.Result.Report
	items := make([]list.Item, 0, report.ViolationCount+report.CycleCount)
	for _, v := range report.Violations {
		items = append(items, item{
			title: string(v.Kind),
			desc:  v.String(),
		})
	}
	for _, c := range report.Cycles {
		desc := c.A + " <-> " + c.B
		if len(c.Path) > 0 {
			desc = strings.Join(c.Path, " -> ")
		}
		items = append(items, item{title: "CircularDependency", desc: desc})
	}
	m.findingList.SetItems(items)

	m.modules = collectModules(u.Result)
	moduleItems := make([]list.Item, 0, len(m.modules))
	for _, mod := range m.modules {
		tierLabel := "unclassified"
		if mod.Classified {
			tierLabel = fmt.Sprintf("tier %d", mod.Tier)
		}
		moduleItems = append(moduleItems, item{
			title: mod.Name,
			desc: fmt.Sprintf("%s depth=%d fan_in=%d fan_out=%d",
				tierLabel, mod.Metrics.Depth, mod.Metrics.FanIn, mod.Metrics.FanOut),
		})
	}
	m.moduleList.SetItems(moduleItems)

	if m.hasDetails {
		m = m.showDetails(m.details.Name)
	}
	return m
}

func collectModules(res analysis.Result) []moduleInfo {
	if res.Graph == nil {
		return nil
	}
	metrics := res.Graph.Metrics()
	names := res.Graph.Modules()
	out := make([]moduleInfo, 0, len(names))
	for _, name := range names {
		info := moduleInfo{Name: name, Metrics: metrics[name]}
		if res.Classifier != nil {
			a := res.Classifier.Classify(name)
			info.Tier, info.Classified = a.Tier, a.Classified
		}
		out = append(out, info)
	}
	return out
}

func (m model) showDetails(name string) model {
	g := m.result.Graph
	if g == nil || !g.HasModule(name) {
		m.hasDetails = false
		return m
	}
	m.details = moduleDetails{
		Name:         name,
		Dependencies: g.Successors(name),
		Dependents:   g.Predecessors(name),
	}
	m.hasDetails = true
	return m
}

func (m model) View() string {
	report := m.result.Report
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d modules | %d edges",
		m.lastUpdate.Format("15:04:05"), report.Summary.Modules, report.Summary.Edges))

	var summary string
	if report.IsClean() {
		summary = successStyle.Render("Architecture Clean")
	} else {
		summary = fmt.Sprintf("%s | %s",
			violationStyle.Render(fmt.Sprintf("%d violations", report.ViolationCount)),
			cycleStyle.Render(fmt.Sprintf("%d cycles", report.CycleCount)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Layer Conformance Monitor"), status, summary)
	help := renderHelp(m)

	body := m.findingList.View()
	if m.mode == panelModules {
		body = renderModulePanel(m)
	}
	if m.showTrend {
		body += "\n\n" + renderTrendOverlay(m.trendReport)
	}

	return docStyle.Render(header + "\n" + help + "\n\n" + body)
}

func initialModel(trendReport *history.TrendReport) model {
	findingList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	findingList.Title = "Findings"
	findingList.SetShowStatusBar(false)
	findingList.SetFilteringEnabled(true)

	moduleList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	moduleList.Title = "Module Explorer"
	moduleList.SetShowStatusBar(false)
	moduleList.SetFilteringEnabled(true)

	return model{
		findingList: findingList,
		moduleList:  moduleList,
		mode:        panelFindings,
		trendReport: trendReport,
		lastUpdate:  time.Now(),
	}
}

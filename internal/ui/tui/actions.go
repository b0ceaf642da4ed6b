package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func handleKeyActions(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	// Let the list consume keys while its filter input is active.
	if m.activeList().FilterState() == list.Filtering {
		return m.updateActiveList(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		if m.mode == panelFindings {
			m.mode = panelModules
		} else {
			m.mode = panelFindings
		}
		return m, nil
	case "t":
		m.showTrend = !m.showTrend
		return m, nil
	}

	if m.mode != panelModules {
		return m.updateActiveList(msg)
	}

	switch msg.String() {
	case "enter":
		idx := m.moduleList.Index()
		if idx < 0 || idx >= len(m.modules) {
			return m, nil
		}
		return m.showDetails(m.modules[idx].Name), nil
	case "esc", "backspace":
		if m.hasDetails {
			m.hasDetails = false
			m.details = moduleDetails{}
			return m, nil
		}
	}
	return m.updateActiveList(msg)
}

func (m model) activeList() list.Model {
	if m.mode == panelModules {
		return m.moduleList
	}
	return m.findingList
}

func (m model) updateActiveList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.mode == panelModules {
		m.moduleList, cmd = m.moduleList.Update(msg)
	} else {
		m.findingList, cmd = m.findingList.Update(msg)
	}
	return m, cmd
}

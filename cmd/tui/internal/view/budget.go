package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/centbook/centbook/internal/budget"
	"github.com/centbook/centbook/internal/ledger"
	"github.com/centbook/centbook/internal/report"
)

type budgetState int

const (
	budgetStateBrowse budgetState = iota
	budgetStateEdit
)

// budgetLine is one editable account row flattened out of the budget table.
type budgetLine struct {
	row   ledger.BudgetRow
	typ   string
	group string
}

type BudgetModel struct {
	CommonModel
	budgetService *budget.Service
	reportService *report.Service

	state budgetState
	month time.Time
	table table.Model
	lines []budgetLine
	grand ledger.BudgetTotals

	amountInput textinput.Model

	loading bool
	err     error
	status  string
}

func NewBudgetModel(budgetSvc *budget.Service, reportSvc *report.Service) BudgetModel {
	columns := []table.Column{
		{Title: "Account", Width: 24},
		{Title: "Type", Width: 8},
		{Title: "Group", Width: 14},
		{Title: "Budgeted", Width: 12},
		{Title: "Actual", Width: 12},
		{Title: "Diff", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	ti := textinput.New()
	ti.Placeholder = "0.00"
	ti.CharLimit = 12
	ti.Width = 14
	ti.Prompt = "Budgeted: "

	return BudgetModel{
		budgetService: budgetSvc,
		reportService: reportSvc,
		month:         budget.NormalizeMonth(time.Now()),
		table:         t,
		amountInput:   ti,
	}
}

func (m BudgetModel) Title() string { return "Budget" }

func (m BudgetModel) ShortHelp() string {
	if m.state == budgetStateEdit {
		return "Enter: save | Esc: cancel"
	}

	return "Esc: back | e: edit budgeted | [: prev month | ]: next month | r: refresh"
}

func (m BudgetModel) Init() tea.Cmd {
	m.loading = true
	return m.loadTableCmd()
}

func (m BudgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBudgetMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.lines = msg.lines
		m.grand = msg.grand
		m.refreshTable()

		return m, nil

	case budgetSaveMsg:
		m.state = budgetStateBrowse
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = ""
		m.loading = true

		return m, m.loadTableCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	switch m.state {
	case budgetStateBrowse:
		return m.updateBrowse(msg)
	case budgetStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m BudgetModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTableCmd()
		case "[":
			m.month = m.month.AddDate(0, -1, 0)
			m.loading = true

			return m, m.loadTableCmd()
		case "]":
			m.month = m.month.AddDate(0, 1, 0)
			m.loading = true

			return m, m.loadTableCmd()
		case "e":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.lines) {
				return m, nil
			}

			m.amountInput.SetValue(m.lines[idx].row.Budgeted.StringFixed(2))
			m.amountInput.Focus()
			m.state = budgetStateEdit
			m.table.Blur()

			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BudgetModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.state = budgetStateBrowse
			m.table.Focus()

			return m, nil
		case tea.KeyEnter:
			amount, err := ledger.ParseAmount(m.amountInput.Value())
			if err != nil {
				m.status = "Invalid amount."
				return m, nil
			}

			return m, m.saveCmd(amount)
		}
	}

	var cmd tea.Cmd
	m.amountInput, cmd = m.amountInput.Update(msg)

	return m, cmd
}

func (m BudgetModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading budget...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Budget for %s   [ prev | ] next", activeStyle(m.month.Format("January 2006")))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	footer := fmt.Sprintf(
		"Net: budgeted %s | actual %s | diff %s",
		ledger.FormatUSD(m.grand.Budgeted),
		ledger.FormatUSD(m.grand.Actual),
		activeStyle(ledger.FormatUSD(m.grand.Difference)),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		lipgloss.NewStyle().PaddingTop(1).Render(footer),
	)

	if m.state == budgetStateEdit {
		idx := m.table.Cursor()
		name := ""
		if idx >= 0 && idx < len(m.lines) {
			name = m.lines[idx].row.Account.Name
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(40).
			Render(fmt.Sprintf("Set budget for %s\n\n%s\n\n(Enter to save, Esc to cancel)", name, m.amountInput.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *BudgetModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.lines))
	for _, line := range m.lines {
		rows = append(rows, table.Row{
			fmt.Sprintf("%s %s", line.row.Account.DisplayIcon(), line.row.Account.Name),
			line.typ,
			line.group,
			ledger.FormatUSD(line.row.Budgeted),
			ledger.FormatUSD(line.row.Actual),
			ledger.FormatUSD(line.row.Difference),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadBudgetMsg struct {
	lines []budgetLine
	grand ledger.BudgetTotals
	err   error
}

func (m BudgetModel) loadTableCmd() tea.Cmd {
	month := m.month

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		tbl, err := m.reportService.Budget(ctx, month)
		if err != nil {
			return loadBudgetMsg{err: err}
		}

		var lines []budgetLine

		for _, block := range tbl.Blocks {
			for _, group := range block.Groups {
				for _, row := range group.Rows {
					lines = append(lines, budgetLine{
						row:   row,
						typ:   string(block.Type),
						group: group.SubType,
					})
				}
			}
		}

		return loadBudgetMsg{lines: lines, grand: tbl.GrandTotal}
	}
}

type budgetSaveMsg struct {
	err error
}

func (m BudgetModel) saveCmd(amount decimal.Decimal) tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.lines) {
		return nil
	}

	accountID := m.lines[idx].row.Account.ID
	month := m.month

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.budgetService.Set(ctx, accountID, month, amount)

		return budgetSaveMsg{err: err}
	}
}

package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/centbook/centbook/internal/account"
	"github.com/centbook/centbook/internal/ledger"
)

// AccountSelectedMsg is emitted when the user opens an account's register.
type AccountSelectedMsg struct {
	Account *account.Account
}

type AccountsModel struct {
	CommonModel
	accountService *account.Service

	table    table.Model
	accounts []*account.Account

	typeFilterIdx int

	loading bool
	err     error
}

var accountTypeFilters = []struct {
	label string
	types []account.Type
}{
	{label: "All", types: nil},
	{label: "Budget", types: []account.Type{account.TypeAsset, account.TypeLiability}},
	{label: "Categories", types: []account.Type{account.TypeIncome, account.TypeExpense}},
	{label: "Goals", types: []account.Type{account.TypeGoal}},
}

func NewAccountsModel(accountSvc *account.Service) AccountsModel {
	columns := []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Type", Width: 10},
		{Title: "Group", Width: 16},
		{Title: "Balance", Width: 14},
		{Title: "Reconciled", Width: 14},
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

	return AccountsModel{
		accountService: accountSvc,
		table:          t,
	}
}

func (m AccountsModel) Title() string { return "Accounts" }

func (m AccountsModel) ShortHelp() string {
	return "Esc: back | Enter: open register | t: type filter | r: refresh"
}

func (m AccountsModel) Init() tea.Cmd {
	m.loading = true
	return m.loadAccountsCmd()
}

func (m AccountsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadAccountsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.accounts = msg.accounts
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadAccountsCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % len(accountTypeFilters)
			m.loading = true

			return m, m.loadAccountsCmd()
		case "enter":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.accounts) {
				return m, nil
			}

			selected := m.accounts[idx]

			return m, func() tea.Msg {
				return AccountSelectedMsg{Account: selected}
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m AccountsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading accounts...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Filter: [t] Type: %s", activeStyle(accountTypeFilters[m.typeFilterIdx].label))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		lipgloss.NewStyle().PaddingTop(1).Render(m.netWorthLine()),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// netWorthLine sums visible Asset and Liability balances. Liability balances
// are stored credit-positive, so a positive balance means money owed.
func (m AccountsModel) netWorthLine() string {
	assets := decimal.Zero
	liabilities := decimal.Zero

	for _, a := range m.accounts {
		switch a.Type {
		case account.TypeAsset:
			assets = assets.Add(a.Balance)
		case account.TypeLiability:
			liabilities = liabilities.Add(a.Balance)
		}
	}

	return fmt.Sprintf("Net Worth: %s", activeStyle(ledger.FormatUSD(assets.Sub(liabilities))))
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *AccountsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.accounts))
	for _, a := range m.accounts {
		rows = append(rows, table.Row{
			fmt.Sprintf("%s %s", a.DisplayIcon(), a.Name),
			string(a.Type),
			a.GroupName(),
			ledger.FormatUSD(a.Balance),
			ledger.FormatUSD(a.ReconciledBalance),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadAccountsMsg struct {
	accounts []*account.Account
	err      error
}

func (m AccountsModel) loadAccountsCmd() tea.Cmd {
	filter := account.ListFilter{Types: accountTypeFilters[m.typeFilterIdx].types}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		accounts, err := m.accountService.List(ctx, filter)

		return loadAccountsMsg{accounts: accounts, err: err}
	}
}

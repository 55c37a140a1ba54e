package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/centbook/centbook/internal/account"
	"github.com/centbook/centbook/internal/ledger"
	"github.com/centbook/centbook/internal/transaction"
)

type registerState int

const (
	registerStateBrowse registerState = iota
	registerStateEdit
	registerStateReconcile
)

// registerRow is one transaction seen from the register's account.
type registerRow struct {
	tx       *transaction.Transaction
	adjusted ledger.Perspective
}

type RegisterModel struct {
	CommonModel
	txService      *transaction.Service
	accountService *account.Service

	acct *account.Account

	state registerState
	table table.Model
	rows  []registerRow
	form  *huh.Form

	// Rows marked with space for the reconcile flow.
	marked map[uuid.UUID]bool

	preview ledger.ReconcilePreview

	statusFilterIdx int

	loading bool
	err     error
	status  string

	// Form bindings
	formMerchant string
	formNotes    string
}

var registerStatusFilters = []struct {
	label  string
	status *transaction.Status
}{
	{label: "All", status: nil},
	{label: "Review", status: new(transaction.StatusReview)},
	{label: "Categorized", status: new(transaction.StatusCategorized)},
	{label: "Reconciled", status: new(transaction.StatusReconciled)},
}

func NewRegisterModel(txSvc *transaction.Service, accountSvc *account.Service, acct *account.Account) RegisterModel {
	columns := []table.Column{
		{Title: "", Width: 3},
		{Title: "Date", Width: 12},
		{Title: "Merchant", Width: 26},
		{Title: "Category", Width: 22},
		{Title: "Status", Width: 12},
		{Title: "Amount", Width: 14},
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

	return RegisterModel{
		txService:      txSvc,
		accountService: accountSvc,
		acct:           acct,
		table:          t,
		marked:         make(map[uuid.UUID]bool),
	}
}

func (m RegisterModel) Title() string { return "Register" }

func (m RegisterModel) ShortHelp() string {
	switch m.state {
	case registerStateEdit:
		return "Navigate form | Esc: cancel"
	case registerStateReconcile:
		return "Enter: confirm | Esc: cancel"
	}

	return "Esc: back | Space: mark | c: reconcile marked | e: edit | s: status filter | r: refresh"
}

func (m RegisterModel) Init() tea.Cmd {
	m.loading = true
	return m.loadRowsCmd()
}

func (m RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadRegisterMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.acct = msg.acct
		m.rows = msg.rows
		m.refreshTable()

		return m, nil

	case reconcileDoneMsg:
		m.state = registerStateBrowse
		if msg.err != nil {
			m.status = fmt.Sprintf("Error reconciling: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Moved %d transactions to %s.", msg.count, m.preview.TargetStatus)
		m.marked = make(map[uuid.UUID]bool)
		m.loading = true

		return m, m.loadRowsCmd()

	case registerSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.state = registerStateBrowse
		m.form = nil
		m.table.Focus()
		m.loading = true

		return m, m.loadRowsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	switch m.state {
	case registerStateBrowse:
		return m.updateBrowse(msg)
	case registerStateEdit:
		return m.updateEdit(msg)
	case registerStateReconcile:
		return m.updateReconcile(msg)
	}

	return m, nil
}

func (m RegisterModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadRowsCmd()
		case " ":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.rows) {
				id := m.rows[idx].tx.ID
				m.marked[id] = !m.marked[id]
				m.refreshTable()
			}

			return m, nil
		case "c":
			return m.enterReconcile()
		case "e":
			return m.enterEditMode()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(registerStatusFilters)
			m.loading = true

			return m, m.loadRowsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// enterReconcile previews what committing the marked rows would do to the
// reconciled balance before anything is written.
func (m RegisterModel) enterReconcile() (tea.Model, tea.Cmd) {
	var selected []*transaction.Transaction

	for _, row := range m.rows {
		if m.marked[row.tx.ID] {
			selected = append(selected, row.tx)
		}
	}

	if len(selected) == 0 {
		m.status = "No rows marked."
		return m, nil
	}

	m.preview = ledger.PreviewReconciliation(selected, m.acct.ID, m.acct.ReconciledBalance)
	m.state = registerStateReconcile

	return m, nil
}

func (m RegisterModel) updateReconcile(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyEsc:
		m.state = registerStateBrowse
		return m, nil
	case tea.KeyEnter:
		return m, m.commitReconcileCmd()
	}

	return m, nil
}

func (m RegisterModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return m, nil
	}

	tx := m.rows[idx].tx
	m.formMerchant = tx.Merchant
	m.formNotes = tx.Notes

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("merchant").
				Title("Merchant").
				Value(&m.formMerchant).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("merchant cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("notes").
				Title("Notes").
				Value(&m.formNotes),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = registerStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m RegisterModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = registerStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m RegisterModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading register...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"%s %s   Balance: %s   Reconciled: %s   [s] Status: %s",
		m.acct.DisplayIcon(),
		m.acct.Name,
		activeStyle(ledger.FormatUSD(m.acct.Balance)),
		activeStyle(ledger.FormatUSD(m.acct.ReconciledBalance)),
		activeStyle(registerStatusFilters[m.statusFilterIdx].label),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == registerStateReconcile {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.reconcilePanel())
	}

	if m.state == registerStateEdit && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Edit Transaction\n\n%s", m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m RegisterModel) reconcilePanel() string {
	action := "Mark reviewed"
	if m.preview.Reconciling {
		action = "Reconcile"
	}

	body := fmt.Sprintf(
		"%s\n\nTarget status: %s\nSelected delta: %s\nNew reconciled balance: %s\n\n(Enter to confirm, Esc to cancel)",
		action,
		m.preview.TargetStatus,
		ledger.FormatUSD(m.preview.TotalDelta),
		ledger.FormatUSD(m.preview.NewBalance),
	)

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(44).
		Render(body)
}

func (m *RegisterModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.rows))
	for _, row := range m.rows {
		mark := " "
		if m.marked[row.tx.ID] {
			mark = "*"
		}

		rows = append(rows, table.Row{
			mark,
			FormatDate(row.tx.Date),
			row.tx.Merchant,
			row.adjusted.Category.Label,
			string(row.tx.Status),
			ledger.FormatUSD(row.adjusted.Amount),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadRegisterMsg struct {
	acct *account.Account
	rows []registerRow
	err  error
}

func (m RegisterModel) loadRowsCmd() tea.Cmd {
	accountID := m.acct.ID
	status := registerStatusFilters[m.statusFilterIdx].status

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		acct, err := m.accountService.Get(ctx, accountID)
		if err != nil {
			return loadRegisterMsg{err: err}
		}

		accounts, err := m.accountService.Map(ctx)
		if err != nil {
			return loadRegisterMsg{err: err}
		}

		txs, err := m.txService.List(ctx, transaction.ListFilter{
			AccountID: &accountID,
			Status:    status,
		})
		if err != nil {
			return loadRegisterMsg{err: err}
		}

		rows := make([]registerRow, 0, len(txs))

		for _, tx := range txs {
			p, err := ledger.AmountAndCategory(tx, accountID, accounts)
			if err != nil {
				return loadRegisterMsg{err: err}
			}

			rows = append(rows, registerRow{tx: tx, adjusted: p})
		}

		return loadRegisterMsg{acct: acct, rows: rows}
	}
}

type reconcileDoneMsg struct {
	count int
	err   error
}

func (m RegisterModel) commitReconcileCmd() tea.Cmd {
	target := m.preview.TargetStatus

	var ids []uuid.UUID

	for _, row := range m.rows {
		if m.marked[row.tx.ID] {
			ids = append(ids, row.tx.ID)
		}
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.txService.UpdateStatusBatch(ctx, ids, target); err != nil {
			return reconcileDoneMsg{err: err}
		}

		return reconcileDoneMsg{count: len(ids)}
	}
}

type registerSaveMsg struct {
	err error
}

func (m RegisterModel) saveCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return nil
	}

	id := m.rows[idx].tx.ID
	merchant := m.formMerchant
	notes := m.formNotes

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.txService.Update(ctx, id, transaction.UpdateParams{
			Merchant: &merchant,
			Notes:    &notes,
		})

		return registerSaveMsg{err: err}
	}
}

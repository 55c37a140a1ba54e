package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/centbook/centbook/internal/account"
	"github.com/centbook/centbook/internal/ledger"
	"github.com/centbook/centbook/internal/matching"
	"github.com/centbook/centbook/internal/transaction"
)

type reviewState int

const (
	reviewStateTimeframe reviewState = iota
	reviewStateCategorizing
)

// ReviewModel walks the queue of uncategorized transactions one at a time:
// fix the merchant name, pick a category, move the row to categorized.
type ReviewModel struct {
	CommonModel
	txService       *transaction.Service
	accountService  *account.Service
	matchingService *matching.Service

	state           reviewState
	timeframePicker TimeframePicker

	queue     []*transaction.Transaction
	currentTx *transaction.Transaction
	accounts  map[uuid.UUID]*account.Account
	// Income and Expense accounts offered as categories.
	categories []*account.Account

	merchantInput textinput.Model
	categoryForm  *huh.Form
	formCategory  string
	focusMerchant bool

	status     string
	loading    bool
	totalCount int
}

func NewReviewModel(txSvc *transaction.Service, accountSvc *account.Service, matchSvc *matching.Service) ReviewModel {
	ti := textinput.New()
	ti.Placeholder = "Merchant"
	ti.Width = 40

	return ReviewModel{
		txService:       txSvc,
		accountService:  accountSvc,
		matchingService: matchSvc,
		merchantInput:   ti,
		timeframePicker: NewTimeframePicker(),
		state:           reviewStateTimeframe,
		status:          "Select timeframe to review",
	}
}

func (m ReviewModel) Title() string { return "Review" }

func (m ReviewModel) ShortHelp() string {
	if m.state == reviewStateTimeframe {
		return "Esc: back | Enter: select"
	}

	return "Tab: merchant/category | Enter: save & next | Esc: back"
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.loading = true
		m.state = reviewStateCategorizing

		return m, m.loadQueueCmd(msg)

	case loadQueueMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading queue: %v", msg.err)
			return m, nil
		}

		m.queue = msg.txs
		m.accounts = msg.accounts
		m.categories = msg.categories
		m.totalCount = len(m.queue)

		if len(m.queue) == 0 {
			m.status = "Nothing to review."
			return m, nil
		}

		return m.nextTx()

	case reviewSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		return m.nextTx()
	}

	switch m.state {
	case reviewStateTimeframe:
		return m.updateTimeframe(msg)
	case reviewStateCategorizing:
		return m.updateCategorizing(msg)
	}

	return m, nil
}

func (m ReviewModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m ReviewModel) updateCategorizing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyTab:
			m.focusMerchant = !m.focusMerchant
			if m.focusMerchant {
				m.merchantInput.Focus()
				return m, textinput.Blink
			}

			m.merchantInput.Blur()

			return m, nil
		case tea.KeyEnter:
			if m.currentTx != nil && !m.focusMerchant {
				break
			}

			if m.currentTx != nil {
				m.focusMerchant = false
				m.merchantInput.Blur()

				return m, nil
			}
		}
	}

	if m.currentTx == nil {
		return m, nil
	}

	if m.focusMerchant {
		var cmd tea.Cmd
		m.merchantInput, cmd = m.merchantInput.Update(msg)

		return m, cmd
	}

	form, cmd := m.categoryForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.categoryForm = f
	}

	if m.categoryForm.State == huh.StateCompleted {
		return m, m.saveAndNextCmd()
	}

	return m, cmd
}

func (m ReviewModel) View() string {
	if m.state == reviewStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading review queue...")
	}

	if m.currentTx == nil {
		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\n(Esc to back)")
	}

	info := fmt.Sprintf(
		"Date: %s\nAccount: %s\nAmount: %s\nOriginal: %s\n",
		FormatDate(m.currentTx.Date),
		ledger.AccountName(m.accounts, m.feedSide(m.currentTx)),
		ledger.FormatUSD(m.currentTx.Amount),
		m.currentTx.Merchant,
	)

	return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf(
		"%s\n%s\nMerchant:\n%s\n\nCategory:\n%s\n\n(Tab to switch, Enter to save & next, Esc to back)",
		m.status,
		info,
		m.merchantInput.View(),
		m.categoryForm.View(),
	))
}

// feedSide returns the side of the transaction that sits in a bank feed
// account; the other side is the category.
func (m ReviewModel) feedSide(tx *transaction.Transaction) uuid.UUID {
	if a, ok := m.accounts[tx.Debit]; ok && a.InBankFeed {
		return tx.Debit
	}

	return tx.Credit
}

func (m ReviewModel) categorySide(tx *transaction.Transaction) uuid.UUID {
	if m.feedSide(tx) == tx.Debit {
		return tx.Credit
	}

	return tx.Debit
}

func (m *ReviewModel) nextTx() (tea.Model, tea.Cmd) {
	if len(m.queue) == 0 {
		m.currentTx = nil
		m.status = "All done!"
		m.merchantInput.Blur()

		return m, nil
	}

	tx := m.queue[0]
	m.queue = m.queue[1:]
	m.currentTx = tx

	reviewed := m.totalCount - len(m.queue)
	m.status = fmt.Sprintf("Reviewing %d/%d", reviewed, m.totalCount)

	merchant := tx.Merchant
	categoryID := m.categorySide(tx)

	if tx.Merchant != "" {
		ctx, cancel := DbCtx()

		if s, err := m.matchingService.SuggestMerchant(ctx, tx.Merchant); err == nil && s != "" {
			merchant = s
		}

		if categoryID == uuid.Nil {
			if id, err := m.matchingService.Suggest(ctx, tx.Merchant); err == nil {
				categoryID = id
			}
		}

		cancel()
	}

	m.merchantInput.SetValue(merchant)
	m.merchantInput.Focus()
	m.focusMerchant = true

	options := make([]huh.Option[string], 0, len(m.categories))
	for _, c := range m.categories {
		options = append(options, huh.NewOption(fmt.Sprintf("%s %s (%s)", c.DisplayIcon(), c.Name, c.Type), c.ID.String()))
	}

	m.formCategory = ""
	if categoryID != uuid.Nil {
		m.formCategory = categoryID.String()
	}

	m.categoryForm = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(options...).
				Value(&m.formCategory),
		),
	).WithWidth(50).WithShowHelp(false)

	return m, tea.Batch(textinput.Blink, m.categoryForm.Init())
}

// Messages

type loadQueueMsg struct {
	txs        []*transaction.Transaction
	accounts   map[uuid.UUID]*account.Account
	categories []*account.Account
	err        error
}

func (m ReviewModel) loadQueueCmd(tf TimeframeSelectedMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		filter := transaction.ListFilter{Status: new(transaction.StatusReview)}
		if !tf.All {
			start, end := tf.Start, tf.End
			filter.StartDate = &start
			filter.EndDate = &end
		}

		txs, err := m.txService.List(ctx, filter)
		if err != nil {
			return loadQueueMsg{err: err}
		}

		accounts, err := m.accountService.Map(ctx)
		if err != nil {
			return loadQueueMsg{err: err}
		}

		categories, err := m.accountService.List(ctx, account.ListFilter{
			Types: []account.Type{account.TypeIncome, account.TypeExpense},
		})
		if err != nil {
			return loadQueueMsg{err: err}
		}

		return loadQueueMsg{txs: txs, accounts: accounts, categories: categories}
	}
}

type reviewSaveMsg struct {
	err error
}

func (m ReviewModel) saveAndNextCmd() tea.Cmd {
	tx := m.currentTx
	merchant := m.merchantInput.Value()
	original := tx.Merchant
	categoryID, parseErr := uuid.Parse(m.formCategory)
	categoryIsCredit := m.categorySide(tx) == tx.Credit

	return func() tea.Msg {
		if parseErr != nil {
			return reviewSaveMsg{err: parseErr}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if original != "" {
			_ = m.matchingService.Learn(ctx, original, merchant, categoryID)
		}

		params := transaction.UpdateParams{
			Merchant: &merchant,
			Status:   new(transaction.StatusCategorized),
		}

		if categoryIsCredit {
			params.Credit = &categoryID
		} else {
			params.Debit = &categoryID
		}

		_, err := m.txService.Update(ctx, tx.ID, params)

		return reviewSaveMsg{err: err}
	}
}

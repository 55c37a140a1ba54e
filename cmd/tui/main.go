package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/centbook/centbook/cmd/tui/internal/view"
	"github.com/centbook/centbook/internal/account"
	accountStore "github.com/centbook/centbook/internal/account/store"
	"github.com/centbook/centbook/internal/budget"
	budgetStore "github.com/centbook/centbook/internal/budget/store"
	"github.com/centbook/centbook/internal/config"
	"github.com/centbook/centbook/internal/database"
	"github.com/centbook/centbook/internal/export"
	"github.com/centbook/centbook/internal/importer"
	"github.com/centbook/centbook/internal/matching"
	matchingStore "github.com/centbook/centbook/internal/matching/store"
	"github.com/centbook/centbook/internal/report"
	reportStore "github.com/centbook/centbook/internal/report/store"
	"github.com/centbook/centbook/internal/transaction"
	txStore "github.com/centbook/centbook/internal/transaction/store"
)

type model struct {
	accountService  *account.Service
	txService       *transaction.Service
	matchingService *matching.Service
	importService   *importer.Service
	budgetService   *budget.Service
	reportService   *report.Service
	exportService   *export.Service

	currentView View

	accountsView view.AccountsModel
	registerView view.RegisterModel
	reviewView   view.ReviewModel
	importView   view.ImportModel
	budgetView   view.BudgetModel
	exportView   view.ExportModel
}

type View int

const (
	ViewMenu     View = 0
	ViewAccounts View = 1
	ViewRegister View = 2
	ViewReview   View = 3
	ViewImport   View = 4
	ViewBudget   View = 5
	ViewExport   View = 6
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	accountSvc := account.NewService(accountStore.New(db))
	txSvc := transaction.NewService(txStore.New(db), accountSvc)
	budgetSvc := budget.NewService(budgetStore.New(db), accountSvc)
	reportSvc := report.NewService(reportStore.New(db), accountSvc, budgetSvc, txSvc)
	matchSvc := matching.NewService(matchingStore.New(db))
	impSvc := importer.NewService(matchSvc)
	expSvc := export.NewService(txSvc, accountSvc)

	return model{
		accountService:  accountSvc,
		txService:       txSvc,
		matchingService: matchSvc,
		importService:   impSvc,
		budgetService:   budgetSvc,
		reportService:   reportSvc,
		exportService:   expSvc,
		currentView:     ViewMenu,
		accountsView:    view.NewAccountsModel(accountSvc),
		reviewView:      view.NewReviewModel(txSvc, accountSvc, matchSvc),
		importView:      view.NewImportModel(txSvc, accountSvc, impSvc),
		budgetView:      view.NewBudgetModel(budgetSvc, reportSvc),
		exportView:      view.NewExportModel(expSvc, accountSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewAccounts
				m.accountsView = view.NewAccountsModel(m.accountService)

				return m, m.accountsView.Init()
			case "2":
				m.currentView = ViewReview
				m.reviewView = view.NewReviewModel(m.txService, m.accountService, m.matchingService)

				return m, m.reviewView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.txService, m.accountService, m.importService)

				return m, m.importView.Init()
			case "4":
				m.currentView = ViewBudget
				m.budgetView = view.NewBudgetModel(m.budgetService, m.reportService)

				return m, m.budgetView.Init()
			case "5":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService, m.accountService)

				return m, m.exportView.Init()
			}
		}

	case view.AccountSelectedMsg:
		m.currentView = ViewRegister
		m.registerView = view.NewRegisterModel(m.txService, m.accountService, msg.Account)

		return m, m.registerView.Init()

	case view.BackMsg:
		// The register backs out to the accounts list, everything else to
		// the menu.
		if m.currentView == ViewRegister {
			m.currentView = ViewAccounts
			return m, m.accountsView.Init()
		}

		m.currentView = ViewMenu

		return m, nil
	}

	switch m.currentView {
	case ViewAccounts:
		var newModel tea.Model
		newModel, cmd = m.accountsView.Update(msg)
		m.accountsView = newModel.(view.AccountsModel)
	case ViewRegister:
		var newModel tea.Model
		newModel, cmd = m.registerView.Update(msg)
		m.registerView = newModel.(view.RegisterModel)
	case ViewReview:
		var newModel tea.Model
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewBudget:
		var newModel tea.Model
		newModel, cmd = m.budgetView.Update(msg)
		m.budgetView = newModel.(view.BudgetModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Centbook\n\n" +
				"1. Accounts & Registers\n" +
				"2. Review Transactions\n" +
				"3. Import Bank Statement\n" +
				"4. Monthly Budget\n" +
				"5. Export Register CSV\n\n" +
				"q. Quit",
		)
	case ViewAccounts:
		return m.accountsView.View()
	case ViewRegister:
		return m.registerView.View()
	case ViewReview:
		return m.reviewView.View()
	case ViewImport:
		return m.importView.View()
	case ViewBudget:
		return m.budgetView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

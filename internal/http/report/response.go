package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centbook/centbook/internal/ledger"
	"github.com/centbook/centbook/internal/report"
)

type budgetTotalsResponse struct {
	Budgeted   decimal.Decimal `json:"budgeted"`
	Actual     decimal.Decimal `json:"actual"`
	Difference decimal.Decimal `json:"difference"`
}

func toBudgetTotals(t ledger.BudgetTotals) budgetTotalsResponse {
	return budgetTotalsResponse{
		Budgeted:   t.Budgeted,
		Actual:     t.Actual,
		Difference: t.Difference,
	}
}

type budgetRowResponse struct {
	AccountID uuid.UUID `json:"account_id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`

	budgetTotalsResponse
}

type budgetGroupResponse struct {
	SubType  string               `json:"sub_type"`
	Rows     []budgetRowResponse  `json:"rows"`
	Subtotal budgetTotalsResponse `json:"subtotal"`
}

type budgetBlockResponse struct {
	Type   string                `json:"type"`
	Groups []budgetGroupResponse `json:"groups"`
	Total  budgetTotalsResponse  `json:"total"`
}

type budgetTableResponse struct {
	Blocks     []budgetBlockResponse `json:"blocks"`
	GrandTotal budgetTotalsResponse  `json:"grand_total"`
	Warnings   []string              `json:"warnings,omitempty"`
}

func toBudgetResponse(table *ledger.BudgetTable) budgetTableResponse {
	resp := budgetTableResponse{
		Blocks:     make([]budgetBlockResponse, len(table.Blocks)),
		GrandTotal: toBudgetTotals(table.GrandTotal),
	}

	for i, block := range table.Blocks {
		b := budgetBlockResponse{
			Type:   string(block.Type),
			Groups: make([]budgetGroupResponse, len(block.Groups)),
			Total:  toBudgetTotals(block.Total),
		}

		for j, group := range block.Groups {
			g := budgetGroupResponse{
				SubType:  group.SubType,
				Rows:     make([]budgetRowResponse, len(group.Rows)),
				Subtotal: toBudgetTotals(group.Subtotal),
			}

			for k, row := range group.Rows {
				g.Rows[k] = budgetRowResponse{
					AccountID:            row.Account.ID,
					Name:                 row.Account.Name,
					Icon:                 row.Account.DisplayIcon(),
					budgetTotalsResponse: toBudgetTotals(row.BudgetTotals),
				}
			}

			b.Groups[j] = g
		}

		resp.Blocks[i] = b
	}

	for _, d := range table.Diagnostics {
		resp.Warnings = append(resp.Warnings, d.Error())
	}

	return resp
}

type reportRowResponse struct {
	AccountID uuid.UUID       `json:"account_id"`
	Name      string          `json:"name"`
	Icon      string          `json:"icon"`
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"`
}

type reportGroupResponse struct {
	SubType  string              `json:"sub_type"`
	Rows     []reportRowResponse `json:"rows"`
	Subtotal decimal.Decimal     `json:"subtotal"`
}

type reportBlockResponse struct {
	Type   string                `json:"type"`
	Groups []reportGroupResponse `json:"groups"`
	Total  decimal.Decimal       `json:"total"`
}

func toReportBlocks(blocks []ledger.ReportBlock) []reportBlockResponse {
	resp := make([]reportBlockResponse, len(blocks))

	for i, block := range blocks {
		b := reportBlockResponse{
			Type:   string(block.Type),
			Groups: make([]reportGroupResponse, len(block.Groups)),
			Total:  block.Total,
		}

		for j, group := range block.Groups {
			g := reportGroupResponse{
				SubType:  group.SubType,
				Rows:     make([]reportRowResponse, len(group.Rows)),
				Subtotal: group.Subtotal,
			}

			for k, row := range group.Rows {
				g.Rows[k] = reportRowResponse{
					AccountID: row.Account.ID,
					Name:      row.Account.Name,
					Icon:      row.Account.DisplayIcon(),
					Amount:    row.Amount,
					Formatted: ledger.FormatUSD(row.Amount),
				}
			}

			b.Groups[j] = g
		}

		resp[i] = b
	}

	return resp
}

func warnings(diags []ledger.RowDiagnostic) []string {
	if len(diags) == 0 {
		return nil
	}

	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Error()
	}

	return out
}

type balanceResponse struct {
	Blocks            []reportBlockResponse `json:"blocks"`
	NetWorth          decimal.Decimal       `json:"net_worth"`
	FormattedNetWorth string                `json:"formatted_net_worth"`
	Warnings          []string              `json:"warnings,omitempty"`
}

func toBalanceResponse(sheet *ledger.BalanceSheet) balanceResponse {
	return balanceResponse{
		Blocks:            toReportBlocks(sheet.Blocks),
		NetWorth:          sheet.NetWorth,
		FormattedNetWorth: ledger.FormatUSD(sheet.NetWorth),
		Warnings:          warnings(sheet.Diagnostics),
	}
}

type flowResponse struct {
	Blocks         []reportBlockResponse `json:"blocks"`
	GrandTotal     decimal.Decimal       `json:"grand_total"`
	FormattedTotal string                `json:"formatted_total"`
	Warnings       []string              `json:"warnings,omitempty"`
}

func toFlowResponse(stmt *ledger.FlowStatement) flowResponse {
	return flowResponse{
		Blocks:         toReportBlocks(stmt.Blocks),
		GrandTotal:     stmt.GrandTotal,
		FormattedTotal: ledger.FormatUSD(stmt.GrandTotal),
		Warnings:       warnings(stmt.Diagnostics),
	}
}

type netWorthPointResponse struct {
	Month    string          `json:"month"`
	NetWorth decimal.Decimal `json:"net_worth"`
}

func toNetWorthResponse(points []report.NetWorthPoint) []netWorthPointResponse {
	resp := make([]netWorthPointResponse, len(points))
	for i, p := range points {
		resp[i] = netWorthPointResponse{
			Month:    p.Month.Format("2006-01"),
			NetWorth: p.NetWorth,
		}
	}

	return resp
}

type goalProgressResponse struct {
	AccountID uuid.UUID       `json:"account_id"`
	Name      string          `json:"name"`
	Icon      string          `json:"icon"`
	Target    decimal.Decimal `json:"target"`
	Saved     decimal.Decimal `json:"saved"`
	Percent   decimal.Decimal `json:"percent"`
	CreatedAt time.Time       `json:"created_at"`
}

func toGoalsResponse(progress []report.GoalProgress) []goalProgressResponse {
	resp := make([]goalProgressResponse, len(progress))
	for i, p := range progress {
		resp[i] = goalProgressResponse{
			AccountID: p.Account.ID,
			Name:      p.Account.Name,
			Icon:      p.Account.DisplayIcon(),
			Target:    p.Target,
			Saved:     p.Saved,
			Percent:   p.Percent,
			CreatedAt: p.Account.CreatedAt,
		}
	}

	return resp
}

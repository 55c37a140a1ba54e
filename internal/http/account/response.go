package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centbook/centbook/internal/account"
	"github.com/centbook/centbook/internal/ledger"
)

type subTypeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	AccountType string    `json:"account_type"`
}

func toSubTypeResponse(st *account.SubType) subTypeResponse {
	return subTypeResponse{
		ID:          st.ID,
		Name:        st.Name,
		AccountType: string(st.AccountType),
	}
}

type accountResponse struct {
	ID                uuid.UUID        `json:"id"`
	Name              string           `json:"name"`
	Num               int              `json:"num"`
	Type              string           `json:"type"`
	SubType           *subTypeResponse `json:"sub_type,omitempty"`
	Icon              string           `json:"icon"`
	Group             string           `json:"group"`
	Balance           decimal.Decimal  `json:"balance"`
	FormattedBalance  string           `json:"formatted_balance"`
	ReconciledBalance decimal.Decimal  `json:"reconciled_balance"`
	InBankFeed        bool             `json:"in_bank_feed"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         *time.Time       `json:"updated_at,omitempty"`
}

func toResponse(a *account.Account) accountResponse {
	resp := accountResponse{
		ID:                a.ID,
		Name:              a.Name,
		Num:               a.Num,
		Type:              string(a.Type),
		Icon:              a.DisplayIcon(),
		Group:             a.GroupName(),
		Balance:           a.Balance,
		FormattedBalance:  ledger.FormatUSD(a.Balance),
		ReconciledBalance: a.ReconciledBalance,
		InBankFeed:        a.InBankFeed,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}

	if a.SubType != nil {
		st := toSubTypeResponse(a.SubType)
		resp.SubType = &st
	}

	return resp
}

func toResponseList(accounts []*account.Account) []accountResponse {
	resp := make([]accountResponse, len(accounts))
	for i, a := range accounts {
		resp[i] = toResponse(a)
	}

	return resp
}

type goalResponse struct {
	ID           uuid.UUID       `json:"id"`
	AccountID    uuid.UUID       `json:"account_id"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toGoalResponse(g *account.Goal) goalResponse {
	return goalResponse{
		ID:           g.ID,
		AccountID:    g.AccountID,
		TargetAmount: g.TargetAmount,
		CreatedAt:    g.CreatedAt,
	}
}

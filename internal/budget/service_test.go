package budget_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/centbook/centbook/internal/account"
	"github.com/centbook/centbook/internal/budget"
)

func TestService_Set(t *testing.T) {
	type testCase struct {
		name        string
		accountType account.Type
		wantErr     error
	}

	tests := []testCase{
		{name: "Expense", accountType: account.TypeExpense},
		{name: "Income", accountType: account.TypeIncome},
		{name: "Asset", accountType: account.TypeAsset, wantErr: budget.ErrNotBudgetable},
		{name: "Goal", accountType: account.TypeGoal, wantErr: budget.ErrNotBudgetable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			accountID := uuid.New()

			repo := budget.NewMockRepository(ctrl)
			accounts := budget.NewMockAccountGetter(ctrl)

			accounts.EXPECT().
				Get(gomock.Any(), accountID).
				Return(&account.Account{ID: accountID, Type: tt.accountType}, nil)

			if tt.wantErr == nil {
				repo.EXPECT().
					UpsertEntry(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *budget.Entry) error {
						e.ID = uuid.New()
						return nil
					})
			}

			svc := budget.NewService(repo, accounts)

			got, err := svc.Set(context.Background(),
				accountID,
				time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC),
				decimal.RequireFromString("250"),
			)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got.Month)
		})
	}
}

func TestNormalizeMonth(t *testing.T) {
	in := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), budget.NormalizeMonth(in))
}

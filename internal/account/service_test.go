package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/centbook/centbook/internal/account"
)

func TestService_Create(t *testing.T) {
	subTypeID := uuid.New()

	type testCase struct {
		name      string
		params    account.CreateParams
		setupMock func(m *account.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: account.CreateParams{
				Name: "Checking",
				Num:  1000,
				Type: account.TypeAsset,
			},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().
					CreateAccount(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, a *account.Account) error {
						a.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name: "SubTypeResolved",
			params: account.CreateParams{
				Name:      "Rent",
				Num:       5000,
				Type:      account.TypeExpense,
				SubTypeID: &subTypeID,
			},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().
					GetSubType(gomock.Any(), subTypeID).
					Return(&account.SubType{ID: subTypeID, Name: "Housing", AccountType: account.TypeExpense}, nil)
				m.EXPECT().
					CreateAccount(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, a *account.Account) error {
						a.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name: "SubTypeWrongAccountType",
			params: account.CreateParams{
				Name:      "Rent",
				Num:       5000,
				Type:      account.TypeExpense,
				SubTypeID: &subTypeID,
			},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().
					GetSubType(gomock.Any(), subTypeID).
					Return(&account.SubType{ID: subTypeID, Name: "Cash", AccountType: account.TypeAsset}, nil)
			},
			wantErr: account.ErrSubTypeMismatch,
		},
		{
			name: "InvalidType",
			params: account.CreateParams{
				Name: "Mystery",
				Type: account.Type("Crypto"),
			},
			wantErr: errors.New("not valid"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := account.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := account.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, account.ErrSubTypeMismatch) {
					assert.ErrorIs(t, err, account.ErrSubTypeMismatch)
				}

				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestService_Update_ClearsSubType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	existing := &account.Account{
		ID:      id,
		Name:    "Rent",
		Type:    account.TypeExpense,
		SubType: &account.SubType{ID: uuid.New(), Name: "Housing", AccountType: account.TypeExpense},
	}

	repo := account.NewMockRepository(ctrl)
	repo.EXPECT().GetAccount(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().
		UpdateAccount(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *account.Account) error {
			assert.Nil(t, a.SubType)
			return nil
		})

	svc := account.NewService(repo)

	got, err := svc.Update(context.Background(), id, account.UpdateParams{ClearSub: true})
	require.NoError(t, err)
	assert.Nil(t, got.SubType)
}

func TestService_RefreshBalances_Deduplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a, b := uuid.New(), uuid.New()

	repo := account.NewMockRepository(ctrl)
	repo.EXPECT().RecalculateBalances(gomock.Any(), a).Return(nil).Times(1)
	repo.EXPECT().RecalculateBalances(gomock.Any(), b).Return(nil).Times(1)

	svc := account.NewService(repo)
	require.NoError(t, svc.RefreshBalances(context.Background(), a, b, a, b, a))
}

func TestService_SetGoalTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	goalAccount := &account.Account{ID: uuid.New(), Name: "Vacation", Type: account.TypeGoal}
	checking := &account.Account{ID: uuid.New(), Name: "Checking", Type: account.TypeAsset}

	repo := account.NewMockRepository(ctrl)
	repo.EXPECT().GetAccount(gomock.Any(), goalAccount.ID).Return(goalAccount, nil)
	repo.EXPECT().
		UpsertGoal(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, g *account.Goal) error {
			g.ID = uuid.New()
			return nil
		})

	svc := account.NewService(repo)

	g, err := svc.SetGoalTarget(context.Background(), goalAccount.ID, decimal.RequireFromString("5000"))
	require.NoError(t, err)
	assert.Equal(t, goalAccount.ID, g.AccountID)

	repo.EXPECT().GetAccount(gomock.Any(), checking.ID).Return(checking, nil)

	_, err = svc.SetGoalTarget(context.Background(), checking.ID, decimal.RequireFromString("5000"))
	assert.Error(t, err)
}

func TestAccount_Display(t *testing.T) {
	a := &account.Account{Name: "Checking", Type: account.TypeAsset}
	assert.Equal(t, account.DefaultIcon, a.DisplayIcon())
	assert.Equal(t, account.DefaultGroup, a.GroupName())

	a.Icon = "🏦"
	a.SubType = &account.SubType{Name: "Cash", AccountType: account.TypeAsset}
	assert.Equal(t, "🏦", a.DisplayIcon())
	assert.Equal(t, "Cash", a.GroupName())
}

package transaction_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/centbook/centbook/internal/transaction"
)

// anyRefresher accepts any balance refresh; a lone Any matcher on a variadic
// parameter matches regardless of how many ids are passed.
func anyRefresher(m *transaction.MockBalanceRefresher) {
	m.EXPECT().RefreshBalances(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func TestService_Create(t *testing.T) {
	checking := uuid.New()
	groceries := uuid.New()

	type testCase struct {
		name      string
		params    transaction.CreateParams
		setupMock func(m *transaction.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: transaction.CreateParams{
				Date:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				Amount:   decimal.RequireFromString("42.50"),
				Debit:    groceries,
				Credit:   checking,
				Merchant: "GROCERY MART",
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "NegativeAmount",
			params: transaction.CreateParams{
				Amount: decimal.RequireFromString("-5"),
				Debit:  groceries,
				Credit: checking,
			},
			wantErr: transaction.ErrNegativeAmount,
		},
		{
			name: "SameAccount",
			params: transaction.CreateParams{
				Amount: decimal.RequireFromString("5"),
				Debit:  checking,
				Credit: checking,
			},
			wantErr: transaction.ErrSameAccount,
		},
		{
			name: "UnknownStatus",
			params: transaction.CreateParams{
				Amount: decimal.RequireFromString("5"),
				Debit:  groceries,
				Credit: checking,
				Status: transaction.Status("archived"),
			},
			wantErr: transaction.ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			refresher := transaction.NewMockBalanceRefresher(ctrl)
			anyRefresher(refresher)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo, refresher)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, transaction.StatusReview, got.Status)
			assert.False(t, got.IsReconciled)
		})
	}
}

func TestService_Create_RefreshesBothAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	checking := uuid.New()
	groceries := uuid.New()

	repo := transaction.NewMockRepository(ctrl)
	refresher := transaction.NewMockBalanceRefresher(ctrl)

	repo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			tx.ID = uuid.New()
			return nil
		})
	refresher.EXPECT().RefreshBalances(gomock.Any(), groceries, checking).Return(nil)

	svc := transaction.NewService(repo, refresher)

	_, err := svc.Create(context.Background(), transaction.CreateParams{
		Date:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Amount: decimal.RequireFromString("10"),
		Debit:  groceries,
		Credit: checking,
	})
	require.NoError(t, err)
}

func TestService_Update_StatusTransition(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	debit := uuid.New()
	credit := uuid.New()
	reconciled := transaction.StatusReconciled

	existing := &transaction.Transaction{
		ID:     id,
		Amount: decimal.RequireFromString("10"),
		Debit:  debit,
		Credit: credit,
		Status: transaction.StatusCategorized,
	}

	repo := transaction.NewMockRepository(ctrl)
	refresher := transaction.NewMockBalanceRefresher(ctrl)
	anyRefresher(refresher)

	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().
		UpdateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			assert.Equal(t, transaction.StatusReconciled, tx.Status)
			assert.True(t, tx.IsReconciled)
			return nil
		})

	svc := transaction.NewService(repo, refresher)

	got, err := svc.Update(context.Background(), id, transaction.UpdateParams{Status: &reconciled})
	require.NoError(t, err)
	assert.True(t, got.IsReconciled)
}

func TestService_Update_RejectsSameAccountEdit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	debit := uuid.New()
	credit := uuid.New()

	existing := &transaction.Transaction{
		ID:     id,
		Amount: decimal.RequireFromString("10"),
		Debit:  debit,
		Credit: credit,
		Status: transaction.StatusReview,
	}

	repo := transaction.NewMockRepository(ctrl)
	refresher := transaction.NewMockBalanceRefresher(ctrl)

	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(existing, nil)

	svc := transaction.NewService(repo, refresher)

	_, err := svc.Update(context.Background(), id, transaction.UpdateParams{Credit: &debit})
	assert.ErrorIs(t, err, transaction.ErrSameAccount)
}

func TestService_UpdateStatusBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a := &transaction.Transaction{ID: uuid.New(), Debit: uuid.New(), Credit: uuid.New(), Status: transaction.StatusReview}
	b := &transaction.Transaction{ID: uuid.New(), Debit: uuid.New(), Credit: uuid.New(), Status: transaction.StatusReconciled}

	repo := transaction.NewMockRepository(ctrl)
	refresher := transaction.NewMockBalanceRefresher(ctrl)

	repo.EXPECT().GetTransaction(gomock.Any(), a.ID).Return(a, nil)
	repo.EXPECT().GetTransaction(gomock.Any(), b.ID).Return(b, nil)

	// b is already reconciled, so only a moves.
	repo.EXPECT().
		UpdateStatus(gomock.Any(), []uuid.UUID{a.ID}, transaction.StatusReconciled).
		Return(nil)
	refresher.EXPECT().RefreshBalances(gomock.Any(), a.Debit, a.Credit).Return(nil)

	svc := transaction.NewService(repo, refresher)

	err := svc.UpdateStatusBatch(context.Background(), []uuid.UUID{a.ID, b.ID}, transaction.StatusReconciled)
	require.NoError(t, err)
}

func TestService_UpdateStatusBatch_InvalidTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	refresher := transaction.NewMockBalanceRefresher(ctrl)

	svc := transaction.NewService(repo, refresher)

	err := svc.UpdateStatusBatch(context.Background(), []uuid.UUID{uuid.New()}, transaction.Status("archived"))
	assert.ErrorIs(t, err, transaction.ErrInvalidStatus)
}

func TestService_DeleteBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tx := &transaction.Transaction{ID: uuid.New(), Debit: uuid.New(), Credit: uuid.New(), Status: transaction.StatusReview}

	repo := transaction.NewMockRepository(ctrl)
	refresher := transaction.NewMockBalanceRefresher(ctrl)

	repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
	repo.EXPECT().DeleteTransactions(gomock.Any(), []uuid.UUID{tx.ID}).Return(nil)
	refresher.EXPECT().RefreshBalances(gomock.Any(), tx.Debit, tx.Credit).Return(nil)

	svc := transaction.NewService(repo, refresher)
	require.NoError(t, svc.Delete(context.Background(), tx.ID))
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	checking := uuid.New()
	groceries := uuid.New()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	refresher := transaction.NewMockBalanceRefresher(ctrl)
	anyRefresher(refresher)
	svc := transaction.NewService(repo, refresher)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			Date:     date,
			Amount:   decimal.RequireFromString("10.00"),
			Debit:    groceries,
			Credit:   checking,
			Merchant: "COFFEE SHOP",
		},
	}

	repo.EXPECT().BeginImport(gomock.Any(), date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), params).Return(nil, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Equal(t, transaction.StatusReview, result.Imported[0].Status)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	checking := uuid.New()
	groceries := uuid.New()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	refresher := transaction.NewMockBalanceRefresher(ctrl)
	svc := transaction.NewService(repo, refresher)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			Date:     date,
			Amount:   decimal.RequireFromString("10"),
			Debit:    groceries,
			Credit:   checking,
			Merchant: "COFFEE SHOP",
		},
		{
			Date:     date,
			Amount:   decimal.RequireFromString("20"),
			Debit:    groceries,
			Credit:   checking,
			Merchant: "LUNCH PLACE",
		},
	}

	// Same key even though the stored amount carries explicit cents.
	existing := &transaction.Transaction{
		ID:       uuid.New(),
		Date:     date,
		Amount:   decimal.RequireFromString("10.00"),
		Debit:    groceries,
		Credit:   checking,
		Merchant: "COFFEE SHOP",
	}

	repo.EXPECT().BeginImport(gomock.Any(), date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), params).Return([]*transaction.Transaction{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Len(t, result.New, 1)
	assert.Len(t, result.Conflicts, 1)
	assert.Equal(t, params[0], result.Conflicts[0].Incoming)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	refresher := transaction.NewMockBalanceRefresher(ctrl)

	svc := transaction.NewService(repo, refresher)

	result, err := svc.ImportBatch(context.Background(), []transaction.CreateParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	checking := uuid.New()
	groceries := uuid.New()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	refresher := transaction.NewMockBalanceRefresher(ctrl)
	anyRefresher(refresher)
	svc := transaction.NewService(repo, refresher)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			Date:     date,
			Amount:   decimal.RequireFromString("10"),
			Debit:    groceries,
			Credit:   checking,
			Merchant: "COFFEE SHOP",
		},
	}

	repo.EXPECT().BeginImport(gomock.Any(), date, date).Return(itx, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	txs, err := svc.CreateBatch(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("10")))
	assert.Equal(t, transaction.StatusReview, txs[0].Status)
}

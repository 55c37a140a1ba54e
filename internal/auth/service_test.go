package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/centbook/centbook/internal/auth"
)

const testSecret = "test-secret"

func hash(t *testing.T, password string) string {
	t.Helper()

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return string(h)
}

func TestService_Login(t *testing.T) {
	userID := uuid.New()

	type testCase struct {
		name      string
		password  string
		setupMock func(m *auth.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "Success",
			password: "hunter2",
			setupMock: func(m *auth.MockRepository) {
				m.EXPECT().
					GetUserByEmail(gomock.Any(), "me@example.com").
					Return(&auth.User{ID: userID, Email: "me@example.com", PasswordHash: hash(t, "hunter2")}, nil)
			},
		},
		{
			name:     "WrongPassword",
			password: "nope",
			setupMock: func(m *auth.MockRepository) {
				m.EXPECT().
					GetUserByEmail(gomock.Any(), "me@example.com").
					Return(&auth.User{ID: userID, Email: "me@example.com", PasswordHash: hash(t, "hunter2")}, nil)
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "UnknownUser",
			password: "hunter2",
			setupMock: func(m *auth.MockRepository) {
				m.EXPECT().
					GetUserByEmail(gomock.Any(), "me@example.com").
					Return(nil, auth.ErrNotFound)
			},
			wantErr: auth.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := auth.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := auth.NewService(repo, []byte(testSecret), time.Hour)
			token, err := svc.Login(context.Background(), "me@example.com", tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)

			got, err := svc.VerifyToken(token)
			require.NoError(t, err)
			assert.Equal(t, userID, got)
		})
	}
}

func TestService_VerifyToken_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := auth.NewService(auth.NewMockRepository(ctrl), []byte(testSecret), time.Hour)
	other := auth.NewService(auth.NewMockRepository(ctrl), []byte("other-secret"), time.Hour)

	userID := uuid.New()

	repo := auth.NewMockRepository(ctrl)
	repo.EXPECT().
		GetUserByEmail(gomock.Any(), gomock.Any()).
		Return(&auth.User{ID: userID, PasswordHash: hash(t, "pw")}, nil)

	token, err := auth.NewService(repo, []byte(testSecret), time.Hour).
		Login(context.Background(), "me@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	repo := auth.NewMockRepository(ctrl)
	repo.EXPECT().
		GetUserByEmail(gomock.Any(), gomock.Any()).
		Return(&auth.User{ID: userID, PasswordHash: hash(t, "pw")}, nil)

	svc := auth.NewService(repo, []byte(testSecret), time.Hour)

	token, err := svc.Login(context.Background(), "me@example.com", "pw")
	require.NoError(t, err)

	var gotID uuid.UUID

	handler := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = auth.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("Authorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, gotID)
	})

	t.Run("MissingToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

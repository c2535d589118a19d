package client_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"fiado/internal/client"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    client.CreateParams
		setupMock func(m *client.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: client.CreateParams{LastName: "García", FirstName: "Ana", Phone: "1122334455"},
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().CreateClient(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "TrimsAndAllowsEmptyPhone",
			params: client.CreateParams{LastName: "  Muñoz ", FirstName: " Beto", Phone: "  "},
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().CreateClient(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "MissingLastName",
			params:  client.CreateParams{FirstName: "Ana"},
			wantErr: client.ErrValidation,
		},
		{
			name:    "MissingFirstName",
			params:  client.CreateParams{LastName: "García"},
			wantErr: client.ErrValidation,
		},
		{
			name:    "PhoneTooShort",
			params:  client.CreateParams{LastName: "García", FirstName: "Ana", Phone: "12345"},
			wantErr: client.ErrValidation,
		},
		{
			name:    "PhoneWithNonDigits",
			params:  client.CreateParams{LastName: "García", FirstName: "Ana", Phone: "11-2233-44"},
			wantErr: client.ErrValidation,
		},
		{
			name:   "RepoError",
			params: client.CreateParams{LastName: "García", FirstName: "Ana"},
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().CreateClient(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := client.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := client.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.False(t, got.CreatedAt.IsZero())
			assert.Equal(t, strings.TrimSpace(tt.params.LastName), got.LastName)
			assert.Equal(t, strings.TrimSpace(tt.params.Phone), got.Phone)
		})
	}
}

func TestService_Update_Validates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := client.NewMockRepository(ctrl)
	svc := client.NewService(repo)

	err := svc.Update(context.Background(), &client.Client{ID: uuid.New(), LastName: "García", FirstName: "", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, client.ErrValidation)
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, client.ValidatePhone(""))
	assert.NoError(t, client.ValidatePhone("1112223344"))
	assert.ErrorIs(t, client.ValidatePhone("111222334"), client.ErrValidation)
	assert.ErrorIs(t, client.ValidatePhone("11122233445"), client.ErrValidation)
	assert.ErrorIs(t, client.ValidatePhone("11a2223344"), client.ErrValidation)
}

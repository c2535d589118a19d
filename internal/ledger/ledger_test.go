package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"fiado/internal/charge"
	"fiado/internal/client"
	"fiado/internal/ledger"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestService_ApplyPayment(t *testing.T) {
	chargeID := uuid.New()

	type testCase struct {
		name       string
		amount     int64
		setupMock  func(m *ledger.MockChargeRepository)
		wantPaid   int64
		wantStatus charge.Status
		wantErr    error
	}

	tests := []testCase{
		{
			name:   "PartialPayment",
			amount: 40,
			setupMock: func(m *ledger.MockChargeRepository) {
				m.EXPECT().
					GetCharge(gomock.Any(), chargeID).
					Return(&charge.Charge{ID: chargeID, Amount: 100, Status: charge.StatusActive}, nil)
				m.EXPECT().UpdateCharge(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantPaid:   40,
			wantStatus: charge.StatusPartiallyPaid,
		},
		{
			name:   "ExactRemainingBalance",
			amount: 60,
			setupMock: func(m *ledger.MockChargeRepository) {
				m.EXPECT().
					GetCharge(gomock.Any(), chargeID).
					Return(&charge.Charge{ID: chargeID, Amount: 100, AmountPaid: 40, Status: charge.StatusPartiallyPaid}, nil)
				m.EXPECT().UpdateCharge(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantPaid:   100,
			wantStatus: charge.StatusPaid,
		},
		{
			name:   "OverpaymentClamped",
			amount: 500,
			setupMock: func(m *ledger.MockChargeRepository) {
				m.EXPECT().
					GetCharge(gomock.Any(), chargeID).
					Return(&charge.Charge{ID: chargeID, Amount: 30, Status: charge.StatusOverdue}, nil)
				m.EXPECT().UpdateCharge(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantPaid:   30,
			wantStatus: charge.StatusPaid,
		},
		{
			name:    "ZeroPayment",
			amount:  0,
			wantErr: ledger.ErrValidation,
		},
		{
			name:    "NegativePayment",
			amount:  -10,
			wantErr: ledger.ErrValidation,
		},
		{
			name:   "NotFound",
			amount: 10,
			setupMock: func(m *ledger.MockChargeRepository) {
				m.EXPECT().GetCharge(gomock.Any(), chargeID).Return(nil, charge.ErrNotFound)
			},
			wantErr: charge.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			clients := ledger.NewMockClientRepository(ctrl)
			charges := ledger.NewMockChargeRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(charges)
			}

			svc := ledger.NewService(clients, charges)
			got, err := svc.ApplyPayment(context.Background(), chargeID, tt.amount)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPaid, got.AmountPaid)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.GreaterOrEqual(t, got.AmountPaid, int64(0))
			assert.LessOrEqual(t, got.AmountPaid, got.Amount)
		})
	}
}

func TestService_Settle_OldestFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clientID := uuid.New()

	older := &charge.Charge{ID: uuid.New(), ClientID: clientID, Amount: 100, Date: day(2024, time.January, 10), Status: charge.StatusOverdue}
	newer := &charge.Charge{ID: uuid.New(), ClientID: clientID, Amount: 50, Date: day(2024, time.February, 5), Status: charge.StatusActive}

	clients := ledger.NewMockClientRepository(ctrl)
	charges := ledger.NewMockChargeRepository(ctrl)

	clients.EXPECT().GetClient(gomock.Any(), clientID).Return(&client.Client{ID: clientID}, nil)
	charges.EXPECT().
		ListCharges(gomock.Any(), charge.ListFilter{ClientID: &clientID}).
		Return([]*charge.Charge{newer, older}, nil)

	var persisted []*charge.Charge

	charges.EXPECT().
		UpdateCharges(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, batch []*charge.Charge) error {
			persisted = batch
			return nil
		})

	svc := ledger.NewService(clients, charges)
	touched, err := svc.Settle(context.Background(), clientID, 120)
	require.NoError(t, err)

	require.Len(t, touched, 2)
	assert.Equal(t, older.ID, touched[0].ID)
	assert.Equal(t, int64(100), touched[0].AmountPaid)
	assert.Equal(t, charge.StatusPaid, touched[0].Status)
	assert.Equal(t, newer.ID, touched[1].ID)
	assert.Equal(t, int64(20), touched[1].AmountPaid)
	assert.Equal(t, charge.StatusPartiallyPaid, touched[1].Status)

	// The whole allocation goes to the store as one batch.
	assert.Equal(t, touched, persisted)
}

func TestService_Settle_SurplusDiscarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clientID := uuid.New()
	only := &charge.Charge{ID: uuid.New(), ClientID: clientID, Amount: 30, Date: day(2024, time.March, 1), Status: charge.StatusActive}

	clients := ledger.NewMockClientRepository(ctrl)
	charges := ledger.NewMockChargeRepository(ctrl)

	clients.EXPECT().GetClient(gomock.Any(), clientID).Return(&client.Client{ID: clientID}, nil)
	charges.EXPECT().
		ListCharges(gomock.Any(), charge.ListFilter{ClientID: &clientID}).
		Return([]*charge.Charge{only}, nil)
	charges.EXPECT().UpdateCharges(gomock.Any(), gomock.Any()).Return(nil)

	svc := ledger.NewService(clients, charges)
	touched, err := svc.Settle(context.Background(), clientID, 50)
	require.NoError(t, err)

	require.Len(t, touched, 1)
	assert.Equal(t, int64(30), touched[0].AmountPaid)
	assert.Equal(t, charge.StatusPaid, touched[0].Status)
}

func TestService_Settle_TieBrokenByInsertionOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clientID := uuid.New()
	date := day(2024, time.April, 2)
	first := &charge.Charge{ID: uuid.New(), ClientID: clientID, Amount: 40, Date: date, Status: charge.StatusActive}
	second := &charge.Charge{ID: uuid.New(), ClientID: clientID, Amount: 40, Date: date, Status: charge.StatusActive}

	clients := ledger.NewMockClientRepository(ctrl)
	charges := ledger.NewMockChargeRepository(ctrl)

	clients.EXPECT().GetClient(gomock.Any(), clientID).Return(&client.Client{ID: clientID}, nil)
	charges.EXPECT().
		ListCharges(gomock.Any(), charge.ListFilter{ClientID: &clientID}).
		Return([]*charge.Charge{first, second}, nil)
	charges.EXPECT().UpdateCharges(gomock.Any(), gomock.Any()).Return(nil)

	svc := ledger.NewService(clients, charges)
	touched, err := svc.Settle(context.Background(), clientID, 10)
	require.NoError(t, err)

	require.Len(t, touched, 1)
	assert.Equal(t, first.ID, touched[0].ID)
	assert.Equal(t, int64(10), touched[0].AmountPaid)
}

func TestService_Settle_ClientNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clientID := uuid.New()

	clients := ledger.NewMockClientRepository(ctrl)
	charges := ledger.NewMockChargeRepository(ctrl)

	clients.EXPECT().GetClient(gomock.Any(), clientID).Return(nil, client.ErrNotFound)

	svc := ledger.NewService(clients, charges)
	touched, err := svc.Settle(context.Background(), clientID, 100)

	require.ErrorIs(t, err, client.ErrNotFound)
	assert.Nil(t, touched)
}

func TestService_Settle_NothingOutstanding(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clientID := uuid.New()
	paid := &charge.Charge{ID: uuid.New(), ClientID: clientID, Amount: 30, AmountPaid: 30, Date: day(2024, time.March, 1), Status: charge.StatusPaid}

	clients := ledger.NewMockClientRepository(ctrl)
	charges := ledger.NewMockChargeRepository(ctrl)

	clients.EXPECT().GetClient(gomock.Any(), clientID).Return(&client.Client{ID: clientID}, nil)
	charges.EXPECT().
		ListCharges(gomock.Any(), charge.ListFilter{ClientID: &clientID}).
		Return([]*charge.Charge{paid}, nil)

	svc := ledger.NewService(clients, charges)
	touched, err := svc.Settle(context.Background(), clientID, 100)

	require.NoError(t, err)
	assert.Empty(t, touched)
}

func TestService_PayOff(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chargeID := uuid.New()

	clients := ledger.NewMockClientRepository(ctrl)
	charges := ledger.NewMockChargeRepository(ctrl)

	charges.EXPECT().
		GetCharge(gomock.Any(), chargeID).
		Return(&charge.Charge{ID: chargeID, Amount: 80, AmountPaid: 30, Status: charge.StatusPartiallyPaid}, nil)
	charges.EXPECT().UpdateCharge(gomock.Any(), gomock.Any()).Return(nil)

	svc := ledger.NewService(clients, charges)
	got, err := svc.PayOff(context.Background(), chargeID)

	require.NoError(t, err)
	assert.Equal(t, int64(80), got.AmountPaid)
	assert.Equal(t, charge.StatusPaid, got.Status)
}

// A charge with zero remaining but a stale status is flipped to paid
// without inventing a payment.
func TestService_PayOff_ZeroRemaining(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chargeID := uuid.New()

	clients := ledger.NewMockClientRepository(ctrl)
	charges := ledger.NewMockChargeRepository(ctrl)

	charges.EXPECT().
		GetCharge(gomock.Any(), chargeID).
		Return(&charge.Charge{ID: chargeID, Amount: 80, AmountPaid: 80, Status: charge.StatusOverdue}, nil)
	charges.EXPECT().UpdateCharge(gomock.Any(), gomock.Any()).Return(nil)

	svc := ledger.NewService(clients, charges)
	got, err := svc.PayOff(context.Background(), chargeID)

	require.NoError(t, err)
	assert.Equal(t, int64(80), got.AmountPaid)
	assert.Equal(t, charge.StatusPaid, got.Status)
}

func TestDebtOf(t *testing.T) {
	clientID := uuid.New()
	other := uuid.New()

	charges := []*charge.Charge{
		{ClientID: clientID, Amount: 50, AmountPaid: 50, Status: charge.StatusPaid},
		{ClientID: clientID, Amount: 30, AmountPaid: 10, Status: charge.StatusOverdue},
		{ClientID: clientID, Amount: 20, AmountPaid: 0, Status: charge.StatusActive},
		{ClientID: other, Amount: 999, AmountPaid: 0, Status: charge.StatusActive},
	}

	assert.Equal(t, int64(40), ledger.DebtOf(clientID, charges))
	assert.Equal(t, int64(0), ledger.DebtOf(uuid.New(), charges))
}

func TestService_ListClients(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	garcia := &client.Client{ID: uuid.New(), LastName: "García", FirstName: "Ana"}
	munoz := &client.Client{ID: uuid.New(), LastName: "Muñoz", FirstName: "Beto"}
	alvarez := &client.Client{ID: uuid.New(), LastName: "Álvarez", FirstName: "Carla"}

	clients := ledger.NewMockClientRepository(ctrl)
	charges := ledger.NewMockChargeRepository(ctrl)

	all := []*client.Client{garcia, munoz, alvarez}
	debts := []*charge.Charge{
		{ClientID: munoz.ID, Amount: 100, AmountPaid: 20, Status: charge.StatusOverdue},
		{ClientID: garcia.ID, Amount: 30, Status: charge.StatusActive},
		{ClientID: alvarez.ID, Amount: 50, AmountPaid: 50, Status: charge.StatusPaid},
	}

	clients.EXPECT().ListClients(gomock.Any()).Return(all, nil).AnyTimes()
	charges.EXPECT().ListCharges(gomock.Any(), charge.ListFilter{}).Return(debts, nil).AnyTimes()

	svc := ledger.NewService(clients, charges)

	t.Run("SortByName", func(t *testing.T) {
		got, err := svc.ListClients(context.Background(), ledger.ListParams{Sort: ledger.SortByName})
		require.NoError(t, err)
		require.Len(t, got, 3)

		// Álvarez sorts with A despite the accent.
		assert.Equal(t, alvarez.ID, got[0].Client.ID)
		assert.Equal(t, garcia.ID, got[1].Client.ID)
		assert.Equal(t, munoz.ID, got[2].Client.ID)
	})

	t.Run("SortByDebt", func(t *testing.T) {
		got, err := svc.ListClients(context.Background(), ledger.ListParams{Sort: ledger.SortByDebt})
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, munoz.ID, got[0].Client.ID)
		assert.Equal(t, int64(80), got[0].Debt)
		assert.Equal(t, garcia.ID, got[1].Client.ID)
		assert.Equal(t, int64(30), got[1].Debt)
		assert.Equal(t, alvarez.ID, got[2].Client.ID)
		assert.Equal(t, int64(0), got[2].Debt)
	})

	t.Run("SearchIgnoresCaseAndAccents", func(t *testing.T) {
		got, err := svc.ListClients(context.Background(), ledger.ListParams{Search: "munoz"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, munoz.ID, got[0].Client.ID)
	})

	t.Run("SearchMatchesFirstLastOrder", func(t *testing.T) {
		got, err := svc.ListClients(context.Background(), ledger.ListParams{Search: "ana garcia"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, garcia.ID, got[0].Client.ID)
	})
}

func TestService_ListClients_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clients := ledger.NewMockClientRepository(ctrl)
	charges := ledger.NewMockChargeRepository(ctrl)

	clients.EXPECT().ListClients(gomock.Any()).Return(nil, errors.New("db error"))

	svc := ledger.NewService(clients, charges)
	_, err := svc.ListClients(context.Background(), ledger.ListParams{})

	assert.Error(t, err)
}

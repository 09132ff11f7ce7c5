package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gate-backend/internal/apperrors"
	"gate-backend/internal/models"
	"gate-backend/internal/services"
	"gate-backend/internal/timeutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	userPrincipal   = models.Principal{ID: 7, Role: models.RoleUser}
	adminPrincipal  = models.Principal{ID: 1, Role: models.RoleAdmin}
	viewerPrincipal = models.Principal{ID: 3, Role: models.RoleViewer}
)

func newInwardService(store *fakeInwardStore, clock timeutil.Clock, bills *services.BillService) *services.InwardService {
	if bills == nil {
		bills = emptyBills()
	}
	return services.NewInwardService(store, services.NewSerialService(clock), bills, clock, nil)
}

func steel(qty int64) models.MaterialLine {
	return models.MaterialLine{Name: "Steel Rods", Quantity: decimal.NewFromInt(qty), UOM: "Kg"}
}

func TestInwardCreateStampsISTTimeIn(t *testing.T) {
	// 09:30 UTC is 15:00 IST.
	clock := fixedClock{time.Date(2024, time.November, 3, 9, 30, 0, 0, time.UTC)}
	store := &fakeInwardStore{}
	svc := newInwardService(store, clock, nil)

	entry, err := svc.Create(context.Background(), userPrincipal, &models.CreateInwardEntryRequest{
		PartyName: "Acme Traders",
		EntryType: "Bill",
		Materials: []models.MaterialLine{steel(5)},
	})
	require.NoError(t, err)

	assert.Equal(t, "15:00", entry.TimeIn)
	assert.Equal(t, "2024-11-03", entry.EntryDate)
	assert.Equal(t, 7, entry.CreatedBy)
	assert.Empty(t, entry.TimeOut)
}

func TestInwardCreateGeneratesSerialWhenNotSupplied(t *testing.T) {
	clock := fixedClock{istDate(2024, time.November, 3, 15)}
	store := &fakeInwardStore{
		LastSerialWithPrefixFn: func(ctx context.Context, prefix string) (string, error) {
			return "GE-IN/2024-25/00006", nil
		},
	}
	svc := newInwardService(store, clock, nil)

	entry, err := svc.Create(context.Background(), userPrincipal, &models.CreateInwardEntryRequest{
		PartyName: "Acme Traders",
		EntryType: "Cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "GE-IN/2024-25/00007", entry.SerialNumber)
}

func TestInwardCreateKeepsClientSerial(t *testing.T) {
	clock := fixedClock{istDate(2024, time.November, 3, 15)}
	store := &fakeInwardStore{}
	svc := newInwardService(store, clock, nil)

	entry, err := svc.Create(context.Background(), userPrincipal, &models.CreateInwardEntryRequest{
		SerialNumber: "GE-IN/2024-25/00042",
		PartyName:    "Acme Traders",
		EntryType:    "Challan",
	})
	require.NoError(t, err)
	assert.Equal(t, "GE-IN/2024-25/00042", entry.SerialNumber)
}

func TestInwardCreateInvalidMaterialDoesNotTouchStore(t *testing.T) {
	clock := fixedClock{istDate(2024, time.November, 3, 15)}
	store := &fakeInwardStore{}
	svc := newInwardService(store, clock, nil)

	_, err := svc.Create(context.Background(), userPrincipal, &models.CreateInwardEntryRequest{
		PartyName: "Acme Traders",
		EntryType: "Bill",
		Materials: []models.MaterialLine{
			steel(5),
			{Name: "", Quantity: decimal.NewFromInt(2), UOM: "Nos"},
		},
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidMaterial)
	assert.Zero(t, store.createCalls)
}

func TestInwardCreateDuplicateBillRejected(t *testing.T) {
	clock := fixedClock{istDate(2024, time.November, 3, 15)}
	store := &fakeInwardStore{}
	bills := services.NewBillService(
		&fakeBillChecker{bills: map[string]bool{"B100": true}},
		&fakeBillChecker{},
	)
	svc := newInwardService(store, clock, bills)

	_, err := svc.Create(context.Background(), userPrincipal, &models.CreateInwardEntryRequest{
		PartyName:  "Acme Traders",
		EntryType:  "Bill",
		BillNumber: "B100",
	})

	assert.ErrorIs(t, err, apperrors.ErrDuplicateBill)
	assert.Zero(t, store.createCalls)
}

// When both the bill and a material line are bad, the duplicate bill is
// reported first.
func TestInwardCreateDuplicateBillWinsOverInvalidMaterial(t *testing.T) {
	clock := fixedClock{istDate(2024, time.November, 3, 15)}
	store := &fakeInwardStore{}
	bills := services.NewBillService(
		&fakeBillChecker{bills: map[string]bool{"B100": true}},
		&fakeBillChecker{},
	)
	svc := newInwardService(store, clock, bills)

	_, err := svc.Create(context.Background(), userPrincipal, &models.CreateInwardEntryRequest{
		PartyName:  "Acme Traders",
		EntryType:  "Bill",
		BillNumber: "B100",
		Materials:  []models.MaterialLine{{Name: "", UOM: "Kg"}},
	})

	assert.ErrorIs(t, err, apperrors.ErrDuplicateBill)
	assert.Zero(t, store.createCalls)
}

func TestInwardCreateStorageFailureWrapped(t *testing.T) {
	clock := fixedClock{istDate(2024, time.November, 3, 15)}
	store := &fakeInwardStore{
		CreateFn: func(ctx context.Context, entry *models.InwardEntry) error {
			return errors.New("deadlock detected")
		},
	}
	svc := newInwardService(store, clock, nil)

	_, err := svc.Create(context.Background(), userPrincipal, &models.CreateInwardEntryRequest{
		PartyName: "Acme Traders",
		EntryType: "Cash",
	})

	assert.ErrorIs(t, err, apperrors.ErrEntryCreationFailed)
	assert.Contains(t, err.Error(), "deadlock detected")
}

func TestInwardListVisibility(t *testing.T) {
	all := []*models.InwardEntry{{ID: 1}, {ID: 2}, {ID: 3}}
	own := []*models.InwardEntry{{ID: 1}, {ID: 2}}

	store := &fakeInwardStore{
		ListFn: func(ctx context.Context) ([]*models.InwardEntry, error) { return all, nil },
		ListByUserFn: func(ctx context.Context, userID int) ([]*models.InwardEntry, error) {
			require.Equal(t, 7, userID)
			return own, nil
		},
	}
	svc := newInwardService(store, fixedClock{istDate(2024, time.November, 3, 15)}, nil)

	got, err := svc.List(context.Background(), userPrincipal)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.List(context.Background(), adminPrincipal)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = svc.List(context.Background(), viewerPrincipal)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestInwardGetDeniedForForeignUser(t *testing.T) {
	store := &fakeInwardStore{
		GetFn: func(ctx context.Context, id int) (*models.InwardEntry, error) {
			return &models.InwardEntry{ID: id, CreatedBy: 99}, nil
		},
	}
	svc := newInwardService(store, fixedClock{istDate(2024, time.November, 3, 15)}, nil)

	_, err := svc.Get(context.Background(), userPrincipal, 5)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	entry, err := svc.Get(context.Background(), viewerPrincipal, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, entry.ID)
}

func TestInwardExportRowsShape(t *testing.T) {
	amount := decimal.NullDecimal{Decimal: decimal.NewFromFloat(1234.5), Valid: true}
	store := &fakeInwardStore{
		ListForExportFn: func(ctx context.Context, createdBy int, date string) ([]*models.InwardEntry, error) {
			assert.Zero(t, createdBy)
			return []*models.InwardEntry{
				{
					SerialNumber: "GE-IN/2024-25/00001",
					EntryDate:    "2024-11-03",
					PartyName:    "Acme Traders",
					BillNumber:   "B100",
					BillAmount:   amount,
					EntryType:    "Bill",
					TimeIn:       "10:15",
					TimeOut:      "11:40",
					Materials:    []models.MaterialLine{steel(5), {Name: "Cement", Quantity: decimal.NewFromInt(2), UOM: "Nos"}},
				},
				{
					SerialNumber: "GE-IN/2024-25/00002",
					PartyName:    "Zed Supplies",
					EntryType:    "Cash",
					TimeIn:       "12:05",
				},
			}, nil
		},
	}
	svc := newInwardService(store, fixedClock{istDate(2024, time.November, 3, 15)}, nil)

	data, err := svc.ExportRows(context.Background(), adminPrincipal, "")
	require.NoError(t, err)

	require.Len(t, data.Rows, 2)
	require.Equal(t, len(data.Headers), len(data.Rows[0]))

	first := data.Rows[0]
	assert.Equal(t, "GE-IN/2024-25/00001", first[0])
	assert.Equal(t, "1234.50", first[4])
	assert.Equal(t, "Steel Rods (5 Kg)\nCement (2 Nos)", first[8])
	assert.Equal(t, "Completed", first[len(first)-1])

	second := data.Rows[1]
	assert.Empty(t, second[4])
	assert.Equal(t, "Pending", second[len(second)-1])
}

func TestInwardExportUserScopedWithDate(t *testing.T) {
	store := &fakeInwardStore{
		ListForExportFn: func(ctx context.Context, createdBy int, date string) ([]*models.InwardEntry, error) {
			assert.Equal(t, 7, createdBy)
			assert.Equal(t, "2024-11-03", date)
			return nil, nil
		},
	}
	svc := newInwardService(store, fixedClock{istDate(2024, time.November, 3, 15)}, nil)

	_, err := svc.ExportRows(context.Background(), userPrincipal, "2024-11-03")
	require.NoError(t, err)
}

func TestInwardSetTimeOutStampsClock(t *testing.T) {
	clock := fixedClock{time.Date(2024, time.November, 3, 12, 30, 0, 0, time.UTC)} // 18:00 IST

	var stamped string
	store := &fakeInwardStore{
		GetFn: func(ctx context.Context, id int) (*models.InwardEntry, error) {
			return &models.InwardEntry{ID: id, CreatedBy: 7, TimeOut: stamped}, nil
		},
		SetTimeOutFn: func(ctx context.Context, id int, timeOut string) error {
			stamped = timeOut
			return nil
		},
	}
	svc := newInwardService(store, clock, nil)

	entry, err := svc.SetTimeOut(context.Background(), userPrincipal, 5)
	require.NoError(t, err)
	assert.Equal(t, "18:00", entry.TimeOut)
}

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

func newOutwardService(store *fakeOutwardStore, clock timeutil.Clock, bills *services.BillService) *services.OutwardService {
	if bills == nil {
		bills = emptyBills()
	}
	return services.NewOutwardService(store, services.NewSerialService(clock), bills, clock, nil)
}

func openRequest() *models.CreateOutwardEntryRequest {
	return &models.CreateOutwardEntryRequest{
		DriverMobile:  "9876543210",
		DriverName:    "Ram Singh",
		VehicleNumber: "mh12ab1234",
		VehicleType:   "Truck",
		Source:        "Main Gate",
	}
}

func TestOutwardCreateGeneratesSerialAndStamps(t *testing.T) {
	clock := fixedClock{istDate(2024, time.November, 3, 14)}
	store := &fakeOutwardStore{}
	svc := newOutwardService(store, clock, nil)

	entry, err := svc.Create(context.Background(), userPrincipal, openRequest())
	require.NoError(t, err)

	assert.Equal(t, "GE-OUT/2024-25/00001", entry.SerialNumber)
	assert.Equal(t, "2024-11-03", entry.EntryDate)
	assert.Equal(t, "14:00", entry.TimeIn)
	assert.Equal(t, 7, entry.CreatedBy)
}

func TestOutwardCreateUppercasesVehicleNumber(t *testing.T) {
	clock := fixedClock{istDate(2024, time.November, 3, 14)}
	store := &fakeOutwardStore{}
	svc := newOutwardService(store, clock, nil)

	entry, err := svc.Create(context.Background(), userPrincipal, openRequest())
	require.NoError(t, err)
	assert.Equal(t, "MH12AB1234", entry.VehicleNumber)
}

func TestOutwardCreateRequiresDriverAndVehicle(t *testing.T) {
	clock := fixedClock{istDate(2024, time.November, 3, 14)}
	store := &fakeOutwardStore{}
	svc := newOutwardService(store, clock, nil)

	req := openRequest()
	req.DriverMobile = ""
	_, err := svc.Create(context.Background(), userPrincipal, req)
	assert.ErrorIs(t, err, apperrors.ErrMissingRequiredFields)

	req = openRequest()
	req.VehicleNumber = ""
	_, err = svc.Create(context.Background(), userPrincipal, req)
	assert.ErrorIs(t, err, apperrors.ErrMissingRequiredFields)

	assert.Zero(t, store.createCalls)
}

func TestOutwardCreateDuplicateBillRejected(t *testing.T) {
	clock := fixedClock{istDate(2024, time.November, 3, 14)}
	store := &fakeOutwardStore{}
	bills := services.NewBillService(
		&fakeBillChecker{},
		&fakeBillChecker{bills: map[string]bool{"B500": true}},
	)
	svc := newOutwardService(store, clock, bills)

	req := openRequest()
	req.BillNumber = "B500"
	_, err := svc.Create(context.Background(), userPrincipal, req)

	assert.ErrorIs(t, err, apperrors.ErrDuplicateBill)
	assert.Zero(t, store.createCalls)
}

func TestOutwardUpdateInvalidMaterialDoesNotTouchStore(t *testing.T) {
	store := &fakeOutwardStore{}
	svc := newOutwardService(store, fixedClock{istDate(2024, time.November, 3, 14)}, nil)

	_, err := svc.Update(context.Background(), userPrincipal, 5, &models.UpdateOutwardEntryRequest{
		Materials: []models.MaterialLine{
			steel(5),
			{Name: "", Quantity: decimal.NewFromInt(2), UOM: "Nos"},
		},
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidMaterial)
	assert.Zero(t, store.updateCalls)
}

func TestOutwardUpdateNotOwnerSurfacesNotFound(t *testing.T) {
	store := &fakeOutwardStore{
		UpdateFn: func(ctx context.Context, entryID, userID int, req *models.UpdateOutwardEntryRequest) (*models.OutwardEntry, error) {
			require.Equal(t, 7, userID)
			return nil, apperrors.ErrNotFound
		},
	}
	svc := newOutwardService(store, fixedClock{istDate(2024, time.November, 3, 14)}, nil)

	_, err := svc.Update(context.Background(), userPrincipal, 5, &models.UpdateOutwardEntryRequest{Purpose: "SALE"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOutwardUpdateLockedEntry(t *testing.T) {
	store := &fakeOutwardStore{
		UpdateFn: func(ctx context.Context, entryID, userID int, req *models.UpdateOutwardEntryRequest) (*models.OutwardEntry, error) {
			return nil, apperrors.ErrEditLocked
		},
	}
	svc := newOutwardService(store, fixedClock{istDate(2024, time.November, 3, 14)}, nil)

	_, err := svc.Update(context.Background(), userPrincipal, 5, &models.UpdateOutwardEntryRequest{Remarks: "late"})
	assert.ErrorIs(t, err, apperrors.ErrEditLocked)
}

func TestOutwardUpdateStorageFailureWrapped(t *testing.T) {
	store := &fakeOutwardStore{
		UpdateFn: func(ctx context.Context, entryID, userID int, req *models.UpdateOutwardEntryRequest) (*models.OutwardEntry, error) {
			return nil, errors.New("disk full")
		},
	}
	svc := newOutwardService(store, fixedClock{istDate(2024, time.November, 3, 14)}, nil)

	_, err := svc.Update(context.Background(), userPrincipal, 5, &models.UpdateOutwardEntryRequest{Remarks: "late"})
	assert.ErrorIs(t, err, apperrors.ErrEntryUpdateFailed)
}

func TestOutwardUpdateChangedBillRechecked(t *testing.T) {
	store := &fakeOutwardStore{
		GetFn: func(ctx context.Context, id int) (*models.OutwardEntry, error) {
			return &models.OutwardEntry{ID: id, CreatedBy: 7, BillNumber: "B100"}, nil
		},
	}
	store.UpdateFn = func(ctx context.Context, entryID, userID int, req *models.UpdateOutwardEntryRequest) (*models.OutwardEntry, error) {
		return &models.OutwardEntry{ID: entryID, BillNumber: req.BillNumber}, nil
	}
	bills := services.NewBillService(
		&fakeBillChecker{bills: map[string]bool{"B200": true}},
		&fakeBillChecker{},
	)
	svc := newOutwardService(store, fixedClock{istDate(2024, time.November, 3, 14)}, bills)

	// Re-submitting the entry's own bill number is not a duplicate.
	_, err := svc.Update(context.Background(), userPrincipal, 5, &models.UpdateOutwardEntryRequest{BillNumber: "B100"})
	assert.NoError(t, err)

	// A changed bill number goes through the duplicate check.
	_, err = svc.Update(context.Background(), userPrincipal, 5, &models.UpdateOutwardEntryRequest{BillNumber: "B200"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateBill)
}

func TestOutwardListVisibility(t *testing.T) {
	store := &fakeOutwardStore{
		ListFn: func(ctx context.Context) ([]*models.OutwardEntry, error) {
			return []*models.OutwardEntry{{ID: 1}, {ID: 2}, {ID: 3}}, nil
		},
		ListByUserFn: func(ctx context.Context, userID int) ([]*models.OutwardEntry, error) {
			return []*models.OutwardEntry{{ID: 1}}, nil
		},
	}
	svc := newOutwardService(store, fixedClock{istDate(2024, time.November, 3, 14)}, nil)

	got, err := svc.List(context.Background(), userPrincipal)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.List(context.Background(), viewerPrincipal)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestOutwardExportRowsStatus(t *testing.T) {
	store := &fakeOutwardStore{
		ListForExportFn: func(ctx context.Context, createdBy int, date string) ([]*models.OutwardEntry, error) {
			return []*models.OutwardEntry{
				{SerialNumber: "GE-OUT/2024-25/00001", TimeIn: "09:00", TimeOut: "10:00"},
				{SerialNumber: "GE-OUT/2024-25/00002", TimeIn: "09:30"},
			}, nil
		},
	}
	svc := newOutwardService(store, fixedClock{istDate(2024, time.November, 3, 14)}, nil)

	data, err := svc.ExportRows(context.Background(), adminPrincipal, "")
	require.NoError(t, err)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "Completed", data.Rows[0][len(data.Headers)-1])
	assert.Equal(t, "Pending", data.Rows[1][len(data.Headers)-1])
}

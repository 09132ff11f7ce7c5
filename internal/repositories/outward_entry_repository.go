package repositories

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gate-backend/internal/apperrors"
	"gate-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OutwardEntryRepository struct {
	DB *pgxpool.Pool
}

func NewOutwardEntryRepository(db *pgxpool.Pool) *OutwardEntryRepository {
	return &OutwardEntryRepository{DB: db}
}

const outwardColumns = `
	o.id, o.serial_number, to_char(o.entry_date, 'YYYY-MM-DD'), o.driver_mobile,
	o.driver_name, o.vehicle_number, o.vehicle_type, o.source, o.purpose,
	o.check_by, o.party_name, o.bill_number, o.bill_amount,
	o.time_in, o.time_out, o.remarks, o.created_by, o.created_at`

// Create inserts the parent row, its material lines, and the first-use
// driver and vehicle records in one transaction.
func (r *OutwardEntryRepository) Create(ctx context.Context, entry *models.OutwardEntry) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := ensureDriver(ctx, tx, entry.DriverMobile, entry.DriverName); err != nil {
		return err
	}
	if err := ensureVehicle(ctx, tx, entry.VehicleNumber, entry.VehicleType); err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO outward_entries (
			serial_number, entry_date, driver_mobile, driver_name,
			vehicle_number, vehicle_type, source, bill_number, time_in, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`,
		entry.SerialNumber, entry.EntryDate, entry.DriverMobile, entry.DriverName,
		entry.VehicleNumber, entry.VehicleType, entry.Source, entry.BillNumber,
		entry.TimeIn, entry.CreatedBy,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return err
	}

	if len(entry.Materials) > 0 {
		if err := insertMaterials(ctx, tx, "outward_materials", "outward_entry_id", entry.ID, entry.Materials); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ensureDriver creates the driver on first use. Existing records are left
// untouched so a typo in one entry does not rename a known driver.
func ensureDriver(ctx context.Context, tx pgx.Tx, mobile, name string) error {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM drivers WHERE mobile = $1)`, mobile).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err := tx.Exec(ctx, `INSERT INTO drivers (mobile, name) VALUES ($1, $2)`, mobile, name)
	return err
}

func ensureVehicle(ctx context.Context, tx pgx.Tx, vehicleNumber, vehicleType string) error {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM vehicles WHERE vehicle_number = $1)`, vehicleNumber).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err := tx.Exec(ctx, `INSERT INTO vehicles (vehicle_number, vehicle_type) VALUES ($1, $2)`, vehicleNumber, vehicleType)
	return err
}

// Update applies a sparse field update scoped to the entry's creator, swaps
// the material list when one is provided, and returns the reassembled entry
// read back inside the same transaction.
//
// A non-owner and a missing id are indistinguishable to the caller.
func (r *OutwardEntryRepository) Update(ctx context.Context, entryID, userID int, req *models.UpdateOutwardEntryRequest) (*models.OutwardEntry, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var currentTimeOut string
	err = tx.QueryRow(ctx, `
		SELECT time_out FROM outward_entries WHERE id = $1 AND created_by = $2
	`, entryID, userID).Scan(&currentTimeOut)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if currentTimeOut != "" {
		return nil, apperrors.ErrEditLocked
	}

	setClauses, args := buildOutwardUpdate(req)
	if len(setClauses) > 0 {
		args = append(args, entryID, userID)
		query := "UPDATE outward_entries SET " + strings.Join(setClauses, ", ") +
			" WHERE id = $" + strconv.Itoa(len(args)-1) + " AND created_by = $" + strconv.Itoa(len(args))
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return nil, err
		}
	}

	if req.Materials != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM outward_materials WHERE outward_entry_id = $1`, entryID); err != nil {
			return nil, err
		}
		if len(req.Materials) > 0 {
			if err := insertMaterials(ctx, tx, "outward_materials", "outward_entry_id", entryID, req.Materials); err != nil {
				return nil, err
			}
		}
	}

	entry, err := getOutwardInTx(ctx, tx, entryID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}

// buildOutwardUpdate collects SET clauses for the fields actually provided.
func buildOutwardUpdate(req *models.UpdateOutwardEntryRequest) ([]string, []interface{}) {
	var clauses []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, column+" = $"+strconv.Itoa(len(args)))
	}

	if req.Purpose != "" {
		add("purpose", req.Purpose)
	}
	if req.CheckBy != "" {
		add("check_by", req.CheckBy)
	}
	if req.PartyName != "" {
		add("party_name", req.PartyName)
	}
	if req.BillNumber != "" {
		add("bill_number", req.BillNumber)
	}
	if req.BillAmount.Valid {
		add("bill_amount", req.BillAmount)
	}
	if req.Remarks != "" {
		add("remarks", req.Remarks)
	}
	if req.TimeOut != "" {
		add("time_out", req.TimeOut)
	}
	return clauses, args
}

func getOutwardInTx(ctx context.Context, tx pgx.Tx, id int) (*models.OutwardEntry, error) {
	query := `
		SELECT ` + outwardColumns + `
		FROM outward_entries o
		WHERE o.id = $1
	`
	var e models.OutwardEntry
	err := tx.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.SerialNumber, &e.EntryDate, &e.DriverMobile,
		&e.DriverName, &e.VehicleNumber, &e.VehicleType, &e.Source, &e.Purpose,
		&e.CheckBy, &e.PartyName, &e.BillNumber, &e.BillAmount,
		&e.TimeIn, &e.TimeOut, &e.Remarks, &e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Materials = []models.MaterialLine{}

	rows, err := tx.Query(ctx, `
		SELECT id, material_name, quantity, uom
		FROM outward_materials
		WHERE outward_entry_id = $1
		ORDER BY id ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m models.MaterialLine
		if err := rows.Scan(&m.ID, &m.Name, &m.Quantity, &m.UOM); err != nil {
			return nil, err
		}
		e.Materials = append(e.Materials, m)
	}
	return &e, rows.Err()
}

// List returns all outward entries with creator names, newest first.
func (r *OutwardEntryRepository) List(ctx context.Context) ([]*models.OutwardEntry, error) {
	query := `
		SELECT ` + outwardColumns + `, u.name
		FROM outward_entries o
		LEFT JOIN users u ON o.created_by = u.id
		ORDER BY o.created_at DESC
	`
	return r.queryEntries(ctx, query)
}

// ListByUser returns entries created by one user, newest first.
func (r *OutwardEntryRepository) ListByUser(ctx context.Context, userID int) ([]*models.OutwardEntry, error) {
	query := `
		SELECT ` + outwardColumns + `, u.name
		FROM outward_entries o
		LEFT JOIN users u ON o.created_by = u.id
		WHERE o.created_by = $1
		ORDER BY o.created_at DESC
	`
	return r.queryEntries(ctx, query, userID)
}

// ListForExport returns entries in ascending register order, optionally
// filtered to one creator (createdBy > 0) and one calendar date.
func (r *OutwardEntryRepository) ListForExport(ctx context.Context, createdBy int, date string) ([]*models.OutwardEntry, error) {
	query := `
		SELECT ` + outwardColumns + `, ''
		FROM outward_entries o
		WHERE ($1 = 0 OR o.created_by = $1)
		  AND ($2 = '' OR o.entry_date = to_date($2, 'YYYY-MM-DD'))
		ORDER BY o.entry_date ASC, o.id ASC
	`
	return r.queryEntries(ctx, query, createdBy, date)
}

func (r *OutwardEntryRepository) queryEntries(ctx context.Context, query string, args ...interface{}) ([]*models.OutwardEntry, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.OutwardEntry
	for rows.Next() {
		var e models.OutwardEntry
		err := rows.Scan(
			&e.ID, &e.SerialNumber, &e.EntryDate, &e.DriverMobile,
			&e.DriverName, &e.VehicleNumber, &e.VehicleType, &e.Source, &e.Purpose,
			&e.CheckBy, &e.PartyName, &e.BillNumber, &e.BillAmount,
			&e.TimeIn, &e.TimeOut, &e.Remarks, &e.CreatedBy, &e.CreatedAt,
			&e.CreatedByName,
		)
		if err != nil {
			return nil, err
		}
		e.Materials = []models.MaterialLine{}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachMaterials(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *OutwardEntryRepository) attachMaterials(ctx context.Context, entries []*models.OutwardEntry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]int32, len(entries))
	byID := make(map[int]*models.OutwardEntry, len(entries))
	for i, e := range entries {
		ids[i] = int32(e.ID)
		byID[e.ID] = e
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, outward_entry_id, material_name, quantity, uom
		FROM outward_materials
		WHERE outward_entry_id = ANY($1)
		ORDER BY id ASC
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m models.MaterialLine
		var entryID int
		if err := rows.Scan(&m.ID, &entryID, &m.Name, &m.Quantity, &m.UOM); err != nil {
			return err
		}
		if e, ok := byID[entryID]; ok {
			e.Materials = append(e.Materials, m)
		}
	}
	return rows.Err()
}

// Get retrieves one outward entry with its materials and creator name.
func (r *OutwardEntryRepository) Get(ctx context.Context, id int) (*models.OutwardEntry, error) {
	query := `
		SELECT ` + outwardColumns + `, u.name
		FROM outward_entries o
		LEFT JOIN users u ON o.created_by = u.id
		WHERE o.id = $1
	`
	var e models.OutwardEntry
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.SerialNumber, &e.EntryDate, &e.DriverMobile,
		&e.DriverName, &e.VehicleNumber, &e.VehicleType, &e.Source, &e.Purpose,
		&e.CheckBy, &e.PartyName, &e.BillNumber, &e.BillAmount,
		&e.TimeIn, &e.TimeOut, &e.Remarks, &e.CreatedBy, &e.CreatedAt,
		&e.CreatedByName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	e.Materials = []models.MaterialLine{}
	if err := r.attachMaterials(ctx, []*models.OutwardEntry{&e}); err != nil {
		return nil, err
	}
	return &e, nil
}

// SetTimeOut stamps the time-out field. Re-stamping simply overwrites.
func (r *OutwardEntryRepository) SetTimeOut(ctx context.Context, id int, timeOut string) error {
	tag, err := r.DB.Exec(ctx, `UPDATE outward_entries SET time_out = $1 WHERE id = $2`, timeOut, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// LastSerialWithPrefix returns the most recently inserted serial number
// starting with the given prefix, or "" when none exists.
func (r *OutwardEntryRepository) LastSerialWithPrefix(ctx context.Context, prefix string) (string, error) {
	var serial string
	err := r.DB.QueryRow(ctx, `
		SELECT serial_number FROM outward_entries
		WHERE serial_number LIKE $1 || '%'
		ORDER BY id DESC LIMIT 1
	`, prefix).Scan(&serial)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return serial, nil
}

// HasBillNumber reports whether any outward entry carries the bill number.
func (r *OutwardEntryRepository) HasBillNumber(ctx context.Context, billNumber string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM outward_entries WHERE bill_number = $1)
	`, billNumber).Scan(&exists)
	return exists, err
}

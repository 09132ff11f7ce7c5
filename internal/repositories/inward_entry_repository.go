package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gate-backend/internal/apperrors"
	"gate-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InwardEntryRepository struct {
	DB *pgxpool.Pool
}

func NewInwardEntryRepository(db *pgxpool.Pool) *InwardEntryRepository {
	return &InwardEntryRepository{DB: db}
}

const inwardColumns = `
	i.id, i.serial_number, to_char(i.entry_date, 'YYYY-MM-DD'), i.party_name,
	i.bill_number, i.bill_amount, i.entry_type, i.vehicle_type, i.source_location,
	i.time_in, i.time_out, i.remarks, i.created_by, i.created_at`

// Create inserts the parent row and its material lines in one transaction.
// The material batch goes in as a single multi-row insert so either every
// line lands or none does.
func (r *InwardEntryRepository) Create(ctx context.Context, entry *models.InwardEntry) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO inward_entries (
			serial_number, entry_date, party_name, bill_number, bill_amount,
			entry_type, vehicle_type, source_location, time_in, remarks, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`,
		entry.SerialNumber, entry.EntryDate, entry.PartyName, entry.BillNumber,
		entry.BillAmount, entry.EntryType, entry.VehicleType, entry.SourceLocation,
		entry.TimeIn, entry.Remarks, entry.CreatedBy,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return err
	}

	if len(entry.Materials) > 0 {
		if err := insertMaterials(ctx, tx, "inward_materials", "inward_entry_id", entry.ID, entry.Materials); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// insertMaterials writes all lines of one entry as a single multi-row insert.
func insertMaterials(ctx context.Context, tx pgx.Tx, table, fkColumn string, entryID int, materials []models.MaterialLine) error {
	var sb strings.Builder
	args := make([]interface{}, 0, len(materials)*4)
	fmt.Fprintf(&sb, "INSERT INTO %s (%s, material_name, quantity, uom) VALUES ", table, fkColumn)
	for i, m := range materials {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 4
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4)
		args = append(args, entryID, m.Name, m.Quantity, m.UOM)
	}
	_, err := tx.Exec(ctx, sb.String(), args...)
	return err
}

// List returns all inward entries with creator names, newest first.
func (r *InwardEntryRepository) List(ctx context.Context) ([]*models.InwardEntry, error) {
	query := `
		SELECT ` + inwardColumns + `, u.name
		FROM inward_entries i
		LEFT JOIN users u ON i.created_by = u.id
		ORDER BY i.created_at DESC, i.entry_date DESC, i.time_in DESC
	`
	return r.queryEntries(ctx, query)
}

// ListByUser returns entries created by one user, newest first.
func (r *InwardEntryRepository) ListByUser(ctx context.Context, userID int) ([]*models.InwardEntry, error) {
	query := `
		SELECT ` + inwardColumns + `, u.name
		FROM inward_entries i
		LEFT JOIN users u ON i.created_by = u.id
		WHERE i.created_by = $1
		ORDER BY i.created_at DESC, i.entry_date DESC, i.time_in DESC
	`
	return r.queryEntries(ctx, query, userID)
}

// ListForExport returns entries in ascending register order, optionally
// filtered to one creator (createdBy > 0) and one calendar date.
func (r *InwardEntryRepository) ListForExport(ctx context.Context, createdBy int, date string) ([]*models.InwardEntry, error) {
	query := `
		SELECT ` + inwardColumns + `, ''
		FROM inward_entries i
		WHERE ($1 = 0 OR i.created_by = $1)
		  AND ($2 = '' OR i.entry_date = to_date($2, 'YYYY-MM-DD'))
		ORDER BY i.entry_date ASC, i.id ASC
	`
	return r.queryEntries(ctx, query, createdBy, date)
}

func (r *InwardEntryRepository) queryEntries(ctx context.Context, query string, args ...interface{}) ([]*models.InwardEntry, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.InwardEntry
	for rows.Next() {
		var e models.InwardEntry
		err := rows.Scan(
			&e.ID, &e.SerialNumber, &e.EntryDate, &e.PartyName,
			&e.BillNumber, &e.BillAmount, &e.EntryType, &e.VehicleType, &e.SourceLocation,
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

// attachMaterials loads the material lines for a batch of entries in one
// query and distributes them in insertion order.
func (r *InwardEntryRepository) attachMaterials(ctx context.Context, entries []*models.InwardEntry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]int32, len(entries))
	byID := make(map[int]*models.InwardEntry, len(entries))
	for i, e := range entries {
		ids[i] = int32(e.ID)
		byID[e.ID] = e
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, inward_entry_id, material_name, quantity, uom
		FROM inward_materials
		WHERE inward_entry_id = ANY($1)
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

// Get retrieves one inward entry with its materials and creator name.
func (r *InwardEntryRepository) Get(ctx context.Context, id int) (*models.InwardEntry, error) {
	query := `
		SELECT ` + inwardColumns + `, u.name
		FROM inward_entries i
		LEFT JOIN users u ON i.created_by = u.id
		WHERE i.id = $1
	`
	var e models.InwardEntry
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.SerialNumber, &e.EntryDate, &e.PartyName,
		&e.BillNumber, &e.BillAmount, &e.EntryType, &e.VehicleType, &e.SourceLocation,
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
	if err := r.attachMaterials(ctx, []*models.InwardEntry{&e}); err != nil {
		return nil, err
	}
	return &e, nil
}

// SetTimeOut stamps the time-out field. Re-stamping simply overwrites.
func (r *InwardEntryRepository) SetTimeOut(ctx context.Context, id int, timeOut string) error {
	tag, err := r.DB.Exec(ctx, `UPDATE inward_entries SET time_out = $1 WHERE id = $2`, timeOut, id)
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
func (r *InwardEntryRepository) LastSerialWithPrefix(ctx context.Context, prefix string) (string, error) {
	var serial string
	err := r.DB.QueryRow(ctx, `
		SELECT serial_number FROM inward_entries
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

// HasBillNumber reports whether any inward entry carries the bill number.
func (r *InwardEntryRepository) HasBillNumber(ctx context.Context, billNumber string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM inward_entries WHERE bill_number = $1)
	`, billNumber).Scan(&exists)
	return exists, err
}

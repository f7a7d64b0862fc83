package mealrecord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"
	"github.com/Abhigulve/mid-day-meal/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const recordColumns = `
	id, school_id, menu_id, date, students_present, meals_served,
	meal_quality, teacher_in_charge, remarks, photo_url, created_at, updated_at
`

func scanRecord(row pgx.Row) (*MealRecord, error) {
	var rec MealRecord
	if err := row.Scan(
		&rec.ID,
		&rec.SchoolID,
		&rec.MenuID,
		&rec.Date,
		&rec.StudentsPresent,
		&rec.MealsServed,
		&rec.Quality,
		&rec.TeacherInCharge,
		&rec.Remarks,
		&rec.PhotoURL,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}

// --------------------------------------------------
// CREATE (UNIQUE PER SCHOOL + MENU + DATE)
// --------------------------------------------------
func (r *PostgresRepository) Create(ctx context.Context, rec *MealRecord) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO meal_records (
			school_id, menu_id, date, students_present, meals_served,
			meal_quality, teacher_in_charge, remarks, photo_url
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`,
		rec.SchoolID,
		rec.MenuID,
		rec.Date,
		rec.StudentsPresent,
		rec.MealsServed,
		rec.Quality,
		rec.TeacherInCharge,
		rec.Remarks,
		rec.PhotoURL,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	switch {
	case err == nil:
		return nil
	case db.IsUniqueViolation(err, db.MealRecordKey):
		return fmt.Errorf("school %d, menu %d, %s: %w",
			rec.SchoolID, rec.MenuID, rec.Date.Format("2006-01-02"), core.ErrDuplicateRecord)
	case db.IsForeignKeyViolation(err):
		return fmt.Errorf("school %d or menu %d: %w", rec.SchoolID, rec.MenuID, core.ErrNotFound)
	default:
		return err
	}
}

// --------------------------------------------------
// UPDATE (MUTABLE FIELDS ONLY)
// --------------------------------------------------
func (r *PostgresRepository) Update(ctx context.Context, rec *MealRecord) error {
	err := r.db.QueryRow(ctx, `
		UPDATE meal_records
		SET students_present = $2,
		    meals_served = $3,
		    meal_quality = $4,
		    teacher_in_charge = $5,
		    remarks = $6,
		    photo_url = $7,
		    updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`,
		rec.ID,
		rec.StudentsPresent,
		rec.MealsServed,
		rec.Quality,
		rec.TeacherInCharge,
		rec.Remarks,
		rec.PhotoURL,
	).Scan(&rec.UpdatedAt)

	if db.IsNoRows(err) {
		return fmt.Errorf("meal record %d: %w", rec.ID, core.ErrNotFound)
	}
	return err
}

// --------------------------------------------------
// READS
// --------------------------------------------------
func (r *PostgresRepository) Get(ctx context.Context, id int64) (*MealRecord, error) {
	rec, err := scanRecord(r.db.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM meal_records WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, fmt.Errorf("meal record %d: %w", id, core.ErrNotFound)
	}
	return rec, err
}

func (r *PostgresRepository) Find(
	ctx context.Context,
	schoolID int64,
	menuID int64,
	date time.Time,
) (*MealRecord, error) {
	rec, err := scanRecord(r.db.QueryRow(ctx, `
		SELECT `+recordColumns+`
		FROM meal_records
		WHERE school_id = $1 AND menu_id = $2 AND date = $3
	`, schoolID, menuID, date))
	if db.IsNoRows(err) {
		return nil, fmt.Errorf("meal record for school %d, menu %d, %s: %w",
			schoolID, menuID, date.Format("2006-01-02"), core.ErrNotFound)
	}
	return rec, err
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]MealRecord, error) {
	var (
		where []string
		args  []any
	)
	if f.SchoolID != 0 {
		args = append(args, f.SchoolID)
		where = append(where, fmt.Sprintf("school_id = $%d", len(args)))
	}
	if f.Range != nil {
		args = append(args, f.Range.Start, f.Range.End)
		where = append(where, fmt.Sprintf("date BETWEEN $%d AND $%d", len(args)-1, len(args)))
	}

	sql := `SELECT ` + recordColumns + ` FROM meal_records`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	sql += ` ORDER BY date DESC, id DESC`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []MealRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// --------------------------------------------------
// DELETE (ADMIN ONLY)
// --------------------------------------------------
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM meal_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("meal record %d: %w", id, core.ErrNotFound)
	}
	return nil
}

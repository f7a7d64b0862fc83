package school

import (
	"context"
	"fmt"

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

const schoolColumns = `
	id, name, code, address, city, state, pincode, phone, email,
	principal_name, total_students, active, created_at, updated_at
`

func scanSchool(row pgx.Row) (*School, error) {
	var (
		s      School
		active bool
	)
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Code,
		&s.Address,
		&s.City,
		&s.State,
		&s.Pincode,
		&s.Phone,
		&s.Email,
		&s.PrincipalName,
		&s.TotalStudents,
		&active,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.Lifecycle = core.StateOf(active)
	return &s, nil
}

func writeError(err error, s *School) error {
	switch {
	case err == nil:
		return nil
	case db.IsNoRows(err):
		return fmt.Errorf("school %d: %w", s.ID, core.ErrNotFound)
	case db.IsUniqueViolation(err, db.SchoolCodeKey):
		return fmt.Errorf("school code %q: %w", s.Code, core.ErrDuplicateSchoolCode)
	default:
		return err
	}
}

func (r *PostgresRepository) Create(ctx context.Context, s *School) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO schools (
			name, code, address, city, state, pincode, phone, email,
			principal_name, total_students, active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE)
		RETURNING id, created_at, updated_at
	`,
		s.Name, s.Code, s.Address, s.City, s.State, s.Pincode, s.Phone, s.Email,
		s.PrincipalName, s.TotalStudents,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return writeError(err, s)
	}
	s.Lifecycle = core.Active
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, s *School) error {
	err := r.db.QueryRow(ctx, `
		UPDATE schools
		SET name = $2, code = $3, address = $4, city = $5, state = $6,
		    pincode = $7, phone = $8, email = $9, principal_name = $10,
		    total_students = $11, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`,
		s.ID, s.Name, s.Code, s.Address, s.City, s.State, s.Pincode, s.Phone, s.Email,
		s.PrincipalName, s.TotalStudents,
	).Scan(&s.UpdatedAt)
	return writeError(err, s)
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*School, error) {
	s, err := scanSchool(r.db.QueryRow(ctx,
		`SELECT `+schoolColumns+` FROM schools WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, fmt.Errorf("school %d: %w", id, core.ErrNotFound)
	}
	return s, err
}

func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (*School, error) {
	s, err := scanSchool(r.db.QueryRow(ctx,
		`SELECT `+schoolColumns+` FROM schools WHERE code = $1`, code))
	if db.IsNoRows(err) {
		return nil, fmt.Errorf("school %q: %w", code, core.ErrNotFound)
	}
	return s, err
}

func (r *PostgresRepository) List(ctx context.Context, vis core.Visibility) ([]School, error) {
	return r.query(ctx, `
		SELECT `+schoolColumns+` FROM schools
		WHERE active OR $1
		ORDER BY name, id
	`, vis == core.IncludeInactive)
}

func (r *PostgresRepository) Search(ctx context.Context, text string) ([]School, error) {
	return r.query(ctx, `
		SELECT `+schoolColumns+` FROM schools
		WHERE active
		  AND (strpos(lower(name), lower($1)) > 0
		       OR strpos(lower(code), lower($1)) > 0
		       OR strpos(lower(city), lower($1)) > 0)
		ORDER BY name, id
	`, text)
}

func (r *PostgresRepository) ListByCity(ctx context.Context, city string) ([]School, error) {
	return r.query(ctx, `
		SELECT `+schoolColumns+` FROM schools
		WHERE active AND lower(city) = lower($1)
		ORDER BY name, id
	`, city)
}

func (r *PostgresRepository) ListByState(ctx context.Context, state string) ([]School, error) {
	return r.query(ctx, `
		SELECT `+schoolColumns+` FROM schools
		WHERE active AND lower(state) = lower($1)
		ORDER BY name, id
	`, state)
}

func (r *PostgresRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM schools WHERE active`).Scan(&n)
	return n, err
}

// Deactivate only flips the flag; meal_records rows are not touched.
func (r *PostgresRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE schools
		SET active = FALSE,
		    updated_at = CASE WHEN active THEN now() ELSE updated_at END
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("school %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) query(ctx context.Context, sql string, args ...any) ([]School, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schools := []School{}
	for rows.Next() {
		s, err := scanSchool(rows)
		if err != nil {
			return nil, err
		}
		schools = append(schools, *s)
	}
	return schools, rows.Err()
}

package auth

import (
	"context"
	"fmt"

	"github.com/Abhigulve/mid-day-meal/internal/core"
	"github.com/Abhigulve/mid-day-meal/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `
	id, username, password, full_name, COALESCE(email, ''), phone,
	role, school_id, active, created_at
`

func scanUser(row pgx.Row) (*User, error) {
	var (
		u      User
		id     uuid.UUID
		active bool
	)
	if err := row.Scan(
		&id,
		&u.Username,
		&u.Password,
		&u.FullName,
		&u.Email,
		&u.Phone,
		&u.Role,
		&u.SchoolID,
		&active,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	u.ID = id.String()
	u.State = core.StateOf(active)
	return &u, nil
}

func (r *PostgresUserRepository) Save(ctx context.Context, user *User) error {
	// Generate UUID if not already set
	id := uuid.New()
	if user.ID != "" {
		parsed, err := uuid.Parse(user.ID)
		if err != nil {
			return fmt.Errorf("user id %q: %w", user.ID, core.ErrValidationFailed)
		}
		id = parsed
	}
	user.ID = id.String()

	err := r.db.QueryRow(ctx, `
		INSERT INTO users (id, username, password, full_name, email, phone, role, school_id, active)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, TRUE)
		RETURNING created_at
	`,
		id,
		user.Username,
		user.Password,
		user.FullName,
		user.Email,
		user.Phone,
		user.Role,
		user.SchoolID,
	).Scan(&user.CreatedAt)

	switch {
	case err == nil:
		user.State = core.Active
		return nil
	case db.IsUniqueViolation(err, db.UsernameKey), db.IsUniqueViolation(err, db.UserEmailKey):
		return fmt.Errorf("user %q: %w", user.Username, core.ErrDuplicateUser)
	case db.IsForeignKeyViolation(err):
		return fmt.Errorf("school %v: %w", user.SchoolID, core.ErrNotFound)
	default:
		return err
	}
}

func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if db.IsNoRows(err) {
		return nil, fmt.Errorf("user %q: %w", username, core.ErrNotFound)
	}
	return u, err
}

func (r *PostgresUserRepository) Get(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}

	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, uid))
	if db.IsNoRows(err) {
		return nil, fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}
	return u, err
}

func (r *PostgresUserRepository) List(ctx context.Context, vis core.Visibility) ([]User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE active OR $1
		ORDER BY username
	`, vis == core.IncludeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *PostgresUserRepository) Deactivate(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}

	tag, err := r.db.Exec(ctx, `UPDATE users SET active = FALSE WHERE id = $1`, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}
	return nil
}

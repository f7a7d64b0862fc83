package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type Options struct {
	DSN      string
	MaxConns int32
	MinConns int32

	// SkipSchema leaves InitSchema to the caller.
	SkipSchema bool
}

// ConnectPostgres opens the pool, pings it and, unless SkipSchema is set,
// makes sure the schema exists.
func ConnectPostgres(ctx context.Context, opts Options) (*pgxpool.Pool, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	config.MaxConns = opts.MaxConns
	config.MinConns = opts.MinConns
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}

	log.Info().Str("host", config.ConnConfig.Host).Msg("connected to postgres")

	if opts.SkipSchema {
		return pool, nil
	}

	if err := InitSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return pool, nil
}

// InitSchema creates tables, constraints and indexes if they are missing.
// Uniqueness rules live here, not in application code.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("%s: %w", stmt.name, err)
		}
	}

	log.Info().Int("statements", len(schema)).Msg("schema initialized")
	return nil
}

var schema = []struct {
	name string
	sql  string
}{
	// -------------------------------
	// SCHOOLS
	// -------------------------------
	{"schools", `
		CREATE TABLE IF NOT EXISTS schools (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			code VARCHAR(64) NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			city VARCHAR(128) NOT NULL DEFAULT '',
			state VARCHAR(128) NOT NULL DEFAULT '',
			pincode VARCHAR(16) NOT NULL DEFAULT '',
			phone VARCHAR(32) NOT NULL DEFAULT '',
			email VARCHAR(255) NOT NULL DEFAULT '',
			principal_name VARCHAR(255) NOT NULL DEFAULT '',
			total_students INTEGER NOT NULL DEFAULT 0 CHECK (total_students >= 0),
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT ` + SchoolCodeKey + ` UNIQUE (code)
		)
	`},

	// -------------------------------
	// USERS
	// -------------------------------
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username VARCHAR(128) NOT NULL,
			password VARCHAR(255) NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NULL,
			phone VARCHAR(32) NOT NULL DEFAULT '',
			role VARCHAR(32) NOT NULL,
			school_id BIGINT NULL REFERENCES schools(id) ON DELETE SET NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT ` + UsernameKey + ` UNIQUE (username),
			CONSTRAINT ` + UserEmailKey + ` UNIQUE (email)
		)
	`},

	// -------------------------------
	// FOOD CATALOG
	// -------------------------------
	{"food_items", `
		CREATE TABLE IF NOT EXISTS food_items (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			name_local VARCHAR(255) NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			category VARCHAR(32) NOT NULL,
			unit VARCHAR(16) NOT NULL,
			cost_per_unit NUMERIC(10,2) NULL CHECK (cost_per_unit >= 0),
			nutritional_info TEXT NOT NULL DEFAULT '',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`},

	// -------------------------------
	// MENUS
	// month/year are denormalized from date; the CHECK keeps them honest
	// -------------------------------
	{"menus", `
		CREATE TABLE IF NOT EXISTS menus (
			id BIGSERIAL PRIMARY KEY,
			date DATE NOT NULL,
			meal_type VARCHAR(16) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			description_local TEXT NOT NULL DEFAULT '',
			month SMALLINT NOT NULL,
			year INTEGER NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT menus_month_year_chk
				CHECK (month = EXTRACT(MONTH FROM date) AND year = EXTRACT(YEAR FROM date))
		)
	`},
	{"menus_active_key", `
		CREATE UNIQUE INDEX IF NOT EXISTS ` + MenuActiveKey + `
		ON menus (date, meal_type)
		WHERE active
	`},
	{"menus_month_idx", `
		CREATE INDEX IF NOT EXISTS menus_month_year_idx ON menus (year, month) WHERE active
	`},

	// -------------------------------
	// MENU COMPOSITION
	// -------------------------------
	{"menu_food_items", `
		CREATE TABLE IF NOT EXISTS menu_food_items (
			id BIGSERIAL PRIMARY KEY,
			menu_id BIGINT NOT NULL REFERENCES menus(id) ON DELETE CASCADE,
			food_item_id BIGINT NOT NULL REFERENCES food_items(id),
			quantity_per_student NUMERIC(10,3) NOT NULL CHECK (quantity_per_student >= 0),
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT ` + CompositionKey + ` UNIQUE (menu_id, food_item_id)
		)
	`},

	// -------------------------------
	// MEAL RECORDS
	// -------------------------------
	{"meal_records", `
		CREATE TABLE IF NOT EXISTS meal_records (
			id BIGSERIAL PRIMARY KEY,
			school_id BIGINT NOT NULL REFERENCES schools(id) ON DELETE CASCADE,
			menu_id BIGINT NOT NULL REFERENCES menus(id) ON DELETE CASCADE,
			date DATE NOT NULL,
			students_present INTEGER NOT NULL CHECK (students_present >= 0),
			meals_served INTEGER NOT NULL CHECK (meals_served >= 0),
			meal_quality VARCHAR(16) NULL,
			teacher_in_charge VARCHAR(255) NOT NULL DEFAULT '',
			remarks TEXT NOT NULL DEFAULT '',
			photo_url VARCHAR(500) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT ` + MealRecordKey + ` UNIQUE (school_id, menu_id, date)
		)
	`},
	{"meal_records_date_idx", `
		CREATE INDEX IF NOT EXISTS meal_records_date_idx ON meal_records (date)
	`},
}

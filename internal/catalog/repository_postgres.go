package catalog

import (
	"context"
	"fmt"

	"github.com/Abhigulve/mid-day-meal/internal/core"
	"github.com/Abhigulve/mid-day-meal/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const foodItemColumns = `
	id, name, name_local, description, category, unit,
	cost_per_unit, nutritional_info, active, created_at, updated_at
`

func scanFoodItem(row pgx.Row) (*FoodItem, error) {
	var (
		item   FoodItem
		cost   decimal.NullDecimal
		active bool
	)

	if err := row.Scan(
		&item.ID,
		&item.Name,
		&item.NameLocal,
		&item.Description,
		&item.Category,
		&item.Unit,
		&cost,
		&item.NutritionalInfo,
		&active,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if cost.Valid {
		item.CostPerUnit = &cost.Decimal
	}
	item.State = core.StateOf(active)
	return &item, nil
}

func nullCost(cost *decimal.Decimal) decimal.NullDecimal {
	if cost == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *cost, Valid: true}
}

// --------------------------------------------------
// Create
// --------------------------------------------------
func (r *PostgresRepository) Create(ctx context.Context, item *FoodItem) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO food_items (
			name, name_local, description, category, unit,
			cost_per_unit, nutritional_info, active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		RETURNING id, created_at, updated_at
	`,
		item.Name,
		item.NameLocal,
		item.Description,
		item.Category,
		item.Unit,
		nullCost(item.CostPerUnit),
		item.NutritionalInfo,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

// --------------------------------------------------
// Update (all writable columns in one statement)
// --------------------------------------------------
func (r *PostgresRepository) Update(ctx context.Context, item *FoodItem) error {
	err := r.db.QueryRow(ctx, `
		UPDATE food_items
		SET name = $2,
		    name_local = $3,
		    description = $4,
		    category = $5,
		    unit = $6,
		    cost_per_unit = $7,
		    nutritional_info = $8,
		    updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`,
		item.ID,
		item.Name,
		item.NameLocal,
		item.Description,
		item.Category,
		item.Unit,
		nullCost(item.CostPerUnit),
		item.NutritionalInfo,
	).Scan(&item.UpdatedAt)

	if db.IsNoRows(err) {
		return fmt.Errorf("food item %d: %w", item.ID, core.ErrNotFound)
	}
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*FoodItem, error) {
	item, err := scanFoodItem(r.db.QueryRow(ctx, `
		SELECT `+foodItemColumns+`
		FROM food_items
		WHERE id = $1
	`, id))

	if db.IsNoRows(err) {
		return nil, fmt.Errorf("food item %d: %w", id, core.ErrNotFound)
	}
	return item, err
}

func (r *PostgresRepository) List(ctx context.Context, vis core.Visibility) ([]FoodItem, error) {
	return r.query(ctx, `
		SELECT `+foodItemColumns+`
		FROM food_items
		WHERE active OR $1
		ORDER BY name, id
	`, vis == core.IncludeInactive)
}

func (r *PostgresRepository) ListByCategory(
	ctx context.Context,
	category Category,
	vis core.Visibility,
) ([]FoodItem, error) {
	return r.query(ctx, `
		SELECT `+foodItemColumns+`
		FROM food_items
		WHERE category = $1
		  AND (active OR $2)
		ORDER BY name, id
	`, category, vis == core.IncludeInactive)
}

func (r *PostgresRepository) Search(ctx context.Context, text string) ([]FoodItem, error) {
	return r.query(ctx, `
		SELECT `+foodItemColumns+`
		FROM food_items
		WHERE active
		  AND (
			strpos(lower(name), lower($1)) > 0
			OR strpos(lower(name_local), lower($1)) > 0
		  )
		ORDER BY name, id
	`, text)
}

func (r *PostgresRepository) Deactivate(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE food_items
		SET active = FALSE,
		    updated_at = CASE WHEN active THEN now() ELSE updated_at END
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("food item %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) query(ctx context.Context, sql string, args ...any) ([]FoodItem, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []FoodItem{}
	for rows.Next() {
		item, err := scanFoodItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

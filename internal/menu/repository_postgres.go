package menu

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

const menuColumns = `
	id, date, meal_type, description, description_local,
	month, year, active, created_at, updated_at
`

func scanMenu(row pgx.Row) (*Menu, error) {
	var (
		m      Menu
		active bool
	)
	if err := row.Scan(
		&m.ID,
		&m.Date,
		&m.MealType,
		&m.Description,
		&m.DescriptionLocal,
		&m.Month,
		&m.Year,
		&active,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	m.State = core.StateOf(active)
	m.FoodItems = []MenuFoodItem{}
	return &m, nil
}

func menuError(err error, what string) error {
	switch {
	case db.IsNoRows(err):
		return fmt.Errorf("%s: %w", what, core.ErrNotFound)
	case db.IsUniqueViolation(err, db.MenuActiveKey):
		return fmt.Errorf("%s: %w", what, core.ErrDuplicateMenu)
	default:
		return err
	}
}

// --------------------------------------------------
// CREATE
// --------------------------------------------------
func (r *PostgresRepository) Create(ctx context.Context, m *Menu) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO menus (
			date, meal_type, description, description_local,
			month, year, active
		)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING id, created_at, updated_at
	`,
		m.Date,
		m.MealType,
		m.Description,
		m.DescriptionLocal,
		m.Month,
		m.Year,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return menuError(err, fmt.Sprintf("menu %s/%s", m.Date.Format("2006-01-02"), m.MealType))
	}

	m.State = core.Active
	return nil
}

// --------------------------------------------------
// UPDATE (ACTIVE MENUS ONLY)
// --------------------------------------------------
func (r *PostgresRepository) Update(ctx context.Context, m *Menu) error {
	err := r.db.QueryRow(ctx, `
		UPDATE menus
		SET date = $2,
		    meal_type = $3,
		    description = $4,
		    description_local = $5,
		    month = $6,
		    year = $7,
		    updated_at = now()
		WHERE id = $1 AND active
		RETURNING updated_at
	`,
		m.ID,
		m.Date,
		m.MealType,
		m.Description,
		m.DescriptionLocal,
		m.Month,
		m.Year,
	).Scan(&m.UpdatedAt)

	return menuError(err, fmt.Sprintf("menu %d", m.ID))
}

// --------------------------------------------------
// READS
// --------------------------------------------------
func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Menu, error) {
	m, err := scanMenu(r.db.QueryRow(ctx,
		`SELECT `+menuColumns+` FROM menus WHERE id = $1`, id))
	if err != nil {
		return nil, menuError(err, fmt.Sprintf("menu %d", id))
	}

	if m.FoodItems, err = r.Composition(ctx, id); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *PostgresRepository) GetActiveByDateAndMealType(
	ctx context.Context,
	date time.Time,
	mealType MealType,
) (*Menu, error) {
	m, err := scanMenu(r.db.QueryRow(ctx, `
		SELECT `+menuColumns+`
		FROM menus
		WHERE date = $1 AND meal_type = $2 AND active
	`, date, mealType))
	if err != nil {
		return nil, menuError(err, fmt.Sprintf("menu %s/%s", date.Format("2006-01-02"), mealType))
	}

	if m.FoodItems, err = r.Composition(ctx, m.ID); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Menu, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Visibility == core.ActiveOnly {
		where = append(where, "active")
	}
	if f.Range != nil {
		where = append(where, "date BETWEEN "+arg(f.Range.Start)+" AND "+arg(f.Range.End))
	}
	if f.Month != 0 {
		where = append(where, "month = "+arg(f.Month)+" AND year = "+arg(f.Year))
	}
	if f.MealType != "" {
		where = append(where, "meal_type = "+arg(f.MealType))
	}

	sql := `SELECT ` + menuColumns + ` FROM menus`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	sql += ` ORDER BY date, meal_type, id`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	menus := []Menu{}
	byID := map[int64]int{}
	ids := []int64{}
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		byID[m.ID] = len(menus)
		ids = append(ids, m.ID)
		menus = append(menus, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return menus, nil
	}

	lines, err := r.compositionFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		i := byID[line.MenuID]
		menus[i].FoodItems = append(menus[i].FoodItems, line)
	}
	return menus, nil
}

// --------------------------------------------------
// DEACTIVATE (IDEMPOTENT)
// --------------------------------------------------
func (r *PostgresRepository) Deactivate(ctx context.Context, id int64) error {
	var found bool
	err := r.db.QueryRow(ctx, `
		WITH target AS (
			SELECT id FROM menus WHERE id = $1
		), changed AS (
			UPDATE menus SET active = FALSE, updated_at = now()
			WHERE id = $1 AND active
		)
		SELECT EXISTS (SELECT 1 FROM target)
	`, id).Scan(&found)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("menu %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// --------------------------------------------------
// COMPOSITION
// --------------------------------------------------
const lineColumns = `
	mfi.id, mfi.menu_id, mfi.food_item_id, f.name, f.unit,
	mfi.quantity_per_student, mfi.notes, mfi.created_at
`

func scanLine(row pgx.Row) (MenuFoodItem, error) {
	var l MenuFoodItem
	err := row.Scan(
		&l.ID,
		&l.MenuID,
		&l.FoodItemID,
		&l.FoodItemName,
		&l.Unit,
		&l.QuantityPerStudent,
		&l.Notes,
		&l.CreatedAt,
	)
	return l, err
}

func (r *PostgresRepository) AddFoodItem(ctx context.Context, item *MenuFoodItem) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO menu_food_items (menu_id, food_item_id, quantity_per_student, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`,
		item.MenuID,
		item.FoodItemID,
		item.QuantityPerStudent,
		item.Notes,
	).Scan(&item.ID, &item.CreatedAt)

	switch {
	case err == nil:
		return nil
	case db.IsUniqueViolation(err, db.CompositionKey):
		return fmt.Errorf("food item %d on menu %d: %w",
			item.FoodItemID, item.MenuID, core.ErrDuplicateComposition)
	case db.IsForeignKeyViolation(err):
		return fmt.Errorf("menu %d or food item %d: %w",
			item.MenuID, item.FoodItemID, core.ErrNotFound)
	default:
		return err
	}
}

func (r *PostgresRepository) RemoveFoodItem(ctx context.Context, menuID, foodItemID int64) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM menu_food_items
		WHERE menu_id = $1 AND food_item_id = $2
	`, menuID, foodItemID)
	return err
}

func (r *PostgresRepository) UpdateFoodItem(ctx context.Context, item *MenuFoodItem) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE menu_food_items
		SET quantity_per_student = $3,
		    notes = $4
		WHERE menu_id = $1 AND food_item_id = $2
	`,
		item.MenuID,
		item.FoodItemID,
		item.QuantityPerStudent,
		item.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("food item %d on menu %d: %w",
			item.FoodItemID, item.MenuID, core.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) Composition(ctx context.Context, menuID int64) ([]MenuFoodItem, error) {
	return r.compositionFor(ctx, []int64{menuID})
}

func (r *PostgresRepository) compositionFor(ctx context.Context, menuIDs []int64) ([]MenuFoodItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+lineColumns+`
		FROM menu_food_items mfi
		JOIN food_items f ON f.id = mfi.food_item_id
		WHERE mfi.menu_id = ANY($1)
		ORDER BY mfi.menu_id, mfi.id
	`, menuIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []MenuFoodItem{}
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

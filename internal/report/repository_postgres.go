package report

import (
	"context"
	"fmt"

	"github.com/Abhigulve/mid-day-meal/internal/core"
	"github.com/Abhigulve/mid-day-meal/internal/db"
	"github.com/Abhigulve/mid-day-meal/internal/period"

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

const totalsSQL = `
	SELECT count(*),
	       COALESCE(SUM(meals_served), 0),
	       COALESCE(SUM(students_present), 0)
	FROM meal_records
	WHERE date BETWEEN $1 AND $2
`

func scanTotals(row pgx.Row) (Totals, error) {
	var t Totals
	err := row.Scan(&t.Records, &t.MealsServed, &t.StudentsPresent)
	return t, err
}

// --------------------------------------------------
// TOTALS (ONE STATEMENT)
// --------------------------------------------------
func (r *PostgresRepository) Totals(ctx context.Context, rg period.Range) (Totals, error) {
	return scanTotals(r.db.QueryRow(ctx, totalsSQL, rg.Start, rg.End))
}

// --------------------------------------------------
// SERVINGS WITH COST PER STUDENT (ONE STATEMENT)
// A food item without a price adds nothing to SUM.
// --------------------------------------------------
func (r *PostgresRepository) Servings(
	ctx context.Context,
	rg period.Range,
	schoolID int64,
) ([]Serving, error) {

	rows, err := r.db.Query(ctx, `
		SELECT mr.id, mr.school_id, s.name, s.code, mr.menu_id, m.meal_type, mr.date,
		       mr.students_present, mr.meals_served,
		       COALESCE(SUM(mfi.quantity_per_student * f.cost_per_unit), 0)
		FROM meal_records mr
		JOIN schools s ON s.id = mr.school_id
		JOIN menus m ON m.id = mr.menu_id
		LEFT JOIN menu_food_items mfi ON mfi.menu_id = mr.menu_id
		LEFT JOIN food_items f ON f.id = mfi.food_item_id
		WHERE mr.date BETWEEN $1 AND $2
		  AND ($3 = 0 OR mr.school_id = $3)
		GROUP BY mr.id, s.name, s.code, m.meal_type
		ORDER BY mr.date, s.name, mr.id
	`, rg.Start, rg.End, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	servings := []Serving{}
	for rows.Next() {
		var s Serving
		if err := rows.Scan(
			&s.RecordID,
			&s.SchoolID,
			&s.SchoolName,
			&s.SchoolCode,
			&s.MenuID,
			&s.MealType,
			&s.Date,
			&s.StudentsPresent,
			&s.MealsServed,
			&s.CostPerStudent,
		); err != nil {
			return nil, err
		}
		servings = append(servings, s)
	}
	return servings, rows.Err()
}

// --------------------------------------------------
// MENU PLAN
// --------------------------------------------------
func (r *PostgresRepository) MenuPlan(ctx context.Context, menuID int64) ([]PlanLine, error) {
	var plan []PlanLine

	err := db.ReadSnapshot(ctx, r.db, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM menus WHERE id = $1)`, menuID,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("menu %d: %w", menuID, core.ErrNotFound)
		}

		rows, err := tx.Query(ctx, `
			SELECT f.id, f.name, f.unit, mfi.quantity_per_student, f.cost_per_unit
			FROM menu_food_items mfi
			JOIN food_items f ON f.id = mfi.food_item_id
			WHERE mfi.menu_id = $1
			ORDER BY mfi.id
		`, menuID)
		if err != nil {
			return err
		}
		defer rows.Close()

		plan = []PlanLine{}
		for rows.Next() {
			var (
				p    PlanLine
				cost decimal.NullDecimal
			)
			if err := rows.Scan(&p.FoodItemID, &p.FoodItemName, &p.Unit, &p.QuantityPerStudent, &cost); err != nil {
				return err
			}
			if cost.Valid {
				p.CostPerUnit = &cost.Decimal
			}
			plan = append(plan, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// --------------------------------------------------
// DASHBOARD (REPEATABLE READ SNAPSHOT)
// --------------------------------------------------
func (r *PostgresRepository) Dashboard(
	ctx context.Context,
	today period.Range,
	month period.Range,
) (*DashboardStats, error) {

	var stats DashboardStats

	err := db.ReadSnapshot(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			SELECT (SELECT count(*) FROM schools WHERE active),
			       (SELECT count(*) FROM food_items WHERE active),
			       (SELECT count(*) FROM menus WHERE active AND date BETWEEN $1 AND $2)
		`, month.Start, month.End).Scan(
			&stats.ActiveSchools,
			&stats.ActiveFoodItems,
			&stats.MenusThisMonth,
		); err != nil {
			return err
		}

		var err error
		if stats.Today, err = scanTotals(tx.QueryRow(ctx, totalsSQL, today.Start, today.End)); err != nil {
			return err
		}
		stats.ThisMonth, err = scanTotals(tx.QueryRow(ctx, totalsSQL, month.Start, month.End))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

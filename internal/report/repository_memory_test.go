package report

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/catalog"
	"github.com/Abhigulve/mid-day-meal/internal/core"
	"github.com/Abhigulve/mid-day-meal/internal/mealrecord"
	"github.com/Abhigulve/mid-day-meal/internal/menu"
	"github.com/Abhigulve/mid-day-meal/internal/period"
	"github.com/Abhigulve/mid-day-meal/internal/school"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mealSystem struct {
	schools *school.Service
	foods   *catalog.Service
	menus   *menu.Service
	ledger  *mealrecord.Service
	reports *Service
}

func newMealSystem(now string) *mealSystem {
	clock := func() time.Time { return day(now).Add(11 * time.Hour) }

	schools := school.NewService(school.NewInMemoryRepository())
	foods := catalog.NewService(catalog.NewInMemoryRepository())
	menus := menu.NewService(menu.NewInMemoryRepository(), foods, clock)
	ledger := mealrecord.NewService(mealrecord.NewInMemoryRepository(), schools, menus, nil, clock, nil)

	return &mealSystem{
		schools: schools,
		foods:   foods,
		menus:   menus,
		ledger:  ledger,
		reports: NewService(NewInMemoryRepository(ledger, menus, foods, schools), clock),
	}
}

func strp(s string) *string { return &s }

func (s *mealSystem) school(t *testing.T, name, code string) int64 {
	t.Helper()
	sc, err := s.schools.Create(context.Background(), school.Input{Name: strp(name), Code: strp(code)})
	require.NoError(t, err)
	return sc.ID
}

func (s *mealSystem) food(t *testing.T, name, category, unit, cost string) int64 {
	t.Helper()
	in := catalog.Input{Name: strp(name), Category: strp(category), Unit: strp(unit)}
	if cost != "" {
		in.CostPerUnit = decp(cost)
	}
	item, err := s.foods.Create(context.Background(), in)
	require.NoError(t, err)
	return item.ID
}

func TestOakPrimaryLunch_EndToEnd(t *testing.T) {
	sys := newMealSystem("2024-03-04")
	ctx := context.Background()

	oak := sys.school(t, "Oak Primary", "OAK01")
	rice := sys.food(t, "Rice", "GRAINS", "KG", "40.00")

	lunch, err := sys.menus.CreateMenu(ctx, day("2024-03-04"), menu.Lunch, "Rice", "")
	require.NoError(t, err)
	_, err = sys.menus.AddFoodItem(ctx, lunch.ID, rice, dec("0.15"), "")
	require.NoError(t, err)

	_, err = sys.ledger.Record(ctx, mealrecord.Entry{
		SchoolID: oak, MenuID: lunch.ID, Date: day("2024-03-04"),
		StudentsPresent: 100, MealsServed: 95,
	})
	require.NoError(t, err)

	lines, err := sys.reports.EstimatedConsumption(ctx, lunch.ID, 100)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Rice", lines[0].FoodItemName)
	assert.Equal(t, "KG", lines[0].Unit)
	assert.Equal(t, "15.000", lines[0].Quantity.StringFixed(3))

	cost, err := sys.reports.EstimatedCost(ctx, lunch.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, "600.00", cost.StringFixed(2))

	_, err = sys.ledger.Record(ctx, mealrecord.Entry{
		SchoolID: oak, MenuID: lunch.ID, Date: day("2024-03-04"),
		StudentsPresent: 90, MealsServed: 90,
	})
	assert.ErrorIs(t, err, core.ErrDuplicateRecord)

	march := period.NewRange(day("2024-03-01"), day("2024-03-31"))
	served, err := sys.reports.TotalMealsServed(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, int64(95), served)

	summary, err := sys.reports.Summary(ctx, march, 0)
	require.NoError(t, err)
	require.Len(t, summary.Schools, 1)
	assert.Equal(t, "OAK01", summary.Schools[0].SchoolCode)
	assert.Equal(t, int64(100), summary.Totals.StudentsPresent)
	assert.Equal(t, "600.00", summary.EstimatedCost.StringFixed(2))
}

func TestServings_UnpricedFoodAddsNothing(t *testing.T) {
	sys := newMealSystem("2024-03-04")
	ctx := context.Background()

	oak := sys.school(t, "Oak Primary", "OAK01")
	rice := sys.food(t, "Rice", "GRAINS", "KG", "40.00")
	salt := sys.food(t, "Salt", "SPICES", "GRAM", "")

	lunch, err := sys.menus.CreateMenu(ctx, day("2024-03-04"), menu.Lunch, "", "")
	require.NoError(t, err)
	_, err = sys.menus.AddFoodItem(ctx, lunch.ID, rice, dec("0.15"), "")
	require.NoError(t, err)
	_, err = sys.menus.AddFoodItem(ctx, lunch.ID, salt, dec("2.5"), "")
	require.NoError(t, err)

	_, err = sys.ledger.Record(ctx, mealrecord.Entry{
		SchoolID: oak, MenuID: lunch.ID, Date: day("2024-03-04"),
		StudentsPresent: 100, MealsServed: 95,
	})
	require.NoError(t, err)

	servings, err := sys.reports.repo.Servings(ctx, period.NewRange(day("2024-03-04"), day("2024-03-04")), 0)
	require.NoError(t, err)
	require.Len(t, servings, 1)
	assert.Equal(t, "6.00", servings[0].CostPerStudent.StringFixed(2))
	assert.Equal(t, "LUNCH", servings[0].MealType)

	est, err := sys.reports.Estimate(ctx, lunch.ID, 100)
	require.NoError(t, err)
	require.Len(t, est.Lines, 2)
	assert.Nil(t, est.Lines[1].CostPerUnit)
	assert.Equal(t, "250.000", est.Lines[1].Quantity.StringFixed(3))
	assert.Equal(t, "600.00", est.TotalCost.StringFixed(2))
}

func TestSummary_JoinsAcrossSchoolsAndMenus(t *testing.T) {
	sys := newMealSystem("2024-03-06")
	ctx := context.Background()

	oak := sys.school(t, "Oak Primary", "OAK01")
	banyan := sys.school(t, "Banyan High", "BAN02")
	rice := sys.food(t, "Rice", "GRAINS", "KG", "40.00")
	milk := sys.food(t, "Milk", "DAIRY", "LITRE", "52.50")

	lunch, err := sys.menus.CreateMenu(ctx, day("2024-03-04"), menu.Lunch, "", "")
	require.NoError(t, err)
	_, err = sys.menus.AddFoodItem(ctx, lunch.ID, rice, dec("0.15"), "")
	require.NoError(t, err)

	breakfast, err := sys.menus.CreateMenu(ctx, day("2024-03-05"), menu.Breakfast, "", "")
	require.NoError(t, err)
	_, err = sys.menus.AddFoodItem(ctx, breakfast.ID, milk, dec("0.2"), "")
	require.NoError(t, err)

	for _, e := range []mealrecord.Entry{
		{SchoolID: oak, MenuID: lunch.ID, Date: day("2024-03-04"), StudentsPresent: 100, MealsServed: 95},
		{SchoolID: banyan, MenuID: lunch.ID, Date: day("2024-03-04"), StudentsPresent: 50, MealsServed: 50},
		{SchoolID: oak, MenuID: breakfast.ID, Date: day("2024-03-05"), StudentsPresent: 80, MealsServed: 78},
	} {
		_, err := sys.ledger.Record(ctx, e)
		require.NoError(t, err)
	}

	// later deactivation of the school does not erase its history
	require.NoError(t, sys.schools.Deactivate(ctx, banyan))

	march := period.NewRange(day("2024-03-01"), day("2024-03-31"))
	s, err := sys.reports.Summary(ctx, march, 0)
	require.NoError(t, err)
	require.Len(t, s.Schools, 2)

	byCode := map[string]SchoolSummary{}
	for _, sc := range s.Schools {
		byCode[sc.SchoolCode] = sc
	}
	// 100*6.00 + 80*10.50
	assert.Equal(t, "1440.00", byCode["OAK01"].EstimatedCost.StringFixed(2))
	assert.Equal(t, int64(173), byCode["OAK01"].Totals.MealsServed)
	assert.Equal(t, "300.00", byCode["BAN02"].EstimatedCost.StringFixed(2))
	assert.Equal(t, int64(3), s.Totals.Records)
	assert.Equal(t, "1740.00", s.EstimatedCost.StringFixed(2))

	oakOnly, err := sys.reports.Summary(ctx, march, oak)
	require.NoError(t, err)
	assert.Equal(t, int64(2), oakOnly.Totals.Records)

	april, err := sys.reports.TotalMealsServed(ctx, period.NewRange(day("2024-04-01"), day("2024-04-30")))
	require.NoError(t, err)
	assert.Zero(t, april)

	stats, err := sys.reports.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ActiveSchools)
	assert.Equal(t, int64(2), stats.ActiveFoodItems)
	assert.Equal(t, int64(2), stats.MenusThisMonth)
	assert.Equal(t, int64(0), stats.Today.Records)
	assert.Equal(t, int64(223), stats.ThisMonth.MealsServed)
}

func TestRecord_ConcurrentDuplicatesReportOnce(t *testing.T) {
	sys := newMealSystem("2024-03-04")
	ctx := context.Background()

	oak := sys.school(t, "Oak Primary", "OAK01")
	lunch, err := sys.menus.CreateMenu(ctx, day("2024-03-04"), menu.Lunch, "", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = sys.ledger.Record(ctx, mealrecord.Entry{
				SchoolID: oak, MenuID: lunch.ID, Date: day("2024-03-04"),
				StudentsPresent: 100, MealsServed: 95,
			})
		}()
	}
	wg.Wait()

	total, err := sys.reports.TotalMealsServed(ctx, period.NewRange(day("2024-03-04"), day("2024-03-04")))
	require.NoError(t, err)
	assert.Equal(t, int64(95), total)
}

package mealrecord

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"
	"github.com/Abhigulve/mid-day-meal/internal/menu"
	"github.com/Abhigulve/mid-day-meal/internal/metrics"
	"github.com/Abhigulve/mid-day-meal/internal/period"
	"github.com/Abhigulve/mid-day-meal/internal/school"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ledger  *Service
	schools *school.Service
	menus   *menu.Service
	oakID   int64
	menuID  int64
}

func date(s string) time.Time {
	d, err := period.Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newFixture(t *testing.T, policy Policy) *fixture {
	t.Helper()
	ctx := context.Background()
	clock := func() time.Time { return date("2024-03-06").Add(9 * time.Hour) }

	schools := school.NewService(school.NewInMemoryRepository())
	name, code := "Oak Primary", "OAK01"
	oak, err := schools.Create(ctx, school.Input{Name: &name, Code: &code})
	require.NoError(t, err)

	menus := menu.NewService(menu.NewInMemoryRepository(), nil, clock)
	m, err := menus.CreateMenu(ctx, date("2024-03-04"), menu.Lunch, "", "")
	require.NoError(t, err)

	return &fixture{
		ledger:  NewService(NewInMemoryRepository(), schools, menus, policy, clock, metrics.New()),
		schools: schools,
		menus:   menus,
		oakID:   oak.ID,
		menuID:  m.ID,
	}
}

func (f *fixture) entry(day string, present, served int) Entry {
	return Entry{
		SchoolID:        f.oakID,
		MenuID:          f.menuID,
		Date:            date(day),
		StudentsPresent: present,
		MealsServed:     served,
	}
}

func intp(n int) *int { return &n }

// --------------------------------------------------
// Record
// --------------------------------------------------
func TestRecord_SecondRecordIsDuplicate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	rec, err := f.ledger.Record(ctx, f.entry("2024-03-04", 100, 95))
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)

	_, err = f.ledger.Record(ctx, f.entry("2024-03-04", 100, 95))
	assert.ErrorIs(t, err, core.ErrDuplicateRecord)

	// same school and menu on another date is a different record
	_, err = f.ledger.Record(ctx, f.entry("2024-03-05", 90, 90))
	assert.NoError(t, err)
}

func TestRecord_NegativeCounts(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.ledger.Record(context.Background(), f.entry("2024-03-04", -1, 0))
	assert.ErrorIs(t, err, core.ErrInvalidCount)

	_, err = f.ledger.Record(context.Background(), f.entry("2024-03-04", 10, -5))
	assert.ErrorIs(t, err, core.ErrInvalidCount)
}

func TestRecord_MissingOrInactiveReferences(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	e := f.entry("2024-03-04", 10, 10)
	e.SchoolID = 404
	_, err := f.ledger.Record(ctx, e)
	assert.ErrorIs(t, err, core.ErrNotFound)

	e = f.entry("2024-03-04", 10, 10)
	e.MenuID = 404
	_, err = f.ledger.Record(ctx, e)
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, f.menus.DeactivateMenu(ctx, f.menuID))
	_, err = f.ledger.Record(ctx, f.entry("2024-03-04", 10, 10))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRecord_Policies(t *testing.T) {
	ctx := context.Background()

	lenient := newFixture(t, PolicyFor(false))
	_, err := lenient.ledger.Record(ctx, lenient.entry("2024-03-04", 90, 95))
	assert.NoError(t, err)

	strict := newFixture(t, PolicyFor(true))
	_, err = strict.ledger.Record(ctx, strict.entry("2024-03-04", 90, 95))
	assert.ErrorIs(t, err, core.ErrInvalidCount)
}

func TestRecord_ConcurrentDuplicatesHaveOneWinner(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	const callers = 16
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		ok, dupes  int
		unexpected []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.Record(ctx, f.entry("2024-03-04", 100, 95))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, core.ErrDuplicateRecord):
				dupes++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, unexpected)
	assert.Equal(t, 1, ok)
	assert.Equal(t, callers-1, dupes)
}

// --------------------------------------------------
// Amend
// --------------------------------------------------
func TestAmend(t *testing.T) {
	f := newFixture(t, PolicyFor(true))
	ctx := context.Background()

	rec, err := f.ledger.Record(ctx, f.entry("2024-03-04", 100, 95))
	require.NoError(t, err)

	good := Good
	updated, err := f.ledger.Amend(ctx, rec.ID, Amendment{MealsServed: intp(98), Quality: &good})
	require.NoError(t, err)
	assert.Equal(t, 98, updated.MealsServed)
	assert.Equal(t, 100, updated.StudentsPresent)
	assert.Equal(t, Good, *updated.Quality)
	assert.Equal(t, f.oakID, updated.SchoolID)
	assert.True(t, updated.Date.Equal(date("2024-03-04")))

	// rejected amendments leave the stored record untouched
	_, err = f.ledger.Amend(ctx, rec.ID, Amendment{StudentsPresent: intp(50), MealsServed: intp(-1)})
	assert.ErrorIs(t, err, core.ErrInvalidCount)

	_, err = f.ledger.Amend(ctx, rec.ID, Amendment{StudentsPresent: intp(50)})
	assert.ErrorIs(t, err, core.ErrInvalidCount)

	stored, err := f.ledger.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.StudentsPresent)
	assert.Equal(t, 98, stored.MealsServed)

	_, err = f.ledger.Amend(ctx, 404, Amendment{MealsServed: intp(1)})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

// --------------------------------------------------
// Reads
// --------------------------------------------------
func TestListings(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	for _, d := range []string{"2024-03-01", "2024-03-04", "2024-03-06", "2024-03-11"} {
		_, err := f.ledger.Record(ctx, f.entry(d, 10, 10))
		require.NoError(t, err)
	}

	inMarch, err := f.ledger.ListForSchoolInPeriod(ctx, f.oakID, period.NewRange(date("2024-03-01"), date("2024-03-06")))
	require.NoError(t, err)
	require.Len(t, inMarch, 3)
	assert.True(t, inMarch[0].Date.Equal(date("2024-03-06")))
	assert.True(t, inMarch[2].Date.Equal(date("2024-03-01")))

	today, err := f.ledger.ListToday(ctx)
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.True(t, today[0].Date.Equal(date("2024-03-06")))

	week, err := f.ledger.ListThisWeek(ctx)
	require.NoError(t, err)
	assert.Len(t, week, 2)

	all, err := f.ledger.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := f.ledger.ListInPeriod(ctx, period.NewRange(date("2024-03-31"), date("2024-03-01")))
	require.NoError(t, err)
	assert.Empty(t, none)

	found, err := f.ledger.Find(ctx, f.oakID, f.menuID, date("2024-03-04"))
	require.NoError(t, err)
	assert.Equal(t, 10, found.MealsServed)

	_, err = f.ledger.Find(ctx, f.oakID, f.menuID, date("2024-03-05"))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSchoolDeactivationKeepsRecords(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	rec, err := f.ledger.Record(ctx, f.entry("2024-03-04", 100, 95))
	require.NoError(t, err)

	require.NoError(t, f.schools.Deactivate(ctx, f.oakID))

	stored, err := f.ledger.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 95, stored.MealsServed)

	// but no new records for the inactive school
	_, err = f.ledger.Record(ctx, f.entry("2024-03-05", 100, 95))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRemoveRecord(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	rec, err := f.ledger.Record(ctx, f.entry("2024-03-04", 100, 95))
	require.NoError(t, err)

	require.NoError(t, f.ledger.RemoveRecord(ctx, rec.ID))
	assert.ErrorIs(t, f.ledger.RemoveRecord(ctx, rec.ID), core.ErrNotFound)

	// the triple is free again
	_, err = f.ledger.Record(ctx, f.entry("2024-03-04", 100, 95))
	assert.NoError(t, err)
}

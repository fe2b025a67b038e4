package plan

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"go.uber.org/zap"

	"fresh2mealie/internal/config"
	"fresh2mealie/internal/mealie"
)

type fakeAPI struct {
	existing  []mealie.MealPlanEntry
	listErr   error
	deleteErr map[mealie.PlanID]error
	createErr map[string]error

	deletedIDs []mealie.PlanID
	created    []mealie.NewMealPlanEntry
}

func (f *fakeAPI) ListMealPlans(_ context.Context, _, _ time.Time) ([]mealie.MealPlanEntry, error) {
	return f.existing, f.listErr
}

func (f *fakeAPI) DeleteMealPlan(_ context.Context, id mealie.PlanID) error {
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeAPI) CreateMealPlan(_ context.Context, entry mealie.NewMealPlanEntry) error {
	if err := f.createErr[entry.RecipeID]; err != nil {
		return err
	}
	f.created = append(f.created, entry)
	return nil
}

func newTestReconciler(api API, days []string) *Reconciler {
	cfg := &config.Config{}
	cfg.Planning.EntryType = "dinner"
	cfg.Planning.DaysToPlan = days
	r := NewReconciler(api, cfg, zap.NewNop())
	r.rng = rand.New(rand.NewSource(1))
	return r
}

var monday = time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

func TestReplaceWeek(t *testing.T) {
	ctx := context.Background()
	weekdays := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

	t.Run("DeletesExistingEntriesFirst", func(t *testing.T) {
		api := &fakeAPI{existing: []mealie.MealPlanEntry{
			{ID: "10", Date: "2025-01-06"},
			{ID: "11", Date: "2025-01-08"},
		}}
		r := newTestReconciler(api, weekdays)

		created, deleted := r.ReplaceWeek(ctx, monday, []string{"id1"})
		if deleted != 2 {
			t.Errorf("Expected 2 deletions, got %d", deleted)
		}
		if created != 1 {
			t.Errorf("Expected 1 creation, got %d", created)
		}
		if len(api.deletedIDs) != 2 {
			t.Errorf("Expected both existing entries deleted, got %v", api.deletedIDs)
		}
	})

	t.Run("EmptyRecipeListStillClearsTheWeek", func(t *testing.T) {
		api := &fakeAPI{existing: []mealie.MealPlanEntry{{ID: "10", Date: "2025-01-06"}}}
		r := newTestReconciler(api, weekdays)

		created, deleted := r.ReplaceWeek(ctx, monday, nil)
		if created != 0 || deleted != 1 {
			t.Errorf("Expected 0 created and 1 deleted, got %d and %d", created, deleted)
		}
		if len(api.created) != 0 {
			t.Errorf("Expected no creations, got %+v", api.created)
		}
	})

	t.Run("AssignsEachRecipeOnceOnConfiguredDays", func(t *testing.T) {
		api := &fakeAPI{}
		r := newTestReconciler(api, weekdays)

		ids := []string{"id1", "id2", "id3", "id4"}
		created, _ := r.ReplaceWeek(ctx, monday, ids)
		if created != 4 {
			t.Fatalf("Expected 4 creations, got %d", created)
		}

		seenIDs := map[string]bool{}
		seenDates := map[string]bool{}
		for _, entry := range api.created {
			if seenIDs[entry.RecipeID] {
				t.Errorf("Recipe %s assigned more than once", entry.RecipeID)
			}
			seenIDs[entry.RecipeID] = true
			if seenDates[entry.Date] {
				t.Errorf("Date %s used more than once", entry.Date)
			}
			seenDates[entry.Date] = true
			if entry.EntryType != "dinner" {
				t.Errorf("Expected entry type dinner, got %q", entry.EntryType)
			}
		}
		for _, id := range ids {
			if !seenIDs[id] {
				t.Errorf("Recipe %s was never assigned", id)
			}
		}
		// Four recipes over monday..saturday fill the first four days.
		for _, date := range []string{"2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09"} {
			if !seenDates[date] {
				t.Errorf("Expected an entry on %s, got dates %v", date, seenDates)
			}
		}
	})

	t.Run("SurplusRecipesAreDropped", func(t *testing.T) {
		api := &fakeAPI{}
		r := newTestReconciler(api, []string{"monday", "friday"})

		created, _ := r.ReplaceWeek(ctx, monday, []string{"id1", "id2", "id3"})
		if created != 2 {
			t.Errorf("Expected 2 creations for 2 configured days, got %d", created)
		}
		dates := map[string]bool{}
		for _, entry := range api.created {
			dates[entry.Date] = true
		}
		if !dates["2025-01-06"] || !dates["2025-01-10"] {
			t.Errorf("Expected entries on monday and friday, got %+v", api.created)
		}
	})

	t.Run("UnknownDayNameIsSkippedWithoutConsumingARecipe", func(t *testing.T) {
		api := &fakeAPI{}
		r := newTestReconciler(api, []string{"monday", "funday", "tuesday"})

		created, _ := r.ReplaceWeek(ctx, monday, []string{"id1", "id2"})
		if created != 2 {
			t.Errorf("Expected both recipes placed despite the bad day name, got %d", created)
		}
	})

	t.Run("CreateFailureSkipsThatEntry", func(t *testing.T) {
		api := &fakeAPI{createErr: map[string]error{"id2": errors.New("boom")}}
		r := newTestReconciler(api, weekdays)

		created, _ := r.ReplaceWeek(ctx, monday, []string{"id1", "id2", "id3"})
		if created != 2 {
			t.Errorf("Expected 2 creations with one failing, got %d", created)
		}
	})

	t.Run("DeleteFailureDoesNotBlockCreation", func(t *testing.T) {
		api := &fakeAPI{
			existing:  []mealie.MealPlanEntry{{ID: "10"}, {ID: "11"}},
			deleteErr: map[mealie.PlanID]error{"10": errors.New("boom")},
		}
		r := newTestReconciler(api, weekdays)

		created, deleted := r.ReplaceWeek(ctx, monday, []string{"id1"})
		if deleted != 1 {
			t.Errorf("Expected 1 successful deletion, got %d", deleted)
		}
		if created != 1 {
			t.Errorf("Expected creation to proceed after delete failure, got %d", created)
		}
	})

	t.Run("ListFailureSkipsCleanupButStillCreates", func(t *testing.T) {
		api := &fakeAPI{listErr: errors.New("boom")}
		r := newTestReconciler(api, weekdays)

		created, deleted := r.ReplaceWeek(ctx, monday, []string{"id1"})
		if deleted != 0 {
			t.Errorf("Expected 0 deletions when listing fails, got %d", deleted)
		}
		if created != 1 {
			t.Errorf("Expected creation to proceed, got %d", created)
		}
	})

	t.Run("EntriesWithoutIDAreIgnored", func(t *testing.T) {
		api := &fakeAPI{existing: []mealie.MealPlanEntry{{ID: ""}, {ID: "11"}}}
		r := newTestReconciler(api, weekdays)

		_, deleted := r.ReplaceWeek(ctx, monday, nil)
		if deleted != 1 {
			t.Errorf("Expected only the entry with an id deleted, got %d", deleted)
		}
	})
}

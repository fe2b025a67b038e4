package plan

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"fresh2mealie/internal/config"
	"fresh2mealie/internal/mealie"
)

// API is the subset of the Mealie client the reconciler mutates through.
type API interface {
	ListMealPlans(ctx context.Context, start, end time.Time) ([]mealie.MealPlanEntry, error)
	DeleteMealPlan(ctx context.Context, id mealie.PlanID) error
	CreateMealPlan(ctx context.Context, entry mealie.NewMealPlanEntry) error
}

// dayOffsets maps configured day names onto their offset from Monday.
var dayOffsets = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// Reconciler replaces one week's meal-plan entries in the target service.
// The target week is never appended to: existing entries are deleted first,
// then matched recipes are created across the configured days.
type Reconciler struct {
	api       API
	entryType string
	days      []string
	rng       *rand.Rand
	log       *zap.Logger
}

// NewReconciler creates a reconciler for the configured entry type and day
// list.
func NewReconciler(api API, cfg *config.Config, log *zap.Logger) *Reconciler {
	return &Reconciler{
		api:       api,
		entryType: cfg.Planning.EntryType,
		days:      cfg.Planning.DaysToPlan,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		log:       log,
	}
}

// ReplaceWeek deletes every meal-plan entry in the week starting at monday,
// then creates one entry per configured day from the recipe ids, in random
// order for variety. Surplus recipes are dropped, surplus days stay
// unplanned. Per-item failures are logged and skipped; the sequence is not
// transactional, so a failure can leave the week partially planned. Returns
// the created and deleted entry counts.
func (r *Reconciler) ReplaceWeek(ctx context.Context, monday time.Time, recipeIDs []string) (created, deleted int) {
	sunday := monday.AddDate(0, 0, 6)
	deleted = r.deleteWeek(ctx, monday, sunday)

	if len(recipeIDs) == 0 {
		return 0, deleted
	}

	ids := append([]string(nil), recipeIDs...)
	r.rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	for _, day := range r.days {
		if len(ids) == 0 {
			break
		}
		offset, ok := dayOffsets[strings.ToLower(day)]
		if !ok {
			r.log.Warn("unknown day name in days_to_plan, skipping", zap.String("day", day))
			continue
		}

		id := ids[0]
		ids = ids[1:]

		entry := mealie.NewMealPlanEntry{
			Date:      monday.AddDate(0, 0, offset).Format("2006-01-02"),
			EntryType: r.entryType,
			RecipeID:  id,
		}
		if err := r.api.CreateMealPlan(ctx, entry); err != nil {
			r.log.Warn("failed to create meal plan entry",
				zap.String("day", day), zap.String("recipe_id", id), zap.Error(err))
			continue
		}
		r.log.Debug("meal plan entry created", zap.String("day", day), zap.String("date", entry.Date))
		created++
	}

	return created, deleted
}

// deleteWeek removes the existing entries in [start, end]. A failed listing
// skips the cleanup entirely; a failed delete skips only that entry. Either
// way creation proceeds, trading completeness for availability.
func (r *Reconciler) deleteWeek(ctx context.Context, start, end time.Time) int {
	entries, err := r.api.ListMealPlans(ctx, start, end)
	if err != nil {
		r.log.Warn("failed to list existing meal plans", zap.Error(err))
		return 0
	}

	deleted := 0
	for _, entry := range entries {
		if entry.ID == "" {
			continue
		}
		if err := r.api.DeleteMealPlan(ctx, entry.ID); err != nil {
			r.log.Warn("failed to delete meal plan entry",
				zap.String("id", string(entry.ID)), zap.Error(err))
			continue
		}
		r.log.Debug("meal plan entry deleted", zap.String("id", string(entry.ID)), zap.String("date", entry.Date))
		deleted++
	}
	return deleted
}

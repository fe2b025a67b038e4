package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fresh2mealie/internal/match"
	"fresh2mealie/internal/mealie"
	"fresh2mealie/internal/similarity"
	"fresh2mealie/internal/week"
)

// Sentinel errors for runs that produced nothing to reconcile. They carry no
// stack: the caller reports them as plain failure messages.
var (
	ErrNoMenuItems  = errors.New("no recipes found on the weekly menu")
	ErrEmptyCatalog = errors.New("no recipes found in mealie")
	ErrNoMatches    = errors.New("no menu title matched a mealie recipe")
)

// MenuSource produces the week's recipe titles.
type MenuSource interface {
	WeekTitles(ctx context.Context, weekOffset int) ([]string, error)
}

// CatalogSource produces the recipe catalog. An empty catalog means "no
// usable catalog", never "service has no recipes worth fetching again".
type CatalogSource interface {
	FetchRecipes(ctx context.Context) *mealie.Catalog
}

// Planner replaces one week's plan with the given recipes.
type Planner interface {
	ReplaceWeek(ctx context.Context, monday time.Time, recipeIDs []string) (created, deleted int)
}

// MatchResolver is an optional second-pass matcher consulted for titles the
// fuzzy scorer could not place.
type MatchResolver interface {
	Resolve(ctx context.Context, title string, candidates []string) string
}

// Summary is the externally observable result of one pipeline run.
type Summary struct {
	WeekOffset int
	Week       week.Week
	Titles     []string
	Matched    []match.Result
	Unmatched  []match.Result
	Deleted    int
	Created    int
	Elapsed    time.Duration
}

// String renders the one-line success summary.
func (s Summary) String() string {
	return fmt.Sprintf("meal plan for week of %s: %d/%d recipes planned in %.1fs",
		s.Week.Monday.Format("2006-01-02"), s.Created, len(s.Titles), s.Elapsed.Seconds())
}

// Pipeline sequences extraction, matching and reconciliation for one week.
// Each Run is fully independent; nothing is cached across runs.
type Pipeline struct {
	menu     MenuSource
	catalog  CatalogSource
	matcher  *match.Matcher
	planner  Planner
	resolver MatchResolver
	now      func() time.Time
	log      *zap.Logger
}

// New wires a pipeline. resolver may be nil to disable the LLM second pass.
func New(menu MenuSource, catalog CatalogSource, matcher *match.Matcher, planner Planner, resolver MatchResolver, log *zap.Logger) *Pipeline {
	return &Pipeline{
		menu:     menu,
		catalog:  catalog,
		matcher:  matcher,
		planner:  planner,
		resolver: resolver,
		now:      time.Now,
		log:      log,
	}
}

// Run executes one full extract-match-reconcile pass for the given week
// offset. Extraction, catalog and matching failures abort the run before any
// remote plan mutation happens; from the reconcile step on, failures are
// per-item and reflected in the summary counts.
func (p *Pipeline) Run(ctx context.Context, weekOffset int) (Summary, error) {
	start := p.now()
	summary := Summary{WeekOffset: weekOffset}

	titles, err := p.menu.WeekTitles(ctx, weekOffset)
	if err != nil {
		return summary, fmt.Errorf("menu extraction failed: %w", err)
	}
	if len(titles) == 0 {
		return summary, ErrNoMenuItems
	}
	summary.Titles = titles
	for i, title := range titles {
		p.log.Debug("menu title", zap.Int("n", i+1), zap.String("title", title))
	}

	catalog := p.catalog.FetchRecipes(ctx)
	if catalog.Len() == 0 {
		return summary, ErrEmptyCatalog
	}
	p.log.Info("loaded mealie recipe catalog", zap.Int("recipes", catalog.Len()))

	var accepted []string
	for _, title := range titles {
		result := p.matcher.Best(title, catalog)
		if result == nil {
			continue
		}
		if p.matcher.Accepted(result) {
			p.log.Debug("matched",
				zap.String("title", title),
				zap.String("recipe", result.MatchedName),
				zap.Float64("score", result.Score))
			summary.Matched = append(summary.Matched, *result)
			accepted = append(accepted, result.RecipeID)
			continue
		}
		if resolved := p.resolve(ctx, title, catalog); resolved != nil {
			summary.Matched = append(summary.Matched, *resolved)
			accepted = append(accepted, resolved.RecipeID)
			continue
		}
		p.log.Info("no acceptable match",
			zap.String("title", title),
			zap.String("closest", result.MatchedName),
			zap.Float64("score", result.Score))
		summary.Unmatched = append(summary.Unmatched, *result)
	}
	if len(accepted) == 0 {
		return summary, ErrNoMatches
	}

	target := week.Target(p.now(), weekOffset)
	summary.Week = target
	p.log.Info("replacing meal plan",
		zap.String("monday", target.Monday.Format("2006-01-02")),
		zap.String("sunday", target.Sunday.Format("2006-01-02")),
		zap.Int("recipes", len(accepted)))

	summary.Created, summary.Deleted = p.planner.ReplaceWeek(ctx, target.Monday, accepted)
	summary.Elapsed = p.now().Sub(start)
	return summary, nil
}

// resolve runs the optional LLM second pass for one unmatched title. The
// answer must still name an existing catalog entry to count.
func (p *Pipeline) resolve(ctx context.Context, title string, catalog *mealie.Catalog) *match.Result {
	if p.resolver == nil {
		return nil
	}

	entries := catalog.Entries()
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.NormalizedName)
	}

	name := p.resolver.Resolve(ctx, title, names)
	if name == "" {
		return nil
	}
	for _, e := range entries {
		if e.NormalizedName == name {
			p.log.Info("llm resolved match", zap.String("title", title), zap.String("recipe", name))
			return &match.Result{
				SourceTitle: title,
				MatchedName: e.NormalizedName,
				RecipeID:    e.RecipeID,
				Score:       similarity.Score(title, e.NormalizedName),
			}
		}
	}
	return nil
}

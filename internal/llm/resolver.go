package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Resolver asks the model to match one menu title against the known catalog
// names when fuzzy scoring is inconclusive. It is a second opinion, not an
// oracle: the answer is only used when it names an existing catalog entry.
type Resolver struct {
	textGen TextGenerator
	log     *zap.Logger
}

// NewResolver creates a resolver on top of a text generator.
func NewResolver(textGen TextGenerator, log *zap.Logger) *Resolver {
	return &Resolver{textGen: textGen, log: log}
}

// Resolve returns the catalog name the model picked for the title, or the
// empty string when it answered none, errored, or named something not in
// candidates.
func (r *Resolver) Resolve(ctx context.Context, title string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	prompt := fmt.Sprintf(`You match meal-kit recipe titles against a recipe catalog.
The title below comes from a weekly menu and may carry a descriptive subtitle.
Pick the catalog recipe it refers to, if any.

Title: %q

Catalog recipes:
- %s

Answer with exactly one recipe name from the list, or the single word none.
Do not add any other text.`, title, strings.Join(candidates, "\n- "))

	answer, err := r.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		r.log.Debug("llm match resolution failed", zap.String("title", title), zap.Error(err))
		return ""
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" || answer == "none" {
		return ""
	}

	for _, candidate := range candidates {
		if strings.EqualFold(candidate, answer) {
			r.log.Debug("llm resolved match", zap.String("title", title), zap.String("recipe", candidate))
			return candidate
		}
	}

	r.log.Debug("llm named a recipe outside the catalog, ignoring",
		zap.String("title", title), zap.String("answer", answer))
	return ""
}

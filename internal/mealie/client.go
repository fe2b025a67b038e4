package mealie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"fresh2mealie/internal/config"
)

// PlanID is an opaque meal-plan entry identifier. Mealie reports numeric ids
// today, but the consumer only ever passes them back, so both numeric and
// string forms are tolerated.
type PlanID string

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (p *PlanID) UnmarshalJSON(b []byte) error {
	*p = PlanID(strings.Trim(string(b), `"`))
	return nil
}

// MealPlanEntry is one remote meal-plan record.
type MealPlanEntry struct {
	ID        PlanID `json:"id"`
	Date      string `json:"date"`
	EntryType string `json:"entryType"`
	RecipeID  string `json:"recipeId"`
}

// NewMealPlanEntry is the creation payload for a meal-plan record.
type NewMealPlanEntry struct {
	Date      string `json:"date"`
	EntryType string `json:"entryType"`
	RecipeID  string `json:"recipeId"`
}

// Client is the interface to the Mealie API used by the pipeline.
type Client interface {
	FetchRecipes(ctx context.Context) *Catalog
	ListMealPlans(ctx context.Context, start, end time.Time) ([]MealPlanEntry, error)
	DeleteMealPlan(ctx context.Context, id PlanID) error
	CreateMealPlan(ctx context.Context, entry NewMealPlanEntry) error
}

// mealieClient is the concrete implementation of the Mealie API client.
type mealieClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	perPage    int
	log        *zap.Logger
}

// NewClient creates a new Mealie API client. All requests carry the bearer
// token and a 30 second timeout; nothing is retried.
func NewClient(cfg *config.Config, log *zap.Logger) Client {
	return &mealieClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(cfg.Mealie.URL, "/"),
		token:      cfg.Mealie.Token,
		perPage:    cfg.Mealie.PerPage,
		log:        log,
	}
}

// FetchRecipes pages through the recipe listing and builds the name index.
// Pagination stops when a page returns fewer items than requested. Any
// transport or HTTP error aborts the whole fetch: the error is logged and an
// empty catalog is returned, which callers must treat as "no usable catalog".
func (c *mealieClient) FetchRecipes(ctx context.Context) *Catalog {
	catalog := NewCatalog()

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("perPage", strconv.Itoa(c.perPage))

		var resp recipesResponse
		if err := c.getJSON(ctx, "/api/recipes?"+query.Encode(), &resp); err != nil {
			c.log.Error("failed to fetch mealie recipes", zap.Int("page", page), zap.Error(err))
			return NewCatalog()
		}

		for _, item := range resp.Items {
			catalog.Add(item.Name, item.ID)
		}

		if len(resp.Items) < c.perPage {
			return catalog
		}
	}
}

type recipesResponse struct {
	Items []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"items"`
}

// ListMealPlans returns the meal-plan entries whose date falls in
// [start, end]. The endpoint returns either a bare array or an object with an
// items array depending on the Mealie version; both are handled.
func (c *mealieClient) ListMealPlans(ctx context.Context, start, end time.Time) ([]MealPlanEntry, error) {
	query := url.Values{}
	query.Set("start_date", start.Format("2006-01-02"))
	query.Set("end_date", end.Format("2006-01-02"))
	query.Set("perPage", strconv.Itoa(c.perPage))

	body, err := c.get(ctx, "/api/households/mealplans?"+query.Encode())
	if err != nil {
		return nil, err
	}

	return decodeMealPlans(body)
}

func decodeMealPlans(body []byte) ([]MealPlanEntry, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []MealPlanEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("failed to decode meal plan list: %w", err)
		}
		return entries, nil
	}

	var wrapped struct {
		Items []MealPlanEntry `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode meal plan list: %w", err)
	}
	return wrapped.Items, nil
}

// DeleteMealPlan deletes one entry by identifier. 200 and 204 are success.
func (c *mealieClient) DeleteMealPlan(ctx context.Context, id PlanID) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/households/mealplans/"+url.PathEscape(string(id)), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("mealie api error: status %d", resp.StatusCode)
	}
	return nil
}

// CreateMealPlan creates one entry. 200 and 201 are success.
func (c *mealieClient) CreateMealPlan(ctx context.Context, entry NewMealPlanEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal meal plan entry: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/households/mealplans", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("mealie api error: status %d", resp.StatusCode)
	}
	return nil
}

func (c *mealieClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	return req, nil
}

func (c *mealieClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mealie api error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

func (c *mealieClient) getJSON(ctx context.Context, path string, out interface{}) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

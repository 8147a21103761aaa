package billing

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan describes a purchasable subscription plan.
// PriceID is the hosted-checkout gateway's price identifier for the plan.
type Plan struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	PriceID  string `yaml:"price_id"`
	Amount   int64  `yaml:"amount"` // smallest currency unit
	Currency string `yaml:"currency"`
}

// PlanSource loads the plan catalog.
type PlanSource interface {
	Load(ctx context.Context) ([]Plan, error)
}

// Catalog is an immutable, validated set of plans keyed by price ID.
type Catalog struct {
	byPriceID map[string]Plan
}

// NewCatalog builds a catalog from a source.
func NewCatalog(ctx context.Context, src PlanSource) (*Catalog, error) {
	if src == nil {
		panic("billing: PlanSource is required")
	}

	plans, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	byPriceID := make(map[string]Plan, len(plans))
	for _, p := range plans {
		if p.PriceID == "" || p.Amount <= 0 || p.Currency == "" {
			return nil, fmt.Errorf("%w: plan %q is incomplete", ErrFailedToLoadPlans, p.ID)
		}
		byPriceID[p.PriceID] = p
	}

	return &Catalog{byPriceID: byPriceID}, nil
}

// ByPriceID returns the plan for a gateway price ID.
func (c *Catalog) ByPriceID(priceID string) (Plan, error) {
	plan, ok := c.byPriceID[priceID]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return plan, nil
}

// YAMLPlanSource loads the plan catalog from a YAML file.
type YAMLPlanSource struct {
	path string
}

// NewYAMLPlanSource creates a file-backed plan source.
func NewYAMLPlanSource(path string) *YAMLPlanSource {
	return &YAMLPlanSource{path: path}
}

func (s *YAMLPlanSource) Load(ctx context.Context) ([]Plan, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Plans []Plan `yaml:"plans"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Plans, nil
}

// StaticPlanSource serves a fixed plan list. Intended for tests.
type StaticPlanSource []Plan

func (s StaticPlanSource) Load(ctx context.Context) ([]Plan, error) {
	return []Plan(s), nil
}

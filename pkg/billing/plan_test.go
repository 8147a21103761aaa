package billing_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AMR-Works/toolshub/pkg/billing"
)

func TestNewCatalog(t *testing.T) {
	t.Parallel()

	t.Run("looks plans up by price ID", func(t *testing.T) {
		t.Parallel()

		catalog, err := billing.NewCatalog(context.Background(), billing.StaticPlanSource{
			{ID: "premium-monthly", Name: "Premium Monthly", PriceID: "pri_1", Amount: 499, Currency: "USD"},
			{ID: "premium-yearly", Name: "Premium Yearly", PriceID: "pri_2", Amount: 4990, Currency: "USD"},
		})
		require.NoError(t, err)

		plan, err := catalog.ByPriceID("pri_2")
		require.NoError(t, err)
		assert.Equal(t, "premium-yearly", plan.ID)

		_, err = catalog.ByPriceID("pri_missing")
		assert.ErrorIs(t, err, billing.ErrPlanNotFound)
	})

	t.Run("rejects plans without a price ID", func(t *testing.T) {
		t.Parallel()

		_, err := billing.NewCatalog(context.Background(), billing.StaticPlanSource{
			{ID: "broken", Name: "Broken", Amount: 100, Currency: "USD"},
		})
		assert.ErrorIs(t, err, billing.ErrFailedToLoadPlans)
	})
}

func TestYAMLPlanSource(t *testing.T) {
	t.Parallel()

	t.Run("loads plans from a YAML file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "plans.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
plans:
  - id: premium-monthly
    name: Premium Monthly
    price_id: pri_1
    amount: 499
    currency: USD
`), 0o644))

		catalog, err := billing.NewCatalog(context.Background(), billing.NewYAMLPlanSource(path))
		require.NoError(t, err)

		plan, err := catalog.ByPriceID("pri_1")
		require.NoError(t, err)
		assert.Equal(t, "Premium Monthly", plan.Name)
		assert.Equal(t, int64(499), plan.Amount)
	})

	t.Run("missing file surfaces a load error", func(t *testing.T) {
		t.Parallel()

		_, err := billing.NewCatalog(context.Background(), billing.NewYAMLPlanSource(filepath.Join(t.TempDir(), "nope.yaml")))
		assert.ErrorIs(t, err, billing.ErrFailedToLoadPlans)
	})
}

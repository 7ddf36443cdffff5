package words

import (
	"math/rand"
	"testing"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type SupplierUnitSuite struct {
	suite.Suite
}

func (s *SupplierUnitSuite) TestRandomWordWithCategory(t provider.T) {
	t.Parallel()

	sup := NewWithSource(rand.NewSource(1))

	for i := 0; i < 50; i++ {
		wc := sup.RandomWordWithCategory()

		assert.NotEmpty(t, wc.Word)
		assert.Contains(t, sup.Categories(), wc.Category)
		assert.Contains(t, wordsByCategory[wc.Category], wc.Word)
	}
}

func (s *SupplierUnitSuite) TestRandomWordFromCategory(t provider.T) {
	t.Parallel()

	t.Run("Should draw from the requested category", func(t provider.T) {
		sup := NewWithSource(rand.NewSource(2))

		word := sup.RandomWordFromCategory("Animals")

		assert.Contains(t, wordsByCategory["Animals"], word)
	})

	t.Run("Should fall back on unknown category", func(t provider.T) {
		sup := NewWithSource(rand.NewSource(3))

		word := sup.RandomWordFromCategory("NoSuchCategory")

		assert.NotEmpty(t, word)
	})
}

func (s *SupplierUnitSuite) TestCategories(t provider.T) {
	t.Parallel()

	sup := New()
	categories := sup.Categories()

	assert.NotEmpty(t, categories)

	// The returned slice is a copy; mutating it must not affect the supplier.
	categories[0] = "MUTATED"
	assert.NotContains(t, sup.Categories(), "MUTATED")
}

func TestSupplierUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(SupplierUnitSuite))
}

package bloom_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/mfialko/folio/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	// Key not yet added should return false
	assert.False(t, f.Test("/content/java/01-intro.md"))

	// Add key
	f.Add("/content/java/01-intro.md")

	// Now it should return true
	assert.True(t, f.Test("/content/java/01-intro.md"))

	// Different key should still return false
	assert.False(t, f.Test("/content/java/02-oop.md"))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	// Empty filter should have count near 0
	assert.Equal(t, uint(0), f.EstimatedCount())

	// Add some keys
	f.Add("/index.html")
	f.Add("/styles.css")
	f.Add("/app.js")

	// Estimated count should be approximately 3
	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_AddIsIdempotent(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	key := "/content/index.json"

	f.Add(key)
	countAfterFirst := f.EstimatedCount()

	// Adding the same key multiple times should not change the filter
	f.Add(key)
	f.Add(key)
	f.Add(key)

	assert.Equal(t, countAfterFirst, f.EstimatedCount())
	assert.True(t, f.Test(key))
}

func TestFilter_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(10000, 0.01)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				key := fmt.Sprintf("/content/%d/%d.md", i, j)
				f.Add(key)
				f.Test(key)
			}
		}()
	}
	wg.Wait()

	assert.True(t, f.Test("/content/0/0.md"))
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)

	for i := range numItems {
		f.Add(fmt.Sprintf("/content/added/%d.md", i))
	}

	falsePositives := 0
	for i := range testProbes {
		if f.Test(fmt.Sprintf("/content/notadded/%d.md", i)) {
			falsePositives++
		}
	}

	// Allow up to 2% to account for statistical variance
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}

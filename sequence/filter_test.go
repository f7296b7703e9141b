package sequence

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCatalog builds count records per category, cycling through colors.
func testCatalog(counts map[string]int, colors ...string) []Record {
	if len(colors) == 0 {
		colors = []string{"red"}
	}
	var out []Record
	// Deterministic order for test readability.
	for _, cat := range sortedKeys(counts) {
		for i := 0; i < counts[cat]; i++ {
			out = append(out, Record{
				Name:     fmt.Sprintf("%s_clip%02d", cat, i+1),
				Category: cat,
				Color:    colors[i%len(colors)],
				Link:     fmt.Sprintf("https://drive.example.com/%s-%d", cat, i+1),
			})
		}
	}
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

func TestFilterByCategory(t *testing.T) {
	catalog := testCatalog(map[string]int{"cooking": 3, "sand": 2, "foam": 4})

	pool := Filter(catalog, []string{"cooking", "sand"}, nil)

	assert.Equal(t, []string{"cooking", "sand"}, pool.Categories())
	assert.Equal(t, 3, pool.Count("cooking"))
	assert.Equal(t, 2, pool.Count("sand"))
	assert.Equal(t, 0, pool.Count("foam"))
	assert.Equal(t, 5, pool.TotalCount())
}

func TestFilterByColor(t *testing.T) {
	catalog := testCatalog(map[string]int{"cooking": 4}, "red", "blue")

	pool := Filter(catalog, nil, []string{"blue"})

	require.Equal(t, 2, pool.TotalCount())
	for _, rec := range pool.Bucket("cooking") {
		assert.Equal(t, "blue", rec.Color)
	}
}

func TestFilterUnrestricted(t *testing.T) {
	catalog := testCatalog(map[string]int{"a": 2, "b": 3})

	pool := Filter(catalog, nil, nil)

	assert.Equal(t, len(catalog), pool.TotalCount())
}

func TestFilterKeepsCatalogOrder(t *testing.T) {
	catalog := testCatalog(map[string]int{"sand": 3})

	pool := Filter(catalog, []string{"sand"}, nil)

	bucket := pool.Bucket("sand")
	require.Len(t, bucket, 3)
	assert.Equal(t, "sand_clip01", bucket[0].Name)
	assert.Equal(t, "sand_clip02", bucket[1].Name)
	assert.Equal(t, "sand_clip03", bucket[2].Name)
}

func TestFilterIsIdempotent(t *testing.T) {
	catalog := testCatalog(map[string]int{"cooking": 5, "sand": 3, "drink": 2}, "red", "blue", "orange")
	categories := []string{"cooking", "drink"}
	colors := []string{"red", "blue"}

	once := Filter(catalog, categories, colors)
	twice := Filter(once.Records(), categories, colors)

	assert.Equal(t, once.Counts(), twice.Counts())
	for _, cat := range once.Categories() {
		assert.Equal(t, once.Bucket(cat), twice.Bucket(cat))
	}
}

func TestFilterNoMatches(t *testing.T) {
	catalog := testCatalog(map[string]int{"cooking": 2})

	pool := Filter(catalog, []string{"chemical"}, nil)

	assert.Empty(t, pool.Categories())
	assert.Equal(t, 0, pool.TotalCount())
}

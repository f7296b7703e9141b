package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipmix/sequence"
)

const sampleCSV = `clip name,category,color,video link
Cooking Pour 01,cooking,red,https://drive.google.com/file/d/abc123/view
 Sand Slice 01 ,sand,blue,https://drive.google.com/open?id=def456
,sand,blue,https://drive.google.com/file/d/skip/view
Foam Press 01,foam,rainbow,
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clips.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	records, err := Load(writeTemp(t, sampleCSV))

	require.NoError(t, err)
	require.Len(t, records, 3) // nameless row dropped

	assert.Equal(t, sequence.Record{
		Name:     "Cooking Pour 01",
		Category: "cooking",
		Color:    "red",
		Link:     "https://drive.google.com/file/d/abc123/view",
	}, records[0])

	// Whitespace trimmed.
	assert.Equal(t, "Sand Slice 01", records[1].Name)
	// Missing link is fine.
	assert.Equal(t, "", records[2].Link)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestWriteAndReadSequenceRoundTrip(t *testing.T) {
	items := []sequence.Item{
		{ItemNumber: 1, Record: sequence.Record{Name: "a1", Category: "a", Color: "red", Link: "l1"}},
		{ItemNumber: 2, Record: sequence.Record{Name: "b1", Category: "b", Color: "blue", Link: "l2"}},
	}
	path := filepath.Join(t.TempDir(), "seq.csv")

	require.NoError(t, WriteSequence(path, items))

	got, err := ReadSequence(path)
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

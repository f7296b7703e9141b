package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipmix/sequence"
	"clipmix/transcode"
)

type fakeFetcher struct {
	mu       sync.Mutex
	fetched  []string
	attempts map[string]int
	failOn   string
	failN    int // fail the first failN fetches of failOn; -1 fails all of them
}

func (f *fakeFetcher) Fetch(_ context.Context, rec sequence.Record, destPath string) error {
	f.mu.Lock()
	if f.attempts == nil {
		f.attempts = make(map[string]int)
	}
	f.attempts[rec.Name]++
	n := f.attempts[rec.Name]
	f.mu.Unlock()

	if rec.Name == f.failOn && (f.failN < 0 || n <= f.failN) {
		return errors.New("drive unavailable")
	}
	f.mu.Lock()
	f.fetched = append(f.fetched, rec.Name)
	f.mu.Unlock()
	return os.WriteFile(destPath, []byte(rec.Name), 0o644)
}

func (f *fakeFetcher) attemptsFor(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[name]
}

// shrinkBackoff makes retry waits negligible for the duration of a test.
func shrinkBackoff(t *testing.T) {
	t.Helper()
	old := fetchRetryBackoff
	fetchRetryBackoff = time.Millisecond
	t.Cleanup(func() { fetchRetryBackoff = old })
}

type fakeTranscoder struct {
	normalized []string
	concatted  []string
}

func (f *fakeTranscoder) NormalizeBatch(inputs []string, outputDir string, _ transcode.Options, _ int) ([]string, error) {
	outputs := make([]string, 0, len(inputs))
	for i, in := range inputs {
		data, err := os.ReadFile(in)
		if err != nil {
			return nil, err
		}
		out := filepath.Join(outputDir, filepath.Base(in))
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
		f.normalized = append(f.normalized, inputs[i])
	}
	return outputs, nil
}

func (f *fakeTranscoder) Concat(inputs []string, outputPath string, _ transcode.Options) error {
	f.concatted = inputs
	var joined []byte
	for _, in := range inputs {
		data, err := os.ReadFile(in)
		if err != nil {
			return err
		}
		joined = append(joined, data...)
		joined = append(joined, '\n')
	}
	return os.WriteFile(outputPath, joined, 0o644)
}

type fakeStore struct {
	uploadedKey  string
	uploadedData []byte
}

func (f *fakeStore) UploadVideo(_ context.Context, localPath, key string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	f.uploadedKey = key
	f.uploadedData = data
	return nil
}

func testItems(names ...string) []sequence.Item {
	items := make([]sequence.Item, len(names))
	for i, name := range names {
		items[i] = sequence.Item{
			ItemNumber: i + 1,
			Record:     sequence.Record{Name: name, Category: "cats", Link: "https://drive.google.com/file/d/id_" + name + "/view"},
		}
	}
	return items
}

func TestRenderEndToEnd(t *testing.T) {
	fetcher := &fakeFetcher{}
	trans := &fakeTranscoder{}
	store := &fakeStore{}
	r := NewRenderer(fetcher, store, trans, t.TempDir())

	key, err := r.Render(context.Background(), RenderRequest{
		Items:      testItems("a", "b", "c"),
		OutputName: "final",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "processed-video-clips/final.mp4", key)
	assert.Equal(t, key, store.uploadedKey)
	assert.Len(t, fetcher.fetched, 3)
	assert.Len(t, trans.concatted, 3)
	// Concat order must follow sequence order even though fetches ran in parallel.
	assert.Equal(t, "a\nb\nc\n", string(store.uploadedData))
}

func TestRenderGeneratesOutputName(t *testing.T) {
	r := NewRenderer(&fakeFetcher{}, &fakeStore{}, &fakeTranscoder{}, t.TempDir())

	key, err := r.Render(context.Background(), RenderRequest{Items: testItems("a")}, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "processed-video-clips/mix_"))
	assert.True(t, strings.HasSuffix(key, ".mp4"))
}

func TestRenderRejectsEmptyRequest(t *testing.T) {
	r := NewRenderer(&fakeFetcher{}, &fakeStore{}, &fakeTranscoder{}, t.TempDir())
	_, err := r.Render(context.Background(), RenderRequest{}, nil)
	assert.Error(t, err)
}

func TestRenderRejectsUnknownPreset(t *testing.T) {
	r := NewRenderer(&fakeFetcher{}, &fakeStore{}, &fakeTranscoder{}, t.TempDir())
	_, err := r.Render(context.Background(), RenderRequest{
		Items:  testItems("a"),
		Preset: "imax",
	}, nil)
	assert.ErrorContains(t, err, "unknown preset")
}

func TestRenderPropagatesFetchFailure(t *testing.T) {
	shrinkBackoff(t)
	fetcher := &fakeFetcher{failOn: "b", failN: -1}
	r := NewRenderer(fetcher, &fakeStore{}, &fakeTranscoder{}, t.TempDir())

	_, err := r.Render(context.Background(), RenderRequest{Items: testItems("a", "b", "c")}, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, `failed to fetch "b"`)
	assert.ErrorContains(t, err, "after 3 attempts")
	assert.Equal(t, 3, fetcher.attemptsFor("b"))
}

func TestRenderRetriesTransientFetchFailure(t *testing.T) {
	shrinkBackoff(t)
	fetcher := &fakeFetcher{failOn: "b", failN: 2}
	store := &fakeStore{}
	r := NewRenderer(fetcher, store, &fakeTranscoder{}, t.TempDir())

	_, err := r.Render(context.Background(), RenderRequest{
		Items:      testItems("a", "b", "c"),
		OutputName: "final",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, fetcher.attemptsFor("b"))
	assert.Equal(t, "a\nb\nc\n", string(store.uploadedData))
}

func TestRenderReportsProgress(t *testing.T) {
	r := NewRenderer(&fakeFetcher{}, &fakeStore{}, &fakeTranscoder{}, t.TempDir())

	var stages []string
	_, err := r.Render(context.Background(), RenderRequest{Items: testItems("a")}, func(pct int, msg string) {
		stages = append(stages, msg)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"fetching clips", "normalizing clips", "concatenating", "uploading", "done"}, stages)
}

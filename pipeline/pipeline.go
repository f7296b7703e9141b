// Package pipeline turns a generated clip sequence into a single rendered
// video: fetch each clip, normalize to a common format, concatenate, and
// upload the result.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"clipmix/config"
	"clipmix/sequence"
	"clipmix/transcode"
)

// RenderRequest names the sequence to render and where the output goes.
type RenderRequest struct {
	Items      []sequence.Item `json:"items"`
	OutputName string          `json:"output_name,omitempty"`
	Preset     string          `json:"preset,omitempty"`
}

// Fetcher retrieves one clip's media file to a local path.
type Fetcher interface {
	Fetch(ctx context.Context, rec sequence.Record, destPath string) error
}

// Store uploads the finished video.
type Store interface {
	UploadVideo(ctx context.Context, localPath, key string) error
}

// Transcoder normalizes and concatenates clips. The production
// implementation shells out to ffmpeg.
type Transcoder interface {
	NormalizeBatch(inputs []string, outputDir string, opts transcode.Options, workers int) ([]string, error)
	Concat(inputs []string, outputPath string, opts transcode.Options) error
}

// FFmpegTranscoder is the ffmpeg-backed Transcoder.
type FFmpegTranscoder struct{}

func (FFmpegTranscoder) NormalizeBatch(inputs []string, outputDir string, opts transcode.Options, workers int) ([]string, error) {
	return transcode.NormalizeBatch(inputs, outputDir, opts, workers)
}

func (FFmpegTranscoder) Concat(inputs []string, outputPath string, opts transcode.Options) error {
	return transcode.Concat(inputs, outputPath, opts)
}

// Renderer executes render requests end to end.
type Renderer struct {
	fetcher    Fetcher
	store      Store
	transcoder Transcoder
	workDir    string
}

// NewRenderer wires a renderer. workDir is where intermediate files live;
// empty means the system temp dir.
func NewRenderer(fetcher Fetcher, store Store, transcoder Transcoder, workDir string) *Renderer {
	if workDir == "" {
		workDir = os.TempDir()
	}
	return &Renderer{fetcher: fetcher, store: store, transcoder: transcoder, workDir: workDir}
}

// Render runs the full pipeline and returns the storage key of the
// finished video. progress may be nil.
func (r *Renderer) Render(ctx context.Context, req RenderRequest, progress func(pct int, msg string)) (string, error) {
	if len(req.Items) == 0 {
		return "", fmt.Errorf("render request has no items")
	}
	if progress == nil {
		progress = func(int, string) {}
	}

	opts := transcode.Options{}
	if req.Preset != "" {
		var ok bool
		if opts, ok = transcode.Preset(req.Preset); !ok {
			return "", fmt.Errorf("unknown preset %q", req.Preset)
		}
	}

	outputName := req.OutputName
	if outputName == "" {
		outputName = fmt.Sprintf("mix_%s.mp4", uuid.NewString())
	}
	if !strings.HasSuffix(outputName, ".mp4") {
		outputName += ".mp4"
	}

	runDir, err := os.MkdirTemp(r.workDir, "render_*")
	if err != nil {
		return "", fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(runDir)

	// Fetch clips in parallel, preserving sequence order.
	progress(10, "fetching clips")
	localPaths, err := r.fetchAll(ctx, req.Items, runDir)
	if err != nil {
		return "", err
	}

	progress(40, "normalizing clips")
	normDir := filepath.Join(runDir, "normalized")
	if err := os.Mkdir(normDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create normalize dir: %w", err)
	}
	normalized, err := r.transcoder.NormalizeBatch(localPaths, normDir, opts, config.MaxConcurrentTranscodes)
	if err != nil {
		return "", fmt.Errorf("normalization failed: %w", err)
	}

	progress(70, "concatenating")
	outputPath := filepath.Join(runDir, outputName)
	if err := r.transcoder.Concat(normalized, outputPath, opts); err != nil {
		return "", fmt.Errorf("concatenation failed: %w", err)
	}

	progress(90, "uploading")
	key := config.ProcessedClipsPrefix + outputName
	if err := r.store.UploadVideo(ctx, outputPath, key); err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	progress(100, "done")
	log.Printf("✅ Rendered %d clips into %s", len(req.Items), key)
	return key, nil
}

// maxFetchAttempts bounds retries of a single clip download.
const maxFetchAttempts = 3

// fetchRetryBackoff is the delay before the first retry; it doubles on each
// subsequent attempt. Variable so tests can shrink it.
var fetchRetryBackoff = 2 * time.Second

func (r *Renderer) fetchAll(ctx context.Context, items []sequence.Item, dir string) ([]string, error) {
	paths := make([]string, len(items))
	errs := make([]error, len(items))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, config.MaxConcurrentDownloads)

	for i, item := range items {
		wg.Add(1)
		go func(idx int, rec sequence.Record) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				errs[idx] = ctx.Err()
				return
			}
			dest := filepath.Join(dir, fmt.Sprintf("clip_%03d.mp4", idx))
			if err := r.fetchWithRetry(ctx, rec, dest); err != nil {
				errs[idx] = err
				return
			}
			paths[idx] = dest
		}(i, item.Record)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// fetchWithRetry downloads one clip, retrying transient failures with
// exponential backoff. Cancellation cuts the wait short.
func (r *Renderer) fetchWithRetry(ctx context.Context, rec sequence.Record, dest string) error {
	var err error
	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		if attempt > 0 {
			backoff := fetchRetryBackoff << (attempt - 1)
			log.Printf("🔁 Retrying fetch of %q in %s (attempt %d/%d)", rec.Name, backoff, attempt+1, maxFetchAttempts)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		if err = r.fetcher.Fetch(ctx, rec, dest); err == nil {
			return nil
		}
	}
	return fmt.Errorf("failed to fetch %q after %d attempts: %w", rec.Name, maxFetchAttempts, err)
}

// Package transcode normalizes clips to a common format and concatenates
// them into a single video by shelling out to ffmpeg.
package transcode

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Options controls the output format of a normalization or concat run.
// Zero values fall back to the mobile_vertical preset.
type Options struct {
	Width        int
	Height       int
	FrameRate    float64
	VideoCodec   string
	AudioCodec   string
	VideoBitrate string
	AudioBitrate string
	Preset       string
	CRF          int
}

// Preset returns a named output profile. Known presets: mobile_vertical,
// mobile_horizontal, square.
func Preset(name string) (Options, bool) {
	switch name {
	case "mobile_vertical":
		return Options{Width: 1080, Height: 1920, FrameRate: 29.97, VideoCodec: "libx264",
			AudioCodec: "aac", VideoBitrate: "6M", AudioBitrate: "128k", Preset: "veryfast", CRF: 23}, true
	case "mobile_horizontal":
		return Options{Width: 1920, Height: 1080, FrameRate: 29.97, VideoCodec: "libx264",
			AudioCodec: "aac", VideoBitrate: "6M", AudioBitrate: "128k", Preset: "veryfast", CRF: 23}, true
	case "square":
		return Options{Width: 1080, Height: 1080, FrameRate: 30, VideoCodec: "libx264",
			AudioCodec: "aac", VideoBitrate: "4M", AudioBitrate: "128k", Preset: "veryfast", CRF: 23}, true
	}
	return Options{}, false
}

func (o Options) withDefaults() Options {
	def, _ := Preset("mobile_vertical")
	if o.Width == 0 {
		o.Width = def.Width
	}
	if o.Height == 0 {
		o.Height = def.Height
	}
	if o.FrameRate == 0 {
		o.FrameRate = def.FrameRate
	}
	if o.VideoCodec == "" {
		o.VideoCodec = def.VideoCodec
	}
	if o.AudioCodec == "" {
		o.AudioCodec = def.AudioCodec
	}
	if o.VideoBitrate == "" {
		o.VideoBitrate = def.VideoBitrate
	}
	if o.AudioBitrate == "" {
		o.AudioBitrate = def.AudioBitrate
	}
	if o.Preset == "" {
		o.Preset = def.Preset
	}
	if o.CRF == 0 {
		o.CRF = def.CRF
	}
	return o
}

func (o Options) scaleFilter() string {
	return fmt.Sprintf("scale=%d:%d", o.Width, o.Height)
}

// Normalize converts one clip to the requested format.
func Normalize(inputPath, outputPath string, opts Options) error {
	opts = opts.withDefaults()
	err := ffmpeg.Input(inputPath).
		Output(outputPath, ffmpeg.KwArgs{
			"c:v":     opts.VideoCodec,
			"c:a":     opts.AudioCodec,
			"vf":      opts.scaleFilter(),
			"r":       fmt.Sprintf("%g", opts.FrameRate),
			"b:v":     opts.VideoBitrate,
			"pix_fmt": "yuv420p",
			"preset":  opts.Preset,
		}).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg normalize failed for %s: %w", inputPath, err)
	}
	return nil
}

// NormalizeBatch converts clips in parallel with a bounded worker pool.
// Failed conversions are logged and skipped; the returned slice holds the
// outputs that succeeded, in input order.
func NormalizeBatch(inputs []string, outputDir string, opts Options, workers int) ([]string, error) {
	if workers < 1 {
		workers = 1
	}
	outputs := make([]string, len(inputs))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i, input := range inputs {
		wg.Add(1)
		go func(idx int, in string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			out := filepath.Join(outputDir, fmt.Sprintf("normalized_%03d.mp4", idx))
			if err := Normalize(in, out, opts); err != nil {
				log.Printf("⚠️  Skipping %s: %v", in, err)
				return
			}
			outputs[idx] = out
		}(i, input)
	}
	wg.Wait()

	converted := make([]string, 0, len(inputs))
	for _, out := range outputs {
		if out != "" {
			converted = append(converted, out)
		}
	}
	if len(converted) == 0 {
		return nil, fmt.Errorf("no clips were successfully normalized")
	}
	return converted, nil
}

// Concat joins already-normalized clips into one video using ffmpeg's
// concat demuxer and a temporary list file.
func Concat(inputs []string, outputPath string, opts Options) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no input files to concatenate")
	}
	opts = opts.withDefaults()

	list, err := os.CreateTemp("", "clipmix_concat_*.txt")
	if err != nil {
		return fmt.Errorf("failed to create concat list: %w", err)
	}
	listPath := list.Name()
	defer os.Remove(listPath)

	if _, err := list.WriteString(concatList(inputs)); err != nil {
		list.Close()
		return fmt.Errorf("failed to write concat list: %w", err)
	}
	if err := list.Close(); err != nil {
		return fmt.Errorf("failed to close concat list: %w", err)
	}

	err = ffmpeg.Input(listPath, ffmpeg.KwArgs{"f": "concat", "safe": "0"}).
		Output(outputPath, ffmpeg.KwArgs{
			"c:v":               opts.VideoCodec,
			"preset":            opts.Preset,
			"crf":               fmt.Sprintf("%d", opts.CRF),
			"pix_fmt":           "yuv420p",
			"c:a":               opts.AudioCodec,
			"b:a":               opts.AudioBitrate,
			"b:v":               opts.VideoBitrate,
			"r":                 fmt.Sprintf("%g", opts.FrameRate),
			"avoid_negative_ts": "make_zero",
		}).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg concat failed: %w", err)
	}
	return nil
}

// concatList renders the demuxer list file: one absolute path per line,
// single quotes escaped the way the concat demuxer expects.
func concatList(inputs []string) string {
	var b strings.Builder
	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			abs = in
		}
		escaped := strings.ReplaceAll(abs, "'", `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}
	return b.String()
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipmix/catalog"
	"clipmix/config"
	"clipmix/drive"
	"clipmix/pipeline"
	"clipmix/sequence"
	"clipmix/storage"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a clip sequence into a single video",
	Long: `Render generates a sequence (or reads one from --sequence) and runs the
full pipeline: fetch clips, normalize them with ffmpeg, concatenate, and
upload the result to the media bucket.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	addSequenceFlags(renderCmd)
	renderCmd.Flags().String("sequence", "", "render an existing sequence CSV instead of generating one")
	renderCmd.Flags().String("output-name", "", "name of the rendered video (default generated)")
	renderCmd.Flags().String("preset", "", "output preset: mobile_vertical, mobile_horizontal, square")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	items, err := renderItems(cmd)
	if err != nil {
		return err
	}

	renderer, err := buildRenderer(cmd)
	if err != nil {
		return err
	}

	outputName, _ := cmd.Flags().GetString("output-name")
	preset, _ := cmd.Flags().GetString("preset")

	out := cmd.OutOrStdout()
	progress := func(pct int, msg string) {
		fmt.Fprintf(out, "[%3d%%] %s\n", pct, msg)
	}

	key, err := renderer.Render(cmd.Context(), pipeline.RenderRequest{
		Items:      items,
		OutputName: outputName,
		Preset:     preset,
	}, progress)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Rendered video uploaded: %s\n", key)
	return nil
}

func renderItems(cmd *cobra.Command) ([]sequence.Item, error) {
	if path, _ := cmd.Flags().GetString("sequence"); path != "" {
		return catalog.ReadSequence(path)
	}

	records, err := loadCatalog(cmd)
	if err != nil {
		return nil, err
	}
	req := sequenceRequest(cmd)
	pool := sequence.Filter(records, req.Categories, req.Colors)
	return sequence.Generate(pool, req)
}

func buildRenderer(cmd *cobra.Command) (*pipeline.Renderer, error) {
	cfg := config.FromEnv()
	ctx := cmd.Context()

	mediaStore, err := storage.NewMediaStore(ctx, cfg.Bucket, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}

	var fetcher pipeline.Fetcher
	if cfg.DriveCredentials != "" {
		client, err := drive.NewFetcher(ctx, cfg.DriveCredentials)
		if err != nil {
			return nil, err
		}
		fetcher = &pipeline.DriveFetcher{Client: client}
	} else {
		fetcher = &pipeline.BucketFetcher{Store: mediaStore}
	}

	return pipeline.NewRenderer(fetcher, mediaStore, pipeline.FFmpegTranscoder{}, ""), nil
}

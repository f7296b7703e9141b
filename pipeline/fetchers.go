package pipeline

import (
	"context"
	"fmt"
	"strings"

	"clipmix/drive"
	"clipmix/sequence"
	"clipmix/storage"
)

// DriveFetcher pulls clips from Google Drive using the share link stored
// on each catalog record.
type DriveFetcher struct {
	Client *drive.Fetcher
}

func (d *DriveFetcher) Fetch(ctx context.Context, rec sequence.Record, destPath string) error {
	if rec.Link == "" {
		return fmt.Errorf("record %q has no drive link", rec.Name)
	}
	return d.Client.DownloadLink(ctx, rec.Link, destPath)
}

// BucketFetcher pulls clips already mirrored into the raw prefix of the
// S3 bucket, keyed by clip name.
type BucketFetcher struct {
	Store *storage.MediaStore
}

func (b *BucketFetcher) Fetch(ctx context.Context, rec sequence.Record, destPath string) error {
	name := rec.Name
	if !strings.HasSuffix(name, ".mp4") {
		name += ".mp4"
	}
	return b.Store.DownloadClip(ctx, storage.RawClipKey(name), destPath)
}

// Package drive fetches clip files from Google Drive using a service
// account. Catalog rows store Drive share links; ExtractFileID turns the
// common link forms into the file ID the API wants.
package drive

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Fetcher downloads files from Google Drive.
type Fetcher struct {
	service *driveapi.Service
}

// NewFetcher builds a read-only Drive client from a service account
// credentials file.
func NewFetcher(ctx context.Context, serviceAccountFile string) (*Fetcher, error) {
	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, driveapi.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account: %w", err)
	}

	client := jwtConfig.Client(ctx)

	service, err := driveapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Drive service: %w", err)
	}
	return &Fetcher{service: service}, nil
}

// ExtractFileID pulls the Drive file ID out of a share link. Supported
// forms:
//
//	https://drive.google.com/file/d/<id>/view
//	https://drive.google.com/open?id=<id>
//	https://drive.google.com/uc?id=<id>&export=download
//
// A bare ID passes through unchanged.
func ExtractFileID(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", fmt.Errorf("empty drive link")
	}

	if !strings.Contains(link, "/") && !strings.Contains(link, "?") {
		return link, nil
	}

	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid drive link %q: %w", link, err)
	}

	if id := u.Query().Get("id"); id != "" {
		return id, nil
	}

	// /file/d/<id>/view style
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if part == "d" && i+1 < len(parts) && parts[i+1] != "" {
			return parts[i+1], nil
		}
	}

	return "", fmt.Errorf("could not find file ID in drive link %q", link)
}

// Download streams the file contents to destPath.
func (f *Fetcher) Download(ctx context.Context, fileID, destPath string) error {
	resp, err := f.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return fmt.Errorf("failed to download drive file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer out.Close()

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	log.Printf("📥 Downloaded drive file %s (%.2f MB)", fileID, float64(written)/(1024*1024))
	return nil
}

// DownloadLink resolves a share link and downloads the file behind it.
func (f *Fetcher) DownloadLink(ctx context.Context, link, destPath string) error {
	fileID, err := ExtractFileID(link)
	if err != nil {
		return err
	}
	return f.Download(ctx, fileID, destPath)
}

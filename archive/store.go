// Package archive is the content store: it maps a content-addressed
// archive id to an extracted directory on local disk, on demand.
package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/singleflight"

	"github.com/olimps/backend/logger"
)

// Store resolves an archive id to a directory holding its extracted
// content. Extraction is idempotent and cached by archive id; the
// returned directory is read-only for callers.
type Store interface {
	Extract(ctx context.Context, archiveID string) (string, error)
}

// Fetcher retrieves the raw bytes of an archive (a zstd-compressed
// tarball) by its id.
type Fetcher interface {
	Fetch(ctx context.Context, archiveID string) (io.ReadCloser, error)
}

// Registry is a Store that extracts fetched archives under a cache
// directory. Two concurrent requests for the same archive id are
// coalesced: the first performs the extraction, the second waits for it
// and reuses the result. A fully extracted archive is detected by its
// directory existing, so extraction happens into a temp dir first and is
// renamed into place only when complete.
type Registry struct {
	cacheDir string
	fetcher  Fetcher
	group    singleflight.Group
}

func NewRegistry(cacheDir string, fetcher Fetcher) *Registry {
	return &Registry{cacheDir: cacheDir, fetcher: fetcher}
}

func (r *Registry) Extract(ctx context.Context, archiveID string) (string, error) {
	if archiveID == "" || strings.ContainsAny(archiveID, "/\\") {
		return "", fmt.Errorf("invalid archive id %q", archiveID)
	}
	dest := filepath.Join(r.cacheDir, archiveID)
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}

	_, err, _ := r.group.Do(archiveID, func() (interface{}, error) {
		// re-check under the flight lock
		if _, err := os.Stat(dest); err == nil {
			return nil, nil
		}
		return nil, r.fetchAndExtract(ctx, archiveID, dest)
	})
	if err != nil {
		return "", err
	}
	return dest, nil
}

func (r *Registry) fetchAndExtract(ctx context.Context, archiveID string, dest string) error {
	log := logger.FromContext(ctx)
	log.Info("extracting archive", "archive_id", archiveID)

	body, err := r.fetcher.Fetch(ctx, archiveID)
	if err != nil {
		return fmt.Errorf("failed to fetch archive %s: %w", archiveID, err)
	}
	defer body.Close()

	tmp, err := os.MkdirTemp(r.cacheDir, archiveID+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := untarZst(body, tmp); err != nil {
		return fmt.Errorf("failed to extract archive %s: %w", archiveID, err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("failed to move extracted archive into place: %w", err)
	}
	return nil
}

func untarZst(body io.Reader, dest string) error {
	zr, err := zstd.NewReader(body)
	if err != nil {
		return fmt.Errorf("failed to open zstd stream: %w", err)
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tar entry: %w", err)
		}

		name := filepath.Clean(hdr.Name)
		if filepath.IsAbs(name) || strings.HasPrefix(name, "..") {
			return fmt.Errorf("tar entry %q escapes destination", hdr.Name)
		}
		path := filepath.Join(dest, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(path, 0o755); err != nil {
				return fmt.Errorf("failed to create dir %s: %w", name, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create dir for %s: %w", name, err)
			}
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode)&0o777)
			if err != nil {
				return fmt.Errorf("failed to create file %s: %w", name, err)
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return fmt.Errorf("failed to write file %s: %w", name, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close file %s: %w", name, err)
			}
		default:
			// symlinks and specials are not part of task archives
			return fmt.Errorf("unsupported tar entry type %d for %s", hdr.Typeflag, name)
		}
	}
}

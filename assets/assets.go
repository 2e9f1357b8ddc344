// Package assets is the boundary to the external asset host. Handlers only
// see the Host interface; the default implementation stores files on local
// disk under the static directory.
package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"smartkop/apperr"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// UploadResult mirrors the asset host's response: a stable reference id plus
// a public URL.
type UploadResult struct {
	PublicID string
	URL      string
}

type Host interface {
	// Upload stores image content (a base64 data URI or raw base64). A
	// positive width scales the image down preserving aspect ratio.
	Upload(ctx context.Context, content, folder string, width int) (UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

// LocalHost writes assets under Dir and serves them below BaseURL.
type LocalHost struct {
	Dir     string
	BaseURL string
}

var extByMime = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
	"image/tiff": ".tiff",
}

func (h *LocalHost) Upload(ctx context.Context, content, folder string, width int) (UploadResult, error) {
	raw, ext, err := decodeContent(content)
	if err != nil {
		return UploadResult{}, apperr.Wrap(apperr.Validation, "Invalid image data", err)
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return UploadResult{}, apperr.Wrap(apperr.Validation, "Invalid image data", err)
	}
	if width > 0 {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	dir := filepath.Join(h.Dir, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return UploadResult{}, apperr.Wrap(apperr.Upstream, "Asset upload failed", err)
	}

	name := uuid.New().String() + ext
	if err := imaging.Save(img, filepath.Join(dir, name)); err != nil {
		return UploadResult{}, apperr.Wrap(apperr.Upstream, "Asset upload failed", err)
	}

	publicID := folder + "/" + name
	return UploadResult{
		PublicID: publicID,
		URL:      h.BaseURL + "/" + publicID,
	}, nil
}

func (h *LocalHost) Destroy(ctx context.Context, publicID string) error {
	clean := filepath.Clean(publicID)
	if clean == "" || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return apperr.New(apperr.Validation, "Invalid asset reference")
	}

	if err := os.Remove(filepath.Join(h.Dir, clean)); err != nil && !os.IsNotExist(err) {
		return apperr.Wrap(apperr.Upstream, "Asset deletion failed", err)
	}
	return nil
}

// decodeContent accepts a data URI ("data:image/png;base64,....") or bare
// base64 and returns the raw bytes plus a file extension.
func decodeContent(content string) ([]byte, string, error) {
	ext := ".jpg"
	if strings.HasPrefix(content, "data:") {
		semi := strings.Index(content, ";")
		comma := strings.Index(content, ",")
		if semi < 0 || comma < 0 || comma < semi {
			return nil, "", fmt.Errorf("malformed data URI")
		}
		if e, ok := extByMime[content[len("data:"):semi]]; ok {
			ext = e
		}
		content = content[comma+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, "", err
	}
	return raw, ext, nil
}

package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"smartkop/apperr"
)

// pngDataURI returns a small solid PNG encoded as a data URI.
func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestUploadStoresFileAndDestroyRemovesIt(t *testing.T) {
	host := &LocalHost{Dir: t.TempDir(), BaseURL: "/uploads"}

	res, err := host.Upload(context.Background(), pngDataURI(t, 8, 8), "avatars", 0)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.PublicID, "avatars/") {
		t.Fatalf("PublicID = %q", res.PublicID)
	}
	if res.URL != "/uploads/"+res.PublicID {
		t.Fatalf("URL = %q", res.URL)
	}

	path := filepath.Join(host.Dir, filepath.FromSlash(res.PublicID))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}

	if err := host.Destroy(context.Background(), res.PublicID); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file still present after destroy: %v", err)
	}
}

func TestUploadResizesToRequestedWidth(t *testing.T) {
	host := &LocalHost{Dir: t.TempDir(), BaseURL: "/uploads"}

	res, err := host.Upload(context.Background(), pngDataURI(t, 64, 32), "avatars", 16)
	if err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(host.Dir, filepath.FromSlash(res.PublicID)))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 16 || cfg.Height != 8 {
		t.Fatalf("resized to %dx%d, want 16x8", cfg.Width, cfg.Height)
	}
}

func TestUploadRejectsUndecodableContent(t *testing.T) {
	host := &LocalHost{Dir: t.TempDir(), BaseURL: "/uploads"}

	_, err := host.Upload(context.Background(), "not base64 at all!!", "avatars", 0)
	if apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected validation error, got %v", err)
	}

	garbage := base64.StdEncoding.EncodeToString([]byte("plain text"))
	_, err = host.Upload(context.Background(), garbage, "avatars", 0)
	if apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDestroyIgnoresMissingFile(t *testing.T) {
	host := &LocalHost{Dir: t.TempDir()}
	if err := host.Destroy(context.Background(), "avatars/gone.png"); err != nil {
		t.Fatal(err)
	}
}

func TestDestroyRejectsTraversal(t *testing.T) {
	host := &LocalHost{Dir: t.TempDir()}
	for _, ref := range []string{"../secrets.txt", "/etc/passwd", "a/../../x"} {
		if err := host.Destroy(context.Background(), ref); err == nil {
			t.Errorf("%q: expected error", ref)
		}
	}
}

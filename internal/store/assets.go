package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors for asset uploads.
var (
	ErrNoAsset             = errors.New("no asset content provided")
	ErrUnsafeAssetName     = errors.New("asset name contains path separators")
	ErrMissingAssetNameExt = errors.New("asset name has no extension")
)

// assetSubdir is where certificate assets live beneath the static root.
// The returned URL paths start with /static/ so the layout resolver maps
// them straight back to these files.
const assetSubdir = "uploads/certificates"

// AssetStore saves certificate image assets under the static root and
// hands back the public URL path the layout editor embeds in templates.
type AssetStore struct {
	staticRoot string
}

// NewAssetStore creates an AssetStore rooted at the static assets
// directory.
func NewAssetStore(staticRoot string) *AssetStore {
	return &AssetStore{staticRoot: staticRoot}
}

// Save stores the asset content under a fresh random name that keeps the
// original extension, and returns its /static/... URL path.
func (a *AssetStore) Save(r io.Reader, originalName string) (string, error) {
	if r == nil {
		return "", ErrNoAsset
	}
	ext, err := safeExt(originalName)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(a.staticRoot, filepath.FromSlash(assetSubdir))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating asset directory: %w", err)
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(dir, name)) // #nosec G304 -- name is a generated UUID
	if err != nil {
		return "", fmt.Errorf("creating asset file: %w", err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("writing asset: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("closing asset file: %w", err)
	}

	return "/static/" + path.Join(assetSubdir, name), nil
}

// safeExt extracts a usable extension from the client-supplied name.
// Only the extension survives into the stored filename, so a hostile
// name cannot influence the path.
func safeExt(name string) (string, error) {
	if strings.ContainsAny(name, "/\\\x00") {
		return "", fmt.Errorf("%w: %q", ErrUnsafeAssetName, name)
	}
	ext := filepath.Ext(name)
	if ext == "" || ext == "." {
		return "", fmt.Errorf("%w: %q", ErrMissingAssetNameExt, name)
	}
	return strings.ToLower(ext), nil
}

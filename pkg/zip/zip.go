// Package zip bundles in-memory files into a zip archive.
package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

type Asset struct {
	Filename string
	MIME     string
	Data     []byte
	Modified time.Time
}

// Write streams assets into a zip archive on w. Duplicate names get a
// numeric suffix so no entry is shadowed.
func Write(w io.Writer, assets []Asset) error {
	zw := zip.NewWriter(w)
	used := make(map[string]int, len(assets))
	for _, asset := range assets {
		name := uniqueName(cleanName(asset.Filename), used)
		header := &zip.FileHeader{Name: name, Method: zip.Deflate}
		if strings.HasPrefix(asset.MIME, "video/") || strings.HasPrefix(asset.MIME, "image/") {
			header.Method = zip.Store
		}
		if !asset.Modified.IsZero() {
			header.Modified = asset.Modified
		}
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("zip: create %s: %w", name, err)
		}
		if _, err := fw.Write(asset.Data); err != nil {
			return fmt.Errorf("zip: write %s: %w", name, err)
		}
	}
	return zw.Close()
}

// ArchiveAssets returns the archive as a byte slice.
func ArchiveAssets(assets []Asset) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := Write(buf, assets); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cleanName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	name = path.Base(path.Clean("/" + name))
	if name == "/" || name == "." || name == "" {
		return "file"
	}
	return name
}

func uniqueName(name string, used map[string]int) string {
	n := used[name]
	used[name] = n + 1
	if n == 0 {
		return name
	}
	ext := path.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n+1, ext)
}

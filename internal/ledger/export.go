package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"veostudio/pkg/zip"
)

// ExportGallery writes every saved video plus a manifest.json describing the
// gallery into a zip archive on w. Videos whose file is gone are listed in
// the manifest but skipped in the archive.
func (l *Ledger) ExportGallery(ctx context.Context, w io.Writer) (int, error) {
	gallery := l.Gallery()
	assets := make([]zip.Asset, 0, len(gallery)+1)
	for _, v := range gallery {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		data, err := os.ReadFile(v.URL)
		if err != nil {
			l.logger.Warn().Err(err).Str("video_id", v.ID).Msg("ledger: video file missing, skipped in export")
			continue
		}
		assets = append(assets, zip.Asset{
			Filename: v.ID + filepath.Ext(v.URL),
			MIME:     "video/mp4",
			Data:     data,
			Modified: time.UnixMilli(v.CreatedAt),
		})
	}
	exported := len(assets)

	manifest, err := json.MarshalIndent(gallery, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("ledger: encode manifest: %w", err)
	}
	assets = append(assets, zip.Asset{Filename: "manifest.json", MIME: "application/json", Data: manifest})

	if err := zip.Write(w, assets); err != nil {
		return 0, err
	}
	return exported, nil
}

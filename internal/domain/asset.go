package domain

import (
	"strings"

	"github.com/google/uuid"
)

// VideoAsset represents a generated video. Once saved it is a gallery entry.
type VideoAsset struct {
	ID          string      `json:"id"`
	URL         string      `json:"url"`
	Prompt      string      `json:"prompt"`
	CreatedAt   int64       `json:"createdAt"`
	AspectRatio AspectRatio `json:"aspectRatio"`
	Seed        *int64      `json:"seed,omitempty"`
}

// HistoryEntry records a successful generation. Reference frame bytes are not
// kept, only whether they were supplied.
type HistoryEntry struct {
	ID            string      `json:"id"`
	Timestamp     int64       `json:"timestamp"`
	Prompt        string      `json:"prompt"`
	AspectRatio   AspectRatio `json:"aspectRatio"`
	Resolution    Resolution  `json:"resolution"`
	HasStartFrame bool        `json:"hasStartFrame"`
	HasEndFrame   bool        `json:"hasEndFrame"`
}

// NewHistoryEntry derives a history record from the request that produced it.
func NewHistoryEntry(id string, timestamp int64, req GenerationRequest) HistoryEntry {
	return HistoryEntry{
		ID:            id,
		Timestamp:     timestamp,
		Prompt:        req.Prompt,
		AspectRatio:   req.AspectRatio,
		Resolution:    req.Resolution,
		HasStartFrame: req.StartFrame != nil,
		HasEndFrame:   req.EndFrame != nil,
	}
}

// NewToken returns a short opaque identifier. Callers needing uniqueness
// within a session must check it against identifiers already issued.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

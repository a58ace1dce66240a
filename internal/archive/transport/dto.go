package transport

import "time"

// Archive kinds double as the key prefix in the bucket.
const (
	KindCatalog = "catalog"
	KindWeights = "weights"
)

// ListSnapshotsRequest selects archived documents of one kind.
type ListSnapshotsRequest struct {
	Kind  string `uri:"kind" validate:"required,oneof=catalog weights"`
	Limit int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

type SnapshotResponse struct {
	Key         string    `json:"key"`
	Kind        string    `json:"kind"`
	Size        int64     `json:"size"`
	SavedAt     time.Time `json:"savedAt"`
	Reason      string    `json:"reason,omitempty"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type SnapshotListResponse struct {
	Items []SnapshotResponse `json:"items"`
	Total int                `json:"total"`
}

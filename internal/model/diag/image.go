package diag

import "time"

// ImageResource is an uploaded image held verbatim until process restart.
// Records are read-only after upload; a re-upload gets a fresh identifier.
type ImageResource struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	Data       []byte    `json:"-"`
	UploadedAt time.Time `json:"uploaded_at"`
}

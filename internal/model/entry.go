package model

import "time"

// Entry kinds mirror the "sys.type" values used by the content source.
const (
	KindEntry = "Entry"
	KindAsset = "Asset"
)

// Entry is a raw content record as kept by the local entry store.
//
// Payload is the record exactly as the content source would return it
// ({"sys": {...}, "fields": {...}}) with links to other records left
// unresolved. Links are resolved when the entry is fetched, not when it is stored.
type Entry struct {
	ID          string    `json:"id"          db:"id"`
	Kind        string    `json:"kind"        db:"kind"`
	ContentType string    `json:"contentType" db:"content_type"`
	Payload     []byte    `json:"payload"     db:"payload"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}

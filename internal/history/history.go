// Package history keeps a SQLite log of package generations.
package history

import "time"

// Status is the result of a generation.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Record is a single generation entry. Only archive metadata is kept, never
// the completion code or the embedded content.
type Record struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	Title        string    `json:"title"`
	Name         string    `json:"name"`
	Version      string    `json:"version"`
	PackageType  string    `json:"packageType"`
	Size         int       `json:"size"`
	SHA256       string    `json:"sha256,omitempty"`
	Entries      int       `json:"entries"`
	Placeholders []string  `json:"placeholders"`
	Status       Status    `json:"status"`
	Error        string    `json:"error,omitempty"`
	DurationMS   int64     `json:"durationMs"`
}

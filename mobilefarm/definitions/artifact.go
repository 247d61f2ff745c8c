package definitions

import "time"

// CapturedArtifact is one screenshot written for a lifecycle point of an action.
type CapturedArtifact struct {
	Timestamp time.Time `json:"timestamp"`
	Label     string    `json:"label"`
	Ext       string    `json:"ext"`
	Path      string    `json:"path"`
}

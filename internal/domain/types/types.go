// Package types contains common types used across the application
package types

// Entry represents a trust board row
type Entry struct {
	Rank           int      `json:"rank"`
	Agent          string   `json:"agent"`
	Score          int      `json:"score"`
	Confidence     int      `json:"confidence"`
	Recommendation string   `json:"recommendation,omitempty"`
	Flags          []string `json:"flags,omitempty"`
}

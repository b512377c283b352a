package domain

import "time"

// Member is upserted on each upload; DocumentCount tracks live documents.
type Member struct {
	Email         string    `json:"email"`
	Organization  string    `json:"organization,omitempty"`
	DocumentCount int       `json:"documentCount"`
	FirstUploadAt time.Time `json:"firstUploadAt"`
	LastUploadAt  time.Time `json:"lastUploadAt"`
}

// MemberStats is the per-member statistics view.
type MemberStats struct {
	Member    Member     `json:"member"`
	Documents []Document `json:"documents"`
}

// AggregateStats is the organization-wide statistics view.
type AggregateStats struct {
	TotalMembers     int      `json:"totalMembers"`
	TotalDocuments   int      `json:"totalDocuments"`
	TotalChunks      int      `json:"totalChunks"`
	DefaultDocuments int      `json:"defaultDocuments"`
	TopUploaders     []Member `json:"topUploaders"`
}

// Package model contains domain models passed between layers.
package model

import "time"

// AgentProfile is an immutable snapshot of an agent's profile metadata.
// It is owned by the caller and read-only to the scoring engine. Optional
// fields default to their zero value; Owner is nil when the agent has no
// linked external identity.
type AgentProfile struct {
	Name           string     `json:"name"`
	CreatedAt      time.Time  `json:"created_at"`
	IsClaimed      bool       `json:"is_claimed"`
	Owner          *OwnerLink `json:"owner,omitempty"`
	FollowerCount  int        `json:"follower_count"`
	FollowingCount int        `json:"following_count"`
	Description    string     `json:"description"`
}

// OwnerLink describes the external identity an agent is linked to.
type OwnerLink struct {
	Handle        string `json:"handle"`
	FollowerCount int    `json:"follower_count"`
	Verified      bool   `json:"verified"`
}

// Post is a single top-level activity item authored by an agent.
type Post struct {
	Author       string    `json:"author"`
	CreatedAt    time.Time `json:"created_at"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Upvotes      int       `json:"upvotes"`
	CommentCount int       `json:"comment_count"`
}

// Comment is a reply authored by an agent. Parent carries a weak
// back-reference to the post the comment was left on; it is used only for
// relevance computation, never for identity.
type Comment struct {
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	Content   string    `json:"content"`
	Upvotes   int       `json:"upvotes"`
	Parent    *PostRef  `json:"parent,omitempty"`
}

// PostRef is a weak reference to a comment's parent post.
type PostRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Thread bundles a post author with the comments left on their post.
// Used to derive interaction edges from a batch of fetched posts.
type Thread struct {
	Author   string    `json:"author"`
	Comments []Comment `json:"comments"`
}

// ScoreJob is a unit of asynchronous scoring work: one agent's activity
// snapshot plus a caller-supplied id for idempotency.
type ScoreJob struct {
	JobID    string       `json:"job_id"`
	Profile  AgentProfile `json:"profile"`
	Posts    []Post       `json:"posts"`
	Comments []Comment    `json:"comments"`
}

package api

import (
	"github.com/jonesrussell/topicbot/internal/catalog"
)

// linkMarker prefixes the link line appended to matched replies. Webhook
// consumers render it as-is.
const linkMarker = "👉 "

// RespondRequest is the webhook request body.
type RespondRequest struct {
	// Message is the chat message text to classify.
	Message string `json:"message"`
	// User is the sender identifier. Optional; defaults to "unknown" and
	// is echoed back untouched.
	User string `json:"user"`
}

// MatchResponse is the webhook response when a topic matched.
type MatchResponse struct {
	Reply string `json:"reply"`
	Topic string `json:"topic"`
	User  string `json:"user"`
}

// NoMatchResponse is the webhook response when no topic applies. Link is
// always null; it exists so consumers can distinguish the shape.
type NoMatchResponse struct {
	Reply string  `json:"reply"`
	Link  *string `json:"link"`
	User  string  `json:"user"`
}

// TopicSummary is the public view of a catalog entry: replies and links
// are internal and not listed.
type TopicSummary struct {
	Topic    string   `json:"topic"`
	Keywords []string `json:"keywords,omitempty"`
	Summary  string   `json:"summary"`
}

// composeReply builds the outgoing reply text: the entry's canned reply
// followed by its link on a marker line.
func composeReply(entry *catalog.TopicEntry) string {
	if entry.Link == "" {
		return entry.Reply
	}
	return entry.Reply + "\n" + linkMarker + entry.Link
}

package domain

import "time"

// ActivityKind names a portal action worth keeping in the audit trail.
type ActivityKind string

const (
	ActivityLogin           ActivityKind = "login"
	ActivityLoginFailed     ActivityKind = "login_failed"
	ActivityLogout          ActivityKind = "logout"
	ActivityTokenRefreshed  ActivityKind = "token_refreshed"
	ActivitySessionExpired  ActivityKind = "session_expired"
	ActivityOrderCreated    ActivityKind = "order_created"
	ActivityOrderCancelled  ActivityKind = "order_cancelled"
	ActivityOrderUpdated    ActivityKind = "order_updated"
	ActivityProfileUpdated  ActivityKind = "profile_updated"
	ActivityPasswordChanged ActivityKind = "password_changed"
)

// ActivityEvent records a single portal action.
type ActivityEvent struct {
	ID        string            `json:"id" bson:"_id"`
	Kind      ActivityKind      `json:"kind" bson:"kind"`
	UserID    string            `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Subject   string            `json:"subject,omitempty" bson:"subject,omitempty"` // login name or order id
	Metadata  map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
}

// ShardKey is the value activity events are ordered by.
func (e ActivityEvent) ShardKey() string {
	if e.UserID != "" {
		return e.UserID
	}
	return e.Subject
}

// internal/app/cascade/result.go
package cascade

// Results are plain records. Best-effort sub-failures land in Errors as
// user-presentable sentences and never surface as returned errors; callers
// render a partial success ("deleted, with 2 warnings") from the tally.

// RegisterResult reports the outcome of RegisterForEvent or
// UnregisterFromEvent.
type RegisterResult struct {
	CorrelationID string   `json:"correlation_id"`
	Registered    bool     `json:"registered"`   // membership state after the call
	ChatUpdated   bool     `json:"chat_updated"` // participant change applied
	ChatCreated   bool     `json:"chat_created"` // room bootstrapped this call
	Errors        []string `json:"errors,omitempty"`
}

// DeleteResult is the tally from DeleteEventWithCleanup.
type DeleteResult struct {
	CorrelationID        string   `json:"correlation_id"`
	EventDeleted         bool     `json:"event_deleted"`
	ChatRoomDeleted      bool     `json:"chat_room_deleted"`
	MessagesDeleted      int      `json:"messages_deleted"`
	UsersUpdated         int      `json:"users_updated"`
	NotificationsDeleted int      `json:"notifications_deleted"`
	ActivitiesDeleted    int      `json:"activities_deleted"`
	ApplicationsDeleted  int      `json:"applications_deleted"`
	ImageDeleted         bool     `json:"image_deleted"`
	Errors               []string `json:"errors,omitempty"`
}

// RemoveResult reports the outcome of RemoveVolunteerFromEvent.
type RemoveResult struct {
	CorrelationID string   `json:"correlation_id"`
	Removed       bool     `json:"removed"`
	ChatUpdated   bool     `json:"chat_updated"`
	Errors        []string `json:"errors,omitempty"`
}

// DecideResult reports the outcome of DecideApplication.
type DecideResult struct {
	CorrelationID string   `json:"correlation_id"`
	Status        string   `json:"status"`        // terminal status after the call
	EventUpdated  bool     `json:"event_updated"` // approved applicant mirrored onto the event
	Errors        []string `json:"errors,omitempty"`
}

// FollowResult reports the outcome of FollowOrganization or
// UnfollowOrganization.
type FollowResult struct {
	CorrelationID string   `json:"correlation_id"`
	Following     bool     `json:"following"` // state after the call
	UserUpdated   bool     `json:"user_updated"`
	Errors        []string `json:"errors,omitempty"`
}

// SyncResult reports the outcome of SyncChatParticipants.
type SyncResult struct {
	CorrelationID string   `json:"correlation_id"`
	RoomCreated   bool     `json:"room_created"`
	Participants  int      `json:"participants"`
	Errors        []string `json:"errors,omitempty"`
}

// FollowerStats are the derived follower statistics for an organization.
// Buckets come from follow-edge timestamps; FollowerCount is the maintained
// counter on the organization document, so the two can differ transiently.
type FollowerStats struct {
	FollowerCount int `json:"follower_count"`
	Last7Days     int `json:"last_7_days"`
	Last30Days    int `json:"last_30_days"` // between 7 and 30 days ago
	Older         int `json:"older"`
}

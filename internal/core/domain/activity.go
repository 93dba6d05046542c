package domain

import "time"

// ActivityType classifies an interaction logged against a lead.
type ActivityType string

const (
	ActivityCall    ActivityType = "CALL"
	ActivityMeeting ActivityType = "MEETING"
	ActivityEmail   ActivityType = "EMAIL"
	ActivityNote    ActivityType = "NOTE"
	ActivityTask    ActivityType = "TASK"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityCall, ActivityMeeting, ActivityEmail, ActivityNote, ActivityTask:
		return true
	default:
		return false
	}
}

// Activity records a call, meeting, note or task on a lead.
type Activity struct {
	ID          string       `json:"id" bson:"_id"`
	LeadID      string       `json:"leadId" bson:"lead_id"`
	UserID      string       `json:"userId" bson:"user_id"`
	Type        ActivityType `json:"type" bson:"type"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description,omitempty" bson:"description,omitempty"`
	DueDate     *time.Time   `json:"dueDate,omitempty" bson:"due_date,omitempty"`
	Completed   bool         `json:"completed" bson:"completed"`
	CreatedAt   time.Time    `json:"createdAt" bson:"created_at"`
}

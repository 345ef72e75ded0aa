package userdetails

import (
	"encoding/json"
	"time"
)

// UserDetails is the resume document stored for a user. ResumeData is kept
// as the client sent it (basics, skills, work, education, activities,
// volunteer, awards and whatever else the form adds). FilledForm is not
// persisted; it is filled in on read from the owning user record.
type UserDetails struct {
	UserID     string          `json:"userId"`
	ResumeData json.RawMessage `json:"resumeData"`
	FilledForm bool            `json:"filledForm"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

var nullData = json.RawMessage("null")

// cloneData copies data so callers cannot mutate a stored document. Empty
// input is JSON null.
func cloneData(data json.RawMessage) json.RawMessage {
	if len(data) == 0 {
		return append(json.RawMessage(nil), nullData...)
	}
	return append(json.RawMessage(nil), data...)
}

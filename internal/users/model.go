package users

import "time"

// User tracks whether a user has completed the onboarding form.
type User struct {
	UserID       string    `json:"userId" bson:"userId"`
	FilledForm   bool      `json:"filledForm" bson:"filledForm"`
	ProfileImage string    `json:"profileImage,omitempty" bson:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// UpsertInput is the writable part of a User. An empty ProfileImage leaves the
// stored image untouched.
type UpsertInput struct {
	UserID       string
	FilledForm   bool
	ProfileImage string
}

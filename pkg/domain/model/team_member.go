package model

import "time"

// TeamMember is an assignee seen on a project's board. Rows are created the
// first time a login appears and are never updated afterwards.
type TeamMember struct {
	ID          int64
	ProjectID   int64
	Login       string
	DisplayName string
	AvatarURL   string
	CreatedAt   time.Time
}

// NewTeamMember builds the row created for a board user. The login doubles as
// the display name when the user has none.
func NewTeamMember(projectID int64, user BoardUser) *TeamMember {
	name := user.Name
	if name == "" {
		name = user.Login
	}
	return &TeamMember{
		ProjectID:   projectID,
		Login:       user.Login,
		DisplayName: name,
		AvatarURL:   user.AvatarURL,
	}
}

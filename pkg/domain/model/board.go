package model

// BoardUser is a user referenced by a board item
type BoardUser struct {
	Login     string `json:"login"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// BoardContent is the issue, pull request or draft behind a board item
type BoardContent struct {
	Number    *int        `json:"number,omitempty"`
	Title     string      `json:"title"`
	State     string      `json:"state,omitempty"`
	Assignees []BoardUser `json:"assignees,omitempty"`
	Milestone *string     `json:"milestone,omitempty"`
	CreatedAt string      `json:"createdAt,omitempty"`
	UpdatedAt string      `json:"updatedAt,omitempty"`
}

// BoardItem is one item fetched from the external project board
type BoardItem struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	Content     *BoardContent `json:"content,omitempty"`
	FieldValues FieldValues   `json:"fieldValues"`
}

package github

import (
	"fmt"

	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/domain/types"
	"github.com/shurcooL/githubv4"
)

// GraphQL query types

type projectItemsQuery struct {
	Repository struct {
		ProjectV2 *struct {
			Items struct {
				Nodes    []itemNode
				PageInfo pageInfo
			} `graphql:"items(first: $first, after: $cursor)"`
		} `graphql:"projectV2(number: $number)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

type itemNode struct {
	ID      githubv4.ID
	Type    githubv4.String
	// Content is null for redacted items
	Content     *itemContent
	FieldValues struct {
		Nodes []fieldValueNode
	} `graphql:"fieldValues(first: 20)"`
}

type itemContent struct {
	Typename    githubv4.String `graphql:"__typename"`
	Issue       contentFragment `graphql:"... on Issue"`
	PullRequest contentFragment `graphql:"... on PullRequest"`
	DraftIssue  draftFragment   `graphql:"... on DraftIssue"`
}

type contentFragment struct {
	Number    githubv4.Int
	Title     githubv4.String
	State     githubv4.String
	CreatedAt githubv4.DateTime
	UpdatedAt githubv4.DateTime
	Assignees struct {
		Nodes []userNode
	} `graphql:"assignees(first: 10)"`
	Milestone *struct {
		Title githubv4.String
	}
}

type draftFragment struct {
	Title     githubv4.String
	CreatedAt githubv4.DateTime
	UpdatedAt githubv4.DateTime
	Assignees struct {
		Nodes []userNode
	} `graphql:"assignees(first: 10)"`
}

type userNode struct {
	Login     githubv4.String
	Name      *githubv4.String
	AvatarURL githubv4.String `graphql:"avatarUrl"`
}

type fieldValueNode struct {
	Typename     githubv4.String `graphql:"__typename"`
	Text         textValue       `graphql:"... on ProjectV2ItemFieldTextValue"`
	Number       numberValue     `graphql:"... on ProjectV2ItemFieldNumberValue"`
	SingleSelect selectValue     `graphql:"... on ProjectV2ItemFieldSingleSelectValue"`
	Date         dateValue       `graphql:"... on ProjectV2ItemFieldDateValue"`
	Iteration    iterationValue  `graphql:"... on ProjectV2ItemFieldIterationValue"`
}

type fieldRef struct {
	Common struct {
		Name githubv4.String
	} `graphql:"... on ProjectV2FieldCommon"`
}

type textValue struct {
	Text  *githubv4.String
	Field fieldRef
}

type numberValue struct {
	Number *githubv4.Float
	Field  fieldRef
}

type selectValue struct {
	Name  *githubv4.String
	Field fieldRef
}

type dateValue struct {
	Date  *githubv4.String
	Field fieldRef
}

type iterationValue struct {
	Title *githubv4.String
	Field fieldRef
}

type pageInfo struct {
	HasNextPage bool
	EndCursor   githubv4.String
}

type repositoryQuery struct {
	Repository struct {
		Description githubv4.String
		IsPrivate   githubv4.Boolean
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// Conversion helpers

func convertItem(node itemNode) *model.BoardItem {
	item := &model.BoardItem{
		ID:   idString(node.ID),
		Type: string(node.Type),
	}

	var typename githubv4.String
	if node.Content != nil {
		typename = node.Content.Typename
	}

	switch typename {
	case "Issue":
		item.Content = convertContent(node.Content.Issue)
	case "PullRequest":
		item.Content = convertContent(node.Content.PullRequest)
	case "DraftIssue":
		d := node.Content.DraftIssue
		item.Content = &model.BoardContent{
			Title:     string(d.Title),
			Assignees: convertUsers(d.Assignees.Nodes),
			CreatedAt: formatTime(d.CreatedAt),
			UpdatedAt: formatTime(d.UpdatedAt),
		}
	}

	for _, fv := range node.FieldValues.Nodes {
		if v, ok := convertFieldValue(fv); ok {
			item.FieldValues = append(item.FieldValues, v)
		}
	}

	return item
}

func convertContent(c contentFragment) *model.BoardContent {
	number := int(c.Number)
	content := &model.BoardContent{
		Number:    &number,
		Title:     string(c.Title),
		State:     string(c.State),
		Assignees: convertUsers(c.Assignees.Nodes),
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
	if c.Milestone != nil && c.Milestone.Title != "" {
		title := string(c.Milestone.Title)
		content.Milestone = &title
	}
	return content
}

func convertUsers(nodes []userNode) []model.BoardUser {
	var users []model.BoardUser
	for _, u := range nodes {
		user := model.BoardUser{
			Login:     string(u.Login),
			AvatarURL: string(u.AvatarURL),
		}
		if u.Name != nil {
			user.Name = string(*u.Name)
		}
		users = append(users, user)
	}
	return users
}

// convertFieldValue maps a typed field value node. Value kinds the
// normalizer does not read (labels, users, repository, ...) are dropped.
func convertFieldValue(fv fieldValueNode) (model.FieldValue, bool) {
	switch fv.Typename {
	case "ProjectV2ItemFieldTextValue":
		return model.FieldValue{
			FieldName: string(fv.Text.Field.Common.Name),
			Kind:      types.FieldKindText,
			Text:      stringPtr(fv.Text.Text),
		}, true
	case "ProjectV2ItemFieldNumberValue":
		v := model.FieldValue{
			FieldName: string(fv.Number.Field.Common.Name),
			Kind:      types.FieldKindNumber,
		}
		if fv.Number.Number != nil {
			n := float64(*fv.Number.Number)
			v.Number = &n
		}
		return v, true
	case "ProjectV2ItemFieldSingleSelectValue":
		return model.FieldValue{
			FieldName: string(fv.SingleSelect.Field.Common.Name),
			Kind:      types.FieldKindSingleSelect,
			Name:      stringPtr(fv.SingleSelect.Name),
		}, true
	case "ProjectV2ItemFieldDateValue":
		return model.FieldValue{
			FieldName: string(fv.Date.Field.Common.Name),
			Kind:      types.FieldKindDate,
			Date:      stringPtr(fv.Date.Date),
		}, true
	case "ProjectV2ItemFieldIterationValue":
		return model.FieldValue{
			FieldName: string(fv.Iteration.Field.Common.Name),
			Kind:      types.FieldKindIteration,
			Title:     stringPtr(fv.Iteration.Title),
		}, true
	default:
		return model.FieldValue{}, false
	}
}

func stringPtr(s *githubv4.String) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

func idString(id githubv4.ID) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func formatTime(t githubv4.DateTime) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/types"
)

// Field name aliases, in priority order
var (
	StatusFieldAliases    = []string{"Status"}
	PriorityFieldAliases  = []string{"Priority"}
	SizeFieldAliases      = []string{"Size", "Story Points", "Estimate", "Points"}
	StartDateFieldAliases = []string{"Start Date", "Started"}
	EndDateFieldAliases   = []string{"End Date", "Due Date", "Target Date"}
)

const (
	defaultTitle    = "Untitled"
	defaultPriority = "Medium"
	defaultItemType = "Issue"
)

// NormalizeBoardItem converts a fetched board item into a work item ready
// for upsert, plus the assignee to resolve. ok is false for items without
// content, which are skipped. ProjectID and AssigneeID are left for the
// caller.
func NormalizeBoardItem(item *BoardItem) (*WorkItem, *BoardUser, bool, error) {
	if item == nil || item.Content == nil {
		return nil, nil, false, nil
	}
	if item.ID == "" {
		return nil, nil, false, goerr.New("board item has no id")
	}

	content := item.Content
	fields := item.FieldValues

	status := types.StatusUnknown
	if s, ok := fields.LookupString(StatusFieldAliases...); ok {
		status = types.Status(s)
	} else if content.State != "" {
		status = types.Status(content.State)
	}

	priority := defaultPriority
	if p, ok := fields.LookupString(PriorityFieldAliases...); ok {
		priority = p
	}

	title := content.Title
	if title == "" {
		title = defaultTitle
	}

	itemType := item.Type
	if itemType == "" {
		itemType = defaultItemType
	}

	snapshot, err := json.Marshal(item)
	if err != nil {
		return nil, nil, false, goerr.Wrap(err, "failed to encode board item snapshot",
			goerr.V(ExternalIDKey, item.ID))
	}

	w := &WorkItem{
		ExternalID:   item.ID,
		IssueNumber:  content.Number,
		Title:        title,
		Status:       status,
		SizeEstimate: ParseSizeEstimate(fields.Lookup(SizeFieldAliases...)),
		Priority:     priority,
		ItemType:     itemType,
		StartDate:    ParseDate(fields.Lookup(StartDateFieldAliases...)),
		EndDate:      ParseDate(fields.Lookup(EndDateFieldAliases...)),
		Snapshot:     snapshot,
	}
	if content.Milestone != nil && *content.Milestone != "" {
		m := *content.Milestone
		w.Milestone = &m
	}

	var assignee *BoardUser
	if len(content.Assignees) > 0 && content.Assignees[0].Login != "" {
		a := content.Assignees[0]
		assignee = &a
	}

	return w, assignee, true, nil
}

// ParseSizeEstimate coerces an untyped field value to an integer estimate.
// Numbers are rounded, strings are read as a leading integer ("5", "8 pts").
// Anything else yields nil.
func ParseSizeEstimate(v any) *int {
	var f float64
	switch x := v.(type) {
	case nil:
		return nil
	case int:
		return &x
	case int64:
		n := int(x)
		return &n
	case float32:
		f = float64(x)
	case float64:
		f = x
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		return parseLeadingInt(x)
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(math.Round(f))
	return &n
}

func parseLeadingInt(s string) *int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return nil
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return nil
	}
	return &n
}

// ParseDate coerces an untyped field value to a calendar date at UTC
// midnight. Accepts YYYY-MM-DD and RFC 3339 timestamps; anything else
// yields nil.
func ParseDate(v any) *time.Time {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return nil
		}
		t = *x
	case string:
		s := strings.TrimSpace(x)
		parsed, err := time.Parse(DateLayout, s)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, s)
			if err != nil {
				return nil
			}
		}
		t = parsed
	default:
		return nil
	}

	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

package postgres

import "github.com/secmon-lab/boardsight/pkg/domain/model"

func BuildFilter(projectID int64, filter *model.WorkItemFilter) (string, []any) {
	return buildFilter(projectID, filter)
}

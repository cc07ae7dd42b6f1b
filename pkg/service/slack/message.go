package slack

import (
	"fmt"
	"time"

	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/domain/types"
	"github.com/slack-go/slack"
)

// maxErrorLength keeps the error section under the Block Kit text limit
const maxErrorLength = 2900

// SyncResultMessage renders the outcome of a sync run as Block Kit blocks
// and a plain fallback text
func SyncResultMessage(project *model.Project, log *model.SyncLog) ([]slack.Block, string) {
	icon := ":white_check_mark:"
	if log.Status == types.SyncStatusError {
		icon = ":x:"
	}

	text := fmt.Sprintf("%s Sync of %s (%s #%d) finished: %s",
		icon, project.Name, project.FullName(), project.BoardNumber, log.Status)

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Status*\n%s", log.Status), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Items synced*\n%d", log.ItemsSynced), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Items failed*\n%d", log.ItemsFailed), false, false),
	}
	if log.CompletedAt != nil {
		d := log.CompletedAt.Sub(log.StartedAt).Round(time.Millisecond)
		fields = append(fields,
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Duration*\n%s", d), false, false))
	}

	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil),
		slack.NewSectionBlock(nil, fields, nil),
	}

	if log.ErrorMessage != "" {
		msg := log.ErrorMessage
		if len(msg) > maxErrorLength {
			msg = msg[:maxErrorLength] + "..."
		}
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, "*Error*\n```"+msg+"```", false, false), nil, nil))
	}

	return blocks, text
}

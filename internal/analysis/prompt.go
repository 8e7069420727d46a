package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/Timofejjj/healthai/internal/record"
)

// BuildPrompt assembles the cognitive-analysis prompt from the newly
// selected events, grouped by kind. Kinds with no new rows are omitted.
// watermark, when non-nil, tells the model where the previous report
// left off.
func BuildPrompt(selections map[string]Selection, watermark *time.Time, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("# ROLE\n\n")
	sb.WriteString("You are a personal cognitive analyst and strategic coach. ")
	sb.WriteString("Analyze the journal entries below: surface hidden links and recurring patterns, ")
	sb.WriteString("classify statements into problems, ideas, beliefs and facts, assess the overall ")
	sb.WriteString("direction of thinking, and close with concrete advice, things to watch, and a ")
	sb.WriteString("short-term forecast if nothing changes.\n\n")

	sb.WriteString("# PERIOD\n\n")
	if watermark != nil {
		sb.WriteString(fmt.Sprintf("Entries recorded after %s, up to %s.\n\n",
			watermark.Format("2006-01-02 15:04 MST"), now.UTC().Format("2006-01-02 15:04 MST")))
	} else {
		sb.WriteString(fmt.Sprintf("All entries on record, up to %s.\n\n",
			now.UTC().Format("2006-01-02 15:04 MST")))
	}

	if sel, ok := selections[record.KindThought]; ok && len(sel.Rows) > 0 {
		sb.WriteString("# THOUGHTS\n\n")
		for _, row := range sel.Rows {
			sb.WriteString(fmt.Sprintf("- [%s] %s\n", row.Get("timestamp"), row.Get("text")))
		}
		sb.WriteString("\n")
	}

	if sel, ok := selections[record.KindTimerSession]; ok && len(sel.Rows) > 0 {
		sb.WriteString("# WORK/REST SESSIONS\n\n")
		for _, row := range sel.Rows {
			sb.WriteString(fmt.Sprintf("- [%s] %s session on %q, %s seconds\n",
				row.Get("start_time"), orUnknown(row.Get("session_type")),
				orUnknown(row.Get("task_name")), orUnknown(row.Get("duration_seconds"))))
		}
		sb.WriteString("\n")
	}

	if sel, ok := selections[record.KindSportSession]; ok && len(sel.Rows) > 0 {
		sb.WriteString("# SPORT ACTIVITY\n\n")
		for _, row := range sel.Rows {
			line := fmt.Sprintf("- [%s] %s", row.Get("start_time"), orUnknown(row.Get("activity")))
			if loc := row.Get("location"); loc != "" {
				line += " at " + loc
			}
			if state := row.Get("state"); state != "" {
				line += ", felt: " + state
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("# OUTPUT FORMAT\n\n")
	sb.WriteString("Respond in Markdown with these sections: summary and main theme; ")
	sb.WriteString("structured breakdown (problems, ideas, beliefs, facts); hidden links and ")
	sb.WriteString("patterns; direction of thinking with justification; recommendations, ")
	sb.WriteString("state monitoring and a 1-2 week forecast. Be direct but gentle when noting ")
	sb.WriteString("signs of deteriorating state, and remind the reader you are not a substitute ")
	sb.WriteString("for a professional.\n")

	return sb.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

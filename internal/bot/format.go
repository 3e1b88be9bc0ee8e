package bot

import (
	"fmt"
	"strings"

	"feedbot/internal/storage"
)

// FormatReport renders stored feedback for the /retrieve command: one
// numbered block per record with its answers and a human-readable
// timestamp. Callers chunk the result before sending.
func FormatReport(records []storage.Feedback) string {
	var b strings.Builder
	b.WriteString("📊 Feedback Summary:\n\n")
	for i, rec := range records {
		fmt.Fprintf(&b, "Feedback #%d:\n", i+1)
		for j, answer := range rec.Answers {
			fmt.Fprintf(&b, "  Q%d: %s\n", j+1, answer)
		}
		fmt.Fprintf(&b, "  Date: %s\n\n", rec.SubmittedAt.Format("2006-01-02 15:04"))
	}
	return b.String()
}

// FormatNotification renders the administrator copy of one submission:
// each question numbered, with the raw answer beneath it. Deliberately
// not anonym-formatted — this copy is for a human reader.
func FormatNotification(pairs []QA) string {
	var b strings.Builder
	b.WriteString("📋 New anonymous feedback received:\n\n")
	for i, p := range pairs {
		fmt.Fprintf(&b, "%d. %s\nAnswer: %s\n\n", i+1, p.Question, p.Answer)
	}
	return b.String()
}

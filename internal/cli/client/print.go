package client

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cloo-solutions/feedback/internal/domain"
)

const dateLayout = "January 2, 2006"

func printJSON(w io.Writer, v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func printFeedback(w io.Writer, f domain.Feedback) {
	fmt.Fprintf(w, "%s  %d/5\n", f.ProviderName, f.Rating)
	fmt.Fprintf(w, "   Submitted on %s\n", f.SubmittedAt.Format(dateLayout))
	fmt.Fprintf(w, "   Member ID: %s\n", f.MemberID)
	if comment := f.CommentText(); comment != "" {
		fmt.Fprintf(w, "   %s\n", comment)
	} else {
		fmt.Fprintln(w, "   No comment provided.")
	}
	fmt.Fprintf(w, "   ID: %s\n", f.ID)
}

func printFeedbackList(w io.Writer, items []domain.Feedback) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No feedback found.")
		return
	}

	fmt.Fprintf(w, "Found %d feedback item(s):\n\n", len(items))
	for i, item := range items {
		printFeedback(w, item)
		if i < len(items)-1 {
			fmt.Fprintln(w, strings.Repeat("-", 40))
		}
	}
}

func printFieldErrors(w io.Writer, errs []domain.FieldError) {
	for _, fe := range errs {
		fmt.Fprintf(w, "  %s: %s\n", fe.Field, fe.Message)
	}
}

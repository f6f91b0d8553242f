package client

import (
	"errors"
	"fmt"

	"github.com/cloo-solutions/feedback/internal/domain"
	"github.com/cloo-solutions/feedback/internal/view"
	"github.com/spf13/cobra"
)

type submitOutput struct {
	Feedback       *domain.Feedback  `json:"feedback"`
	MemberFeedback []domain.Feedback `json:"memberFeedback"`
	LookupError    string            `json:"lookupError,omitempty"`
}

// SubmitCmd submits feedback and then shows the member's feedback list.
func SubmitCmd() *cobra.Command {
	var req domain.FeedbackRequest

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit feedback for a provider",
		Long: `Submits a rating (1-5) and optional comment for a provider on behalf of a member.

Fields are validated locally first; nothing is sent while any field is invalid.
On success the member's feedback is listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, req)
		},
	}

	cmd.Flags().StringVarP(&req.MemberID, "member", "m", "", "Member ID (required, max 36 characters)")
	cmd.Flags().StringVarP(&req.ProviderName, "provider", "p", "", "Provider name (required, max 80 characters)")
	cmd.Flags().Float64VarP(&req.Rating, "rating", "r", 0, "Rating from 1 to 5 (required)")
	cmd.Flags().StringVarP(&req.Comment, "comment", "c", "", "Comment (optional, max 200 characters)")

	return cmd
}

func runSubmit(cmd *cobra.Command, req domain.FeedbackRequest) error {
	svc, err := NewFeedbackServiceWithCmd(cmd)
	if err != nil {
		return err
	}

	outcome := view.Submit(cmd.Context(), svc, req)
	switch {
	case len(outcome.FieldErrors) > 0:
		fmt.Fprintln(cmd.ErrOrStderr(), "Please fix the following:")
		printFieldErrors(cmd.ErrOrStderr(), outcome.FieldErrors)
		return fmt.Errorf("feedback not submitted: %d invalid field(s)", len(outcome.FieldErrors))
	case outcome.Banner != "":
		return errors.New(outcome.Banner)
	}

	lookup := view.Lookup(cmd.Context(), svc, view.SearchByMemberID, outcome.Created.MemberID)

	out := cmd.OutOrStdout()
	if boolFlag(cmd.Flags(), "output") {
		return printJSON(out, submitOutput{
			Feedback:       outcome.Created,
			MemberFeedback: lookup.Items,
			LookupError:    lookup.Error,
		})
	}

	fmt.Fprintln(out, "Feedback submitted.")
	printFeedback(out, *outcome.Created)
	fmt.Fprintf(out, "\nFeedback for member %s:\n", outcome.Created.MemberID)
	if lookup.Error != "" {
		fmt.Fprintln(out, lookup.Error)
		return nil
	}
	printFeedbackList(out, lookup.Items)
	return nil
}

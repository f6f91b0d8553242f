package client

import (
	"errors"

	"github.com/cloo-solutions/feedback/internal/view"
	"github.com/spf13/cobra"
)

// LookupCmd searches by member ID or feedback ID.
func LookupCmd() *cobra.Command {
	var memberID, feedbackID string

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Look up feedback by member ID or feedback ID",
		Long:  "Looks up submitted feedback. Pass --member to list a member's feedback, or --id for a single item.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("id") {
				return runLookup(cmd, view.SearchByFeedbackID, feedbackID)
			}
			return runLookup(cmd, view.SearchByMemberID, memberID)
		},
	}

	cmd.Flags().StringVarP(&memberID, "member", "m", "", "Member ID to list feedback for")
	cmd.Flags().StringVar(&feedbackID, "id", "", "Feedback ID to fetch")
	cmd.MarkFlagsMutuallyExclusive("member", "id")

	return cmd
}

// GetCmd fetches a single feedback item.
func GetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <feedback_id>",
		Short:   "Get a feedback item by ID",
		Aliases: []string{"view"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, view.SearchByFeedbackID, args[0])
		},
	}
}

// ListCmd lists a member's feedback, newest first.
func ListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <member_id>",
		Short: "List feedback submitted by a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, view.SearchByMemberID, args[0])
		},
	}
}

func runLookup(cmd *cobra.Command, mode view.SearchMode, query string) error {
	svc, err := NewFeedbackServiceWithCmd(cmd)
	if err != nil {
		return err
	}

	result := view.Lookup(cmd.Context(), svc, mode, query)
	if result.Error != "" {
		return errors.New(result.Error)
	}

	if boolFlag(cmd.Flags(), "output") {
		return printJSON(cmd.OutOrStdout(), result.Items)
	}

	printFeedbackList(cmd.OutOrStdout(), result.Items)
	return nil
}

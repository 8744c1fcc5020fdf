package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"document-query/internal/helper"
)

const (
	minScore = 1
	maxScore = 5
)

func newFeedbackCmd(a *app) *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "feedback <score> [comment]",
		Short: "Rate an answer from 1 to 5, by default the most recent one",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.Atoi(args[0])
			if err != nil || score < minScore || score > maxScore {
				return fmt.Errorf("score must be an integer from %d to %d, got %q", minScore, maxScore, args[0])
			}
			comment := strings.TrimSpace(strings.Join(args[1:], " "))

			t := a.interactions()
			if t == nil {
				return errors.New("interaction tracking is disabled")
			}
			if ref == "" {
				last, err := t.LastQuery()
				if err != nil {
					return fmt.Errorf("no answer to rate: %w", err)
				}
				ref = last.ID
			}

			id, err := helper.GenerateUUID()
			if err != nil {
				return err
			}
			if err := t.LogFeedback(id, currentUsername(), ref, score, comment); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), doneStyle.Render("Thanks for the feedback!"))
			return nil
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "Reference printed after the answer being rated")
	return cmd
}

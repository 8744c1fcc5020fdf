package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"document-query/internal/helper"
	"document-query/internal/models"
	"document-query/internal/rag"
	"document-query/internal/summary"
)

func newAskCmd(a *app) *cobra.Command {
	var (
		tldr          bool
		plain         bool
		keepArtifacts bool
	)
	cmd := &cobra.Command{
		Use:     "ask <question>",
		Short:   "Stream section-by-section answers to a question",
		Example: "  docquery ask What are the key considerations for token design?",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return fmt.Errorf("question must not be empty")
			}

			model, err := a.newModel(ctx, &a.cfg.LLM)
			if err != nil {
				log.Error().Err(err).Msg("Error initializing LLM")
				return err
			}

			engine, err := rag.Initialize(a.cfg, model)
			if err != nil {
				log.Error().Err(err).Msg("Error initializing engine")
				return err
			}
			if !keepArtifacts {
				defer engine.Close()
			}

			r := newRenderer(cmd.OutOrStdout(), engine.PartitionCount(), plain)
			r.analyzing()

			var (
				answers []string
				shown   []string
			)
			done := 0
			for answer := range engine.Stream(ctx, question) {
				shown = append(shown, answer.Text)
				if answer.Index < 0 {
					r.message(answer.Text)
					break
				}
				done++
				r.progress(done)
				r.section(answer.Index+1, answer.Label, answer.Text)
				if answer.Status == models.StatusSuccess {
					answers = append(answers, answer.Text)
				}
			}
			a.recordQuery(cmd, question, strings.Join(shown, "\n\n"))

			if len(answers) == 0 {
				return nil
			}
			r.complete()

			if !tldr {
				return nil
			}
			summaryModel, err := a.newModel(ctx, &a.cfg.Summary)
			if err != nil {
				log.Error().Err(err).Msg("Error initializing summary LLM")
				return nil
			}
			text, err := summary.NewSummarizer(summaryModel, &a.cfg.Summary).Summarize(ctx, strings.Join(answers, "\n\n"))
			if err != nil {
				log.Error().Err(err).Msg("Error generating TL;DR")
				r.message("Sorry, I couldn't generate a summary at this time.")
				return nil
			}
			r.summary(text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&tldr, "tldr", false, "Print a TL;DR summary of all sections")
	cmd.Flags().BoolVar(&plain, "plain", false, "Strip markdown emphasis from output")
	cmd.Flags().BoolVar(&keepArtifacts, "keep-artifacts", false, "Keep partition files in the cache directory on exit")
	return cmd
}

// recordQuery appends the question and the text shown for it to the
// interaction log and prints the reference feedback can be given against.
func (a *app) recordQuery(cmd *cobra.Command, question, response string) {
	t := a.interactions()
	if t == nil {
		return
	}
	id, err := helper.GenerateUUID()
	if err != nil {
		log.Warn().Err(err).Msg("Error generating interaction id")
		return
	}
	if err := t.LogQuery(id, currentUsername(), question, response); err != nil {
		log.Warn().Err(err).Msg("Error recording interaction")
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), progressStyle.Render("Rate this answer: docquery feedback --ref "+id+" <score> [comment]"))
}

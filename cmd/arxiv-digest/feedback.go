// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-digest/internal/adapt"
	"github.com/pdiddy/arxiv-digest/internal/profile"
	"github.com/pdiddy/arxiv-digest/internal/record"
	"github.com/pdiddy/arxiv-digest/internal/store"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Apply feedback on a digest to the preference profile",
	Long: `Feedback folds reactions to a digest into the preference profile. Liked and
disliked papers are named by the reference numbers printed in the digest
(or by arXiv ID); topics to avoid and authors to follow are given as text.

Terms from liked papers become positive signals and are promoted to core
interests once they recur across sessions. Disliked papers and topics become
negative signals. A change that would put a term in both lists is rejected
and reported. The previous profile stays in place until the new one has
been validated and written.`,
	Example: `  arxiv-digest feedback --like 1,3 --dislike 7
  arxiv-digest feedback --digest 4f1c... --dislike-topic "dark matter halos"
  arxiv-digest feedback --file feedback.yaml`,
	RunE: runFeedback,
}

func runFeedback(cmd *cobra.Command, args []string) error {
	fb, err := feedbackFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, err := store.Open(paths.Root)
	if err != nil {
		return err
	}
	defer st.Close()

	var d types.Digest
	if fb.DigestID != "" {
		d, err = st.LoadDigest(ctx, fb.DigestID)
	} else {
		d, err = st.LatestDigest(ctx)
	}
	if err != nil {
		return fmt.Errorf("loading digest: %w", err)
	}
	fb.DigestID = d.ID

	pp, err := profile.LoadPreferences(paths.Preferences)
	if err != nil {
		return fmt.Errorf("loading preferences: %w", err)
	}

	res, err := adapt.Apply(pp, fb, d, adapt.OptionsFrom(appCfg.Digest, logger))
	if err != nil {
		return err
	}

	printFeedbackResult(os.Stdout, res)

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		fmt.Println("dry run: preferences not written")
		return nil
	}
	if res.Entry == nil {
		fmt.Println("no changes")
		return nil
	}
	if err := profile.SavePreferences(paths.Preferences, res.Profile); err != nil {
		return err
	}
	if err := st.RecordFeedback(ctx, fb, res.Entry); err != nil {
		return err
	}
	metrics.RecordFeedback(res.Entry)
	return nil
}

// feedbackFromFlags builds a Feedback from --file, then overlays flags.
func feedbackFromFlags(cmd *cobra.Command) (types.Feedback, error) {
	var fb types.Feedback
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		if err := record.ReadFile(file, &fb); err != nil {
			return types.Feedback{}, err
		}
	}

	if v, _ := cmd.Flags().GetString("digest"); v != "" {
		fb.DigestID = v
	}
	if v, _ := cmd.Flags().GetIntSlice("like"); len(v) > 0 {
		fb.LikedIndices = append(fb.LikedIndices, v...)
	}
	if v, _ := cmd.Flags().GetIntSlice("dislike"); len(v) > 0 {
		fb.DislikedIndices = append(fb.DislikedIndices, v...)
	}
	if v, _ := cmd.Flags().GetStringSlice("like-id"); len(v) > 0 {
		fb.LikedIDs = append(fb.LikedIDs, v...)
	}
	if v, _ := cmd.Flags().GetStringSlice("dislike-id"); len(v) > 0 {
		fb.DislikedIDs = append(fb.DislikedIDs, v...)
	}
	if v, _ := cmd.Flags().GetStringArray("dislike-topic"); len(v) > 0 {
		fb.DislikedTopics = append(fb.DislikedTopics, v...)
	}
	if v, _ := cmd.Flags().GetStringArray("author"); len(v) > 0 {
		fb.MentionedAuthors = append(fb.MentionedAuthors, v...)
	}
	if v, _ := cmd.Flags().GetStringArray("promote"); len(v) > 0 {
		fb.Promote = append(fb.Promote, v...)
	}
	if v, _ := cmd.Flags().GetString("note"); v != "" {
		fb.Note = v
	}
	if fb.Date == "" {
		fb.Date = time.Now().Format("2006-01-02")
	}
	return fb, nil
}

func printFeedbackResult(w io.Writer, res adapt.Result) {
	if res.Entry == nil {
		return
	}
	e := res.Entry
	if len(e.LikedPapers) > 0 {
		fmt.Fprintf(w, "liked:     %s\n", strings.Join(e.LikedPapers, ", "))
	}
	if len(e.DislikedPapers) > 0 {
		fmt.Fprintf(w, "disliked:  %s\n", strings.Join(e.DislikedPapers, ", "))
	}
	if len(e.SignalsAdded) > 0 {
		fmt.Fprintf(w, "added:     %s\n", strings.Join(e.SignalsAdded, ", "))
	}
	if len(res.Promoted) > 0 {
		fmt.Fprintf(w, "promoted:  %s\n", strings.Join(res.Promoted, ", "))
	}
	for _, err := range res.Rejected {
		fmt.Fprintf(w, "rejected:  %v\n", err)
	}
	if len(res.Stale) > 0 {
		fmt.Fprintf(w, "stale:     %s (not referenced recently; consider removing)\n", strings.Join(res.Stale, ", "))
	}
}

func init() {
	feedbackCmd.Flags().String("digest", "", "digest ID (default: latest)")
	feedbackCmd.Flags().IntSlice("like", nil, "reference numbers of liked papers")
	feedbackCmd.Flags().IntSlice("dislike", nil, "reference numbers of disliked papers")
	feedbackCmd.Flags().StringSlice("like-id", nil, "arXiv IDs of liked papers")
	feedbackCmd.Flags().StringSlice("dislike-id", nil, "arXiv IDs of disliked papers")
	feedbackCmd.Flags().StringArray("dislike-topic", nil, "topic to avoid (repeatable)")
	feedbackCmd.Flags().StringArray("author", nil, "author to follow (repeatable)")
	feedbackCmd.Flags().StringArray("promote", nil, "term to promote to a core interest (repeatable)")
	feedbackCmd.Flags().String("note", "", "free-text note stored with the session")
	feedbackCmd.Flags().String("file", "", "read feedback from a JSON or YAML file")
	feedbackCmd.Flags().Bool("dry-run", false, "show the changes without writing them")

	rootCmd.AddCommand(feedbackCmd)
}

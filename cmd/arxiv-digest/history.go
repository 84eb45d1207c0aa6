// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-digest/internal/filter"
	"github.com/pdiddy/arxiv-digest/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded digests",
	Long: `History lists recorded digests, newest first. With --paper it shows how a
paper was placed across past digests; with --ref it resolves a reference
number of a digest (default: the latest) to its arXiv ID.`,
	Example: `  arxiv-digest history --limit 20
  arxiv-digest history --paper 2601.01234
  arxiv-digest history --ref 3`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := store.Open(paths.Root)
	if err != nil {
		return err
	}
	defer st.Close()

	if paper, _ := cmd.Flags().GetString("paper"); paper != "" {
		id := filter.CanonicalID(paper)
		tiers, err := st.PaperHistory(ctx, id)
		if err != nil {
			return err
		}
		if len(tiers) == 0 {
			fmt.Printf("%s has not appeared in a recorded digest\n", id)
			return nil
		}
		names := make([]string, len(tiers))
		for i, t := range tiers {
			names[i] = string(t)
		}
		fmt.Printf("%s: %s\n", id, strings.Join(names, ", "))
		return nil
	}

	if ref, _ := cmd.Flags().GetInt("ref"); ref > 0 {
		digestID, _ := cmd.Flags().GetString("digest")
		if digestID == "" {
			d, err := st.LatestDigest(ctx)
			if err != nil {
				return err
			}
			digestID = d.ID
		}
		id, err := st.Resolve(ctx, digestID, ref)
		if err != nil {
			return err
		}
		fmt.Printf("[%d] %s (https://arxiv.org/abs/%s)\n", ref, id, id)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	list, err := st.ListDigests(ctx, limit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("no digests recorded")
		return nil
	}
	w := os.Stdout
	for _, ds := range list {
		partial := ""
		if ds.Partial {
			partial = " (partial)"
		}
		fmt.Fprintf(w, "%-24s %-20s %3d presented  %d feedback  %s%s\n",
			ds.Period, ds.GeneratedAt, ds.Presented, ds.Feedback, ds.ID, partial)
	}
	return nil
}

func init() {
	historyCmd.Flags().Int("limit", 10, "number of digests to list")
	historyCmd.Flags().String("paper", "", "show the placements of one paper")
	historyCmd.Flags().Int("ref", 0, "resolve a reference number to its arXiv ID")
	historyCmd.Flags().String("digest", "", "digest for --ref (default: latest)")

	rootCmd.AddCommand(historyCmd)
}

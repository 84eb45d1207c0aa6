// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-digest/internal/profile"
	"github.com/pdiddy/arxiv-digest/internal/record"
	"github.com/pdiddy/arxiv-digest/internal/store"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the researcher and preference profiles",
	Long: `Profile creates, installs, inspects and patches the two profiles the
ranking reads: the researcher profile (own papers, collaboration network,
topic fingerprint) and the preference profile (interests and learned
signals).`,
}

// --- init subcommand ---

var profileInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default preference profile",
	RunE:  runProfileInit,
}

func runProfileInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(paths.Preferences); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", paths.Preferences)
	}
	if err := paths.Ensure(); err != nil {
		return err
	}

	categories, _ := cmd.Flags().GetStringSlice("categories")
	interests, _ := cmd.Flags().GetStringSlice("interests")
	pp := profile.DefaultPreferences(categories, interests, time.Now().Format("2006-01-02"))
	if err := profile.SavePreferences(paths.Preferences, pp); err != nil {
		return err
	}
	fmt.Printf("preferences written to %s\n", paths.Preferences)

	if _, err := os.Stat(paths.Researcher); errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("no researcher profile yet: install one with \"arxiv-digest profile import <file>\"\n")
	}
	return nil
}

// --- import subcommand ---

var profileImportCmd = &cobra.Command{
	Use:   "import <researcher-profile>",
	Short: "Validate and install a researcher profile",
	Long: `Import reads a researcher profile (JSON or YAML, version 1), checks its
network invariants and installs it in the storage root.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileImport,
}

func runProfileImport(cmd *cobra.Command, args []string) error {
	rp, err := profile.LoadResearcher(args[0])
	if err != nil {
		return err
	}
	if err := paths.Ensure(); err != nil {
		return err
	}
	if err := profile.SaveResearcher(paths.Researcher, rp); err != nil {
		return err
	}
	fmt.Printf("researcher profile for %s installed at %s\n", rp.Researcher.Name, paths.Researcher)
	return nil
}

// --- status subcommand ---

var profileStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the profiles and digest history",
	RunE:  runProfileStatus,
}

func runProfileStatus(cmd *cobra.Command, args []string) error {
	w := os.Stdout
	fmt.Fprintf(w, "storage:      %s\n", paths.Root)

	if rp, err := profile.LoadResearcher(paths.Researcher); err == nil {
		fmt.Fprintf(w, "researcher:   %s (%d papers, %d co-authors, %d active, %d second-degree)\n",
			rp.Researcher.Name, rp.Publications.TotalCount, len(rp.Network.Coauthors),
			len(rp.Network.ActiveCoauthors), len(rp.Network.SecondDegree))
	} else {
		fmt.Fprintf(w, "researcher:   %s\n", statusError(err))
	}

	if pp, err := profile.LoadPreferences(paths.Preferences); err == nil {
		printPreferences(w, pp)
	} else {
		fmt.Fprintf(w, "preferences:  %s\n", statusError(err))
	}

	st, err := store.Open(paths.Root)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	stats, err := st.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "history:      %d digests, %d feedback sessions", stats.Digests, stats.Feedback)
	if stats.LastPeriod != "" {
		fmt.Fprintf(w, ", last period %s", stats.LastPeriod)
	}
	fmt.Fprintln(w)

	recent, err := st.ListDigests(ctx, 5)
	if err != nil {
		return err
	}
	for _, ds := range recent {
		partial := ""
		if ds.Partial {
			partial = " (partial)"
		}
		fmt.Fprintf(w, "  %-24s %3d presented  %d feedback  %s%s\n",
			ds.Period, ds.Presented, ds.Feedback, ds.ID, partial)
	}
	return nil
}

func printPreferences(w io.Writer, pp types.PreferenceProfile) {
	fmt.Fprintf(w, "preferences:  updated %s, %d feedback sessions\n", pp.LastUpdated, len(pp.History))
	fmt.Fprintf(w, "  categories: %s\n", strings.Join(pp.ArxivCategories, ", "))
	fmt.Fprintf(w, "  core:       %s\n", strings.Join(pp.CoreInterests, ", "))
	fmt.Fprintf(w, "  methods:    %s\n", strings.Join(pp.MethodsInterests, ", "))
	fmt.Fprintf(w, "  positive:   %s\n", strings.Join(pp.PositiveSignals, ", "))
	fmt.Fprintf(w, "  negative:   %s\n", strings.Join(pp.NegativeSignals, ", "))
	fmt.Fprintf(w, "  authors:    %s\n", strings.Join(pp.FavoriteAuthors, ", "))
}

func statusError(err error) string {
	if errors.Is(err, fs.ErrNotExist) {
		return "missing"
	}
	return "invalid: " + err.Error()
}

// --- patch subcommand ---

var profilePatchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Apply a lightweight update to the researcher profile",
	Long: `Patch records new papers, new collaborators or an affiliation change
without rebuilding the researcher profile. New collaborators become direct
co-authors (leaving the second-degree tier) and the active co-author list
is recomputed.`,
	Example: `  arxiv-digest profile patch --paper 2601.01234 --collaborator "Jane Roe" --collaborator "R. Miles"
  arxiv-digest profile patch --affiliation "Example Institute"
  arxiv-digest profile patch --file patch.yaml`,
	RunE: runProfilePatch,
}

func runProfilePatch(cmd *cobra.Command, args []string) error {
	var patch types.ResearcherPatch
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		if err := record.ReadFile(file, &patch); err != nil {
			return err
		}
	}

	year, _ := cmd.Flags().GetInt("year")
	if year == 0 {
		year = time.Now().Year()
	}
	papers, _ := cmd.Flags().GetStringSlice("paper")
	patch.NewPaperIDs = append(patch.NewPaperIDs, papers...)
	collaborators, _ := cmd.Flags().GetStringArray("collaborator")
	paperID := ""
	if len(papers) > 0 {
		paperID = papers[0]
	}
	for _, name := range collaborators {
		patch.NewCollaborators = append(patch.NewCollaborators,
			types.NewCollaborator{Name: name, Year: year, PaperID: paperID})
	}
	if v, _ := cmd.Flags().GetString("affiliation"); v != "" {
		patch.Affiliation = v
	}
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to patch: pass --paper, --collaborator, --affiliation or --file")
	}

	rp, err := profile.LoadResearcher(paths.Researcher)
	if err != nil {
		return err
	}
	updated, err := profile.Patch(rp, patch, time.Now().Year())
	if err != nil {
		return err
	}
	if err := profile.SaveResearcher(paths.Researcher, updated); err != nil {
		return err
	}
	fmt.Printf("researcher profile updated: %d papers, %d co-authors, %d active\n",
		updated.Publications.TotalCount, len(updated.Network.Coauthors), len(updated.Network.ActiveCoauthors))
	return nil
}

func init() {
	profileInitCmd.Flags().StringSlice("categories", nil, "arXiv categories (default: astro-ph.CO)")
	profileInitCmd.Flags().StringSlice("interests", nil, "core interests")
	profileInitCmd.Flags().Bool("force", false, "overwrite an existing preference profile")

	profilePatchCmd.Flags().StringSlice("paper", nil, "new paper IDs")
	profilePatchCmd.Flags().StringArray("collaborator", nil, "new collaborator name (repeatable)")
	profilePatchCmd.Flags().Int("year", 0, "year of the new collaboration (default: current year)")
	profilePatchCmd.Flags().String("affiliation", "", "new affiliation")
	profilePatchCmd.Flags().String("file", "", "read the patch from a JSON or YAML file")

	profileCmd.AddCommand(profileInitCmd)
	profileCmd.AddCommand(profileImportCmd)
	profileCmd.AddCommand(profileStatusCmd)
	profileCmd.AddCommand(profilePatchCmd)
	rootCmd.AddCommand(profileCmd)
}

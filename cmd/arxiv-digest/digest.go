// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-digest/internal/digest"
	"github.com/pdiddy/arxiv-digest/internal/profile"
	"github.com/pdiddy/arxiv-digest/internal/record"
	"github.com/pdiddy/arxiv-digest/internal/render"
	"github.com/pdiddy/arxiv-digest/internal/source"
	"github.com/pdiddy/arxiv-digest/internal/store"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Build a ranked digest for a period",
	Long: `Digest ranks the candidates of a period against the researcher and
preference profiles and presents them in three tiers: top picks, solid
matches and boundary expanders. Each presented paper carries a reference
number that "arxiv-digest feedback" accepts.

Candidates are fetched from arXiv unless --candidates names a JSON or YAML
candidate file. The digest is recorded in the local history database so
feedback can refer back to it.`,
	RunE: runDigest,
}

// digestRequest describes one digest run.
type digestRequest struct {
	Period              string
	CandidatesFile      string
	Categories          []string
	IncludeReplacements bool
	Store               bool
}

func runDigest(cmd *cobra.Command, args []string) error {
	req := digestRequest{}
	req.Period, _ = cmd.Flags().GetString("period")
	req.CandidatesFile, _ = cmd.Flags().GetString("candidates")
	req.IncludeReplacements, _ = cmd.Flags().GetBool("include-replacements")
	noStore, _ := cmd.Flags().GetBool("no-store")
	req.Store = !noStore

	if req.CandidatesFile == "" {
		cats, err := resolveCategories(cmd)
		if err != nil {
			return err
		}
		req.Categories = cats
	}

	d, err := buildDigest(cmd.Context(), req)
	if err != nil {
		return err
	}

	formatArg, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	return writeDigest(d, formatArg, out, os.Stdout)
}

// buildDigest loads the profiles, collects candidates, ranks them and
// records the result.
func buildDigest(ctx context.Context, req digestRequest) (types.Digest, error) {
	rp, err := profile.LoadResearcher(paths.Researcher)
	if err != nil {
		return types.Digest{}, fmt.Errorf("loading researcher profile: %w", err)
	}
	pp, err := profile.LoadPreferences(paths.Preferences)
	if err != nil {
		return types.Digest{}, fmt.Errorf("loading preferences: %w", err)
	}

	p, err := source.ParsePeriod(req.Period, time.Now())
	if err != nil {
		return types.Digest{}, err
	}

	var cands []types.PaperCandidate
	partial := false
	categories := req.Categories
	if req.CandidatesFile != "" {
		cands, err = source.LoadFile(req.CandidatesFile)
		if err != nil {
			return types.Digest{}, err
		}
		if len(categories) == 0 {
			categories = pp.ArxivCategories
		}
	} else {
		res, err := fetchCandidates(ctx, p, categories)
		if err != nil {
			return types.Digest{}, err
		}
		cands, partial = res.Candidates, res.Partial
	}

	cfg := appCfg.Digest
	cfg.IncludeReplacements = cfg.IncludeReplacements || req.IncludeReplacements

	d, err := digest.Build(cands, rp, pp, digest.Options{
		Config:      cfg,
		Period:      p.ID,
		WindowDays:  p.Days,
		Categories:  categories,
		Partial:     partial,
		GeneratedAt: time.Now().UTC(),
		Logger:      logger,
	})
	if err != nil {
		metrics.RecordDigestFailure(err)
		if errors.Is(err, types.ErrEmptyCandidateSet) {
			return types.Digest{}, fmt.Errorf("%w (try a wider period, e.g. --period week)", err)
		}
		return types.Digest{}, err
	}
	metrics.RecordDigest(d)

	if req.Store {
		st, err := store.Open(paths.Root)
		if err != nil {
			return types.Digest{}, err
		}
		defer st.Close()
		if err := st.SaveDigest(ctx, d); err != nil {
			return types.Digest{}, err
		}
	}
	return d, nil
}

// writeDigest renders d to out, or to w when out is empty. The format
// flag wins over the file extension.
func writeDigest(d types.Digest, formatArg, out string, w io.Writer) error {
	var f render.Format
	switch {
	case formatArg != "":
		parsed, err := render.ParseFormat(formatArg)
		if err != nil {
			return err
		}
		f = parsed
	case out != "":
		f = render.FormatFor(out)
	default:
		f = render.Markdown
	}

	if out == "" {
		return render.Write(w, d, f)
	}

	var buf bytes.Buffer
	if err := render.Write(&buf, d, f); err != nil {
		return err
	}
	if err := record.WriteAtomic(out, buf.Bytes()); err != nil {
		return err
	}
	fmt.Fprintf(w, "digest %s written to %s\n", d.ID, out)
	return nil
}

func init() {
	digestCmd.Flags().String("period", "today", "period: today, week, Nd, YYYY-MM-DD or YYYY-MM-DD:YYYY-MM-DD")
	digestCmd.Flags().StringSlice("categories", nil, "arXiv categories (default: from preferences)")
	digestCmd.Flags().String("candidates", "", "rank a candidate file instead of fetching")
	digestCmd.Flags().String("format", "", "output format: markdown, html, json, yaml (default: from --out extension)")
	digestCmd.Flags().String("out", "", "write the digest to a file instead of stdout")
	digestCmd.Flags().Bool("include-replacements", false, "keep revised papers in the candidate set")
	digestCmd.Flags().Bool("no-store", false, "do not record the digest in the history database")

	rootCmd.AddCommand(digestCmd)
}

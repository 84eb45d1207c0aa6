// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render presents a digest as Markdown, HTML, JSON or YAML. Every
// presented paper carries its reference index so feedback can point back
// at it.
package render

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/pdiddy/arxiv-digest/internal/record"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// Format is an output format.
type Format string

const (
	Markdown Format = "markdown"
	HTML     Format = "html"
	JSON     Format = "json"
	YAML     Format = "yaml"
)

// maxAuthors is the number of authors listed before "et al.".
const maxAuthors = 6

var md = goldmark.New()

var tierTitles = map[types.Tier]string{
	types.TierTopPick:          "Top picks",
	types.TierSolidMatch:       "Solid matches",
	types.TierBoundaryExpander: "Boundary expanders",
}

// ParseFormat accepts a format name or common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown", "":
		return Markdown, nil
	case "html", "htm":
		return HTML, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown format %q: want markdown, html, json or yaml", s)
}

// FormatFor picks the format from a file extension, defaulting to Markdown.
func FormatFor(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return Markdown
	}
	return f
}

// Write renders d to w in format f.
func Write(w io.Writer, d types.Digest, f Format) error {
	var data []byte
	var err error
	switch f {
	case Markdown:
		data = []byte(MarkdownText(d))
	case HTML:
		data, err = HTMLPage(d)
	case JSON:
		data, err = record.Encode(d, record.JSON)
	case YAML:
		data, err = record.Encode(d, record.YAML)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// MarkdownText renders the presented tiers in order with reference
// indices, scores and reasons, followed by a provenance line.
func MarkdownText(d types.Digest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# arXiv digest %s\n\n", d.Period)

	p := d.Provenance
	presented := 0
	for _, block := range d.Tiers {
		presented += len(block.Items)
	}
	fmt.Fprintf(&b, "%d papers presented from %d candidates", presented, p.CandidatesIn)
	if len(p.Categories) > 0 {
		fmt.Fprintf(&b, " in %s", strings.Join(p.Categories, ", "))
	}
	b.WriteString(".\n")
	if p.Partial {
		b.WriteString("\n> Partial result: some categories could not be fetched.\n")
	}

	for _, block := range d.Tiers {
		if len(block.Items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n", tierTitles[block.Tier])
		for _, item := range block.Items {
			b.WriteString("\n")
			writeItem(&b, item)
		}
	}

	if presented == 0 {
		b.WriteString("\nNothing matched this period.\n")
	}

	fmt.Fprintf(&b, "\n---\n\nDigest `%s`. Dropped %d duplicates, %d cross-lists and %d replacements; %d papers excluded",
		d.ID, p.Duplicates, p.CrossListDropped, p.ReplacementDropped, p.Excluded)
	if p.InvalidDropped > 0 {
		fmt.Fprintf(&b, "; %d candidates without an identifier skipped", p.InvalidDropped)
	}
	if p.AmbiguousMatches > 0 {
		fmt.Fprintf(&b, "; %d ambiguous author matches ignored", p.AmbiguousMatches)
	}
	b.WriteString(".\n")
	return b.String()
}

func writeItem(b *strings.Builder, item types.DigestItem) {
	fmt.Fprintf(b, "**[%d] %s** ([%s](https://arxiv.org/abs/%s))  \n",
		item.RankIndex, escape(item.Title), item.PaperID, item.PaperID)
	if len(item.Authors) > 0 {
		fmt.Fprintf(b, "%s  \n", escape(authorLine(item.Authors)))
	}
	fmt.Fprintf(b, "Score %g", item.Score)
	if item.Note != "" {
		fmt.Fprintf(b, " (%s)", item.Note)
	}
	b.WriteString("\n")
	for _, r := range item.Reasons {
		fmt.Fprintf(b, "- %s\n", escape(r))
	}
}

func authorLine(authors []string) string {
	if len(authors) <= maxAuthors {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:maxAuthors], ", ") + " et al."
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;",
)

func escape(s string) string {
	return mdEscaper.Replace(s)
}

// HTMLPage converts the Markdown rendering into a standalone HTML page.
func HTMLPage(d types.Digest) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(MarkdownText(d)), &body); err != nil {
		return nil, fmt.Errorf("converting digest to HTML: %w", err)
	}
	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>arXiv digest %s</title>\n</head>\n<body>\n",
		strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(d.Period))
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

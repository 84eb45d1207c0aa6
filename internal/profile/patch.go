// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"sort"
	"strings"

	"github.com/pdiddy/arxiv-digest/internal/filter"
	"github.com/pdiddy/arxiv-digest/internal/names"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// ActiveYears is the recency window, in years, within which a co-author
// counts as active.
const ActiveYears = 3

// maxCoauthorPapers caps the sample paper IDs kept per co-author.
const maxCoauthorPapers = 10

// Patch applies a lightweight update to a researcher profile and returns
// the new profile; rp is not modified. New paper IDs are added to the
// publication list, new collaborators become co-authors (leaving the
// second-degree tier if they were there), and the active list is
// recomputed for currentYear. A collaborator name that could denote more
// than one existing co-author fails the patch with an AmbiguousMatchError.
func Patch(rp types.ResearcherProfile, p types.ResearcherPatch, currentYear int) (types.ResearcherProfile, error) {
	if err := validate.Struct(p); err != nil {
		return types.ResearcherProfile{}, err
	}
	out := cloneResearcher(rp)

	for _, id := range p.NewPaperIDs {
		id = filter.CanonicalID(id)
		if id == "" || contains(out.Publications.PaperIDs, id) {
			continue
		}
		out.Publications.PaperIDs = append(out.Publications.PaperIDs, id)
		out.Publications.TotalCount++
	}

	for _, nc := range p.NewCollaborators {
		name, err := existingName(out.Network.Coauthors, nc.Name)
		if err != nil {
			return types.ResearcherProfile{}, err
		}
		if name == "" {
			name = strings.Join(strings.Fields(nc.Name), " ")
		}
		co := out.Network.Coauthors[name]
		co.Count++
		if nc.Year > co.LastYear {
			co.LastYear = nc.Year
		}
		if pid := filter.CanonicalID(nc.PaperID); pid != "" && !contains(co.Papers, pid) && len(co.Papers) < maxCoauthorPapers {
			co.Papers = append(co.Papers, pid)
		}
		out.Network.Coauthors[name] = co

		for sd := range out.Network.SecondDegree {
			if names.Compare(sd, name) == names.Match {
				delete(out.Network.SecondDegree, sd)
			}
		}
		out.Network.SecondDegreeRank = removeMatching(out.Network.SecondDegreeRank, name)
	}

	if p.Affiliation != "" {
		out.Researcher.Affiliation = strings.TrimSpace(p.Affiliation)
	}

	out.Network.CoauthorRank = rankCoauthors(out.Network.Coauthors)
	out.Network.ActiveCoauthors = activeCoauthors(out.Network.Coauthors, out.Network.CoauthorRank, currentYear)

	if err := ValidateResearcher(out); err != nil {
		return types.ResearcherProfile{}, err
	}
	return out, nil
}

// existingName returns the co-author key equivalent to name, or "" for a
// new person. A name that could denote more than one co-author is an
// AmbiguousMatchError.
func existingName(coauthors map[string]types.Coauthor, name string) (string, error) {
	keys := make([]string, 0, len(coauthors))
	for k := range coauthors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	match, res, competing := names.NewIndex(keys).Lookup(name)
	switch res {
	case names.Match:
		return match, nil
	case names.Ambiguous:
		return "", &types.AmbiguousMatchError{Author: name, Candidates: competing}
	}
	return "", nil
}

// rankCoauthors orders co-authors by collaboration count, then name.
func rankCoauthors(coauthors map[string]types.Coauthor) []string {
	rank := make([]string, 0, len(coauthors))
	for name := range coauthors {
		rank = append(rank, name)
	}
	sort.Slice(rank, func(i, j int) bool {
		ci, cj := coauthors[rank[i]].Count, coauthors[rank[j]].Count
		if ci != cj {
			return ci > cj
		}
		return rank[i] < rank[j]
	})
	return rank
}

// activeCoauthors keeps, in rank order, the co-authors seen within the
// last ActiveYears years.
func activeCoauthors(coauthors map[string]types.Coauthor, rank []string, currentYear int) []string {
	active := []string{}
	for _, name := range rank {
		if coauthors[name].LastYear >= currentYear-ActiveYears {
			active = append(active, name)
		}
	}
	return active
}

func cloneResearcher(rp types.ResearcherProfile) types.ResearcherProfile {
	out := rp
	out.Publications.PaperIDs = append([]string{}, rp.Publications.PaperIDs...)
	out.Network.Coauthors = make(map[string]types.Coauthor, len(rp.Network.Coauthors))
	for k, v := range rp.Network.Coauthors {
		v.Papers = append([]string(nil), v.Papers...)
		out.Network.Coauthors[k] = v
	}
	out.Network.SecondDegree = make(map[string]float64, len(rp.Network.SecondDegree))
	for k, v := range rp.Network.SecondDegree {
		out.Network.SecondDegree[k] = v
	}
	out.Network.SecondDegreeRank = append([]string(nil), rp.Network.SecondDegreeRank...)
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeMatching(list []string, name string) []string {
	var out []string
	for _, v := range list {
		if names.Compare(v, name) != names.Match {
			out = append(out, v)
		}
	}
	return out
}

// DefaultPreferences returns a fresh preference profile for the given
// categories and core interests.
func DefaultPreferences(categories, interests []string, date string) types.PreferenceProfile {
	return types.NewPreferenceProfile(categories, interests, date)
}

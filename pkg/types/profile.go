// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ResearcherProfileVersion is the researcher profile major version this
// build understands.
const ResearcherProfileVersion = 1

// ResearcherProfile is the durable, slowly changing description of the user:
// identity, own publications, collaboration network and topic fingerprint.
// The ranking engine only reads it.
type ResearcherProfile struct {
	Version             int                 `json:"version" yaml:"version" validate:"required"`
	Researcher          Researcher          `json:"researcher" yaml:"researcher"`
	Publications        Publications        `json:"publications" yaml:"publications"`
	Network             Network             `json:"network" yaml:"network"`
	ResearchFingerprint ResearchFingerprint `json:"research_fingerprint" yaml:"research_fingerprint"`
	BuiltAt             string              `json:"built_at,omitempty" yaml:"built_at,omitempty"`
}

// Researcher holds identity fields.
type Researcher struct {
	Name        string `json:"name" yaml:"name" validate:"required"`
	ORCID       string `json:"orcid,omitempty" yaml:"orcid,omitempty"`
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
	Homepage    string `json:"homepage,omitempty" yaml:"homepage,omitempty"`
}

// Publications lists the user's own papers.
type Publications struct {
	TotalCount        int            `json:"total_count" yaml:"total_count" validate:"gte=0"`
	PaperIDs          []string       `json:"paper_ids" yaml:"paper_ids" validate:"dive,required"`
	RecentPapers      []RecentPaper  `json:"recent_papers,omitempty" yaml:"recent_papers,omitempty"`
	PrimaryCategories []string       `json:"primary_categories" yaml:"primary_categories"`
	PublicationYears  map[string]int `json:"publication_years,omitempty" yaml:"publication_years,omitempty"`
}

// RecentPaper is a short record of one of the user's own papers.
type RecentPaper struct {
	ArxivID string `json:"arxiv_id" yaml:"arxiv_id"`
	Title   string `json:"title" yaml:"title"`
	Year    string `json:"year" yaml:"year"`
}

// Coauthor summarizes the collaboration with one direct co-author.
type Coauthor struct {
	Count    int      `json:"count" yaml:"count" validate:"gte=0"`
	LastYear int      `json:"last_year" yaml:"last_year"`
	Papers   []string `json:"papers,omitempty" yaml:"papers,omitempty"`
}

// Network is the two-tier collaboration graph. Every ActiveCoauthors name is
// a Coauthors key and no SecondDegree key is a Coauthors key.
type Network struct {
	Coauthors        map[string]Coauthor `json:"coauthors" yaml:"coauthors" validate:"dive"`
	CoauthorRank     []string            `json:"coauthor_rank,omitempty" yaml:"coauthor_rank,omitempty"`
	ActiveCoauthors  []string            `json:"active_coauthors" yaml:"active_coauthors"`
	SecondDegree     map[string]float64  `json:"second_degree" yaml:"second_degree"`
	SecondDegreeRank []string            `json:"second_degree_rank,omitempty" yaml:"second_degree_rank,omitempty"`
}

// ResearchFingerprint is derived from the user's own titles and abstracts.
type ResearchFingerprint struct {
	TopicKeywords    map[string]float64 `json:"topic_keywords" yaml:"topic_keywords"`
	ActiveCategories map[string]int     `json:"active_categories,omitempty" yaml:"active_categories,omitempty"`
}

// ResearcherPatch is a lightweight incremental update reported by the user.
type ResearcherPatch struct {
	NewPaperIDs      []string          `json:"new_paper_ids,omitempty" yaml:"new_paper_ids,omitempty"`
	NewCollaborators []NewCollaborator `json:"new_collaborators,omitempty" yaml:"new_collaborators,omitempty" validate:"dive"`
	Affiliation      string            `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
}

// NewCollaborator records a collaborator the profile builder has not seen yet.
type NewCollaborator struct {
	Name    string `json:"name" yaml:"name" validate:"required"`
	Year    int    `json:"year" yaml:"year"`
	PaperID string `json:"paper_id,omitempty" yaml:"paper_id,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ResearcherPatch) IsEmpty() bool {
	return len(p.NewPaperIDs) == 0 && len(p.NewCollaborators) == 0 && p.Affiliation == ""
}

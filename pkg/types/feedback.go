// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Feedback is the user's reaction to one digest. Indices refer to the
// digest's reference index; IDs name papers directly.
type Feedback struct {
	Date             string   `json:"date" yaml:"date"`
	DigestID         string   `json:"digest_id,omitempty" yaml:"digest_id,omitempty"`
	LikedIndices     []int    `json:"liked_indices,omitempty" yaml:"liked_indices,omitempty"`
	DislikedIndices  []int    `json:"disliked_indices,omitempty" yaml:"disliked_indices,omitempty"`
	LikedIDs         []string `json:"liked_ids,omitempty" yaml:"liked_ids,omitempty"`
	DislikedIDs      []string `json:"disliked_ids,omitempty" yaml:"disliked_ids,omitempty"`
	DislikedTopics   []string `json:"disliked_topics,omitempty" yaml:"disliked_topics,omitempty"`
	MentionedAuthors []string `json:"mentioned_authors,omitempty" yaml:"mentioned_authors,omitempty"`
	Promote          []string `json:"promote,omitempty" yaml:"promote,omitempty"`
	Note             string   `json:"note,omitempty" yaml:"note,omitempty"`
}

// IsEmpty reports whether the feedback carries no reaction at all. A note
// alone does not count.
func (f Feedback) IsEmpty() bool {
	return len(f.LikedIndices) == 0 && len(f.DislikedIndices) == 0 &&
		len(f.LikedIDs) == 0 && len(f.DislikedIDs) == 0 &&
		len(f.DislikedTopics) == 0 && len(f.MentionedAuthors) == 0 &&
		len(f.Promote) == 0
}

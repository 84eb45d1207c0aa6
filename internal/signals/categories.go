// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package signals

import "strings"

// categoryNames maps arXiv category tags to their descriptive names. Core
// interests are matched against these so that "cosmology" hits astro-ph.CO.
var categoryNames = map[string]string{
	"astro-ph":           "Astrophysics",
	"astro-ph.CO":        "Cosmology and Nongalactic Astrophysics",
	"astro-ph.EP":        "Earth and Planetary Astrophysics",
	"astro-ph.GA":        "Astrophysics of Galaxies",
	"astro-ph.HE":        "High Energy Astrophysical Phenomena",
	"astro-ph.IM":        "Instrumentation and Methods for Astrophysics",
	"astro-ph.SR":        "Solar and Stellar Astrophysics",
	"gr-qc":              "General Relativity and Quantum Cosmology",
	"hep-ex":             "High Energy Physics - Experiment",
	"hep-lat":            "High Energy Physics - Lattice",
	"hep-ph":             "High Energy Physics - Phenomenology",
	"hep-th":             "High Energy Physics - Theory",
	"nucl-ex":            "Nuclear Experiment",
	"nucl-th":            "Nuclear Theory",
	"quant-ph":           "Quantum Physics",
	"cond-mat.stat-mech": "Statistical Mechanics",
	"physics.comp-ph":    "Computational Physics",
	"physics.data-an":    "Data Analysis, Statistics and Probability",
	"physics.ins-det":    "Instrumentation and Detectors",
	"physics.space-ph":   "Space Physics",
	"cs.AI":              "Artificial Intelligence",
	"cs.CL":              "Computation and Language",
	"cs.CV":              "Computer Vision and Pattern Recognition",
	"cs.DC":              "Distributed, Parallel, and Cluster Computing",
	"cs.IR":              "Information Retrieval",
	"cs.LG":              "Machine Learning",
	"cs.NE":              "Neural and Evolutionary Computing",
	"math.NA":            "Numerical Analysis",
	"math.PR":            "Probability",
	"math.ST":            "Statistics Theory",
	"stat.AP":            "Statistics - Applications",
	"stat.CO":            "Statistics - Computation",
	"stat.ME":            "Statistics - Methodology",
	"stat.ML":            "Machine Learning (Statistics)",
}

// CategoryName returns the descriptive name of an arXiv category, or "".
func CategoryName(cat string) string {
	return categoryNames[cat]
}

// Archive returns the archive part of a category ("astro-ph" for
// "astro-ph.CO").
func Archive(cat string) string {
	if i := strings.Index(cat, "."); i >= 0 {
		return cat[:i]
	}
	return cat
}

// containsFold reports whether list holds s, ignoring case.
func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// InCategories reports whether cat is one of the user's categories.
func InCategories(cat string, userCats []string) bool {
	return cat != "" && containsFold(userCats, cat)
}

// RelatedCategory reports whether any of the candidate's categories shares
// an archive with a user category without itself being a user category.
func RelatedCategory(cats []string, userCats []string) bool {
	for _, c := range cats {
		if InCategories(c, userCats) {
			continue
		}
		for _, u := range userCats {
			if strings.EqualFold(Archive(c), Archive(u)) {
				return true
			}
		}
	}
	return false
}

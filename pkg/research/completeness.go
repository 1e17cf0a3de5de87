// Package research implements the Profile Researcher (SPEC_FULL.md §4.4):
// near-name extraction of entity attributes from conference HTML and linked
// profile pages, plus weighted completeness scoring. Ported from
// original_source/crates/nora/src/execution/profile_research.rs.
package research

import "github.com/codeready-toolchain/tarsy/pkg/models"

// speakerWeights and sponsorWeights are the exact weighted sums from
// SPEC_FULL.md §4.4, matching calculate_speaker_completeness /
// calculate_brand_completeness in the Rust original field-for-field.
var speakerWeights = []struct {
	field  string
	weight float64
}{
	{"name", 0.10},
	{"bio", 0.20},
	{"title", 0.15},
	{"company", 0.15},
	{"photo", 0.15},
	{"linkedin", 0.10},
	{"twitter", 0.05},
	{"website", 0.10},
}

var sponsorWeights = []struct {
	field  string
	weight float64
}{
	{"name", 0.10},
	{"description", 0.20},
	{"website", 0.15},
	{"logo", 0.15},
	{"industry", 0.10},
	{"linkedin", 0.15},
	{"twitter", 0.10},
	{"tier", 0.05},
}

// CalculateCompleteness scores e against the weight table for its entity
// type. Speakers and sponsors are the only two scored shapes the spec
// defines; other entity types (venue, production, competitor) reuse the
// speaker weights as the closest analog since the spec does not define a
// distinct table for them.
func CalculateCompleteness(e *models.Entity) float64 {
	weights := speakerWeights
	if e.EntityType == models.EntitySponsor {
		weights = sponsorWeights
	}
	var score float64
	for _, w := range weights {
		if e.HasField(w.field) {
			score += w.weight
		}
	}
	return score
}

package models

import "time"

// EntityType enumerates the kinds of entity discovered during research.
type EntityType string

const (
	EntitySpeaker     EntityType = "speaker"
	EntitySponsor     EntityType = "sponsor"
	EntityVenue       EntityType = "venue"
	EntityProduction  EntityType = "production"
	EntityCompetitor  EntityType = "competitor"
)

// DataSource tags where a field on an Entity was actually sourced from.
// Appended only for sources that contributed a field — never fabricated
// (SPEC_FULL.md §4.4 "No fabrication policy").
type DataSource string

const (
	SourceConferencePage  DataSource = "conference_page"
	SourceLinkedIn        DataSource = "linkedin"
	SourceTwitter         DataSource = "twitter"
	SourcePersonalWebsite DataSource = "personal_website"
	SourceCompanyWebsite  DataSource = "company_website"
	SourceCrunchBase      DataSource = "crunchbase"
)

// Entity is a speaker, sponsor, venue, or production team member discovered
// during research (SPEC_FULL.md §3).
type Entity struct {
	ID            string
	BoardID       string
	EntityType    EntityType
	CanonicalName string

	Title    string
	Company  string
	Bio      string
	PhotoURL string

	LinkedInURL   string
	TwitterHandle string
	Website       string

	SponsorshipTier string // sponsors only

	DataCompleteness float64
	DataSources      []DataSource

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasField reports whether the named attribute is non-empty, used by the
// completeness scorer and the no-fabrication invariant check.
func (e *Entity) HasField(name string) bool {
	switch name {
	case "name":
		return e.CanonicalName != ""
	case "bio":
		return e.Bio != ""
	case "title":
		return e.Title != ""
	case "company":
		return e.Company != ""
	case "photo":
		return e.PhotoURL != ""
	case "linkedin":
		return e.LinkedInURL != ""
	case "twitter":
		return e.TwitterHandle != ""
	case "website":
		return e.Website != ""
	case "description":
		return e.Bio != ""
	case "logo":
		return e.PhotoURL != ""
	case "industry":
		return e.Company != "" // industry piggybacks on company field for sponsors
	case "tier":
		return e.SponsorshipTier != ""
	default:
		return false
	}
}

// AddSource appends a data source tag if not already present.
func (e *Entity) AddSource(src DataSource) {
	for _, s := range e.DataSources {
		if s == src {
			return
		}
	}
	e.DataSources = append(e.DataSources, src)
}

// SideEvent is a satellite event around the conference (SPEC_FULL.md §3).
type SideEvent struct {
	ID          string
	BoardID     string
	Name        string
	EventDate   string
	VenueName   string
	URL         string
	Description string
	CreatedAt   time.Time
}

package citation

import "time"

// Relation types used for related identifiers. All related identifiers
// are URLs.
const (
	RelationHasVersion      = "HasVersion"
	RelationIsVariantFormOf = "IsVariantFormOf"
	RelationIsDerivedFrom   = "IsDerivedFrom"
)

// Publisher is the fixed publisher name for every generated record.
const Publisher = "GitHub"

// Record is the flat citation record consumed by the XML renderer. It is
// built once and read-only afterwards.
type Record struct {
	Title              string
	Description        string
	Identifier         string
	Publisher          string
	PublicationYear    string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	License            *License
	Creators           []Creator
	RelatedIdentifiers []RelatedIdentifier
}

// License is the optional rights block of a record.
type License struct {
	Name   string
	URL    string
	SPDXID string
}

// Creator is one entry of the creator list. GivenName and FamilyName are
// set only when the display name split into more than one token.
type Creator struct {
	Name       string
	GivenName  string
	FamilyName string
}

// RelatedIdentifier links the cited repository to another resource.
type RelatedIdentifier struct {
	Value        string
	RelationType string
}

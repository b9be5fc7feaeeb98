// Package datacite serializes a citation record into the DataCite
// Kernel-4 XML schema.
package datacite

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/citeworks/ghcite/internal/citation"
)

const (
	xmlnsXSI       = "http://www.w3.org/2001/XMLSchema-instance"
	xmlns          = "http://datacite.org/schema/kernel-4"
	schemaLocation = "http://datacite.org/schema/kernel-4 http://schema.datacite.org/meta/kernel-4/metadata.xsd"
)

type resource struct {
	XMLName            xml.Name           `xml:"resource"`
	XSI                string             `xml:"xmlns:xsi,attr"`
	Namespace          string             `xml:"xmlns,attr"`
	SchemaLocation     string             `xml:"xsi:schemaLocation,attr"`
	ResourceType       resourceType       `xml:"resourceType"`
	Publisher          string             `xml:"publisher"`
	PublicationYear    string             `xml:"publicationYear"`
	Identifier         identifier         `xml:"identifier"`
	Titles             titles             `xml:"titles"`
	RightsList         *rightsList        `xml:"rightsList,omitempty"`
	Dates              dates              `xml:"dates"`
	RelatedIdentifiers relatedIdentifiers `xml:"relatedIdentifiers"`
	Creators           creators           `xml:"creators"`
}

type resourceType struct {
	General string `xml:"resourceTypeGeneral,attr"`
	Value   string `xml:",chardata"`
}

type identifier struct {
	Type  string `xml:"identifierType,attr"`
	Value string `xml:",chardata"`
}

type titles struct {
	Titles []title `xml:"title"`
}

type title struct {
	Type  string `xml:"titleType,attr,omitempty"`
	Value string `xml:",chardata"`
}

type rightsList struct {
	Rights rights `xml:"rights"`
}

type rights struct {
	URI              string `xml:"rightsURI,attr,omitempty"`
	IdentifierScheme string `xml:"rightsIdentifierScheme,attr"`
	Identifier       string `xml:"rightsIdentifier,attr,omitempty"`
	Value            string `xml:",chardata"`
}

type dates struct {
	Dates []date `xml:"date"`
}

type date struct {
	Type  string `xml:"dateType,attr"`
	Value string `xml:",chardata"`
}

type relatedIdentifiers struct {
	Identifiers []relatedIdentifier `xml:"relatedIdentifier"`
}

type relatedIdentifier struct {
	Type     string `xml:"relatedIdentifierType,attr"`
	Relation string `xml:"relationType,attr"`
	Value    string `xml:",chardata"`
}

type creators struct {
	Creators []creator `xml:"creator"`
}

type creator struct {
	Name       creatorName `xml:"creatorName"`
	GivenName  string      `xml:"givenName,omitempty"`
	FamilyName string      `xml:"familyName,omitempty"`
}

type creatorName struct {
	NameType string `xml:"nameType,attr"`
	Value    string `xml:",chardata"`
}

// Render serializes the record as an indented Kernel-4 document with an
// XML declaration.
func Render(rec *citation.Record) (string, error) {
	doc := resource{
		XSI:             xmlnsXSI,
		Namespace:       xmlns,
		SchemaLocation:  schemaLocation,
		ResourceType:    resourceType{General: "Software", Value: "Software"},
		Publisher:       rec.Publisher,
		PublicationYear: rec.PublicationYear,
		Identifier:      identifier{Type: "URL", Value: rec.Identifier},
		Titles:          titles{Titles: []title{{Value: rec.Title}}},
		Dates: dates{Dates: []date{
			{Type: "Created", Value: rec.CreatedAt.UTC().Format(time.RFC3339)},
			{Type: "Updated", Value: rec.UpdatedAt.UTC().Format(time.RFC3339)},
		}},
	}

	if rec.Description != "" {
		doc.Titles.Titles = append(doc.Titles.Titles, title{Type: "Subtitle", Value: rec.Description})
	}
	if rec.License != nil {
		doc.RightsList = &rightsList{Rights: rights{
			URI:              rec.License.URL,
			IdentifierScheme: "spdx",
			Identifier:       rec.License.SPDXID,
			Value:            rec.License.Name,
		}}
	}

	for _, ri := range rec.RelatedIdentifiers {
		doc.RelatedIdentifiers.Identifiers = append(doc.RelatedIdentifiers.Identifiers, relatedIdentifier{
			Type:     "URL",
			Relation: ri.RelationType,
			Value:    ri.Value,
		})
	}
	for _, c := range rec.Creators {
		doc.Creators.Creators = append(doc.Creators.Creators, creator{
			Name:       creatorName{NameType: "Personal", Value: c.Name},
			GivenName:  c.GivenName,
			FamilyName: c.FamilyName,
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling datacite document: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}

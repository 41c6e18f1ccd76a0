package models

import (
	"strings"
	"time"
)

// ReviewState is the derived three-way review status of a report.
// It is computed once, when a report is decoded off the wire, from the
// server's nullable isLegitimate flag. Downstream code never looks at
// the raw flag again.
type ReviewState string

const (
	ReviewPending  ReviewState = "pending"
	ReviewApproved ReviewState = "approved"
	ReviewRejected ReviewState = "rejected"
)

// Location is the structured address attached to a report.
// RoadName, Landmark and ZipCode are required on submission; the rest
// is optional. Street mirrors RoadName on the wire.
type Location struct {
	RoadName string `db:"road_name" json:"roadName" validate:"required"`
	Landmark string `db:"landmark" json:"landmark" validate:"required"`
	ZipCode  string `db:"zip_code" json:"zipCode" validate:"required"`
	City     string `db:"city" json:"city,omitempty"`
	Address  string `db:"address" json:"address,omitempty"`
	Street   string `db:"street" json:"street,omitempty"`
}

// String composes the location into a single display string, used for
// case-insensitive report filtering.
func (l Location) String() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{l.RoadName, l.Landmark, l.City, l.ZipCode, l.Address} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Submitter identifies who filed a report, as reported by the server.
type Submitter struct {
	Name  string `db:"submitted_by_name" json:"name"`
	Email string `db:"submitted_by_email" json:"email"`
}

// Report is the client view of a server-held report. The server is the
// record of truth; the client never fabricates an ID and never mutates
// Review except through an authority action followed by a refresh.
type Report struct {
	ID          string      `db:"id" json:"id"`
	Caption     string      `db:"caption" json:"caption"`
	Location    Location    `json:"location"`
	ImageURL    string      `db:"image_url" json:"imageUrl,omitempty"`
	SubmittedBy Submitter   `json:"submittedBy"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	Review      ReviewState `db:"review" json:"review"`
}

package report

import (
	"fmt"
	"strings"

	"roadwatch/internal/api"
	"roadwatch/models"
)

// Classify derives the three-way review status from the server's
// nullable legitimacy flag. Nothing else affects classification.
func Classify(isLegitimate *bool) models.ReviewState {
	switch {
	case isLegitimate == nil:
		return models.ReviewPending
	case *isLegitimate:
		return models.ReviewApproved
	default:
		return models.ReviewRejected
	}
}

// FromComplaint converts a wire complaint into the client model,
// resolving the nullable flag into a ReviewState so nothing downstream
// re-inspects it.
func FromComplaint(c api.Complaint) models.Report {
	return models.Report{
		ID:          c.ID,
		Caption:     c.Caption,
		Location:    c.Location,
		ImageURL:    c.ImageURL,
		SubmittedBy: c.SubmittedBy,
		CreatedAt:   c.ParsedCreatedAt(),
		Review:      Classify(c.IsLegitimate),
	}
}

// Partitioned groups a report collection by review state, each bucket
// preserving the input's relative order.
type Partitioned struct {
	Pending  []models.Report
	Approved []models.Report
	Rejected []models.Report
}

// Total returns the number of reports across all buckets.
func (p Partitioned) Total() int {
	return len(p.Pending) + len(p.Approved) + len(p.Rejected)
}

// Partition splits reports into the three review buckets in one pass.
// Every input report lands in exactly one bucket.
func Partition(reports []models.Report) Partitioned {
	var p Partitioned
	for _, r := range reports {
		switch r.Review {
		case models.ReviewApproved:
			p.Approved = append(p.Approved, r)
		case models.ReviewRejected:
			p.Rejected = append(p.Rejected, r)
		default:
			p.Pending = append(p.Pending, r)
		}
	}
	return p
}

// StatusFilter narrows a report list to one review state, or passes
// everything through when set to StatusAll.
type StatusFilter string

const StatusAll StatusFilter = "all"

// ParseStatusFilter accepts "all" or one of the three review states.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(s)) {
	case StatusAll, "":
		return StatusAll, nil
	case StatusFilter(models.ReviewPending), StatusFilter(models.ReviewApproved), StatusFilter(models.ReviewRejected):
		return StatusFilter(strings.ToLower(s)), nil
	}
	return "", fmt.Errorf("unknown status filter %q", s)
}

func (f StatusFilter) matches(st models.ReviewState) bool {
	return f == StatusAll || models.ReviewState(f) == st
}

// Filter returns the reports whose caption or composed location string
// contains query case-insensitively AND whose review state passes the
// status filter, in original order. An empty query matches everything.
func Filter(reports []models.Report, query string, status StatusFilter) []models.Report {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Report
	for _, r := range reports {
		if !status.matches(r.Review) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(r.Caption), q) &&
			!strings.Contains(strings.ToLower(r.Location.String()), q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

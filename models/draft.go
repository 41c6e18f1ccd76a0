package models

// Priority is the urgency a citizen assigns to a draft. It is
// client-local metadata: the server contract does not carry it, so it
// is never transmitted.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// MaxDraftPhotos is the photo count ceiling enforced before submission.
const MaxDraftPhotos = 3

// Photo is a local image reference produced by a photo source
// (gallery picker, camera, or a file path on the CLI).
type Photo struct {
	URI  string `json:"uri"`
	MIME string `json:"mime,omitempty"`
}

// ReportDraft is the in-progress form state for a new report. It is
// mutable until submitted; the owner resets it to the zero value after
// a successful submission.
//
// Field order matters: validation walks fields in declaration order,
// which is the order precondition failures are reported in
// (description, then roadName/landmark/zipCode, then photos).
type ReportDraft struct {
	Description string   `json:"description" validate:"required"`
	Location    Location `json:"location"`
	Photos      []Photo  `json:"photos,omitempty" validate:"max=3"`
	Priority    Priority `json:"priority,omitempty"`
	Contact     string   `json:"contact,omitempty"`
}

package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"roadwatch/internal/api"
	"roadwatch/internal/logger"
	"roadwatch/models"
)

// ErrNotAuthenticated means the operation needs a logged-in session.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrTooManyPhotos means the draft exceeds the photo ceiling.
var ErrTooManyPhotos = fmt.Errorf("at most %d photos allowed", models.MaxDraftPhotos)

// MissingFieldError names the first required field found empty. Checks
// run in a fixed order, so the same broken draft always reports the
// same field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// PhotoOpener resolves a draft photo reference to its content. The
// default opens local file paths; tests substitute their own.
type PhotoOpener func(uri string) (io.ReadCloser, error)

func osPhotoOpener(uri string) (io.ReadCloser, error) {
	return os.Open(uri)
}

// Pipeline validates and submits report drafts. It is stateless: the
// caller owns the draft and resets it after a successful submission.
type Pipeline struct {
	client   *api.Client
	validate *validator.Validate
	open     PhotoOpener
	now      func() time.Time
	log      *logger.Logger
}

func NewPipeline(client *api.Client, log *logger.Logger) *Pipeline {
	return &Pipeline{
		client:   client,
		validate: validator.New(),
		open:     osPhotoOpener,
		now:      time.Now,
		log:      log,
	}
}

// Submit checks the draft's preconditions in order (session, then
// description, road name, landmark, zip code, then photo count), stops
// at the first violation, and posts the encoded draft. Priority and
// contact are client-local metadata and are not transmitted.
func (p *Pipeline) Submit(ctx context.Context, draft *models.ReportDraft, sess *models.Session) error {
	if sess == nil || sess.Token == "" {
		return ErrNotAuthenticated
	}
	normalize(draft)
	if err := p.checkDraft(draft); err != nil {
		return err
	}

	photos, closeAll, err := p.openPhotos(draft.Photos)
	if err != nil {
		return err
	}
	defer closeAll()

	err = p.client.SubmitComplaint(ctx, sess.Token, draft.Description, wireLocation(draft.Location), photos)
	if err != nil {
		return err
	}
	p.log.WithComponent("report").WithField("photos", len(photos)).Info("report submitted")
	return nil
}

// normalize trims the fields the required checks look at, so
// whitespace-only input counts as empty.
func normalize(draft *models.ReportDraft) {
	draft.Description = strings.TrimSpace(draft.Description)
	draft.Location.RoadName = strings.TrimSpace(draft.Location.RoadName)
	draft.Location.Landmark = strings.TrimSpace(draft.Location.Landmark)
	draft.Location.ZipCode = strings.TrimSpace(draft.Location.ZipCode)
}

// checkDraft maps the first validation failure to the client error
// taxonomy. Validation walks struct fields in declaration order, which
// fixes the reporting order.
func (p *Pipeline) checkDraft(draft *models.ReportDraft) error {
	err := p.validate.Struct(draft)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	first := verrs[0]
	if first.Tag() == "max" {
		return ErrTooManyPhotos
	}
	switch first.Field() {
	case "Description":
		return &MissingFieldError{Field: "description"}
	case "RoadName":
		return &MissingFieldError{Field: "roadName"}
	case "Landmark":
		return &MissingFieldError{Field: "landmark"}
	case "ZipCode":
		return &MissingFieldError{Field: "zipCode"}
	}
	return err
}

// openPhotos opens every photo reference and assigns each part a
// collision-free name from the submission timestamp plus a counter.
func (p *Pipeline) openPhotos(photos []models.Photo) ([]api.PhotoPart, func(), error) {
	ts := p.now().UnixMilli()
	var parts []api.PhotoPart
	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}
	for i, ph := range photos {
		rc, err := p.open(ph.URI)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open photo %q: %w", ph.URI, err)
		}
		closers = append(closers, rc)
		parts = append(parts, api.PhotoPart{
			FileName: fmt.Sprintf("photo-%d-%d%s", ts, i, extForMIME(ph.MIME)),
			MIME:     ph.MIME,
			Data:     rc,
		})
	}
	return parts, closeAll, nil
}

func extForMIME(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// wireLocation fills the optional fields the way the API expects them:
// street mirrors the road name, and empty city/address fall back to
// the service defaults.
func wireLocation(loc models.Location) models.Location {
	loc.Street = loc.RoadName
	if loc.City == "" {
		loc.City = "Delhi"
	}
	if loc.Address == "" {
		loc.Address = "Not specified"
	}
	return loc
}

package review

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"roadwatch/internal/api"
	"roadwatch/internal/logger"
	"roadwatch/models"
)

// ErrForbidden means the session lacks the authority role. It is a
// client-side gate only: the server independently enforces its own
// authorization and may still reject a request that passes here.
var ErrForbidden = errors.New("forbidden: authority role required")

// Controller issues approve/reject transitions for reports. It imposes
// no transition guard beyond the role gate: re-approving a rejected
// report (and vice versa) goes to the server, which is the sole
// arbiter of whether a reversal is legal.
type Controller struct {
	client *api.Client
	log    *logger.Logger
}

func NewController(client *api.Client, log *logger.Logger) *Controller {
	return &Controller{client: client, log: log}
}

// SetLegitimacy patches one report's legitimacy flag. After a success
// the caller re-fetches the collection; no local state is patched here.
func (c *Controller) SetLegitimacy(ctx context.Context, sess *models.Session, reportID string, legitimate bool) error {
	if !sess.CanReview() {
		return ErrForbidden
	}
	if err := c.client.SetComplaintStatus(ctx, sess.Token, reportID, legitimate); err != nil {
		return err
	}
	c.log.WithComponent("review").WithFields(logrus.Fields{
		"report_id":  reportID,
		"legitimate": legitimate,
	}).Info("review action applied")
	return nil
}

// Approve marks the report legitimate.
func (c *Controller) Approve(ctx context.Context, sess *models.Session, reportID string) error {
	return c.SetLegitimacy(ctx, sess, reportID, true)
}

// Reject marks the report not legitimate.
func (c *Controller) Reject(ctx context.Context, sess *models.Session, reportID string) error {
	return c.SetLegitimacy(ctx, sess, reportID, false)
}

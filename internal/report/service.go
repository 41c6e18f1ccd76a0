package report

import (
	"context"
	"time"

	"roadwatch/internal/api"
	"roadwatch/internal/logger"
	"roadwatch/models"
	"roadwatch/repository"
)

// Service fetches report collections and keeps the local snapshot of
// the last full refresh. The visible list is only ever as fresh as
// that refresh; nothing patches it incrementally.
type Service struct {
	client *api.Client
	cache  repository.ReportCacheI
	now    func() time.Time
	log    *logger.Logger
}

func NewService(client *api.Client, cache repository.ReportCacheI, log *logger.Logger) *Service {
	return &Service{client: client, cache: cache, now: time.Now, log: log}
}

// List fetches the report collection for the session's role: the whole
// database for an authority, the caller's own reports for a citizen.
// A successful fetch replaces the local snapshot.
func (s *Service) List(ctx context.Context, sess *models.Session) ([]models.Report, error) {
	if sess == nil || sess.Token == "" {
		return nil, ErrNotAuthenticated
	}
	path := api.PathMyComplaints
	if sess.User.Role == models.RoleAuthority {
		path = api.PathComplaints
	}
	complaints, err := s.client.ListComplaints(ctx, sess.Token, path)
	if err != nil {
		return nil, err
	}
	reports := make([]models.Report, 0, len(complaints))
	for _, c := range complaints {
		reports = append(reports, FromComplaint(c))
	}
	if err := s.cache.ReplaceAll(ctx, reports, s.now()); err != nil {
		// A stale snapshot is tolerable; the fetch itself succeeded.
		s.log.WithComponent("report").WithField("error", err.Error()).Warn("report cache update failed")
	}
	return reports, nil
}

// Cached returns the last stored snapshot and when it was taken,
// without touching the network.
func (s *Service) Cached(ctx context.Context) ([]models.Report, time.Time, error) {
	return s.cache.List(ctx)
}

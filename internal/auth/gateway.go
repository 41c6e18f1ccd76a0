package auth

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"roadwatch/internal/api"
	"roadwatch/internal/logger"
	"roadwatch/internal/session"
	"roadwatch/models"
)

// ErrInvalidRole means an unrecognized role was requested. It is raised
// client-side; no request reaches the server.
var ErrInvalidRole = errors.New("invalid role")

// loginEndpoints maps the closed role set to its login endpoint. The
// authority endpoint is named "admin" on the wire.
var loginEndpoints = map[models.Role]string{
	models.RoleCitizen:   "/auth/citizen/login",
	models.RoleAuthority: "/auth/admin/login",
}

// Gateway exchanges credentials for a session, dispatched by role.
type Gateway struct {
	client *api.Client
	store  *session.Store
	log    *logger.Logger
}

func NewGateway(client *api.Client, store *session.Store, log *logger.Logger) *Gateway {
	return &Gateway{client: client, store: store, log: log}
}

// Authenticate performs one login request against the role's endpoint
// and, on success, persists and returns the resulting session. On any
// failure the stored session is left untouched; callers that want to
// drop a stale session on failed re-authentication clear it themselves.
func (g *Gateway) Authenticate(ctx context.Context, role models.Role, username, password string) (*models.Session, error) {
	path, ok := loginEndpoints[role]
	if !ok {
		return nil, ErrInvalidRole
	}

	res, err := g.client.Login(ctx, path, username, password)
	if err != nil {
		return nil, err
	}

	user := models.User{ID: res.UserID, Username: res.Username, Role: role}
	if user.Username == "" {
		// The server may omit the user record; fall back to what was typed.
		user.Username = username
	}
	sess := &models.Session{Token: res.Token, User: user}
	if err := g.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	g.log.WithComponent("auth").WithFields(logrus.Fields{
		"username": user.Username,
		"role":     string(role),
	}).Info("authenticated")
	return sess, nil
}

// Logout clears the persisted session.
func (g *Gateway) Logout(ctx context.Context) error {
	return g.store.Clear(ctx)
}

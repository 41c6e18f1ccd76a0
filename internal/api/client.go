package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"roadwatch/internal/config"
	"roadwatch/internal/logger"
	"roadwatch/models"
)

// Complaint endpoints consumed by the client. Login endpoints are owned
// by the auth gateway, which dispatches them by role.
const (
	PathComplaints   = "/complaints"
	PathMyComplaints = "/complaints/my-complaints"
)

// Client talks to the RoadWatch HTTP API. All methods are one-shot
// request/response calls: no automatic retries, no overlapping state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(cfg config.APIConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:        log,
	}
}

// envelope is the application-level result flag every endpoint wraps
// its response in.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginResult is the usable part of a successful login response.
type LoginResult struct {
	Token    string
	UserID   string
	Username string
}

type loginResponse struct {
	envelope
	Token string `json:"token"`
	User  *struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

// Login exchanges credentials at the given endpoint path. The body is
// {email, password}: the server calls the login name "email" even
// though the client collects a username.
func (c *Client) Login(ctx context.Context, path, email, password string) (*LoginResult, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var lr loginResponse
	decodeErr := json.Unmarshal(body, &lr)

	if status < 200 || status >= 300 || (decodeErr == nil && !lr.Success) {
		return nil, &RejectedError{Status: status, Message: bodyMessage(body, status)}
	}
	if decodeErr != nil || lr.Token == "" {
		return nil, ErrMalformedResponse
	}
	res := &LoginResult{Token: lr.Token}
	if lr.User != nil {
		res.UserID = lr.User.ID
		res.Username = lr.User.Username
	}
	return res, nil
}

// PhotoPart is one image attachment for a complaint submission.
type PhotoPart struct {
	FileName string
	MIME     string
	Data     io.Reader
}

// SubmitComplaint posts a new complaint as multipart form data: a
// caption field, a location field holding a JSON object, and one image
// part per photo.
func (c *Client) SubmitComplaint(ctx context.Context, token, caption string, loc models.Location, photos []PhotoPart) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("caption", caption); err != nil {
		return err
	}
	locJSON, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	if err := w.WriteField("location", string(locJSON)); err != nil {
		return err
	}
	for _, p := range photos {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="image"; filename="%s"`, p.FileName))
		mime := p.MIME
		if mime == "" {
			mime = "image/jpeg"
		}
		h.Set("Content-Type", mime)
		part, err := w.CreatePart(h)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, p.Data); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathComplaints+"/", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	body, status, err := c.do(req)
	if err != nil {
		return err
	}
	return checkEnvelope(body, status)
}

// Complaint is the wire shape of a report as the server returns it.
// IsLegitimate is the raw nullable review flag; callers convert it to a
// ReviewState immediately after decoding and never look at it again.
type Complaint struct {
	ID           string           `json:"id"`
	Caption      string           `json:"caption"`
	Location     models.Location  `json:"location"`
	ImageURL     string           `json:"imageUrl"`
	SubmittedBy  models.Submitter `json:"submittedBy"`
	CreatedAt    string           `json:"createdAt"`
	IsLegitimate *bool            `json:"isLegitimate"`
}

// ParsedCreatedAt parses the server timestamp, returning the zero time
// for formats it does not recognize.
func (c Complaint) ParsedCreatedAt() time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, c.CreatedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

type listResponse struct {
	envelope
	Data struct {
		Complaints []Complaint `json:"complaints"`
	} `json:"data"`
}

// ListComplaints fetches the report collection at the given endpoint
// path (PathComplaints for authorities, PathMyComplaints for citizens).
func (c *Client) ListComplaints(ctx context.Context, token, path string) ([]Complaint, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &RejectedError{Status: status, Message: bodyMessage(body, status)}
	}
	var lr listResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, ErrMalformedResponse
	}
	return lr.Data.Complaints, nil
}

// SetComplaintStatus patches exactly the isLegitimate field of one
// complaint. No other report field is resubmitted.
func (c *Client) SetComplaintStatus(ctx context.Context, token, id string, isLegitimate bool) error {
	payload, err := json.Marshal(map[string]bool{"isLegitimate": isLegitimate})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s%s/%s/status", c.baseURL, PathComplaints, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	body, status, err := c.do(req)
	if err != nil {
		return err
	}
	return checkEnvelope(body, status)
}

// do sends the request with a fresh request ID and returns the raw
// body and status. A transport-level failure maps to ErrUnreachable.
func (c *Client) do(req *http.Request) ([]byte, int, error) {
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	entry := c.log.WithRequestID(reqID).WithFields(logrus.Fields{
		"method": req.Method,
		"path":   req.URL.Path,
	})
	entry.Debug("api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		entry.WithField("error", err.Error()).Warn("api request failed")
		return nil, 0, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		entry.WithField("error", err.Error()).Warn("api response read failed")
		return nil, 0, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	entry.WithField("status", resp.StatusCode).Debug("api response")
	return body, resp.StatusCode, nil
}

// checkEnvelope applies the shared accept/decline rule: HTTP success
// plus success=true is OK, anything else is a rejection carrying the
// best message available.
func checkEnvelope(body []byte, status int) error {
	var env envelope
	decodeErr := json.Unmarshal(body, &env)
	if status >= 200 && status < 300 && decodeErr == nil && env.Success {
		return nil
	}
	return &RejectedError{Status: status, Message: bodyMessage(body, status)}
}

// bodyMessage extracts the server's message field from a JSON body,
// falling back to a status-derived generic message.
func bodyMessage(body []byte, status int) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return statusMessage(status)
}

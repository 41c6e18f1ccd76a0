package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"roadwatch/internal/api"
	"roadwatch/internal/config"
	"roadwatch/internal/logger"
	"roadwatch/internal/testutil"
	"roadwatch/models"
	"roadwatch/repository"
)

const complaintsBody = `{
  "success": true,
  "data": {"complaints": [
    {"id":"r1","caption":"Pothole on Main Street",
     "location":{"roadName":"Main Street","landmark":"City Hall","zipCode":"110001"},
     "submittedBy":{"name":"alice","email":"alice@example.com"},
     "createdAt":"2024-01-15T10:00:00Z","isLegitimate":null},
    {"id":"r2","caption":"Broken street light",
     "location":{"roadName":"Oak Avenue","landmark":"Depot","zipCode":"110002"},
     "submittedBy":{"name":"bob","email":"bob@example.com"},
     "createdAt":"2024-01-14T09:30:00Z","isLegitimate":true}
  ]}
}`

func newTestService(t *testing.T, name string, handler http.HandlerFunc) (*Service, *string) {
	t.Helper()
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(config.APIConfig{BaseURL: srv.URL, TimeoutSeconds: 5}, logger.Discard())
	cache := repository.NewReportCacheRepository(testutil.OpenInMemoryDB(t, name))
	return NewService(client, cache, logger.Discard()), &gotPath
}

func serveComplaints(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(complaintsBody))
}

func TestList_AuthoritySeesWholeDatabase(t *testing.T) {
	svc, gotPath := newTestService(t, "svclist", serveComplaints)
	sess := &models.Session{Token: "T1", User: models.User{ID: "a1", Role: models.RoleAuthority}}

	reports, err := svc.List(context.Background(), sess)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if *gotPath != "/complaints" {
		t.Fatalf("hit %q, want /complaints", *gotPath)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if reports[0].Review != models.ReviewPending || reports[1].Review != models.ReviewApproved {
		t.Fatalf("review states not derived: %+v", reports)
	}
}

func TestList_CitizenSeesOwnReports(t *testing.T) {
	svc, gotPath := newTestService(t, "svcmine", serveComplaints)
	sess := &models.Session{Token: "T1", User: models.User{ID: "u1", Role: models.RoleCitizen}}

	if _, err := svc.List(context.Background(), sess); err != nil {
		t.Fatalf("list: %v", err)
	}
	if *gotPath != "/complaints/my-complaints" {
		t.Fatalf("hit %q, want /complaints/my-complaints", *gotPath)
	}
}

func TestList_RequiresSession(t *testing.T) {
	svc, _ := newTestService(t, "svcnosess", serveComplaints)
	if _, err := svc.List(context.Background(), nil); err != ErrNotAuthenticated {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
}

func TestList_UpdatesCachedSnapshot(t *testing.T) {
	svc, _ := newTestService(t, "svccache", serveComplaints)
	sess := &models.Session{Token: "T1", User: models.User{ID: "a1", Role: models.RoleAuthority}}

	ctx := context.Background()
	fetched, err := svc.List(ctx, sess)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	cached, refreshedAt, err := svc.Cached(ctx)
	if err != nil {
		t.Fatalf("cached: %v", err)
	}
	if refreshedAt.IsZero() {
		t.Fatalf("refresh time not recorded")
	}
	if len(cached) != len(fetched) {
		t.Fatalf("cache holds %d reports, fetched %d", len(cached), len(fetched))
	}
	for i := range fetched {
		if cached[i].ID != fetched[i].ID || cached[i].Review != fetched[i].Review {
			t.Fatalf("cache entry %d mismatch: %+v vs %+v", i, cached[i], fetched[i])
		}
	}
}

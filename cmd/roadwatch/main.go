package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"roadwatch/internal/auth"
	"roadwatch/internal/config"
	"roadwatch/internal/db"
	"roadwatch/internal/logger"
	"roadwatch/internal/report"
	"roadwatch/internal/review"
	"roadwatch/internal/session"
	"roadwatch/models"
	"roadwatch/repository"

	apiclient "roadwatch/internal/api"
)

const usage = `usage: roadwatch <command> [flags]

commands:
  login    -role citizen|authority -username <name> -password <pw>
  logout
  whoami
  submit   -description <text> -road <name> -landmark <name> -zip <code>
           [-city <name>] [-address <text>] [-photo <path>]... [-priority low|medium|high] [-contact <text>]
  list     [-status pending|approved|rejected|all] [-query <text>] [-cached]
  approve  -id <report-id>
  reject   -id <report-id>
`

// app bundles the wired components a command handler needs.
type app struct {
	store      *session.Store
	gateway    *auth.Gateway
	pipeline   *report.Pipeline
	reports    *report.Service
	reviews    *review.Controller
	apiTimeout time.Duration
}

func main() {
	// Optional .env in the working directory; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logg := logger.New("roadwatch", cfg.Log.Level)

	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			logg.WithField("error", err.Error()).Warn("close db")
		}
	}()

	client := apiclient.NewClient(cfg.API, logg)
	store := session.NewStore(repository.NewKVRepository(d), logg)
	cache := repository.NewReportCacheRepository(d)

	a := &app{
		store:      store,
		gateway:    auth.NewGateway(client, store, logg),
		pipeline:   report.NewPipeline(client, logg),
		reports:    report.NewService(client, cache, logg),
		reviews:    review.NewController(client, logg),
		apiTimeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
	}

	if err := a.run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "roadwatch:", err)
		os.Exit(1)
	}
}

func (a *app) run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errors.New("no command given")
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.apiTimeout+5*time.Second)
	defer cancel()

	switch args[0] {
	case "login":
		return a.cmdLogin(ctx, args[1:])
	case "logout":
		if err := a.gateway.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil
	case "whoami":
		return a.cmdWhoami(ctx)
	case "submit":
		return a.cmdSubmit(ctx, args[1:])
	case "list":
		return a.cmdList(ctx, args[1:])
	case "approve":
		return a.cmdReview(ctx, args[1:], true)
	case "reject":
		return a.cmdReview(ctx, args[1:], false)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	role := fs.String("role", string(models.RoleCitizen), "citizen or authority")
	username := fs.String("username", "", "login name")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return errors.New("login requires -username and -password")
	}

	sess, err := a.gateway.Authenticate(ctx, models.Role(*role), *username, *password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", sess.User.Username, sess.User.Role)
	return nil
}

func (a *app) cmdWhoami(ctx context.Context) error {
	sess, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s (%s)\n", sess.User.Username, sess.User.Role)
	return nil
}

// photoList collects repeated -photo flags.
type photoList []string

func (p *photoList) String() string     { return strings.Join(*p, ",") }
func (p *photoList) Set(v string) error { *p = append(*p, v); return nil }

func (a *app) cmdSubmit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	description := fs.String("description", "", "what is wrong with the road")
	road := fs.String("road", "", "road name")
	landmark := fs.String("landmark", "", "nearby landmark")
	zip := fs.String("zip", "", "zip code")
	city := fs.String("city", "", "city (optional)")
	address := fs.String("address", "", "street address (optional)")
	priority := fs.String("priority", string(models.PriorityMedium), "low, medium or high")
	contact := fs.String("contact", "", "contact info (optional)")
	var photos photoList
	fs.Var(&photos, "photo", "image file path (repeatable, up to 3)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	draft := &models.ReportDraft{
		Description: *description,
		Location: models.Location{
			RoadName: *road,
			Landmark: *landmark,
			ZipCode:  *zip,
			City:     *city,
			Address:  *address,
		},
		Priority: models.Priority(*priority),
		Contact:  *contact,
	}
	for _, path := range photos {
		draft.Photos = append(draft.Photos, models.Photo{URI: path})
	}

	sess, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := a.pipeline.Submit(ctx, draft, sess); err != nil {
		return err
	}
	fmt.Println("report submitted")
	return nil
}

func (a *app) cmdList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	status := fs.String("status", "all", "pending, approved, rejected or all")
	query := fs.String("query", "", "caption/location search text")
	cached := fs.Bool("cached", false, "print the last fetched list without contacting the server")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter, err := report.ParseStatusFilter(*status)
	if err != nil {
		return err
	}

	var reports []models.Report
	if *cached {
		var refreshedAt time.Time
		reports, refreshedAt, err = a.reports.Cached(ctx)
		if err != nil {
			return err
		}
		if !refreshedAt.IsZero() {
			fmt.Printf("cached list from %s\n", refreshedAt.Format(time.RFC3339))
		}
	} else {
		sess, loadErr := a.store.Load(ctx)
		if loadErr != nil {
			return loadErr
		}
		reports, err = a.reports.List(ctx, sess)
		if err != nil {
			return err
		}
	}

	reports = report.Filter(reports, *query, filter)
	printReports(reports)
	return nil
}

func printReports(reports []models.Report) {
	if len(reports) == 0 {
		fmt.Println("no reports")
		return
	}
	parts := report.Partition(reports)
	fmt.Printf("%d reports (%d pending, %d approved, %d rejected)\n",
		parts.Total(), len(parts.Pending), len(parts.Approved), len(parts.Rejected))
	for _, r := range reports {
		created := ""
		if !r.CreatedAt.IsZero() {
			created = r.CreatedAt.Format("2006-01-02")
		}
		fmt.Printf("  [%s] %s  %s  %s  %s\n", r.Review, r.ID, created, r.Caption, r.Location.String())
	}
}

func (a *app) cmdReview(ctx context.Context, args []string, approve bool) error {
	name := "reject"
	if approve {
		name = "approve"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	id := fs.String("id", "", "report id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("%s requires -id", name)
	}

	sess, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	if approve {
		err = a.reviews.Approve(ctx, sess, *id)
	} else {
		err = a.reviews.Reject(ctx, sess, *id)
	}
	if err != nil {
		return err
	}
	if approve {
		fmt.Printf("report %s approved\n", *id)
	} else {
		fmt.Printf("report %s rejected\n", *id)
	}
	return nil
}

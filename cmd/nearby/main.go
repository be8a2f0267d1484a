// Command nearby prints the charging stations nearest to a point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/voltmap-kh/chargemap/backend-go/internal/api"
	"github.com/voltmap-kh/chargemap/backend-go/internal/config"
	"github.com/voltmap-kh/chargemap/backend-go/internal/favorites"
	"github.com/voltmap-kh/chargemap/backend-go/internal/feed"
	"github.com/voltmap-kh/chargemap/backend-go/internal/locate"
	"github.com/voltmap-kh/chargemap/backend-go/internal/locator"
	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
	"github.com/voltmap-kh/chargemap/backend-go/pkg/http/client"
)

type options struct {
	lat, lon   string
	locate     bool
	connectors string
	operators  string
	query      string
	limit      int
	stationID  string
	toggle     string
	favorites  bool
	summary    bool
	asJSON     bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("nearby", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.lat, "lat", "", "reference latitude")
	fs.StringVar(&opts.lon, "lon", "", "reference longitude")
	fs.BoolVar(&opts.locate, "locate", false, "use the IP geolocation position as reference")
	fs.StringVar(&opts.connectors, "connectors", "", "comma separated connector types")
	fs.StringVar(&opts.operators, "operators", "", "comma separated operators")
	fs.StringVar(&opts.query, "q", "", "match station name or operator")
	fs.IntVar(&opts.limit, "limit", 5, "maximum stations to print, 0 for all")
	fs.StringVar(&opts.stationID, "station", "", "print a single station")
	fs.StringVar(&opts.toggle, "toggle-favorite", "", "add or remove a station from favorites")
	fs.BoolVar(&opts.favorites, "favorites", false, "print favorite station ids")
	fs.BoolVar(&opts.summary, "summary", false, "print station counts per operator and connector")
	fs.BoolVar(&opts.asJSON, "json", false, "print JSON")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func newSession(ctx context.Context, cfg *config.Config) (*locator.Session, error) {
	loader := feed.NewLoader(client.New(client.Options{
		BaseURL:   cfg.FeedBaseURL,
		Timeout:   cfg.HTTPTimeout,
		UserAgent: "chargemap-nearby/1.0",
	}))

	geolocator, err := locate.NewHTTPGeolocatorFromURL(cfg.GeolocationURL, cfg.HTTPTimeout)
	if err != nil {
		return nil, err
	}

	store, err := favorites.NewStoreFromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return locator.NewSession(loader, cfg.FeedPath, locate.NewResolver(geolocator, cfg.DefaultCenter), store), nil
}

func run(ctx context.Context, session *locator.Session, opts *options, stdout, stderr io.Writer) int {
	defer printNotices(session, stderr)

	if opts.toggle != "" {
		favorite, err := session.ToggleFavorite(ctx, opts.toggle)
		if err != nil {
			return 1
		}
		fmt.Fprintf(stdout, "%s favorite: %t\n", opts.toggle, favorite)
		return 0
	}

	if opts.favorites {
		ids, err := session.Favorites(ctx)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return write(stdout, opts.asJSON, ids, func(w io.Writer) {
			for _, id := range ids {
				fmt.Fprintln(w, id)
			}
		})
	}

	if err := session.Load(ctx); err != nil {
		return 1
	}

	if opts.summary {
		summary := session.Summary()
		return write(stdout, opts.asJSON, summary, func(w io.Writer) { printSummary(w, summary) })
	}

	if opts.stationID != "" {
		selected, err := session.Select(opts.stationID)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return write(stdout, opts.asJSON, selected, func(w io.Writer) {
			printStations(ctx, w, session, []models.Station{*selected})
		})
	}

	coords := map[string]string{}
	if opts.lat != "" {
		coords["lat"] = opts.lat
	}
	if opts.lon != "" {
		coords["lon"] = opts.lon
	}
	ref, err := api.ParseCoordinates(coords, session.Reference())
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	session.SetViewport(ref)

	if opts.locate {
		// A failed lookup leaves the viewport as reference and records a notice.
		_, _ = session.Locate(ctx)
	}

	filter, err := api.ParseFilter(map[string]string{
		"connectors": opts.connectors,
		"operators":  opts.operators,
		"q":          opts.query,
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	session.SetFilter(filter)

	results := session.Results()
	if opts.limit > 0 && len(results) > opts.limit {
		results = results[:opts.limit]
	}
	return write(stdout, opts.asJSON, results, func(w io.Writer) { printStations(ctx, w, session, results) })
}

func write(stdout io.Writer, asJSON bool, v interface{}, text func(io.Writer)) int {
	if !asJSON {
		text(stdout)
		return 0
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Error().Err(err).Msg("Encoding output")
		return 1
	}
	return 0
}

func printStations(ctx context.Context, stdout io.Writer, session *locator.Session, stations []models.Station) {
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tOPERATOR\tCONNECTORS\tDISTANCE\tFAV")
	for _, s := range stations {
		distance := "-"
		if s.Distance != nil {
			distance = fmt.Sprintf("%.2f km", *s.Distance)
		}
		fav := ""
		if ok, err := session.IsFavorite(ctx, s.ID); err == nil && ok {
			fav = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.Name, s.Operator, strings.Join(s.Connectors, ", "), distance, fav)
	}
	_ = w.Flush()
}

func printSummary(stdout io.Writer, summary models.NetworkSummary) {
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Total\t%d\n", summary.TotalStations)
	for _, op := range models.Operators {
		fmt.Fprintf(w, "%s\t%d\n", op, summary.ByOperator[op])
	}
	_ = w.Flush()
}

func printNotices(session *locator.Session, stderr io.Writer) {
	for _, n := range session.Notices() {
		fmt.Fprintf(stderr, "%s: %s\n", n.Kind, n.Message)
	}
}

func main() {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	ctx := context.Background()
	session, err := newSession(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session")
	}

	os.Exit(run(ctx, session, opts, os.Stdout, os.Stderr))
}

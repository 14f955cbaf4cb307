package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"quoteme/config"
	"quoteme/dedup"
	"quoteme/export"
	"quoteme/nuggets"
	"quoteme/oauth"
	"quoteme/pages"
	"quoteme/storage"
	"quoteme/types"
)

// Store is the persistence surface the controllers depend on. *storage.Store
// satisfies it; tests plug in fakes.
type Store interface {
	GetQuote(ctx context.Context, id string) (*types.Quote, error)
	PutQuote(ctx context.Context, q *types.Quote) error
	DeleteQuote(ctx context.Context, id string) error
	SetQuoteImage(ctx context.Context, id, imageURL string) error
	AllQuotes(ctx context.Context) ([]types.Quote, error)

	TagsMetadata(ctx context.Context) ([]string, error)
	PutTagsMetadata(ctx context.Context, tags []string) error
	MergeTagsMetadata(ctx context.Context, newTags []string) error
	ListTagNames(ctx context.Context) ([]string, error)
	TagExists(ctx context.Context, tag string) (bool, error)
	PutTagRecord(ctx context.Context, tag string) error
	DeleteTagRecord(ctx context.Context, tag string) error

	GetSubscription(ctx context.Context, email string) (*types.Subscription, error)
	PutSubscription(ctx context.Context, sub *types.Subscription) error
	DeleteSubscription(ctx context.Context, email string) error
	AllSubscriptions(ctx context.Context) ([]types.Subscription, error)
}

// Pusher sends test push notifications. *nuggets.Pusher satisfies it.
type Pusher interface {
	SendTest(ctx context.Context, tokens map[string]string, q types.Quote) (sent int, errs []string)
}

// Mailer sends nugget emails. *nuggets.Mailer satisfies it.
type Mailer interface {
	SendDaily(ctx context.Context, to string, q types.Quote) error
}

// Deps bundles everything the HTTP server needs. Optional integrations
// (Exporter, Flags, Mailer, Pusher) may be nil; the endpoints that need them
// then report the feature as unavailable.
type Deps struct {
	Store    Store
	Detector *dedup.Detector
	Exporter *export.Exporter
	Flags    *storage.FlagStore
	Mailer   Mailer
	Pusher   Pusher
	OAuth    oauth.Config
	Pages    *pages.Renderer
	Cfg      *config.Config
}

// Server wires the controllers to their dependencies.
type Server struct {
	store    Store
	detector *dedup.Detector
	exporter *export.Exporter
	flags    *storage.FlagStore
	mailer   Mailer
	pusher   Pusher
	oauth    oauth.Config
	pages    *pages.Renderer
	cfg      *config.Config
}

func NewServer(d Deps) *Server {
	return &Server{
		store:    d.Store,
		detector: d.Detector,
		exporter: d.Exporter,
		flags:    d.Flags,
		mailer:   d.Mailer,
		pusher:   d.Pusher,
		oauth:    d.OAuth,
		pages:    d.Pages,
		cfg:      d.Cfg,
	}
}

// Router constructs a Gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(s.cfg.CORSOrigin))

	s.registerHealthRoutes(r)
	s.registerAdminRoutes(r)
	s.registerSubscriptionRoutes(r)
	s.registerExportRoutes(r)
	s.registerOAuthRoutes(r)
	s.registerQuotePageRoutes(r)
	return r
}

var _ Mailer = (*nuggets.Mailer)(nil)
var _ Pusher = (*nuggets.Pusher)(nil)
var _ Store = (*storage.Store)(nil)

package app

import (
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/simshi01/thansgiving-day/app/db"
	"github.com/simshi01/thansgiving-day/app/duration"
	"github.com/simshi01/thansgiving-day/app/models"
	"github.com/simshi01/thansgiving-day/app/moderation"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// Options carries the tunables of an App. Zero values take defaults.
type Options struct {
	ScheduleInterval time.Duration
	ScheduleDuration time.Duration
	ActiveWindow     time.Duration
	AllowedOrigins   []string
	Logger           zerolog.Logger
	Now              func() time.Time
}

type App struct {
	Repository db.MessageRepository
	Filter     *moderation.Filter
	Router     *mux.Router

	log            zerolog.Logger
	now            func() time.Time
	interval       time.Duration
	showFor        time.Duration
	activeWindow   time.Duration
	allowedOrigins []string

	// notifications feeds the websocket hub
	notifications chan<- models.Event
}

func New(repository db.MessageRepository, filter *moderation.Filter, notifications chan<- models.Event, opts Options) *App {
	app := &App{
		Repository:     repository,
		Filter:         filter,
		Router:         mux.NewRouter(),
		log:            opts.Logger,
		now:            opts.Now,
		interval:       opts.ScheduleInterval,
		showFor:        opts.ScheduleDuration,
		activeWindow:   opts.ActiveWindow,
		allowedOrigins: opts.AllowedOrigins,
		notifications:  notifications,
	}
	if app.Filter == nil {
		app.Filter = moderation.Default()
	}
	if app.now == nil {
		app.now = time.Now
	}
	if app.interval <= 0 {
		app.interval = 5 * time.Second
	}
	app.showFor = duration.ToDuration(duration.Seconds(app.showFor.Seconds()))
	if app.activeWindow <= 0 {
		app.activeWindow = 30 * time.Second
	}
	if len(app.allowedOrigins) == 0 {
		app.allowedOrigins = []string{"*"}
	}

	app.initRoutes()
	return app
}

func (app *App) initRoutes() {
	app.Router.Use(app.logRequests)

	// Served both at the root and under /api.
	for _, r := range []*mux.Router{app.Router, app.Router.PathPrefix("/api").Subrouter()} {
		r.HandleFunc("/messages", app.CreateMessageHandler()).Methods("POST")
		r.HandleFunc("/messages", app.ListMessagesHandler()).Methods("GET")
		r.HandleFunc("/messages", app.DeleteMessageHandler()).Methods("DELETE")
		r.HandleFunc("/schedule", app.ScheduleHandler()).Methods("GET")
		r.HandleFunc("/time", app.TimeHandler()).Methods("GET")
	}
	app.Router.HandleFunc("/health", app.HealthHandler()).Methods("GET")
}

// Handler is the router wrapped in panic recovery, gzip and CORS.
func (app *App) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: app.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	var h http.Handler = app.Router
	h = handlers.CompressHandler(h)
	h = c.Handler(h)
	return handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{app.log}))(h)
}

// AllowedOrigins returns the configured CORS origins, also used to check
// websocket upgrades.
func (app *App) AllowedOrigins() []string { return app.allowedOrigins }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (app *App) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		app.log.Debug().
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("http request")
	})
}

type recoveryLogger struct {
	log zerolog.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error().Interface("panic", v).Msg("recovered from panic")
}

package api

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

var errNoRoute = errors.New("no such route")

type Options struct {
	AllowedOrigins  string
	EnableReqLogger bool
	Logger          *slog.Logger
}

// New builds the HTTP handler exposing the governance operations.
func New(gov *Governance, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	logger = logger.With("component", "api")

	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()
	gov.Mount(router, "")
	router.NotFoundHandler = WrapHandlerFunc(func(w http.ResponseWriter, req *http.Request) error {
		return HTTPError(errNoRoute, http.StatusNotFound, "not_found")
	})

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut}),
		handlers.AllowedHeaders([]string{"content-type", strings.ToLower(HeaderRequiredAuths), strings.ToLower(HeaderTxID), strings.ToLower(HeaderLedgerTimestamp)}),
	)(handler)
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{logger}))(handler)
	if opts.EnableReqLogger {
		handler = handlers.CustomLoggingHandler(io.Discard, handler, func(_ io.Writer, p handlers.LogFormatterParams) {
			logger.Info("request",
				"method", p.Request.Method,
				"path", p.URL.Path,
				"status", p.StatusCode,
				"size", p.Size,
				"duration", time.Since(p.TimeStamp),
			)
		})
	}
	return handler
}

type recoveryLogger struct {
	logger *slog.Logger
}

func (l recoveryLogger) Println(args ...any) {
	l.logger.Error("handler panic", "panic", args)
}

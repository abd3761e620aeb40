package restserver

import (
	"context"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/tsdiagram/internal/diagram"
	"github.com/chrissnell/tsdiagram/internal/log"
	"github.com/chrissnell/tsdiagram/internal/render"
	"github.com/chrissnell/tsdiagram/pkg/config"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type contextKey string

const requestContextKey contextKey = "request"

// requestInfo travels in the request context so handlers can report back
// to the access log.
type requestInfo struct {
	id    string
	files int
}

// LanguageAuto makes the server pick the display language from each
// request's Accept-Language header.
const LanguageAuto = "auto"

// Controller represents the REST server controller
type Controller struct {
	ctx           context.Context
	wg            *sync.WaitGroup
	serverConfig  config.ServerData
	diagramConfig config.DiagramData
	diagramOpts   diagram.Options
	renderer      *render.Renderer
	Server        http.Server
	FS            fs.FS
	index         *htmltemplate.Template
	logger        *zap.SugaredLogger
	handlers      *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, cfgData *config.ConfigData, logger *zap.SugaredLogger) (*Controller, error) {
	ctrl := &Controller{
		ctx:           ctx,
		wg:            wg,
		serverConfig:  cfgData.Server,
		diagramConfig: cfgData.Diagram,
		logger:        logger,
	}

	opts, err := diagram.OptionsFromConfig(cfgData.Diagram)
	if err != nil {
		return nil, fmt.Errorf("invalid diagram configuration: %v", err)
	}
	ctrl.diagramOpts = opts

	ctrl.renderer = render.New(render.OptionsFromConfig(cfgData.Render))
	if err := ctrl.renderer.FontErr(); err != nil {
		logger.Warnf("font %s unavailable, falling back to built-in fonts: %v", cfgData.Render.FontPath, err)
	}

	// If a listen address was not provided, listen on all interfaces
	if ctrl.serverConfig.ListenAddr == "" {
		logger.Info("server.listen_addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		ctrl.serverConfig.ListenAddr = config.DefaultListenAddr
	}

	// Set default HTTP port if not specified
	if ctrl.serverConfig.HTTPPort == 0 {
		logger.Infof("server.http_port not provided; defaulting to %d", config.DefaultHTTPPort)
		ctrl.serverConfig.HTTPPort = config.DefaultHTTPPort
	}
	if ctrl.serverConfig.MaxUploadBytes == 0 {
		ctrl.serverConfig.MaxUploadBytes = config.DefaultMaxUploadBytes
	}
	if ctrl.serverConfig.MaxFiles == 0 {
		ctrl.serverConfig.MaxFiles = config.DefaultMaxFiles
	}

	// Set up embedded filesystem for assets
	ctrl.FS = GetAssets()
	ctrl.index, err = htmltemplate.ParseFS(ctrl.FS, "index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("could not parse index template: %v", err)
	}

	// Create handlers
	ctrl.handlers = NewHandlers(ctrl)

	// Set up router
	router := ctrl.setupRouter()
	ctrl.Server.Addr = fmt.Sprintf("%v:%v", ctrl.serverConfig.ListenAddr, ctrl.serverConfig.HTTPPort)
	ctrl.Server.Handler = router
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Infof("Starting REST server on %s...", c.Server.Addr)
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.serverConfig.TLSCertPath != "" && c.serverConfig.TLSKeyPath != "" {
			if err := c.Server.ListenAndServeTLS(c.serverConfig.TLSCertPath, c.serverConfig.TLSKeyPath); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// Handler returns the router, for mounting in tests
func (c *Controller) Handler() http.Handler {
	return c.Server.Handler
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.Use(c.requestMiddleware)

	// API endpoints
	router.HandleFunc("/api/scene", c.handlers.PostScene).Methods(http.MethodPost)
	router.HandleFunc("/api/diagram.{ext:png|svg|pdf}", c.handlers.PostDiagram).Methods(http.MethodPost)
	router.HandleFunc("/healthz", c.handlers.GetHealth).Methods(http.MethodGet)

	// Template endpoints
	router.HandleFunc("/", c.handlers.ServeIndexTemplate).Methods(http.MethodGet)

	// Static file serving, limited to the stylesheet and script trees so
	// the page template is never served raw
	static := http.FileServer(http.FS(c.FS))
	router.PathPrefix("/css/").Handler(static).Methods(http.MethodGet)
	router.PathPrefix("/js/").Handler(static).Methods(http.MethodGet)

	return router
}

// requestMiddleware tags each request with an ID and writes an access log
// line once it completes
func (c *Controller) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		info := &requestInfo{id: id}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		ctx := context.WithValue(r.Context(), requestContextKey, info)
		next.ServeHTTP(rec, r.WithContext(ctx))

		log.LogHTTPRequest(c.logger, log.HTTPLogEntry{
			RequestID:  id,
			Method:     r.Method,
			Path:       r.URL.Path,
			Status:     rec.status,
			Duration:   time.Since(start),
			Size:       rec.size,
			RemoteAddr: r.RemoteAddr,
			UserAgent:  r.UserAgent(),
			Files:      info.files,
		})
	})
}

// getRequestInfo returns the info attached by requestMiddleware, or a
// throwaway one when the handler runs without it
func getRequestInfo(r *http.Request) *requestInfo {
	if info, ok := r.Context().Value(requestContextKey).(*requestInfo); ok {
		return info
	}
	return &requestInfo{}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	s.size += n
	return n, err
}

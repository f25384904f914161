package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mini-maxit/runner/internal/config"
	"github.com/mini-maxit/runner/internal/logger"
	"github.com/mini-maxit/runner/internal/pipeline"
	"github.com/mini-maxit/runner/internal/storage"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
	requestIDHeader   = "X-Request-Id"
)

type Server struct {
	judge          pipeline.Judge
	store          storage.TestCaseStore
	maxSourceBytes int64
	logger         *zap.SugaredLogger
}

func NewServer(judge pipeline.Judge, store storage.TestCaseStore, maxSourceBytes int64) *Server {
	return &Server{
		judge:          judge,
		store:          store,
		maxSourceBytes: maxSourceBytes,
		logger:         logger.NewNamedLogger("http"),
	}
}

// Router builds the gin engine. Admin routes are only mounted when adminEnabled is set.
func (s *Server) Router(adminEnabled bool) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/health", s.health)
	router.GET("/languages", s.listLanguages)
	router.POST("/code", s.limitBody(), s.submitCode)

	if adminEnabled {
		admin := router.Group("/admin/testcases")
		admin.GET("", s.listProblems)
		admin.GET("/:problem", s.getTestCases)
		admin.PUT("/:problem", s.limitBody(), s.updateTestCases)
		admin.POST("/:problem", s.limitBody(), s.createTestCases)
	}

	return router
}

func NewHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		// No write timeout: a run lasts as long as its test list, each test bounded by the sandbox timer.
		IdleTimeout:       idleTimeout,
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDHeader, requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		s.logger.Infow("request completed",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// limitBody caps request bodies. Reads past the limit fail with *http.MaxBytesError.
func (s *Server) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.maxSourceBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxSourceBytes)
		}
		c.Next()
	}
}

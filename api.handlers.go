package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Statistics holds app stats for ops.
type Statistics struct {
	version   string
	container bool
	runtime   string
	platform  string
	called    uint64
	started   time.Time
	status    map[int]uint64
	mu        *sync.RWMutex
}

// Maintenance holds app maintenance mode infos.
type Maintenance struct {
	enabled atomic.Bool
	message string
	started time.Time
}

// APIHandler defines the API handler.
type APIHandler struct {
	logger         *zap.Logger
	config         *Config
	stats          *Statistics
	mode           *Maintenance
	clock          Clocker
	idsHandler     UIDHandler
	bookService    BookServiceProvider
	userService    UserServiceProvider
	lendingService LendingServiceProvider
	auth           Authorizer
	archive        EventArchive
	metrics        *Metrics
}

// NewAPIHandler provides a new instance of APIHandler.
func NewAPIHandler(logger *zap.Logger, config *Config, stats *Statistics, clock Clocker, ids UIDHandler,
	bs BookServiceProvider, us UserServiceProvider, ls LendingServiceProvider, auth Authorizer,
	archive EventArchive, metrics *Metrics) *APIHandler {
	m := &Maintenance{}
	m.enabled.Store(false)
	stats.status = make(map[int]uint64)
	stats.mu = &sync.RWMutex{}
	return &APIHandler{
		logger:         logger,
		config:         config,
		stats:          stats,
		mode:           m,
		clock:          clock,
		idsHandler:     ids,
		bookService:    bs,
		userService:    us,
		lendingService: ls,
		auth:           auth,
		archive:        archive,
		metrics:        metrics,
	}
}

// Index provides same details like `Status` handler by redirecting the request.
func (api *APIHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/status", http.StatusSeeOther)
}

// Status provides basics details about the application to the public users.
func (api *APIHandler) Status(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	if err := json.NewEncoder(w).Encode(
		map[string]interface{}{
			"requestid": requestID,
			"status":    fmt.Sprintf("up & running since %.0f mins", api.clock.Now().Sub(api.stats.started).Minutes()),
			"message":   "Hello. Library management api is available. Enjoy :)",
		},
	); err != nil {
		api.logger.Error("failed to send status response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// NotFound provides the handler serving requests on non existent routes.
func (api *APIHandler) NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := GetValueFromContext(r.Context(), ContextRequestID)
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.WriteHeader(http.StatusNotFound)
		if err := json.NewEncoder(w).Encode(
			map[string]interface{}{
				"requestid": requestID,
				"message":   "route does not exist",
				"path":      r.Method + " " + r.URL.Path,
			},
		); err != nil {
			api.logger.Error("failed to send not found response", zap.String("request.id", requestID), zap.Error(err))
		}
	}
}

// requireAdmin checks the acting user against the admin role and writes the
// failure response itself. It reports whether the caller may proceed. Both an
// unknown acting user and a non admin one surface as a denied request.
func (api *APIHandler) requireAdmin(w http.ResponseWriter, r *http.Request, userID string) bool {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	err := api.auth.Require(r.Context(), userID, RoleAdmin)
	if err == nil {
		return true
	}

	if err == ErrNotAllowed || err == ErrUserNotFound {
		api.logger.Error("action requires the admin role", zap.String("user.id", userID), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusForbidden, "Unauthorized", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return false
	}

	api.logger.Error("failed to check the acting user role", zap.String("user.id", userID), zap.String("request.id", requestID), zap.Error(err))
	errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to check the acting user role", EmptyData)
	if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
		api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
	}
	return false
}

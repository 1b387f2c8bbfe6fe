package directory

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"github.com/sealbox/client-go/internal/crypto"
)

const maxRequestBody = 4 << 10

// Server serves a [Store] over the directory wire contract.
type Server struct {
	store  Store
	token  string
	logger *slog.Logger
	router *mux.Router
}

// ServerOption configures the directory server.
type ServerOption func(*Server)

// WithAuthToken requires "Authorization: Bearer <token>" on every request.
func WithAuthToken(token string) ServerOption {
	return func(s *Server) {
		s.token = token
	}
}

// WithServerLogger sets the request logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler returns an HTTP handler serving store.
func NewHandler(store Store, opts ...ServerOption) *Server {
	s := &Server{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	router := mux.NewRouter()
	router.UseEncodedPath()
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)
	api.HandleFunc("/users/{identity}/public-key", s.handleGetPublicKey).Methods(http.MethodGet)
	api.HandleFunc("/users/{identity}/public-key", s.handlePutPublicKey).Methods(http.MethodPut)

	router.Use(s.requestIDMiddleware)
	s.router = router
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetPublicKey(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityVar(w, r)
	if !ok {
		return
	}

	key, err := s.store.GetPublicKey(r.Context(), identity)
	if err != nil {
		if errors.Is(err, ErrPublicKeyNotFound) {
			writeError(w, http.StatusNotFound, "public key not found")
			return
		}
		s.logger.Error("directory lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, PublicKeyRecord{
		Identity:  identity,
		PublicKey: crypto.BytesToDecimalList(key),
	})
}

func (s *Server) handlePutPublicKey(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityVar(w, r)
	if !ok {
		return
	}

	var record PublicKeyRecord
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if record.Identity != "" && record.Identity != identity {
		writeError(w, http.StatusBadRequest, "identity does not match path")
		return
	}

	key, err := crypto.DecimalListToBytes(record.PublicKey)
	if err != nil || len(key) != crypto.KeySize {
		writeError(w, http.StatusBadRequest, "publicKey must be 32 comma-separated decimal bytes")
		return
	}

	if err := s.store.SetPublicKey(r.Context(), identity, key); err != nil {
		s.logger.Error("directory publish failed", "error", err)
		writeError(w, http.StatusInternalServerError, "publish failed")
		return
	}

	s.logger.Info("public key published", "identity", identity)
	writeJSON(w, http.StatusOK, PublicKeyRecord{
		Identity:  identity,
		PublicKey: record.PublicKey,
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" {
			got, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !found || subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid or missing token")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			var b [8]byte
			_, _ = rand.Read(b[:])
			id = hex.EncodeToString(b[:])
		}
		w.Header().Set("X-Request-ID", id)
		s.logger.Debug("directory request", "method", r.Method, "path", r.URL.EscapedPath(), "request_id", id)
		next.ServeHTTP(w, r)
	})
}

func identityVar(w http.ResponseWriter, r *http.Request) (string, bool) {
	identity, err := url.PathUnescape(mux.Vars(r)["identity"])
	if err != nil || identity == "" {
		writeError(w, http.StatusBadRequest, "invalid identity")
		return "", false
	}
	return identity, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{
		Error:     message,
		RequestID: w.Header().Get("X-Request-ID"),
	})
}

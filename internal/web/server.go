// Package web is the single-user HTTP shell: a research form, the report of
// the last request, the slide deck download and a small JSON API.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/agent-research/internal/agent"
	"github.com/sells-group/agent-research/internal/model"
	"github.com/sells-group/agent-research/internal/research"
)

const msgBusy = "調査を実行中です。完了までお待ちください"

var errResearchAborted = eris.New("web: research aborted")

// Researcher runs one query to a complete record.
type Researcher interface {
	Run(ctx context.Context, q model.Query) model.Record
}

// DeckRenderer turns a record into a slide deck.
type DeckRenderer interface {
	Render(rec model.Record, target, focus string) (*model.Deck, error)
}

// PingFunc runs the connectivity test.
type PingFunc func(ctx context.Context) agent.PingResult

// Server serves the shell around one Session.
type Server struct {
	session    *model.Session
	researcher Researcher
	slides     DeckRenderer
	ping       PingFunc
	origins    []string
}

// NewServer wires the shell. A nil ping disables POST /api/ping.
func NewServer(session *model.Session, researcher Researcher, slides DeckRenderer, ping PingFunc, allowedOrigins []string) *Server {
	return &Server{
		session:    session,
		researcher: researcher,
		slides:     slides,
		ping:       ping,
		origins:    allowedOrigins,
	}
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/", s.index)
	r.Post("/research", s.runResearch)
	r.Get("/slides", s.downloadSlides)
	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", s.getSession)
		r.Get("/record", s.getRecord)
		r.Get("/suggestions", s.getSuggestions)
		r.Post("/ping", s.postPing)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		if r.URL.Path == "/health" {
			return
		}
		zap.L().Info("web: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSONStatus(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, pageInput{})
}

func (s *Server) runResearch(w http.ResponseWriter, r *http.Request) {
	isJSON := strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")

	q, err := decodeQuery(r, isJSON)
	if err != nil {
		writeJSONStatus(w, errorBody{Error: "invalid request body"}, http.StatusBadRequest)
		return
	}
	q.Target = strings.TrimSpace(q.Target)
	q.Focus = strings.TrimSpace(q.Focus)

	if err := research.ValidateQuery(q); err != nil {
		msg := err.Error()
		var qerr *research.QueryError
		if errors.As(err, &qerr) {
			msg = qerr.Message
		}
		if isJSON {
			writeJSONStatus(w, errorBody{Error: msg}, http.StatusBadRequest)
			return
		}
		s.renderPage(w, http.StatusBadRequest, pageInput{Query: q, Error: msg})
		return
	}

	id, err := s.session.Begin(q)
	if err != nil {
		if isJSON {
			writeJSONStatus(w, errorBody{Error: msgBusy}, http.StatusConflict)
			return
		}
		s.renderPage(w, http.StatusConflict, pageInput{Query: q, Error: msgBusy})
		return
	}
	log := zap.L().With(zap.String("request_id", id), zap.String("target", q.Target))

	// Any exit that skips Fail or Complete, a panic included, fails the run.
	settled := false
	defer func() {
		if settled {
			return
		}
		if ferr := s.session.Fail(errResearchAborted); ferr != nil {
			log.Error("web: session fail", zap.Error(ferr))
		}
	}()

	rec := s.researcher.Run(r.Context(), q)
	deck, err := s.slides.Render(rec, q.Target, q.Focus)
	if err != nil {
		log.Error("web: render slides", zap.Error(err))
		settled = true
		if ferr := s.session.Fail(err); ferr != nil {
			log.Error("web: session fail", zap.Error(ferr))
		}
		writeJSONStatus(w, errorBody{Error: "スライド生成に失敗しました"}, http.StatusInternalServerError)
		return
	}
	settled = true
	if err := s.session.Complete(rec, deck); err != nil {
		log.Error("web: session complete", zap.Error(err))
		writeJSONStatus(w, errorBody{Error: err.Error()}, http.StatusInternalServerError)
		return
	}
	log.Info("web: research stored",
		zap.String("status", string(rec.Status())),
		zap.Float64("quality", rec.QualityScore()),
	)

	if isJSON {
		writeJSONStatus(w, researchResponse{ID: id, Record: rec, Deck: deck}, http.StatusOK)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func decodeQuery(r *http.Request, isJSON bool) (model.Query, error) {
	var q model.Query
	if isJSON {
		err := json.NewDecoder(r.Body).Decode(&q)
		return q, err
	}
	if err := r.ParseForm(); err != nil {
		return q, err
	}
	q.Target = r.PostFormValue("target")
	q.Focus = r.PostFormValue("focus")
	q.Requirements = r.PostFormValue("requirements")
	return q, nil
}

func (s *Server) downloadSlides(w http.ResponseWriter, r *http.Request) {
	deck := s.session.Deck()
	if deck == nil {
		writeJSONStatus(w, errorBody{Error: "no slides yet"}, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+deck.Filename+`"`)
	_, _ = w.Write([]byte(deck.HTML))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	resp := sessionResponse{SessionSnapshot: snap}
	if snap.Record != nil {
		resp.QualityLabel, resp.QualityLevel = research.QualityLabel(snap.Record.QualityScore())
	}
	writeJSONStatus(w, resp, http.StatusOK)
}

func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	rec := s.session.Snapshot().Record
	if rec == nil {
		writeJSONStatus(w, errorBody{Error: "no record yet"}, http.StatusNotFound)
		return
	}
	writeJSONStatus(w, rec.Clean(), http.StatusOK)
}

func (s *Server) getSuggestions(w http.ResponseWriter, r *http.Request) {
	focus := r.URL.Query().Get("focus")
	writeJSONStatus(w, suggestionsResponse{Focus: focus, Suggestions: research.FocusSuggestions(focus)}, http.StatusOK)
}

func (s *Server) postPing(w http.ResponseWriter, r *http.Request) {
	if s.ping == nil {
		writeJSONStatus(w, errorBody{Error: "connectivity test unavailable"}, http.StatusNotImplemented)
		return
	}
	res := s.ping(r.Context())
	status := http.StatusOK
	if !res.OK {
		status = http.StatusBadGateway
	}
	writeJSONStatus(w, res, status)
}

type errorBody struct {
	Error string `json:"error"`
}

type researchResponse struct {
	ID     string       `json:"id"`
	Record model.Record `json:"record"`
	Deck   *model.Deck  `json:"deck"`
}

type sessionResponse struct {
	model.SessionSnapshot
	QualityLabel string                `json:"quality_label,omitempty"`
	QualityLevel research.QualityLevel `json:"quality_level,omitempty"`
}

type suggestionsResponse struct {
	Focus       string   `json:"focus"`
	Suggestions []string `json:"suggestions"`
}

func writeJSONStatus(w http.ResponseWriter, value any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(value)
}

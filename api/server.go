// Package api serves the browser board and the HTTP and websocket API used to
// create, steer, reset and watch games.
package api

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/battlesnakeio/snake/config"
	"github.com/battlesnakeio/snake/engine"
	"github.com/battlesnakeio/snake/render"
	"github.com/battlesnakeio/snake/rules"
	"github.com/battlesnakeio/snake/store"
	"github.com/battlesnakeio/snake/version"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

//go:embed board
var boardFiles embed.FS

// Server is the http server for the game api.
type Server struct {
	hs       *http.Server
	manager  *engine.Manager
	upgrader websocket.Upgrader

	// games outlive the request that created them, they are bound to the
	// server instead.
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a server listening on addr. Games are run by manager and their
// history read from manager.Store.
func New(addr string, manager *engine.Manager) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		ctx:    ctx,
		cancel: cancel,
	}

	board, err := fs.Sub(boardFiles, "board")
	if err != nil {
		log.WithError(err).Fatal("board assets missing")
	}

	router := httprouter.New()
	router.Handler(http.MethodGet, "/", http.FileServer(http.FS(board)))
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
	router.GET("/version", s.handleVersion)
	router.GET("/games", s.handleList)
	router.POST("/games", s.handleCreate)
	router.GET("/games/:id", s.handleStatus)
	router.DELETE("/games/:id", s.handleDelete)
	router.POST("/games/:id/reset", s.handleReset)
	router.POST("/games/:id/direction/:direction", s.handleDirection)
	router.GET("/games/:id/frames", s.handleFrames)
	router.GET("/games/:id/board.png", s.handleBoard)
	router.GET("/socket/:id", s.handleSocket)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	})

	s.hs = &http.Server{
		Addr:    addr,
		Handler: c.Handler(router),
	}
	return s
}

// WaitForExit serves until the server is shut down.
func (s *Server) WaitForExit() error {
	log.WithField("listen", s.hs.Addr).Info("snake api listening")
	err := s.hs.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and ends every game.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.hs.Shutdown(ctx)
	s.cancel()
	s.manager.CloseAll()
	return err
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: version.Version})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, ListResponse{Games: s.manager.IDs()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, err := s.manager.Create(s.ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	log.WithField("game", sess.ID).Info("game created")
	writeJSON(w, http.StatusOK, CreateResponse{ID: sess.ID})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, err := s.manager.Get(ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	st, err := sess.State()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := s.manager.Close(ps.ByName("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, err := s.manager.Get(ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err = sess.Reset(); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDirection(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	d, err := rules.ParseDirection(ps.ByName("direction"))
	if err != nil {
		writeError(w, err)
		return
	}
	sess, err := s.manager.Get(ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err = sess.Steer(d); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		writeError(w, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	if s.manager.Store == nil {
		writeError(w, store.ErrNotFound)
		return
	}

	frames, err := s.manager.Store.ListGameFrames(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, frames)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, err := s.manager.Get(ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	st, err := sess.State()
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := render.PNG(w, st, config.CellSize); err != nil {
		log.WithError(err).WithField("game", sess.ID).Error("unable to render board")
	}
}

// badRequest marks errors caused by the request itself.
type badRequest struct{ error }

func queryInt(r *http.Request, key string, def int) (int, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return def, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, badRequest{errors.Wrapf(err, "invalid %s", key)}
	}
	return i, nil
}

func statusFor(err error) int {
	switch errors.Cause(err) {
	case engine.ErrSessionNotFound, store.ErrNotFound:
		return http.StatusNotFound
	case engine.ErrClosed:
		return http.StatusGone
	case engine.ErrTooManySessions:
		return http.StatusServiceUnavailable
	case rules.ErrInvalidDirection:
		return http.StatusBadRequest
	}
	if _, ok := err.(badRequest); ok {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
	}
	writeJSON(w, code, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("unable to write response")
	}
}

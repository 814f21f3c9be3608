package api

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"linescan/host/log"
	"linescan/host/store"
)

// ApiServer exposes captured frames over HTTP.
type ApiServer struct {
	store *store.FrameStore
}

func NewApiServer(s *store.FrameStore) *ApiServer {
	return &ApiServer{store: s}
}

// Handler builds the API routing tree.
func (s *ApiServer) Handler() http.Handler {
	router := mux.NewRouter()
	subRouter := router.PathPrefix("/api").Subrouter()

	subRouter.HandleFunc("/sensors", s.sensorsHandler).Methods("GET")
	subRouter.HandleFunc("/sensors/{id:[0-9]+}/frame", s.frameHandler).Methods("GET")

	return router
}

// Run blocks serving the frame API on addr.
func (s *ApiServer) Run(addr string) error {
	log.Info("frame API listening on %s", addr)
	return http.ListenAndServe(addr, handlers.LoggingHandler(os.Stdout, s.Handler()))
}

func (s *ApiServer) sensorsHandler(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.Sensors()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []uint8{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ids); err != nil {
		log.Error("failed to encode sensor list: %v", err)
	}
}

func (s *ApiServer) frameHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 8)
	if err != nil {
		http.Error(w, "sensor id out of range", http.StatusBadRequest)
		return
	}
	frame, err := s.store.LatestFrame(uint8(id))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(frame); err != nil {
		log.Error("failed to encode frame: %v", err)
	}
}

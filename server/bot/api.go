package bot

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// initAPI initializes the debug REST API
func (b *FoodPollBot) initAPI() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", b.handleHealth).Methods(http.MethodGet)

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/polls", b.handleListPolls).Methods(http.MethodGet)
	return r
}

// ServeHTTP makes the bot usable as handler of an HTTP server exposing the
// debug API.
func (b *FoodPollBot) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

func (b *FoodPollBot) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (b *FoodPollBot) handleListPolls(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(b.store.Poll().List()); err != nil {
		b.logger.Warn("failed to write poll list", "error", err.Error())
	}
}

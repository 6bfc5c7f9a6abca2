package app

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	maxBodyBytes = 64 << 10

	// jsTimeLayout matches Date.prototype.toISOString.
	jsTimeLayout = "2006-01-02T15:04:05.000Z07:00"
)

func parse(w http.ResponseWriter, r *http.Request, data interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(data)
}

func sendResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		log.Error().Err(err).Msg("cannot format json")
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(jsTimeLayout)
}

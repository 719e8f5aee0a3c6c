package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/repository"
	"gitlab.com/open-soft/go-alpha-bot/src/service/exchange"
	"io"
	"net/http"
	"strconv"
)

type RunController struct {
	Runner            exchange.RunnerInterface
	SettingRepository repository.SettingStorageInterface
	LogRepository     repository.LogReaderInterface
	Profile           string
	AccessToken       string
}

// PostStartAction starts a run from the request body or, when the body is empty, from a saved profile.
func (r *RunController) PostStartAction(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if req.Method == "OPTIONS" {
		fmt.Fprintf(w, "OK")
		return
	}

	if req.Method != "POST" {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)

		return
	}

	if !isAllowed(req, r.AccessToken) {
		http.Error(w, "Forbidden", http.StatusForbidden)

		return
	}

	profile := req.URL.Query().Get("profile")
	if len(profile) == 0 {
		profile = r.Profile
	}

	config, err := r.SettingRepository.GetRunConfig(profile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	saved := config
	err = json.NewDecoder(req.Body).Decode(&config)
	if err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	// A masked secret in the body means "keep the saved one".
	if config.Secret == saved.Masked().Secret {
		config.Secret = saved.Secret
	}

	err = r.Runner.StartRun(config)
	if err != nil {
		if errors.Is(err, model.ErrRunInProgress) {
			http.Error(w, err.Error(), http.StatusConflict)

			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	encoded, _ := json.Marshal(r.Runner.State())
	fmt.Fprintf(w, string(encoded))
}

func (r *RunController) PostStopAction(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if req.Method == "OPTIONS" {
		fmt.Fprintf(w, "OK")
		return
	}

	if req.Method != "POST" {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)

		return
	}

	if !isAllowed(req, r.AccessToken) {
		http.Error(w, "Forbidden", http.StatusForbidden)

		return
	}

	r.Runner.RequestStop()

	encoded, _ := json.Marshal(r.Runner.State())
	fmt.Fprintf(w, string(encoded))
}

func (r *RunController) GetStatusAction(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if req.Method == "OPTIONS" {
		fmt.Fprintf(w, "OK")
		return
	}

	if req.Method != "GET" {
		http.Error(w, "Only GET method is allowed", http.StatusMethodNotAllowed)

		return
	}

	if !isAllowed(req, r.AccessToken) {
		http.Error(w, "Forbidden", http.StatusForbidden)

		return
	}

	encoded, _ := json.Marshal(r.Runner.State())
	fmt.Fprintf(w, string(encoded))
}

// GetLogAction returns the newest entries of a run, the current run when runId is omitted.
func (r *RunController) GetLogAction(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if req.Method == "OPTIONS" {
		fmt.Fprintf(w, "OK")
		return
	}

	if req.Method != "GET" {
		http.Error(w, "Only GET method is allowed", http.StatusMethodNotAllowed)

		return
	}

	if !isAllowed(req, r.AccessToken) {
		http.Error(w, "Forbidden", http.StatusForbidden)

		return
	}

	runId := req.URL.Query().Get("runId")
	if len(runId) == 0 {
		runId = r.Runner.State().RunId
	}

	if len(runId) == 0 {
		http.Error(w, "runId should not be empty", http.StatusBadRequest)

		return
	}

	limit := int64(100)
	if value := req.URL.Query().Get("limit"); len(value) > 0 {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			http.Error(w, "limit should be an integer", http.StatusBadRequest)

			return
		}
		limit = parsed
	}

	list := r.LogRepository.GetEntries(runId, limit)
	encoded, _ := json.Marshal(list)
	fmt.Fprintf(w, string(encoded))
}

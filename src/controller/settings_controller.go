package controller

import (
	"encoding/json"
	"fmt"
	"gitlab.com/open-soft/go-alpha-bot/src/repository"
	"gitlab.com/open-soft/go-alpha-bot/src/validator"
	"net/http"
)

type SettingsController struct {
	SettingRepository  repository.SettingStorageInterface
	RunConfigValidator validator.RunConfigValidatorInterface
	Profile            string
	AccessToken        string
}

// SettingsAction reads the profile on GET and replaces it on PUT. The secret never leaves the process.
func (s *SettingsController) SettingsAction(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
	w.Header().Set("Content-Type", "application/json")

	if req.Method == "OPTIONS" {
		fmt.Fprintf(w, "OK")
		return
	}

	if req.Method != "GET" && req.Method != "PUT" {
		http.Error(w, "Only GET and PUT methods are allowed", http.StatusMethodNotAllowed)

		return
	}

	if !isAllowed(req, s.AccessToken) {
		http.Error(w, "Forbidden", http.StatusForbidden)

		return
	}

	profile := req.URL.Query().Get("profile")
	if len(profile) == 0 {
		profile = s.Profile
	}

	saved, err := s.SettingRepository.GetRunConfig(profile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	if req.Method == "GET" {
		encoded, _ := json.Marshal(saved.Masked())
		fmt.Fprintf(w, string(encoded))

		return
	}

	config := saved
	err = json.NewDecoder(req.Body).Decode(&config)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	if config.Secret == saved.Masked().Secret {
		config.Secret = saved.Secret
	}

	if violation := s.RunConfigValidator.Validate(config); violation != nil {
		http.Error(w, violation.Error(), http.StatusBadRequest)

		return
	}

	err = s.SettingRepository.SaveRunConfig(profile, config)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	encoded, _ := json.Marshal(config.Masked())
	fmt.Fprintf(w, string(encoded))
}

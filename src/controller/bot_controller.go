package controller

import (
	"encoding/json"
	"fmt"
	"gitlab.com/open-soft/go-alpha-bot/src/service"
	"net/http"
)

type BotController struct {
	HealthService *service.HealthService
	AccessToken   string
}

func (b *BotController) GetHealthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if !isAllowed(req, b.AccessToken) {
		http.Error(w, "Forbidden", http.StatusForbidden)

		return
	}
	health := b.HealthService.HealthCheck()

	encoded, _ := json.Marshal(health)
	fmt.Fprintf(w, string(encoded))
}

// isAllowed compares the token query parameter. An empty token disables the check.
func isAllowed(req *http.Request, token string) bool {
	if len(token) == 0 {
		return true
	}

	return req.URL.Query().Get("token") == token
}

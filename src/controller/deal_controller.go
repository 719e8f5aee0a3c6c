package controller

import (
	"encoding/json"
	"fmt"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/repository"
	"gitlab.com/open-soft/go-alpha-bot/src/utils"
	"net/http"
)

type DealController struct {
	DealRepository repository.DealStorageInterface
	TimeService    utils.TimeServiceInterface
	AccessToken    string
}

func (d *DealController) GetDealListAction(w http.ResponseWriter, req *http.Request) {
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

	if !isAllowed(req, d.AccessToken) {
		http.Error(w, "Forbidden", http.StatusForbidden)

		return
	}

	list, err := d.DealRepository.GetDeals()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	encoded, _ := json.Marshal(list)
	fmt.Fprintf(w, string(encoded))
}

func (d *DealController) GetTodayAction(w http.ResponseWriter, req *http.Request) {
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

	if !isAllowed(req, d.AccessToken) {
		http.Error(w, "Forbidden", http.StatusForbidden)

		return
	}

	deal, err := d.DealRepository.GetDeal(model.DealDay(d.TimeService.GetNow()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	encoded, _ := json.Marshal(deal)
	fmt.Fprintf(w, string(encoded))
}

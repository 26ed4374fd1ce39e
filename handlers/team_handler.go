package handlers

import (
	"net/http"

	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/fadhelhaji/90Plus-backend/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(ts services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: ts,
	}
}

func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), actor, clubID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeTeam(w, r, http.StatusCreated, team)
}

func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ids, ok := getIDsFromURL(w, r, "clubID", "teamID")
	if !ok {
		return
	}

	team, err := h.teamService.GetTeam(r.Context(), ids[0], ids[1])
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeTeam(w, r, http.StatusOK, team)
}

func (h *TeamHandler) UpdateFormation(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	ids, ok := getIDsFromURL(w, r, "clubID", "teamID")
	if !ok {
		return
	}

	var input services.UpdateFormationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.UpdateFormation(r.Context(), actor, ids[0], ids[1], input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeTeam(w, r, http.StatusOK, team)
}

func (h *TeamHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	ids, ok := getIDsFromURL(w, r, "clubID", "teamID")
	if !ok {
		return
	}

	var input services.AddPlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.AddPlayerToTeam(r.Context(), actor, ids[0], ids[1], input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeTeam(w, r, http.StatusOK, team)
}

func (h *TeamHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	ids, ok := getIDsFromURL(w, r, "clubID", "teamID", "playerID")
	if !ok {
		return
	}

	team, err := h.teamService.RemovePlayerFromTeam(r.Context(), actor, ids[0], ids[1], ids[2])
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeTeam(w, r, http.StatusOK, team)
}

func (h *TeamHandler) writeTeam(w http.ResponseWriter, r *http.Request, status int, team *models.Team) {
	if err := writeJSON(w, status, team, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

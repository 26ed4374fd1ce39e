package handlers

import (
	"net/http"

	"github.com/fadhelhaji/90Plus-backend/services"
)

type ClubHandler struct {
	clubService       services.ClubService
	membershipService services.MembershipService
}

func NewClubHandler(cs services.ClubService, ms services.MembershipService) *ClubHandler {
	return &ClubHandler{
		clubService:       cs,
		membershipService: ms,
	}
}

func (h *ClubHandler) CreateClub(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var input services.CreateClubInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	club, err := h.clubService.CreateClub(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, club, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ClubHandler) ListClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.clubService.ListClubs(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, clubs, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ClubHandler) GetClubDetails(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	details, err := h.clubService.GetClubDetails(r.Context(), clubID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, details, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ClubHandler) InvitePlayer(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	ids, ok := getIDsFromURL(w, r, "clubID", "playerID")
	if !ok {
		return
	}

	if err := h.membershipService.Invite(r.Context(), actor, ids[0], ids[1]); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	messageResponse(w, r, "Player invited successfully")
}

func (h *ClubHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.membershipService.Accept(r.Context(), actor, clubID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	messageResponse(w, r, "Joined club successfully")
}

func (h *ClubHandler) RejectInvite(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.membershipService.Reject(r.Context(), actor, clubID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	messageResponse(w, r, "Invitation rejected")
}

func (h *ClubHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	ids, ok := getIDsFromURL(w, r, "clubID", "playerID")
	if !ok {
		return
	}

	if err := h.membershipService.RemoveMember(r.Context(), actor, ids[0], ids[1]); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	messageResponse(w, r, "Player removed from club")
}

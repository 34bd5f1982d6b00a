package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	familydomain "family-ledger-go/internal/domain/family"
	"family-ledger-go/internal/transport/httpserver/middleware"
)

type createFamilyRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

type joinFamilyRequest struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
}

type switchFamilyRequest struct {
	FamilyID string `json:"family_id"`
}

type updateDisplayNameRequest struct {
	DisplayName string `json:"display_name"`
}

type membershipBody struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

type familyWithMembershipResponse struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	InviteCode string         `json:"invite_code"`
	OwnerID    string         `json:"owner_id"`
	CreatedAt  time.Time      `json:"created_at"`
	Membership membershipBody `json:"membership"`
}

type familyListResponse struct {
	Items          []familyWithMembershipResponse `json:"items"`
	ActiveFamilyID string                         `json:"active_family_id"`
}

type familyResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"invite_code"`
	OwnerID    string    `json:"owner_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type familyMemberResponse struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
	Name        *string   `json:"name"`
	AvatarURL   *string   `json:"avatar_url"`
}

func (h *Handlers) ListFamilies(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	sess := h.Sessions.ForUser(user.ID)
	if err := sess.EnsureLoaded(r.Context()); err != nil {
		h.log.InternalError("families.list: load memberships failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	memberships := sess.Memberships()
	items := make([]familyWithMembershipResponse, 0, len(memberships))
	for _, entry := range memberships {
		items = append(items, toFamilyWithMembershipResponse(entry))
	}

	activeID := ""
	if active, ok := sess.ActiveFamily(); ok {
		activeID = active.ID
	}

	writeJSON(w, http.StatusOK, familyListResponse{Items: items, ActiveFamilyID: activeID})
}

func (h *Handlers) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}
	if req.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "display name is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	sess := h.Sessions.ForUser(user.ID)
	result, err := sess.CreateFamily(r.Context(), req.Name, req.DisplayName)
	if err != nil {
		h.log.InternalError("families.create: create family failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toFamilyResponse(result))
}

func (h *Handlers) JoinFamily(w http.ResponseWriter, r *http.Request) {
	var req joinFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}
	if req.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "display name is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	sess := h.Sessions.ForUser(user.ID)
	result, err := sess.JoinFamily(r.Context(), req.Code, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrFamilyCodeNotFound):
			h.log.BusinessError("families.join: invite code not found", err, "user_id", user.ID, "code", req.Code)
			writeError(w, http.StatusNotFound, "family_code_not_found", "family not found, check the invite code")
		case errors.Is(err, familydomain.ErrAlreadyMember):
			h.log.BusinessError("families.join: already a member", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "already_member", "already a member of this family")
		default:
			h.log.InternalError("families.join: join family failed", err, "user_id", user.ID, "code", req.Code)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(result))
}

// SwitchFamily persists a new active selection. An id outside the
// caller's memberships is a documented no-op, not an error.
func (h *Handlers) SwitchFamily(w http.ResponseWriter, r *http.Request) {
	var req switchFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.FamilyID = strings.TrimSpace(req.FamilyID)
	if req.FamilyID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "family_id is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	sess := h.Sessions.ForUser(user.ID)
	if err := sess.EnsureLoaded(r.Context()); err != nil {
		h.log.InternalError("families.switch: load memberships failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	if !sess.SwitchFamily(req.FamilyID) {
		h.log.Debug("families.switch: family not in memberships, ignoring", "user_id", user.ID, "family_id", req.FamilyID)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListFamilyMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	sess := h.Sessions.ForUser(user.ID)
	if err := sess.EnsureLoaded(r.Context()); err != nil {
		h.log.InternalError("families.members: load memberships failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	members, err := sess.Members(r.Context())
	if err != nil {
		h.log.InternalError("families.members: list members failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]familyMemberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, familyMemberResponse{
			UserID:      member.UserID,
			DisplayName: member.DisplayName,
			Role:        member.Role,
			JoinedAt:    member.JoinedAt,
			Name:        member.Name,
			AvatarURL:   member.AvatarURL,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) UpdateDisplayName(w http.ResponseWriter, r *http.Request) {
	var req updateDisplayNameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "display name is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	sess := h.Sessions.ForUser(user.ID)
	if err := sess.EnsureLoaded(r.Context()); err != nil {
		h.log.InternalError("families.rename: load memberships failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	if err := sess.UpdateDisplayName(r.Context(), req.DisplayName); err != nil {
		h.log.InternalError("families.rename: update display name failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toFamilyResponse(fam *familydomain.Family) familyResponse {
	return familyResponse{
		ID:         fam.ID,
		Name:       fam.Name,
		InviteCode: fam.InviteCode,
		OwnerID:    fam.OwnerID,
		CreatedAt:  fam.CreatedAt,
	}
}

func toFamilyWithMembershipResponse(entry familydomain.FamilyWithMembership) familyWithMembershipResponse {
	return familyWithMembershipResponse{
		ID:         entry.ID,
		Name:       entry.Name,
		InviteCode: entry.InviteCode,
		OwnerID:    entry.OwnerID,
		CreatedAt:  entry.CreatedAt,
		Membership: membershipBody{
			ID:          entry.Membership.ID,
			DisplayName: entry.Membership.DisplayName,
			Role:        entry.Membership.Role,
			JoinedAt:    entry.Membership.JoinedAt,
		},
	}
}

package controller

import (
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/sharetube/syncroom/pkg/rest"
)

var (
	roomNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,30}$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,20}$`)
)

func (c controller) listRooms(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.roomService.ListRooms()})
}

type validateJoinRequest struct {
	Username string `json:"username" validate:"required,max=20"`
}

type validateJoinResponse struct {
	Room      string `json:"room"`
	Available bool   `json:"available"`
}

func (c controller) validateJoin(w http.ResponseWriter, r *http.Request) {
	roomName := chi.URLParam(r, "room-name")
	if !roomNameRe.MatchString(roomName) {
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found"})
		return
	}

	var req validateJoinRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		c.logger.InfoContext(r.Context(), "failed to read json", "error", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	if !usernameRe.MatchString(req.Username) {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": ErrInvalidUsername.Error()})
		return
	}

	rm, err := c.roomService.GetRoom(r.Context(), roomName)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to get room", "room", roomName, "error", err)
		rest.WriteJSON(w, http.StatusServiceUnavailable, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": validateJoinResponse{
		Room:      roomName,
		Available: !rm.NameInUse(req.Username),
	}})
}

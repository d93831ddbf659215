package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/domain/types"
	"github.com/secmon-lab/dinewise/pkg/usecase"
)

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.uc.User.Get(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

type updatePreferencesRequest struct {
	Location    *string            `json:"location"`
	Preferences *model.Preferences `json:"preferences"`
}

func (s *Server) updatePreferences(w http.ResponseWriter, r *http.Request) {
	var req updatePreferencesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.uc.User.UpdatePreferences(r.Context(), userIDFrom(r.Context()), usecase.UpdateUserInput{
		Location:    req.Location,
		Preferences: req.Preferences,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.uc.Chat.GetOrCreateConversation(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, conv)
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID int64  `json:"conversationId"`
}

type chatResponse struct {
	Message         model.Message       `json:"message"`
	Recommendations []*model.Restaurant `json:"recommendations"`
	Intent          types.Intent        `json:"intent"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Message == "" || req.ConversationID == 0 {
		writeError(w, r, goerr.Wrap(usecase.ErrInvalidRequest, "message and conversationId are required"))
		return
	}

	result, err := s.uc.Chat.SubmitTurn(r.Context(), userIDFrom(r.Context()), usecase.TurnInput{
		ConversationID: req.ConversationID,
		Utterance:      req.Message,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	recommendations := result.Recommendations
	if recommendations == nil {
		recommendations = []*model.Restaurant{}
	}
	writeJSON(w, r, http.StatusOK, chatResponse{
		Message:         result.Message,
		Recommendations: recommendations,
		Intent:          result.Intent,
	})
}

type callRequest struct {
	RestaurantID    int64  `json:"restaurantId"`
	PartySize       int    `json:"partySize"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	SpecialRequests string `json:"specialRequests"`
	ConversationID  int64  `json:"conversationId"`
}

type callResponse struct {
	Reservation       *model.Reservation `json:"reservation"`
	CallStatus        string             `json:"callStatus"`
	EstimatedDuration int                `json:"estimatedDuration"`
}

func (s *Server) requestCall(w http.ResponseWriter, r *http.Request) {
	var req callRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.uc.Reservation.RequestCall(r.Context(), userIDFrom(r.Context()), usecase.CallInput{
		RestaurantID:    req.RestaurantID,
		PartySize:       req.PartySize,
		Date:            req.Date,
		Time:            req.Time,
		SpecialRequests: req.SpecialRequests,
		ConversationID:  req.ConversationID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, callResponse{
		Reservation:       result.Reservation,
		CallStatus:        result.CallStatus,
		EstimatedDuration: result.EstimatedDuration,
	})
}

func (s *Server) callStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.uc.Reservation.CheckCallStatus(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

func (s *Server) listReservations(w http.ResponseWriter, r *http.Request) {
	list, err := s.uc.Reservation.List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

type updateStatusRequest struct {
	Status             types.ReservationStatus `json:"status"`
	ConfirmationNumber string                  `json:"confirmationNumber"`
	CallTranscript     string                  `json:"callTranscript"`
}

func (s *Server) updateReservationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.uc.Reservation.UpdateStatus(r.Context(), userIDFrom(r.Context()), id, usecase.StatusUpdate{
		Status:             req.Status,
		ConfirmationNumber: req.ConfirmationNumber,
		CallTranscript:     req.CallTranscript,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request) {
	list, err := s.uc.Favorite.List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

type addFavoriteRequest struct {
	RestaurantID int64 `json:"restaurantId"`
}

func (s *Server) addFavorite(w http.ResponseWriter, r *http.Request) {
	var req addFavoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	favorite, err := s.uc.Favorite.Add(r.Context(), userIDFrom(r.Context()), req.RestaurantID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, favorite)
}

func (s *Server) removeFavorite(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := pathID(r, "restaurantID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	removed, err := s.uc.Favorite.Remove(r.Context(), userIDFrom(r.Context()), restaurantID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !removed {
		writeJSON(w, r, http.StatusNotFound, messageResponse{Message: "Favorite not found"})
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Favorite removed"})
}

func (s *Server) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	restaurant, err := s.uc.Restaurant.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, restaurant)
}

package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/Freeeeeet/shelf_server/internal/service"
	"github.com/julienschmidt/httprouter"
)

type bookingRequest struct {
	Name                  string     `json:"name"`
	From                  *time.Time `json:"from"`
	To                    *time.Time `json:"to"`
	CustodianUserID       *string    `json:"custodian_user_id"`
	CustodianTeamMemberID *string    `json:"custodian_team_member_id"`
	AssetIDs              []string   `json:"asset_ids"`
}

func (req bookingRequest) input() service.BookingInput {
	return service.BookingInput{
		Name:                  req.Name,
		From:                  req.From,
		To:                    req.To,
		CustodianUserID:       req.CustodianUserID,
		CustodianTeamMemberID: req.CustodianTeamMemberID,
		AssetIDs:              req.AssetIDs,
	}
}

type bookingAssetsRequest struct {
	AssetIDs []string `json:"asset_ids"`
}

type bookingList struct {
	Bookings []*model.Booking `json:"bookings"`
	Total    int              `json:"total"`
}

func (s *Server) listBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	values := r.URL.Query()

	var statuses []model.BookingStatus
	for _, raw := range listParam(values, "status") {
		statuses = append(statuses, model.BookingStatus(raw))
	}

	var teamMemberID *string
	if raw := values.Get("teamMember"); raw != "" {
		teamMemberID = &raw
	}

	bookings, err := s.bookings.List(r.Context(), actorFrom(r.Context()), statuses, teamMemberID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}

	writeJSON(w, http.StatusOK, bookingList{Bookings: bookings, Total: len(bookings)})
}

func (s *Server) createBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req bookingRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	booking, err := s.bookings.Create(r.Context(), actorFrom(r.Context()), req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) getBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := s.bookings.Get(r.Context(), actorFrom(r.Context()), ps.ByName("bookingId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) updateBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req bookingRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	booking, err := s.bookings.Update(r.Context(), actorFrom(r.Context()), ps.ByName("bookingId"), req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) deleteBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := s.bookings.Delete(r.Context(), actorFrom(r.Context()), ps.ByName("bookingId")); err != nil {
		s.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addBookingAssets(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.changeBookingAssets(w, r, ps, s.bookings.AddAssets)
}

func (s *Server) removeBookingAssets(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.changeBookingAssets(w, r, ps, s.bookings.RemoveAssets)
}

type assetsChange func(ctx context.Context, actor service.Actor, id string, assetIDs []string) (*model.Booking, error)

func (s *Server) changeBookingAssets(w http.ResponseWriter, r *http.Request, ps httprouter.Params, change assetsChange) {
	var req bookingAssetsRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	booking, err := change(r.Context(), actorFrom(r.Context()), ps.ByName("bookingId"), req.AssetIDs)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

type statusAction func(ctx context.Context, actor service.Actor, id string) (*model.Booking, error)

// bookingAction обработчик для переходов статуса: reserve, checkout, checkin, cancel, archive
func (s *Server) bookingAction(action statusAction) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		booking, err := action(r.Context(), actorFrom(r.Context()), ps.ByName("bookingId"))
		if err != nil {
			s.fail(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, booking)
	}
}

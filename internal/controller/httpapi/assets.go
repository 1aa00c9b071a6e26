package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/shelf_server/internal/apperr"
	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/Freeeeeet/shelf_server/internal/repository"
	"github.com/julienschmidt/httprouter"
)

const labelAssets = "Assets"

type availabilityRequest struct {
	AvailableToBook *bool `json:"available_to_book"`
}

// listAssets список активов с фильтрами и проверкой доступности для окна бронирования
func (s *Server) listAssets(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	q, err := assetQueryFromRequest(r, ps.ByName("orgId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	page, err := s.assets.List(r.Context(), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func assetQueryFromRequest(r *http.Request, orgID string) (repository.AssetQuery, error) {
	values := r.URL.Query()
	q := repository.AssetQuery{
		OrganizationID: orgID,
		Search:         values.Get("search"),
		CategoryIDs:    listParam(values, "category"),
		LocationIDs:    listParam(values, "location"),
		TagIDs:         listParam(values, "tag"),
		TeamMemberIDs:  listParam(values, "teamMember"),
	}

	if raw := values.Get("status"); raw != "" {
		status := model.AssetStatus(raw)
		if !status.Valid() {
			return q, apperr.InvalidRequest(labelAssets, "unknown asset status").With("status", raw)
		}
		q.Status = &status
	}

	var err error
	if q.Page, err = intParam(values, "page"); err != nil {
		return q, err
	}
	if q.PerPage, err = intParam(values, "perPage"); err != nil {
		return q, err
	}
	if q.Availability.HideUnavailable, err = boolParam(values, "hideUnavailable"); err != nil {
		return q, err
	}
	if q.Availability.BookingFrom, err = timeParam(values, "bookingFrom"); err != nil {
		return q, err
	}
	if q.Availability.BookingTo, err = timeParam(values, "bookingTo"); err != nil {
		return q, err
	}
	q.Availability.UnhideBookingIDs = listParam(values, "unhideBookingIds")

	return q, nil
}

func (s *Server) updateAssetAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req availabilityRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.AvailableToBook == nil {
		s.fail(w, r, apperr.InvalidRequest(labelAssets, "available_to_book is required"))
		return
	}

	err := s.assets.UpdateBookingAvailability(r.Context(), ps.ByName("orgId"), ps.ByName("assetId"), *req.AvailableToBook)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"available_to_book": *req.AvailableToBook})
}

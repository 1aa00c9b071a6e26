package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/shelf_server/internal/service"
	"github.com/julienschmidt/httprouter"
)

func (s *Server) getAssetQr(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor := actorFrom(r.Context())

	qr, err := s.qrs.GetOrCreateForAsset(r.Context(), actor.UserID, actor.OrganizationID, ps.ByName("assetId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, qr)
}

// getQrCode отдаёт PNG изображение кода, размер задаётся ?size=
func (s *Server) getQrCode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	qr, err := s.qrs.Get(r.Context(), actorFrom(r.Context()), ps.ByName("qrId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	png, err := s.qrs.GenerateCode(qr.ID, service.QrSize(r.URL.Query().Get("size")))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

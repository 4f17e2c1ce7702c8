package owners

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

func RegisterRoutes(r chi.Router, svc *Service, log *zap.Logger) {
	r.Get("/owners", listOwnersHandler(svc))
	r.Post("/owners", addOwnerHandler(svc, log))
}

// ownerRequest es el cuerpo para registrar un owner.
type ownerRequest struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// ownerResponse representa un owner devuelto por la API.
type ownerResponse struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// listOwnersHandler godoc
// @Summary Listar owners
// @Description Devuelve los owners configurados al arrancar más los registrados en runtime.
// @Tags owners
// @Produce json
// @Success 200 {array} ownerResponse
// @Router /owners [get]
func listOwnersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := svc.Owners()

		out := make([]ownerResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toOwnerResponse(o))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// addOwnerHandler godoc
// @Summary Registrar owner
// @Description Registra un owner y lo devuelve tal cual quedó guardado.
// @Tags owners
// @Accept json
// @Produce json
// @Param payload body ownerRequest true "Owner a registrar"
// @Success 200 {object} ownerResponse
// @Failure 400 {string} string "invalid json / owner inválido"
// @Router /owners [post]
func addOwnerHandler(svc *Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ownerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		o, err := svc.AddOwner(r.Context(), Owner{Name: req.Name, Age: req.Age})
		if err != nil {
			if errors.Is(err, errors.NotValid) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("add owner failed", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toOwnerResponse(o))
	}
}

func toOwnerResponse(o Owner) ownerResponse {
	return ownerResponse{
		Name: o.Name,
		Age:  o.Age,
	}
}

// writeJSON está duplicado en owners y pets a propósito (igual que en el resto de módulos).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

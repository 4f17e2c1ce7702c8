package pets

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

func RegisterRoutes(r chi.Router, svc *Service, log *zap.Logger) {
	r.Route("/owners/{owner}/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc, log))
		pr.Post("/", createPetHandler(svc, log))

		pr.Get("/{pet}", getPetHandler(svc, log))
		pr.Patch("/{pet}", updatePetHandler(svc, log))
	})
}

type createPetRequest struct {
	Name   string `json:"name"`
	Health string `json:"health" enums:"VACCINATED,REQUIRES_VACCINATION"` // opcional
}

type updatePetRequest struct {
	// nil = no tocar
	Name   *string `json:"name"`
	Health *string `json:"health" enums:"VACCINATED,REQUIRES_VACCINATION"`
}

// petOwnerResponse es la referencia al owner dentro de una mascota (sin pets anidados).
type petOwnerResponse struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// petResponse representa una mascota devuelta por la API.
type petResponse struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Owner  petOwnerResponse `json:"owner"`
	Health Health           `json:"health"`
}

// listPetsHandler godoc
// @Summary Listar mascotas de un owner
// @Description Sin `health` devuelve todas las mascotas del owner; con `health` filtra por estado de vacunación.
// @Tags pets
// @Produce json
// @Param owner path string true "Nombre del owner"
// @Param health query string false "VACCINATED | REQUIRES_VACCINATION"
// @Success 200 {array} petResponse
// @Failure 400 {string} string "health inválido"
// @Router /owners/{owner}/pets [get]
func listPetsHandler(svc *Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := pathParam(w, r, "owner")
		if !ok {
			return
		}

		var (
			items []Pet
			err   error
		)
		// Con filtro => búsqueda por owner+health; sin filtro => solo por owner.
		if raw := strings.TrimSpace(r.URL.Query().Get("health")); raw != "" {
			h, perr := ParseHealth(raw)
			if perr != nil {
				http.Error(w, perr.Error(), http.StatusBadRequest)
				return
			}
			items, err = svc.GetPetsWithHealth(r.Context(), owner, h)
		} else {
			items, err = svc.GetPets(r.Context(), owner)
		}
		if err != nil {
			writeError(w, log, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Obtener mascota
// @Tags pets
// @Produce json
// @Param owner path string true "Nombre del owner"
// @Param pet path string true "Nombre de la mascota"
// @Success 200 {object} petResponse
// @Failure 404 {string} string "pet not found"
// @Router /owners/{owner}/pets/{pet} [get]
func getPetHandler(svc *Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := pathParam(w, r, "owner")
		if !ok {
			return
		}
		name, ok := pathParam(w, r, "pet")
		if !ok {
			return
		}

		p, err := svc.GetPet(r.Context(), owner, name)
		if err != nil {
			writeError(w, log, err)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// createPetHandler godoc
// @Summary Crear mascota
// @Description El owner debe existir (configurado o registrado). health por defecto: VACCINATED.
// @Tags pets
// @Accept json
// @Produce json
// @Param owner path string true "Nombre del owner"
// @Param payload body createPetRequest true "Datos de la mascota"
// @Success 201 {object} petResponse
// @Failure 400 {string} string "invalid json / datos inválidos"
// @Failure 404 {string} string "owner not found"
// @Router /owners/{owner}/pets [post]
func createPetHandler(svc *Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := pathParam(w, r, "owner")
		if !ok {
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := CreateInput{Name: req.Name}
		if strings.TrimSpace(req.Health) != "" {
			h, err := ParseHealth(req.Health)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			in.Health = h
		}

		p, err := svc.Create(r.Context(), owner, in)
		if err != nil {
			writeError(w, log, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// updatePetHandler godoc
// @Summary Actualizar mascota
// @Description PATCH parcial de name y/o health.
// @Tags pets
// @Accept json
// @Produce json
// @Param owner path string true "Nombre del owner"
// @Param pet path string true "Nombre de la mascota"
// @Param payload body updatePetRequest true "Campos a modificar"
// @Success 200 {object} petResponse
// @Failure 400 {string} string "invalid json / datos inválidos"
// @Failure 404 {string} string "pet not found"
// @Router /owners/{owner}/pets/{pet} [patch]
func updatePetHandler(svc *Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := pathParam(w, r, "owner")
		if !ok {
			return
		}
		name, ok := pathParam(w, r, "pet")
		if !ok {
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updatePetRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{Name: req.Name}
		if req.Health != nil {
			h, err := ParseHealth(*req.Health)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			in.Health = &h
		}

		p, err := svc.Update(r.Context(), owner, name, in)
		if err != nil {
			writeError(w, log, err)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// pathParam devuelve el parámetro de ruta ya decodificado.
// chi rutea sobre RawPath cuando el request trae escapes como %2F; en ese caso
// el valor llega crudo y hay que decodificarlo. Si no, ya viene decodificado.
func pathParam(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, true
	}
	dec, err := url.PathUnescape(v)
	if err != nil {
		http.Error(w, "invalid "+key+" in path", http.StatusBadRequest)
		return "", false
	}
	return dec, true
}

// writeError traduce errores del store/servicio a status HTTP.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, errors.NotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, errors.NotValid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error("pets request failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:   p.ID,
		Name: p.Name,
		Owner: petOwnerResponse{
			Name: p.Owner.Name,
			Age:  p.Owner.Age,
		},
		Health: p.Health,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

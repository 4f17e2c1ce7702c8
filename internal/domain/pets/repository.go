package pets

import (
	"context"

	"pet-owners/internal/domain/owners"

	"github.com/juju/errors"
)

// Repository es el Pet Store. Los Pet devueltos traen el Owner ya cargado.
// Matching exacto y case-sensitive; orden por nombre de mascota.
type Repository interface {
	// Create asigna el ID. Falla con NotValid si el owner no está seteado.
	Create(ctx context.Context, p Pet) (Pet, error)
	// Update reemplaza name/owner/health del pet con ese ID.
	Update(ctx context.Context, p Pet) (Pet, error)

	FindByOwnerName(ctx context.Context, ownerName string) ([]Pet, error)
	// FindByNameAndOwnerName devuelve NotFound si no hay coincidencia.
	FindByNameAndOwnerName(ctx context.Context, petName, ownerName string) (Pet, error)
	FindByOwnerNameAndHealth(ctx context.Context, ownerName string, health Health) ([]Pet, error)

	// SaveOwner deja guardado el owner con esa edad; los Pet ya existentes de ese
	// owner la reflejan en las búsquedas siguientes.
	SaveOwner(ctx context.Context, o owners.Owner) error
}

// Validate es lo que cualquier implementación del store exige antes de guardar.
func Validate(p Pet) error {
	if p.Owner.Name == "" {
		return errors.NotValidf("pet without owner")
	}
	if !p.Health.IsValid() {
		return errors.NotValidf("health %q", p.Health)
	}
	return nil
}

// NotFound arma el error estándar de búsqueda exacta sin resultado.
func NotFound(petName, ownerName string) error {
	return errors.NotFoundf("pet %q of owner %q", petName, ownerName)
}

package pets

import (
	"strings"

	"pet-owners/internal/domain/owners"

	"github.com/juju/errors"
)

// Health es el estado de vacunación de una mascota.
// @Enum VACCINATED, REQUIRES_VACCINATION
type Health string

const (
	HealthVaccinated          Health = "VACCINATED"
	HealthRequiresVaccination Health = "REQUIRES_VACCINATION"
)

// DefaultHealth se aplica cuando no se indica estado al crear.
const DefaultHealth = HealthVaccinated

func (h Health) IsValid() bool {
	switch h {
	case HealthVaccinated, HealthRequiresVaccination:
		return true
	default:
		return false
	}
}

// ParseHealth acepta los nombres del enum sin distinguir mayúsculas.
func ParseHealth(s string) (Health, error) {
	h := Health(strings.ToUpper(strings.TrimSpace(s)))
	if !h.IsValid() {
		return "", errors.NotValidf("health %q", s)
	}
	return h, nil
}

// Pet representa una mascota. Siempre pertenece a exactamente un Owner.
type Pet struct {
	ID     string
	Name   string
	Owner  owners.Owner // asociación no propietaria, se usa para filtrar
	Health Health
}

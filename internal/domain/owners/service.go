package owners

import (
	"context"
	"strings"
	"sync"

	"github.com/juju/errors"
)

// Service agrega los owners configurados y los registrados en runtime.
// Se construye una sola vez y se comparte por referencia (ver router.New).
type Service struct {
	// initial se calcula en NewService y no se vuelve a tocar.
	initial []Owner

	mu    sync.RWMutex
	added []Owner
}

func NewService(entries []Configuration) *Service {
	return &Service{
		initial: FromConfiguration(entries),
	}
}

// InitialOwners devuelve los owners derivados de la configuración.
func (s *Service) InitialOwners() []Owner {
	out := make([]Owner, len(s.initial))
	copy(out, s.initial)
	return out
}

// Owners devuelve la colección actual: iniciales primero, luego los agregados en runtime.
func (s *Service) Owners() []Owner {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Owner, 0, len(s.initial)+len(s.added))
	out = append(out, s.initial...)
	out = append(out, s.added...)
	return out
}

// AddOwner registra un owner nuevo. No se exige unicidad de nombre.
func (s *Service) AddOwner(ctx context.Context, o Owner) (Owner, error) {
	o.Name = strings.TrimSpace(o.Name)
	if o.Name == "" {
		return Owner{}, errors.NotValidf("owner without name")
	}
	if o.Age < 0 {
		return Owner{}, errors.NotValidf("owner age %d", o.Age)
	}

	s.mu.Lock()
	s.added = append(s.added, o)
	s.mu.Unlock()

	return o, nil
}

// Find busca por nombre exacto (case-sensitive). Gana la primera coincidencia.
func (s *Service) Find(name string) (Owner, bool) {
	for _, o := range s.initial {
		if o.Name == name {
			return o, true
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.added {
		if o.Name == name {
			return o, true
		}
	}
	return Owner{}, false
}

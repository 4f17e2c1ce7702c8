package memory

import (
	"context"
	"sort"
	"sync"

	"pet-owners/internal/domain/owners"
	"pet-owners/internal/domain/pets"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

type petRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID: make(map[string]pets.Pet),
	}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	if err := pets.Validate(p); err != nil {
		return pets.Pet{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// El ID lo asigna el store; cualquier valor que venga del cliente se ignora.
	p.ID = uuid.NewString()
	r.byID[p.ID] = p
	return p, nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	if err := pets.Validate(p); err != nil {
		return pets.Pet{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return pets.Pet{}, errors.NotFoundf("pet %q", p.ID)
	}
	r.byID[p.ID] = p
	return p, nil
}

func (r *petRepo) FindByOwnerName(ctx context.Context, ownerName string) ([]pets.Pet, error) {
	return r.filter(func(p pets.Pet) bool {
		return p.Owner.Name == ownerName
	}), nil
}

func (r *petRepo) FindByNameAndOwnerName(ctx context.Context, petName, ownerName string) (pets.Pet, error) {
	out := r.filter(func(p pets.Pet) bool {
		return p.Name == petName && p.Owner.Name == ownerName
	})
	if len(out) == 0 {
		return pets.Pet{}, pets.NotFound(petName, ownerName)
	}
	return out[0], nil
}

func (r *petRepo) FindByOwnerNameAndHealth(ctx context.Context, ownerName string, health pets.Health) ([]pets.Pet, error) {
	return r.filter(func(p pets.Pet) bool {
		return p.Owner.Name == ownerName && p.Health == health
	}), nil
}

func (r *petRepo) SaveOwner(ctx context.Context, o owners.Owner) error {
	if o.Name == "" {
		return errors.NotValidf("owner without name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.byID {
		if p.Owner.Name == o.Name {
			p.Owner = o
			r.byID[id] = p
		}
	}
	return nil
}

func (r *petRepo) filter(match func(pets.Pet) bool) []pets.Pet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if match(p) {
			out = append(out, p)
		}
	}

	// Mismo orden que el store SQL: nombre, luego id.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})

	return out
}

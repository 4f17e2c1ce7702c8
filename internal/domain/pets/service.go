package pets

import (
	"context"
	"strings"

	"pet-owners/internal/domain/owners"

	"github.com/juju/errors"
)

// OwnerDirectory resuelve owners por nombre.
// Lo implementa *owners.Service; la interfaz evita acoplar pets al estado interno de owners.
type OwnerDirectory interface {
	Find(name string) (owners.Owner, bool)
}

type Service struct {
	repo   Repository
	owners OwnerDirectory
}

func NewService(repo Repository, dir OwnerDirectory) *Service {
	return &Service{
		repo:   repo,
		owners: dir,
	}
}

// GetPet delega en la búsqueda exacta del store; el NotFound se propaga tal cual.
func (s *Service) GetPet(ctx context.Context, ownerName, petName string) (Pet, error) {
	return s.repo.FindByNameAndOwnerName(ctx, petName, ownerName)
}

func (s *Service) GetPets(ctx context.Context, ownerName string) ([]Pet, error) {
	return s.repo.FindByOwnerName(ctx, ownerName)
}

func (s *Service) GetPetsWithHealth(ctx context.Context, ownerName string, health Health) ([]Pet, error) {
	return s.repo.FindByOwnerNameAndHealth(ctx, ownerName, health)
}

type CreateInput struct {
	Name   string
	Health Health // vacío => DefaultHealth
}

func (s *Service) Create(ctx context.Context, ownerName string, in CreateInput) (Pet, error) {
	o, ok := s.owners.Find(ownerName)
	if !ok {
		return Pet{}, errors.NotFoundf("owner %q", ownerName)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Pet{}, errors.NotValidf("pet without name")
	}

	health := in.Health
	if health == "" {
		health = DefaultHealth
	}

	return s.repo.Create(ctx, Pet{
		Name:   name,
		Owner:  o,
		Health: health,
	})
}

// UpdateInput usa punteros: nil = no tocar.
type UpdateInput struct {
	Name   *string
	Health *Health
}

func (s *Service) Update(ctx context.Context, ownerName, petName string, in UpdateInput) (Pet, error) {
	p, err := s.repo.FindByNameAndOwnerName(ctx, petName, ownerName)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, errors.NotValidf("pet without name")
		}
		p.Name = name
	}
	if in.Health != nil {
		p.Health = *in.Health
	}

	return s.repo.Update(ctx, p)
}

// Seed crea las mascotas declaradas en la configuración (health por defecto).
// Las que ya existen para ese owner se saltean, así un store persistente no duplica al reiniciar.
func (s *Service) Seed(ctx context.Context, entries []owners.Configuration) (int, error) {
	created := 0
	for _, c := range entries {
		o := c.Owner()
		// La edad configurada manda sobre la que haya quedado guardada.
		if o.Name == "" {
			continue
		}
		if err := s.repo.SaveOwner(ctx, o); err != nil {
			return created, errors.Annotatef(err, "seeding owner %q", o.Name)
		}
		for _, name := range c.Pets {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}

			_, err := s.repo.FindByNameAndOwnerName(ctx, name, o.Name)
			if err == nil {
				continue
			}
			if !errors.Is(err, errors.NotFound) {
				return created, errors.Annotatef(err, "seeding pet %q of owner %q", name, o.Name)
			}

			if _, err := s.repo.Create(ctx, Pet{Name: name, Owner: o, Health: DefaultHealth}); err != nil {
				return created, errors.Annotatef(err, "seeding pet %q of owner %q", name, o.Name)
			}
			created++
		}
	}
	return created, nil
}

package orm

import (
	"context"
	"database/sql"

	"pet-owners/internal/domain/owners"
	"pet-owners/internal/domain/pets"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/uptrace/bun"
)

// PetsRepo implementa pets.Repository sobre bun (postgres o sqlite).
// El owner se carga con Relation("Owner"): un solo JOIN, sin lookup aparte.
type PetsRepo struct {
	db *bun.DB
}

func NewPetsRepo(db *bun.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

var _ pets.Repository = (*PetsRepo)(nil)

// Bootstrap crea las tablas si no existen. No es un esquema de migraciones.
func (r *PetsRepo) Bootstrap(ctx context.Context) error {
	if _, err := r.db.NewCreateTable().
		Model((*ownerModel)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return errors.Annotate(err, "creating owners table")
	}

	if _, err := r.db.NewCreateTable().
		Model((*petModel)(nil)).
		IfNotExists().
		ForeignKey(`("owner_id") REFERENCES "owners" ("id")`).
		Exec(ctx); err != nil {
		return errors.Annotate(err, "creating pets table")
	}

	return nil
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	if err := pets.Validate(p); err != nil {
		return pets.Pet{}, err
	}

	row := &petModel{
		ID:     uuid.NewString(),
		Name:   p.Name,
		Health: string(p.Health),
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		o, err := ensureOwner(ctx, tx, p.Owner)
		if err != nil {
			return err
		}
		row.OwnerID = o.ID
		row.Owner = o

		_, err = tx.NewInsert().Model(row).Exec(ctx)
		return err
	})
	if err != nil {
		return pets.Pet{}, errors.Annotatef(err, "creating pet %q", p.Name)
	}

	return row.toDomain(), nil
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	if err := pets.Validate(p); err != nil {
		return pets.Pet{}, err
	}

	row := &petModel{
		ID:     p.ID,
		Name:   p.Name,
		Health: string(p.Health),
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		o, err := ensureOwner(ctx, tx, p.Owner)
		if err != nil {
			return err
		}
		row.OwnerID = o.ID
		row.Owner = o

		res, err := tx.NewUpdate().
			Model(row).
			Column("name", "owner_id", "health").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return errors.NotFoundf("pet %q", p.ID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errors.NotFound) {
			return pets.Pet{}, err
		}
		return pets.Pet{}, errors.Annotatef(err, "updating pet %q", p.ID)
	}

	return row.toDomain(), nil
}

func (r *PetsRepo) FindByOwnerName(ctx context.Context, ownerName string) ([]pets.Pet, error) {
	var rows []petModel
	err := r.selectPets(&rows).
		Where("owner.name = ?", ownerName).
		Scan(ctx)
	if err != nil {
		return nil, errors.Annotatef(err, "finding pets of owner %q", ownerName)
	}
	return toDomain(rows), nil
}

func (r *PetsRepo) FindByNameAndOwnerName(ctx context.Context, petName, ownerName string) (pets.Pet, error) {
	row := new(petModel)
	err := r.selectPets(row).
		Where("p.name = ?", petName).
		Where("owner.name = ?", ownerName).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.NotFound(petName, ownerName)
		}
		return pets.Pet{}, errors.Annotatef(err, "finding pet %q of owner %q", petName, ownerName)
	}
	return row.toDomain(), nil
}

func (r *PetsRepo) FindByOwnerNameAndHealth(ctx context.Context, ownerName string, health pets.Health) ([]pets.Pet, error) {
	var rows []petModel
	err := r.selectPets(&rows).
		Where("owner.name = ?", ownerName).
		Where("p.health = ?", string(health)).
		Scan(ctx)
	if err != nil {
		return nil, errors.Annotatef(err, "finding pets of owner %q with health %s", ownerName, health)
	}
	return toDomain(rows), nil
}

func (r *PetsRepo) selectPets(model any) *bun.SelectQuery {
	return r.db.NewSelect().
		Model(model).
		Relation("Owner").
		OrderExpr("p.name ASC, p.id ASC")
}

// SaveOwner registra el owner o actualiza su edad si ya existe.
// Los pets de ese owner pasan a devolver la edad nueva (la fila es compartida).
func (r *PetsRepo) SaveOwner(ctx context.Context, o owners.Owner) error {
	if o.Name == "" {
		return errors.NotValidf("owner without name")
	}

	m := &ownerModel{Name: o.Name, Age: o.Age}
	_, err := r.db.NewInsert().
		Model(m).
		On("CONFLICT (name) DO UPDATE").
		Set("age = EXCLUDED.age").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return errors.Annotatef(err, "saving owner %q", o.Name)
	}
	return nil
}

// ensureOwner devuelve la fila del owner por nombre, creándola si no existe.
// El INSERT ignora el conflicto por nombre: si otra transacción lo creó primero,
// se usa esa fila (y su edad).
func ensureOwner(ctx context.Context, db bun.IDB, o owners.Owner) (*ownerModel, error) {
	_, err := db.NewInsert().
		Model(&ownerModel{Name: o.Name, Age: o.Age}).
		On("CONFLICT (name) DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	m := new(ownerModel)
	err = db.NewSelect().
		Model(m).
		Where("o.name = ?", o.Name).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func toDomain(rows []petModel) []pets.Pet {
	out := make([]pets.Pet, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out
}

package orm

import (
	"pet-owners/internal/domain/owners"
	"pet-owners/internal/domain/pets"

	"github.com/uptrace/bun"
)

type ownerModel struct {
	bun.BaseModel `bun:"table:owners,alias:o"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull,unique"`
	Age  int    `bun:"age,notnull"`
}

type petModel struct {
	bun.BaseModel `bun:"table:pets,alias:p"`

	ID      string      `bun:"id,pk"`
	Name    string      `bun:"name,notnull"`
	OwnerID int64       `bun:"owner_id,notnull"`
	Owner   *ownerModel `bun:"rel:belongs-to,join:owner_id=id"`
	Health  string      `bun:"health,notnull"`
}

func (m *petModel) toDomain() pets.Pet {
	p := pets.Pet{
		ID:     m.ID,
		Name:   m.Name,
		Health: pets.Health(m.Health),
	}
	if m.Owner != nil {
		p.Owner = owners.Owner{
			Name: m.Owner.Name,
			Age:  m.Owner.Age,
		}
	}
	return p
}

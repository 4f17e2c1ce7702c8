package router

import (
	"context"
	"net/http"
	"time"

	_ "pet-owners/docs"
	mem "pet-owners/internal/adapters/storage/memory"
	"pet-owners/internal/adapters/storage/orm"
	pg "pet-owners/internal/adapters/storage/postgres"
	"pet-owners/internal/adapters/storage/sqlite"
	"pet-owners/internal/domain/owners"
	"pet-owners/internal/domain/pets"
	"pet-owners/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/juju/errors"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type Options struct {
	// Entradas de configuración de owners (una por owner).
	Owners []owners.Configuration

	// Opcional: si viene, usa el store ORM sobre esta conexión (no se cierra en Close).
	DB *bun.DB

	// Si DB es nil: memory | postgres | sqlite. Vacío => memory.
	Driver string
	DSN    string

	Logger *zap.Logger // nil => zap.NewNop()
}

// App es el grafo armado: un único owners.Service y un único pets.Service
// compartidos por todos los requests.
type App struct {
	handler http.Handler

	owners *owners.Service
	pets   *pets.Service

	db     *bun.DB
	ownsDB bool
}

func New(opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := &App{}

	petRepo, err := app.openStore(opts, log)
	if err != nil {
		return nil, err
	}

	// Services (una sola instancia de cada uno)
	app.owners = owners.NewService(opts.Owners)
	app.pets = pets.NewService(petRepo, app.owners)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n, err := app.pets.Seed(ctx, opts.Owners)
	if err != nil {
		_ = app.Close()
		return nil, errors.Annotate(err, "seeding pets")
	}
	log.Info("owners loaded",
		zap.Int("owners", len(opts.Owners)),
		zap.Int("seeded_pets", n))

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Rutas por módulo
	owners.RegisterRoutes(r, app.owners, log)
	pets.RegisterRoutes(r, app.pets, log)

	app.handler = r
	return app, nil
}

// openStore elige el Pet Store: DB explícita, luego driver/DSN, si no in-memory.
func (a *App) openStore(opts Options, log *zap.Logger) (pets.Repository, error) {
	db := opts.DB
	if db == nil {
		var err error
		switch opts.Driver {
		case "", "memory":
			log.Info("using in-memory pet store")
			return mem.NewPetRepo(), nil
		case "postgres":
			db, err = pg.Open(opts.DSN, log)
		case "sqlite":
			db, err = sqlite.Open(opts.DSN, log)
		default:
			return nil, errors.NotValidf("store driver %q", opts.Driver)
		}
		if err != nil {
			return nil, err
		}
		a.ownsDB = true
	}
	a.db = db

	repo := orm.NewPetsRepo(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.Bootstrap(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}

	log.Info("using sql pet store", zap.Stringer("dialect", db.Dialect().Name()))
	return repo, nil
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// OwnerService devuelve la instancia compartida (siempre la misma).
func (a *App) OwnerService() *owners.Service {
	return a.owners
}

func (a *App) PetService() *pets.Service {
	return a.pets
}

// Close libera la conexión a la base si la abrió New.
func (a *App) Close() error {
	if a.db == nil || !a.ownsDB {
		return nil
	}
	return a.db.Close()
}

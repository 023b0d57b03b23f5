package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Tomlord1122/tracker-backend/internal/domain"
)

// crudStore is the service surface behind a plain CRUD resource.
type crudStore[T any] interface {
	Name() string
	List(ctx context.Context, profile *domain.Profile) ([]T, error)
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	Create(ctx context.Context, rec *T) (*T, error)
	Update(ctx context.Context, id uuid.UUID, apply func(*T) error) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// keyedStore is the service surface behind an upsert-only resource.
type keyedStore[T any] interface {
	Name() string
	List(ctx context.Context, profile *domain.Profile) ([]T, error)
	Upsert(ctx context.Context, rec *T) (*T, error)
}

type resource[T any] struct {
	store  crudStore[T]
	server *Server
}

func crudRoutes[T any](r chi.Router, res resource[T]) {
	r.Get("/", res.list)
	r.Post("/", res.create)
	r.Get("/{id}", res.get)
	r.Patch("/{id}", res.patch)
	r.Put("/{id}", res.replace)
	r.Delete("/{id}", res.delete)
}

func (res resource[T]) list(w http.ResponseWriter, r *http.Request) {
	profile, err := profileParam(r)
	if err != nil {
		res.server.respondWithServiceError(w, r, err, "list "+res.store.Name())
		return
	}
	items, err := res.store.List(r.Context(), profile)
	if err != nil {
		res.server.respondWithServiceError(w, r, err, "list "+res.store.Name())
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

func (res resource[T]) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		res.server.respondWithServiceError(w, r, err, "retrieve "+res.store.Name())
		return
	}
	rec, err := res.store.Get(r.Context(), id)
	if err != nil {
		res.server.respondWithServiceError(w, r, err, "retrieve "+res.store.Name())
		return
	}
	respondWithJSON(w, http.StatusOK, rec)
}

func (res resource[T]) create(w http.ResponseWriter, r *http.Request) {
	rec := new(T)
	if err := decodeRequest(w, r, rec); err != nil {
		res.server.respondWithServiceError(w, r, err, "create "+res.store.Name())
		return
	}
	created, err := res.store.Create(r.Context(), rec)
	if err != nil {
		res.server.respondWithServiceError(w, r, err, "create "+res.store.Name())
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// patch decodes the body over the stored record, so omitted fields keep
// their values.
func (res resource[T]) patch(w http.ResponseWriter, r *http.Request) {
	res.update(w, r, func(body []byte, rec *T) error {
		return decodeStrict(body, rec)
	})
}

// replace decodes the body onto an empty record, so omitted fields reset.
func (res resource[T]) replace(w http.ResponseWriter, r *http.Request) {
	res.update(w, r, func(body []byte, rec *T) error {
		fresh := new(T)
		if err := decodeStrict(body, fresh); err != nil {
			return err
		}
		*rec = *fresh
		return nil
	})
}

func (res resource[T]) update(w http.ResponseWriter, r *http.Request, apply func([]byte, *T) error) {
	id, err := parseID(r)
	if err != nil {
		res.server.respondWithServiceError(w, r, err, "update "+res.store.Name())
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		res.server.respondWithServiceError(w, r, err, "update "+res.store.Name())
		return
	}
	updated, err := res.store.Update(r.Context(), id, func(rec *T) error {
		return apply(body, rec)
	})
	if err != nil {
		res.server.respondWithServiceError(w, r, err, "update "+res.store.Name())
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (res resource[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		res.server.respondWithServiceError(w, r, err, "delete "+res.store.Name())
		return
	}
	if err := res.store.Delete(r.Context(), id); err != nil {
		res.server.respondWithServiceError(w, r, err, "delete "+res.store.Name())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type keyedResource[T any] struct {
	store  keyedStore[T]
	server *Server
}

func keyedRoutes[T any](r chi.Router, res keyedResource[T]) {
	r.Get("/", res.list)
	r.Post("/", res.upsert)
}

func (res keyedResource[T]) list(w http.ResponseWriter, r *http.Request) {
	profile, err := profileParam(r)
	if err != nil {
		res.server.respondWithServiceError(w, r, err, "list "+res.store.Name())
		return
	}
	items, err := res.store.List(r.Context(), profile)
	if err != nil {
		res.server.respondWithServiceError(w, r, err, "list "+res.store.Name())
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

// upsert answers 200 because the write may have replaced an existing row.
func (res keyedResource[T]) upsert(w http.ResponseWriter, r *http.Request) {
	rec := new(T)
	if err := decodeRequest(w, r, rec); err != nil {
		res.server.respondWithServiceError(w, r, err, "save "+res.store.Name())
		return
	}
	stored, err := res.store.Upsert(r.Context(), rec)
	if err != nil {
		res.server.respondWithServiceError(w, r, err, "save "+res.store.Name())
		return
	}
	respondWithJSON(w, http.StatusOK, stored)
}

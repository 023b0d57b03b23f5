package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Tomlord1122/tracker-backend/internal/domain"
	"github.com/Tomlord1122/tracker-backend/internal/repository"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned when input fails validation.
	ErrInvalid = domain.ErrInvalid
)

// notFound turns a missing-row error into ErrNotFound naming the record.
func notFound(kind string, id uuid.UUID, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, repository.ErrMissingReference) {
		return fmt.Errorf("%w: %s with ID %s", ErrNotFound, kind, id)
	}
	return err
}

// requireProfile rejects a missing profile on profile-scoped resources.
func requireProfile(p *domain.Profile) error {
	if p == nil {
		return fmt.Errorf("%w: profile is required", ErrInvalid)
	}
	return p.Validate()
}

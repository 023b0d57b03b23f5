package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInvalid marks input that fails basic shape validation.
var ErrInvalid = errors.New("invalid input")

// Model is embedded by every persisted record. It replaces gorm.Model:
// ids are UUIDs and rows are hard-deleted so natural-key unique indexes
// and cascades behave.
type Model struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// BeforeCreate assigns the identity. It is never reassigned afterwards.
func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Base exposes the embedded model to generic code.
func (m *Model) Base() *Model {
	return m
}

// Record is implemented by pointers to every persisted entity.
type Record interface {
	Base() *Model
	Validate() error
}

// Keyed records are written by upsert on a natural key instead of by id.
type Keyed interface {
	Record
	// ConflictColumns are the columns of the natural key's unique index.
	ConflictColumns() []string
	// UpsertColumns are overwritten when the key already exists.
	UpsertColumns() []string
	// NaturalKey renders the key values as a single comparable string.
	NaturalKey() string
}

// Profiled records belong to one persona.
type Profiled interface {
	ProfileTag() Profile
}

// Profile partitions data between the two tracked personas.
type Profile string

const (
	ProfilePiyush Profile = "piyush"
	ProfileShruti Profile = "shruti"
)

// Profiles lists every known persona.
var Profiles = []Profile{ProfilePiyush, ProfileShruti}

// ParseProfile accepts a persona name case-insensitively.
func ParseProfile(s string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(s)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

func (p Profile) Validate() error {
	switch p {
	case ProfilePiyush, ProfileShruti:
		return nil
	case "":
		return fmt.Errorf("%w: profile is required", ErrInvalid)
	default:
		names := make([]string, len(Profiles))
		for i, known := range Profiles {
			names[i] = string(known)
		}
		return fmt.Errorf("%w: unknown profile %q (want one of %s)", ErrInvalid, string(p), strings.Join(names, ", "))
	}
}

func (p Profile) String() string {
	return string(p)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrInvalid, field)
	}
	return nil
}

func nonNegative(field string, value int) error {
	if value < 0 {
		return fmt.Errorf("%w: %s cannot be negative", ErrInvalid, field)
	}
	return nil
}

func requiredDate(field string, d Date) error {
	if d.IsZero() {
		return fmt.Errorf("%w: %s is required", ErrInvalid, field)
	}
	return nil
}

func atMost(field string, value int, limitField string, limit int) error {
	if value > limit {
		return fmt.Errorf("%w: %s cannot exceed %s", ErrInvalid, field, limitField)
	}
	return nil
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

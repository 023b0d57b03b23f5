package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Habit is a user-defined recurring activity tracked per day.
type Habit struct {
	Model
	Profile   Profile `gorm:"type:text;not null;index" json:"profile"`
	Name      string  `gorm:"not null" json:"name"`
	SortOrder int     `gorm:"not null;default:0" json:"sort_order"`

	Entries []HabitEntry `gorm:"foreignKey:HabitID;constraint:OnDelete:CASCADE" json:"-"`
}

func (h *Habit) Validate() error {
	return firstError(h.Profile.Validate(), required("name", h.Name), nonNegative("sort_order", h.SortOrder))
}

func (h *Habit) ProfileTag() Profile { return h.Profile }

// HabitEntry is the completion record of one habit on one day.
// (habit_id, date) is unique; writes go through upsert.
type HabitEntry struct {
	Model
	HabitID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_habit_entries_habit_date" json:"habit_id"`
	Date      Date      `gorm:"not null;uniqueIndex:idx_habit_entries_habit_date" json:"date"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
}

func (e *HabitEntry) Validate() error {
	if e.HabitID == uuid.Nil {
		return fmt.Errorf("%w: habit_id is required", ErrInvalid)
	}
	return requiredDate("date", e.Date)
}

func (*HabitEntry) ConflictColumns() []string { return []string{"habit_id", "date"} }
func (*HabitEntry) UpsertColumns() []string   { return []string{"completed", "updated_at"} }

func (e *HabitEntry) NaturalKey() string {
	return e.HabitID.String() + "|" + e.Date.String()
}

package domain

type Todo struct {
	Model
	Profile   Profile `gorm:"type:text;not null;index" json:"profile"`
	Content   string  `gorm:"not null" json:"content"`
	Completed bool    `gorm:"not null;default:false" json:"completed"`
}

func (t *Todo) Validate() error {
	return firstError(t.Profile.Validate(), required("content", t.Content))
}

func (t *Todo) ProfileTag() Profile { return t.Profile }

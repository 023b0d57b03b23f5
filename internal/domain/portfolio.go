package domain

type ResumeSection struct {
	Model
	SectionType string `gorm:"not null" json:"section_type"`
	Content     string `gorm:"not null" json:"content"`
	SortOrder   int    `gorm:"not null;default:0" json:"sort_order"`
}

func (r *ResumeSection) Validate() error {
	return firstError(required("section_type", r.SectionType), required("content", r.Content))
}

type Certificate struct {
	Model
	Profile Profile `gorm:"type:text;not null;index" json:"profile"`
	Title   string  `gorm:"not null" json:"title"`
	Issuer  string  `gorm:"not null" json:"issuer"`
	Date    Date    `gorm:"not null" json:"date"`
	FileURL *string `json:"file_url"`
}

func (c *Certificate) Validate() error {
	return firstError(
		c.Profile.Validate(),
		required("title", c.Title),
		required("issuer", c.Issuer),
		requiredDate("date", c.Date),
	)
}

func (c *Certificate) ProfileTag() Profile { return c.Profile }

type Project struct {
	Model
	Profile     Profile `gorm:"type:text;not null;index" json:"profile"`
	ProjectName string  `gorm:"not null" json:"project_name"`
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
}

func (p *Project) Validate() error {
	return firstError(p.Profile.Validate(), required("project_name", p.ProjectName))
}

func (p *Project) ProfileTag() Profile { return p.Profile }

type Skill struct {
	Model
	Profile   Profile `gorm:"type:text;not null;index" json:"profile"`
	SkillName string  `gorm:"not null" json:"skill_name"`
	Notes     *string `json:"notes"`
}

func (s *Skill) Validate() error {
	return firstError(s.Profile.Validate(), required("skill_name", s.SkillName))
}

func (s *Skill) ProfileTag() Profile { return s.Profile }

type CaseStudy struct {
	Model
	Title string  `gorm:"not null" json:"title"`
	Notes *string `json:"notes"`
	Date  Date    `gorm:"not null" json:"date"`
}

func (c *CaseStudy) Validate() error {
	return firstError(required("title", c.Title), requiredDate("date", c.Date))
}

type Guesstimate struct {
	Model
	Topic     string  `gorm:"not null" json:"topic"`
	Learnings *string `json:"learnings"`
	Notes     *string `json:"notes"`
}

func (g *Guesstimate) Validate() error {
	return required("topic", g.Topic)
}

type CaseCompetition struct {
	Model
	CompetitionName string  `gorm:"not null" json:"competition_name"`
	Notes           *string `json:"notes"`
	DocumentURL     *string `json:"document_url"`
}

func (c *CaseCompetition) Validate() error {
	return required("competition_name", c.CompetitionName)
}

// AllModels lists every table for auto-migration. Habits come before
// their entries so the foreign key can be created.
func AllModels() []interface{} {
	return []interface{}{
		&Todo{},
		&Habit{},
		&HabitEntry{},
		&DailyLog{},
		&Rating{},
		&ContestLog{},
		&DSAProgress{},
		&Blind75Item{},
		&ResumeSection{},
		&Course{},
		&Certificate{},
		&Project{},
		&Skill{},
		&CaseStudy{},
		&Guesstimate{},
		&CaseCompetition{},
	}
}

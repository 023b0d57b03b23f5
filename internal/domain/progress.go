package domain

import "strings"

// Rating is the current competitive-programming rating on one platform.
type Rating struct {
	Model
	Platform string `gorm:"not null;uniqueIndex" json:"platform"`
	Rating   int    `gorm:"not null;default:0" json:"rating"`
}

func (r *Rating) Validate() error {
	r.Platform = strings.TrimSpace(r.Platform)
	return firstError(required("platform", r.Platform), nonNegative("rating", r.Rating))
}

func (*Rating) ConflictColumns() []string { return []string{"platform"} }
func (*Rating) UpsertColumns() []string   { return []string{"rating", "updated_at"} }
func (r *Rating) NaturalKey() string      { return r.Platform }

type ContestLog struct {
	Model
	Platform       string  `gorm:"not null" json:"platform"`
	ContestName    string  `gorm:"not null" json:"contest_name"`
	Date           Date    `gorm:"not null;index" json:"date"`
	ProblemsSolved int     `gorm:"not null;default:0" json:"problems_solved"`
	TotalProblems  int     `gorm:"not null;default:0" json:"total_problems"`
	Notes          *string `json:"notes"`
}

func (c *ContestLog) Validate() error {
	return firstError(
		required("platform", c.Platform),
		required("contest_name", c.ContestName),
		requiredDate("date", c.Date),
		nonNegative("problems_solved", c.ProblemsSolved),
		nonNegative("total_problems", c.TotalProblems),
		atMost("problems_solved", c.ProblemsSolved, "total_problems", c.TotalProblems),
	)
}

// dsaProgressSlot is the natural key of the single DSA progress row.
const dsaProgressSlot = "a2z"

// DSAProgress tracks solved/total problems per difficulty of the A2Z sheet.
// Only one row exists.
type DSAProgress struct {
	Model
	Slot         string `gorm:"not null;uniqueIndex" json:"-"`
	EasyTotal    int    `gorm:"not null;default:0" json:"easy_total"`
	EasySolved   int    `gorm:"not null;default:0" json:"easy_solved"`
	MediumTotal  int    `gorm:"not null;default:0" json:"medium_total"`
	MediumSolved int    `gorm:"not null;default:0" json:"medium_solved"`
	HardTotal    int    `gorm:"not null;default:0" json:"hard_total"`
	HardSolved   int    `gorm:"not null;default:0" json:"hard_solved"`
}

func (DSAProgress) TableName() string { return "dsa_progress" }

func (p *DSAProgress) Validate() error {
	p.Slot = dsaProgressSlot
	return firstError(
		nonNegative("easy_total", p.EasyTotal),
		nonNegative("easy_solved", p.EasySolved),
		nonNegative("medium_total", p.MediumTotal),
		nonNegative("medium_solved", p.MediumSolved),
		nonNegative("hard_total", p.HardTotal),
		nonNegative("hard_solved", p.HardSolved),
		atMost("easy_solved", p.EasySolved, "easy_total", p.EasyTotal),
		atMost("medium_solved", p.MediumSolved, "medium_total", p.MediumTotal),
		atMost("hard_solved", p.HardSolved, "hard_total", p.HardTotal),
	)
}

func (p *DSAProgress) Solved() int { return p.EasySolved + p.MediumSolved + p.HardSolved }
func (p *DSAProgress) Total() int  { return p.EasyTotal + p.MediumTotal + p.HardTotal }

func (*DSAProgress) ConflictColumns() []string { return []string{"slot"} }
func (*DSAProgress) UpsertColumns() []string {
	return []string{"easy_total", "easy_solved", "medium_total", "medium_solved", "hard_total", "hard_solved", "updated_at"}
}
func (*DSAProgress) NaturalKey() string { return dsaProgressSlot }

// Blind75Item is one question of the Blind 75 list.
type Blind75Item struct {
	Model
	QuestionName string  `gorm:"not null" json:"question_name"`
	SolutionLink *string `json:"solution_link"`
	Completed    bool    `gorm:"not null;default:false" json:"completed"`
}

func (Blind75Item) TableName() string { return "blind75" }

func (b *Blind75Item) Validate() error {
	return required("question_name", b.QuestionName)
}

// DefaultCourseContent is the content size of a course created without one.
const DefaultCourseContent = 100

type Course struct {
	Model
	Profile          Profile `gorm:"type:text;not null;index" json:"profile"`
	CourseName       string  `gorm:"not null" json:"course_name"`
	Platform         string  `gorm:"not null" json:"platform"`
	TotalContent     int     `gorm:"not null;default:100" json:"total_content"`
	CompletedContent int     `gorm:"not null;default:0" json:"completed_content"`
}

func (c *Course) Validate() error {
	if c.TotalContent == 0 {
		c.TotalContent = DefaultCourseContent
	}
	return firstError(
		c.Profile.Validate(),
		required("course_name", c.CourseName),
		required("platform", c.Platform),
		nonNegative("total_content", c.TotalContent),
		nonNegative("completed_content", c.CompletedContent),
		atMost("completed_content", c.CompletedContent, "total_content", c.TotalContent),
	)
}

func (c *Course) ProfileTag() Profile { return c.Profile }

// InProgress reports whether content remains.
func (c *Course) InProgress() bool {
	return c.CompletedContent < c.TotalContent
}

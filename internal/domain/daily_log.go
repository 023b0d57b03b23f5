package domain

import (
	"fmt"
	"slices"
	"strings"

	"gorm.io/datatypes"
)

// Metric names recorded in daily logs.
const (
	MetricDSAQuestions    = "dsa_questions_solved"
	MetricPythonQuestions = "python_questions_solved"
	MetricSQLQuestions    = "sql_questions_solved"
)

// profileMetrics is the fixed metric schema of each persona's daily log.
var profileMetrics = map[Profile][]string{
	ProfilePiyush: {MetricDSAQuestions},
	ProfileShruti: {MetricPythonQuestions, MetricSQLQuestions},
}

// MetricsFor returns the metric names a profile may record.
func MetricsFor(p Profile) []string {
	return append([]string(nil), profileMetrics[p]...)
}

// Metrics maps a metric name to the count recorded for the day.
type Metrics map[string]int

// Total is the number of questions across all metrics.
func (m Metrics) Total() int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

// DailyLog is the per-day counter sheet of one persona. The metric set
// depends on the profile, so both personas share one table keyed by
// (profile, date).
type DailyLog struct {
	Model
	Profile Profile                     `gorm:"type:text;not null;uniqueIndex:idx_daily_logs_profile_date" json:"profile"`
	Date    Date                        `gorm:"not null;uniqueIndex:idx_daily_logs_profile_date" json:"date"`
	Metrics datatypes.JSONType[Metrics] `gorm:"not null" json:"metrics"`
	Notes   *string                     `json:"notes"`
}

// NewDailyLog builds a log with every metric of the profile present.
func NewDailyLog(p Profile, d Date, counts Metrics) *DailyLog {
	m := Metrics{}
	for _, name := range profileMetrics[p] {
		m[name] = counts[name]
	}
	return &DailyLog{Profile: p, Date: d, Metrics: datatypes.NewJSONType(m)}
}

// Counts returns the recorded metrics, never nil.
func (l *DailyLog) Counts() Metrics {
	m := l.Metrics.Data()
	if m == nil {
		return Metrics{}
	}
	return m
}

// Total is the day's question total.
func (l *DailyLog) Total() int {
	return l.Counts().Total()
}

func (l *DailyLog) Validate() error {
	if err := firstError(l.Profile.Validate(), requiredDate("date", l.Date)); err != nil {
		return err
	}
	allowed := profileMetrics[l.Profile]
	counts := l.Counts()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if !slices.Contains(allowed, name) {
			return fmt.Errorf("%w: metric %q is not tracked for profile %s (allowed: %s)",
				ErrInvalid, name, l.Profile, strings.Join(allowed, ", "))
		}
		if err := nonNegative(name, counts[name]); err != nil {
			return err
		}
	}
	// Fill missing metrics with zero so stored rows always carry the full schema.
	filled := Metrics{}
	for _, name := range allowed {
		filled[name] = counts[name]
	}
	l.Metrics = datatypes.NewJSONType(filled)
	return nil
}

func (l *DailyLog) ProfileTag() Profile { return l.Profile }

func (*DailyLog) ConflictColumns() []string { return []string{"profile", "date"} }
func (*DailyLog) UpsertColumns() []string   { return []string{"metrics", "notes", "updated_at"} }

func (l *DailyLog) NaturalKey() string {
	return string(l.Profile) + "|" + l.Date.String()
}

package study

import (
	"fmt"
	"strings"
)

// ============================================================================
// STABLE PRIMITIVES (Canonical, never change)
// ============================================================================

// Group identifies which arm of the trial a student was assigned to.
// Assignment is immutable once made; there is no third arm.
type Group string

const (
	GroupControl      Group = "control"
	GroupExperimental Group = "experimental"
)

// Groups lists the two arms in canonical report order.
var Groups = []Group{GroupControl, GroupExperimental}

// ParseGroup validates a raw group label from an input file
func ParseGroup(s string) (Group, error) {
	switch Group(strings.ToLower(strings.TrimSpace(s))) {
	case GroupControl:
		return GroupControl, nil
	case GroupExperimental:
		return GroupExperimental, nil
	default:
		return "", fmt.Errorf("unknown group label %q (must be %q or %q)", s, GroupControl, GroupExperimental)
	}
}

// Outcome names a measured or derived score column
type Outcome string

const (
	OutcomePreTest     Outcome = "pre_test"
	OutcomePostTest    Outcome = "post_test"
	OutcomeImprovement Outcome = "improvement"
)

// Outcomes lists all outcomes in canonical report order.
var Outcomes = []Outcome{OutcomePreTest, OutcomePostTest, OutcomeImprovement}

// StudentID is the anonymized key linking a student across input tables
type StudentID string

func (id StudentID) String() string { return string(id) }

// Score bounds declared by the instruments. The pre-test is scored out of
// 10 and the post-test out of 25, so improvement lives in [-10, 25].
const (
	ScoreMin     = 0.0
	PreScoreMax  = 10.0
	PostScoreMax = 25.0
)

// ============================================================================
// STUDENT RECORDS
// ============================================================================

// StudentRecord is one row of the merged analysis-ready table.
// INVARIANTS:
// - StudentID appears exactly once in a merged cohort
// - Group is immutable once assigned
// - Improvement is always recomputed as PostScore - PreScore, never input
type StudentRecord struct {
	StudentID   StudentID `json:"student_id"`
	Group       Group     `json:"group"`
	PreScore    float64   `json:"pre_test_score"`
	PostScore   float64   `json:"post_test_score"`
	Improvement float64   `json:"score_improvement"`
}

// NewStudentRecord builds a validated record, recomputing improvement
func NewStudentRecord(id StudentID, group Group, pre, post float64) (StudentRecord, error) {
	if strings.TrimSpace(string(id)) == "" {
		return StudentRecord{}, fmt.Errorf("student ID cannot be empty")
	}
	if group != GroupControl && group != GroupExperimental {
		return StudentRecord{}, fmt.Errorf("student %s: invalid group %q", id, group)
	}
	if pre < ScoreMin || pre > PreScoreMax {
		return StudentRecord{}, fmt.Errorf("student %s: pre-test score %.2f outside [%.0f, %.0f]", id, pre, ScoreMin, PreScoreMax)
	}
	if post < ScoreMin || post > PostScoreMax {
		return StudentRecord{}, fmt.Errorf("student %s: post-test score %.2f outside [%.0f, %.0f]", id, post, ScoreMin, PostScoreMax)
	}
	return StudentRecord{
		StudentID:   id,
		Group:       group,
		PreScore:    pre,
		PostScore:   post,
		Improvement: post - pre,
	}, nil
}

// Value returns the record's score for the given outcome
func (r StudentRecord) Value(o Outcome) float64 {
	switch o {
	case OutcomePreTest:
		return r.PreScore
	case OutcomePostTest:
		return r.PostScore
	default:
		return r.Improvement
	}
}

// Cohort is the merged analysis-ready table. It is ephemeral: rebuilt from
// the raw files on every run and never mutated in place.
type Cohort []StudentRecord

// Subset returns the records belonging to one group, preserving order
func (c Cohort) Subset(g Group) Cohort {
	out := make(Cohort, 0, len(c))
	for _, r := range c {
		if r.Group == g {
			out = append(out, r)
		}
	}
	return out
}

// Values extracts one outcome column for a group
func (c Cohort) Values(g Group, o Outcome) []float64 {
	sub := c.Subset(g)
	out := make([]float64, len(sub))
	for i, r := range sub {
		out[i] = r.Value(o)
	}
	return out
}

// Size returns per-group counts in canonical order
func (c Cohort) Size() (nControl, nExperimental int) {
	for _, r := range c {
		if r.Group == GroupControl {
			nControl++
		} else {
			nExperimental++
		}
	}
	return
}

// ============================================================================
// DERIVED RESULTS (recomputed on demand, never persisted as source of truth)
// ============================================================================

// GroupSummary describes one group x outcome cell of the descriptives table
type GroupSummary struct {
	Group   Group   `json:"group"`
	Outcome Outcome `json:"outcome"`
	N       int     `json:"n"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Median  float64 `json:"median"`
}

// Interval is a two-sided confidence interval for a mean difference
type Interval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether v lies inside the interval
func (iv Interval) Contains(v float64) bool {
	return iv.Low <= v && v <= iv.High
}

// TestKind identifies the statistical test performed
type TestKind string

const (
	TestWelchT      TestKind = "welch_t"
	TestMannWhitney TestKind = "mann_whitney_u"
	TestPairedT     TestKind = "paired_t"
)

// TestResult holds the output of one test on one outcome. Immutable once
// computed; the statistic, effect size, and interval always come from the
// same pair of samples so they cannot drift apart.
type TestResult struct {
	Outcome    Outcome   `json:"outcome"`
	Test       TestKind  `json:"test"`
	Statistic  float64   `json:"statistic"`
	DF         float64   `json:"degrees_of_freedom,omitempty"`
	PValue     float64   `json:"p_value"`
	EffectSize float64   `json:"effect_size"`
	EffectUnit string    `json:"effect_unit"` // "d" (Cohen) or "r_rb" (rank-biserial)
	HedgesG    float64   `json:"hedges_g,omitempty"`
	CI         *Interval `json:"confidence_interval,omitempty"`
	N1         int       `json:"n1"`
	N2         int       `json:"n2"`
	Mean1      float64   `json:"mean1"`
	Mean2      float64   `json:"mean2"`
}

// Significant reports whether the two-sided p-value clears alpha
func (r TestResult) Significant(alpha float64) bool {
	return r.PValue < alpha
}

// MeanDifference returns Mean1 - Mean2
func (r TestResult) MeanDifference() float64 {
	return r.Mean1 - r.Mean2
}

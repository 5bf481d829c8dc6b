package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"edustat/adapters/table"
	"edustat/domain/study"
	"edustat/internal/errors"
)

// Required column names shared by all score sheets
const (
	ColStudentID   = "student_id"
	ColTotalScore  = "total_score"
	ColGroup       = "group"
	questionPrefix = "q"
)

// Identifier-map columns
const (
	ColPreTestID  = "pre_test_id"
	ColPostTestID = "post_test_id"
)

// qSumTolerance absorbs float formatting noise when checking that the
// question-level scores add up to the recorded total.
const qSumTolerance = 1e-6

// TableSpec declares what a raw score sheet must look like
type TableSpec struct {
	Name       string  // short name for error messages, e.g. "pre_test"
	ScoreMin   float64 // inclusive lower bound for total_score
	ScoreMax   float64 // inclusive upper bound for total_score
	NeedsGroup bool    // pre-test carries the group assignment column
}

// PreTestSpec describes the pre-test sheet (scored out of 10, carries group)
func PreTestSpec() TableSpec {
	return TableSpec{Name: "pre_test", ScoreMin: study.ScoreMin, ScoreMax: study.PreScoreMax, NeedsGroup: true}
}

// PostTestSpec describes a post-test sheet (scored out of 25, one per group)
func PostTestSpec(name string) TableSpec {
	return TableSpec{Name: name, ScoreMin: study.ScoreMin, ScoreMax: study.PostScoreMax}
}

// Summary reports what the validator saw in one file. It is informational:
// validation failures are errors, the summary describes a table that passed.
type Summary struct {
	Name        string
	Source      string
	Rows        int
	MinScore    float64
	MaxScore    float64
	GroupCounts map[study.Group]int
}

func (s *Summary) String() string {
	out := fmt.Sprintf("%s: %d students, scores %.1f to %.1f", s.Name, s.Rows, s.MinScore, s.MaxScore)
	if len(s.GroupCounts) > 0 {
		out += fmt.Sprintf(" (control %d, experimental %d)",
			s.GroupCounts[study.GroupControl], s.GroupCounts[study.GroupExperimental])
	}
	return out
}

// Validate checks a raw score sheet against its spec. It fails on the first
// violation with an error naming the offending row and column; it never
// repairs data.
func Validate(t *table.Table, spec TableSpec) (*Summary, error) {
	required := []string{ColStudentID, ColTotalScore}
	if spec.NeedsGroup {
		required = append(required, ColGroup)
	}
	for _, col := range required {
		if !t.HasColumn(col) {
			return nil, errors.ValidationErrorf("%s (%s): required column %q missing", spec.Name, t.Source, col)
		}
	}

	questionCols := questionColumns(t.Headers)

	summary := &Summary{
		Name:     spec.Name,
		Source:   t.Source,
		Rows:     len(t.Rows),
		MinScore: math.Inf(1),
		MaxScore: math.Inf(-1),
	}
	if spec.NeedsGroup {
		summary.GroupCounts = make(map[study.Group]int)
	}

	seen := make(map[study.StudentID]int, len(t.Rows))
	for i, row := range t.Rows {
		rowNum := i + 2 // 1-based, after the header row

		id := study.StudentID(row[ColStudentID])
		if id == "" {
			return nil, errors.ValidationErrorf("%s row %d: empty student_id", spec.Name, rowNum)
		}
		if prev, dup := seen[id]; dup {
			return nil, errors.ValidationErrorf("%s row %d: duplicate student_id %s (first seen at row %d)", spec.Name, rowNum, id, prev)
		}
		seen[id] = rowNum

		total, err := parseScore(row[ColTotalScore])
		if err != nil {
			return nil, errors.ValidationErrorf("%s row %d (%s): bad total_score: %v", spec.Name, rowNum, id, err)
		}
		if total < spec.ScoreMin || total > spec.ScoreMax {
			return nil, errors.ValidationErrorf("%s row %d (%s): total_score %.2f outside [%.0f, %.0f]",
				spec.Name, rowNum, id, total, spec.ScoreMin, spec.ScoreMax)
		}
		summary.MinScore = math.Min(summary.MinScore, total)
		summary.MaxScore = math.Max(summary.MaxScore, total)

		if len(questionCols) > 0 {
			sum := 0.0
			for _, qc := range questionCols {
				q, err := parseScore(row[qc])
				if err != nil {
					return nil, errors.ValidationErrorf("%s row %d (%s): bad %s: %v", spec.Name, rowNum, id, qc, err)
				}
				sum += q
			}
			if math.Abs(sum-total) > qSumTolerance {
				return nil, errors.ValidationErrorf("%s row %d (%s): question scores sum to %.2f but total_score is %.2f",
					spec.Name, rowNum, id, sum, total)
			}
		}

		if spec.NeedsGroup {
			g, err := study.ParseGroup(row[ColGroup])
			if err != nil {
				return nil, errors.ValidationErrorf("%s row %d (%s): %v", spec.Name, rowNum, id, err)
			}
			summary.GroupCounts[g]++
		}
	}

	return summary, nil
}

// ValidateIdentifierMap checks the table linking anonymized identifiers
// across files: every column present, no blanks, no duplicate keys.
func ValidateIdentifierMap(t *table.Table) (*Summary, error) {
	for _, col := range []string{ColStudentID, ColPreTestID, ColPostTestID} {
		if !t.HasColumn(col) {
			return nil, errors.ValidationErrorf("identifier_map (%s): required column %q missing", t.Source, col)
		}
	}

	seen := make(map[string]int, len(t.Rows)*3)
	for i, row := range t.Rows {
		rowNum := i + 2
		for _, col := range []string{ColStudentID, ColPreTestID, ColPostTestID} {
			v := row[col]
			if v == "" {
				return nil, errors.ValidationErrorf("identifier_map row %d: empty %s", rowNum, col)
			}
			key := col + ":" + v
			if prev, dup := seen[key]; dup {
				return nil, errors.ValidationErrorf("identifier_map row %d: duplicate %s %s (first seen at row %d)", rowNum, col, v, prev)
			}
			seen[key] = rowNum
		}
	}

	return &Summary{Name: "identifier_map", Source: t.Source, Rows: len(t.Rows)}, nil
}

func questionColumns(headers []string) []string {
	var out []string
	for _, h := range headers {
		rest, ok := strings.CutPrefix(h, questionPrefix)
		if !ok || rest == "" {
			continue
		}
		if _, err := strconv.Atoi(rest); err == nil {
			out = append(out, h)
		}
	}
	return out
}

func parseScore(raw string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("missing value")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", raw)
	}
	return v, nil
}

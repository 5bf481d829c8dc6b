package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edustat/domain/study"
	"edustat/internal/errors"
)

func mergeFixture(t *testing.T) Sources {
	return Sources{
		PreTest: buildTable(t,
			[]string{"student_id", "total_score", "group"},
			[]string{"S01", "3.5", "control"},
			[]string{"S02", "5.0", "experimental"},
			[]string{"S03", "2.0", "control"},
			[]string{"S04", "6.5", "experimental"},
		),
		PostControl: buildTable(t,
			[]string{"student_id", "total_score"},
			[]string{"S01", "12.0"},
			[]string{"S03", "10.5"},
		),
		PostExperimental: buildTable(t,
			[]string{"student_id", "total_score"},
			[]string{"S02", "19.0"},
			[]string{"S04", "22.5"},
		),
	}
}

func TestMergeIdentityJoin(t *testing.T) {
	cohort, err := Merge(mergeFixture(t))
	require.NoError(t, err)

	nCtrl, nExp := cohort.Size()
	assert.Equal(t, 2, nCtrl)
	assert.Equal(t, 2, nExp)
	require.Len(t, cohort, 4)

	// links are sorted by student id, so the cohort order is deterministic
	assert.Equal(t, study.StudentID("S01"), cohort[0].StudentID)
	assert.Equal(t, study.GroupControl, cohort[0].Group)
	assert.InDelta(t, 3.5, cohort[0].PreScore, 1e-9)
	assert.InDelta(t, 12.0, cohort[0].PostScore, 1e-9)

	for _, r := range cohort {
		assert.InDelta(t, r.PostScore-r.PreScore, r.Improvement, 1e-12,
			"student %s: improvement must equal post minus pre", r.StudentID)
	}
}

func TestMergeWithIdentifierMap(t *testing.T) {
	src := Sources{
		PreTest: buildTable(t,
			[]string{"student_id", "total_score", "group"},
			[]string{"P01", "3.5", "control"},
			[]string{"P02", "5.0", "experimental"},
		),
		PostControl: buildTable(t,
			[]string{"student_id", "total_score"},
			[]string{"T01", "12.0"},
		),
		PostExperimental: buildTable(t,
			[]string{"student_id", "total_score"},
			[]string{"T02", "19.0"},
		),
		IdentifierMap: buildTable(t,
			[]string{"student_id", "pre_test_id", "post_test_id"},
			[]string{"S01", "P01", "T01"},
			[]string{"S02", "P02", "T02"},
		),
	}

	cohort, err := Merge(src)
	require.NoError(t, err)
	require.Len(t, cohort, 2)

	assert.Equal(t, study.StudentID("S01"), cohort[0].StudentID)
	assert.Equal(t, study.GroupControl, cohort[0].Group)
	assert.InDelta(t, 8.5, cohort[0].Improvement, 1e-9)
	assert.Equal(t, study.GroupExperimental, cohort[1].Group)
}

func TestMergeStudentInBothPostTables(t *testing.T) {
	src := mergeFixture(t)
	src.PostExperimental.Rows = append(src.PostExperimental.Rows,
		map[string]string{"student_id": "S01", "total_score": "20.0"})

	_, err := Merge(src)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeMergeError))
	assert.Contains(t, err.Error(), "appears in both post-test tables")
}

func TestMergeStudentMissingFromPostTables(t *testing.T) {
	src := mergeFixture(t)
	src.PreTest.Rows = append(src.PreTest.Rows,
		map[string]string{"student_id": "S05", "total_score": "4.0", "group": "control"})

	_, err := Merge(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing from both post-test tables")
}

func TestMergeUnmatchedPostTestRow(t *testing.T) {
	src := mergeFixture(t)
	src.PostControl.Rows = append(src.PostControl.Rows,
		map[string]string{"student_id": "S99", "total_score": "11.0"})

	_, err := Merge(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post-test id S99 (control) has no matching pre-test student")
}

func TestMergeGroupLabelDisagreement(t *testing.T) {
	src := mergeFixture(t)
	// S03 is labeled control in the pre-test but placed in the experimental
	// post table
	src.PostControl = buildTable(t,
		[]string{"student_id", "total_score"},
		[]string{"S01", "12.0"},
	)
	src.PostExperimental.Rows = append(src.PostExperimental.Rows,
		map[string]string{"student_id": "S03", "total_score": "10.5"})

	_, err := Merge(src)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeMergeError))
	assert.Contains(t, err.Error(), "labeled control in pre-test but found in experimental")
}

func TestMergeDuplicateMapping(t *testing.T) {
	src := mergeFixture(t)
	src.IdentifierMap = buildTable(t,
		[]string{"student_id", "pre_test_id", "post_test_id"},
		[]string{"S01", "S01", "S01"},
		[]string{"S01", "S02", "S02"},
	)

	_, err := Merge(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapped more than once")
}

func TestMergeMappedStudentMissingFromPreTest(t *testing.T) {
	src := mergeFixture(t)
	src.IdentifierMap = buildTable(t,
		[]string{"student_id", "pre_test_id", "post_test_id"},
		[]string{"S01", "S01", "S01"},
		[]string{"S02", "S02", "S02"},
		[]string{"S03", "S03", "S03"},
		[]string{"S04", "S04", "S04"},
		[]string{"S05", "P99", "S05"},
	)

	_, err := Merge(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing from pre-test table")
}

package dataset

import (
	"sort"

	"edustat/adapters/table"
	"edustat/domain/study"
	"edustat/internal/errors"
)

// Sources holds the validated raw tables that feed one merge.
// IdentifierMap may be nil, in which case all tables join directly on
// student_id (the identifiers were anonymized consistently across files).
type Sources struct {
	PreTest          *table.Table
	PostControl      *table.Table
	PostExperimental *table.Table
	IdentifierMap    *table.Table
}

// Merge joins the pre-test table with the two per-group post-test tables
// into the analysis-ready cohort. Group comes from the source table of
// origin; improvement is computed here and never read from input.
//
// Invariants enforced:
//   - every student appears in the pre-test table and exactly one post table
//   - no student_id appears twice in the merged cohort
//   - the merged cohort has exactly n_control + n_experimental rows
func Merge(src Sources) (study.Cohort, error) {
	pre, err := scoreIndex(src.PreTest)
	if err != nil {
		return nil, err
	}
	postControl, err := scoreIndex(src.PostControl)
	if err != nil {
		return nil, err
	}
	postExperimental, err := scoreIndex(src.PostExperimental)
	if err != nil {
		return nil, err
	}

	preGroups := groupIndex(src.PreTest)

	links, err := identifierLinks(src, pre)
	if err != nil {
		return nil, err
	}

	cohort := make(study.Cohort, 0, len(links))
	seen := make(map[study.StudentID]bool, len(links))
	for _, link := range links {
		if seen[link.studentID] {
			return nil, errors.MergeErrorf("student %s mapped more than once", link.studentID)
		}
		seen[link.studentID] = true

		preScore, ok := pre[link.preID]
		if !ok {
			return nil, errors.MergeErrorf("student %s (pre-test id %s) missing from pre-test table", link.studentID, link.preID)
		}

		ctrlScore, inControl := postControl[link.postID]
		expScore, inExperimental := postExperimental[link.postID]
		switch {
		case inControl && inExperimental:
			return nil, errors.MergeErrorf("student %s (post-test id %s) appears in both post-test tables", link.studentID, link.postID)
		case !inControl && !inExperimental:
			return nil, errors.MergeErrorf("student %s (post-test id %s) missing from both post-test tables", link.studentID, link.postID)
		}

		group := study.GroupControl
		postScore := ctrlScore
		if inExperimental {
			group = study.GroupExperimental
			postScore = expScore
		}

		// The pre-test sheet also labels the group; the table of origin wins,
		// but a disagreement means the files are inconsistent, not mergeable.
		if labeled, ok := preGroups[link.preID]; ok && labeled != group {
			return nil, errors.MergeErrorf("student %s labeled %s in pre-test but found in %s post-test table", link.studentID, labeled, group)
		}

		rec, err := study.NewStudentRecord(link.studentID, group, preScore, postScore)
		if err != nil {
			return nil, errors.Wrap(errors.MergeError(err.Error()), "building merged record")
		}
		cohort = append(cohort, rec)
	}

	// Every post-test row must have been consumed: an id present in a post
	// table but absent from the join is a key mismatch, not ignorable data.
	if err := checkConsumed(postControl, postExperimental, links); err != nil {
		return nil, err
	}

	return cohort, nil
}

type link struct {
	studentID study.StudentID
	preID     string
	postID    string
}

// identifierLinks produces the join plan: one link per student, either from
// the identifier map or the identity mapping over pre-test ids.
func identifierLinks(src Sources, pre map[string]float64) ([]link, error) {
	if src.IdentifierMap == nil {
		ids := make([]string, 0, len(pre))
		for id := range pre {
			ids = append(ids, id)
		}
		sort.Strings(ids) // deterministic cohort order
		links := make([]link, len(ids))
		for i, id := range ids {
			links[i] = link{studentID: study.StudentID(id), preID: id, postID: id}
		}
		return links, nil
	}

	links := make([]link, 0, len(src.IdentifierMap.Rows))
	for _, row := range src.IdentifierMap.Rows {
		links = append(links, link{
			studentID: study.StudentID(row[ColStudentID]),
			preID:     row[ColPreTestID],
			postID:    row[ColPostTestID],
		})
	}
	sort.Slice(links, func(i, j int) bool { return links[i].studentID < links[j].studentID })
	return links, nil
}

func checkConsumed(postControl, postExperimental map[string]float64, links []link) error {
	used := make(map[string]bool, len(links))
	for _, l := range links {
		used[l.postID] = true
	}
	for id := range postControl {
		if !used[id] {
			return errors.MergeErrorf("post-test id %s (control) has no matching pre-test student", id)
		}
	}
	for id := range postExperimental {
		if !used[id] {
			return errors.MergeErrorf("post-test id %s (experimental) has no matching pre-test student", id)
		}
	}
	return nil
}

// groupIndex builds id -> parsed group label when the table carries one
func groupIndex(t *table.Table) map[string]study.Group {
	if !t.HasColumn(ColGroup) {
		return nil
	}
	idx := make(map[string]study.Group, len(t.Rows))
	for _, row := range t.Rows {
		if g, err := study.ParseGroup(row[ColGroup]); err == nil {
			idx[row[ColStudentID]] = g
		}
	}
	return idx
}

// scoreIndex builds id -> total_score for one validated table
func scoreIndex(t *table.Table) (map[string]float64, error) {
	idx := make(map[string]float64, len(t.Rows))
	for _, row := range t.Rows {
		score, err := parseScore(row[ColTotalScore])
		if err != nil {
			// validation runs first, so this only fires on unvalidated input
			return nil, errors.MergeErrorf("%s: student %s: %v", t.Source, row[ColStudentID], err)
		}
		idx[row[ColStudentID]] = score
	}
	return idx, nil
}

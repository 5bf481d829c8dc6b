package table

// Row represents one data row as header -> cell string pairs
type Row map[string]string

// Table represents a complete tabular file after reading
type Table struct {
	Source  string   // file the table was read from, for error messages
	Headers []string // column headers in file order
	Rows    []Row    // data rows
}

// HasColumn reports whether a header is present
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Column extracts one column as raw strings, empty string for missing cells
func (t *Table) Column(name string) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[name]
	}
	return out
}

// RenameColumns applies header aliases (old name -> new name) in place.
// Used for declared corrections like the istudent_id header typo; anything
// beyond renaming is the validator's job to reject, not repair.
func (t *Table) RenameColumns(aliases map[string]string) {
	if len(aliases) == 0 {
		return
	}
	for i, h := range t.Headers {
		if repl, ok := aliases[h]; ok {
			t.Headers[i] = repl
		}
	}
	for _, row := range t.Rows {
		for old, repl := range aliases {
			if v, ok := row[old]; ok {
				delete(row, old)
				row[repl] = v
			}
		}
	}
}

package batch

// 📊 Result is the outcome of one record's processing. It marshals into the
// per-record object of the batch envelope.
type Result struct {
	Success          bool   `json:"success"`
	Name             string `json:"name,omitempty"`
	Filename         string `json:"filename,omitempty"`
	Path             string `json:"path,omitempty"`
	ReplacementsMade int    `json:"replacements_made"`
	Error            string `json:"error,omitempty"`
}

// 📈 Summary is the batch envelope printed on stdout: one Result per input
// record in input order, plus the aggregate flag and processed count. RunID
// identifies the batch in logs and the lock file but stays out of the
// envelope.
type Summary struct {
	Success        bool     `json:"success"`
	Results        []Result `json:"results"`
	TotalProcessed int      `json:"total_processed"`
	RunID          string   `json:"-"`
}

// failure builds a failed Result carrying a human-readable message
func failure(name string, err error) Result {
	return Result{Name: name, Error: err.Error()}
}

package engine

import (
	"time"

	"deporder/internal/order"
)

// Mode selects what Run does with a reordered file.
type Mode int

const (
	// ModePrint keeps the reordered text in the result for the caller to print.
	ModePrint Mode = iota
	// ModeWrite rewrites files in place.
	ModeWrite
	// ModeCheck only reports whether files are in order.
	ModeCheck
	// ModeList is ModeCheck whose output is the list of files that would change.
	ModeList
)

func (m Mode) String() string {
	switch m {
	case ModePrint:
		return "print"
	case ModeWrite:
		return "write"
	case ModeCheck:
		return "check"
	case ModeList:
		return "list"
	}
	return "unknown"
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path         string             `json:"path" yaml:"path" toml:"path"`
	Changed      bool               `json:"changed" yaml:"changed" toml:"changed"`
	Skipped      bool               `json:"skipped,omitempty" yaml:"skipped,omitempty" toml:"skipped,omitempty"`
	Cached       bool               `json:"cached,omitempty" yaml:"cached,omitempty" toml:"cached,omitempty"`
	Declarations []order.DeclReport `json:"declarations,omitempty" yaml:"declarations,omitempty" toml:"declarations,omitempty"`
	Error        string             `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
	Duration     time.Duration      `json:"durationNs" yaml:"durationNs" toml:"durationNs"`

	Output []byte `json:"-" yaml:"-" toml:"-"`
	Err    error  `json:"-" yaml:"-" toml:"-"`
}

// Moved returns the declarations whose members were reordered.
func (r *FileResult) Moved() []order.DeclReport {
	var out []order.DeclReport
	for _, d := range r.Declarations {
		if d.Moved {
			out = append(out, d)
		}
	}
	return out
}

// Report summarizes one engine run.
type Report struct {
	RunID     string        `json:"runId" yaml:"runId" toml:"runId"`
	Mode      string        `json:"mode" yaml:"mode" toml:"mode"`
	StartedAt time.Time     `json:"startedAt" yaml:"startedAt" toml:"startedAt"`
	Duration  time.Duration `json:"durationNs" yaml:"durationNs" toml:"durationNs"`

	Total     int `json:"total" yaml:"total" toml:"total"`
	Changed   int `json:"changed" yaml:"changed" toml:"changed"`
	Unchanged int `json:"unchanged" yaml:"unchanged" toml:"unchanged"`
	Cached    int `json:"cached" yaml:"cached" toml:"cached"`
	Skipped   int `json:"skipped" yaml:"skipped" toml:"skipped"`
	Failed    int `json:"failed" yaml:"failed" toml:"failed"`

	Files []FileResult `json:"files" yaml:"files" toml:"files"`
}

func (r *Report) tally() {
	r.Total = len(r.Files)
	for i := range r.Files {
		f := &r.Files[i]
		switch {
		case f.Err != nil && !f.Skipped:
			r.Failed++
		case f.Skipped:
			r.Skipped++
		case f.Changed:
			r.Changed++
		default:
			r.Unchanged++
		}
		if f.Cached {
			r.Cached++
		}
	}
}

// ChangedPaths lists the files that were (or would be) rewritten.
func (r *Report) ChangedPaths() []string {
	var out []string
	for _, f := range r.Files {
		if f.Changed {
			out = append(out, f.Path)
		}
	}
	return out
}

// Package report collects the violations of one linter run.
package report

import (
	"fmt"
	"strings"
)

// Level is the severity of a violation.
type Level uint8

// Levels, in increasing severity.
const (
	Notice Level = iota
	Warning
	Error
	Fatal
)

//nolint:gochecknoglobals // Lookup table.
var levelNames = [...]string{
	Notice:  "NOTICE",
	Warning: "WARNING",
	Error:   "ERROR",
	Fatal:   "FATAL",
}

// Levels returns every level in increasing severity.
func Levels() []Level {
	return []Level{Notice, Warning, Error, Fatal}
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", l)
}

// ParseLevel parses a level name case-insensitively.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return Notice, fmt.Errorf("unknown level %q (expected notice, warning, error or fatal)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(l.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Violation is one reported problem.
type Violation struct {
	Level    Level  `json:"level"`
	Message  string `json:"message"`
	Filename string `json:"filename"`
	Line     int    `json:"line"`

	// Position is the 1-based column, or 0 when unknown.
	Position int `json:"position,omitempty"`

	// Sniff is the ID of the reporting sniff, or the stage name for lexer,
	// parser and deprecation messages.
	Sniff string `json:"sniff,omitempty"`
}

func (v Violation) String() string {
	loc := fmt.Sprintf("%s:%d", v.Filename, v.Line)
	if v.Position > 0 {
		loc = fmt.Sprintf("%s:%d", loc, v.Position)
	}
	return fmt.Sprintf("%s: %s %s", loc, v.Level, v.Message)
}

// Filter selects violations. The zero value selects everything.
type Filter struct {
	Filename string
	MinLevel Level
}

func (f Filter) match(v Violation) bool {
	if f.Filename != "" && v.Filename != f.Filename {
		return false
	}
	return v.Level >= f.MinLevel
}

// Report holds the violations and processed files of one run.
// It is not safe for concurrent use.
type Report struct {
	messages []Violation
	files    []string
	totals   [len(levelNames)]int
}

// New creates an empty report.
func New() *Report {
	return &Report{}
}

// AddMessage records a violation.
func (r *Report) AddMessage(v Violation) {
	r.messages = append(r.messages, v)
	if int(v.Level) < len(r.totals) {
		r.totals[v.Level]++
	}
}

// AddFile records a processed file.
func (r *Report) AddFile(filename string) {
	r.files = append(r.files, filename)
}

// Messages returns the violations matching f in the order they were added.
func (r *Report) Messages(f Filter) []Violation {
	out := make([]Violation, 0, len(r.messages))
	for _, v := range r.messages {
		if f.match(v) {
			out = append(out, v)
		}
	}
	return out
}

// Files returns the processed files in order.
func (r *Report) Files() []string {
	out := make([]string, len(r.files))
	copy(out, r.files)
	return out
}

// TotalFiles returns the number of processed files.
func (r *Report) TotalFiles() int {
	return len(r.files)
}

// TotalMessages returns the number of violations.
func (r *Report) TotalMessages() int {
	return len(r.messages)
}

// TotalNotices returns the number of NOTICE violations.
func (r *Report) TotalNotices() int {
	return r.totals[Notice]
}

// TotalWarnings returns the number of WARNING violations.
func (r *Report) TotalWarnings() int {
	return r.totals[Warning]
}

// TotalErrors returns the number of ERROR violations.
func (r *Report) TotalErrors() int {
	return r.totals[Error]
}

// TotalFatals returns the number of FATAL violations.
func (r *Report) TotalFatals() int {
	return r.totals[Fatal]
}

// Totals returns the violation count per level.
func (r *Report) Totals() map[Level]int {
	out := make(map[Level]int, len(r.totals))
	for _, l := range Levels() {
		out[l] = r.totals[l]
	}
	return out
}

// HasFailures reports whether an ERROR or FATAL violation at or above min
// was recorded.
func (r *Report) HasFailures(minLevel Level) bool {
	threshold := max(minLevel, Error)
	for _, l := range Levels() {
		if l >= threshold && r.totals[l] > 0 {
			return true
		}
	}
	return false
}

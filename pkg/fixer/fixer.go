// Package fixer applies the edits token sniffs propose until a template
// reaches a fixed point.
//
// The fixer owns a buffer of token values indexed like the token stream.
// Each loop re-tokenizes the buffer and runs every token sniff in fix mode.
// A position may be edited once per loop unless the edits are grouped in a
// changeset, and a position flipping back to the value it had one loop
// earlier puts the fixer in conflict for the rest of the loop.
package fixer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/twigcs/internal/logging"
	"github.com/yaklabco/twigcs/pkg/fsutil"
	"github.com/yaklabco/twigcs/pkg/ruleset"
	"github.com/yaklabco/twigcs/pkg/sniff"
	"github.com/yaklabco/twigcs/pkg/token"
	"github.com/yaklabco/twigcs/pkg/tokenizer"
)

// MaxLoops bounds the number of fix loops per file.
const MaxLoops = 50

// ErrNotConverged is wrapped by a FixError when a file does not reach a
// fixed point.
var ErrNotConverged = errors.New("file did not reach a fixed point")

// FixError reports a file that could not be fixed. The file is left
// unmodified.
type FixError struct {
	Path      string
	Loops     int
	Conflicts int
	Err       error
}

// Error implements error.
func (e *FixError) Error() string {
	return fmt.Sprintf("fix %s: %v after %d loop(s), %d conflict(s)", e.Path, e.Err, e.Loops, e.Conflicts)
}

// Unwrap returns the underlying cause.
func (e *FixError) Unwrap() error {
	return e.Err
}

type history struct {
	previous string
	current  string
	loop     int
}

type edit struct {
	pos   int
	value string
}

// Fixer is the sniff.Fixer used in fix mode. It handles one file at a time
// and is not safe for concurrent use.
type Fixer struct {
	ruleset   *ruleset.Ruleset
	tokenizer *tokenizer.Tokenizer
	logger    *log.Logger
	maxLoops  int
	backup    bool

	tokens []string
	eol    string

	// fixed holds, per loop, the value a position had before its edit.
	fixed map[int]string

	// history survives loops; it detects edits undoing the previous loop.
	history map[int]history

	changeset   []edit
	changesetAt map[int]int
	inChangeset bool

	inConflict bool
	loops      int
	numFixes   int
	conflicts  int
}

var _ sniff.Fixer = (*Fixer)(nil)

// Option configures a Fixer.
type Option func(*Fixer)

// WithLogger sets the logger for loop and edit details.
func WithLogger(l *log.Logger) Option {
	return func(f *Fixer) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithMaxLoops overrides MaxLoops.
func WithMaxLoops(n int) Option {
	return func(f *Fixer) {
		if n > 0 {
			f.maxLoops = n
		}
	}
}

// WithBackup keeps a sidecar copy of each file before it is rewritten.
func WithBackup(enabled bool) Option {
	return func(f *Fixer) {
		f.backup = enabled
	}
}

// New creates a Fixer running the token sniffs of rs.
func New(rs *ruleset.Ruleset, tk *tokenizer.Tokenizer, opts ...Option) *Fixer {
	f := &Fixer{
		ruleset:   rs,
		tokenizer: tk,
		logger:    logging.Discard(),
		maxLoops:  MaxLoops,
		eol:       "\n",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FixFile fixes the file at path in place. The file is written atomically
// and only once a fixed point was reached.
func (f *Fixer) FixFile(ctx context.Context, path string) error {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}

	fixed, err := f.FixSource(path, string(content))
	if err != nil {
		// A file that does not lex as written is left for the lint phase
		// to report. A lex error introduced by an edit still fails.
		var fixErr *FixError
		var lexErr *tokenizer.LexError
		if errors.As(err, &fixErr) && fixErr.Loops == 0 && errors.As(err, &lexErr) {
			f.logger.Debug("skipping fix", logging.FieldPath, path, logging.FieldError, lexErr)
			return nil
		}
		return err
	}
	if fixed == string(content) {
		return nil
	}

	modified, err := fsutil.CheckModified(ctx, info)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	if modified {
		return fmt.Errorf("fix: %w: %s", fsutil.ErrModified, path)
	}

	if f.backup {
		if _, err := fsutil.CreateBackup(ctx, path, content, info.Mode); err != nil {
			return fmt.Errorf("fix: %w", err)
		}
	}
	if err := fsutil.WriteAtomic(ctx, path, []byte(fixed), info.Mode); err != nil {
		return fmt.Errorf("fix: %w", err)
	}

	f.logger.Debug("fixed file", logging.FieldPath, path, logging.FieldLoops, f.loops)
	return nil
}

// FixSource returns the fixed point of source. Errors are *FixError.
func (f *Fixer) FixSource(filename, source string) (string, error) {
	f.loops = 0
	f.conflicts = 0
	f.history = make(map[int]history)
	f.eol = detectEOL(source)

	sniffs := f.ruleset.TokenSniffs()
	for _, s := range sniffs {
		s.EnableFixer(f)
	}
	defer func() {
		for _, s := range sniffs {
			s.Disable()
		}
	}()

	contents := source
	for f.loops < f.maxLoops {
		stream, err := f.tokenizer.Tokenize(contents, filename)
		if err != nil {
			return "", &FixError{Path: filename, Loops: f.loops, Conflicts: f.conflicts, Err: err}
		}
		f.startLoop(stream)

		for _, s := range sniffs {
			if err := sniff.ProcessStream(s, stream); err != nil {
				return "", &FixError{
					Path:      filename,
					Loops:     f.loops,
					Conflicts: f.conflicts,
					Err:       fmt.Errorf("sniff %s: %w", s.ID(), err),
				}
			}
		}

		f.loops++
		contents = f.Contents()
		f.logger.Debug("fix loop",
			logging.FieldPath, filename,
			logging.FieldLoops, f.loops,
			logging.FieldFixes, f.numFixes,
			logging.FieldConflict, f.inConflict)

		if f.numFixes == 0 {
			if !f.inConflict {
				return contents, nil
			}
			// Nothing moved and the only proposals undo the previous
			// loop: every further loop would replay the same flip.
			break
		}
	}

	return "", &FixError{Path: filename, Loops: f.loops, Conflicts: f.conflicts, Err: ErrNotConverged}
}

func (f *Fixer) startLoop(stream *token.Stream) {
	f.tokens = stream.Values()
	f.fixed = make(map[int]string)
	f.changeset = nil
	f.changesetAt = nil
	f.inChangeset = false
	f.inConflict = false
	f.numFixes = 0
}

// Contents returns the current buffer.
func (f *Fixer) Contents() string {
	return strings.Join(f.tokens, "")
}

// Loops returns the number of loops of the last FixSource call.
func (f *Fixer) Loops() int {
	return f.loops
}

// Conflicts returns the number of conflicts of the last FixSource call.
func (f *Fixer) Conflicts() int {
	return f.conflicts
}

// EOL returns the line ending used by AddNewline.
func (f *Fixer) EOL() string {
	return f.eol
}

// TokenContent returns the value at pos, including a pending changeset edit.
func (f *Fixer) TokenContent(pos int) string {
	if f.inChangeset {
		if i, ok := f.changesetAt[pos]; ok {
			return f.changeset[i].value
		}
	}
	if pos < 0 || pos >= len(f.tokens) {
		return ""
	}
	return f.tokens[pos]
}

// ReplaceToken sets the value at pos and reports whether the edit was
// accepted. Inside a changeset the edit is only recorded.
func (f *Fixer) ReplaceToken(pos int, value string) bool {
	if f.inConflict || pos < 0 || pos >= len(f.tokens) {
		return false
	}

	if f.inChangeset {
		if i, ok := f.changesetAt[pos]; ok {
			f.changeset[i].value = value
		} else {
			f.changesetAt[pos] = len(f.changeset)
			f.changeset = append(f.changeset, edit{pos: pos, value: value})
		}
		return true
	}

	if _, done := f.fixed[pos]; done {
		return false
	}

	if h, seen := f.history[pos]; !seen {
		f.history[pos] = history{previous: f.tokens[pos], current: value, loop: f.loops}
	} else {
		if value == h.previous && f.tokens[pos] == h.current && h.loop == f.loops-1 {
			f.inConflict = true
			f.conflicts++
			f.logger.Debug("fix conflict", logging.FieldPosition, pos, logging.FieldLoops, f.loops)
			return false
		}
		f.history[pos] = history{previous: f.tokens[pos], current: value, loop: f.loops}
	}

	f.fixed[pos] = f.tokens[pos]
	f.tokens[pos] = value
	f.numFixes++
	return true
}

// RevertToken undoes the edit made at pos in the current loop.
func (f *Fixer) RevertToken(pos int) {
	old, ok := f.fixed[pos]
	if !ok {
		return
	}
	f.tokens[pos] = old
	delete(f.fixed, pos)
	f.numFixes--
}

// BeginChangeset starts grouping edits. A changeset already open is kept.
func (f *Fixer) BeginChangeset() {
	if f.inConflict || f.inChangeset {
		return
	}
	f.changeset = nil
	f.changesetAt = make(map[int]int)
	f.inChangeset = true
}

// EndChangeset applies the grouped edits in order. If one is rejected, the
// ones already applied are reverted and false is returned.
func (f *Fixer) EndChangeset() bool {
	if !f.inChangeset {
		return false
	}
	f.inChangeset = false

	edits := f.changeset
	f.changeset = nil
	f.changesetAt = nil

	applied := make([]int, 0, len(edits))
	for _, e := range edits {
		if !f.ReplaceToken(e.pos, e.value) {
			for i := len(applied) - 1; i >= 0; i-- {
				f.RevertToken(applied[i])
			}
			return false
		}
		applied = append(applied, e.pos)
	}
	return true
}

// RollbackChangeset discards the open changeset.
func (f *Fixer) RollbackChangeset() {
	f.inChangeset = false
	f.changeset = nil
	f.changesetAt = nil
}

// AddContent appends value to the token at pos.
func (f *Fixer) AddContent(pos int, value string) bool {
	return f.ReplaceToken(pos, f.TokenContent(pos)+value)
}

// AddContentBefore prepends value to the token at pos.
func (f *Fixer) AddContentBefore(pos int, value string) bool {
	return f.ReplaceToken(pos, value+f.TokenContent(pos))
}

// AddNewline appends a line ending to the token at pos.
func (f *Fixer) AddNewline(pos int) bool {
	return f.AddContent(pos, f.eol)
}

// AddNewlineBefore prepends a line ending to the token at pos.
func (f *Fixer) AddNewlineBefore(pos int) bool {
	return f.AddContentBefore(pos, f.eol)
}

func detectEOL(content string) string {
	switch {
	case strings.Contains(content, "\r\n"):
		return "\r\n"
	case strings.Contains(content, "\r"):
		return "\r"
	default:
		return "\n"
	}
}

package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Run fields.
	FieldFix      = "fix"
	FieldFormat   = "format"
	FieldMinLevel = "min_level"
	FieldSniffs   = "sniffs"

	// Fixer fields.
	FieldLoops    = "loops"
	FieldFixes    = "fixes"
	FieldConflict = "conflict"
	FieldPosition = "position"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldViolations      = "violations"
	FieldFatals          = "fatals"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Sniff fields.
	FieldSniff       = "sniff"
	FieldStandard    = "standard"
	FieldKind        = "kind"
	FieldFixable     = "fixable"
	FieldDescription = "description"
)

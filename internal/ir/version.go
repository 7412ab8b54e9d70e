package ir

// Version constants for the journal record format and the tool.
const (
	// FormatVersion is the journal record format version.
	FormatVersion = "1"

	// Version is the journalized release version.
	Version = "0.1.0"
)

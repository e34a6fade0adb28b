package models

// ResumeFile is an uploaded resume held in memory for one ranking call.
// Err is set when the bytes could not be loaded; such a file is ranked as a
// failed extraction.
type ResumeFile struct {
	Name     string
	MimeType string
	Data     []byte
	Err      error
}

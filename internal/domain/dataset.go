package domain

import "time"

// Dataset is a named, immutable observation table stored for reuse across
// fits. Source records where the rows came from (file path or URL).
type Dataset struct {
	ID        string
	Name      string
	Source    string
	Rows      int
	CreatedAt time.Time
}

// FitRecord is the metadata of a persisted bootstrap fit. The sample pairs
// themselves live in fit_samples and are loaded on demand.
type FitRecord struct {
	ID         string
	DatasetID  string // empty when the fit ran from a file or URL
	Name       string
	Iterations int
	Seed       *int64 // nil when the run was not seeded
	CreatedAt  time.Time
}

// Package uploads keeps parsed spreadsheets between API calls so a client can
// upload once, adjust the column mapping, then clean, export and forecast.
package uploads

import (
	"errors"
	"time"

	"salespulse/internal/ingestion"
	"salespulse/pkg/contracts/domain"
)

var (
	// ErrNotFound is returned for unknown or expired upload IDs
	ErrNotFound = errors.New("upload not found")
	// ErrExists is returned when creating a session whose ID is taken
	ErrExists = errors.New("upload already exists")
	// ErrStale is returned when a write carries an outdated Revision
	ErrStale = errors.New("upload was modified concurrently")
)

// Session is one uploaded spreadsheet and the work done on it so far.
// Dataset is immutable once stored. Mapping starts as the auto-mapping and
// accumulates overrides. Result holds the latest cleaning run, if any.
// Revision counts successful Updates; writes made from an older copy are
// refused with ErrStale.
type Session struct {
	ID        string                  `json:"id"`
	FileName  string                  `json:"fileName"`
	Format    string                  `json:"format"`
	Dataset   *domain.RawDataset      `json:"-"`
	AutoMap   ingestion.AutoMapResult `json:"autoMap"`
	Mapping   domain.ColumnMapping    `json:"mapping"`
	Result    *domain.CleaningResult  `json:"-"`
	Revision  int64                   `json:"revision"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// RowCount returns the number of data rows in the dataset
func (s *Session) RowCount() int {
	if s.Dataset == nil {
		return 0
	}
	return len(s.Dataset.Rows)
}

// Cleaned reports whether the session has a cleaning result
func (s *Session) Cleaned() bool {
	return s.Result != nil
}

// clone copies the session header and mapping; Dataset and Result are shared
// because neither is mutated after it is stored.
func (s *Session) clone() *Session {
	c := *s
	c.Mapping = s.Mapping.Clone()
	return &c
}

// Store persists upload sessions
type Store interface {
	Create(session *Session) error
	Get(id string) (*Session, error)
	Update(session *Session) error
	SetResult(id string, revision int64, result *domain.CleaningResult) error
	Delete(id string) error
	List() []*Session
	PurgeExpired(now time.Time) int
	Len() int
}

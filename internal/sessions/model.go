package sessions

import (
	"time"

	"mealplan-backend/internal/catalog"
	"mealplan-backend/internal/compliance"
	"mealplan-backend/internal/mealplan"
	"mealplan-backend/internal/residents"
)

// Session holds the tables one operator works on and the last pipeline result.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Data      Data      `json:"data"`
}

// Data is the mutable part of a session, persisted as one payload.
type Data struct {
	Menu      catalog.Catalog      `json:"menu,omitempty"`
	Residents []residents.Resident `json:"residents,omitempty"`
	Standards compliance.Table     `json:"standards,omitempty"`
	// Result is cleared whenever an input table changes.
	Result  *mealplan.Result `json:"result,omitempty"`
	Exports []Export         `json:"exports,omitempty"`
}

// Export is a generated workbook stored in the object store.
type Export struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	StorageKey  string    `json:"storageKey"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Ready reports whether the tables needed for a pipeline run are present.
func (s Session) Ready() bool {
	return len(s.Data.Menu) > 0 && len(s.Data.Residents) > 0
}

// Input builds the pipeline input from the session tables.
func (s Session) Input() mealplan.Input {
	return mealplan.Input{
		Catalog:   s.Data.Menu,
		Residents: s.Data.Residents,
		Standards: s.Data.Standards,
	}
}

// FindExport returns the export with the given id.
func (s Session) FindExport(id string) (Export, bool) {
	for _, e := range s.Data.Exports {
		if e.ID == id {
			return e, true
		}
	}
	return Export{}, false
}

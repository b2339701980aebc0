// Package query translates transaction-history query parameters into a
// predicate over the transaction log.
package query

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerhub/transfer-service/internal/models"
)

// Recognized query parameter names. Parameters outside this set are ignored.
const (
	ParamFromID   = "from_id"
	ParamToID     = "to_id"
	ParamFromDate = "from_date"
	ParamToDate   = "to_date"
)

// Criteria is a conjunctive set of optional transaction filters.
// A nil field means the criterion is not applied.
type Criteria struct {
	FromID   *uuid.UUID
	ToID     *uuid.UUID
	FromDate *time.Time
	ToDate   *time.Time
}

// ParseCriteria builds Criteria from raw query parameters.
//
// Recognized parameters are from_id, to_id (UUID), from_date and to_date
// (RFC 3339). An absent or empty parameter is simply not applied, but a
// malformed value for a recognized parameter fails the whole query: silently
// skipping it would return results the caller did not ask for.
func ParseCriteria(params url.Values) (Criteria, error) {
	var c Criteria

	if raw := params.Get(ParamFromID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Criteria{}, fmt.Errorf("parse %s: %w", ParamFromID, err)
		}
		c.FromID = &id
	}

	if raw := params.Get(ParamToID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Criteria{}, fmt.Errorf("parse %s: %w", ParamToID, err)
		}
		c.ToID = &id
	}

	if raw := params.Get(ParamFromDate); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Criteria{}, fmt.Errorf("parse %s: %w", ParamFromDate, err)
		}
		c.FromDate = &ts
	}

	if raw := params.Get(ParamToDate); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Criteria{}, fmt.Errorf("parse %s: %w", ParamToDate, err)
		}
		c.ToDate = &ts
	}

	return c, nil
}

// Matches reports whether tx satisfies every applied criterion.
// With no criteria applied it matches everything.
func (c Criteria) Matches(tx models.TransferTransaction) bool {
	if c.FromID != nil && tx.From != *c.FromID {
		return false
	}
	if c.ToID != nil && tx.To != *c.ToID {
		return false
	}
	if c.FromDate != nil && tx.Timestamp.Before(*c.FromDate) {
		return false
	}
	if c.ToDate != nil && tx.Timestamp.After(*c.ToDate) {
		return false
	}
	return true
}

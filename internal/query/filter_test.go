package query

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerhub/transfer-service/internal/models"
)

func TestParseCriteriaEmpty(t *testing.T) {
	criteria, err := ParseCriteria(url.Values{})
	if err != nil {
		t.Fatal(err)
	}
	if criteria.FromID != nil || criteria.ToID != nil || criteria.FromDate != nil || criteria.ToDate != nil {
		t.Fatalf("empty params should apply no criteria: %+v", criteria)
	}

	tx := models.NewTransferTransaction(uuid.New(), uuid.New(), decimal.NewFromInt(5), time.Now())
	if !criteria.Matches(tx) {
		t.Fatal("empty criteria should match every transaction")
	}
}

func TestParseCriteriaAllParams(t *testing.T) {
	from, to := uuid.New(), uuid.New()
	params := url.Values{}
	params.Set(ParamFromID, from.String())
	params.Set(ParamToID, to.String())
	params.Set(ParamFromDate, "2026-01-01T00:00:00Z")
	params.Set(ParamToDate, "2026-12-31T23:59:59Z")

	criteria, err := ParseCriteria(params)
	if err != nil {
		t.Fatal(err)
	}
	if *criteria.FromID != from || *criteria.ToID != to {
		t.Fatal("id criteria not parsed")
	}
	if criteria.FromDate.Year() != 2026 || criteria.ToDate.Month() != time.December {
		t.Fatal("date criteria not parsed")
	}
}

func TestParseCriteriaMalformedValues(t *testing.T) {
	cases := []struct {
		name  string
		param string
		value string
	}{
		{"bad from_id", ParamFromID, "not-a-uuid"},
		{"bad to_id", ParamToID, "42"},
		{"bad from_date", ParamFromDate, "yesterday"},
		{"bad to_date", ParamToDate, "1690000000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := url.Values{}
			params.Set(tc.param, tc.value)
			if _, err := ParseCriteria(params); err == nil {
				t.Fatalf("malformed %s should fail the whole query", tc.param)
			}
		})
	}
}

func TestParseCriteriaIgnoresUnknownParams(t *testing.T) {
	params := url.Values{}
	params.Set("sort", "desc")
	params.Set("page", "banana")

	criteria, err := ParseCriteria(params)
	if err != nil {
		t.Fatal(err)
	}
	if criteria.FromID != nil || criteria.ToID != nil || criteria.FromDate != nil || criteria.ToDate != nil {
		t.Fatal("unrecognized parameters should be ignored")
	}
}

func TestCriteriaMatchesConjunction(t *testing.T) {
	from, to, other := uuid.New(), uuid.New(), uuid.New()
	ts := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	tx := models.NewTransferTransaction(from, to, decimal.NewFromInt(5), ts)

	matching := Criteria{FromID: &from, ToID: &to}
	if !matching.Matches(tx) {
		t.Fatal("criteria matching both ids should match")
	}

	mismatched := Criteria{FromID: &from, ToID: &other}
	if mismatched.Matches(tx) {
		t.Fatal("one failing criterion should reject the transaction")
	}
}

func TestCriteriaTimeBoundsInclusive(t *testing.T) {
	ts := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	tx := models.NewTransferTransaction(uuid.New(), uuid.New(), decimal.NewFromInt(5), ts)

	exact := Criteria{FromDate: &ts, ToDate: &ts}
	if !exact.Matches(tx) {
		t.Fatal("bounds equal to the timestamp should match")
	}

	after := ts.Add(time.Second)
	lower := Criteria{FromDate: &after}
	if lower.Matches(tx) {
		t.Fatal("transaction before the lower bound should not match")
	}

	before := ts.Add(-time.Second)
	upper := Criteria{ToDate: &before}
	if upper.Matches(tx) {
		t.Fatal("transaction after the upper bound should not match")
	}
}

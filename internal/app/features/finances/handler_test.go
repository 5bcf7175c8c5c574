package finances

import (
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/app/services/dues"
	"github.com/dalemusser/clubhub/internal/app/services/ledger"
	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*Handler, *docstore.Memory, *testutil.Fixtures) {
	t.Helper()
	ds := docstore.NewMemory()
	h := NewHandler(ds, 1500, zap.NewNop())
	h.now = func() time.Time { return time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC) }
	return h, ds, testutil.NewFixtures(t, ds)
}

func toggle(t *testing.T, h *Handler, memberID string, month, year int) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	h.HandleToggle(rec, testutil.NewJSONRequest(t, "POST", "/api/finances/dues/toggle", map[string]any{
		"member_id": memberID,
		"month":     month,
		"year":      year,
	}))
	return rec
}

func TestHandleAdd(t *testing.T) {
	h, _, _ := setup(t)

	tests := []struct {
		name   string
		amount any
		want   int64
	}{
		{"number", 12.5, 1250},
		{"string with comma", "7,25", 725},
		{"integer", 30, 3000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleAdd(rec, testutil.NewJSONRequest(t, "POST", "/api/finances", map[string]any{
				"kind":     "expense",
				"amount":   tt.amount,
				"category": "food",
				"date":     "2024-03-02",
			}))
			rec.AssertStatus(t, http.StatusCreated)

			var got models.FinanceEntry
			rec.DecodeJSON(t, &got)
			assert.Equal(t, tt.want, got.Amount)
			assert.Equal(t, models.OriginManual, got.Origin)
			assert.Equal(t, 2, got.Month)
			assert.Equal(t, 2024, got.Year)
			assert.Equal(t, "Expense", got.Description)
		})
	}
}

func TestHandleAdd_Validation(t *testing.T) {
	h, _, _ := setup(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"bad kind", map[string]any{"kind": "gift", "amount": 1, "date": "2024-03-02"}},
		{"zero amount", map[string]any{"kind": "income", "amount": 0, "date": "2024-03-02"}},
		{"negative amount", map[string]any{"kind": "income", "amount": "-3", "date": "2024-03-02"}},
		{"bad date", map[string]any{"kind": "income", "amount": 1, "date": "02/03/2024"}},
		{"bad category", map[string]any{"kind": "income", "amount": 1, "date": "2024-03-02", "category": "food"}},
		{"amount not a number", map[string]any{"kind": "income", "amount": true, "date": "2024-03-02"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleAdd(rec, testutil.NewJSONRequest(t, "POST", "/api/finances", tt.body))
			rec.AssertStatus(t, http.StatusBadRequest)
		})
	}
}

func TestServeSummary(t *testing.T) {
	h, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateManualEntry(ctx, models.FinanceIncome, 5000, "2024-03-01", 2, 2024)
	fx.CreateManualEntry(ctx, models.FinanceExpense, 1200, "2024-03-04", 2, 2024)
	fx.CreateManualEntry(ctx, models.FinanceIncome, 1000, "2024-02-10", 1, 2024)

	rec := testutil.NewRecorder()
	h.ServeSummary(rec, testutil.NewRequest("GET", "/api/finances"))

	rec.AssertStatus(t, http.StatusOK)
	var got ledger.Summary
	rec.DecodeJSON(t, &got)
	assert.Equal(t, int64(5000), got.Income)
	assert.Equal(t, int64(1200), got.Expense)
	assert.Equal(t, int64(4800), got.Balance)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "2024-03-04", got.Entries[0].Date)
}

func TestServeSummary_StoreFailure(t *testing.T) {
	h, ds, _ := setup(t)
	ds.SetFault(func(op, coll, id string) error { return errors.New("down") })

	rec := testutil.NewRecorder()
	h.ServeSummary(rec, testutil.NewRequest("GET", "/api/finances?month=2&year=2024"))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"stale":true`)
}

func TestHandleDelete(t *testing.T) {
	h, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	manual := fx.CreateManualEntry(ctx, models.FinanceIncome, 5000, "2024-03-01", 2, 2024)
	ana := fx.CreateMember(ctx, "Ana")
	toggle(t, h, ana.ID, 2, 2024).AssertStatus(t, http.StatusOK)

	summary := h.Ledger.MonthSummary(ctx, 2, 2024)
	var duesID string
	for _, e := range summary.Entries {
		if e.IsDues() {
			duesID = e.ID
		}
	}
	require.NotEmpty(t, duesID)

	del := func(id string) *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		h.HandleDelete(rec, testutil.WithChiURLParam(testutil.NewRequest("DELETE", "/"), "id", id))
		return rec
	}

	del(duesID).AssertStatus(t, http.StatusConflict)
	del(manual.ID).AssertStatus(t, http.StatusNoContent)
	del(manual.ID).AssertStatus(t, http.StatusNotFound)
}

func TestHandleToggle_RoundTrip(t *testing.T) {
	h, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	ana := fx.CreateMember(ctx, "Ana Souza")

	rec := toggle(t, h, ana.ID, 2, 2024)
	rec.AssertStatus(t, http.StatusOK)
	var on dues.ToggleResult
	rec.DecodeJSON(t, &on)
	assert.True(t, on.Paid)
	require.NotNil(t, on.Entry)
	assert.Equal(t, int64(1500), on.Entry.Amount)
	assert.Equal(t, models.CategoryDues, on.Entry.Category)

	assert.Equal(t, int64(1500), h.Ledger.MonthSummary(ctx, 2, 2024).Balance)

	rec = toggle(t, h, ana.ID, 2, 2024)
	rec.AssertStatus(t, http.StatusOK)
	var off dues.ToggleResult
	rec.DecodeJSON(t, &off)
	assert.False(t, off.Paid)
	assert.Nil(t, off.Entry)

	summary := h.Ledger.MonthSummary(ctx, 2, 2024)
	assert.Zero(t, summary.Balance)
	assert.Empty(t, summary.Entries)
}

func TestHandleToggle_Errors(t *testing.T) {
	h, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	ana := fx.CreateMember(ctx, "Ana")

	toggle(t, h, "", 2, 2024).AssertStatus(t, http.StatusBadRequest)
	toggle(t, h, ana.ID, 12, 2024).AssertStatus(t, http.StatusBadRequest)
	toggle(t, h, ana.ID, 2, 0).AssertStatus(t, http.StatusBadRequest)
	toggle(t, h, "ghost", 2, 2024).AssertStatus(t, http.StatusNotFound)

	rec := testutil.NewRecorder()
	h.HandleToggle(rec, testutil.NewJSONRequest(t, "POST", "/", map[string]any{"member_id": ana.ID, "year": 2024}))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleToggle_StoreFailure(t *testing.T) {
	h, ds, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	ana := fx.CreateMember(ctx, "Ana")
	ds.SetFault(func(op, coll, id string) error {
		if op == docstore.OpAdd && coll == "finances" {
			return errors.New("write refused")
		}
		return nil
	})

	toggle(t, h, ana.ID, 2, 2024).AssertStatus(t, http.StatusInternalServerError)
}

func TestHandleToggle_ConcurrentClicksStayConsistent(t *testing.T) {
	h, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	ana := fx.CreateMember(ctx, "Ana")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			toggle(t, h, ana.ID, 5, 2024)
		}()
	}
	wg.Wait()

	grid, err := h.Dues.Grid(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, grid.Rows, 1)

	var duesEntries int
	for _, e := range h.Ledger.MonthSummary(ctx, 5, 2024).Entries {
		if e.IsDues() {
			duesEntries++
		}
	}
	if grid.Rows[0].Paid[5] {
		assert.Equal(t, 1, duesEntries)
	} else {
		assert.Equal(t, 0, duesEntries)
	}
}

func TestServeDuesGrid(t *testing.T) {
	h, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	ana := fx.CreateMember(ctx, "Ana")
	fx.CreateMember(ctx, "Bruno")
	toggle(t, h, ana.ID, 0, 2024).AssertStatus(t, http.StatusOK)

	rec := testutil.NewRecorder()
	h.ServeDuesGrid(rec, testutil.NewRequest("GET", "/api/finances/dues"))

	rec.AssertStatus(t, http.StatusOK)
	var grid dues.Grid
	rec.DecodeJSON(t, &grid)
	assert.Equal(t, 2024, grid.Year)
	assert.Equal(t, int64(1500), grid.Rate)
	require.Len(t, grid.Rows, 2)
	assert.True(t, grid.Rows[0].Paid[0])
	assert.False(t, grid.Rows[1].Paid[0])

	rec = testutil.NewRecorder()
	h.ServeDuesGrid(rec, testutil.NewRequest("GET", "/api/finances/dues?year=abc"))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestRate(t *testing.T) {
	h, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	ana := fx.CreateMember(ctx, "Ana")

	rec := testutil.NewRecorder()
	h.ServeRate(rec, testutil.NewRequest("GET", "/api/finances/dues/rate"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"display":"15.00"`)

	toggle(t, h, ana.ID, 0, 2024).AssertStatus(t, http.StatusOK)

	req := testutil.WithUser(testutil.NewJSONRequest(t, "PUT", "/api/finances/dues/rate", map[string]any{"rate": "20,00"}), testutil.Director())
	rec = testutil.NewRecorder()
	h.HandleSetRate(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"rate":2000`)

	toggle(t, h, ana.ID, 1, 2024).AssertStatus(t, http.StatusOK)

	jan := h.Ledger.MonthSummary(ctx, 0, 2024)
	feb := h.Ledger.MonthSummary(ctx, 1, 2024)
	require.Len(t, jan.Entries, 1)
	require.Len(t, feb.Entries, 1)
	assert.Equal(t, int64(1500), jan.Entries[0].Amount, "earlier payments keep their amount")
	assert.Equal(t, int64(2000), feb.Entries[0].Amount)

	for _, bad := range []any{0, "-5", "abc"} {
		rec = testutil.NewRecorder()
		h.HandleSetRate(rec, testutil.NewJSONRequest(t, "PUT", "/", map[string]any{"rate": bad}))
		rec.AssertStatus(t, http.StatusBadRequest)
	}
}

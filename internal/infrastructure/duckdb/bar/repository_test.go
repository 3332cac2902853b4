package bar

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/kenyon01/vnpy-duckdb/internal/domain/market"
	"github.com/kenyon01/vnpy-duckdb/pkg/duckdb"
	mockdb "github.com/kenyon01/vnpy-duckdb/pkg/duckdb/mock"
	"github.com/kenyon01/vnpy-duckdb/pkg/errors"
)

// sqlContains matches a statement by substring, so tests pin the statement
// shape without repeating whole queries.
type sqlContains string

func (m sqlContains) Matches(x any) bool {
	s, ok := x.(string)
	return ok && strings.Contains(s, string(m))
}

func (m sqlContains) String() string {
	return fmt.Sprintf("sql contains %q", string(m))
}

var (
	t0 = time.Date(2024, 1, 2, 9, 29, 0, 0, time.UTC)
	t1 = time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	t2 = time.Date(2024, 1, 2, 9, 31, 0, 0, time.UTC)
	t3 = time.Date(2024, 1, 2, 9, 32, 0, 0, time.UTC)
)

func testBar(dt time.Time, closePrice float64) *Bar {
	return &Bar{
		Symbol:     "AAPL",
		Exchange:   market.ExchangeNASDAQ,
		Datetime:   dt,
		Interval:   market.IntervalMinute,
		Volume:     100,
		ClosePrice: closePrice,
	}
}

// expectWriteScope routes WithWriteAccess through the given handle.
func expectWriteScope(mgr *mockdb.MockAccessManager, h duckdb.Handle) {
	mgr.EXPECT().WithWriteAccess(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(duckdb.Handle) error) error {
			return fn(h)
		})
}

func expectUpsert(h *mockdb.MockHandle, b *Bar, err error) *gomock.Call {
	return h.EXPECT().Exec(gomock.Any(), sqlContains("INSERT INTO bar_data"),
		b.Symbol, string(b.Exchange), b.Datetime.UTC(), string(b.Interval),
		b.Volume, b.Turnover, b.OpenInterest,
		b.OpenPrice, b.HighPrice, b.LowPrice, b.ClosePrice,
	).Return(err)
}

// expectOverviewSelect returns the stored overview row, or sql.ErrNoRows
// when count < 0.
func expectOverviewSelect(ctrl *gomock.Controller, h *mockdb.MockHandle, count int64, start, end time.Time) {
	row := mockdb.NewMockRowInterface(ctrl)
	if count < 0 {
		row.EXPECT().Scan(gomock.Any(), gomock.Any(), gomock.Any()).Return(sql.ErrNoRows)
	} else {
		row.EXPECT().Scan(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(dest ...any) error {
				*(dest[0].(*int64)) = count
				*(dest[1].(*time.Time)) = start
				*(dest[2].(*time.Time)) = end
				return nil
			})
	}
	h.EXPECT().QueryRow(gomock.Any(), sqlContains("FROM bar_overview"),
		"AAPL", "NASDAQ", "1m").Return(row)
}

func expectRecount(ctrl *gomock.Controller, h *mockdb.MockHandle, n int64) {
	row := mockdb.NewMockRowInterface(ctrl)
	row.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
		*(dest[0].(*int64)) = n
		return nil
	})
	h.EXPECT().QueryRow(gomock.Any(), sqlContains("count(*) FROM bar_data"),
		"AAPL", "NASDAQ", "1m").Return(row)
}

func TestBarRepository_Save(t *testing.T) {
	testCases := []struct {
		name     string
		bars     []*Bar
		stream   bool
		mockFn   func(ctrl *gomock.Controller, h *mockdb.MockHandle)
		assertFn func(t *testing.T, written int, err error)
	}{
		{
			name: "first batch creates the overview with the batch extent",
			bars: []*Bar{testBar(t1, 101), testBar(t2, 102), testBar(t3, 103)},
			mockFn: func(ctrl *gomock.Controller, h *mockdb.MockHandle) {
				expectUpsert(h, testBar(t1, 101), nil)
				expectUpsert(h, testBar(t2, 102), nil)
				expectUpsert(h, testBar(t3, 103), nil)
				expectOverviewSelect(ctrl, h, -1, time.Time{}, time.Time{})
				expectRecount(ctrl, h, 3)
				h.EXPECT().Exec(gomock.Any(), sqlContains("INSERT INTO bar_overview"),
					"AAPL", "NASDAQ", "1m", int64(3), t1, t3).Return(nil)
			},
			assertFn: func(t *testing.T, written int, err error) {
				assert.NoError(t, err)
				assert.Equal(t, 3, written)
			},
		},
		{
			name: "earlier bar extends the overview start and recounts",
			bars: []*Bar{testBar(t0, 100)},
			mockFn: func(ctrl *gomock.Controller, h *mockdb.MockHandle) {
				expectUpsert(h, testBar(t0, 100), nil)
				expectOverviewSelect(ctrl, h, 3, t1, t3)
				expectRecount(ctrl, h, 4)
				h.EXPECT().Exec(gomock.Any(), sqlContains("UPDATE bar_overview"),
					t0, t3, int64(4), "AAPL", "NASDAQ", "1m").Return(nil)
			},
			assertFn: func(t *testing.T, written int, err error) {
				assert.NoError(t, err)
				assert.Equal(t, 1, written)
			},
		},
		{
			name: "overwriting an existing key keeps the count honest via recount",
			bars: []*Bar{testBar(t2, 999)},
			mockFn: func(ctrl *gomock.Controller, h *mockdb.MockHandle) {
				expectUpsert(h, testBar(t2, 999), nil)
				expectOverviewSelect(ctrl, h, 3, t1, t3)
				// engine overwrote the row, so count stays at 3
				expectRecount(ctrl, h, 3)
				h.EXPECT().Exec(gomock.Any(), sqlContains("UPDATE bar_overview"),
					t1, t3, int64(3), "AAPL", "NASDAQ", "1m").Return(nil)
			},
			assertFn: func(t *testing.T, written int, err error) {
				assert.NoError(t, err)
				assert.Equal(t, 1, written)
			},
		},
		{
			name:   "stream mode pushes end forward without a recount",
			bars:   []*Bar{testBar(t2, 102), testBar(t3, 103)},
			stream: true,
			mockFn: func(ctrl *gomock.Controller, h *mockdb.MockHandle) {
				expectUpsert(h, testBar(t2, 102), nil)
				expectUpsert(h, testBar(t3, 103), nil)
				expectOverviewSelect(ctrl, h, 1, t1, t1)
				h.EXPECT().Exec(gomock.Any(), sqlContains("SET end_dt = ?, count = count + ?"),
					t3, 2, "AAPL", "NASDAQ", "1m").Return(nil)
			},
			assertFn: func(t *testing.T, written int, err error) {
				assert.NoError(t, err)
				assert.Equal(t, 2, written)
			},
		},
		{
			name: "mid-batch failure reconciles the committed prefix",
			bars: []*Bar{testBar(t1, 101), testBar(t2, 102), testBar(t3, 103)},
			mockFn: func(ctrl *gomock.Controller, h *mockdb.MockHandle) {
				expectUpsert(h, testBar(t1, 101), nil)
				expectUpsert(h, testBar(t2, 102), stderrors.New("constraint violated"))
				// reconcile runs against the single committed row only
				expectOverviewSelect(ctrl, h, -1, time.Time{}, time.Time{})
				expectRecount(ctrl, h, 1)
				h.EXPECT().Exec(gomock.Any(), sqlContains("INSERT INTO bar_overview"),
					"AAPL", "NASDAQ", "1m", int64(1), t1, t1).Return(nil)
			},
			assertFn: func(t *testing.T, written int, err error) {
				assert.True(t, errors.HasCode(err, errors.WriteError))
				assert.Equal(t, 1, written)
			},
		},
		{
			name: "failure on the first row reports zero written",
			bars: []*Bar{testBar(t1, 101)},
			mockFn: func(ctrl *gomock.Controller, h *mockdb.MockHandle) {
				expectUpsert(h, testBar(t1, 101), stderrors.New("disk full"))
			},
			assertFn: func(t *testing.T, written int, err error) {
				assert.True(t, errors.HasCode(err, errors.WriteError))
				assert.Equal(t, 0, written)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mgr := mockdb.NewMockAccessManager(ctrl)
			h := mockdb.NewMockHandle(ctrl)
			expectWriteScope(mgr, h)
			tc.mockFn(ctrl, h)

			repo := NewRepository(mgr)
			written, err := repo.Save(context.Background(), tc.bars, tc.stream)
			tc.assertFn(t, written, err)
		})
	}
}

func TestBarRepository_Save_EmptyBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no write scope may be opened for an empty batch
	mgr := mockdb.NewMockAccessManager(ctrl)

	repo := NewRepository(mgr)
	written, err := repo.Save(context.Background(), nil, false)
	assert.NoError(t, err)
	assert.Equal(t, 0, written)
}

func TestBarRepository_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mgr := mockdb.NewMockAccessManager(ctrl)
	h := mockdb.NewMockHandle(ctrl)
	expectWriteScope(mgr, h)

	row := mockdb.NewMockRowInterface(ctrl)
	row.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
		*(dest[0].(*int64)) = 3
		return nil
	})
	h.EXPECT().QueryRow(gomock.Any(), sqlContains("count(*) FROM bar_data"),
		"AAPL", "NASDAQ", "1m").Return(row)
	h.EXPECT().Exec(gomock.Any(), sqlContains("DELETE FROM bar_data"),
		"AAPL", "NASDAQ", "1m").Return(nil)
	h.EXPECT().Exec(gomock.Any(), sqlContains("DELETE FROM bar_overview"),
		"AAPL", "NASDAQ", "1m").Return(nil)

	repo := NewRepository(mgr)
	deleted, err := repo.Delete(context.Background(), "AAPL", market.ExchangeNASDAQ, market.IntervalMinute)
	assert.NoError(t, err)
	assert.Equal(t, 3, deleted)
}

func TestBarRepository_Delete_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mgr := mockdb.NewMockAccessManager(ctrl)
	h := mockdb.NewMockHandle(ctrl)
	expectWriteScope(mgr, h)

	row := mockdb.NewMockRowInterface(ctrl)
	row.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
		*(dest[0].(*int64)) = 3
		return nil
	})
	h.EXPECT().QueryRow(gomock.Any(), sqlContains("count(*) FROM bar_data"),
		"AAPL", "NASDAQ", "1m").Return(row)
	h.EXPECT().Exec(gomock.Any(), sqlContains("DELETE FROM bar_data"),
		"AAPL", "NASDAQ", "1m").Return(stderrors.New("io error"))

	repo := NewRepository(mgr)
	deleted, err := repo.Delete(context.Background(), "AAPL", market.ExchangeNASDAQ, market.IntervalMinute)
	assert.True(t, errors.HasCode(err, errors.WriteError))
	assert.Equal(t, 0, deleted)
}

func TestBarRepository_Load(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mgr := mockdb.NewMockAccessManager(ctrl)
	read := mockdb.NewMockHandle(ctrl)
	mgr.EXPECT().Reader().Return(read)

	rows := mockdb.NewMockRowsInterface(ctrl)
	scanned := []*Bar{testBar(t1, 101), testBar(t2, 102)}
	idx := 0
	rows.EXPECT().Next().DoAndReturn(func() bool { return idx < len(scanned) }).Times(3)
	rows.EXPECT().Scan(
		gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		gomock.Any(), gomock.Any(), gomock.Any(),
		gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
	).DoAndReturn(func(dest ...any) error {
		b := scanned[idx]
		*(dest[0].(*string)) = b.Symbol
		*(dest[1].(*string)) = string(b.Exchange)
		*(dest[2].(*time.Time)) = b.Datetime
		*(dest[3].(*string)) = string(b.Interval)
		*(dest[4].(*float64)) = b.Volume
		*(dest[10].(*float64)) = b.ClosePrice
		idx++
		return nil
	}).Times(2)
	rows.EXPECT().Err().Return(nil)
	rows.EXPECT().Close().Return(nil)

	read.EXPECT().Query(gomock.Any(), sqlContains("FROM bar_data"),
		"AAPL", "NASDAQ", "1m", t1, t3).Return(rows, nil)

	repo := NewRepository(mgr)
	bars, err := repo.Load(context.Background(), "AAPL", market.ExchangeNASDAQ, market.IntervalMinute, t1, t3)
	assert.NoError(t, err)
	assert.Len(t, bars, 2)
	assert.Equal(t, t1, bars[0].Datetime)
	assert.Equal(t, 102.0, bars[1].ClosePrice)
}

func TestBarRepository_Overviews(t *testing.T) {
	expectTableCount := func(ctrl *gomock.Controller, h *mockdb.MockHandle, stmt string, n int64) {
		row := mockdb.NewMockRowInterface(ctrl)
		row.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
			*(dest[0].(*int64)) = n
			return nil
		})
		h.EXPECT().QueryRow(gomock.Any(), sqlContains(stmt)).Return(row)
	}

	expectOverviewRows := func(ctrl *gomock.Controller, h *mockdb.MockHandle) {
		rows := mockdb.NewMockRowsInterface(ctrl)
		done := false
		rows.EXPECT().Next().DoAndReturn(func() bool {
			if done {
				return false
			}
			done = true
			return true
		}).Times(2)
		rows.EXPECT().Scan(
			gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(),
		).DoAndReturn(func(dest ...any) error {
			*(dest[0].(*string)) = "AAPL"
			*(dest[1].(*string)) = "NASDAQ"
			*(dest[2].(*string)) = "1m"
			*(dest[3].(*int64)) = 3
			*(dest[4].(*time.Time)) = t1
			*(dest[5].(*time.Time)) = t3
			return nil
		})
		rows.EXPECT().Err().Return(nil)
		rows.EXPECT().Close().Return(nil)
		h.EXPECT().Query(gomock.Any(), sqlContains("FROM bar_overview")).Return(rows, nil)
	}

	t.Run("overviews already tracked", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mgr := mockdb.NewMockAccessManager(ctrl)
		read := mockdb.NewMockHandle(ctrl)
		mgr.EXPECT().Reader().Return(read)

		expectTableCount(ctrl, read, "count(*) FROM bar_data", 3)
		expectTableCount(ctrl, read, "count(*) FROM bar_overview", 1)
		expectOverviewRows(ctrl, read)

		repo := NewRepository(mgr)
		overviews, err := repo.Overviews(context.Background())
		assert.NoError(t, err)
		assert.Len(t, overviews, 1)
		assert.Equal(t, int64(3), overviews[0].Count)
		assert.Equal(t, t1, overviews[0].Start)
		assert.Equal(t, t3, overviews[0].End)
	})

	t.Run("data without overviews triggers a rebuild", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mgr := mockdb.NewMockAccessManager(ctrl)
		read := mockdb.NewMockHandle(ctrl)
		write := mockdb.NewMockHandle(ctrl)
		mgr.EXPECT().Reader().Return(read)
		expectWriteScope(mgr, write)

		expectTableCount(ctrl, read, "count(*) FROM bar_data", 3)
		expectTableCount(ctrl, read, "count(*) FROM bar_overview", 0)
		write.EXPECT().Exec(gomock.Any(), sqlContains("GROUP BY symbol, exchange, interval")).Return(nil)
		expectOverviewRows(ctrl, read)

		repo := NewRepository(mgr)
		overviews, err := repo.Overviews(context.Background())
		assert.NoError(t, err)
		assert.Len(t, overviews, 1)
	})
}

package tick

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/kenyon01/vnpy-duckdb/internal/domain/market"
	"github.com/kenyon01/vnpy-duckdb/internal/infrastructure/duckdb/mock"
	"github.com/kenyon01/vnpy-duckdb/internal/infrastructure/duckdb/tick"
	"github.com/kenyon01/vnpy-duckdb/pkg/errors"
	mocklog "github.com/kenyon01/vnpy-duckdb/pkg/logger/mock"
)

var (
	start = time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	end   = time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)
)

func TestUsecase_SaveTicks(t *testing.T) {
	ticks := []*tick.Tick{{Symbol: "rb2410", Exchange: market.ExchangeSHFE, Datetime: start}}

	testCases := []struct {
		name     string
		mockFn   func(repo *mock.MockTickRepository, log *mocklog.MockInterface)
		assertFn func(t *testing.T, written int, err error)
	}{
		{
			name: "success",
			mockFn: func(repo *mock.MockTickRepository, log *mocklog.MockInterface) {
				repo.EXPECT().Save(gomock.Any(), ticks, true).Return(1, nil)
				log.EXPECT().DebugContext(gomock.Any(), "ticks saved", gomock.Any())
			},
			assertFn: func(t *testing.T, written int, err error) {
				assert.NoError(t, err)
				assert.Equal(t, 1, written)
			},
		},
		{
			name: "repository failure",
			mockFn: func(repo *mock.MockTickRepository, log *mocklog.MockInterface) {
				repo.EXPECT().Save(gomock.Any(), ticks, true).
					Return(0, errors.NewStoreError(errors.WriteError, "upsert", assert.AnError))
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

			repo := mock.NewMockTickRepository(ctrl)
			log := mocklog.NewMockInterface(ctrl)
			tc.mockFn(repo, log)

			uc := NewUsecase(repo, log)
			written, err := uc.SaveTicks(context.Background(), ticks, true)
			tc.assertFn(t, written, err)
		})
	}
}

func TestUsecase_LoadTicks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	want := []*tick.Tick{{Symbol: "rb2410", Exchange: market.ExchangeSHFE, Datetime: start}}

	repo := mock.NewMockTickRepository(ctrl)
	log := mocklog.NewMockInterface(ctrl)
	repo.EXPECT().Load(gomock.Any(), "rb2410", market.ExchangeSHFE, start, end).Return(want, nil)

	uc := NewUsecase(repo, log)
	got, err := uc.LoadTicks(context.Background(), "rb2410", market.ExchangeSHFE, start, end)
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUsecase_DeleteTicks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockTickRepository(ctrl)
	log := mocklog.NewMockInterface(ctrl)
	repo.EXPECT().Delete(gomock.Any(), "rb2410", market.ExchangeSHFE).Return(7, nil)
	log.EXPECT().InfoContext(gomock.Any(), "ticks deleted",
		gomock.Any(), gomock.Any(), gomock.Any())

	uc := NewUsecase(repo, log)
	deleted, err := uc.DeleteTicks(context.Background(), "rb2410", market.ExchangeSHFE)
	assert.NoError(t, err)
	assert.Equal(t, 7, deleted)
}

func TestUsecase_GetTickOverviews(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	want := []*tick.Overview{{Symbol: "rb2410", Exchange: market.ExchangeSHFE, Count: 3, Start: start, End: end}}

	repo := mock.NewMockTickRepository(ctrl)
	log := mocklog.NewMockInterface(ctrl)
	repo.EXPECT().Overviews(gomock.Any()).Return(want, nil)

	uc := NewUsecase(repo, log)
	got, err := uc.GetTickOverviews(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

//go:build unit

package queries_test

import (
	"context"
	"testing"

	"ops-console/internal/infra"
	"ops-console/internal/pkg/errs"
	"ops-console/internal/usecase/queries"
	queriesmock "ops-console/tests/mock/queries"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ScheduleQueriesTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	mockStore *queriesmock.MockScheduleReadStore
	q         queries.ScheduleQueries
}

func (s *ScheduleQueriesTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockStore = queriesmock.NewMockScheduleReadStore(s.mockCtrl)
	s.q = queries.NewScheduleQueries(s.mockStore)
}

func (s *ScheduleQueriesTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestScheduleQueriesSuite(t *testing.T) {
	suite.Run(t, new(ScheduleQueriesTestSuite))
}

func (s *ScheduleQueriesTestSuite) TestList() {
	ctx := context.Background()

	s.Run("empty table falls back to built-in defaults", func() {
		s.mockStore.EXPECT().FindAll(gomock.Any()).Return(nil, nil).Times(1)

		views, err := s.q.List(ctx)
		s.Require().NoError(err)
		s.Require().Len(views, 2)

		s.Equal("price_reset", views[0].Key)
		s.False(views[0].Enabled)
		s.Equal("WED", views[0].DayOfWeek)
		s.Equal(20, views[0].Hour)
		s.Equal(0, views[0].Minute)
		s.True(views[0].Every2Weeks)

		s.Equal("product_full_sync", views[1].Key)
		s.Equal("THU", views[1].DayOfWeek)
		s.Equal(8, views[1].Hour)
		s.Equal(10, views[1].Minute)
	})

	s.Run("stored rows win over defaults, missing keys are filled in", func() {
		stored := &queries.ScheduleView{
			Key: "price_reset", Label: "Price reset", Enabled: true,
			DayOfWeek: "FRI", Hour: 21, Minute: 30, Every2Weeks: true,
			Timezone: "Australia/Sydney",
		}
		s.mockStore.EXPECT().FindAll(gomock.Any()).Return([]*queries.ScheduleView{stored}, nil).Times(1)

		views, err := s.q.List(ctx)
		s.Require().NoError(err)
		s.Require().Len(views, 2)

		s.True(views[0].Enabled)
		s.Equal("FRI", views[0].DayOfWeek)
		s.Equal(21, views[0].Hour)

		// DB に無い方はデフォルトで埋まる
		s.Equal("product_full_sync", views[1].Key)
		s.False(views[1].Enabled)
	})

	s.Run("unknown stored keys are appended after the defaults", func() {
		extra := &queries.ScheduleView{Key: "legacy_job", DayOfWeek: "MON"}
		s.mockStore.EXPECT().FindAll(gomock.Any()).Return([]*queries.ScheduleView{extra}, nil).Times(1)

		views, err := s.q.List(ctx)
		s.Require().NoError(err)
		s.Require().Len(views, 3)
		s.Equal("legacy_job", views[2].Key)
	})

	s.Run("store errors propagate", func() {
		s.mockStore.EXPECT().FindAll(gomock.Any()).Return(nil, errs.New("boom")).Times(1)

		_, err := s.q.List(ctx)
		s.Error(err)
	})
}

func (s *ScheduleQueriesTestSuite) TestGet() {
	ctx := context.Background()

	s.Run("returns the stored view", func() {
		stored := &queries.ScheduleView{Key: "price_reset"}
		s.mockStore.EXPECT().FindByKey(gomock.Any(), "price_reset").Return(stored, nil).Times(1)

		view, err := s.q.Get(ctx, "price_reset")
		s.Require().NoError(err)
		s.Equal("price_reset", view.Key)
	})

	s.Run("maps a repository not-found to the sentinel", func() {
		notFound := infra.WrapRepoErr("schedule not found", errs.New("no rows"), infra.KindNotFound)
		s.mockStore.EXPECT().FindByKey(gomock.Any(), "price_reset").Return(nil, notFound).Times(1)

		_, err := s.q.Get(ctx, "price_reset")
		s.Require().ErrorIs(err, queries.ErrScheduleNotFound)
	})
}

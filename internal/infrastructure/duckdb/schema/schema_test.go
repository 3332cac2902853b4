package schema

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mockdb "github.com/kenyon01/vnpy-duckdb/pkg/duckdb/mock"
)

type sqlContains string

func (m sqlContains) Matches(x any) bool {
	s, ok := x.(string)
	return ok && strings.Contains(s, string(m))
}

func (m sqlContains) String() string {
	return fmt.Sprintf("sql contains %q", string(m))
}

func TestCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := mockdb.NewMockHandle(ctrl)
	gomock.InOrder(
		h.EXPECT().Exec(gomock.Any(), sqlContains("CREATE TABLE IF NOT EXISTS bar_data")).Return(nil),
		h.EXPECT().Exec(gomock.Any(), sqlContains("CREATE TABLE IF NOT EXISTS tick_data")).Return(nil),
		h.EXPECT().Exec(gomock.Any(), sqlContains("CREATE TABLE IF NOT EXISTS bar_overview")).Return(nil),
		h.EXPECT().Exec(gomock.Any(), sqlContains("CREATE TABLE IF NOT EXISTS tick_overview")).Return(nil),
	)

	err := Create(context.Background(), h)
	assert.NoError(t, err)
}

func TestCreate_StatementFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := mockdb.NewMockHandle(ctrl)
	h.EXPECT().Exec(gomock.Any(), sqlContains("CREATE TABLE IF NOT EXISTS bar_data")).
		Return(stderrors.New("read-only database"))

	err := Create(context.Background(), h)
	assert.ErrorContains(t, err, "0001_bar_data.sql")
}

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enkitstudio/restaurant/internal/domain"
	"github.com/enkitstudio/restaurant/pkg/database"
	apperrors "github.com/enkitstudio/restaurant/pkg/errors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, mock.ExpectationsWereMet()) })
	return mock
}

func TestRestaurantRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewRestaurantRepository(mock)

	mock.ExpectQuery("INSERT INTO restaurants").
		WithArgs("Bistro", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	rest := &domain.Restaurant{Name: "Bistro"}
	require.NoError(t, repo.Create(context.Background(), rest))
	assert.Equal(t, int64(7), rest.ID)
}

func TestRestaurantRepository_List(t *testing.T) {
	mock := newMock(t)
	repo := NewRestaurantRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM restaurants").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow(int64(1), "Bistro", now, now).
			AddRow(int64(2), "Diner", now, now))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bistro", got[0].Name)
}

func TestMenuRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewMenuRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM menus WHERE id").
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "restaurant_id", "created_at", "updated_at"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOrderRepository_Create_AssignsID(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)
	customerID := uuid.New()

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(int64(3), customerID, domain.OrderQueued, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	o := &domain.Order{MenuID: 3, CustomerID: customerID, Status: domain.OrderQueued}
	require.NoError(t, repo.Create(context.Background(), o))
	assert.Equal(t, int64(42), o.ID)
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)

	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(domain.OrderCompleted, pgxmock.AnyArg(), int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), 5, domain.OrderCompleted)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOrderDecisionRepository_Create_AppliesStatusToOrder(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderDecisionRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO order_decisions").
		WithArgs(int64(10), int64(2), domain.DecisionAccepted, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(domain.OrderStatus(domain.DecisionAccepted), pgxmock.AnyArg(), int64(10)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	d := &domain.OrderDecision{OrderID: 10, RestaurantID: 2, Status: domain.DecisionAccepted}
	require.NoError(t, repo.Create(context.Background(), d))
	assert.Equal(t, int64(1), d.ID)
}

func TestOrderDecisionRepository_Create_UnknownOrder(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderDecisionRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO order_decisions").
		WithArgs(int64(11), int64(2), domain.DecisionRejected, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(domain.OrderStatus(domain.DecisionRejected), pgxmock.AnyArg(), int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	d := &domain.OrderDecision{OrderID: 11, RestaurantID: 2, Status: domain.DecisionRejected}
	err := repo.Create(context.Background(), d)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

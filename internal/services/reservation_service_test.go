package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"ridereservation/internal/domain/entities"
	"ridereservation/internal/repository"
	"ridereservation/internal/repository/memory"
	"ridereservation/pkg/utils"
)

type testEnv struct {
	store        *repository.Store
	registration *RegistrationService
	reservations *ReservationService
	queries      *QueryService
	metrics      *LifecycleMetrics
}

func setupServices() *testEnv {
	store := memory.NewStore()
	ids := utils.NewSequenceGenerator("id")
	notifier := NewNotificationService(slog.New(slog.NewTextHandler(io.Discard, nil)))
	metrics := NewLifecycleMetrics(prometheus.NewRegistry())

	return &testEnv{
		store:        store,
		registration: NewRegistrationService(store, ids, nil, notifier, metrics),
		reservations: NewReservationService(store, ids, notifier, metrics),
		queries:      NewQueryService(store),
		metrics:      metrics,
	}
}

func (e *testEnv) customer(t *testing.T, name string) string {
	t.Helper()
	c, err := e.registration.RegisterCustomer(context.Background(), name, "+1234567890")
	if err != nil {
		t.Fatalf("RegisterCustomer failed: %v", err)
	}
	return c.ID
}

func (e *testEnv) driver(t *testing.T, name string) string {
	t.Helper()
	d, err := e.registration.RegisterDriver(context.Background(), name, "+1234567890")
	if err != nil {
		t.Fatalf("RegisterDriver failed: %v", err)
	}
	return d.ID
}

func (e *testEnv) reservation(t *testing.T, customerID string) string {
	t.Helper()
	r, err := e.reservations.CreateReservation(context.Background(), customerID, "A", "B")
	if err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}
	return r.ID
}

func (e *testEnv) stored(t *testing.T, id string) *entities.Reservation {
	t.Helper()
	r, err := e.store.Reservations.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID(%s) failed: %v", id, err)
	}
	return r
}

func assertStatusError(t *testing.T, err error, want entities.ReservationStatus) {
	t.Helper()
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected *StatusError, got %v", err)
	}
	if statusErr.Current != want {
		t.Errorf("Expected current status %v, got %v", want, statusErr.Current)
	}
	if !errors.Is(err, ErrInvalidStatusForTransition) {
		t.Error("StatusError should match ErrInvalidStatusForTransition")
	}
	if !strings.Contains(err.Error(), want.String()) {
		t.Errorf("Expected message to contain %q, got %q", want.String(), err.Error())
	}
}

func TestCreateReservation(t *testing.T) {
	env := setupServices()
	ctx := context.Background()
	c1 := env.customer(t, "Alice")

	r, err := env.reservations.CreateReservation(ctx, c1, "A", "B")
	if err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}
	if r.Status != entities.StatusWaiting || r.DriverID != "" || r.Price != 0 {
		t.Errorf("Unexpected new reservation: %+v", r)
	}
	if r.CustomerID != c1 || r.PickupLocation != "A" || r.Destination != "B" {
		t.Errorf("Unexpected reservation fields: %+v", r)
	}

	if _, err := env.reservations.CreateReservation(ctx, "nobody", "A", "B"); err != ErrCustomerNotFound {
		t.Errorf("Expected ErrCustomerNotFound, got %v", err)
	}

	all, _ := env.store.Reservations.List(ctx)
	if len(all) != 1 {
		t.Errorf("Failed create must not write, found %d reservations", len(all))
	}
}

// Scenario 1: take succeeds once, the repeat fails on status.
func TestDriverTakeReservation_Twice(t *testing.T) {
	env := setupServices()
	ctx := context.Background()
	c1 := env.customer(t, "Alice")
	d1 := env.driver(t, "Bob")
	r1 := env.reservation(t, c1)

	r, err := env.reservations.DriverTakeReservation(ctx, d1, r1)
	if err != nil {
		t.Fatalf("DriverTakeReservation failed: %v", err)
	}
	if r.Status != entities.StatusAccepted || r.DriverID != d1 {
		t.Errorf("Unexpected reservation after take: %+v", r)
	}

	_, err = env.reservations.DriverTakeReservation(ctx, d1, r1)
	assertStatusError(t, err, entities.StatusAccepted)
}

// Scenario 2: a second driver is unaffected by the first driver being busy.
func TestDriverTakeReservation_OtherDriverFree(t *testing.T) {
	env := setupServices()
	ctx := context.Background()
	c1 := env.customer(t, "Alice")
	d1 := env.driver(t, "Bob")
	r1 := env.reservation(t, c1)
	env.reservations.DriverTakeReservation(ctx, d1, r1)

	d2 := env.driver(t, "Carol")
	r2 := env.reservation(t, c1)

	r, err := env.reservations.DriverTakeReservation(ctx, d2, r2)
	if err != nil {
		t.Fatalf("Expected D2 to take R2, got %v", err)
	}
	if r.DriverID != d2 {
		t.Errorf("Expected driver %s, got %s", d2, r.DriverID)
	}
}

// Scenario 3: a busy driver cannot take a second reservation.
func TestDriverTakeReservation_Busy(t *testing.T) {
	env := setupServices()
	ctx := context.Background()
	c1 := env.customer(t, "Alice")
	d1 := env.driver(t, "Bob")
	r1 := env.reservation(t, c1)
	r2 := env.reservation(t, c1)
	env.reservations.DriverTakeReservation(ctx, d1, r1)

	if _, err := env.reservations.DriverTakeReservation(ctx, d1, r2); err != ErrDriverAlreadyBusy {
		t.Fatalf("Expected ErrDriverAlreadyBusy, got %v", err)
	}
	if got := env.stored(t, r2); got.Status != entities.StatusWaiting || got.DriverID != "" {
		t.Errorf("R2 should be untouched, got %+v", got)
	}

	// Still busy while on the way.
	env.reservations.DriverOnTheWay(ctx, d1, r1)
	if _, err := env.reservations.DriverTakeReservation(ctx, d1, r2); err != ErrDriverAlreadyBusy {
		t.Errorf("Expected ErrDriverAlreadyBusy while on the way, got %v", err)
	}

	// Free again after arriving.
	env.reservations.DriverArrived(ctx, d1, r1, 10)
	if _, err := env.reservations.DriverTakeReservation(ctx, d1, r2); err != nil {
		t.Errorf("Expected D1 to take R2 after arriving, got %v", err)
	}
}

// Scenario 4: arrival requires OnTheWay, then records the price.
func TestDriverArrived(t *testing.T) {
	env := setupServices()
	ctx := context.Background()
	c1 := env.customer(t, "Alice")
	d1 := env.driver(t, "Bob")
	r1 := env.reservation(t, c1)
	env.reservations.DriverTakeReservation(ctx, d1, r1)

	_, err := env.reservations.DriverArrived(ctx, d1, r1, 42.5)
	assertStatusError(t, err, entities.StatusAccepted)

	if _, err := env.reservations.DriverOnTheWay(ctx, d1, r1); err != nil {
		t.Fatalf("DriverOnTheWay failed: %v", err)
	}

	r, err := env.reservations.DriverArrived(ctx, d1, r1, 42.5)
	if err != nil {
		t.Fatalf("DriverArrived failed: %v", err)
	}
	if r.Status != entities.StatusArrived || r.Price != 42.5 {
		t.Errorf("Unexpected reservation after arrival: %+v", r)
	}
	if got := env.stored(t, r1); got.Price != 42.5 || got.DriverID != d1 {
		t.Errorf("Unexpected stored reservation: %+v", got)
	}
}

func TestDriverArrived_InvalidPrice(t *testing.T) {
	env := setupServices()
	ctx := context.Background()
	c1 := env.customer(t, "Alice")
	d1 := env.driver(t, "Bob")
	r1 := env.reservation(t, c1)
	env.reservations.DriverTakeReservation(ctx, d1, r1)
	env.reservations.DriverOnTheWay(ctx, d1, r1)

	if _, err := env.reservations.DriverArrived(ctx, d1, r1, -5); err != ErrInvalidPrice {
		t.Fatalf("Expected ErrInvalidPrice, got %v", err)
	}
	if got := env.stored(t, r1); got.Status != entities.StatusOnTheWay {
		t.Errorf("Expected OnTheWay after rejected arrival, got %v", got.Status)
	}
}

func TestTransitions_RepeatFailsOnStatus(t *testing.T) {
	env := setupServices()
	ctx := context.Background()
	c1 := env.customer(t, "Alice")
	d1 := env.driver(t, "Bob")
	r1 := env.reservation(t, c1)
	env.reservations.DriverTakeReservation(ctx, d1, r1)

	if _, err := env.reservations.DriverOnTheWay(ctx, d1, r1); err != nil {
		t.Fatalf("DriverOnTheWay failed: %v", err)
	}
	_, err := env.reservations.DriverOnTheWay(ctx, d1, r1)
	assertStatusError(t, err, entities.StatusOnTheWay)

	if _, err := env.reservations.DriverArrived(ctx, d1, r1, 1); err != nil {
		t.Fatalf("DriverArrived failed: %v", err)
	}
	_, err = env.reservations.DriverArrived(ctx, d1, r1, 1)
	assertStatusError(t, err, entities.StatusArrived)

	r2 := env.reservation(t, c1)
	if _, err := env.reservations.DriverCancel(ctx, d1, r2); err != nil {
		t.Fatalf("DriverCancel failed: %v", err)
	}
	_, err = env.reservations.DriverCancel(ctx, d1, r2)
	assertStatusError(t, err, entities.StatusCancelled)
}

func TestTransitions_CannotSkipEdges(t *testing.T) {
	env := setupServices()
	ctx := context.Background()
	c1 := env.customer(t, "Alice")
	d1 := env.driver(t, "Bob")
	r1 := env.reservation(t, c1)

	_, err := env.reservations.DriverOnTheWay(ctx, d1, r1)
	assertStatusError(t, err, entities.StatusWaiting)

	_, err = env.reservations.DriverArrived(ctx, d1, r1, 1)
	assertStatusError(t, err, entities.StatusWaiting)

	env.reservations.DriverTakeReservation(ctx, d1, r1)
	_, err = env.reservations.DriverCancel(ctx, d1, r1)
	assertStatusError(t, err, entities.StatusAccepted)
}

func TestTransitions_UnknownIDs(t *testing.T) {
	env := setupServices()
	ctx := context.Background()
	c1 := env.customer(t, "Alice")
	d1 := env.driver(t, "Bob")
	r1 := env.reservation(t, c1)

	if _, err := env.reservations.DriverTakeReservation(ctx, "ghost", r1); err != ErrDriverNotFound {
		t.Errorf("Expected ErrDriverNotFound, got %v", err)
	}
	if _, err := env.reservations.DriverTakeReservation(ctx, d1, "ghost"); err != ErrReservationNotFound {
		t.Errorf("Expected ErrReservationNotFound, got %v", err)
	}
	if _, err := env.reservations.DriverCancel(ctx, "ghost", r1); err != ErrDriverNotFound {
		t.Errorf("Expected ErrDriverNotFound, got %v", err)
	}
	if _, err := env.reservations.CustomerCancel(ctx, "ghost", r1); err != ErrCustomerNotFound {
		t.Errorf("Expected ErrCustomerNotFound, got %v", err)
	}
	if _, err := env.reservations.DriverArrived(ctx, "ghost", "ghost-res", -1); err != ErrDriverNotFound {
		t.Errorf("Unknown driver with a bad price: expected ErrDriverNotFound, got %v", err)
	}
	if _, err := env.reservations.DriverArrived(ctx, d1, "ghost-res", -1); err != ErrReservationNotFound {
		t.Errorf("Unknown reservation with a bad price: expected ErrReservationNotFound, got %v", err)
	}
	_, err := env.reservations.DriverArrived(ctx, d1, r1, -1)
	assertStatusError(t, err, entities.StatusWaiting)
}

func TestTransitions_DriverMismatch(t *testing.T) {
	env := setupServices()
	ctx := context.Background()
	c1 := env.customer(t, "Alice")
	d1 := env.driver(t, "Bob")
	d2 := env.driver(t, "Carol")
	r1 := env.reservation(t, c1)
	env.reservations.DriverTakeReservation(ctx, d1, r1)

	if _, err := env.reservations.DriverOnTheWay(ctx, d2, r1); err != ErrDriverMismatch {
		t.Errorf("Expected ErrDriverMismatch, got %v", err)
	}
	_, err := env.reservations.DriverTakeReservation(ctx, d2, r1)
	assertStatusError(t, err, entities.StatusAccepted)
	if got := env.stored(t, r1); got.DriverID != d1 {
		t.Errorf("Claimed reservation should keep its driver, got %q", got.DriverID)
	}

	env.reservations.DriverOnTheWay(ctx, d1, r1)
	if _, err := env.reservations.DriverArrived(ctx, d2, r1, 10); err != ErrDriverMismatch {
		t.Errorf("Expected ErrDriverMismatch, got %v", err)
	}
	if got := env.stored(t, r1); got.DriverID != d1 || got.Status != entities.StatusOnTheWay {
		t.Errorf("Reservation should be untouched, got %+v", got)
	}
}

func TestDriverCancel_AnyDriverWhileWaiting(t *testing.T) {
	env := setupServices()
	ctx := context.Background()
	c1 := env.customer(t, "Alice")
	d2 := env.driver(t, "Carol")
	r1 := env.reservation(t, c1)

	r, err := env.reservations.DriverCancel(ctx, d2, r1)
	if err != nil {
		t.Fatalf("DriverCancel failed: %v", err)
	}
	if r.Status != entities.StatusCancelled || r.DriverID != "" {
		t.Errorf("Unexpected cancelled reservation: %+v", r)
	}

	d1 := env.driver(t, "Bob")
	_, err = env.reservations.DriverTakeReservation(ctx, d1, r1)
	assertStatusError(t, err, entities.StatusCancelled)
}

func TestCustomerCancel(t *testing.T) {
	env := setupServices()
	ctx := context.Background()
	c1 := env.customer(t, "Alice")
	c2 := env.customer(t, "Dave")
	d1 := env.driver(t, "Bob")
	r1 := env.reservation(t, c1)
	r2 := env.reservation(t, c1)

	if _, err := env.reservations.CustomerCancel(ctx, c2, r1); err != ErrCustomerMismatch {
		t.Errorf("Expected ErrCustomerMismatch, got %v", err)
	}

	r, err := env.reservations.CustomerCancel(ctx, c1, r1)
	if err != nil {
		t.Fatalf("CustomerCancel failed: %v", err)
	}
	if r.Status != entities.StatusCancelled {
		t.Errorf("Expected Cancelled, got %v", r.Status)
	}

	env.reservations.DriverTakeReservation(ctx, d1, r2)
	_, err = env.reservations.CustomerCancel(ctx, c1, r2)
	assertStatusError(t, err, entities.StatusAccepted)
}

func TestExclusivity_ConcurrentTakes(t *testing.T) {
	env := setupServices()
	ctx := context.Background()
	c1 := env.customer(t, "Alice")
	d1 := env.driver(t, "Bob")

	var ids []string
	for i := 0; i < 20; i++ {
		ids = append(ids, env.reservation(t, c1))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := env.reservations.DriverTakeReservation(ctx, d1, id); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else if err != ErrDriverAlreadyBusy {
				t.Errorf("Unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("Expected exactly one successful take, got %d", successes)
	}

	held, _ := env.queries.ListReservationsForDriver(ctx, d1)
	if len(held) != 1 {
		t.Errorf("Expected driver to hold 1 reservation, got %d", len(held))
	}
}

func TestExclusivity_ConcurrentDriversOneReservation(t *testing.T) {
	env := setupServices()
	ctx := context.Background()
	c1 := env.customer(t, "Alice")
	r1 := env.reservation(t, c1)

	var drivers []string
	for i := 0; i < 10; i++ {
		drivers = append(drivers, env.driver(t, "Driver"))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for _, d := range drivers {
		wg.Add(1)
		go func(d string) {
			defer wg.Done()
			if _, err := env.reservations.DriverTakeReservation(ctx, d, r1); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(d)
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("Expected exactly one driver to win, got %d", winners)
	}
}

func TestLifecycleMetrics(t *testing.T) {
	env := setupServices()
	ctx := context.Background()
	c1 := env.customer(t, "Alice")
	d1 := env.driver(t, "Bob")
	r1 := env.reservation(t, c1)
	env.reservations.DriverTakeReservation(ctx, d1, r1)
	env.reservations.DriverTakeReservation(ctx, d1, r1)
	env.reservations.DriverTakeReservation(ctx, "ghost", r1)

	if got := testutil.ToFloat64(env.metrics.transitions.WithLabelValues("none", "Waiting")); got != 1 {
		t.Errorf("Expected 1 creation, got %v", got)
	}
	if got := testutil.ToFloat64(env.metrics.transitions.WithLabelValues("Waiting", "Accepted")); got != 1 {
		t.Errorf("Expected 1 take, got %v", got)
	}
	if got := testutil.ToFloat64(env.metrics.failures.WithLabelValues("take", "invalid_status")); got != 1 {
		t.Errorf("Expected 1 invalid_status failure, got %v", got)
	}
	if got := testutil.ToFloat64(env.metrics.failures.WithLabelValues("take", "not_found")); got != 1 {
		t.Errorf("Expected 1 not_found failure, got %v", got)
	}
}

func TestNilMetricsAndNotifier(t *testing.T) {
	store := memory.NewStore()
	ids := utils.NewSequenceGenerator("id")
	registration := NewRegistrationService(store, ids, nil, nil, nil)
	reservations := NewReservationService(store, ids, nil, nil)
	ctx := context.Background()

	c, err := registration.RegisterCustomer(ctx, "Alice", "+1234567890")
	if err != nil {
		t.Fatalf("RegisterCustomer failed: %v", err)
	}
	if _, err := reservations.CreateReservation(ctx, c.ID, "A", "B"); err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}
	if _, err := reservations.CreateReservation(ctx, "ghost", "A", "B"); err != ErrCustomerNotFound {
		t.Errorf("Expected ErrCustomerNotFound, got %v", err)
	}
}

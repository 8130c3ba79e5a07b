package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"ridereservation/internal/domain/entities"
	"ridereservation/internal/repository/redisstore"
	"ridereservation/pkg/utils"
)

func setupRedisServices(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := redisstore.Connect(context.Background(), mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	store := redisstore.NewStore(client, "lifecycle")
	ids := utils.NewSequenceGenerator("id")
	return &testEnv{
		store:        store,
		registration: NewRegistrationService(store, ids, nil, nil, nil),
		reservations: NewReservationService(store, ids, nil, nil),
		queries:      NewQueryService(store),
	}
}

func TestRedisBackend_TakeTwiceAndExclusivity(t *testing.T) {
	env := setupRedisServices(t)
	ctx := context.Background()
	c1 := env.customer(t, "Alice")
	d1 := env.driver(t, "Bob")
	d2 := env.driver(t, "Carol")
	r1 := env.reservation(t, c1)
	r2 := env.reservation(t, c1)

	if _, err := env.reservations.DriverTakeReservation(ctx, d1, r1); err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	_, err := env.reservations.DriverTakeReservation(ctx, d1, r1)
	assertStatusError(t, err, entities.StatusAccepted)

	// The busy check reads d1's Accepted reservation back through List.
	if _, err := env.reservations.DriverTakeReservation(ctx, d1, r2); err != ErrDriverAlreadyBusy {
		t.Fatalf("Expected ErrDriverAlreadyBusy, got %v", err)
	}
	if _, err := env.reservations.DriverTakeReservation(ctx, d2, r2); err != nil {
		t.Fatalf("Free driver take failed: %v", err)
	}

	env.reservations.DriverOnTheWay(ctx, d1, r1)
	if _, err := env.reservations.DriverArrived(ctx, d1, r1, 18.25); err != nil {
		t.Fatalf("Arrived failed: %v", err)
	}

	got := env.stored(t, r1)
	if got.Status != entities.StatusArrived || got.Price != 18.25 || got.DriverID != d1 {
		t.Errorf("Unexpected stored reservation: %+v", got)
	}

	// Once r1 is terminal, d1 is free again.
	r3 := env.reservation(t, c1)
	if _, err := env.reservations.DriverTakeReservation(ctx, d1, r3); err != nil {
		t.Errorf("Take after arrival failed: %v", err)
	}

	waiting, err := env.queries.ListWaitingReservations(ctx, d1)
	if err != nil {
		t.Fatalf("ListWaitingReservations failed: %v", err)
	}
	if len(waiting) != 0 {
		t.Errorf("Expected empty waiting queue, got %d", len(waiting))
	}
}

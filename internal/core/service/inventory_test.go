package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
	"github.com/hotelcore/reservations/internal/pkg/clock"
)

func TestRoomService_Create(t *testing.T) {
	svc := NewRoomService(newStubRoomRepo(), clock.NewFake(testNow), zerolog.Nop())
	ctx := context.Background()

	room, err := svc.Create(ctx, ports.CreateRoomInput{Number: " 101 ", Type: "double", Capacity: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if room.Number != "101" || room.Status != domain.RoomAvailable || room.ID == "" {
		t.Fatalf("unexpected room %+v", room)
	}

	if _, err := svc.Create(ctx, ports.CreateRoomInput{Number: "101", Type: "suite", Capacity: 4}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate number: expected conflict, got %v", err)
	}
	for _, in := range []ports.CreateRoomInput{
		{Number: "", Type: "double", Capacity: 2},
		{Number: "102", Type: "double", Capacity: 0},
	} {
		if _, err := svc.Create(ctx, in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%+v: expected invalid input, got %v", in, err)
		}
	}
}

func TestRoomService_UpdateStatus(t *testing.T) {
	repo := newStubRoomRepo(&domain.Room{ID: "room-101", Number: "101", Capacity: 2, Status: domain.RoomAvailable})
	svc := NewRoomService(repo, clock.NewFake(testNow), zerolog.Nop())
	ctx := context.Background()

	room, err := svc.UpdateStatus(ctx, "room-101", domain.RoomMaintenance)
	if err != nil || room.Status != domain.RoomMaintenance {
		t.Fatalf("expected maintenance, got %+v (%v)", room, err)
	}
	if _, err := svc.UpdateStatus(ctx, "room-101", domain.RoomStatus("haunted")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "nope", domain.RoomCleaning); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	bookable, err := svc.List(ctx, ports.RoomFilter{BookableOnly: true})
	if err != nil || len(bookable) != 0 {
		t.Fatalf("a room under maintenance is not bookable, got %d rooms (%v)", len(bookable), err)
	}
}

func TestGuestService_CreateAndFind(t *testing.T) {
	svc := NewGuestService(newStubGuestRepo(), clock.NewFake(testNow), zerolog.Nop())
	ctx := context.Background()

	g, err := svc.Create(ctx, ports.CreateGuestInput{Name: " Ada ", Email: " Ada@Example.COM ", Phone: "555"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if g.Name != "Ada" || g.Email != "ada@example.com" || !g.CreatedAt.Equal(testNow) {
		t.Fatalf("unexpected guest %+v", g)
	}

	found, err := svc.FindByEmail(ctx, "ADA@example.com")
	if err != nil || len(found) != 1 || found[0].ID != g.ID {
		t.Fatalf("expected to find guest by email, got %v (%v)", found, err)
	}

	if _, err := svc.Create(ctx, ports.CreateGuestInput{Name: "", Email: "x@example.com"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, domain.ErrGuestNotFound) {
		t.Fatalf("expected guest not found, got %v", err)
	}
}

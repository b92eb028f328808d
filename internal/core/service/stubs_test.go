package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func stay(in, out string) domain.DateRange {
	r, err := domain.NewDateRange(day(in), day(out))
	if err != nil {
		panic(err)
	}
	return r
}

// ── users ────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.LockedUntil != nil {
		until := *u.LockedUntil
		clone.LockedUntil = &until
	}
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) mutate(id string, fn func(u *domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	fn(u)
	return nil
}

func (r *stubUserRepo) IncrementFailedLogins(_ context.Context, id string) (int, error) {
	var count int
	err := r.mutate(id, func(u *domain.User) {
		u.FailedLoginCount++
		count = u.FailedLoginCount
	})
	return count, err
}

func (r *stubUserRepo) ResetLoginState(_ context.Context, id string) error {
	return r.mutate(id, func(u *domain.User) {
		u.FailedLoginCount = 0
		u.LockedUntil = nil
	})
}

func (r *stubUserRepo) LockUntil(_ context.Context, id string, until time.Time) error {
	return r.mutate(id, func(u *domain.User) {
		u.FailedLoginCount = 0
		u.LockedUntil = &until
	})
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool) error {
	return r.mutate(id, func(u *domain.User) { u.IsActive = active })
}

func (r *stubUserRepo) SetRole(_ context.Context, id string, role domain.Role) error {
	return r.mutate(id, func(u *domain.User) { u.Role = role })
}

// ── guests ───────────────────────────────────────────────────────────────────

type stubGuestRepo struct {
	mu     sync.Mutex
	guests map[string]*domain.Guest
}

func newStubGuestRepo(guests ...*domain.Guest) *stubGuestRepo {
	r := &stubGuestRepo{guests: make(map[string]*domain.Guest)}
	for _, g := range guests {
		r.guests[g.ID] = g
	}
	return r
}

func (r *stubGuestRepo) Create(_ context.Context, g *domain.Guest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *g
	r.guests[g.ID] = &clone
	return nil
}

func (r *stubGuestRepo) FindByID(_ context.Context, id string) (*domain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guests[id]
	if !ok {
		return nil, domain.ErrGuestNotFound
	}
	clone := *g
	return &clone, nil
}

func (r *stubGuestRepo) FindByEmail(_ context.Context, email string) ([]*domain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Guest
	for _, g := range r.guests {
		if domain.SameContact(g.Email, email) {
			clone := *g
			out = append(out, &clone)
		}
	}
	return out, nil
}

// ── rooms ────────────────────────────────────────────────────────────────────

type stubRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]*domain.Room
}

func newStubRoomRepo(rooms ...*domain.Room) *stubRoomRepo {
	r := &stubRoomRepo{rooms: make(map[string]*domain.Room)}
	for _, room := range rooms {
		r.rooms[room.ID] = room
	}
	return r
}

func (r *stubRoomRepo) Create(_ context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rooms {
		if existing.Number == room.Number {
			return domain.ErrRoomExists
		}
	}
	clone := *room
	r.rooms[room.ID] = &clone
	return nil
}

func (r *stubRoomRepo) FindByID(_ context.Context, id string) (*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	clone := *room
	return &clone, nil
}

func (r *stubRoomRepo) List(_ context.Context, filter ports.RoomFilter) ([]*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Room
	for _, room := range r.rooms {
		if filter.Status != "" && room.Status != filter.Status {
			continue
		}
		if filter.BookableOnly && !room.Status.Bookable() {
			continue
		}
		clone := *room
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *stubRoomRepo) UpdateStatus(_ context.Context, id string, status domain.RoomStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return domain.ErrRoomNotFound
	}
	room.Status = status
	return nil
}

// ── reservations ─────────────────────────────────────────────────────────────

type stubReservationRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Reservation

	// beforeDetails runs once at the start of the next UpdateDetails, standing
	// in for writers that race with it.
	beforeDetails func(context.Context)
}

func placedAt(res *domain.Reservation, where ports.Placement) bool {
	if where.RoomID == "" {
		return true
	}
	return res.RoomID == where.RoomID && res.Stay.Equal(where.Stay)
}

func newStubReservationRepo(rs ...*domain.Reservation) *stubReservationRepo {
	r := &stubReservationRepo{byID: make(map[string]*domain.Reservation)}
	for _, res := range rs {
		r.byID[res.ID] = res
	}
	return r
}

func (r *stubReservationRepo) Create(_ context.Context, res *domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *res
	r.byID[res.ID] = &clone
	return nil
}

func (r *stubReservationRepo) FindByID(_ context.Context, id string) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	clone := *res
	return &clone, nil
}

func (r *stubReservationRepo) FindOverlapping(_ context.Context, roomID string, s domain.DateRange, statuses []domain.ReservationStatus) ([]*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Reservation
	for _, res := range r.byID {
		if res.RoomID != roomID || !res.Stay.Overlaps(s) {
			continue
		}
		if len(statuses) > 0 && !containsStatus(statuses, res.Status) {
			continue
		}
		clone := *res
		out = append(out, &clone)
	}
	return out, nil
}

func containsStatus(list []domain.ReservationStatus, s domain.ReservationStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (r *stubReservationRepo) UpdateStatus(_ context.Context, id string, change ports.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byID[id]
	if !ok {
		return domain.ErrReservationNotFound
	}
	if res.Status != change.From || !placedAt(res, change.Where) {
		return domain.ErrStaleStatus
	}
	res.Status = change.To
	res.UpdatedAt = change.At
	if change.CancelReason != "" {
		res.CancelReason = change.CancelReason
	}
	return nil
}

func (r *stubReservationRepo) UpdateDetails(ctx context.Context, next *domain.Reservation, expected domain.ReservationStatus, where ports.Placement) error {
	if r.beforeDetails != nil {
		hook := r.beforeDetails
		r.beforeDetails = nil
		hook(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byID[next.ID]
	if !ok {
		return domain.ErrReservationNotFound
	}
	if res.Status != expected || !placedAt(res, where) {
		return domain.ErrStaleStatus
	}
	res.RoomID = next.RoomID
	res.Stay = next.Stay
	res.PartySize = next.PartySize
	res.Notes = next.Notes
	res.UpdatedAt = next.UpdatedAt
	return nil
}

func (r *stubReservationRepo) List(_ context.Context, f ports.ListReservationsFilter) ([]*domain.Reservation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*domain.Reservation
	for _, res := range r.byID {
		if f.GuestIDs != nil && !containsString(f.GuestIDs, res.GuestID) {
			continue
		}
		if f.RoomID != "" && res.RoomID != f.RoomID {
			continue
		}
		if f.Status != "" && res.Status != f.Status {
			continue
		}
		clone := *res
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	start := (f.Page - 1) * f.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ── throttle / lock / checkout ───────────────────────────────────────────────

type stubThrottleStore struct {
	mu   sync.Mutex
	hits map[string][]time.Time
}

func newStubThrottleStore() *stubThrottleStore {
	return &stubThrottleStore{hits: make(map[string][]time.Time)}
}

func (s *stubThrottleStore) Record(_ context.Context, key string, at time.Time, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits[key] = append(s.hits[key], at)
	return nil
}

func (s *stubThrottleStore) Window(_ context.Context, key string, now time.Time, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int
	var oldest time.Time
	for _, at := range s.hits[key] {
		if !at.After(now.Add(-window)) {
			continue
		}
		if count == 0 || at.Before(oldest) {
			oldest = at
		}
		count++
	}
	return count, oldest, nil
}

type stubLocker struct {
	mu    sync.Mutex
	rooms map[string]*sync.Mutex
}

func newStubLocker() *stubLocker {
	return &stubLocker{rooms: make(map[string]*sync.Mutex)}
}

func (l *stubLocker) Lock(_ context.Context, roomID string) (func(), error) {
	l.mu.Lock()
	m, ok := l.rooms[roomID]
	if !ok {
		m = &sync.Mutex{}
		l.rooms[roomID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock, nil
}

type recordingNotifier struct {
	mu  sync.Mutex
	ids []string
}

func (n *recordingNotifier) NotifyCheckout(r *domain.Reservation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ids = append(n.ids, r.ID)
}

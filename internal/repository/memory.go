package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/watshodapay/watshodapay-go/internal/model"
)

// memorySchema describes how a record type behaves in a MemoryGateway.
type memorySchema[T any, In any, Patch any] struct {
	name    string
	build   func(id int64, in In, now time.Time) T
	apply   func(rec *T, p Patch, now time.Time)
	idOf    func(*T) int64
	field   func(rec *T, key string) (any, bool)
	uniques []func(*T) string
}

// MemoryGateway implements Gateway in process memory. Uniqueness rules are
// enforced the same way the SQL schema enforces them.
type MemoryGateway[T any, In any, Patch any] struct {
	mu     sync.RWMutex
	rows   map[int64]T
	order  []int64
	nextID int64
	s      memorySchema[T, In, Patch]
	now    func() time.Time
}

func newMemoryGateway[T any, In any, Patch any](s memorySchema[T, In, Patch]) *MemoryGateway[T, In, Patch] {
	return &MemoryGateway[T, In, Patch]{
		rows: make(map[int64]T),
		s:    s,
		now:  time.Now,
	}
}

func (g *MemoryGateway[T, In, Patch]) match(rec *T, f Filter) (bool, error) {
	for k, want := range f {
		got, ok := g.s.field(rec, k)
		if !ok {
			return false, fmt.Errorf("%w: %s has no field %q", ErrInvalidFilter, g.s.name, k)
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			return false, nil
		}
	}
	return true, nil
}

// conflicts reports whether rec collides with a stored row other than skip.
// Caller holds the lock.
func (g *MemoryGateway[T, In, Patch]) conflicts(rec *T, skip int64) bool {
	for _, unique := range g.s.uniques {
		key := unique(rec)
		if key == "" {
			continue
		}
		for id, other := range g.rows {
			if id != skip && unique(&other) == key {
				return true
			}
		}
	}
	return false
}

func (g *MemoryGateway[T, In, Patch]) ListAll(ctx context.Context) ([]T, error) {
	return g.ListWhere(ctx, nil)
}

func (g *MemoryGateway[T, In, Patch]) ListWhere(_ context.Context, f Filter) ([]T, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []T
	for _, id := range g.order {
		rec := g.rows[id]
		ok, err := g.match(&rec, f)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (g *MemoryGateway[T, In, Patch]) Get(_ context.Context, id int64) (*T, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rec, ok := g.rows[id]
	if !ok {
		return nil, fmt.Errorf("%s %d: %w", g.s.name, id, ErrNotFound)
	}
	return &rec, nil
}

func (g *MemoryGateway[T, In, Patch]) GetWhere(ctx context.Context, f Filter) (*T, error) {
	recs, err := g.ListWhere(ctx, f)
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return &recs[0], nil
}

func (g *MemoryGateway[T, In, Patch]) Create(_ context.Context, in In) (*T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec := g.s.build(g.nextID+1, in, g.now())
	if g.conflicts(&rec, 0) {
		return nil, fmt.Errorf("%s: create: %w", g.s.name, ErrAlreadyExists)
	}
	g.nextID++
	g.rows[g.nextID] = rec
	g.order = append(g.order, g.nextID)
	return &rec, nil
}

func (g *MemoryGateway[T, In, Patch]) Update(_ context.Context, rec *T, patch Patch) (*T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.s.idOf(rec)
	stored, ok := g.rows[id]
	if !ok {
		return nil, fmt.Errorf("%s %d: %w", g.s.name, id, ErrNotFound)
	}
	g.s.apply(&stored, patch, g.now())
	if g.conflicts(&stored, id) {
		return nil, fmt.Errorf("%s: update: %w", g.s.name, ErrAlreadyExists)
	}
	g.rows[id] = stored
	return &stored, nil
}

// each calls fn on every stored row and keeps the changes fn reports.
func (g *MemoryGateway[T, In, Patch]) each(fn func(rec *T) bool) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	var n int64
	for id, rec := range g.rows {
		if fn(&rec) {
			g.rows[id] = rec
			n++
		}
	}
	return n
}

// NewMemoryUserRepository returns an in-memory user gateway with a unique,
// case-insensitive email.
func NewMemoryUserRepository() *MemoryGateway[model.User, model.UserInput, model.UserPatch] {
	return newMemoryGateway(memorySchema[model.User, model.UserInput, model.UserPatch]{
		name: "users",
		build: func(id int64, in model.UserInput, now time.Time) model.User {
			return model.User{ID: id, Email: in.Email, PasswordHash: in.PasswordHash, Name: in.Name, CreatedAt: now, UpdatedAt: now}
		},
		apply: func(u *model.User, p model.UserPatch, now time.Time) {
			p.Apply(u)
			u.UpdatedAt = now
		},
		idOf: func(u *model.User) int64 { return u.ID },
		field: func(u *model.User, key string) (any, bool) {
			switch key {
			case "id":
				return u.ID, true
			case "email":
				return u.Email, true
			}
			return nil, false
		},
		uniques: []func(*model.User) string{
			func(u *model.User) string { return strings.ToLower(u.Email) },
		},
	})
}

// MemoryDebtRepository is the in-memory DebtStore.
type MemoryDebtRepository struct {
	*MemoryGateway[model.Debt, model.DebtInput, model.DebtPatch]
}

// NewMemoryDebtRepository creates an empty MemoryDebtRepository.
func NewMemoryDebtRepository() *MemoryDebtRepository {
	return &MemoryDebtRepository{newMemoryGateway(memorySchema[model.Debt, model.DebtInput, model.DebtPatch]{
		name: "debts",
		build: func(id int64, in model.DebtInput, now time.Time) model.Debt {
			d := model.Debt{
				ID:            id,
				UserID:        in.UserID,
				Description:   in.Description,
				ExpirationDay: in.ExpirationDay,
				Value:         in.Value,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if in.Quantity != nil {
				q := *in.Quantity
				d.Quantity = &q
			}
			return d
		},
		apply: func(d *model.Debt, p model.DebtPatch, now time.Time) {
			p.Apply(d)
			d.UpdatedAt = now
		},
		idOf: func(d *model.Debt) int64 { return d.ID },
		field: func(d *model.Debt, key string) (any, bool) {
			switch key {
			case "id":
				return d.ID, true
			case "user_id":
				return d.UserID, true
			case "expiration_day":
				return d.ExpirationDay, true
			case "is_payed":
				return d.IsPayed, true
			}
			return nil, false
		},
	})}
}

// ClearAllPayed resets the paid flag of every debt.
func (r *MemoryDebtRepository) ClearAllPayed(_ context.Context) (int64, error) {
	now := r.now()
	return r.each(func(d *model.Debt) bool {
		if !d.IsPayed {
			return false
		}
		d.IsPayed = false
		d.UpdatedAt = now
		return true
	}), nil
}

// NewMemoryPaymentRepository returns an in-memory payment gateway, unique
// per (debt, year, month).
func NewMemoryPaymentRepository() *MemoryGateway[model.Payment, model.PaymentInput, model.PaymentPatch] {
	return newMemoryGateway(memorySchema[model.Payment, model.PaymentInput, model.PaymentPatch]{
		name: "payments",
		build: func(id int64, in model.PaymentInput, now time.Time) model.Payment {
			return model.Payment{
				ID:          id,
				UserID:      in.UserID,
				DebtID:      in.DebtID,
				Year:        in.Year,
				Month:       in.Month,
				IsPayed:     in.IsPayed,
				PaymentInfo: in.PaymentInfo,
				Value:       in.Value,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
		},
		apply: func(p *model.Payment, pp model.PaymentPatch, now time.Time) {
			pp.Apply(p)
			p.UpdatedAt = now
		},
		idOf: func(p *model.Payment) int64 { return p.ID },
		field: func(p *model.Payment, key string) (any, bool) {
			switch key {
			case "id":
				return p.ID, true
			case "user_id":
				return p.UserID, true
			case "debt_id":
				return p.DebtID, true
			case "year":
				return p.Year, true
			case "month":
				return p.Month, true
			case "is_payed":
				return p.IsPayed, true
			}
			return nil, false
		},
		uniques: []func(*model.Payment) string{
			func(p *model.Payment) string { return fmt.Sprintf("%d/%d/%d", p.DebtID, p.Year, p.Month) },
		},
	})
}

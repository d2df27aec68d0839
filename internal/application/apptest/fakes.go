// Package apptest holds in-memory port implementations for service and contract tests.
package apptest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maglieria/storefront/internal/domain"
	"github.com/maglieria/storefront/internal/ports"
)

type Users struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.User
	Events []ports.OutboxEvent
}

func NewUsers() *Users {
	return &Users{byID: map[int64]domain.User{}}
}

func (f *Users) CreateWithOutboxTx(_ context.Context, params ports.CreateUserParams, event ports.OutboxEvent) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == params.Email {
			return domain.User{}, domain.ErrConflict
		}
	}
	f.nextID++
	u := domain.User{
		ID:           f.nextID,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Profile:      params.Profile,
		IsAdmin:      params.IsAdmin,
		CreatedAt:    params.CreatedAt,
		UpdatedAt:    params.CreatedAt,
	}
	f.byID[u.ID] = u
	f.Events = append(f.Events, event)
	return u, nil
}

func (f *Users) GetByID(_ context.Context, userID int64) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *Users) GetByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *Users) UpdateProfile(_ context.Context, userID int64, profile domain.ShippingProfile, passwordHash *string, at time.Time) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	profile.Email = u.Email
	u.Profile = profile
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	u.UpdatedAt = at
	f.byID[userID] = u
	return u, nil
}

// SyncShipping mirrors the order-placement profile sync.
func (f *Users) SyncShipping(userID int64, p domain.ShippingProfile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return
	}
	u.Profile.Address = p.Address
	u.Profile.City = p.City
	u.Profile.Province = p.Province
	u.Profile.ZipCode = p.ZipCode
	u.Profile.Country = p.Country
	u.Profile.Phone = p.Phone
	f.byID[userID] = u
}

func (f *Users) SetResetToken(_ context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.ResetTokenHash = &tokenHash
	u.ResetTokenExpiresAt = &expiresAt
	f.byID[userID] = u
	return nil
}

func (f *Users) ConsumeResetToken(_ context.Context, tokenHash, passwordHash string, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.byID {
		if u.ResetTokenHash == nil || *u.ResetTokenHash != tokenHash {
			continue
		}
		if u.ResetTokenExpiresAt == nil || !u.ResetTokenExpiresAt.After(now) {
			return 0, domain.ErrNotFound
		}
		u.PasswordHash = passwordHash
		u.ResetTokenHash = nil
		u.ResetTokenExpiresAt = nil
		f.byID[id] = u
		return id, nil
	}
	return 0, domain.ErrNotFound
}

func (f *Users) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (f *Users) Delete(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[userID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, userID)
	return nil
}

func (f *Users) SetAdmin(_ context.Context, userID int64, isAdmin bool, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsAdmin = isAdmin
	u.UpdatedAt = at
	f.byID[userID] = u
	return nil
}

type Products struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.Product
}

func NewProducts() *Products {
	return &Products{byID: map[int64]domain.Product{}}
}

func (f *Products) Create(_ context.Context, p domain.Product) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = f.nextID
	f.byID[p.ID] = p
	return p, nil
}

func (f *Products) GetByID(_ context.Context, productID int64) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[productID]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *Products) GetByIDs(_ context.Context, productIDs []int64) (map[int64]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[int64]domain.Product{}
	for _, id := range productIDs {
		if p, ok := f.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *Products) List(_ context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Product, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *Products) Update(_ context.Context, p domain.Product) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[p.ID]; !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	f.byID[p.ID] = p
	return p, nil
}

func (f *Products) Delete(_ context.Context, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[productID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, productID)
	return nil
}

// ErrInjected is returned by Orders when FailOnItem is set.
var ErrInjected = errors.New("injected write failure")

// Orders stages each placement and only commits it when every write succeeds.
type Orders struct {
	mu     sync.Mutex
	users  *Users
	nextID int64
	byID   map[int64]domain.Order
	Events []ports.OutboxEvent
	// FailOnItem makes the n-th item insert (1-based) of the next placement fail.
	FailOnItem int
}

func NewOrders(users *Users) *Orders {
	return &Orders{users: users, byID: map[int64]domain.Order{}}
}

func (f *Orders) PlaceWithOutboxTx(_ context.Context, params ports.PlaceOrderParams, event ports.OutboxEvent) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	staged := params.Order
	staged.ID = f.nextID + 1
	staged.Items = make([]domain.OrderItem, 0, len(params.Order.Items))
	for i, item := range params.Order.Items {
		if f.FailOnItem == i+1 {
			f.FailOnItem = 0
			return domain.Order{}, ErrInjected
		}
		item.ID = int64(i + 1)
		item.OrderID = staged.ID
		staged.Items = append(staged.Items, item)
	}

	f.nextID = staged.ID
	f.byID[staged.ID] = staged
	f.Events = append(f.Events, event)
	if params.SyncProfileFor != nil && f.users != nil {
		f.users.SyncShipping(*params.SyncProfileFor, staged.Shipping)
	}
	return staged, nil
}

func (f *Orders) GetByID(_ context.Context, orderID int64) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[orderID]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, nil
}

func (f *Orders) ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	o, err := f.GetByID(ctx, orderID)
	if err != nil {
		return []domain.OrderItem{}, nil
	}
	return o.Items, nil
}

func (f *Orders) List(_ context.Context, filter ports.OrderListFilter) ([]domain.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Order, 0, len(f.byID))
	for _, o := range f.byID {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, filter.Limit, filter.Offset), int64(len(out)), nil
}

func (f *Orders) ListByUser(_ context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Order{}
	for _, o := range f.byID {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, limit, offset), nil
}

func (f *Orders) UpdateStatus(_ context.Context, orderID int64, from, to domain.OrderStatus, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	if o.Status != from {
		return domain.ErrConflict
	}
	o.Status = to
	o.UpdatedAt = at
	f.byID[orderID] = o
	return nil
}

func (f *Orders) Delete(_ context.Context, orderID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[orderID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, orderID)
	return nil
}

func (f *Orders) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

type Comments struct {
	mu    sync.Mutex
	items []domain.Comment
}

func (f *Comments) Create(_ context.Context, c domain.Comment) (domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = int64(len(f.items) + 1)
	f.items = append(f.items, c)
	return c, nil
}

func (f *Comments) List(_ context.Context, limit, offset int) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Comment, 0, len(f.items))
	for i := len(f.items) - 1; i >= 0; i-- {
		out = append(out, f.items[i])
	}
	return page(out, limit, offset), nil
}

type Lockouts struct {
	mu    sync.Mutex
	state map[string]ports.LockoutState
}

func NewLockouts() *Lockouts {
	return &Lockouts{state: map[string]ports.LockoutState{}}
}

func (f *Lockouts) Get(_ context.Context, key string) (ports.LockoutState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state[key], nil
}

func (f *Lockouts) RecordFailure(_ context.Context, key string, now time.Time, threshold int, window time.Duration) (ports.LockoutState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.state[key]
	st.FailedCount++
	if st.FailedCount >= threshold {
		until := now.Add(window)
		st.LockedUntil = &until
	}
	f.state[key] = st
	return st, nil
}

func (f *Lockouts) Clear(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.state, key)
	return nil
}

type Hasher struct{}

func (Hasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (Hasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return errors.New("hash mismatch")
	}
	return nil
}

// Signer issues opaque tokens. Tokens listed in Expired fail with ErrTokenExpired.
type Signer struct {
	mu      sync.Mutex
	tokens  map[string]ports.AuthClaims
	expired map[string]bool
}

func NewSigner() *Signer {
	return &Signer{tokens: map[string]ports.AuthClaims{}, expired: map[string]bool{}}
}

func (f *Signer) Sign(claims ports.AuthClaims) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := uuid.NewString()
	f.tokens[token] = claims
	return token, nil
}

func (f *Signer) Expire(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired[token] = true
}

func (f *Signer) ParseAndValidate(token string) (ports.AuthClaims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.expired[token] {
		return ports.AuthClaims{}, domain.ErrTokenExpired
	}
	claims, ok := f.tokens[token]
	if !ok {
		return ports.AuthClaims{}, domain.ErrInvalidToken
	}
	return claims, nil
}

type ResetMail struct {
	Email string
	Link  string
}

// Notifier records every send. Fail makes every send return an error after recording it.
type Notifier struct {
	mu            sync.Mutex
	Fail          bool
	Confirmations []domain.Order
	Receipts      [][]byte
	Resets        []ResetMail
}

func (f *Notifier) SendOrderConfirmation(_ context.Context, order domain.Order, receipt []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Confirmations = append(f.Confirmations, order)
	f.Receipts = append(f.Receipts, receipt)
	if f.Fail {
		return errors.New("smtp unavailable")
	}
	return nil
}

func (f *Notifier) SendPasswordReset(_ context.Context, email, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Resets = append(f.Resets, ResetMail{Email: email, Link: link})
	if f.Fail {
		return errors.New("smtp unavailable")
	}
	return nil
}

type Receipts struct{}

func (Receipts) Render(order domain.Order) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}

func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return []T{}
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

package service_test

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/nikolayk812/storefront/internal/domain"
)

// fakeCartRepo keeps carts in memory behind a single mutex, which satisfies
// the per-owner critical section contract trivially.
type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[string]domain.Cart

	clearErr error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string]domain.Cart{}}
}

func cloneCart(cart domain.Cart) domain.Cart {
	lines := make([]domain.CartLine, len(cart.Lines))
	copy(lines, cart.Lines)
	cart.Lines = lines
	return cart
}

func (r *fakeCartRepo) GetCart(_ context.Context, ownerID string) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[ownerID]
	if !ok {
		return domain.Cart{OwnerID: ownerID}, nil
	}
	return cloneCart(cart), nil
}

func (r *fakeCartRepo) UpdateCart(_ context.Context, ownerID string, mutate func(domain.Cart) (domain.Cart, error)) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[ownerID]
	if !ok {
		cart = domain.Cart{OwnerID: ownerID}
	}

	updated, err := mutate(cloneCart(cart))
	if err != nil {
		return domain.Cart{}, err
	}

	updated.OwnerID = ownerID
	r.carts[ownerID] = updated

	return cloneCart(updated), nil
}

func (r *fakeCartRepo) ClearCart(_ context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.clearErr != nil {
		return r.clearErr
	}

	delete(r.carts, ownerID)
	return nil
}

// fakeInventory mirrors the all-or-nothing reservation contract.
type fakeInventory struct {
	mu    sync.Mutex
	stock map[uuid.UUID]int32
}

func newFakeInventory(stock map[uuid.UUID]int32) *fakeInventory {
	if stock == nil {
		stock = map[uuid.UUID]int32{}
	}
	return &fakeInventory{stock: stock}
}

func (r *fakeInventory) Reserve(_ context.Context, lines []domain.StockLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var shortfalls []domain.StockShortfall
	for _, line := range lines {
		available := r.stock[line.ProductID]
		if available < line.Quantity {
			shortfalls = append(shortfalls, domain.StockShortfall{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: available,
			})
		}
	}

	if len(shortfalls) > 0 {
		sort.Slice(shortfalls, func(i, j int) bool {
			return shortfalls[i].ProductID.String() < shortfalls[j].ProductID.String()
		})
		return domain.InsufficientStockError{Shortfalls: shortfalls}
	}

	for _, line := range lines {
		r.stock[line.ProductID] -= line.Quantity
	}
	return nil
}

func (r *fakeInventory) Restore(_ context.Context, lines []domain.StockLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, line := range lines {
		r.stock[line.ProductID] += line.Quantity
	}
	return nil
}

func (r *fakeInventory) StockLevel(_ context.Context, productID uuid.UUID) (int32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.stock[productID], nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]domain.Order

	insertErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]domain.Order{}}
}

func cloneOrder(order domain.Order) domain.Order {
	lines := make([]domain.OrderLine, len(order.Lines))
	copy(lines, order.Lines)
	order.Lines = lines

	history := make([]domain.StatusChange, len(order.StatusHistory))
	copy(history, order.StatusHistory)
	order.StatusHistory = history

	return order
}

func (r *fakeOrderRepo) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, domain.NotFoundError{Entity: "order", Key: orderID.String()}
	}
	return cloneOrder(order), nil
}

func (r *fakeOrderRepo) ListOrders(_ context.Context) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		result = append(result, cloneOrder(order))
	}
	return result, nil
}

func (r *fakeOrderRepo) ListOrdersByOwner(_ context.Context, ownerID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Order
	for _, order := range r.orders {
		if order.OwnerID == ownerID {
			result = append(result, cloneOrder(order))
		}
	}
	return result, nil
}

func (r *fakeOrderRepo) InsertOrder(_ context.Context, order domain.Order) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.insertErr != nil {
		return uuid.Nil, r.insertErr
	}

	order.ID = uuid.New()
	r.orders[order.ID] = cloneOrder(order)

	return order.ID, nil
}

func (r *fakeOrderRepo) UpdateOrderStatus(_ context.Context, orderID uuid.UUID, status domain.OrderStatus) (domain.Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, false, domain.NotFoundError{Entity: "order", Key: orderID.String()}
	}

	if order.Status == status {
		return cloneOrder(order), false, nil
	}

	if !domain.CanTransition(order.Status, status) {
		return domain.Order{}, false, domain.ValidationError{Field: "status", Reason: "transition not allowed"}
	}

	order.Status = status
	order.StatusHistory = append(order.StatusHistory, domain.StatusChange{Status: status})
	r.orders[orderID] = order

	return cloneOrder(order), true, nil
}

type fakeUserDirectory struct {
	users map[string]domain.User
}

func newFakeUserDirectory(users ...domain.User) *fakeUserDirectory {
	d := &fakeUserDirectory{users: map[string]domain.User{}}
	for _, user := range users {
		d.users[user.ID] = user
	}
	return d
}

func (d *fakeUserDirectory) FindByID(_ context.Context, userID string) (domain.User, error) {
	user, ok := d.users[userID]
	if !ok {
		return domain.User{}, domain.NotFoundError{Entity: "user", Key: userID}
	}
	return user, nil
}

// fakeSink records delivered notifications; sent is buffered so the async
// notify goroutines never block on it.
type fakeSink struct {
	mu   sync.Mutex
	seen []domain.Notification

	sent chan struct{}
}

func newFakeSink() *fakeSink {
	return &fakeSink{sent: make(chan struct{}, 16)}
}

func (s *fakeSink) Notify(_ context.Context, n domain.Notification) error {
	s.mu.Lock()
	s.seen = append(s.seen, n)
	s.mu.Unlock()

	s.sent <- struct{}{}
	return nil
}

func (s *fakeSink) notifications() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.Notification, len(s.seen))
	copy(result, s.seen)
	return result
}

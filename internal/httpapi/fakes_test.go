package httpapi_test

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/httpapi"
	"github.com/nikolayk812/storefront/internal/service"
)

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string]domain.Cart{}}
}

func (r *fakeCartRepo) GetCart(_ context.Context, ownerID string) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[ownerID]
	if !ok {
		return domain.Cart{OwnerID: ownerID}, nil
	}
	return cart, nil
}

func (r *fakeCartRepo) UpdateCart(_ context.Context, ownerID string, mutate func(domain.Cart) (domain.Cart, error)) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[ownerID]
	if !ok {
		cart = domain.Cart{OwnerID: ownerID}
	}

	updated, err := mutate(cart)
	if err != nil {
		return domain.Cart{}, err
	}

	updated.OwnerID = ownerID
	r.carts[ownerID] = updated
	return updated, nil
}

func (r *fakeCartRepo) ClearCart(_ context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, ownerID)
	return nil
}

type fakeInventory struct {
	mu    sync.Mutex
	stock map[uuid.UUID]int32
}

func (r *fakeInventory) Reserve(_ context.Context, lines []domain.StockLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var shortfalls []domain.StockShortfall
	for _, line := range lines {
		if r.stock[line.ProductID] < line.Quantity {
			shortfalls = append(shortfalls, domain.StockShortfall{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: r.stock[line.ProductID],
			})
		}
	}
	if len(shortfalls) > 0 {
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
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]domain.Order{}}
}

func (r *fakeOrderRepo) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, domain.NotFoundError{Entity: "order", Key: orderID.String()}
	}
	return order, nil
}

func (r *fakeOrderRepo) ListOrders(_ context.Context) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		result = append(result, order)
	}
	return result, nil
}

func (r *fakeOrderRepo) ListOrdersByOwner(_ context.Context, ownerID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Order
	for _, order := range r.orders {
		if order.OwnerID == ownerID {
			result = append(result, order)
		}
	}
	return result, nil
}

func (r *fakeOrderRepo) InsertOrder(_ context.Context, order domain.Order) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = uuid.New()
	r.orders[order.ID] = order
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
		return order, false, nil
	}
	if !domain.CanTransition(order.Status, status) {
		return domain.Order{}, false, domain.ValidationError{Field: "status", Reason: "transition not allowed"}
	}

	order.Status = status
	order.StatusHistory = append(order.StatusHistory, domain.StatusChange{Status: status})
	r.orders[orderID] = order
	return order, true, nil
}

type fakeCatalog struct {
	products map[uuid.UUID]domain.Product
}

func (c *fakeCatalog) Lookup(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	product, ok := c.products[productID]
	if !ok {
		return domain.Product{}, domain.NotFoundError{Entity: "product", Key: productID.String()}
	}
	return product, nil
}

type fakeUserDirectory struct {
	users map[string]domain.User
}

func (d *fakeUserDirectory) FindByID(_ context.Context, userID string) (domain.User, error) {
	user, ok := d.users[userID]
	if !ok {
		return domain.User{}, domain.NotFoundError{Entity: "user", Key: userID}
	}
	return user, nil
}

type fakeSink struct{}

func (fakeSink) Notify(context.Context, domain.Notification) error { return nil }

const adminToken = "test-admin-token"

// fixture wires a full server over in-memory collaborators.
type fixture struct {
	cartRepo  *fakeCartRepo
	inventory *fakeInventory
	orderRepo *fakeOrderRepo
	catalog   *fakeCatalog
	users     *fakeUserDirectory

	server *httpapi.Server
}

func newFixture(users []domain.User, products []domain.Product) *fixture {
	f := &fixture{
		cartRepo:  newFakeCartRepo(),
		inventory: &fakeInventory{stock: map[uuid.UUID]int32{}},
		orderRepo: newFakeOrderRepo(),
		catalog:   &fakeCatalog{products: map[uuid.UUID]domain.Product{}},
		users:     &fakeUserDirectory{users: map[string]domain.User{}},
	}

	for _, user := range users {
		f.users.users[user.ID] = user
	}
	for _, product := range products {
		f.catalog.products[product.ID] = product
		f.inventory.stock[product.ID] = product.CountInStock
	}

	logger := slog.New(slog.DiscardHandler)
	sink := fakeSink{}

	carts := service.NewCart(f.cartRepo)
	inventorySvc := service.NewInventory(f.inventory)
	orders := service.NewOrder(f.orderRepo, f.users, sink, logger)
	checkout := service.NewCheckout(carts, inventorySvc, orders, f.users, sink, logger)

	isAdmin := func(token string) bool { return token == adminToken }

	f.server = httpapi.NewServer(carts, checkout, orders, f.catalog, f.users, isAdmin, logger)
	return f
}

package service

// In-memory repository stubs shared by the service unit tests. They satisfy
// the repository interfaces over plain maps; the tx parameter is always nil
// because runTx short-circuits when no *gorm.DB is configured.

import (
	"context"
	"sync"
	"time"

	"intercolor/internal/dto"
	"intercolor/internal/model"
	"intercolor/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── ProductRepository stub ────────────────────────────────────────────────────

type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) put(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cloned := *p
	r.products[p.ID] = &cloned
	return r.products[p.ID]
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(p)
	return nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(p)
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) find(id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *p
	return &cloned, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(id)
}

func (r *stubProductRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(id)
}

func (r *stubProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	return nil
}

func (r *stubProductRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, stock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = stock
	return nil
}

func (r *stubProductRepo) ReplaceCategories(_ context.Context, p *model.Product, categories []model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.products[p.ID]; ok {
		stored.Categories = categories
	}
	return nil
}

func (r *stubProductRepo) List(_ context.Context, _, _ int) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) ListPublic(_ context.Context, _ dto.PublicProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.IsPublic && p.Status == model.ProductStatusActive {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) ListFeatured(_ context.Context, _ int) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.Featured {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) AvgStock(_ context.Context) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.products) == 0 {
		return 0, nil
	}
	sum := 0
	for _, p := range r.products {
		sum += p.Stock
	}
	return float64(sum) / float64(len(r.products)), nil
}

func (r *stubProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *stubProductRepo) ListAll(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── StockRepository stub ──────────────────────────────────────────────────────

type stubStockRepo struct {
	mu        sync.Mutex
	histories []model.StockHistory
	alerts    map[uuid.UUID]*model.StockAlert
	lowRows   []repository.LowStockRow
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{alerts: make(map[uuid.UUID]*model.StockAlert)}
}

func (r *stubStockRepo) CreateHistoryTx(_ *gorm.DB, h *model.StockHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	r.histories = append(r.histories, *h)
	return nil
}

func (r *stubStockRepo) ListHistory(_ context.Context, productID *uuid.UUID, since *time.Time, _, _ int) ([]model.StockHistory, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockHistory
	for _, h := range r.histories {
		if productID != nil && h.ProductID != *productID {
			continue
		}
		if since != nil && h.CreatedAt.Before(*since) {
			continue
		}
		out = append(out, h)
	}
	return out, int64(len(out)), nil
}

func (r *stubStockRepo) SumOutboundSince(_ context.Context, productID uuid.UUID, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, h := range r.histories {
		if h.ProductID == productID && h.Type == model.StockTypeSalida && !h.CreatedAt.Before(since) {
			total += h.QuantityChanged
		}
	}
	return total, nil
}

func (r *stubStockRepo) SumOutboundAllSince(_ context.Context, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := 0
	for _, h := range r.histories {
		if h.Type == model.StockTypeSalida && !h.CreatedAt.Before(since) {
			sum += h.QuantityChanged
		}
	}
	return sum, nil
}

func (r *stubStockRepo) AvgNewStockSince(_ context.Context, productID uuid.UUID, since time.Time) (float64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum, n := 0, 0
	for _, h := range r.histories {
		if h.ProductID == productID && !h.CreatedAt.Before(since) {
			sum += h.NewStock
			n++
		}
	}
	if n == 0 {
		return 0, false, nil
	}
	return float64(sum) / float64(n), true, nil
}

func (r *stubStockRepo) UpsertAlert(_ context.Context, a *model.StockAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cloned := *a
	r.alerts[a.ProductID] = &cloned
	return nil
}

func (r *stubStockRepo) findAlert(productID uuid.UUID) (*model.StockAlert, error) {
	a, ok := r.alerts[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *a
	return &cloned, nil
}

func (r *stubStockRepo) FindAlertByProduct(_ context.Context, productID uuid.UUID) (*model.StockAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findAlert(productID)
}

func (r *stubStockRepo) FindAlertByProductTx(_ *gorm.DB, productID uuid.UUID) (*model.StockAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findAlert(productID)
}

func (r *stubStockRepo) UpdateAlertTx(_ *gorm.DB, a *model.StockAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cloned := *a
	r.alerts[a.ProductID] = &cloned
	return nil
}

func (r *stubStockRepo) LowStockProducts(_ context.Context) ([]repository.LowStockRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]repository.LowStockRow(nil), r.lowRows...), nil
}

func (r *stubStockRepo) CountLowStock(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.lowRows)), nil
}

var _ repository.StockRepository = (*stubStockRepo)(nil)

// ── CartRepository stub ───────────────────────────────────────────────────────

type stubCartRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*model.CartItem
	// resolves Product preloads
	products *stubProductRepo
}

func newStubCartRepo(products *stubProductRepo) *stubCartRepo {
	return &stubCartRepo{items: make(map[uuid.UUID]*model.CartItem), products: products}
}

func (r *stubCartRepo) withProduct(item model.CartItem) model.CartItem {
	if r.products != nil {
		if p, err := r.products.FindByID(context.Background(), item.ProductID); err == nil {
			item.Product = p
		}
	}
	return item
}

func (r *stubCartRepo) FindByUserAndProduct(_ context.Context, userID, productID uuid.UUID) (*model.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.UserID == userID && item.ProductID == productID {
			cloned := *item
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCartRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *item
	return &cloned, nil
}

func (r *stubCartRepo) listByUser(userID uuid.UUID) []model.CartItem {
	var out []model.CartItem
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, r.withProduct(*item))
		}
	}
	return out
}

func (r *stubCartRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listByUser(userID), nil
}

func (r *stubCartRepo) ListByUserTx(_ *gorm.DB, userID uuid.UUID) ([]model.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listByUser(userID), nil
}

func (r *stubCartRepo) Create(_ context.Context, item *model.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cloned := *item
	r.items[item.ID] = &cloned
	return nil
}

func (r *stubCartRepo) Update(_ context.Context, item *model.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cloned := *item
	r.items[item.ID] = &cloned
	return nil
}

func (r *stubCartRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *stubCartRepo) deleteByUser(userID uuid.UUID) {
	for id, item := range r.items {
		if item.UserID == userID {
			delete(r.items, id)
		}
	}
}

func (r *stubCartRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteByUser(userID)
	return nil
}

func (r *stubCartRepo) DeleteByUserTx(_ *gorm.DB, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteByUser(userID)
	return nil
}

var _ repository.CartRepository = (*stubCartRepo)(nil)

// ── OrderRepository stub ──────────────────────────────────────────────────────

type stubOrderRepo struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]*model.Order
	histories []model.OrderStatusHistory
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
	}
	cloned := *order
	cloned.Items = append([]model.OrderItem(nil), order.Items...)
	r.orders[order.ID] = &cloned
	return nil
}

func (r *stubOrderRepo) find(id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *o
	cloned.Items = append([]model.OrderItem(nil), o.Items...)
	return &cloned, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(id)
}

func (r *stubOrderRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(id)
}

func (r *stubOrderRepo) ListItemsTx(_ *gorm.DB, orderID uuid.UUID) ([]model.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return append([]model.OrderItem(nil), o.Items...), nil
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]model.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) List(_ context.Context, filter dto.OrderListFilter) ([]model.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Order
	for _, o := range r.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) UpdateStatusTx(_ *gorm.DB, orderID uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (r *stubOrderRepo) CreateStatusHistoryTx(_ *gorm.DB, h *model.OrderStatusHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.CreatedAt = time.Now()
	r.histories = append(r.histories, *h)
	return nil
}

func (r *stubOrderRepo) StatusHistory(_ context.Context, orderID uuid.UUID) ([]model.OrderStatusHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.OrderStatusHistory
	for _, h := range r.histories {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.orders)), nil
}

func (r *stubOrderRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, o := range r.orders {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *stubOrderRepo) RevenueSince(_ context.Context, since *time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, o := range r.orders {
		if o.Status == model.OrderStatusCancelled {
			continue
		}
		if since != nil && o.CreatedAt.Before(*since) {
			continue
		}
		total = total.Add(o.TotalAmount)
	}
	return total, nil
}

func (r *stubOrderRepo) RevenueByPeriod(_ context.Context, _ string, _ time.Time) ([]repository.RevenueRow, error) {
	return nil, nil
}

func (r *stubOrderRepo) TopProducts(_ context.Context, _ time.Time, _ int) ([]repository.TopProductRow, error) {
	return nil, nil
}

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── CategoryRepository stub ───────────────────────────────────────────────────

type stubCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*model.Category
	// join table: category → product ids
	products map[uuid.UUID][]uuid.UUID
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{
		categories: make(map[uuid.UUID]*model.Category),
		products:   make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cloned := *c
	r.categories[c.ID] = &cloned
	return nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cloned := *c
	cloned.Children = nil
	r.categories[c.ID] = &cloned
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *c
	for _, other := range r.categories {
		if other.ParentID != nil && *other.ParentID == id {
			cloned.Children = append(cloned.Children, *other)
		}
	}
	return &cloned, nil
}

func (r *stubCategoryRepo) FindBySlug(_ context.Context, slug string) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Slug == slug {
			cloned := *c
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoryRepo) ListAll(_ context.Context) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Category
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCategoryRepo) ListRoots(_ context.Context) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Category
	for _, c := range r.categories {
		if c.ParentID == nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCategoryRepo) ListChildren(_ context.Context, parentID uuid.UUID) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Category
	for _, c := range r.categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCategoryRepo) CountProducts(_ context.Context, categoryID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products[categoryID])), nil
}

func (r *stubCategoryRepo) UpdateDisplayOrder(_ context.Context, id uuid.UUID, order int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.DisplayOrder = order
	return nil
}

func (r *stubCategoryRepo) ReparentChildrenTx(_ *gorm.DB, categoryID uuid.UUID, newParentID *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.ParentID != nil && *c.ParentID == categoryID {
			c.ParentID = newParentID
		}
	}
	return nil
}

func (r *stubCategoryRepo) ReassignProductsTx(_ *gorm.DB, categoryID uuid.UUID, newParentID *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if newParentID != nil {
		existing := make(map[uuid.UUID]bool)
		for _, pid := range r.products[*newParentID] {
			existing[pid] = true
		}
		for _, pid := range r.products[categoryID] {
			if !existing[pid] {
				r.products[*newParentID] = append(r.products[*newParentID], pid)
			}
		}
	}
	delete(r.products, categoryID)
	return nil
}

func (r *stubCategoryRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, id)
	return nil
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

// ── UserRepository stub ───────────────────────────────────────────────────────

type stubUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	cloned := *u
	r.users[u.ID] = &cloned
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cloned := *u
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *u
	return &cloned, nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── AlertNotifier stub ────────────────────────────────────────────────────────

type stubNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *stubNotifier) NotifyLowStock(_ context.Context, productName string, _, _ int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, productName)
}

func (n *stubNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

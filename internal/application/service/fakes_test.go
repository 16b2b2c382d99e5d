package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	"github.com/granjasanluis/reparto-api/internal/domain/enum"
	"github.com/granjasanluis/reparto-api/internal/domain/repository"
	"github.com/granjasanluis/reparto-api/internal/domain/settlement"
	"github.com/granjasanluis/reparto-api/pkg/pagination"
)

// In-memory repository fakes shared by the service tests.

type fakeProductRepo struct {
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetBySlug(_ context.Context, slug string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) ReplaceWholesaleTiers(_ context.Context, productID uuid.UUID, tiers []entity.WholesaleTier) error {
	if p, ok := r.products[productID]; ok {
		p.WholesaleTiers = tiers
	}
	return nil
}

func (r *fakeProductRepo) ReplaceBonusRules(_ context.Context, productID uuid.UUID, rules []entity.BonusRule) error {
	if p, ok := r.products[productID]; ok {
		p.BonusRules = rules
	}
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) GetLowStock(_ context.Context) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range r.products {
		if p.Quantity <= p.QuantityAlert {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) UpdateQuantity(_ context.Context, id uuid.UUID, quantity int) error {
	if p, ok := r.products[id]; ok {
		p.Quantity = quantity
	}
	return nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo(customers ...*entity.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
	for _, c := range customers {
		r.customers[c.ID] = c
	}
	return r
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	return r.customers[id], nil
}

func (r *fakeCustomerRepo) GetByPhone(_ context.Context, phone string) (*entity.Customer, error) {
	for _, c := range r.customers {
		if c.Phone != nil && *c.Phone == phone {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.Customer, int64, error) {
	var out []entity.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.User, int64, error) {
	var out []entity.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) GetWithRoles(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) AssignRole(_ context.Context, _ uuid.UUID, _ uint) error  { return nil }
func (r *fakeUserRepo) RemoveRole(_ context.Context, _ uuid.UUID, _ uint) error { return nil }

func (r *fakeUserRepo) ListByRole(_ context.Context, roleName string) ([]entity.User, error) {
	var out []entity.User
	for _, u := range r.users {
		if u.HasRole(roleName) {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakePreSaleRepo struct {
	preSales map[uuid.UUID]*entity.PreSale
	events   []entity.PreSaleEvent

	settleResult *settlement.Result
	settleErr    error
	settleCalls  int
}

func newFakePreSaleRepo(preSales ...*entity.PreSale) *fakePreSaleRepo {
	r := &fakePreSaleRepo{preSales: make(map[uuid.UUID]*entity.PreSale)}
	for _, p := range preSales {
		r.preSales[p.ID] = p
	}
	return r
}

func (r *fakePreSaleRepo) Create(_ context.Context, preSale *entity.PreSale) error {
	if preSale.ID == uuid.Nil {
		preSale.ID = uuid.New()
	}
	r.preSales[preSale.ID] = preSale
	return nil
}

func (r *fakePreSaleRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.PreSale, error) {
	return r.preSales[id], nil
}

func (r *fakePreSaleRepo) GetByReceiptNo(_ context.Context, receiptNo string) (*entity.PreSale, error) {
	for _, p := range r.preSales {
		if p.ReceiptNo == receiptNo {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePreSaleRepo) GetWithDetails(_ context.Context, id uuid.UUID) (*entity.PreSale, error) {
	return r.preSales[id], nil
}

func (r *fakePreSaleRepo) Update(_ context.Context, preSale *entity.PreSale) error {
	r.preSales[preSale.ID] = preSale
	return nil
}

func (r *fakePreSaleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.preSales, id)
	return nil
}

func (r *fakePreSaleRepo) List(_ context.Context, _ *repository.PreSaleFilterParams) ([]entity.PreSale, int64, error) {
	var out []entity.PreSale
	for _, p := range r.preSales {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePreSaleRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enum.PreSaleStatus) error {
	if p, ok := r.preSales[id]; ok {
		p.Status = status
	}
	return nil
}

func (r *fakePreSaleRepo) Dispatch(_ context.Context, id uuid.UUID, agentID uuid.UUID, dispatchedAt time.Time) error {
	if p, ok := r.preSales[id]; ok {
		p.Status = enum.PreSaleStatusDispatched
		p.DeliveryAgentID = &agentID
		p.DispatchedAt = &dispatchedAt
	}
	return nil
}

func (r *fakePreSaleRepo) Settle(_ context.Context, id uuid.UUID, _ uuid.UUID) (*settlement.Result, error) {
	r.settleCalls++
	if r.settleErr != nil {
		return nil, r.settleErr
	}
	if _, ok := r.preSales[id]; !ok {
		return nil, nil
	}
	return r.settleResult, nil
}

func (r *fakePreSaleRepo) ListItemsByStatus(_ context.Context, statuses []enum.PreSaleStatus) ([]entity.PreSaleItem, error) {
	wanted := make(map[enum.PreSaleStatus]bool)
	for _, s := range statuses {
		wanted[s] = true
	}
	var items []entity.PreSaleItem
	for _, p := range r.preSales {
		if !wanted[p.Status] {
			continue
		}
		for _, item := range p.Items {
			item.PreSaleID = p.ID
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *fakePreSaleRepo) AppendEvent(_ context.Context, event *entity.PreSaleEvent) error {
	r.events = append(r.events, *event)
	return nil
}

func (r *fakePreSaleRepo) GetHistory(_ context.Context, preSaleID uuid.UUID) ([]entity.PreSaleEvent, error) {
	var out []entity.PreSaleEvent
	for _, e := range r.events {
		if e.PreSaleID == preSaleID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeCreditRepo struct {
	credits  map[uuid.UUID]*entity.Credit
	payments []entity.CreditPayment
}

func newFakeCreditRepo(credits ...*entity.Credit) *fakeCreditRepo {
	r := &fakeCreditRepo{credits: make(map[uuid.UUID]*entity.Credit)}
	for _, c := range credits {
		r.credits[c.ID] = c
	}
	return r
}

func (r *fakeCreditRepo) Create(_ context.Context, credit *entity.Credit) error {
	if credit.ID == uuid.Nil {
		credit.ID = uuid.New()
	}
	r.credits[credit.ID] = credit
	return nil
}

func (r *fakeCreditRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Credit, error) {
	return r.credits[id], nil
}

func (r *fakeCreditRepo) GetWithPayments(_ context.Context, id uuid.UUID) (*entity.Credit, error) {
	credit, ok := r.credits[id]
	if !ok {
		return nil, nil
	}
	out := *credit
	out.Payments = nil
	for _, p := range r.payments {
		if p.CreditID == id {
			out.Payments = append(out.Payments, p)
		}
	}
	return &out, nil
}

func (r *fakeCreditRepo) Update(_ context.Context, credit *entity.Credit) error {
	r.credits[credit.ID] = credit
	return nil
}

func (r *fakeCreditRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.credits, id)
	return nil
}

func (r *fakeCreditRepo) List(_ context.Context, _ *repository.CreditFilterParams) ([]entity.Credit, int64, error) {
	var out []entity.Credit
	for _, c := range r.credits {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCreditRepo) RecordPayment(_ context.Context, credit *entity.Credit, payment *entity.CreditPayment) error {
	r.credits[credit.ID] = credit
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	r.payments = append(r.payments, *payment)
	return nil
}

type fakeRouteRepo struct {
	routes map[uuid.UUID]*entity.Route
}

func newFakeRouteRepo(routes ...*entity.Route) *fakeRouteRepo {
	r := &fakeRouteRepo{routes: make(map[uuid.UUID]*entity.Route)}
	for _, route := range routes {
		r.routes[route.ID] = route
	}
	return r
}

func (r *fakeRouteRepo) Create(_ context.Context, route *entity.Route) error {
	if route.ID == uuid.Nil {
		route.ID = uuid.New()
	}
	r.routes[route.ID] = route
	return nil
}

func (r *fakeRouteRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Route, error) {
	return r.routes[id], nil
}

func (r *fakeRouteRepo) GetByName(_ context.Context, name string) (*entity.Route, error) {
	for _, route := range r.routes {
		if route.Name == name {
			return route, nil
		}
	}
	return nil, nil
}

func (r *fakeRouteRepo) Update(_ context.Context, route *entity.Route) error {
	r.routes[route.ID] = route
	return nil
}

func (r *fakeRouteRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.routes, id)
	return nil
}

func (r *fakeRouteRepo) List(_ context.Context) ([]entity.Route, error) {
	var out []entity.Route
	for _, route := range r.routes {
		out = append(out, *route)
	}
	return out, nil
}

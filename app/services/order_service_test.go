package services_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/nepkart/app/models"
	"github.com/shashiranjanraj/nepkart/app/services"
	"github.com/shashiranjanraj/nepkart/pkg/event"
)

var orderCodePattern = regexp.MustCompile(`^NEP-\d+-[0-9a-f]{6}$`)

func TestCreateOrderPricesAndPersistsAggregate(t *testing.T) {
	db := newDB(t)
	noodles := seedProduct(t, db, "NEP-FOOD-001", "2.99", 150, "0.10")
	churpi := seedProduct(t, db, "NEP-FOOD-002", "8.99", 45, "0.20")

	svc := services.NewOrderService(db, event.New())
	o, err := svc.CreateOrder(context.Background(), shopper("sita@example.com", "90210"), []services.LineRequest{
		{ProductID: noodles.ID, Quantity: 3},
		{ProductID: churpi.ID, Quantity: 2},
	})
	require.NoError(t, err)

	assert.Regexp(t, orderCodePattern, o.OrderCode)
	assert.Equal(t, models.StatusReceived, o.Status)
	assert.Equal(t, "26.95", o.Subtotal.StringFixed(2))
	assert.Equal(t, "5.99", o.ShippingCost.StringFixed(2)) // 0.7 kg
	assert.Equal(t, "2.42", o.Tax.StringFixed(2))
	assert.Equal(t, "35.36", o.Total.StringFixed(2))
	assert.True(t, o.Total.Equal(o.Subtotal.Add(o.ShippingCost).Add(o.Tax)))
	assert.True(t, o.Subtotal.Equal(o.ItemsSubtotal()))
	assert.False(t, o.OrderDate.IsZero())

	require.Len(t, o.Items, 2)
	assert.Equal(t, noodles.ID, o.Items[0].ProductID)
	assert.Equal(t, 3, o.Items[0].Quantity)
	assert.Equal(t, "NEP-FOOD-001", o.Items[0].Product.SKU)
	assert.Equal(t, churpi.ID, o.Items[1].ProductID)
	assert.Equal(t, "sita@example.com", o.Customer.Email)

	assert.Equal(t, 147, stockOf(t, db, noodles.ID))
	assert.Equal(t, 43, stockOf(t, db, churpi.ID))

	byCode, err := svc.FindByCode(context.Background(), o.OrderCode)
	require.NoError(t, err)
	assert.Equal(t, o.ID, byCode.ID)
	assert.Equal(t, "35.36", byCode.Total.StringFixed(2))
}

func TestCreateOrderRejectsWithoutSideEffects(t *testing.T) {
	db := newDB(t)
	a := seedProduct(t, db, "A", "10.00", 5, "1.00")
	b := seedProduct(t, db, "B", "20.00", 1, "1.00")
	svc := services.NewOrderService(db, event.New())
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, shopper("ram@example.com", "97201"), []services.LineRequest{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: b.ID, Quantity: 3},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrInsufficientStock))

	var short *services.InsufficientStockError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, "Product B", short.Product)
	assert.Equal(t, 1, short.Available)
	assert.Equal(t, 3, short.Requested)
	assert.Equal(t, "Insufficient stock for product: Product B. Available: 1, Requested: 3", short.Error())

	assert.Equal(t, 5, stockOf(t, db, a.ID), "earlier line must be rolled back")
	assert.Equal(t, 1, stockOf(t, db, b.ID))
	assert.Zero(t, count(t, db, &models.Order{}))
	assert.Zero(t, count(t, db, &models.OrderItem{}))
	assert.Zero(t, count(t, db, &models.Customer{}))
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	db := newDB(t)
	a := seedProduct(t, db, "A", "10.00", 5, "1.00")
	svc := services.NewOrderService(db, event.New())

	_, err := svc.CreateOrder(context.Background(), shopper("ram@example.com", "97201"), []services.LineRequest{
		{ProductID: a.ID, Quantity: 1},
		{ProductID: 9999, Quantity: 1},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrNotFound))

	var nf *services.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Product not found with id: 9999", nf.Error())
	assert.Equal(t, 5, stockOf(t, db, a.ID))
}

func TestCreateOrderValidation(t *testing.T) {
	db := newDB(t)
	a := seedProduct(t, db, "A", "10.00", 5, "1.00")
	svc := services.NewOrderService(db, event.New())
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, shopper("ram@example.com", "97201"), nil)
	assert.True(t, errors.Is(err, services.ErrValidation))

	_, err = svc.CreateOrder(ctx, shopper("ram@example.com", "97201"), []services.LineRequest{{ProductID: a.ID, Quantity: 0}})
	assert.True(t, errors.Is(err, services.ErrValidation))

	_, err = svc.CreateOrder(ctx, shopper("not-an-email", "97201"), []services.LineRequest{{ProductID: a.ID, Quantity: 1}})
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "email")

	assert.Equal(t, 5, stockOf(t, db, a.ID))
	assert.Zero(t, count(t, db, &models.Order{}))
}

func TestCreateOrderMergesRepeatedProducts(t *testing.T) {
	db := newDB(t)
	a := seedProduct(t, db, "A", "1.50", 10, "0.10")
	svc := services.NewOrderService(db, event.New())

	o, err := svc.CreateOrder(context.Background(), shopper("ram@example.com", "97201"), []services.LineRequest{
		{ProductID: a.ID, Quantity: 1},
		{ProductID: a.ID, Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 3, o.Items[0].Quantity)
	assert.Equal(t, 7, stockOf(t, db, a.ID))
}

func TestCreateOrderRejectsOverflowingQuantity(t *testing.T) {
	db := newDB(t)
	a := seedProduct(t, db, "A", "1.50", 5, "0.10")
	svc := services.NewOrderService(db, event.New())

	_, err := svc.CreateOrder(context.Background(), shopper("ram@example.com", "97201"), []services.LineRequest{
		{ProductID: a.ID, Quantity: math.MaxInt},
		{ProductID: a.ID, Quantity: 2},
	})
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "productQuantities")
	assert.Equal(t, 5, stockOf(t, db, a.ID))
	assert.Zero(t, count(t, db, &models.Order{}))
}

func TestCreateOrderKeepsMoneyAtTwoDecimals(t *testing.T) {
	db := newDB(t)
	// written straight to the table, skipping Product.Validate
	a := seedProduct(t, db, "A", "1.004", 5, "0.10")
	svc := services.NewOrderService(db, event.New())

	o, err := svc.CreateOrder(context.Background(), shopper("ram@example.com", "97201"), []services.LineRequest{
		{ProductID: a.ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "1.00", o.Subtotal.StringFixed(2))
	assert.Equal(t, "6.99", o.Total.StringFixed(2))
	assert.True(t, o.Total.Equal(o.Total.Round(2)), o.Total.String())
}

func TestCreateOrderMatchesEmailCaseInsensitively(t *testing.T) {
	db := newDB(t)
	a := seedProduct(t, db, "A", "1.00", 10, "0.10")
	svc := services.NewOrderService(db, event.New())
	ctx := context.Background()
	line := []services.LineRequest{{ProductID: a.ID, Quantity: 1}}

	first, err := svc.CreateOrder(ctx, shopper("Gita@Example.com", "97201"), line)
	require.NoError(t, err)
	second, err := svc.CreateOrder(ctx, shopper(" gita@example.COM", "97201"), line)
	require.NoError(t, err)

	assert.Equal(t, first.Customer.ID, second.Customer.ID)
	assert.Equal(t, "gita@example.com", second.Customer.Email)
	assert.Equal(t, int64(1), count(t, db, &models.Customer{}))
}

func TestCreateOrderReusesCustomerByEmail(t *testing.T) {
	db := newDB(t)
	a := seedProduct(t, db, "A", "1.00", 10, "0.10")
	svc := services.NewOrderService(db, event.New())
	ctx := context.Background()
	line := []services.LineRequest{{ProductID: a.ID, Quantity: 1}}

	first, err := svc.CreateOrder(ctx, shopper("gita@example.com", "97201"), line)
	require.NoError(t, err)

	again := shopper("gita@example.com", "97201")
	again.FirstName = "Someone"
	again.Address = "99 Other Rd"
	second, err := svc.CreateOrder(ctx, again, line)
	require.NoError(t, err)

	assert.Equal(t, first.Customer.ID, second.Customer.ID)
	assert.Equal(t, "Sita", second.Customer.FirstName, "stored customer wins")
	assert.Equal(t, "1 Main St", second.Customer.Address)
	assert.Equal(t, int64(1), count(t, db, &models.Customer{}))
	assert.NotEqual(t, first.OrderCode, second.OrderCode)
}

func TestOrderKeepsPriceSnapshot(t *testing.T) {
	db := newDB(t)
	a := seedProduct(t, db, "A", "4.00", 10, "0.10")
	orders := services.NewOrderService(db, event.New())
	products := services.NewProductService(db, nil)
	ctx := context.Background()

	o, err := orders.CreateOrder(ctx, shopper("hari@example.com", "97201"), []services.LineRequest{{ProductID: a.ID, Quantity: 2}})
	require.NoError(t, err)

	changed := a
	changed.Price = decimal.RequireFromString("9.00")
	_, err = products.Update(ctx, a.ID, changed)
	require.NoError(t, err)

	reloaded, err := orders.Find(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "4.00", reloaded.Items[0].Price.StringFixed(2))
	assert.Equal(t, "9.00", reloaded.Items[0].Product.Price.StringFixed(2))
	assert.Equal(t, "8.00", reloaded.Subtotal.StringFixed(2))
}

func TestConcurrentCheckoutsNeverOversell(t *testing.T) {
	db := newDB(t)
	a := seedProduct(t, db, "A", "1.00", 5, "0.10")
	svc := services.NewOrderService(db, event.New())

	const buyers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		shortages int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.CreateOrder(context.Background(),
				shopper(fmt.Sprintf("buyer%d@example.com", i), "97201"),
				[]services.LineRequest{{ProductID: a.ID, Quantity: 1}})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, services.ErrInsufficientStock):
				shortages++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, buyers-5, shortages)
	assert.Equal(t, 0, stockOf(t, db, a.ID))
	assert.Equal(t, int64(5), count(t, db, &models.Order{}))
}

func TestCreateOrderFiresEventAfterCommit(t *testing.T) {
	db := newDB(t)
	a := seedProduct(t, db, "A", "1.00", 3, "0.10")
	d := event.New()

	var got []services.OrderEvent
	d.Listen(services.EventOrderCreated, func(_ context.Context, payload interface{}) {
		got = append(got, payload.(services.OrderEvent))
	})
	svc := services.NewOrderService(db, d)
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, shopper("ram@example.com", "97201"), []services.LineRequest{{ProductID: a.ID, Quantity: 2}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, o.OrderCode, got[0].Order.OrderCode)
	assert.True(t, got[0].Order.Items[0].Product.IsLowStock())

	_, err = svc.CreateOrder(ctx, shopper("ram@example.com", "97201"), []services.LineRequest{{ProductID: a.ID, Quantity: 5}})
	require.Error(t, err)
	assert.Len(t, got, 1, "rejected checkouts fire nothing")
}

func TestOrderAdminOperations(t *testing.T) {
	db := newDB(t)
	a := seedProduct(t, db, "A", "1.00", 10, "0.10")
	d := event.New()
	var statusEvents int
	d.Listen(services.EventOrderStatusUpdated, func(context.Context, interface{}) { statusEvents++ })
	svc := services.NewOrderService(db, d)
	ctx := context.Background()
	line := []services.LineRequest{{ProductID: a.ID, Quantity: 1}}

	first, err := svc.CreateOrder(ctx, shopper("a@example.com", "97201"), line)
	require.NoError(t, err)
	second, err := svc.CreateOrder(ctx, shopper("b@example.com", "97201"), line)
	require.NoError(t, err)

	list, page, err := svc.All(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	require.Len(t, list[0].Items, 1)

	updated, err := svc.UpdateStatus(ctx, first.ID, models.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.Status)
	assert.Equal(t, 1, statusEvents)

	_, err = svc.UpdateStatus(ctx, 9999, models.StatusShipped)
	assert.True(t, errors.Is(err, services.ErrNotFound))

	require.NoError(t, svc.Delete(ctx, first.ID))
	_, err = svc.Find(ctx, first.ID)
	assert.True(t, errors.Is(err, services.ErrNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, first.ID), services.ErrNotFound))
	assert.Equal(t, int64(1), count(t, db, &models.OrderItem{}))
	assert.Equal(t, 8, stockOf(t, db, a.ID), "deleting an order does not restock")

	_, err = svc.FindByCode(ctx, "NEP-0-000000")
	assert.True(t, errors.Is(err, services.ErrNotFound))
}

func TestNewOrderCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := services.NewOrderCode(fixedNow)
		assert.Regexp(t, orderCodePattern, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 45)
}

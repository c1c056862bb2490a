package persistence

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/cart"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/catalog"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/customer"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/order"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/store"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalog.Product{},
		&customer.Customer{},
		&customer.Address{},
		&store.Settings{},
		&cart.Cart{},
		&cart.Item{},
		&order.Order{},
		&order.Item{},
		&order.Log{},
		&order.Payment{},
		&order.PaymentLog{},
	)
	require.NoError(t, err)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, storeID uuid.UUID, stock int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(storeID, "Filter Coffee",
		decimal.RequireFromString("250"), decimal.RequireFromString("5"), stock)
	require.NoError(t, err)
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedCart(t *testing.T, db *gorm.DB, storeID, userID uuid.UUID, p *catalog.Product, qty int64) *cart.Cart {
	t.Helper()
	c, err := cart.NewCart(storeID, userID)
	require.NoError(t, err)
	_, err = c.AddItem(p.ID, p.Name, "", qty, p.Price, p.GSTRate)
	require.NoError(t, err)
	require.NoError(t, db.Session(&gorm.Session{FullSaveAssociations: true}).Create(c).Error)
	return c
}

func seedOrder(t *testing.T, db *gorm.DB, repo *GormOrderRepository, c *cart.Cart, mode order.PaymentMode) *order.Order {
	t.Helper()
	number, err := repo.GenerateOrderNumber(context.Background(), c.StoreID)
	require.NoError(t, err)
	ord, err := order.NewFromCart(c, number, mode, uuid.New(), uuid.New(), decimal.Zero)
	require.NoError(t, err)
	log, err := order.NewLog(ord.ID, ord.Status, ord.PaymentStatus)
	require.NoError(t, err)
	require.NoError(t, repo.CreateWithLog(context.Background(), ord, log))
	return ord
}

func TestOrderRepositoryCreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	storeID, userID := uuid.New(), uuid.New()
	p := seedProduct(t, db, storeID, 10)
	c := seedCart(t, db, storeID, userID, p, 2)
	ord := seedOrder(t, db, repo, c, order.ModeCOD)

	found, err := repo.FindByID(ctx, ord.ID)
	require.NoError(t, err)
	assert.Equal(t, ord.OrderNumber, found.OrderNumber)
	require.Len(t, found.Items, 1)
	assert.Equal(t, int64(2), found.Items[0].Quantity)
	assert.True(t, found.TotalAmount.Equal(ord.TotalAmount))

	log, err := repo.FindLog(ctx, ord.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, log.LatestStatus)
	require.Len(t, log.StatusHistory, 1)
}

func TestOrderRepositoryFindByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestGenerateOrderNumberSequencePerStore(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	storeA, storeB := uuid.New(), uuid.New()
	pA := seedProduct(t, db, storeA, 100)
	pB := seedProduct(t, db, storeB, 100)

	for i := 0; i < 3; i++ {
		c := seedCart(t, db, storeA, uuid.New(), pA, 1)
		seedOrder(t, db, repo, c, order.ModeCOD)
	}
	cB := seedCart(t, db, storeB, uuid.New(), pB, 1)
	seedOrder(t, db, repo, cB, order.ModeCOD)

	next, err := repo.GenerateOrderNumber(ctx, storeA)
	require.NoError(t, err)
	assert.Regexp(t, `^ORD-\d{4}-00004$`, next)

	// The second store has its own sequence
	next, err = repo.GenerateOrderNumber(ctx, storeB)
	require.NoError(t, err)
	assert.Regexp(t, `^ORD-\d{4}-00002$`, next)
}

func TestOrderRepositoryFindByUserPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	storeID, userID := uuid.New(), uuid.New()
	p := seedProduct(t, db, storeID, 100)
	for i := 0; i < 5; i++ {
		c := seedCart(t, db, storeID, userID, p, 1)
		seedOrder(t, db, repo, c, order.ModeCOD)
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 2
	orders, total, err := repo.FindByUser(ctx, userID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, orders, 2)

	filter.Page = 3
	orders, _, err = repo.FindByUser(ctx, userID, filter)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOrderRepositoryFindPendingPayments(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	p := seedProduct(t, db, storeID, 100)

	pending := seedOrder(t, db, repo, seedCart(t, db, storeID, uuid.New(), p, 1), order.ModeRazorpay)
	seedOrder(t, db, repo, seedCart(t, db, storeID, uuid.New(), p, 1), order.ModeCOD)

	settled := seedOrder(t, db, repo, seedCart(t, db, storeID, uuid.New(), p, 1), order.ModeRazorpay)
	require.NoError(t, settled.MarkPaid("order_x", "pay_x", "sig_x"))
	require.NoError(t, repo.Save(ctx, settled))

	orders, err := repo.FindPendingPayments(ctx, storeID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, pending.ID, orders[0].ID)
}

func TestOrderRepositorySaveWithLogRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	p := seedProduct(t, db, storeID, 100)
	ord := seedOrder(t, db, repo, seedCart(t, db, storeID, uuid.New(), p, 1), order.ModeCOD)

	result, err := ord.Transition(order.StatusShipped, order.PaymentPending, order.StrictPolicy())
	require.NoError(t, err)
	require.True(t, result.StatusChanged)
	ord.SetTracking("TRK-42", "Delhivery")

	log, err := repo.FindLog(ctx, ord.ID)
	require.NoError(t, err)
	log.Append(ord.Status, ord.PaymentStatus)
	require.NoError(t, repo.SaveWithLog(ctx, ord, log))

	found, err := repo.FindByID(ctx, ord.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, found.Status)
	assert.Equal(t, "TRK-42", found.TrackingNumber)

	foundLog, err := repo.FindLog(ctx, ord.ID)
	require.NoError(t, err)
	require.Len(t, foundLog.StatusHistory, 2)
	assert.Equal(t, order.StatusShipped, foundLog.LatestStatus)
}

func TestProductRepositoryDecrementStock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	p := seedProduct(t, db, storeID, 5)

	err := repo.DecrementStock(ctx, []catalog.StockAdjustment{{ProductID: p.ID, Quantity: 3}})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.Stock)
}

func TestProductRepositoryDecrementStockInsufficient(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	p := seedProduct(t, db, storeID, 1)

	err := repo.DecrementStock(ctx, []catalog.StockAdjustment{{ProductID: p.ID, Quantity: 2}})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)

	// The counter is untouched
	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), found.Stock)
}

func TestProductRepositoryDecrementBatchRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	ok := seedProduct(t, db, storeID, 10)
	short := seedProduct(t, db, storeID, 1)

	err := repo.DecrementStock(ctx, []catalog.StockAdjustment{
		{ProductID: ok.ID, Quantity: 2},
		{ProductID: short.ID, Quantity: 5},
	})
	require.Error(t, err)

	// The first product's decrement must roll back with the failed batch
	found, err := repo.FindByID(ctx, ok.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), found.Stock)
}

func TestProductRepositoryDecrementSellEvenIfZero(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	p := seedProduct(t, db, storeID, 0)
	p.SellEvenIfZero = true
	require.NoError(t, repo.Save(ctx, p))

	err := repo.DecrementStock(ctx, []catalog.StockAdjustment{{ProductID: p.ID, Quantity: 2}})
	require.NoError(t, err)

	// Backorderable products go negative instead of failing
	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), found.Stock)
}

func TestProductRepositoryDecrementStockConcurrentOrders(t *testing.T) {
	db := setupTestDB(t)
	// SQLite in-memory databases are per-connection; pin the pool to one so
	// every goroutine hits the same database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := NewGormProductRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	p := seedProduct(t, db, storeID, 5)

	const buyers = 10
	results := make(chan error, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.DecrementStock(ctx, []catalog.StockAdjustment{{ProductID: p.ID, Quantity: 1}})
		}()
	}
	wg.Wait()
	close(results)

	var won, lost int
	for err := range results {
		if err == nil {
			won++
			continue
		}
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		lost++
	}
	assert.Equal(t, 5, won)
	assert.Equal(t, 5, lost)

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), found.Stock)
}

func TestProductRepositoryIncrementStock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	p := seedProduct(t, db, storeID, 3)

	err := repo.IncrementStock(ctx, []catalog.StockAdjustment{{ProductID: p.ID, Quantity: 2}})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), found.Stock)
}

func TestCartRepositoryFindActiveByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	storeID, userID := uuid.New(), uuid.New()
	p := seedProduct(t, db, storeID, 10)
	c := seedCart(t, db, storeID, userID, p, 2)

	found, err := repo.FindActiveByUser(ctx, storeID, userID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)
	require.Len(t, found.Items, 1)

	// Completed carts are invisible to the active lookup
	require.NoError(t, found.MarkCompleted())
	require.NoError(t, repo.Save(ctx, found))

	_, err = repo.FindActiveByUser(ctx, storeID, userID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPaymentRepositoryFindByGatewayPaymentID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	p, err := order.NewPayment(storeID, uuid.New(), "order_rzp_9", "pay_rzp_9",
		decimal.RequireFromString("499"), "INR")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByGatewayPaymentID(ctx, "pay_rzp_9")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)
	assert.Equal(t, order.PaymentPaid, found.Status)

	_, err = repo.FindByGatewayPaymentID(ctx, "pay_unknown")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPaymentRepositoryAppendLogKeepsFailures(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	orderID := uuid.New()
	require.NoError(t, repo.AppendLog(ctx, order.NewPaymentLog(orderID, "order_1", "pay_1",
		order.VerificationFailed, "signature mismatch")))
	require.NoError(t, repo.AppendLog(ctx, order.NewPaymentLog(orderID, "order_1", "pay_1",
		order.VerificationOK, "")))

	var logs []order.PaymentLog
	require.NoError(t, db.Where("order_id = ?", orderID).Order("created_at").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, order.VerificationFailed, logs[0].Outcome)
	assert.Equal(t, order.VerificationOK, logs[1].Outcome)
}

func TestSettingsRepositoryRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSettingsRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	s := &store.Settings{
		BaseEntity:     shared.NewBaseEntity(),
		StoreID:        storeID,
		StoreName:      "Chai Point",
		OwnerEmail:     "owner@chaipoint.test",
		RazorpayKeyID:  "rzp_test_key",
		RazorpaySecret: "rzp_test_secret",
	}
	require.NoError(t, repo.Save(ctx, s))

	found, err := repo.FindByStore(ctx, storeID)
	require.NoError(t, err)
	assert.Equal(t, "Chai Point", found.StoreName)
	assert.True(t, found.HasGatewayCredentials())
	assert.False(t, found.HasERPCredentials())

	_, err = repo.FindByStore(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCustomerRepositoryReads(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	cust, err := customer.NewCustomer("Asha", "asha@example.test")
	require.NoError(t, err)
	require.NoError(t, db.Create(cust).Error)

	addr := &customer.Address{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     cust.ID,
		Line1:      "12 MG Road",
		City:       "Bengaluru",
		State:      "KA",
		PostalCode: "560001",
		Country:    "India",
	}
	require.NoError(t, db.Create(addr).Error)

	foundCust, err := repo.FindByID(ctx, cust.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", foundCust.Name)

	foundAddr, err := repo.FindAddress(ctx, addr.ID)
	require.NoError(t, err)
	assert.Equal(t, "12 MG Road, Bengaluru, KA, 560001, India", foundAddr.Format())

	_, err = repo.FindAddress(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderNumberPrefixIncludesYear(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)

	number, err := repo.GenerateOrderNumber(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ORD-%d-00001", time.Now().Year()), number)
}

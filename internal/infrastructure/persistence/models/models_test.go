package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared/valueobject"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/trade"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "users", UserModel{}.TableName())
	assert.Equal(t, "products", ProductModel{}.TableName())
	assert.Equal(t, "orders", OrderModel{}.TableName())
	assert.Equal(t, "outbox_events", OutboxEntryModel{}.TableName())
}

func TestCartItems_Scan(t *testing.T) {
	t.Run("drops nothing on a valid object", func(t *testing.T) {
		var items CartItems
		require.NoError(t, items.Scan([]byte(`{"p1":{"M":2,"L":1}}`)))
		assert.Equal(t, 2, items["p1"]["M"])
		assert.Equal(t, 1, items["p1"]["L"])
	})

	t.Run("null column gives an empty cart", func(t *testing.T) {
		var items CartItems
		require.NoError(t, items.Scan(nil))
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("rejects non json types", func(t *testing.T) {
		var items CartItems
		assert.Error(t, items.Scan(42))
	})

	t.Run("nil value is stored as an empty object", func(t *testing.T) {
		v, err := CartItems(nil).Value()
		require.NoError(t, err)
		assert.Equal(t, "{}", v)
	})
}

func TestCartFromUserModel_NormalizesStoredItems(t *testing.T) {
	m := &UserModel{CartData: CartItems{"p1": {"M": 2, "S": 0}}, CartVersion: 4}
	m.ID = uuid.New()

	c := CartFromUserModel(m)

	assert.Equal(t, m.ID, c.UserID)
	assert.Equal(t, int64(4), c.Version)
	assert.Equal(t, 2, c.Count())
	_, hasS := c.Items["p1"]["S"]
	assert.False(t, hasS)
}

func TestOrderModel_CheckoutSessionMapping(t *testing.T) {
	addr := valueobject.Address{FirstName: "A", LastName: "B", Email: "a@b.co", Street: "1 Road",
		City: "Pune", State: "MH", Zipcode: "411001", Country: "IN", Phone: "999"}
	items := []trade.OrderItem{{ProductID: uuid.New(), Name: "Tee", Price: decimal.NewFromInt(20), Size: "M", Quantity: 1}}
	order, err := trade.NewOrder(uuid.New(), items, addr, decimal.NewFromInt(10), valueobject.INR, trade.PaymentMethodStripe)
	require.NoError(t, err)

	m := OrderModelFromDomain(order)
	assert.Nil(t, m.CheckoutSessionID, "empty session id must be stored as NULL to keep the unique index usable")

	require.NoError(t, order.AttachCheckoutSession("cs_test_1"))
	m = OrderModelFromDomain(order)
	require.NotNil(t, m.CheckoutSessionID)
	assert.Equal(t, "cs_test_1", *m.CheckoutSessionID)

	back := m.ToDomain()
	assert.Equal(t, "cs_test_1", back.CheckoutSessionID)
	assert.Equal(t, trade.OrderStatusAwaitingPayment, back.Status)
	assert.True(t, back.Amount.Equal(decimal.NewFromInt(30)))
}

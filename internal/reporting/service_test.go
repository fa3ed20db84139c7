package reporting

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"china-one/internal/domain"
)

func completedOrder(createdAt time.Time, total string) domain.Order {
	return domain.Order{
		Status:    domain.OrderStatusCompleted,
		Total:     domain.Money(total),
		CreatedAt: createdAt,
	}
}

func TestSummarize_Windows(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Mid-afternoon local time so the day boundaries are unambiguous.
	now := time.Date(2025, 6, 15, 15, 0, 0, 0, loc)

	orders := []domain.Order{
		completedOrder(time.Date(2025, 6, 15, 9, 0, 0, 0, loc), "20.00"),  // today
		completedOrder(time.Date(2025, 6, 15, 0, 0, 0, 0, loc), "5.00"),   // today, midnight boundary inclusive
		completedOrder(time.Date(2025, 6, 14, 23, 59, 0, 0, loc), "10.00"), // yesterday: week + month only
		completedOrder(time.Date(2025, 6, 9, 12, 0, 0, 0, loc), "15.00"),  // 6 days back, still in week
		completedOrder(time.Date(2025, 6, 8, 23, 0, 0, 0, loc), "30.00"),  // 7 days back, month only
		completedOrder(time.Date(2025, 5, 17, 12, 0, 0, 0, loc), "40.00"), // 29 days back, month edge
		completedOrder(time.Date(2025, 5, 16, 12, 0, 0, 0, loc), "99.00"), // 30 days back, outside all windows
	}

	s := summarize(orders, now, loc)

	assert.Equal(t, 2, s.Today.Orders)
	assert.Equal(t, "25.00", s.Today.Revenue.StringFixed(2))

	assert.Equal(t, 4, s.Week.Orders)
	assert.Equal(t, "50.00", s.Week.Revenue.StringFixed(2))

	assert.Equal(t, 6, s.Month.Orders)
	assert.Equal(t, "120.00", s.Month.Revenue.StringFixed(2))

	assert.Equal(t, 6, s.CompletedOrders)
	assert.Equal(t, "20.00", s.AvgOrderValue.StringFixed(2))
}

func TestSummarize_Empty(t *testing.T) {
	s := summarize(nil, time.Now(), time.UTC)

	assert.Equal(t, 0, s.CompletedOrders)
	assert.True(t, s.AvgOrderValue.IsZero())
	assert.Equal(t, 0, s.Today.Orders)
}

func TestWindowStart(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2025, 6, 15, 15, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, loc), windowStart(now, 0))
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, loc), windowStart(now, 6))
	assert.Equal(t, time.Date(2025, 5, 17, 0, 0, 0, 0, loc), windowStart(now, 29))
}

func TestRankItems_OrderingAndTieBreak(t *testing.T) {
	items := []domain.OrderItem{
		{Name: "Wonton Soup", Quantity: 2, FinalPrice: domain.Money("6.95")},
		{Name: "Wonton Soup", Quantity: 3, FinalPrice: domain.Money("6.95")},
		{Name: "Fried Rice", Quantity: 5, FinalPrice: domain.Money("9.25")},
		{Name: "Egg Roll", Quantity: 5, FinalPrice: domain.Money("2.25")},
	}

	stats := rankItems(items)
	require.Len(t, stats, 3)

	// Quantity descending; the 5-5 tie breaks alphabetically.
	assert.Equal(t, "Egg Roll", stats[0].Name)
	assert.Equal(t, "Fried Rice", stats[1].Name)
	assert.Equal(t, "Wonton Soup", stats[2].Name)

	assert.Equal(t, 5, stats[0].Quantity)
	assert.Equal(t, "11.25", stats[0].Revenue.StringFixed(2))
	assert.Equal(t, 5, stats[1].Quantity)
	assert.Equal(t, "46.25", stats[1].Revenue.StringFixed(2))
	assert.Equal(t, 5, stats[2].Quantity)
	assert.Equal(t, "34.75", stats[2].Revenue.StringFixed(2))
}

func TestRankItems_CapsAtTen(t *testing.T) {
	var items []domain.OrderItem
	for i := 0; i < 15; i++ {
		items = append(items, domain.OrderItem{
			Name:       fmt.Sprintf("Dish %02d", i),
			Quantity:   i + 1,
			FinalPrice: domain.Money("5.00"),
		})
	}

	stats := rankItems(items)
	require.Len(t, stats, 10)
	assert.Equal(t, "Dish 14", stats[0].Name)
	assert.Equal(t, 15, stats[0].Quantity)
	assert.Equal(t, "Dish 05", stats[9].Name)
}

func TestAggregateCustomers_VIPAndSpend(t *testing.T) {
	customers := []domain.Customer{
		{ID: "c1", FirstName: "Wei", LastName: "Chen", Email: "wei@example.com"},
		{ID: "c2", FirstName: "Ana", LastName: "Lopez", Email: "ana@example.com"},
		{ID: "c3", FirstName: "Sam", LastName: "Ng", Email: "sam@example.com"},
	}

	var orders []domain.Order
	// c1: six completed orders, crosses the VIP line.
	for i := 0; i < 6; i++ {
		orders = append(orders, domain.Order{CustomerID: "c1", Status: domain.OrderStatusCompleted, Total: domain.Money("10.00")})
	}
	// c2: five completed plus one cancelled, stays under.
	for i := 0; i < 5; i++ {
		orders = append(orders, domain.Order{CustomerID: "c2", Status: domain.OrderStatusCompleted, Total: domain.Money("12.00")})
	}
	orders = append(orders, domain.Order{CustomerID: "c2", Status: domain.OrderStatusCancelled, Total: domain.Money("8.00")})
	// Unknown customer is ignored.
	orders = append(orders, domain.Order{CustomerID: "ghost", Status: domain.OrderStatusCompleted, Total: domain.Money("99.00")})

	stats := aggregateCustomers(customers, orders)
	require.Len(t, stats, 3)

	byID := make(map[string]CustomerStat)
	for _, s := range stats {
		byID[s.CustomerID] = s
	}

	c1 := byID["c1"]
	assert.True(t, c1.VIP)
	assert.Equal(t, 6, c1.Orders)
	assert.Equal(t, 6, c1.CompletedOrders)
	assert.Equal(t, "60.00", c1.LifetimeSpend.StringFixed(2))
	assert.Equal(t, "Wei Chen", c1.Name)

	c2 := byID["c2"]
	assert.False(t, c2.VIP)
	assert.Equal(t, 6, c2.Orders)
	assert.Equal(t, 5, c2.CompletedOrders)
	assert.Equal(t, "68.00", c2.LifetimeSpend.StringFixed(2))

	c3 := byID["c3"]
	assert.False(t, c3.VIP)
	assert.Equal(t, 0, c3.Orders)
	assert.Equal(t, "0.00", c3.LifetimeSpend.StringFixed(2))
}

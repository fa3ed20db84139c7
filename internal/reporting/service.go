package reporting

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"china-one/internal/domain"
)

type OrderReader interface {
	List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	ListCompletedSince(ctx context.Context, since time.Time) ([]domain.Order, error)
}

type OrderItemReader interface {
	ListForCompletedOrders(ctx context.Context) ([]domain.OrderItem, error)
}

type CustomerReader interface {
	List(ctx context.Context) ([]domain.Customer, error)
}

// Service is the read-only analytics view over completed orders. Nothing
// here mutates state.
type Service struct {
	orders    OrderReader
	items     OrderItemReader
	customers CustomerReader
	location  *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(orders OrderReader, items OrderItemReader, customers CustomerReader, location *time.Location, logger *zap.Logger) *Service {
	return &Service{
		orders:    orders,
		items:     items,
		customers: customers,
		location:  location,
		logger:    logger,
		now:       time.Now,
	}
}

type WindowStats struct {
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

type Summary struct {
	Today           WindowStats     `json:"today"`
	Week            WindowStats     `json:"week"`
	Month           WindowStats     `json:"month"`
	CompletedOrders int             `json:"completedOrders"`
	AvgOrderValue   decimal.Decimal `json:"avgOrderValue"`
}

// Summary aggregates revenue over calendar-day windows in the restaurant's
// time zone: today, the last 7 days and the last 30 days.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	now := s.now().In(s.location)
	monthStart := windowStart(now, 29)

	orders, err := s.orders.ListCompletedSince(ctx, monthStart.UTC())
	if err != nil {
		return nil, err
	}

	return summarize(orders, now, s.location), nil
}

// summarize buckets completed orders into the three windows. Pure, so the
// boundary arithmetic is testable without a store.
func summarize(orders []domain.Order, now time.Time, loc *time.Location) *Summary {
	todayStart := windowStart(now, 0)
	weekStart := windowStart(now, 6)
	monthStart := windowStart(now, 29)

	var out Summary
	total := decimal.Zero
	for _, o := range orders {
		created := o.CreatedAt.In(loc)
		if created.Before(monthStart) {
			continue
		}

		out.Month.Revenue = out.Month.Revenue.Add(o.Total)
		out.Month.Orders++
		if !created.Before(weekStart) {
			out.Week.Revenue = out.Week.Revenue.Add(o.Total)
			out.Week.Orders++
		}
		if !created.Before(todayStart) {
			out.Today.Revenue = out.Today.Revenue.Add(o.Total)
			out.Today.Orders++
		}

		total = total.Add(o.Total)
		out.CompletedOrders++
	}

	out.AvgOrderValue = decimal.Zero
	if out.CompletedOrders > 0 {
		out.AvgOrderValue = domain.RoundMoney(total.Div(decimal.NewFromInt(int64(out.CompletedOrders))))
	}
	return &out
}

// windowStart is midnight, daysBack calendar days before now, in now's
// location.
func windowStart(now time.Time, daysBack int) time.Time {
	day := now.AddDate(0, 0, -daysBack)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
}

type ItemStat struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

const topItemsLimit = 10

// TopItems groups completed-order line items by name and returns the ten
// best sellers by quantity, ties broken alphabetically.
func (s *Service) TopItems(ctx context.Context) ([]ItemStat, error) {
	items, err := s.items.ListForCompletedOrders(ctx)
	if err != nil {
		return nil, err
	}
	return rankItems(items), nil
}

func rankItems(items []domain.OrderItem) []ItemStat {
	byName := make(map[string]*ItemStat)
	for _, item := range items {
		stat, ok := byName[item.Name]
		if !ok {
			stat = &ItemStat{Name: item.Name, Revenue: decimal.Zero}
			byName[item.Name] = stat
		}
		stat.Quantity += item.Quantity
		stat.Revenue = stat.Revenue.Add(item.FinalPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	stats := make([]ItemStat, 0, len(byName))
	for _, stat := range byName {
		stats = append(stats, *stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Quantity != stats[j].Quantity {
			return stats[i].Quantity > stats[j].Quantity
		}
		return stats[i].Name < stats[j].Name
	})

	if len(stats) > topItemsLimit {
		stats = stats[:topItemsLimit]
	}
	return stats
}

type CustomerStat struct {
	CustomerID      string          `json:"customerId"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Orders          int             `json:"orders"`
	CompletedOrders int             `json:"completedOrders"`
	LifetimeSpend   decimal.Decimal `json:"lifetimeSpend"`
	VIP             bool            `json:"vip"`
}

// CustomerStats returns per-customer order counts and lifetime spend. VIP
// is display classification only.
func (s *Service) CustomerStats(ctx context.Context) ([]CustomerStat, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.List(ctx, "")
	if err != nil {
		return nil, err
	}

	return aggregateCustomers(customers, orders), nil
}

func aggregateCustomers(customers []domain.Customer, orders []domain.Order) []CustomerStat {
	stats := make([]CustomerStat, len(customers))
	index := make(map[string]*CustomerStat, len(customers))
	for i, c := range customers {
		stats[i] = CustomerStat{
			CustomerID:    c.ID,
			Name:          c.FirstName + " " + c.LastName,
			Email:         c.Email,
			LifetimeSpend: decimal.Zero,
		}
		index[c.ID] = &stats[i]
	}

	for _, o := range orders {
		stat, ok := index[o.CustomerID]
		if !ok {
			continue
		}
		stat.Orders++
		stat.LifetimeSpend = stat.LifetimeSpend.Add(o.Total)
		if o.Status == domain.OrderStatusCompleted {
			stat.CompletedOrders++
		}
	}

	for i := range stats {
		stats[i].VIP = stats[i].CompletedOrders > domain.VIPThreshold
	}
	return stats
}

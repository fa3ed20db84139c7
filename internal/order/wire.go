package order

import (
	"database/sql"

	"go.uber.org/zap"

	"china-one/internal/account"
	"china-one/internal/feed"
	"china-one/internal/order/controller"
	"china-one/internal/order/repository"
	"china-one/internal/order/service"
)

type Module struct {
	Orders     *repository.MySQLOrderRepository
	OrderItems *repository.MySQLOrderItemRepository
	Status     *service.StatusService
	Controller *controller.OrderController
}

func NewModule(db *sql.DB, sessions *account.Service, publisher *feed.Publisher, hub *feed.Hub, logger *zap.Logger) *Module {
	orderRepo := repository.NewMySQLOrderRepository(db)
	itemRepo := repository.NewMySQLOrderItemRepository(db)
	status := service.NewStatusService(orderRepo, itemRepo, publisher, logger)

	return &Module{
		Orders:     orderRepo,
		OrderItems: itemRepo,
		Status:     status,
		Controller: controller.NewOrderController(status, sessions, hub, logger),
	}
}

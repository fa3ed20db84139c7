package catalog

import (
	"database/sql"

	"go.uber.org/zap"

	"china-one/internal/catalog/controller"
	"china-one/internal/catalog/repository"
	"china-one/internal/catalog/service"
	"china-one/internal/feed"
)

type Module struct {
	Service    *service.CatalogService
	Controller *controller.MenuController
}

func NewModule(db *sql.DB, publisher *feed.Publisher, logger *zap.Logger) *Module {
	repo := repository.NewMySQLMenuRepository(db)
	svc := service.NewCatalogService(repo, publisher, logger)

	return &Module{
		Service:    svc,
		Controller: controller.NewMenuController(svc, logger),
	}
}

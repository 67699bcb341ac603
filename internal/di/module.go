package di

import (
	"github.com/celebration-station/loyalty/internal/adapter/venues"
	"github.com/celebration-station/loyalty/internal/app"
	"github.com/celebration-station/loyalty/internal/config"
	"github.com/celebration-station/loyalty/internal/logger"
	"github.com/celebration-station/loyalty/internal/pkg/auth"
	"github.com/celebration-station/loyalty/internal/server/http/handlers"
	"github.com/celebration-station/loyalty/internal/server/http/router"
	"github.com/celebration-station/loyalty/internal/storage/postgres"
	"github.com/celebration-station/loyalty/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		venues.Module,
		usecase.Module,
		fx.Provide(func(client venues.Client) usecase.VenueCatalog { return client }),
		fx.Provide(func(facade *app.LoyaltyFacade) handlers.LoyaltyFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

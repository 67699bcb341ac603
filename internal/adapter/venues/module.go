package venues

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/celebration-station/loyalty/internal/config"
)

// Module exposes venue catalog client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.VenueCatalogAddress, p.Logger)
}

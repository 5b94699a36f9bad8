package api

import (
	"go.uber.org/zap"

	"guest-engage/internal/config"
	"guest-engage/internal/guestmetrics"
	"guest-engage/internal/manager"
	"guest-engage/internal/messaging"
	"guest-engage/internal/storage"
	"guest-engage/internal/tenancy"
)

type API struct {
	Manager    *manager.EngagementManager
	Storage    *storage.Storage
	Rabbit     *messaging.RabbitClient
	Aggregator *guestmetrics.Aggregator
	Tenancy    *tenancy.Middleware
	Cfg        *config.Config
	Log        *zap.Logger
}

func NewAPI(
	mgr *manager.EngagementManager,
	db *storage.Storage,
	rabbit *messaging.RabbitClient,
	agg *guestmetrics.Aggregator,
	mw *tenancy.Middleware,
	cfg *config.Config,
	log *zap.Logger,
) *API {
	return &API{
		Manager:    mgr,
		Storage:    db,
		Rabbit:     rabbit,
		Aggregator: agg,
		Tenancy:    mw,
		Cfg:        cfg,
		Log:        log,
	}
}

package components

import (
	"ops-console/internal/infra/readstore"
	"ops-console/internal/infra/uow"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		uow.NewPostgresUoW,
		readstore.NewScheduleReadStore,
		readstore.NewExportReadStore,
	),
)

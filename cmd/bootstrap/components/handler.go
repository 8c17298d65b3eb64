package components

import (
	"sharebook/internal/handler"
	"sharebook/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookHandler,
	),
	fx.Invoke(handler.NewRouter),
)

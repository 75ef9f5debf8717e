package apitoken

import (
	"github.com/smallbiznis/catalog/internal/apitoken/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("apitoken",
	fx.Provide(repository.Provide),
)

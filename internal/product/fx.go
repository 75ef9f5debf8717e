package product

import (
	"github.com/smallbiznis/catalog/internal/product/repository"
	"github.com/smallbiznis/catalog/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)

package category

import (
	"github.com/smallbiznis/catalog/internal/category/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("category",
	fx.Provide(repository.Provide),
)

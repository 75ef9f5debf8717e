package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/catalog/internal/export"
	productdomain "github.com/smallbiznis/catalog/internal/product/domain"
)

type createProductRequest struct {
	Name        string   `json:"name"`
	CategoryID  *int64   `json:"category_id"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Enabled     *bool    `json:"enabled"`
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	CategoryID  *int64   `json:"category_id"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Enabled     *bool    `json:"enabled"`
}

type bulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		CategoryID string `form:"category_id"`
		Category   string `form:"category"`
		Enabled    string `form:"enabled"`
		Page       string `form:"page"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	categoryID, err := parseOptionalInt64(query.CategoryID)
	if err != nil {
		AbortWithError(c, newValidationError("category_id", "invalid_category_id", "invalid category id"))
		return
	}
	enabled, err := parseOptionalBool(query.Enabled)
	if err != nil {
		AbortWithError(c, newValidationError("enabled", "invalid_enabled", "invalid enabled"))
		return
	}
	page, err := parseOptionalInt(query.Page)
	if err != nil {
		AbortWithError(c, newValidationError("page", "invalid_page", "invalid page"))
		return
	}
	resp, err := s.productSvc.List(c.Request.Context(), productdomain.ListRequest{
		Filter: productdomain.Filter{
			CategoryID:   categoryID,
			CategoryName: strings.TrimSpace(query.Category),
			Enabled:      enabled,
		},
		Page: page,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), productdomain.CreateRequest{
		Name:        strings.TrimSpace(req.Name),
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Enabled:     req.Enabled,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordProductCreated()
	}
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetProductByID(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, productdomain.ErrNotFound)
		return
	}

	resp, err := s.productSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateProduct(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, productdomain.ErrNotFound)
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.Update(c.Request.Context(), productdomain.UpdateRequest{
		ID:          id,
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Enabled:     req.Enabled,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteProduct(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, productdomain.ErrNotFound)
		return
	}

	if err := s.productSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordProductsDeleted(1)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully."})
}

// BulkDeleteProducts removes several products at once. Every id must exist;
// otherwise nothing is deleted and the request fails.
func (s *Server) BulkDeleteProducts(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	deleted, err := s.productSvc.BulkDelete(c.Request.Context(), req.IDs, true)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordProductsDeleted(int(deleted))
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": deleted}})
}

func (s *Server) ExportProducts(c *gin.Context) {
	rows, err := s.productSvc.ExportRows(c.Request.Context(), productdomain.Filter{})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.writeExport(c, rows)
}

func (s *Server) writeExport(c *gin.Context, rows []productdomain.Product) {
	fileName := s.settings.Get().ExportFileName

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Status(http.StatusOK)

	if err := export.WriteProductsXLSX(c.Writer, rows); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordExport()
	}
}

func isProductValidationError(err error) bool {
	switch err {
	case productdomain.ErrInvalidID,
		productdomain.ErrInvalidName,
		productdomain.ErrInvalidCategory,
		productdomain.ErrInvalidPrice,
		productdomain.ErrInvalidStock,
		productdomain.ErrEmptyIDs,
		productdomain.ErrUnknownIDs:
		return true
	default:
		return false
	}
}

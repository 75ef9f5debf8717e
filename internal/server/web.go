package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	categorydomain "github.com/smallbiznis/catalog/internal/category/domain"
	"github.com/smallbiznis/catalog/internal/observability/logger"
	productdomain "github.com/smallbiznis/catalog/internal/product/domain"
	"go.uber.org/zap"
)

const flashCookie = "flash"

type flashMessage struct {
	Kind    string
	Message string
}

// MethodOverride lets HTML forms issue PUT and DELETE through a hidden
// _method field. It must wrap the router because gin matches routes on the
// incoming method before middleware runs.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			switch strings.ToUpper(r.PostFormValue("_method")) {
			case http.MethodPut:
				r.Method = http.MethodPut
			case http.MethodDelete:
				r.Method = http.MethodDelete
			}
		}
		next.ServeHTTP(w, r)
	})
}

// setFlash stores a one-shot notice; gin escapes the cookie value itself.
func setFlash(c *gin.Context, kind, message string) {
	c.SetCookie(flashCookie, kind+":"+message, 60, "/", "", false, true)
}

func takeFlash(c *gin.Context) *flashMessage {
	raw, err := c.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	kind, message, ok := strings.Cut(raw, ":")
	if !ok {
		return nil
	}
	return &flashMessage{Kind: kind, Message: message}
}

type productForm struct {
	Name        string `form:"name"`
	CategoryID  string `form:"category_id"`
	Description string `form:"description"`
	Price       string `form:"price"`
	Stock       string `form:"stock"`
	Enabled     string `form:"enabled"`
}

type productFormView struct {
	Name        string
	CategoryID  string
	Description string
	Price       string
	Stock       string
	Enabled     bool
}

func (f productForm) view() productFormView {
	return productFormView{
		Name:        f.Name,
		CategoryID:  f.CategoryID,
		Description: f.Description,
		Price:       f.Price,
		Stock:       f.Stock,
		Enabled:     f.Enabled != "",
	}
}

// createRequest converts submitted form values. Unparsable numbers become
// nil pointers so the service reports them as missing fields.
func (f productForm) createRequest() productdomain.CreateRequest {
	req := productdomain.CreateRequest{
		Name: strings.TrimSpace(f.Name),
	}
	if v, err := strconv.ParseInt(strings.TrimSpace(f.CategoryID), 10, 64); err == nil {
		req.CategoryID = &v
	}
	if d := strings.TrimSpace(f.Description); d != "" {
		req.Description = &d
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(f.Price), 64); err == nil {
		req.Price = &v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(f.Stock)); err == nil {
		req.Stock = &v
	}
	enabled := f.Enabled != ""
	req.Enabled = &enabled
	return req
}

func (f productForm) updateRequest(id int64) productdomain.UpdateRequest {
	create := f.createRequest()
	name := create.Name
	stock := create.Stock
	if stock == nil {
		zero := -1
		stock = &zero
	}
	price := create.Price
	if price == nil {
		neg := -1.0
		price = &neg
	}
	return productdomain.UpdateRequest{
		ID:          id,
		Name:        &name,
		CategoryID:  create.CategoryID,
		Description: orEmpty(create.Description),
		Price:       price,
		Stock:       stock,
		Enabled:     create.Enabled,
	}
}

// orEmpty keeps full-form semantics: an empty textarea clears the value
// instead of leaving it unchanged.
func orEmpty(s *string) *string {
	if s == nil {
		empty := ""
		return &empty
	}
	return s
}

func webFieldErrors(err error) map[string]string {
	if vErr := asValidationErrors(err); vErr != nil {
		out := make(map[string]string, len(vErr.Errors))
		for _, e := range vErr.Errors {
			out[e.Field] = e.Message
		}
		return out
	}

	switch err {
	case productdomain.ErrInvalidName:
		return map[string]string{"name": "The name field is required."}
	case productdomain.ErrInvalidCategory:
		return map[string]string{"category_id": "Select a valid category."}
	case productdomain.ErrInvalidPrice:
		return map[string]string{"price": "Enter a price of zero or more."}
	case productdomain.ErrInvalidStock:
		return map[string]string{"stock": "Enter a stock count of zero or more."}
	default:
		return nil
	}
}

type indexQuery struct {
	CategoryID string `form:"category_id"`
	Enabled    string `form:"enabled"`
	Page       string `form:"page"`
	PerPage    string `form:"per_page"`
}

// filter ignores unparsable values so a hand-edited query string never
// breaks the page.
func (q indexQuery) filter() productdomain.Filter {
	var f productdomain.Filter
	if v, err := parseOptionalInt64(q.CategoryID); err == nil {
		f.CategoryID = v
	}
	if v, err := parseOptionalBool(q.Enabled); err == nil {
		f.Enabled = v
	}
	return f
}

func (q indexQuery) encode() string {
	values := url.Values{}
	if strings.TrimSpace(q.CategoryID) != "" {
		values.Set("category_id", strings.TrimSpace(q.CategoryID))
	}
	if strings.TrimSpace(q.Enabled) != "" {
		values.Set("enabled", strings.TrimSpace(q.Enabled))
	}
	if strings.TrimSpace(q.PerPage) != "" {
		values.Set("per_page", strings.TrimSpace(q.PerPage))
	}
	return values.Encode()
}

func (s *Server) WebProductsIndex(c *gin.Context) {
	var query indexQuery
	_ = c.ShouldBindQuery(&query)

	page, _ := parseOptionalInt(query.Page)
	perPage, _ := parseOptionalInt(query.PerPage)

	resp, err := s.productSvc.List(c.Request.Context(), productdomain.ListRequest{
		Filter:   query.filter(),
		Page:     page,
		PageSize: perPage,
	})
	if err != nil {
		s.webFail(c, err)
		return
	}

	categories, err := s.listCategories(c)
	if err != nil {
		s.webFail(c, err)
		return
	}

	encoded := query.encode()
	filterQuery := ""
	filterSuffix := ""
	if encoded != "" {
		filterQuery = "?" + encoded
		filterSuffix = "&" + encoded
	}

	c.HTML(http.StatusOK, "products_index", gin.H{
		"Title":        "Products",
		"Flash":        takeFlash(c),
		"Products":     resp.Data,
		"Meta":         resp.Meta,
		"Categories":   categories,
		"Query":        query,
		"FilterQuery":  filterQuery,
		"FilterSuffix": filterSuffix,
		"PrevPage":     resp.Meta.CurrentPage - 1,
		"NextPage":     resp.Meta.CurrentPage + 1,
	})
}

func (s *Server) WebProductCreateForm(c *gin.Context) {
	s.renderCreateForm(c, productForm{Enabled: "true"}, nil)
}

func (s *Server) WebProductStore(c *gin.Context) {
	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		s.renderCreateForm(c, form, map[string]string{"name": "Invalid form submission."})
		return
	}

	_, err := s.productSvc.Create(c.Request.Context(), form.createRequest())
	if err != nil {
		if fields := webFieldErrors(err); fields != nil {
			s.renderCreateForm(c, form, fields)
			return
		}
		s.webFail(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordProductCreated()
	}
	setFlash(c, "success", "Product created successfully.")
	c.Redirect(http.StatusSeeOther, "/products")
}

func (s *Server) WebProductEditForm(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		s.webNotFound(c)
		return
	}

	product, err := s.productSvc.Get(c.Request.Context(), id)
	if err != nil {
		if err == productdomain.ErrNotFound {
			s.webNotFound(c)
			return
		}
		s.webFail(c, err)
		return
	}

	form := productForm{
		Name:       product.Name,
		CategoryID: strconv.FormatInt(product.Category.ID, 10),
		Price:      strconv.FormatFloat(product.Price, 'f', 2, 64),
		Stock:      strconv.Itoa(product.Stock),
	}
	if product.Description != nil {
		form.Description = *product.Description
	}
	if product.Enabled {
		form.Enabled = "true"
	}
	s.renderEditForm(c, id, form, nil)
}

func (s *Server) WebProductUpdate(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		s.webNotFound(c)
		return
	}

	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		s.renderEditForm(c, id, form, map[string]string{"name": "Invalid form submission."})
		return
	}

	_, err = s.productSvc.Update(c.Request.Context(), form.updateRequest(id))
	if err != nil {
		if err == productdomain.ErrNotFound {
			s.webNotFound(c)
			return
		}
		if fields := webFieldErrors(err); fields != nil {
			s.renderEditForm(c, id, form, fields)
			return
		}
		s.webFail(c, err)
		return
	}

	setFlash(c, "success", "Product updated successfully.")
	c.Redirect(http.StatusSeeOther, "/products")
}

func (s *Server) WebProductDestroy(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		s.webNotFound(c)
		return
	}

	if err := s.productSvc.Delete(c.Request.Context(), id); err != nil {
		if err == productdomain.ErrNotFound {
			s.webNotFound(c)
			return
		}
		s.webFail(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordProductsDeleted(1)
	}
	setFlash(c, "success", "Product deleted successfully.")
	c.Redirect(http.StatusSeeOther, "/products")
}

// WebProductsBulkDestroy deletes the checked rows. Ids that no longer exist
// are skipped rather than failing the whole request.
func (s *Server) WebProductsBulkDestroy(c *gin.Context) {
	raw := c.PostFormArray("ids[]")
	if len(raw) == 0 {
		raw = c.PostFormArray("ids")
	}

	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, parsed)
	}

	deleted, err := s.productSvc.BulkDelete(c.Request.Context(), ids, false)
	if err != nil {
		if err == productdomain.ErrEmptyIDs {
			setFlash(c, "error", "No products selected.")
			c.Redirect(http.StatusSeeOther, "/products")
			return
		}
		s.webFail(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordProductsDeleted(int(deleted))
	}
	setFlash(c, "success", fmt.Sprintf("Deleted %d products.", deleted))
	c.Redirect(http.StatusSeeOther, "/products")
}

func (s *Server) WebProductsExport(c *gin.Context) {
	var query indexQuery
	_ = c.ShouldBindQuery(&query)

	rows, err := s.productSvc.ExportRows(c.Request.Context(), query.filter())
	if err != nil {
		s.webFail(c, err)
		return
	}

	s.writeExport(c, rows)
}

func (s *Server) renderCreateForm(c *gin.Context, form productForm, fieldErrors map[string]string) {
	categories, err := s.listCategories(c)
	if err != nil {
		s.webFail(c, err)
		return
	}

	status := http.StatusOK
	if len(fieldErrors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	c.HTML(status, "products_create", gin.H{
		"Title":      "New product",
		"Flash":      takeFlash(c),
		"Categories": categories,
		"Form":       form.view(),
		"Errors":     fieldErrors,
	})
}

func (s *Server) renderEditForm(c *gin.Context, id int64, form productForm, fieldErrors map[string]string) {
	categories, err := s.listCategories(c)
	if err != nil {
		s.webFail(c, err)
		return
	}

	status := http.StatusOK
	if len(fieldErrors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	c.HTML(status, "products_edit", gin.H{
		"Title":      "Edit product",
		"Flash":      takeFlash(c),
		"Categories": categories,
		"Form":       form.view(),
		"Errors":     fieldErrors,
		"ProductID":  id,
	})
}

func (s *Server) listCategories(c *gin.Context) ([]categorydomain.Category, error) {
	return s.categories.ListAll(c.Request.Context())
}

func (s *Server) webNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found", gin.H{
		"Title": "Not found",
	})
}

func (s *Server) webFail(c *gin.Context, err error) {
	logger.FromContext(c.Request.Context()).Error("web request failed", zap.Error(err))
	setFlash(c, "error", "Something went wrong. Please try again.")
	c.Redirect(http.StatusSeeOther, "/products")
}

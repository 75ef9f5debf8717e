package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	productdomain "github.com/smallbiznis/catalog/internal/product/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webForm(t *testing.T, app *testApp, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)
	return rec
}

func flashFrom(rec *httptest.ResponseRecorder) string {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == flashCookie && cookie.MaxAge >= 0 {
			decoded, _ := url.QueryUnescape(cookie.Value)
			return decoded
		}
	}
	return ""
}

func TestWebRootRedirectsToProducts(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/products", rec.Header().Get("Location"))
}

func TestWebIndexRendersProducts(t *testing.T) {
	app := setupTestApp(t)
	app.seedCategory(t, 1, "Electronics")
	app.seedProduct(t, 101, 1, "Wireless Headphones", true, time.Now().UTC())

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Wireless Headphones")
	assert.Contains(t, body, "Electronics")
	assert.Contains(t, body, "Page 1 of 1")
}

func TestWebIndexIgnoresMalformedFilters(t *testing.T) {
	app := setupTestApp(t)
	app.seedCategory(t, 1, "Electronics")
	app.seedProduct(t, 101, 1, "Phone", true, time.Now().UTC())

	req := httptest.NewRequest(http.MethodGet, "/products?category_id=banana&enabled=maybe", nil)
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Phone")
}

func TestWebIndexHonorsPerPage(t *testing.T) {
	app := setupTestApp(t)
	app.seedCategory(t, 1, "Electronics")
	base := time.Now().UTC()
	for i := int64(0); i < 5; i++ {
		app.seedProduct(t, 101+i, 1, "Item", true, base.Add(time.Duration(i)*time.Second))
	}

	req := httptest.NewRequest(http.MethodGet, "/products?per_page=2&page=2", nil)
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page 2 of 3")
}

func TestWebCreateProduct(t *testing.T) {
	app := setupTestApp(t)
	app.seedCategory(t, 1, "Electronics")

	rec := webForm(t, app, "/products", url.Values{
		"name":        {"Phone"},
		"category_id": {"1"},
		"description": {"A phone"},
		"price":       {"129.99"},
		"stock":       {"42"},
		"enabled":     {"true"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/products", rec.Header().Get("Location"))
	assert.Contains(t, flashFrom(rec), "Product created successfully.")

	var count int64
	require.NoError(t, app.db.Table("products").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestWebCreateValidationRendersErrors(t *testing.T) {
	app := setupTestApp(t)
	app.seedCategory(t, 1, "Electronics")

	rec := webForm(t, app, "/products", url.Values{
		"name":        {""},
		"category_id": {"1"},
		"price":       {"9.99"},
		"stock":       {"1"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "The name field is required.")

	var count int64
	require.NoError(t, app.db.Table("products").Count(&count).Error)
	assert.Zero(t, count)
}

func TestWebUpdateViaMethodOverride(t *testing.T) {
	app := setupTestApp(t)
	app.seedCategory(t, 1, "Electronics")
	app.seedProduct(t, 101, 1, "Phone", true, time.Now().UTC())

	rec := webForm(t, app, "/products/101", url.Values{
		"_method":     {"PUT"},
		"name":        {"Phone Pro"},
		"category_id": {"1"},
		"price":       {"199.00"},
		"stock":       {"7"},
		"enabled":     {"true"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, flashFrom(rec), "Product updated successfully.")

	var p productdomain.Product
	require.NoError(t, app.db.First(&p, "id = ?", 101).Error)
	assert.Equal(t, "Phone Pro", p.Name)
	assert.Equal(t, 199.0, p.Price)
	assert.Equal(t, 7, p.Stock)
}

func TestWebUncheckedEnabledDisablesProduct(t *testing.T) {
	app := setupTestApp(t)
	app.seedCategory(t, 1, "Electronics")
	app.seedProduct(t, 101, 1, "Phone", true, time.Now().UTC())

	rec := webForm(t, app, "/products/101", url.Values{
		"_method":     {"PUT"},
		"name":        {"Phone"},
		"category_id": {"1"},
		"price":       {"10.00"},
		"stock":       {"5"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	var p productdomain.Product
	require.NoError(t, app.db.First(&p, "id = ?", 101).Error)
	assert.False(t, p.Enabled)
}

func TestWebDeleteViaMethodOverride(t *testing.T) {
	app := setupTestApp(t)
	app.seedCategory(t, 1, "Electronics")
	app.seedProduct(t, 101, 1, "Phone", true, time.Now().UTC())

	rec := webForm(t, app, "/products/101", url.Values{
		"_method": {"DELETE"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, flashFrom(rec), "Product deleted successfully.")

	var count int64
	require.NoError(t, app.db.Table("products").Where("deleted_at IS NULL").Count(&count).Error)
	assert.Zero(t, count)
}

func TestWebBulkDeleteIsLenient(t *testing.T) {
	app := setupTestApp(t)
	app.seedCategory(t, 1, "Electronics")
	now := time.Now().UTC()
	app.seedProduct(t, 101, 1, "A", true, now)
	app.seedProduct(t, 102, 1, "B", true, now)

	// Unknown and malformed ids are skipped, the rest are deleted.
	rec := webForm(t, app, "/products/bulk-delete", url.Values{
		"ids[]": {"101", "102", "424242", "banana"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, flashFrom(rec), "Deleted 2 products.")

	var count int64
	require.NoError(t, app.db.Table("products").Where("deleted_at IS NULL").Count(&count).Error)
	assert.Zero(t, count)
}

func TestWebBulkDeleteWithNoSelection(t *testing.T) {
	app := setupTestApp(t)

	rec := webForm(t, app, "/products/bulk-delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, flashFrom(rec), "No products selected.")
}

func TestWebEditFormShowsProduct(t *testing.T) {
	app := setupTestApp(t)
	app.seedCategory(t, 1, "Electronics")
	app.seedProduct(t, 101, 1, "Phone", true, time.Now().UTC())

	req := httptest.NewRequest(http.MethodGet, "/products/101/edit", nil)
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Phone")
	assert.Contains(t, body, "Edit product")
}

func TestWebEditFormMissingProductRenders404(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/products/999/edit", nil)
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")
}

func TestWebExportHonorsFilters(t *testing.T) {
	app := setupTestApp(t)
	app.seedCategory(t, 1, "Electronics")
	app.seedCategory(t, 2, "Books")
	now := time.Now().UTC()
	app.seedProduct(t, 101, 1, "Phone", true, now)
	app.seedProduct(t, 102, 2, "Novel", false, now)

	req := httptest.NewRequest(http.MethodGet, "/products/export?category_id=1&enabled=true", nil)
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())
}

func TestWebFlashIsShownOnce(t *testing.T) {
	app := setupTestApp(t)
	app.seedCategory(t, 1, "Electronics")

	// Trigger a flash by creating a product.
	rec := webForm(t, app, "/products", url.Values{
		"name":        {"Phone"},
		"category_id": {"1"},
		"price":       {"1.00"},
		"stock":       {"1"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	var flashCookieValue string
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == flashCookie {
			flashCookieValue = cookie.Value
		}
	}
	require.NotEmpty(t, flashCookieValue)

	// First index view renders the message and clears the cookie.
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.AddCookie(&http.Cookie{Name: flashCookie, Value: flashCookieValue})
	view := httptest.NewRecorder()
	app.handler.ServeHTTP(view, req)
	require.Equal(t, http.StatusOK, view.Code)
	assert.Contains(t, view.Body.String(), "Product created successfully.")

	cleared := false
	for _, cookie := range view.Result().Cookies() {
		if cookie.Name == flashCookie && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

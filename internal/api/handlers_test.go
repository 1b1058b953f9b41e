package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/example/fashion-catalog/internal/api/middleware"
	"github.com/example/fashion-catalog/internal/auth"
	"github.com/example/fashion-catalog/internal/catalog"
	"github.com/example/fashion-catalog/internal/command"
	"github.com/example/fashion-catalog/internal/domain/brand"
	"github.com/example/fashion-catalog/internal/domain/category"
	"github.com/example/fashion-catalog/internal/domain/product"
	"github.com/example/fashion-catalog/internal/domain/settings"
	"github.com/example/fashion-catalog/internal/infrastructure/store"
	"github.com/example/fashion-catalog/internal/projection"
	"github.com/example/fashion-catalog/internal/query"
	"github.com/example/fashion-catalog/internal/readmodel"
	"github.com/example/fashion-catalog/internal/seed"
	"github.com/example/fashion-catalog/internal/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdminEmail    = "admin@grandefamilia.com"
	testAdminPassword = "admin123"
)

// bcrypt is slow on purpose, hash the test password once
var testAdmin = sync.OnceValue(func() *auth.Admin {
	admin, err := auth.NewAdmin(testAdminEmail, testAdminPassword, "")
	if err != nil {
		panic(err)
	}
	return admin
})

type testServer struct {
	handler http.Handler
	jwt     *auth.JWTService
	token   string
}

func newTestServer(t *testing.T, seeded bool) *testServer {
	t.Helper()

	readStore := store.NewReadStore()
	eventStore := store.NewEventStore(projection.NewProjector(readStore))
	commands := command.NewHandler(
		product.NewService(eventStore),
		category.NewService(eventStore),
		brand.NewService(eventStore),
		settings.NewService(eventStore),
		readStore,
	)
	queries := query.NewHandler(readStore)
	if seeded {
		_, err := seed.Seed(t.Context(), commands, queries)
		require.NoError(t, err)
	}

	uploadDir := t.TempDir()
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	handlers := NewHandlers(commands, queries, upload.NewStore(uploadDir, "/uploads", time.Second))
	authHandlers := NewAuthHandlers(testAdmin(), jwtService, false)

	token, _, err := jwtService.GenerateToken(testAdminEmail, auth.RoleAdmin)
	require.NoError(t, err)

	return &testServer{
		handler: NewRouter(handlers, authHandlers, jwtService, RouterConfig{UploadDir: uploadDir}),
		jwt:     jwtService,
		token:   token,
	}
}

func (s *testServer) do(method, target, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const productBody = `{
	"name": "Jaqueta Jeans",
	"description": "Jaqueta jeans lavagem clara",
	"price": 189.9,
	"originalPrice": "229.90",
	"category": "roupas",
	"subcategory": "jaquetas",
	"brand": "Levi's",
	"sizes": ["P", "M", "G"],
	"colors": [{"name": "Azul", "hex": "#4A6FA5"}],
	"images": [],
	"stock": 4,
	"featured": true,
	"tags": ["jeans", "inverno"]
}`

// ============================================
// Product Tests
// ============================================

func TestListProducts_FiltersAndPaginates(t *testing.T) {
	srv := newTestServer(t, true)

	rec := srv.do(http.MethodGet, "/api/products?featured=true&sort=price_asc&pageSize=2", "", false)

	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[catalog.Page](t, rec)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Data, 2)
	assert.True(t, page.Data[0].Price.LessThanOrEqual(page.Data[1].Price))
	for _, p := range page.Data {
		assert.True(t, p.Featured)
	}
}

func TestListProducts_PageOutOfRange(t *testing.T) {
	srv := newTestServer(t, true)

	rec := srv.do(http.MethodGet, "/api/products?page=99", "", false)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestGetProduct_NotFound(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(http.MethodGet, "/api/products/missing", "", false)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"product not found"}`, rec.Body.String())
}

func TestCreateProduct_RequiresAdmin(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(http.MethodPost, "/api/products", productBody, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProductLifecycle(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(http.MethodPost, "/api/products", productBody, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[readmodel.Product](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "189.9", created.Price.String())
	require.NotNil(t, created.OriginalPrice)
	assert.Equal(t, "229.9", created.OriginalPrice.String())

	rec = srv.do(http.MethodGet, "/api/products/"+created.ID, "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jaqueta Jeans", decode[readmodel.Product](t, rec).Name)

	updated := strings.Replace(productBody, `"stock": 4`, `"stock": 0`, 1)
	rec = srv.do(http.MethodPut, "/api/products/"+created.ID, updated, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 0, decode[readmodel.Product](t, rec).Stock)

	rec = srv.do(http.MethodDelete, "/api/products/"+created.ID, "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(http.MethodGet, "/api/products/"+created.ID, "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProduct_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"negative price", strings.Replace(productBody, `"price": 189.9`, `"price": -1`, 1), "price must be between 0"},
		{"sub-cent price", strings.Replace(productBody, `"price": 189.9`, `"price": 0.001`, 1), "price must be between 0"},
		{"negative stock", strings.Replace(productBody, `"stock": 4`, `"stock": -2`, 1), "stock must not be negative"},
		{"bad color", strings.Replace(productBody, `#4A6FA5`, `azul`, 1), "hex code"},
		{"malformed json", `{"name":`, "invalid request body"},
	}

	srv := newTestServer(t, false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(http.MethodPost, "/api/products", tt.body, true)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
		})
	}
}

func TestUpdateProduct_NotFound(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(http.MethodPut, "/api/products/missing", productBody, true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ============================================
// Category & Brand Tests
// ============================================

func TestCategory_CreateDerivesSlugAndRejectsDuplicate(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(http.MethodPost, "/api/categories", `{"name":"Moda Praia","subcategories":["Biquínis"," ","Biquínis"]}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[readmodel.Category](t, rec)
	assert.Equal(t, "moda-praia", created.Slug)
	assert.Equal(t, []string{"Biquínis"}, created.Subcategories)

	rec = srv.do(http.MethodGet, "/api/categories/moda-praia", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decode[readmodel.Category](t, rec).ID)

	rec = srv.do(http.MethodPost, "/api/categories", `{"name":"Praia","slug":"moda-praia"}`, true)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"slug already in use"}`, rec.Body.String())
}

func TestCategory_InvalidSlug(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(http.MethodPost, "/api/categories", `{"name":"Praia","slug":"Moda Praia!"}`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBrand_DuplicateNameIgnoresCase(t *testing.T) {
	srv := newTestServer(t, true)

	rec := srv.do(http.MethodPost, "/api/brands", `{"name":"NIKE","slug":"nike-2"}`, true)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "brand name already in use")
}

func TestBrand_ListAndDelete(t *testing.T) {
	srv := newTestServer(t, true)

	rec := srv.do(http.MethodGet, "/api/brands", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	brands := decode[[]readmodel.Brand](t, rec)
	require.Len(t, brands, len(seed.Brands))

	rec = srv.do(http.MethodGet, "/api/brands/"+brands[0].ID, "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, brands[0].Name, decode[readmodel.Brand](t, rec).Name)

	rec = srv.do(http.MethodGet, "/api/brands/"+brands[0].Slug, "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, brands[0].ID, decode[readmodel.Brand](t, rec).ID)

	rec = srv.do(http.MethodDelete, "/api/brands/"+brands[0].ID, "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(http.MethodGet, "/api/brands/"+brands[0].ID, "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(http.MethodDelete, "/api/brands/"+brands[0].ID, "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ============================================
// Settings Tests
// ============================================

func TestSettings_DefaultsThenPartialUpdate(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(http.MethodGet, "/api/settings", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5593991084582", decode[readmodel.StoreSettings](t, rec).WhatsappNumber)

	rec = srv.do(http.MethodPut, "/api/settings", `{"whatsappNumber":"+55 (93) 99999-0000"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decode[readmodel.StoreSettings](t, rec)
	assert.Equal(t, "5593999990000", saved.WhatsappNumber)
	assert.Equal(t, "Loja A Grande Família", saved.StoreName)

	rec = srv.do(http.MethodPut, "/api/settings", `{"whatsappNumber":"123"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettings_UpdateRequiresAdmin(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(http.MethodPut, "/api/settings", `{"storeName":"x"}`, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ============================================
// Upload Tests
// ============================================

func multipartBody(t *testing.T, files map[string]string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for name, contentType := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, name))
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func (s *testServer) upload(t *testing.T, files map[string]string, data []byte) *httptest.ResponseRecorder {
	body, contentType := multipartBody(t, files, data)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: s.token})
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestUploadImages_StoresAndServesFile(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.upload(t, map[string]string{"foto.png": "image/png"}, pngBytes(t))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[UploadResponse](t, rec)
	assert.Equal(t, "1 imagem(ns) enviada(s) com sucesso!", resp.Message)
	require.Len(t, resp.URLs, 1)
	assert.True(t, strings.HasPrefix(resp.URLs[0], "/uploads/"), resp.URLs[0])

	rec = srv.do(http.MethodGet, resp.URLs[0], "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUploadImages_RejectsNonImage(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.upload(t, map[string]string{"notas.txt": "text/plain"}, []byte("hello"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Arquivo notas.txt não é uma imagem"}`, rec.Body.String())
}

func TestUploadImages_RejectsLargeFile(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.upload(t, map[string]string{"grande.png": "image/png"}, make([]byte, upload.MaxFileSize+10))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "excede 5MB")
}

func TestUploadImages_RemovesSpilledTempFiles(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)
	srv := newTestServer(t, false)

	files := map[string]string{"a.png": "image/png", "b.png": "image/png"}
	srv.upload(t, files, make([]byte, upload.MaxFileSize-1))

	left, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestUploadImages_NoFiles(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.upload(t, nil, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nenhuma imagem enviada")
}

// ============================================
// Auth Tests
// ============================================

func TestLogin_Success(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(http.MethodPost, "/api/admin/login", `{"email":"Admin@GrandeFamilia.com","password":"admin123"}`, false)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[LoginResponse](t, rec)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.User)
	assert.Equal(t, testAdminEmail, resp.User.Email)

	claims, err := srv.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, resp.Token, cookie.Value)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(cookie)
	me := httptest.NewRecorder()
	srv.handler.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	assert.JSONEq(t, `{"email":"admin@grandefamilia.com","role":"admin"}`, me.Body.String())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(http.MethodPost, "/api/admin/login", `{"email":"admin@grandefamilia.com","password":"wrong"}`, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Credenciais inválidas"}`, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogout_ClearsCookie(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(http.MethodPost, "/api/admin/logout", "", false)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.TokenCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(http.MethodGet, "/healthz", "", false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStatusFor_WrappedErrors(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(fmt.Errorf("loading: %w", product.ErrProductNotFound)))
	assert.Equal(t, http.StatusConflict, statusFor(fmt.Errorf("checking: %w", brand.ErrSlugTaken)))
	assert.Equal(t, http.StatusBadRequest, statusFor(settings.ErrInvalidWhatsappNumber))
	assert.Equal(t, http.StatusInternalServerError, statusFor(fmt.Errorf("boom")))
}

package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/Farmacia-api/internal/app"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Farmacia-api/internal/interfaces/http"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	pkgjwt "github.com/jhoicas/Farmacia-api/pkg/jwt"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

type SaleHandlerTestSuite struct {
	suite.Suite
	app         *fiber.App
	container   *app.Container
	productID   string
	warehouseID string
	adminToken  string
	userToken   string
}

func TestSaleHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(SaleHandlerTestSuite))
}

func (s *SaleHandlerTestSuite) SetupTest() {
	t := s.T()
	ctx := context.Background()
	cfg := &config.Config{
		App:   config.AppConfig{Env: "test", Name: "farmacia-pos"},
		Store: config.StoreConfig{Driver: config.StoreDriverMemory},
		Sales: config.SalesConfig{TaxRate: decimal.RequireFromString("0.16")},
		JWT:   config.JWTConfig{Secret: testJWTSecret, Expiration: testExpMin, Issuer: testIssuer},
	}
	log := logger.New(logger.Config{Env: "test", Level: "error", Out: io.Discard})
	s.container = app.Build(app.NewMemoryBackend(), cfg, log, nil)

	adminID, err := s.container.Seeder.EnsureAdmin(ctx, "admin", "clave-admin-123")
	require.NoError(t, err)

	wh, err := s.container.Warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "Bodega Principal", IsPrimary: true})
	require.NoError(t, err)
	s.warehouseID = wh.ID

	p, err := s.container.Products.Create(ctx, dto.CreateProductRequest{Name: "Paracetamol 500mg", Price: decimal.RequireFromString("10.00")})
	require.NoError(t, err)
	s.productID = p.ID

	qty := 5
	_, err = s.container.Adjust.SetLevel(ctx, adminID, dto.UpsertInventoryRequest{ProductID: p.ID, WarehouseID: wh.ID, Quantity: &qty})
	require.NoError(t, err)

	s.adminToken, err = pkgjwt.Generate(testJWTSecret, adminID, entity.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)
	s.userToken, err = pkgjwt.Generate(testJWTSecret, uuid.NewString(), entity.RoleUser, testIssuer, testExpMin)
	require.NoError(t, err)

	s.app = fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(s.app, s.container.RouterDeps())
}

func (s *SaleHandlerTestSuite) do(method, path, token, body string) (int, []byte) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, raw
}

func (s *SaleHandlerTestSuite) saleBody(qty int) string {
	return fmt.Sprintf(`{"payment_method":"Efectivo","items":[{"product_id":%q,"quantity":%d}]}`, s.productID, qty)
}

func (s *SaleHandlerTestSuite) errorCode(raw []byte) string {
	var out dto.ErrorResponse
	s.Require().NoError(json.Unmarshal(raw, &out))
	return out.Code
}

func (s *SaleHandlerTestSuite) TestCrearVenta() {
	status, raw := s.do(http.MethodPost, "/api/sales", s.userToken, s.saleBody(2))
	s.Require().Equal(http.StatusCreated, status, string(raw))

	var sale dto.SaleResponse
	s.Require().NoError(json.Unmarshal(raw, &sale))
	s.Equal("active", sale.Status)
	s.Equal(s.warehouseID, sale.WarehouseID)
	s.True(decimal.RequireFromString("23.20").Equal(sale.Total), sale.Total.String())
	s.Require().Len(sale.Items, 1)

	q, err := s.container.Ledger.GetQuantity(context.Background(), s.productID, s.warehouseID)
	s.Require().NoError(err)
	s.Equal(3, q)

	status, raw = s.do(http.MethodGet, "/api/sales/"+sale.ID, s.userToken, "")
	s.Require().Equal(http.StatusOK, status, string(raw))
}

func (s *SaleHandlerTestSuite) TestCrearVenta_StockInsuficiente() {
	status, raw := s.do(http.MethodPost, "/api/sales", s.userToken, s.saleBody(6))
	s.Equal(http.StatusConflict, status, string(raw))
	s.Equal("INSUFFICIENT_STOCK", s.errorCode(raw))

	q, err := s.container.Ledger.GetQuantity(context.Background(), s.productID, s.warehouseID)
	s.Require().NoError(err)
	s.Equal(5, q)
}

func (s *SaleHandlerTestSuite) TestCrearVenta_CuerpoInvalido() {
	cases := map[string]string{
		"campo desconocido": fmt.Sprintf(`{"payment_method":"Efectivo","descuento":5,"items":[{"product_id":%q,"quantity":1}]}`, s.productID),
		"sin cantidad":      fmt.Sprintf(`{"payment_method":"Efectivo","items":[{"product_id":%q}]}`, s.productID),
		"cantidad texto":    fmt.Sprintf(`{"payment_method":"Efectivo","items":[{"product_id":%q,"quantity":"2"}]}`, s.productID),
		"sin items":         `{"payment_method":"Efectivo","items":[]}`,
		"vacío":             ``,
	}
	for name, body := range cases {
		s.Run(name, func() {
			status, raw := s.do(http.MethodPost, "/api/sales", s.userToken, body)
			s.Equal(http.StatusBadRequest, status, string(raw))
			s.Equal("VALIDATION", s.errorCode(raw))
		})
	}
}

func (s *SaleHandlerTestSuite) TestCrearVenta_ProductoInexistente() {
	body := fmt.Sprintf(`{"payment_method":"Efectivo","items":[{"product_id":%q,"quantity":1}]}`, uuid.NewString())
	status, raw := s.do(http.MethodPost, "/api/sales", s.userToken, body)
	// el guard no encuentra registro de inventario para el producto
	s.Equal(http.StatusConflict, status, string(raw))
	s.Equal("INSUFFICIENT_STOCK", s.errorCode(raw))
}

func (s *SaleHandlerTestSuite) TestAnularVenta_SoloAdmin() {
	status, raw := s.do(http.MethodPost, "/api/sales", s.userToken, s.saleBody(1))
	s.Require().Equal(http.StatusCreated, status, string(raw))
	var sale dto.SaleResponse
	s.Require().NoError(json.Unmarshal(raw, &sale))

	status, raw = s.do(http.MethodDelete, "/api/sales/"+sale.ID, s.userToken, "")
	s.Equal(http.StatusForbidden, status, string(raw))

	status, raw = s.do(http.MethodDelete, "/api/sales/"+sale.ID, s.adminToken, "")
	s.Require().Equal(http.StatusOK, status, string(raw))

	status, raw = s.do(http.MethodDelete, "/api/sales/"+sale.ID, s.adminToken, "")
	s.Equal(http.StatusConflict, status, string(raw))
	s.Equal("INVALID_STATE", s.errorCode(raw))

	q, err := s.container.Ledger.GetQuantity(context.Background(), s.productID, s.warehouseID)
	s.Require().NoError(err)
	s.Equal(5, q)
}

func (s *SaleHandlerTestSuite) TestVentaInexistente() {
	status, raw := s.do(http.MethodGet, "/api/sales/"+uuid.NewString(), s.userToken, "")
	s.Equal(http.StatusNotFound, status, string(raw))
}

func (s *SaleHandlerTestSuite) TestVenta_IDNoCanonico() {
	id := uuid.NewString()
	for _, raw := range []string{"urn:uuid:" + id, strings.ReplaceAll(id, "-", ""), "%7B" + id + "%7D"} {
		status, body := s.do(http.MethodGet, "/api/sales/"+raw, s.userToken, "")
		s.Equal(http.StatusBadRequest, status, raw)
		s.Equal("VALIDATION", s.errorCode(body), raw)
	}
}

func (s *SaleHandlerTestSuite) TestClientes_CRUD() {
	status, raw := s.do(http.MethodPost, "/api/clients", s.userToken,
		`{"first_name":"Ana","last_name":"Pérez","identification_number":"12345678"}`)
	s.Require().Equal(http.StatusCreated, status, string(raw))
	var created dto.ClientResponse
	s.Require().NoError(json.Unmarshal(raw, &created))
	s.Equal("DNI", created.IdentificationType)

	status, raw = s.do(http.MethodPost, "/api/clients", s.userToken, `{"first_name":"Luis","identification_number":"12345678"}`)
	s.Equal(http.StatusConflict, status, string(raw))
	s.Equal("DUPLICATE", s.errorCode(raw))

	status, raw = s.do(http.MethodPost, "/api/clients", s.userToken, `{"last_name":"Sin nombre"}`)
	s.Equal(http.StatusBadRequest, status, string(raw))

	status, raw = s.do(http.MethodPut, "/api/clients/"+created.ID, s.userToken, `{"phone":"555-0101"}`)
	s.Require().Equal(http.StatusOK, status, string(raw))

	status, raw = s.do(http.MethodGet, "/api/clients/"+created.ID, s.userToken, "")
	s.Require().Equal(http.StatusOK, status, string(raw))
	var got dto.ClientResponse
	s.Require().NoError(json.Unmarshal(raw, &got))
	s.Equal("555-0101", got.Phone)

	status, raw = s.do(http.MethodGet, "/api/clients?search=5678", s.userToken, "")
	s.Require().Equal(http.StatusOK, status, string(raw))
	var list dto.ClientListResponse
	s.Require().NoError(json.Unmarshal(raw, &list))
	s.Len(list.Items, 1)

	status, _ = s.do(http.MethodGet, "/api/clients/"+uuid.NewString(), s.userToken, "")
	s.Equal(http.StatusNotFound, status)
}

func (s *SaleHandlerTestSuite) TestSinToken() {
	status, raw := s.do(http.MethodPost, "/api/sales", "", s.saleBody(1))
	s.Equal(http.StatusUnauthorized, status, string(raw))
}

func (s *SaleHandlerTestSuite) TestLogin() {
	status, raw := s.do(http.MethodPost, "/api/auth/login", "", `{"username":"admin","password":"clave-admin-123"}`)
	s.Require().Equal(http.StatusOK, status, string(raw))
	var out dto.LoginResponse
	s.Require().NoError(json.Unmarshal(raw, &out))
	s.NotEmpty(out.Token)

	status, _ = s.do(http.MethodPost, "/api/auth/login", "", `{"username":"admin","password":"mala"}`)
	s.Equal(http.StatusUnauthorized, status)
}

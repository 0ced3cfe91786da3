package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	billdomain "github.com/ridewell/motorbill/internal/bill/domain"
	billrepo "github.com/ridewell/motorbill/internal/bill/repository"
	billservice "github.com/ridewell/motorbill/internal/bill/service"
	catalogdomain "github.com/ridewell/motorbill/internal/catalog/domain"
	catalogservice "github.com/ridewell/motorbill/internal/catalog/service"
	"github.com/ridewell/motorbill/internal/clock"
	"github.com/ridewell/motorbill/internal/config"
	"github.com/ridewell/motorbill/internal/document"
	"github.com/ridewell/motorbill/internal/document/docx"
	"github.com/ridewell/motorbill/internal/document/pdf"
	"github.com/ridewell/motorbill/internal/document/render"
	"github.com/ridewell/motorbill/internal/pricing"
	"github.com/ridewell/motorbill/internal/reconcile"
	"github.com/ridewell/motorbill/pkg/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&catalogdomain.VehicleModel{}, &billdomain.Bill{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2025, 3, 7, 9, 30, 0, 0, time.UTC))
	tariff := config.StaticTariffHolder(pricing.DefaultTariff())

	catalogSvc := catalogservice.New(catalogservice.Params{
		DB:    gdb,
		Log:   log,
		GenID: node,
		Clock: fake,
		Store: repository.ProvideStore[catalogdomain.VehicleModel](gdb),
	})
	billSvc := billservice.New(billservice.Params{
		DB:      gdb,
		Log:     log,
		GenID:   node,
		Clock:   fake,
		Tariff:  tariff,
		Repo:    billrepo.Provide(),
		Catalog: catalogSvc,
	})
	renderer := render.New(render.Params{
		Log: log,
		Builder: document.NewBuilder(document.Issuer{
			Name:    "Ridewell Motors (Pvt) Ltd",
			Address: "214 Galle Road, Colombo 03",
			Phone:   "+94 11 230 4455",
		}),
	}, map[document.Format]render.Encoder{
		document.FormatPDF:  pdf.NewEncoder(),
		document.FormatDOCX: docx.NewEncoder(),
	})
	reconcileSvc := reconcile.New(reconcile.Params{DB: gdb, Log: log, Clock: fake})

	s := NewServer(ServerParams{
		Gin:          NewEngine(),
		Cfg:          config.Config{HTTPAddr: ":0"},
		BillSvc:      billSvc,
		CatalogSvc:   catalogSvc,
		Renderer:     renderer,
		ReconcileSvc: reconcileSvc,
	})
	s.RegisterAPIRoutes()
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func seedModel(t *testing.T, s *Server, name string, price int64, class string, leaseEligible bool) {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/v1/vehicle-models", gin.H{
		"name":           name,
		"base_price":     price,
		"class":          class,
		"lease_eligible": leaseEligible,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestCreateBillEndpoint(t *testing.T) {
	s := newTestServer(t)
	seedModel(t, s, "CT-100", 100000, "STANDARD", true)

	w := doJSON(t, s, http.MethodPost, "/v1/bills", gin.H{
		"channel":          "CASH",
		"customer_name":    "N. Perera",
		"customer_nic":     "861234567V",
		"customer_address": "12 Temple Lane, Kandy",
		"model_name":       "CT-100",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var bill billdomain.Bill
	decodeData(t, w, &bill)
	assert.Equal(t, int64(113000), bill.TotalAmount)
	assert.Equal(t, billdomain.BillStatusCompleted, bill.Status)
}

func TestCreateBillPricingViolation(t *testing.T) {
	s := newTestServer(t)
	seedModel(t, s, "DX-200", 150000, "STANDARD", false)

	w := doJSON(t, s, http.MethodPost, "/v1/bills", gin.H{
		"channel":          "LEASE",
		"customer_name":    "N. Perera",
		"customer_nic":     "861234567V",
		"customer_address": "12 Temple Lane, Kandy",
		"model_name":       "DX-200",
		"down_payment":     20000,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pricing_violation", resp.Error.Type)
	assert.Equal(t, "not_lease_eligible", resp.Error.Code)
}

func TestGetBillNotFound(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/v1/bills/424242", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConvertBillEndpoint(t *testing.T) {
	s := newTestServer(t)
	seedModel(t, s, "CT-100", 100000, "STANDARD", true)

	w := doJSON(t, s, http.MethodPost, "/v1/bills", gin.H{
		"channel":                 "ADVANCE",
		"settlement":              "CASH",
		"customer_name":           "N. Perera",
		"customer_nic":            "861234567V",
		"customer_address":        "12 Temple Lane, Kandy",
		"model_name":              "CT-100",
		"advance_amount":          30000,
		"estimated_delivery_date": "2025-04-15T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var bill billdomain.Bill
	decodeData(t, w, &bill)
	require.Equal(t, billdomain.BillStatusPending, bill.Status)

	w = doJSON(t, s, http.MethodPost, "/v1/bills/"+bill.ID.String()+"/convert", gin.H{
		"settlement": "CASH",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp billdomain.ConvertBillResponse
	decodeData(t, w, &resp)
	assert.Equal(t, billdomain.BillStatusConverted, resp.Source.Status)
	assert.Equal(t, billdomain.BillStatusCompleted, resp.Successor.Status)
	assert.Equal(t, int64(113000), resp.Successor.TotalAmount)

	// Conversion is terminal; repeating it is a conflict.
	w = doJSON(t, s, http.MethodPost, "/v1/bills/"+bill.ID.String()+"/convert", gin.H{
		"settlement": "CASH",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRenderBillDocumentEndpoint(t *testing.T) {
	s := newTestServer(t)
	seedModel(t, s, "CT-100", 100000, "STANDARD", true)

	w := doJSON(t, s, http.MethodPost, "/v1/bills", gin.H{
		"channel":          "CASH",
		"customer_name":    "N. Perera",
		"customer_nic":     "861234567V",
		"customer_address": "12 Temple Lane, Kandy",
		"model_name":       "CT-100",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var bill billdomain.Bill
	decodeData(t, w, &bill)

	w = doJSON(t, s, http.MethodGet, "/v1/bills/"+bill.ID.String()+"/document", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, contentTypePDF, w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())

	w = doJSON(t, s, http.MethodGet, "/v1/bills/"+bill.ID.String()+"/document?format=docx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, contentTypeDOCX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), bill.DisplayNumber)

	w = doJSON(t, s, http.MethodGet, "/v1/bills/"+bill.ID.String()+"/document?format=odt", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVehicleModelEndpoints(t *testing.T) {
	s := newTestServer(t)
	seedModel(t, s, "CT-100", 100000, "STANDARD", true)

	// Duplicate name conflicts.
	w := doJSON(t, s, http.MethodPost, "/v1/vehicle-models", gin.H{
		"name":       "CT-100",
		"base_price": 90000,
		"class":      "STANDARD",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, s, http.MethodGet, "/v1/vehicle-models/CT-100", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var model catalogdomain.VehicleModel
	decodeData(t, w, &model)
	assert.Equal(t, int64(100000), model.BasePrice)

	w = doJSON(t, s, http.MethodPatch, "/v1/vehicle-models/CT-100", gin.H{
		"base_price": 110000,
	})
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &model)
	assert.Equal(t, int64(110000), model.BasePrice)

	w = doJSON(t, s, http.MethodDelete, "/v1/vehicle-models/CT-100", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, s, http.MethodGet, "/v1/vehicle-models/CT-100", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReconcileEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/v1/reconcile", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result reconcile.Result
	decodeData(t, w, &result)
	assert.Zero(t, result.Inspected)
}

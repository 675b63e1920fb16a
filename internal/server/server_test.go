package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	allocationservice "github.com/halion16/refit-management-sub000/internal/allocation/service"
	"github.com/halion16/refit-management-sub000/internal/clock"
	"github.com/halion16/refit-management-sub000/internal/config"
	"github.com/halion16/refit-management-sub000/internal/events"
	ledgerservice "github.com/halion16/refit-management-sub000/internal/ledger/service"
	"github.com/halion16/refit-management-sub000/internal/migration"
	paymenttemplaterepository "github.com/halion16/refit-management-sub000/internal/paymenttemplate/repository"
	paymenttemplateservice "github.com/halion16/refit-management-sub000/internal/paymenttemplate/service"
	phasedomain "github.com/halion16/refit-management-sub000/internal/phase/domain"
	phaserepository "github.com/halion16/refit-management-sub000/internal/phase/repository"
	phaseservice "github.com/halion16/refit-management-sub000/internal/phase/service"
	quotedomain "github.com/halion16/refit-management-sub000/internal/quote/domain"
	quoterepository "github.com/halion16/refit-management-sub000/internal/quote/repository"
	quoteservice "github.com/halion16/refit-management-sub000/internal/quote/service"
	scheduledomain "github.com/halion16/refit-management-sub000/internal/schedule/domain"
	schedulerepository "github.com/halion16/refit-management-sub000/internal/schedule/repository"
	scheduleservice "github.com/halion16/refit-management-sub000/internal/schedule/service"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := migration.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	log := zap.NewNop()
	clk := clock.Fixed(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	recorder := events.NewRecorder(db, node)

	phaseSvc := phaseservice.NewService(phaseservice.Params{
		DB: db, Log: log, GenID: node, Repo: phaserepository.Provide(),
	})
	quoteSvc := quoteservice.NewService(quoteservice.Params{
		DB: db, Log: log, GenID: node, Repo: quoterepository.Provide(),
	})
	templateSvc := paymenttemplateservice.NewService(paymenttemplateservice.Params{
		DB: db, Log: log, GenID: node, Clock: clk,
		Repo:         paymenttemplaterepository.Provide(),
		QuoteRepo:    quoterepository.Provide(),
		ScheduleRepo: schedulerepository.Provide(),
	})
	allocationSvc := allocationservice.NewService(allocationservice.Params{
		DB: db, Log: log,
		QuoteRepo: quoterepository.Provide(),
		Directory: phaseservice.ProvideDirectory(phaseSvc),
		Recorder:  recorder,
	})
	scheduleSvc := scheduleservice.NewService(scheduleservice.Params{
		DB: db, Log: log, GenID: node, Clock: clk,
		Repo:      schedulerepository.Provide(),
		QuoteRepo: quoterepository.Provide(),
		Recorder:  recorder,
	})
	ledgerSvc := ledgerservice.NewService(ledgerservice.Params{
		DB: db, Log: log, Clock: clk,
		Repo:     schedulerepository.Provide(),
		Recorder: recorder,
	})

	srv := NewServer(Params{
		Config:        config.Config{Environment: "test", HTTPAddr: ":0"},
		Log:           log,
		DB:            db,
		PhaseSvc:      phaseSvc,
		QuoteSvc:      quoteSvc,
		TemplateSvc:   templateSvc,
		AllocationSvc: allocationSvc,
		ScheduleSvc:   scheduleSvc,
		LedgerSvc:     ledgerSvc,
	})
	return srv.Router(), db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealthz(t *testing.T) {
	router, _ := newTestServer(t)
	w := doJSON(t, router, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestQuoteLifecycle(t *testing.T) {
	router, db := newTestServer(t)

	// Two phases to allocate across.
	var phases []phasedomain.ProjectPhase
	for _, name := range []string{"Demolition", "Fit-out"} {
		w := doJSON(t, router, http.MethodPost, "/api/v1/phases", map[string]any{
			"project_id": "1", "name": name, "budget": 5000,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create phase: %d: %s", w.Code, w.Body.String())
		}
		var resp struct {
			Phase phasedomain.ProjectPhase `json:"phase"`
		}
		decodeInto(t, w, &resp)
		phases = append(phases, resp.Phase)
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/quotes", map[string]any{
		"project_id": "1", "number": "Q-2024-001", "total_amount": 10000.0,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create quote: %d: %s", w.Code, w.Body.String())
	}
	var quoteResp struct {
		Quote quotedomain.Quote `json:"quote"`
	}
	decodeInto(t, w, &quoteResp)
	quoteID := quoteResp.Quote.ID.String()

	// Unbalanced allocation is rejected and writes nothing.
	w = doJSON(t, router, http.MethodPut, "/api/v1/quotes/"+quoteID+"/allocation", map[string]any{
		"percentages": []map[string]any{
			{"phase_id": phases[0].ID.String(), "percentage": 60},
			{"phase_id": phases[1].ID.String(), "percentage": 30},
		},
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unbalanced allocation, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPut, "/api/v1/quotes/"+quoteID+"/allocation", map[string]any{
		"percentages": []map[string]any{
			{"phase_id": phases[0].ID.String(), "percentage": 60},
			{"phase_id": phases[1].ID.String(), "percentage": 40},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("save allocation: %d: %s", w.Code, w.Body.String())
	}
	decodeInto(t, w, &quoteResp)
	if len(quoteResp.Quote.PhaseBreakdown) != 2 {
		t.Fatalf("expected 2 breakdown entries, got %d", len(quoteResp.Quote.PhaseBreakdown))
	}
	if quoteResp.Quote.PhaseBreakdown[0].Subtotal != 6000 {
		t.Fatalf("expected first subtotal 6000, got %v", quoteResp.Quote.PhaseBreakdown[0].Subtotal)
	}

	// Plan the payments from a template and generate the schedule.
	w = doJSON(t, router, http.MethodPost, "/api/v1/payment-templates", map[string]any{
		"name": "Standard 30-70",
		"terms": []map[string]any{
			{"description": "Advance", "type": "advance", "percentage": 30, "trigger_event": "order_confirmation"},
			{"description": "Balance", "type": "balance", "percentage": 70, "trigger_event": "delivery"},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create template: %d: %s", w.Code, w.Body.String())
	}
	var tmplResp struct {
		Template struct {
			ID snowflake.ID `json:"id"`
		} `json:"template"`
	}
	decodeInto(t, w, &tmplResp)

	w = doJSON(t, router, http.MethodPost, "/api/v1/quotes/"+quoteID+"/terms/from-template", map[string]any{
		"template_id": tmplResp.Template.ID.String(),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("apply template: %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/quotes/"+quoteID+"/schedule", map[string]any{
		"milestones": map[string]any{
			"order_date":    "2024-01-10T00:00:00Z",
			"delivery_date": "2024-02-10T00:00:00Z",
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("generate schedule: %d: %s", w.Code, w.Body.String())
	}
	var schedResp struct {
		Payments []scheduledomain.Payment `json:"payments"`
	}
	decodeInto(t, w, &schedResp)
	if len(schedResp.Payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(schedResp.Payments))
	}
	if schedResp.Payments[0].PlannedAmount != 3000 || schedResp.Payments[1].PlannedAmount != 7000 {
		t.Fatalf("expected 3000/7000 plan, got %v/%v",
			schedResp.Payments[0].PlannedAmount, schedResp.Payments[1].PlannedAmount)
	}

	// Record the advance and read back the stats.
	paymentID := schedResp.Payments[0].ID.String()
	w = doJSON(t, router, http.MethodPost, "/api/v1/payments/"+paymentID+"/record", map[string]any{
		"paid_amount":  3000.0,
		"payment_date": "2024-01-11T00:00:00Z",
		"method":       "bank_transfer",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("record payment: %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/payments/stats?quote_id="+quoteID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: %d: %s", w.Code, w.Body.String())
	}
	var statsResp struct {
		Stats struct {
			TotalPlanned float64 `json:"total_planned"`
			TotalPaid    float64 `json:"total_paid"`
			PaymentRate  float64 `json:"payment_rate"`
		} `json:"stats"`
	}
	decodeInto(t, w, &statsResp)
	if statsResp.Stats.TotalPlanned != 10000 || statsResp.Stats.TotalPaid != 3000 {
		t.Fatalf("expected planned 10000 paid 3000, got %+v", statsResp.Stats)
	}
	if statsResp.Stats.PaymentRate != 30 {
		t.Fatalf("expected payment rate 30, got %v", statsResp.Stats.PaymentRate)
	}

	// The audit trail saw every engine action.
	var eventCount int64
	if err := db.Model(&events.AuditEvent{}).Count(&eventCount).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if eventCount != 3 {
		t.Fatalf("expected 3 audit events, got %d", eventCount)
	}
}

func TestGetQuoteNotFound(t *testing.T) {
	router, _ := newTestServer(t)
	w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/quotes/%d", 424242), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestErrorEnvelopeEchoesRequestID(t *testing.T) {
	router, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/quotes/%d", 424242), nil)
	req.Header.Set("X-Request-Id", "req-7")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if body.Error.RequestID != "req-7" {
		t.Fatalf("expected request id echoed in error envelope, got %q", body.Error.RequestID)
	}
}

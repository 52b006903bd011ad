package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"peopleops/internal/app/server"
	"peopleops/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

type listPayload struct {
	Items json.RawMessage `json:"items"`
	Total int             `json:"total"`
}

func testConfig(t *testing.T, dbURL string) config.Config {
	t.Helper()
	return config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		Environment:        "test",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		EmailFrom:          "no-reply@test.local",
		RunMigrations:      true,
		RunSeed:            true,
		MigrationsDir:      "../../../../migrations",
		CertificateDir:     t.TempDir(),
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
	}
}

func startApp(t *testing.T) (*server.App, *httptest.Server, string) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(t, dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)

	token := login(t, ts.Client(), ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	return app, ts, token
}

func TestConfigEntityLifecycleJourney(t *testing.T) {
	_, ts, token := startApp(t)
	client := ts.Client()

	name := fmt.Sprintf("Housing-%d", time.Now().UnixNano())
	created := decodeObject(t, postJSON(t, client, ts.URL+"/api/v1/payroll/allowances", token, map[string]any{
		"name":   name,
		"amount": 150.0,
	}))
	allowanceID, _ := created["id"].(string)
	if allowanceID == "" {
		t.Fatal("expected allowance id")
	}
	if created["status"] != "draft" {
		t.Fatalf("expected draft status, got %v", created["status"])
	}

	listed := decodeList(t, getJSON(t, client, ts.URL+"/api/v1/payroll/allowances?status=draft&search="+name, token))
	if listed.Total != 1 {
		t.Fatalf("expected 1 draft allowance matching search, got %d", listed.Total)
	}

	approved := decodeObject(t, patchJSON(t, client, ts.URL+"/api/v1/payroll/allowances/"+allowanceID+"/status", token, map[string]any{
		"status": "approved",
	}))
	if approved["status"] != "approved" {
		t.Fatalf("expected approved status, got %v", approved["status"])
	}

	// allowances are frozen once approved
	sendJSONStatus(t, client, http.MethodPut, ts.URL+"/api/v1/payroll/allowances/"+allowanceID, token, map[string]any{
		"name":   name,
		"amount": 200.0,
	}, http.StatusConflict)

	// approval is one-way
	sendJSONStatus(t, client, http.MethodPatch, ts.URL+"/api/v1/payroll/allowances/"+allowanceID+"/status", token, map[string]any{
		"status": "rejected",
	}, http.StatusConflict)
}

func TestLeaveEntitlementJourney(t *testing.T) {
	app, ts, token := startApp(t)
	client := ts.Client()

	employeeID := createEmployee(t, app, "2026-03-10")
	leaveTypeID := createApprovedLeaveType(t, client, ts.URL, token)

	ent := decodeObject(t, postJSON(t, client, ts.URL+"/api/v1/leave/entitlements/"+employeeID+"/"+leaveTypeID+"/recalculate", token, map[string]any{}))
	remaining, _ := ent["remaining"].(float64)
	if remaining <= 0 {
		t.Fatalf("expected positive remaining balance after recalculation, got %v", remaining)
	}

	adjusted := decodeObject(t, postJSON(t, client, ts.URL+"/api/v1/leave/entitlements/adjust", token, map[string]any{
		"employeeId":     employeeID,
		"leaveTypeId":    leaveTypeID,
		"adjustmentType": "add",
		"amount":         2.0,
		"reason":         "Signing bonus leave",
	}))
	adjustedRemaining, _ := adjusted["remaining"].(float64)
	if adjustedRemaining != remaining+2 {
		t.Fatalf("expected remaining %v after adjustment, got %v", remaining+2, adjustedRemaining)
	}

	fetched := decodeObject(t, getJSON(t, client, ts.URL+"/api/v1/leave/entitlements/"+employeeID+"/"+leaveTypeID, token))
	if fetched["remaining"] != adjustedRemaining {
		t.Fatalf("expected persisted remaining %v, got %v", adjustedRemaining, fetched["remaining"])
	}

	adjustments := decodeList(t, getJSON(t, client, ts.URL+"/api/v1/leave/entitlements/"+employeeID+"/"+leaveTypeID+"/adjustments", token))
	if adjustments.Total != 1 {
		t.Fatalf("expected 1 recorded adjustment, got %d", adjustments.Total)
	}

	sendJSONStatus(t, client, http.MethodPost,
		ts.URL+"/api/v1/leave/entitlements/"+uuid.NewString()+"/"+leaveTypeID+"/recalculate",
		token, map[string]any{}, http.StatusNotFound)
	sendJSONStatus(t, client, http.MethodPost, ts.URL+"/api/v1/leave/entitlements/adjust", token, map[string]any{
		"employeeId":     uuid.NewString(),
		"leaveTypeId":    leaveTypeID,
		"adjustmentType": "add",
		"amount":         1.0,
		"reason":         "No such employee",
	}, http.StatusNotFound)
}

func TestOffboardingClearanceJourney(t *testing.T) {
	app, ts, token := startApp(t)
	client := ts.Client()

	employeeID := createEmployee(t, app, "2024-01-15")

	request := decodeObject(t, postJSON(t, client, ts.URL+"/api/v1/offboarding/requests", token, map[string]any{
		"employeeId":      employeeID,
		"reason":          "Resignation",
		"initiator":       "hr",
		"terminationDate": "2026-09-30",
	}))
	requestID, _ := request["id"].(string)
	if requestID == "" {
		t.Fatal("expected termination request id")
	}
	if request["status"] != "pending" {
		t.Fatalf("expected pending request, got %v", request["status"])
	}

	checklist := decodeObject(t, postJSON(t, client, ts.URL+"/api/v1/offboarding/requests/"+requestID+"/approve", token, map[string]any{
		"hrComments": "Approved for clearance",
	}))
	checklistID, _ := checklist["id"].(string)
	if checklistID == "" {
		t.Fatal("expected checklist id")
	}

	clearances, ok := checklist["clearances"].([]any)
	if !ok || len(clearances) == 0 {
		t.Fatalf("expected seeded clearances, got %v", checklist["clearances"])
	}

	for _, raw := range clearances {
		item, _ := raw.(map[string]any)
		department, _ := item["department"].(string)
		patchJSON(t, client, ts.URL+"/api/v1/offboarding/checklists/"+checklistID+"/clearances/"+department, token, map[string]any{
			"status":   "approved",
			"comments": "Cleared",
		})
	}

	patchJSON(t, client, ts.URL+"/api/v1/offboarding/checklists/"+checklistID+"/equipment", token, map[string]any{
		"name":     "laptop",
		"returned": true,
	})
	result := decodeObject(t, patchJSON(t, client, ts.URL+"/api/v1/offboarding/checklists/"+checklistID+"/card", token, map[string]any{
		"returned": true,
	}))
	if result["overallStatus"] != "fully_cleared" {
		t.Fatalf("expected fully_cleared, got %v", result["overallStatus"])
	}

	final := decodeObject(t, getJSON(t, client, ts.URL+"/api/v1/offboarding/checklists/"+checklistID, token))
	progress, _ := final["progress"].(map[string]any)
	if allCleared, _ := progress["allCleared"].(bool); !allCleared {
		t.Fatalf("expected allCleared progress, got %v", progress)
	}

	certificate := rawGet(t, client, ts.URL+"/api/v1/offboarding/checklists/"+checklistID+"/certificate", token)
	if len(certificate) == 0 {
		t.Fatal("expected certificate content")
	}
}

func TestRecruitmentRequisitionJourney(t *testing.T) {
	_, ts, token := startApp(t)
	client := ts.Client()

	template := decodeObject(t, postJSON(t, client, ts.URL+"/api/v1/recruitment/templates", token, map[string]any{
		"title":       "Backend Engineer",
		"department":  "engineering",
		"description": "Go services",
	}))
	templateID, _ := template["id"].(string)
	if templateID == "" {
		t.Fatal("expected template id")
	}

	requisition := decodeObject(t, postJSON(t, client, ts.URL+"/api/v1/recruitment/requisitions", token, map[string]any{
		"templateId": templateID,
		"title":      "Backend Engineer (Platform)",
		"headcount":  2,
	}))
	requisitionID, _ := requisition["id"].(string)
	if requisition["status"] != "draft" {
		t.Fatalf("expected draft requisition, got %v", requisition["status"])
	}

	published := decodeObject(t, postJSON(t, client, ts.URL+"/api/v1/recruitment/requisitions/"+requisitionID+"/publish", token, nil))
	if published["status"] != "published" {
		t.Fatalf("expected published requisition, got %v", published["status"])
	}

	// publishing is one-way
	sendJSONStatus(t, client, http.MethodPost, ts.URL+"/api/v1/recruitment/requisitions/"+requisitionID+"/publish", token, nil, http.StatusConflict)

	postJSON(t, client, ts.URL+"/api/v1/recruitment/requisitions/"+requisitionID+"/hires", token, nil)
	full := decodeObject(t, postJSON(t, client, ts.URL+"/api/v1/recruitment/requisitions/"+requisitionID+"/hires", token, nil))
	if full["status"] != "closed" {
		t.Fatalf("expected auto-close at full headcount, got %v", full["status"])
	}
	if rate, _ := full["fillRate"].(float64); rate != 1 {
		t.Fatalf("expected fill rate 1, got %v", rate)
	}
}

func createEmployee(t *testing.T, app *server.App, startDate string) string {
	t.Helper()
	var id string
	email := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	err := app.DB.QueryRow(context.Background(), `
    INSERT INTO employees (first_name, last_name, email, start_date, status)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, "Journey", "Tester", email, startDate, "active").Scan(&id)
	if err != nil {
		t.Fatalf("failed to create employee: %v", err)
	}
	return id
}

func createApprovedLeaveType(t *testing.T, client *http.Client, baseURL, token string) string {
	t.Helper()
	created := decodeObject(t, postJSON(t, client, baseURL+"/api/v1/leave/types", token, map[string]any{
		"name":            fmt.Sprintf("Annual-%d", time.Now().UnixNano()),
		"code":            "ANL",
		"monthlyAccrual":  1.5,
		"carryForwardCap": 5.0,
		"allowNegative":   false,
	}))
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatal("expected leave type id")
	}
	patchJSON(t, client, baseURL+"/api/v1/leave/types/"+id+"/status", token, map[string]any{"status": "approved"})
	return id
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	payload := decodeObject(t, resp)
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected token")
	}
	return token
}

func decodeObject(t *testing.T, env envelope) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	return payload
}

func decodeList(t *testing.T, env envelope) listPayload {
	t.Helper()
	var payload listPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("failed to decode list payload: %v", err)
	}
	return payload
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	return sendJSON(t, client, http.MethodPost, url, token, body)
}

func patchJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	return sendJSON(t, client, http.MethodPatch, url, token, body)
}

func getJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	return sendJSON(t, client, http.MethodGet, url, token, nil)
}

func sendJSON(t *testing.T, client *http.Client, method, url, token string, body any) envelope {
	t.Helper()
	raw, status := request(t, client, method, url, token, body)
	if status >= 400 {
		t.Fatalf("unexpected status %d: %s", status, string(raw))
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}

func sendJSONStatus(t *testing.T, client *http.Client, method, url, token string, body any, want int) {
	t.Helper()
	raw, status := request(t, client, method, url, token, body)
	if status != want {
		t.Fatalf("expected status %d, got %d: %s", want, status, string(raw))
	}
}

func rawGet(t *testing.T, client *http.Client, url, token string) []byte {
	t.Helper()
	raw, status := request(t, client, http.MethodGet, url, token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", status, string(raw))
	}
	return raw
}

func request(t *testing.T, client *http.Client, method, url, token string, body any) ([]byte, int) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	return raw, resp.StatusCode
}

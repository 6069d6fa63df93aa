package httpserver

import (
	"net/http"
	"testing"
)

func createOpportunity(t *testing.T, server *Server, token string) string {
	t.Helper()
	rr := doRequest(server, http.MethodPost, "/api/organizations", token, `{"name":"Golden Fork Catering","segment":"caterer"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 org, got %d body=%s", rr.Code, rr.Body.String())
	}
	var org struct {
		Organization struct {
			OrgID string `json:"org_id"`
		} `json:"organization"`
	}
	decodeBody(t, rr, &org)

	rr = doRequest(server, http.MethodPost, "/api/opportunities", token, `{"org_id":"`+org.Organization.OrgID+`","title":"Weekly produce order","product_lines":["olive oil","produce"],"est_monthly_value":1500}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 opportunity, got %d body=%s", rr.Code, rr.Body.String())
	}
	var opp struct {
		Opportunity struct {
			OpportunityID string `json:"opportunity_id"`
			Stage         string `json:"stage"`
		} `json:"opportunity"`
	}
	decodeBody(t, rr, &opp)
	if opp.Opportunity.Stage != "lead" {
		t.Fatalf("expected a new opportunity to start at lead, got %q", opp.Opportunity.Stage)
	}
	return opp.Opportunity.OpportunityID
}

func advance(t *testing.T, server *Server, token, oppID, stage, note string) (int, string) {
	t.Helper()
	body := `{"stage":"` + stage + `"`
	if note != "" {
		body += `,"note":"` + note + `"`
	}
	body += `}`
	rr := doRequest(server, http.MethodPost, "/api/opportunities/"+oppID+"/advance", token, body)
	return rr.Code, rr.Body.String()
}

func TestOpportunityStageGuardrails(t *testing.T) {
	server := newTestServer()
	token := loginAs(t, server, "rep@relish.test")
	oppID := createOpportunity(t, server, token)

	if code, body := advance(t, server, token, oppID, "negotiation", ""); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 skipping stages, got %d body=%s", code, body)
	}
	if code, body := advance(t, server, token, oppID, "qualified", ""); code != http.StatusOK {
		t.Fatalf("expected 200 lead to qualified, got %d body=%s", code, body)
	}
	if code, body := advance(t, server, token, oppID, "lost", ""); code != http.StatusBadRequest {
		t.Fatalf("expected 400 losing without a reason, got %d body=%s", code, body)
	}
	if code, body := advance(t, server, token, oppID, "lost", "went with the incumbent"); code != http.StatusOK {
		t.Fatalf("expected 200 losing with a reason, got %d body=%s", code, body)
	}

	// Terminal stage freezes the record.
	rr := doRequest(server, http.MethodPut, "/api/opportunities/"+oppID, token, `{"title":"renamed"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 updating a closed opportunity, got %d body=%s", rr.Code, rr.Body.String())
	}
	if code, body := advance(t, server, token, oppID, "won", ""); code != http.StatusConflict {
		t.Fatalf("expected 409 advancing a closed opportunity, got %d body=%s", code, body)
	}
}

func TestWinningOpportunityRecordsHistory(t *testing.T) {
	server := newTestServer()
	token := loginAs(t, server, "rep@relish.test")
	oppID := createOpportunity(t, server, token)

	for _, stage := range []string{"qualified", "sampling", "negotiation", "won"} {
		if code, body := advance(t, server, token, oppID, stage, ""); code != http.StatusOK {
			t.Fatalf("advance to %s: expected 200, got %d body=%s", stage, code, body)
		}
	}

	rr := doRequest(server, http.MethodGet, "/api/opportunities/"+oppID+"/history", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 history, got %d body=%s", rr.Code, rr.Body.String())
	}
	var history struct {
		Items []struct {
			FromStage string `json:"from_stage"`
			ToStage   string `json:"to_stage"`
		} `json:"items"`
	}
	decodeBody(t, rr, &history)
	if len(history.Items) != 4 {
		t.Fatalf("expected 4 stage changes, got %d", len(history.Items))
	}
	last := history.Items[len(history.Items)-1]
	if last.ToStage != "won" {
		t.Fatalf("expected the final change to land on won, got %q", last.ToStage)
	}

	rr = doRequest(server, http.MethodGet, "/api/opportunities/summary", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 summary, got %d body=%s", rr.Code, rr.Body.String())
	}
	var summary struct {
		Items []struct {
			Stage string  `json:"stage"`
			Count int     `json:"count"`
			Value float64 `json:"value"`
		} `json:"items"`
	}
	decodeBody(t, rr, &summary)
	found := false
	for _, row := range summary.Items {
		if row.Stage == "won" {
			found = true
			if row.Count != 1 || row.Value != 1500 {
				t.Fatalf("unexpected won summary row: %+v", row)
			}
		}
	}
	if !found {
		t.Fatal("expected a won row in the pipeline summary")
	}
}

func TestInvoiceLifecycleOverHTTP(t *testing.T) {
	server := newTestServer()
	token := loginAs(t, server, "admin@relish.test")

	rr := doRequest(server, http.MethodPost, "/api/invoices", token, `{"org_id":"org_1","line_items":[{"description":"Olive oil, case","quantity":2,"unit_price":10}]}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 invoice, got %d body=%s", rr.Code, rr.Body.String())
	}
	var created struct {
		Invoice struct {
			InvoiceID string  `json:"invoice_id"`
			Number    string  `json:"number"`
			Subtotal  float64 `json:"subtotal"`
			Tax       float64 `json:"tax"`
			Total     float64 `json:"total"`
			Status    string  `json:"status"`
		} `json:"invoice"`
	}
	decodeBody(t, rr, &created)
	if created.Invoice.Status != "draft" {
		t.Fatalf("expected draft status, got %q", created.Invoice.Status)
	}
	if created.Invoice.Number == "" {
		t.Fatal("expected an assigned invoice number")
	}
	if created.Invoice.Subtotal != 20 || created.Invoice.Tax != 1.6 || created.Invoice.Total != 21.6 {
		t.Fatalf("unexpected totals: %+v", created.Invoice)
	}

	id := created.Invoice.InvoiceID
	rr = doRequest(server, http.MethodPost, "/api/invoices/"+id+"/pay", token, "")
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 paying a draft, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doRequest(server, http.MethodPost, "/api/invoices/"+id+"/issue", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 issue, got %d body=%s", rr.Code, rr.Body.String())
	}
	var issued struct {
		Invoice struct {
			Status   string `json:"status"`
			IssuedAt string `json:"issued_at"`
			DueAt    string `json:"due_at"`
		} `json:"invoice"`
	}
	decodeBody(t, rr, &issued)
	if issued.Invoice.Status != "issued" || issued.Invoice.IssuedAt == "" || issued.Invoice.DueAt == "" {
		t.Fatalf("unexpected issued invoice: %+v", issued.Invoice)
	}

	// Line items freeze once issued.
	rr = doRequest(server, http.MethodPut, "/api/invoices/"+id, token, `{"line_items":[{"description":"x","quantity":1,"unit_price":1}]}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 editing an issued invoice, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doRequest(server, http.MethodPost, "/api/invoices/"+id+"/pay", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 pay, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doRequest(server, http.MethodPost, "/api/invoices/"+id+"/void", token, "")
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 voiding a paid invoice, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	server := newTestServer()
	token := loginAs(t, server, "rep@relish.test")

	rr := doRequest(server, http.MethodGet, "/api/settings", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 defaults, got %d body=%s", rr.Code, rr.Body.String())
	}
	var defaults struct {
		Settings struct {
			UserID              string `json:"user_id"`
			Timezone            string `json:"timezone"`
			Currency            string `json:"currency"`
			DefaultPipelineView string `json:"default_pipeline_view"`
		} `json:"settings"`
	}
	decodeBody(t, rr, &defaults)
	if defaults.Settings.UserID != "user_rep_1" || defaults.Settings.Timezone != "UTC" || defaults.Settings.Currency != "USD" || defaults.Settings.DefaultPipelineView != "kanban" {
		t.Fatalf("unexpected defaults: %+v", defaults.Settings)
	}

	rr = doRequest(server, http.MethodPut, "/api/settings", token, `{"timezone":"Europe/Berlin","currency":"EUR","default_pipeline_view":"list"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 upsert, got %d body=%s", rr.Code, rr.Body.String())
	}
	var updated struct {
		Settings struct {
			Timezone            string `json:"timezone"`
			Currency            string `json:"currency"`
			DefaultPipelineView string `json:"default_pipeline_view"`
		} `json:"settings"`
	}
	decodeBody(t, rr, &updated)
	if updated.Settings.Timezone != "Europe/Berlin" || updated.Settings.Currency != "EUR" || updated.Settings.DefaultPipelineView != "list" {
		t.Fatalf("unexpected settings after upsert: %+v", updated.Settings)
	}

	rr = doRequest(server, http.MethodPut, "/api/settings", token, `{"timezone":"Mars/Olympus"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown timezone, got %d body=%s", rr.Code, rr.Body.String())
	}
}

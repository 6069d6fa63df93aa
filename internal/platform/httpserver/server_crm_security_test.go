package httpserver

import (
	"net/http"
	"testing"
	"time"
)

func TestOrganizationLifecycle(t *testing.T) {
	server := newTestServer()
	token := loginAs(t, server, "rep@relish.test")

	rr := doRequest(server, http.MethodPost, "/api/organizations", token, `{"name":"Blue Plate Diner","segment":"restaurant","cuisine":"american","city":"Portland"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var created struct {
		Organization struct {
			OrgID       string `json:"org_id"`
			Status      string `json:"status"`
			OwnerUserID string `json:"owner_user_id"`
		} `json:"organization"`
	}
	decodeBody(t, rr, &created)
	if created.Organization.OrgID == "" {
		t.Fatal("expected an org id")
	}
	if created.Organization.OwnerUserID != "user_rep_1" {
		t.Fatalf("expected creator as owner, got %q", created.Organization.OwnerUserID)
	}

	rr = doRequest(server, http.MethodGet, "/api/organizations/"+created.Organization.OrgID, token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 get, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doRequest(server, http.MethodGet, "/api/organizations?segment=restaurant&city=Portland", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 list, got %d body=%s", rr.Code, rr.Body.String())
	}
	var list struct {
		Items []struct {
			OrgID string `json:"org_id"`
		} `json:"items"`
	}
	decodeBody(t, rr, &list)
	if len(list.Items) != 1 || list.Items[0].OrgID != created.Organization.OrgID {
		t.Fatalf("expected the created org in the filtered list, got %+v", list.Items)
	}

	// Delete deactivates; the record stays readable.
	rr = doRequest(server, http.MethodDelete, "/api/organizations/"+created.Organization.OrgID, token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 deactivate, got %d body=%s", rr.Code, rr.Body.String())
	}
	var deactivated struct {
		Organization struct {
			Status string `json:"status"`
		} `json:"organization"`
	}
	decodeBody(t, rr, &deactivated)
	if deactivated.Organization.Status != "inactive" {
		t.Fatalf("expected inactive status, got %q", deactivated.Organization.Status)
	}
}

func TestOrganizationRejectsUnknownSegment(t *testing.T) {
	server := newTestServer()
	token := loginAs(t, server, "rep@relish.test")

	rr := doRequest(server, http.MethodPost, "/api/organizations", token, `{"name":"Mystery Biz","segment":"spaceport"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestContactPromotionKeepsSinglePrimary(t *testing.T) {
	server := newTestServer()
	token := loginAs(t, server, "rep@relish.test")

	rr := doRequest(server, http.MethodPost, "/api/organizations", token, `{"name":"Harvest Grocer","segment":"grocer"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 org, got %d body=%s", rr.Code, rr.Body.String())
	}
	var org struct {
		Organization struct {
			OrgID string `json:"org_id"`
		} `json:"organization"`
	}
	decodeBody(t, rr, &org)

	rr = doRequest(server, http.MethodPost, "/api/contacts", token, `{"org_id":"`+org.Organization.OrgID+`","first_name":"Pat","last_name":"Ng","is_primary":true}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 first contact, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr = doRequest(server, http.MethodPost, "/api/contacts", token, `{"org_id":"`+org.Organization.OrgID+`","first_name":"Sam","last_name":"Lee"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 second contact, got %d body=%s", rr.Code, rr.Body.String())
	}
	var second struct {
		Contact struct {
			ContactID string `json:"contact_id"`
		} `json:"contact"`
	}
	decodeBody(t, rr, &second)

	rr = doRequest(server, http.MethodPut, "/api/contacts/"+second.Contact.ContactID, token, `{"is_primary":true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 promote, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doRequest(server, http.MethodGet, "/api/organizations/"+org.Organization.OrgID+"/contacts", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 list, got %d body=%s", rr.Code, rr.Body.String())
	}
	var contacts struct {
		Items []struct {
			ContactID string `json:"contact_id"`
			IsPrimary bool   `json:"is_primary"`
		} `json:"items"`
	}
	decodeBody(t, rr, &contacts)
	primaries := 0
	for _, c := range contacts.Items {
		if c.IsPrimary {
			primaries++
			if c.ContactID != second.Contact.ContactID {
				t.Fatalf("expected %s as primary, got %s", second.Contact.ContactID, c.ContactID)
			}
		}
	}
	if primaries != 1 {
		t.Fatalf("expected exactly one primary contact, got %d", primaries)
	}
}

func TestTaskCompleteIsTerminal(t *testing.T) {
	server := newTestServer()
	token := loginAs(t, server, "rep@relish.test")

	dueAt := time.Now().UTC().Add(48 * time.Hour).Format(time.RFC3339)
	rr := doRequest(server, http.MethodPost, "/api/tasks", token, `{"assignee_user_id":"user_rep_1","title":"Drop off samples","due_at":"`+dueAt+`","priority":"high"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 task, got %d body=%s", rr.Code, rr.Body.String())
	}
	var created struct {
		Task struct {
			TaskID string `json:"task_id"`
		} `json:"task"`
	}
	decodeBody(t, rr, &created)

	rr = doRequest(server, http.MethodPost, "/api/tasks/"+created.Task.TaskID+"/complete", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 complete, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doRequest(server, http.MethodPost, "/api/tasks/"+created.Task.TaskID+"/complete", token, "")
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 on second complete, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestTaskListDefaultsToCaller(t *testing.T) {
	server := newTestServer()
	repToken := loginAs(t, server, "rep@relish.test")
	adminToken := loginAs(t, server, "admin@relish.test")

	dueAt := time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339)
	rr := doRequest(server, http.MethodPost, "/api/tasks", repToken, `{"assignee_user_id":"user_rep_1","title":"Call the cafe back","due_at":"`+dueAt+`"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 task, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doRequest(server, http.MethodGet, "/api/tasks", repToken, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var repList struct {
		Items []struct {
			AssigneeUserID string `json:"assignee_user_id"`
		} `json:"items"`
	}
	decodeBody(t, rr, &repList)
	if len(repList.Items) != 1 || repList.Items[0].AssigneeUserID != "user_rep_1" {
		t.Fatalf("expected the rep's own task, got %+v", repList.Items)
	}

	// The admin's own queue is empty, but the explicit filter works.
	rr = doRequest(server, http.MethodGet, "/api/tasks", adminToken, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var adminList struct {
		Items []struct{} `json:"items"`
	}
	decodeBody(t, rr, &adminList)
	if len(adminList.Items) != 0 {
		t.Fatalf("expected empty admin queue, got %d items", len(adminList.Items))
	}

	rr = doRequest(server, http.MethodGet, "/api/tasks?assignee=user_rep_1", adminToken, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	decodeBody(t, rr, &repList)
	if len(repList.Items) != 1 {
		t.Fatalf("expected one task via explicit assignee filter, got %d", len(repList.Items))
	}
}

func TestInteractionLoggedAgainstOrganization(t *testing.T) {
	server := newTestServer()
	token := loginAs(t, server, "rep@relish.test")

	rr := doRequest(server, http.MethodPost, "/api/organizations", token, `{"name":"Corner Cafe","segment":"cafe"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 org, got %d body=%s", rr.Code, rr.Body.String())
	}
	var org struct {
		Organization struct {
			OrgID string `json:"org_id"`
		} `json:"organization"`
	}
	decodeBody(t, rr, &org)

	rr = doRequest(server, http.MethodPost, "/api/interactions", token, `{"org_id":"`+org.Organization.OrgID+`","type":"tasting","subject":"Spring menu tasting","notes":"Chef liked the olive oil."}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 interaction, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doRequest(server, http.MethodPost, "/api/interactions", token, `{"org_id":"`+org.Organization.OrgID+`","type":"carrier_pigeon","subject":"nope"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doRequest(server, http.MethodGet, "/api/organizations/"+org.Organization.OrgID+"/interactions?type=tasting", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 list, got %d body=%s", rr.Code, rr.Body.String())
	}
	var list struct {
		Items []struct {
			Type string `json:"type"`
		} `json:"items"`
	}
	decodeBody(t, rr, &list)
	if len(list.Items) != 1 || list.Items[0].Type != "tasting" {
		t.Fatalf("expected one tasting interaction, got %+v", list.Items)
	}
}

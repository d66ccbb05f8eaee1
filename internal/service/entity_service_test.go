package service

import (
	"testing"

	"connectrpc.com/connect"
)

func TestPassengerLifecycle(t *testing.T) {
	ts := setupTestServer(t)

	id := ts.createdID("CreatePassenger", "passenger", map[string]any{
		"first_name": "Taras",
		"last_name":  "Shevchenko",
		"passport":   "UA-001",
		"is_student": true,
	})

	got := ts.mustCall(EntityServiceName, "GetPassenger", map[string]any{"id": id})
	p := got["passenger"].(map[string]any)
	if p["last_name"] != "Shevchenko" || p["is_student"] != true || p["is_kid"] != false {
		t.Errorf("GetPassenger = %v", p)
	}

	// Partial update keeps the fields that were not sent.
	updated := ts.mustCall(EntityServiceName, "UpdatePassenger", map[string]any{"id": id, "is_military": true})
	p = updated["passenger"].(map[string]any)
	if p["is_military"] != true || p["is_student"] != true || p["first_name"] != "Taras" {
		t.Errorf("UpdatePassenger = %v", p)
	}

	list := ts.mustCall(EntityServiceName, "ListPassengers", nil)
	if n := len(list["passengers"].([]any)); n != 1 {
		t.Errorf("ListPassengers returned %d passengers, want 1", n)
	}

	del := ts.mustCall(EntityServiceName, "DeletePassenger", map[string]any{"id": id})
	if del["deleted"] != true {
		t.Errorf("DeletePassenger = %v", del)
	}
	del = ts.mustCall(EntityServiceName, "DeletePassenger", map[string]any{"id": id})
	if del["deleted"] != false {
		t.Errorf("second DeletePassenger = %v, want deleted=false", del)
	}

	_, err := ts.call(EntityServiceName, "GetPassenger", map[string]any{"id": id})
	assertCode(t, err, connect.CodeNotFound)
}

func TestPassengerValidation(t *testing.T) {
	ts := setupTestServer(t)

	_, err := ts.call(EntityServiceName, "CreatePassenger", map[string]any{"last_name": "NoPassport"})
	assertCode(t, err, connect.CodeInvalidArgument)

	ts.createdID("CreatePassenger", "passenger", map[string]any{"last_name": "A", "passport": "DUP"})
	_, err = ts.call(EntityServiceName, "CreatePassenger", map[string]any{"last_name": "B", "passport": "DUP"})
	assertCode(t, err, connect.CodeAlreadyExists)

	_, err = ts.call(EntityServiceName, "UpdatePassenger", map[string]any{"id": "missing", "last_name": "X"})
	assertCode(t, err, connect.CodeNotFound)
}

func TestTrainLifecycle(t *testing.T) {
	ts := setupTestServer(t)

	id := ts.createdID("CreateTrain", "train", map[string]any{
		"train_number": "092K",
		"begin_point":  "Kyiv",
		"end_point":    "Lviv",
	})

	got := ts.mustCall(EntityServiceName, "GetTrain", map[string]any{"id": id})
	tr := got["train"].(map[string]any)
	if tr["route"] != "Kyiv -> Lviv" {
		t.Errorf("route = %v", tr["route"])
	}

	updated := ts.mustCall(EntityServiceName, "UpdateTrain", map[string]any{"id": id, "end_point": "Uzhhorod"})
	if updated["train"].(map[string]any)["route"] != "Kyiv -> Uzhhorod" {
		t.Errorf("UpdateTrain = %v", updated)
	}

	_, err := ts.call(EntityServiceName, "CreateTrain", map[string]any{"train_number": "092K"})
	assertCode(t, err, connect.CodeAlreadyExists)

	_, err = ts.call(EntityServiceName, "CreateTrain", map[string]any{"begin_point": "Kyiv"})
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestTrainPointsTrimmedForCityFilter(t *testing.T) {
	ts := setupTestServer(t)

	id := ts.createdID("CreateTrain", "train", map[string]any{
		"train_number": " 743K ",
		"begin_point":  " Kyiv",
		"end_point":    "Lviv ",
	})
	tr := ts.mustCall(EntityServiceName, "GetTrain", map[string]any{"id": id})["train"].(map[string]any)
	if tr["train_number"] != "743K" || tr["begin_point"] != "Kyiv" || tr["end_point"] != "Lviv" {
		t.Errorf("train stored untrimmed: %v", tr)
	}

	ts.mustCall(EntityServiceName, "UpdateTrain", map[string]any{"id": id, "begin_point": "Odesa  "})
	tr = ts.mustCall(EntityServiceName, "GetTrain", map[string]any{"id": id})["train"].(map[string]any)
	if tr["begin_point"] != "Odesa" {
		t.Errorf("begin_point after update = %q", tr["begin_point"])
	}

	passenger := ts.createdID("CreatePassenger", "passenger", map[string]any{"last_name": "Shevchenko", "passport": "S1"})
	ts.createdID("CreateTicket", "ticket", map[string]any{"passenger_id": passenger, "train_id": id, "base_fare": 100})

	out := ts.mustCall(ReportServiceName, "Overview", map[string]any{"city_filter": "Odesa"})
	routes, _ := out["routes"].([]any)
	if len(routes) != 1 {
		t.Errorf("city_filter=Odesa matched %d routes, want 1", len(routes))
	}
}

func TestTicketPricingOverRPC(t *testing.T) {
	ts := setupTestServer(t)

	passenger := ts.createdID("CreatePassenger", "passenger", map[string]any{
		"last_name": "Everything", "passport": "ALL",
		"is_student": true, "is_military": true, "is_kid": true,
	})
	plain := ts.createdID("CreatePassenger", "passenger", map[string]any{"last_name": "Plain", "passport": "PLN"})
	train := ts.createdID("CreateTrain", "train", map[string]any{"train_number": "001"})

	out := ts.mustCall(EntityServiceName, "CreateTicket", map[string]any{
		"passenger_id": passenger,
		"train_id":     train,
		"ticket_type":  "Lux",
		"base_fare":    100,
	})
	ticket := out["ticket"].(map[string]any)
	if got := num(t, ticket, "price"); got != 28 {
		t.Errorf("price = %v, want 28", got)
	}
	if ticket["ticket_type"] != "LX" || ticket["ticket_type_label"] != "Lux" {
		t.Errorf("class = %v/%v", ticket["ticket_type"], ticket["ticket_type_label"])
	}
	id := ticket["id"].(string)
	purchased := num(t, ticket, "date_purchased")

	// Repeated updates reprice from the base fare; the discount never compounds.
	for i := 0; i < 3; i++ {
		out = ts.mustCall(EntityServiceName, "UpdateTicket", map[string]any{"id": id, "ticket_type": "KP"})
		ticket = out["ticket"].(map[string]any)
		if got := num(t, ticket, "price"); got != 28 {
			t.Fatalf("update %d: price = %v, want 28", i, got)
		}
		if num(t, ticket, "date_purchased") != purchased {
			t.Fatalf("update %d changed date_purchased", i)
		}
	}

	// The pre-discount amount may also be sent as "price".
	out = ts.mustCall(EntityServiceName, "UpdateTicket", map[string]any{"id": id, "passenger_id": plain, "price": 250})
	ticket = out["ticket"].(map[string]any)
	if num(t, ticket, "price") != 250 || num(t, ticket, "base_fare") != 250 {
		t.Errorf("after passenger change: %v", ticket)
	}

	list := ts.mustCall(EntityServiceName, "ListTickets", nil)
	if n := len(list["tickets"].([]any)); n != 1 {
		t.Errorf("ListTickets returned %d tickets, want 1", n)
	}
}

func TestTicketValidation(t *testing.T) {
	ts := setupTestServer(t)
	passenger := ts.createdID("CreatePassenger", "passenger", map[string]any{"last_name": "P", "passport": "P1"})
	train := ts.createdID("CreateTrain", "train", map[string]any{"train_number": "001"})

	tests := []struct {
		name   string
		fields map[string]any
		code   connect.Code
	}{
		{"missing passenger", map[string]any{"train_id": train, "base_fare": 10}, connect.CodeInvalidArgument},
		{"missing fare", map[string]any{"passenger_id": passenger, "train_id": train}, connect.CodeInvalidArgument},
		{"negative fare", map[string]any{"passenger_id": passenger, "train_id": train, "base_fare": -1}, connect.CodeInvalidArgument},
		{"unknown class", map[string]any{"passenger_id": passenger, "train_id": train, "base_fare": 10, "ticket_type": "First"}, connect.CodeInvalidArgument},
		{"unknown passenger", map[string]any{"passenger_id": "ghost", "train_id": train, "base_fare": 10}, connect.CodeNotFound},
		{"unknown train", map[string]any{"passenger_id": passenger, "train_id": "ghost", "base_fare": 10}, connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.call(EntityServiceName, "CreateTicket", tt.fields)
			assertCode(t, err, tt.code)
		})
	}

	_, err := ts.call(EntityServiceName, "UpdateTicket", map[string]any{"id": "missing", "base_fare": 10})
	assertCode(t, err, connect.CodeNotFound)
}

func TestCascadeOverRPC(t *testing.T) {
	ts := setupTestServer(t)
	passenger := ts.createdID("CreatePassenger", "passenger", map[string]any{"last_name": "P", "passport": "P1"})
	train := ts.createdID("CreateTrain", "train", map[string]any{"train_number": "001"})
	ts.createdID("CreateTicket", "ticket", map[string]any{"passenger_id": passenger, "train_id": train, "base_fare": 10})

	ts.mustCall(EntityServiceName, "DeleteTrain", map[string]any{"id": train})

	list := ts.mustCall(EntityServiceName, "ListTickets", nil)
	if n := len(list["tickets"].([]any)); n != 0 {
		t.Errorf("tickets left after deleting their train: %d", n)
	}
}

func TestWritesRequireOperator(t *testing.T) {
	ts := setupTestServer(t)

	for _, method := range []string{
		"CreatePassenger", "UpdatePassenger", "DeletePassenger",
		"CreateTrain", "UpdateTrain", "DeleteTrain",
		"CreateTicket", "UpdateTicket", "DeleteTicket",
	} {
		t.Run(method, func(t *testing.T) {
			_, err := ts.callAs("", EntityServiceName, method, map[string]any{"id": "x"})
			assertCode(t, err, connect.CodeUnauthenticated)
		})
	}

	// Reads are public.
	if _, err := ts.callAs("", EntityServiceName, "ListTrains", nil); err != nil {
		t.Errorf("anonymous ListTrains failed: %v", err)
	}
}

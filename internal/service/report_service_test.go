package service

import (
	"testing"

	"connectrpc.com/connect"
)

// seedRevenue loads trains T1 (12 tickets, 500) and T2 (5 tickets, 800).
func seedRevenue(t *testing.T, ts *testServer) (passenger, t1, t2 string) {
	t.Helper()
	passenger = ts.createdID("CreatePassenger", "passenger", map[string]any{"last_name": "Koval", "passport": "K1"})
	t1 = ts.createdID("CreateTrain", "train", map[string]any{"train_number": "T1", "begin_point": "Kyiv", "end_point": "Lviv"})
	t2 = ts.createdID("CreateTrain", "train", map[string]any{"train_number": "T2", "begin_point": "Odesa", "end_point": "Kyiv"})

	sell := func(train string, fare float64, class string, n int) {
		for i := 0; i < n; i++ {
			ts.createdID("CreateTicket", "ticket", map[string]any{
				"passenger_id": passenger, "train_id": train, "base_fare": fare, "ticket_type": class,
			})
		}
	}
	sell(t1, 40, "PL", 10)
	sell(t1, 50, "KP", 2)
	sell(t2, 160, "LX", 5)
	return passenger, t1, t2
}

func TestRevenueByTrainDashboard(t *testing.T) {
	ts := setupTestServer(t)
	seedRevenue(t, ts)

	out := ts.mustCall(ReportServiceName, "RevenueByTrain", nil)

	raw := out["raw_data"].([]any)
	if len(raw) != 2 {
		t.Fatalf("raw_data has %d rows, want 2", len(raw))
	}
	first, second := raw[0].(map[string]any), raw[1].(map[string]any)
	if first["train_number"] != "T2" || second["train_number"] != "T1" {
		t.Errorf("order = %v, %v; want T2, T1", first["train_number"], second["train_number"])
	}
	if first["load_category"] != "Low" || second["load_category"] != "Medium" {
		t.Errorf("load categories = %v, %v; want Low, Medium", first["load_category"], second["load_category"])
	}

	stats := out["statistics"].(map[string]any)
	if num(t, stats, "max") != 800 || num(t, stats, "min") != 500 || num(t, stats, "mean") != 650 {
		t.Errorf("statistics = %v", stats)
	}

	grouped := out["grouped_analysis"].([]any)
	if len(grouped) != 3 {
		t.Fatalf("grouped_analysis = %v", grouped)
	}
	if g := grouped[0].(map[string]any); g["load_category"] != "Low" || num(t, g, "total_revenue") != 800 {
		t.Errorf("Low group = %v", g)
	}

	filtered := ts.mustCall(ReportServiceName, "RevenueByTrain", map[string]any{"min_revenue": "600"})
	if n := len(filtered["raw_data"].([]any)); n != 1 {
		t.Errorf("min_revenue=600 kept %d trains, want 1", n)
	}
}

func TestReportCacheInvalidatedByWrites(t *testing.T) {
	ts := setupTestServer(t)
	passenger, _, t2 := seedRevenue(t, ts)

	before := ts.mustCall(ReportServiceName, "TicketSummary", nil)
	if num(t, before, "total_tickets") != 17 {
		t.Fatalf("summary = %v", before)
	}

	// Second read is served from cache.
	ts.mustCall(ReportServiceName, "TicketSummary", nil)

	ts.createdID("CreateTicket", "ticket", map[string]any{"passenger_id": passenger, "train_id": t2, "base_fare": 100})

	after := ts.mustCall(ReportServiceName, "TicketSummary", nil)
	if num(t, after, "total_tickets") != 18 || num(t, after, "total_income") != 1400 {
		t.Errorf("summary after write = %v, want 18 tickets and 1400 income", after)
	}
}

func TestTicketSummaryRequiresOperator(t *testing.T) {
	ts := setupTestServer(t)
	_, err := ts.callAs("", ReportServiceName, "TicketSummary", nil)
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestDashboardsOnEmptyStore(t *testing.T) {
	ts := setupTestServer(t)

	for _, method := range []string{
		"RevenueByTrain", "TopSpendingPassengers", "TicketClassDistribution",
		"AveragePricePerRoute", "SocialStats", "LuxuryOnlyPassengers",
	} {
		t.Run(method, func(t *testing.T) {
			out := ts.mustCall(ReportServiceName, method, nil)
			stats, ok := out["statistics"].(map[string]any)
			if !ok {
				t.Fatalf("no statistics in %v", out)
			}
			for _, k := range []string{"mean", "median", "min", "max"} {
				if num(t, stats, k) != 0 {
					t.Errorf("%s = %v, want 0", k, stats[k])
				}
			}
			if msg, _ := out["message"].(string); msg == "" {
				t.Error("expected a message on an empty dashboard")
			}
		})
	}

	summary := ts.mustCall(ReportServiceName, "TicketSummary", nil)
	if num(t, summary, "total_tickets") != 0 || num(t, summary, "average_price") != 0 {
		t.Errorf("empty summary = %v", summary)
	}
}

func TestSpendersClassesAndLuxury(t *testing.T) {
	ts := setupTestServer(t)
	train := ts.createdID("CreateTrain", "train", map[string]any{"train_number": "100", "begin_point": "Kyiv", "end_point": "Lviv"})

	big := ts.createdID("CreatePassenger", "passenger", map[string]any{"last_name": "Big", "passport": "B"})
	small := ts.createdID("CreatePassenger", "passenger", map[string]any{"last_name": "Small", "passport": "S"})
	mixed := ts.createdID("CreatePassenger", "passenger", map[string]any{"last_name": "Mixed", "passport": "M"})

	sell := func(p string, fare float64, class string) {
		ts.createdID("CreateTicket", "ticket", map[string]any{
			"passenger_id": p, "train_id": train, "base_fare": fare, "ticket_type": class,
		})
	}
	sell(big, 500, "LX")
	sell(big, 500, "LX")
	sell(big, 0.01, "LX")
	sell(small, 999, "LX")
	sell(mixed, 10, "LX")
	sell(mixed, 10, "LX")
	sell(mixed, 10, "KP")

	spenders := ts.mustCall(ReportServiceName, "TopSpendingPassengers", map[string]any{"min_spent": 1000})
	top := spenders["top_list"].([]any)
	if len(top) != 1 {
		t.Fatalf("top_list = %v, want only Big", top)
	}
	row := top[0].(map[string]any)
	if row["last_name"] != "Big" || num(t, row, "trips_count") != 3 {
		t.Errorf("top spender = %v", row)
	}
	if got, want := num(t, row, "avg_check"), num(t, row, "total_spent")/3; got != want {
		t.Errorf("avg_check = %v, want %v", got, want)
	}

	luxury := ts.mustCall(ReportServiceName, "LuxuryOnlyPassengers", nil)
	passengers := luxury["passengers"].([]any)
	if len(passengers) != 2 {
		t.Fatalf("luxury passengers = %v, want Big and Small", passengers)
	}
	for _, p := range passengers {
		p := p.(map[string]any)
		switch p["last_name"] {
		case "Big":
			if num(t, p, "lux_tickets") != 3 || p["loyalty"] != "Regular" {
				t.Errorf("Big = %v", p)
			}
		case "Small":
			if p["loyalty"] != "One-time" {
				t.Errorf("Small = %v", p)
			}
		default:
			t.Errorf("unexpected luxury passenger %v", p)
		}
	}

	classes := ts.mustCall(ReportServiceName, "TicketClassDistribution", nil)
	totals := classes["total_for_class"].(map[string]any)
	if num(t, totals, "lux_count") != 6 || num(t, totals, "kupe_count") != 1 {
		t.Errorf("total_for_class = %v", totals)
	}
	raw := classes["raw_data"].([]any)[0].(map[string]any)
	if raw["dominant_class"] != "lux_count" || num(t, raw, "total_seats") != 7 {
		t.Errorf("class row = %v", raw)
	}
}

func TestOverviewAndCities(t *testing.T) {
	ts := setupTestServer(t)
	seedRevenue(t, ts)

	cities := ts.mustCall(ReportServiceName, "DepartureCities", nil)
	list := cities["cities"].([]any)
	if len(list) != 2 || list[0] != "Kyiv" || list[1] != "Odesa" {
		t.Errorf("cities = %v", list)
	}

	out := ts.mustCall(ReportServiceName, "Overview", map[string]any{"city_filter": "Odesa", "search_query": "kov"})
	routes := out["routes"].([]any)
	if len(routes) != 1 || routes[0].(map[string]any)["begin_point"] != "Odesa" {
		t.Errorf("routes = %v", routes)
	}
	if n := len(out["top_spenders"].([]any)); n != 1 {
		t.Errorf("top_spenders = %d rows, want 1", n)
	}
	if n := len(out["revenue"].([]any)); n != 2 {
		t.Errorf("revenue = %d rows, want 2", n)
	}
	filters := out["filters"].(map[string]any)
	if filters["city_filter"] != "Odesa" {
		t.Errorf("filters = %v", filters)
	}
}

func TestReportProceduresMounted(t *testing.T) {
	ts := setupTestServer(t)
	for _, method := range []string{"SocialStats", "AveragePricePerRoute"} {
		out := ts.mustCall(ReportServiceName, method, nil)
		if _, ok := out["statistics"]; !ok {
			t.Errorf("%s returned %v", method, out)
		}
	}
}

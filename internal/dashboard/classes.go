package dashboard

import (
	"sort"

	"github.com/mmynk/railstats/internal/calculator"
	"github.com/mmynk/railstats/internal/reports"
)

// classColumns is the fixed tie-break order for the dominant class.
var classColumns = []string{
	reports.FieldPlazkartCount,
	reports.FieldKupeCount,
	reports.FieldLuxCount,
}

// DominantClass returns the class column with the strictly largest count.
// On a tie the earlier column in plazkart, kupe, lux order wins.
func DominantClass(row reports.Row) string {
	best := classColumns[0]
	bestCount := row.Int(best)
	for _, col := range classColumns[1:] {
		if n := row.Int(col); n > bestCount {
			best, bestCount = col, n
		}
	}
	return best
}

// ClassDominance counts the trains dominated by one class.
type ClassDominance struct {
	TicketType string `json:"ticket_type"`
	TrainCount int    `json:"train_count"`
}

// ClassPayload is the TicketClassDistributionByTrain dashboard.
type ClassPayload struct {
	Statistics     calculator.Statistics `json:"statistics"`
	TotalForClass  map[string]int        `json:"total_for_class"`
	ClassDominance []ClassDominance      `json:"class_dominance"`
	RawData        []reports.Row         `json:"raw_data"`
	Message        string                `json:"message,omitempty"`
}

// ClassDistribution adds dominant_class and total_seats to every row,
// describes total_seats, totals each class and counts dominant classes.
func ClassDistribution(rows []reports.Row) ClassPayload {
	payload := ClassPayload{
		TotalForClass: make(map[string]int, len(classColumns)),
		RawData:       cloneRows(rows),
	}
	for _, col := range classColumns {
		payload.TotalForClass[col] = 0
	}

	dominance := make(map[string]int)
	for _, row := range payload.RawData {
		total := 0
		for _, col := range classColumns {
			n := row.Int(col)
			total += n
			payload.TotalForClass[col] += n
		}
		row[FieldTotalSeats] = total

		dominant := DominantClass(row)
		row[FieldDominantClass] = dominant
		dominance[dominant]++
	}

	payload.Statistics = Statistics(payload.RawData, FieldTotalSeats)

	payload.ClassDominance = make([]ClassDominance, 0, len(dominance))
	for _, col := range classColumns {
		if n := dominance[col]; n > 0 {
			payload.ClassDominance = append(payload.ClassDominance, ClassDominance{TicketType: col, TrainCount: n})
		}
	}
	sort.SliceStable(payload.ClassDominance, func(i, j int) bool {
		return payload.ClassDominance[i].TrainCount > payload.ClassDominance[j].TrainCount
	})

	if len(rows) == 0 {
		payload.Message = msgNoData
	}
	return payload
}

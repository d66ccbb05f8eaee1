package dashboard

import (
	"github.com/mmynk/railstats/internal/calculator"
	"github.com/mmynk/railstats/internal/reports"
)

// SocialInsight names the train carrying the most students.
type SocialInsight struct {
	MostStudentTrain string `json:"most_student_train"`
	StudentCount     int    `json:"student_count"`
}

// SocialPayload is the SocialStatsByTrain dashboard.
type SocialPayload struct {
	Statistics calculator.Statistics `json:"statistics"`
	Insight    SocialInsight         `json:"insight"`
	RawData    []reports.Row         `json:"raw_data"`
	Message    string                `json:"message,omitempty"`
}

// SocialPercentage is the share of benefit holders on a train, in percent,
// rounded to 2 places. Zero passengers yields 0.
func SocialPercentage(military, student, total int) float64 {
	return calculator.Round2(calculator.SafeDiv(float64(military+student), float64(total)) * 100)
}

// Social adds social_percentage to every row, describes it, and picks the
// train with the highest student_count (the first one on a tie).
func Social(rows []reports.Row) SocialPayload {
	payload := SocialPayload{RawData: cloneRows(rows)}

	best := -1
	for i, row := range payload.RawData {
		row[FieldSocialPercentage] = SocialPercentage(
			row.Int(reports.FieldMilitaryCount),
			row.Int(reports.FieldStudentCount),
			row.Int(reports.FieldTotalPassengers),
		)
		if best < 0 || row.Int(reports.FieldStudentCount) > payload.RawData[best].Int(reports.FieldStudentCount) {
			best = i
		}
	}

	payload.Statistics = Statistics(payload.RawData, FieldSocialPercentage)
	if best >= 0 {
		payload.Insight = SocialInsight{
			MostStudentTrain: payload.RawData[best].String(reports.FieldTrainNumber),
			StudentCount:     payload.RawData[best].Int(reports.FieldStudentCount),
		}
	} else {
		payload.Message = msgNoData
	}
	return payload
}

package domain

import (
	"time"
)

// Severity classifies a ValidationIssue
type Severity string

const (
	// SeverityError marks a value that could not be trusted and was zeroed
	SeverityError Severity = "error"
	// SeverityWarning marks a value that was corrected but is still usable
	SeverityWarning Severity = "warning"
	// SeverityInfo marks a cosmetic substitution
	SeverityInfo Severity = "info"
)

// ValidationIssue describes one problem found while cleaning one row.
// Row is 1-based and counts the header, so the first data row is 2.
type ValidationIssue struct {
	Row            int      `json:"row"`
	Column         string   `json:"column"`
	Message        string   `json:"message"`
	Severity       Severity `json:"severity"`
	OriginalValue  *string  `json:"originalValue,omitempty"`
	CorrectedValue *string  `json:"correctedValue,omitempty"`
}

// CleanedRecord is the canonical form of one input row
type CleanedRecord struct {
	OrderID            string    `json:"orderId"`
	RestaurantName     string    `json:"restaurantName"`
	RestaurantAvgTime  float64   `json:"restaurantAvgTime"`
	Location           string    `json:"location"`
	OrderTime          time.Time `json:"orderTime"`
	DeliveryTime       time.Time `json:"deliveryTime"`
	DeliveryDuration   float64   `json:"deliveryDuration"`
	EstimatedDuration  float64   `json:"estimatedDuration"`
	PizzaSize          string    `json:"pizzaSize"`
	PizzaType          string    `json:"pizzaType"`
	ToppingDensity     float64   `json:"toppingDensity"`
	ToppingsCount      int       `json:"toppingsCount"`
	DistanceKm         float64   `json:"distanceKm"`
	TrafficLevel       string    `json:"trafficLevel"`
	TrafficImpact      int       `json:"trafficImpact"`
	PaymentMethod      string    `json:"paymentMethod"`
	PaymentCategory    string    `json:"paymentCategory"`
	IsPeakHour         bool      `json:"isPeakHour"`
	IsWeekend          bool      `json:"isWeekend"`
	IsDelayed          bool      `json:"isDelayed"`
	DelayMinutes       float64   `json:"delayMinutes"`
	OrderMonth         string    `json:"orderMonth"`
	OrderHour          int       `json:"orderHour"`
	DeliveryEfficiency float64   `json:"deliveryEfficiency"`
	QualityScore       int       `json:"qualityScore"`
}

// CleaningResult is the full output of one cleaning call
type CleaningResult struct {
	Records      []CleanedRecord   `json:"records"`
	Issues       []ValidationIssue `json:"issues"`
	QualityScore float64           `json:"qualityScore"`
}

// ErrorCount returns the number of error-severity issues
func (r *CleaningResult) ErrorCount() int { return r.countSeverity(SeverityError) }

// WarningCount returns the number of warning-severity issues
func (r *CleaningResult) WarningCount() int { return r.countSeverity(SeverityWarning) }

// InfoCount returns the number of info-severity issues
func (r *CleaningResult) InfoCount() int { return r.countSeverity(SeverityInfo) }

func (r *CleaningResult) countSeverity(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// FilterByScore returns the records whose score is at least min, in order
func (r *CleaningResult) FilterByScore(min int) []CleanedRecord {
	out := make([]CleanedRecord, 0, len(r.Records))
	for _, rec := range r.Records {
		if rec.QualityScore >= min {
			out = append(out, rec)
		}
	}
	return out
}

// IssuesForRow returns the issues raised for one 1-based row number
func (r *CleaningResult) IssuesForRow(row int) []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range r.Issues {
		if issue.Row == row {
			out = append(out, issue)
		}
	}
	return out
}

// CleaningSummary is the compact view returned alongside results
type CleaningSummary struct {
	TotalRows    int     `json:"totalRows"`
	Accepted     int     `json:"accepted"`
	Errors       int     `json:"errors"`
	Warnings     int     `json:"warnings"`
	Infos        int     `json:"infos"`
	QualityScore float64 `json:"qualityScore"`
	MinScore     int     `json:"minScore"`
}

// Summarize counts the result against an acceptance threshold
func (r *CleaningResult) Summarize(minScore int) CleaningSummary {
	return CleaningSummary{
		TotalRows:    len(r.Records),
		Accepted:     len(r.FilterByScore(minScore)),
		Errors:       r.ErrorCount(),
		Warnings:     r.WarningCount(),
		Infos:        r.InfoCount(),
		QualityScore: r.QualityScore,
		MinScore:     minScore,
	}
}

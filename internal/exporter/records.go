package exporter

import (
	"salespulse/pkg/contracts/domain"
)

// QualityScoreHeader labels the per-record score column
const QualityScoreHeader = "Quality Score"

// RecordHeaders is the column order used for every cleaned record export
var RecordHeaders = []string{
	domain.FieldOrderID,
	domain.FieldRestaurantName,
	domain.FieldRestaurantAvgTime,
	domain.FieldLocation,
	domain.FieldOrderTime,
	domain.FieldDeliveryTime,
	domain.FieldDeliveryDuration,
	domain.FieldEstimatedDuration,
	domain.FieldPizzaSize,
	domain.FieldPizzaType,
	domain.FieldToppingDensity,
	domain.FieldToppingsCount,
	domain.FieldDistance,
	domain.FieldTrafficLevel,
	domain.FieldTrafficImpact,
	domain.FieldPaymentMethod,
	domain.FieldPaymentCategory,
	domain.FieldIsPeakHour,
	domain.FieldIsWeekend,
	domain.FieldIsDelayed,
	domain.FieldDelayMinutes,
	domain.FieldOrderMonth,
	domain.FieldOrderHour,
	domain.FieldDeliveryEfficiency,
	QualityScoreHeader,
}

// IssueHeaders is the column order of the issues export
var IssueHeaders = []string{"Row", "Column", "Severity", "Message", "Original Value", "Corrected Value"}

// recordCells returns the typed cell values of one record in RecordHeaders order
func recordCells(rec domain.CleanedRecord) []interface{} {
	return []interface{}{
		rec.OrderID,
		rec.RestaurantName,
		rec.RestaurantAvgTime,
		rec.Location,
		rec.OrderTime,
		rec.DeliveryTime,
		rec.DeliveryDuration,
		rec.EstimatedDuration,
		rec.PizzaSize,
		rec.PizzaType,
		rec.ToppingDensity,
		rec.ToppingsCount,
		rec.DistanceKm,
		rec.TrafficLevel,
		rec.TrafficImpact,
		rec.PaymentMethod,
		rec.PaymentCategory,
		rec.IsPeakHour,
		rec.IsWeekend,
		rec.IsDelayed,
		rec.DelayMinutes,
		rec.OrderMonth,
		rec.OrderHour,
		rec.DeliveryEfficiency,
		rec.QualityScore,
	}
}

// RecordRow renders one record as CSV fields in RecordHeaders order
func RecordRow(rec domain.CleanedRecord) []string {
	return []string{
		rec.OrderID,
		rec.RestaurantName,
		formatFloat(rec.RestaurantAvgTime),
		rec.Location,
		formatTime(rec.OrderTime),
		formatTime(rec.DeliveryTime),
		formatFloat(rec.DeliveryDuration),
		formatFloat(rec.EstimatedDuration),
		rec.PizzaSize,
		rec.PizzaType,
		formatFloat(rec.ToppingDensity),
		formatInt(int64(rec.ToppingsCount)),
		formatFloat(rec.DistanceKm),
		rec.TrafficLevel,
		formatInt(int64(rec.TrafficImpact)),
		rec.PaymentMethod,
		rec.PaymentCategory,
		formatBool(rec.IsPeakHour),
		formatBool(rec.IsWeekend),
		formatBool(rec.IsDelayed),
		formatFloat(rec.DelayMinutes),
		rec.OrderMonth,
		formatInt(int64(rec.OrderHour)),
		formatFloat(rec.DeliveryEfficiency),
		formatInt(int64(rec.QualityScore)),
	}
}

// IssueRow renders one validation issue as CSV fields in IssueHeaders order
func IssueRow(issue domain.ValidationIssue) []string {
	return []string{
		formatInt(int64(issue.Row)),
		issue.Column,
		string(issue.Severity),
		issue.Message,
		deref(issue.OriginalValue),
		deref(issue.CorrectedValue),
	}
}

// ForecastHeaders is the column order of a forecast table
var ForecastHeaders = []string{"Period", "Actual", "Fitted", "Forecast"}

// ForecastRows lays a forecast out as a table: one row per historical period
// with actual and fitted values, then one "Forecast N" row per horizon step.
func ForecastRows(result *domain.ForecastResult) [][]string {
	if result == nil {
		return nil
	}

	rows := make([][]string, 0, len(result.Historical)+len(result.Forecast))
	for _, h := range result.Historical {
		rows = append(rows, []string{h.Period, formatFloat(h.Actual), formatFloat(h.Fitted), ""})
	}
	for i, label := range result.ForecastLabels() {
		rows = append(rows, []string{label, "", "", formatFloat(result.Forecast[i])})
	}
	return rows
}

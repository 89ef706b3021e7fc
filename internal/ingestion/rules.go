package ingestion

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"salespulse/internal/dataprocessing"
	"salespulse/pkg/contracts/domain"
)

// Penalties subtracted from a row's score of 100
const (
	penaltySynthesized = 10 // required value replaced by a generated or clock-based default
	penaltyUntrusted   = 10 // numeric value that downstream arithmetic cannot use
	penaltyDefaulted   = 5  // required value missing and bucketed or defaulted
	penaltyCorrected   = 5  // value present but malformed or inconsistent
	penaltyUnmatched   = 3  // enumeration value outside the vocabulary
)

const (
	maxScore = 100
	// deliveryOffset is added to the order time when the delivery time is unusable
	deliveryOffset = 30 * time.Minute
	// defaultDistanceKm replaces a missing or non-positive distance
	defaultDistanceKm = 1.0
	// minTrafficImpact and maxTrafficImpact bound the traffic impact rank
	minTrafficImpact = 1
	maxTrafficImpact = 3
)

type rowOutcome struct {
	record domain.CleanedRecord
	issues []domain.ValidationIssue
}

// rowCleaner accumulates the issues and running score of one row
type rowCleaner struct {
	row     int
	raw     domain.RawRecord
	mapping domain.ColumnMapping
	score   int
	issues  []domain.ValidationIssue
}

func (rc *rowCleaner) value(field string) domain.RawValue {
	return rc.raw.Lookup(rc.mapping, field)
}

func (rc *rowCleaner) flag(field string, severity domain.Severity, penalty int, message string, original domain.RawValue, corrected string) {
	issue := domain.ValidationIssue{
		Row:            rc.row,
		Column:         field,
		Message:        message,
		Severity:       severity,
		CorrectedValue: &corrected,
	}
	if !original.IsEmpty() {
		text := dataprocessing.ToText(original)
		issue.OriginalValue = &text
	}
	rc.issues = append(rc.issues, issue)
	rc.score = max(0, rc.score-penalty)
}

// cleanRow applies every field rule to one row. Rules never abort; each
// failure records an issue, substitutes a default and moves on.
func cleanRow(index int, raw domain.RawRecord, mapping domain.ColumnMapping, now time.Time, ids IDGenerator) rowOutcome {
	rc := &rowCleaner{
		row:     index + firstDataRow,
		raw:     raw,
		mapping: mapping,
		score:   maxScore,
	}

	var rec domain.CleanedRecord

	rec.OrderID = rc.orderID(ids(index))
	rec.RestaurantName = rc.requiredText(domain.FieldRestaurantName)
	rec.RestaurantAvgTime = rc.optionalNumber(domain.FieldRestaurantAvgTime)
	rec.Location = rc.requiredText(domain.FieldLocation)
	rec.OrderTime = rc.orderTime(now)
	rec.DeliveryTime = rc.deliveryTime(rec.OrderTime)
	rec.DeliveryDuration = rc.deliveryDuration()
	rec.EstimatedDuration = rc.optionalNumber(domain.FieldEstimatedDuration)
	rec.PizzaSize = rc.enum(domain.FieldPizzaSize, PizzaSizes)
	rec.PizzaType = rc.enum(domain.FieldPizzaType, PizzaTypes)
	rec.ToppingDensity = rc.optionalNumber(domain.FieldToppingDensity)
	rec.ToppingsCount = rc.toppingsCount()
	rec.DistanceKm = rc.distance()
	rec.TrafficLevel = rc.enum(domain.FieldTrafficLevel, TrafficLevels)
	rec.TrafficImpact = rc.trafficImpact(rec.TrafficLevel)
	rec.PaymentMethod = rc.enum(domain.FieldPaymentMethod, PaymentMethods)
	rec.PaymentCategory = rc.paymentCategory(rec.PaymentMethod)
	rec.OrderHour = rec.OrderTime.Hour()
	rec.IsPeakHour = rc.boolOr(domain.FieldIsPeakHour, IsPeakHour(rec.OrderHour))
	rec.IsWeekend = rc.boolOr(domain.FieldIsWeekend, IsWeekend(rec.OrderTime))
	rec.DelayMinutes = rc.delay(rec.DeliveryDuration, rec.EstimatedDuration)
	rec.IsDelayed = dataprocessing.ToBool(rc.value(domain.FieldIsDelayed)) || rec.DelayMinutes > 0
	rec.OrderMonth = rc.orderMonth(rec.OrderTime)
	rec.DeliveryEfficiency = round2(rec.DeliveryDuration / rec.DistanceKm)
	rec.QualityScore = rc.score

	return rowOutcome{record: rec, issues: rc.issues}
}

func (rc *rowCleaner) orderID(token string) string {
	raw := rc.value(domain.FieldOrderID)
	id := normalizeOrderID(dataprocessing.ToText(raw))

	if id == "" {
		generated := "ORD-" + token
		rc.flag(domain.FieldOrderID, domain.SeverityWarning, penaltySynthesized,
			"Order ID is missing; generated a synthetic ID", raw, generated)
		return generated
	}

	unique := id + "-" + token
	if !orderIDPattern.MatchString(id) {
		rc.flag(domain.FieldOrderID, domain.SeverityWarning, penaltyCorrected,
			fmt.Sprintf("Order ID %q does not match the expected prefix and digits format", id), raw, unique)
	}
	return unique
}

func (rc *rowCleaner) requiredText(field string) string {
	raw := rc.value(field)
	text := dataprocessing.ToText(raw)
	if text == "" {
		rc.flag(field, domain.SeverityWarning, penaltyDefaulted,
			field+" is missing", raw, Unknown)
		return Unknown
	}
	return text
}

func (rc *rowCleaner) optionalNumber(field string) float64 {
	f, ok := dataprocessing.ToFloat(rc.value(field))
	if !ok {
		return 0
	}
	return f
}

func (rc *rowCleaner) orderTime(now time.Time) time.Time {
	raw := rc.value(domain.FieldOrderTime)
	if t, ok := dataprocessing.ToTime(raw); ok {
		return t
	}

	corrected := now.Format(time.RFC3339)
	if raw.IsEmpty() {
		rc.flag(domain.FieldOrderTime, domain.SeverityWarning, penaltySynthesized,
			"Order Time is missing; using the processing time", raw, corrected)
	} else {
		rc.flag(domain.FieldOrderTime, domain.SeverityWarning, penaltySynthesized,
			"Order Time could not be parsed; using the processing time", raw, corrected)
	}
	return now
}

func (rc *rowCleaner) deliveryTime(order time.Time) time.Time {
	raw := rc.value(domain.FieldDeliveryTime)
	fallback := order.Add(deliveryOffset)
	corrected := fallback.Format(time.RFC3339)

	t, ok := dataprocessing.ToTime(raw)
	switch {
	case !ok && raw.IsEmpty():
		rc.flag(domain.FieldDeliveryTime, domain.SeverityWarning, penaltyCorrected,
			"Delivery Time is missing; assuming 30 minutes after the order", raw, corrected)
		return fallback
	case !ok:
		rc.flag(domain.FieldDeliveryTime, domain.SeverityWarning, penaltyCorrected,
			"Delivery Time could not be parsed; assuming 30 minutes after the order", raw, corrected)
		return fallback
	case t.Before(order):
		rc.flag(domain.FieldDeliveryTime, domain.SeverityWarning, penaltyCorrected,
			"Delivery Time is before Order Time; assuming 30 minutes after the order", raw, corrected)
		return fallback
	}
	return t
}

func (rc *rowCleaner) deliveryDuration() float64 {
	raw := rc.value(domain.FieldDeliveryDuration)
	f, ok := dataprocessing.ToFloat(raw)

	switch {
	case raw.IsEmpty():
		rc.flag(domain.FieldDeliveryDuration, domain.SeverityError, penaltyUntrusted,
			"Delivery Duration is missing", raw, "0")
	case !ok:
		rc.flag(domain.FieldDeliveryDuration, domain.SeverityError, penaltyUntrusted,
			"Delivery Duration is not a number", raw, "0")
	case f <= 0:
		rc.flag(domain.FieldDeliveryDuration, domain.SeverityError, penaltyUntrusted,
			"Delivery Duration must be greater than zero", raw, "0")
	default:
		return f
	}
	return 0
}

func (rc *rowCleaner) distance() float64 {
	raw := rc.value(domain.FieldDistance)
	f, ok := dataprocessing.ToFloat(raw)
	corrected := strconv.FormatFloat(defaultDistanceKm, 'f', 1, 64)

	switch {
	case raw.IsEmpty():
		rc.flag(domain.FieldDistance, domain.SeverityWarning, penaltyDefaulted,
			"Distance is missing; using 1 km", raw, corrected)
	case !ok:
		rc.flag(domain.FieldDistance, domain.SeverityWarning, penaltyDefaulted,
			"Distance is not a number; using 1 km", raw, corrected)
	case f <= 0:
		rc.flag(domain.FieldDistance, domain.SeverityWarning, penaltyDefaulted,
			"Distance must be greater than zero; using 1 km", raw, corrected)
	default:
		return f
	}
	return defaultDistanceKm
}

func (rc *rowCleaner) enum(field string, vocab *Vocabulary) string {
	raw := rc.value(field)
	if raw.IsEmpty() {
		rc.flag(field, domain.SeverityWarning, penaltyDefaulted,
			field+" is missing", raw, Unknown)
		return Unknown
	}

	canonical, ok := vocab.Match(dataprocessing.ToText(raw))
	if !ok {
		rc.flag(field, domain.SeverityWarning, penaltyUnmatched,
			fmt.Sprintf("%q is not a recognised %s", dataprocessing.ToText(raw), vocab.Name), raw, Unknown)
		return Unknown
	}
	return canonical
}

func (rc *rowCleaner) toppingsCount() int {
	raw := rc.value(domain.FieldToppingsCount)
	if raw.IsEmpty() {
		rc.flag(domain.FieldToppingsCount, domain.SeverityWarning, penaltyDefaulted,
			"Toppings Count is missing", raw, "0")
		return 0
	}

	n, ok := dataprocessing.ToInt(raw)
	if !ok || n < 0 {
		rc.flag(domain.FieldToppingsCount, domain.SeverityWarning, penaltyUnmatched,
			"Toppings Count must be a whole number of zero or more", raw, "0")
		return 0
	}
	return n
}

// trafficImpact clamps an explicit rank silently; without one it follows the level
func (rc *rowCleaner) trafficImpact(level string) int {
	if n, ok := dataprocessing.ToInt(rc.value(domain.FieldTrafficImpact)); ok {
		return min(max(n, minTrafficImpact), maxTrafficImpact)
	}
	return trafficImpact[level]
}

func (rc *rowCleaner) paymentCategory(method string) string {
	if category, ok := MatchPaymentCategory(dataprocessing.ToText(rc.value(domain.FieldPaymentCategory))); ok {
		return category
	}
	return PaymentCategoryFor(method)
}

func (rc *rowCleaner) boolOr(field string, derived bool) bool {
	raw := rc.value(field)
	if raw.IsEmpty() {
		return derived
	}
	return dataprocessing.ToBool(raw)
}

// delay prefers an explicit value; otherwise it is the overrun against the
// estimate, and zero when either duration is unknown.
func (rc *rowCleaner) delay(duration, estimated float64) float64 {
	if f, ok := dataprocessing.ToFloat(rc.value(domain.FieldDelayMinutes)); ok {
		return math.Max(0, f)
	}
	if duration <= 0 || estimated <= 0 {
		return 0
	}
	return math.Max(0, duration-estimated)
}

func (rc *rowCleaner) orderMonth(order time.Time) string {
	derived := order.Month().String()
	raw := rc.value(domain.FieldOrderMonth)
	if raw.IsEmpty() {
		return derived
	}

	if month, ok := MatchMonth(dataprocessing.ToText(raw)); ok {
		return month
	}
	rc.flag(domain.FieldOrderMonth, domain.SeverityInfo, 0,
		"Order Month not recognised; derived from Order Time", raw, derived)
	return derived
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

package forecasting

// Fixed smoothing parameters. They are not tuned per series.
const (
	// Alpha weights the newest observation when updating the level
	Alpha = 0.3
	// Beta weights the newest level change when updating the trend
	Beta = 0.1
	// MovingAverageWindow is the trailing window, shortened for shorter series
	MovingAverageWindow = 3
)

// model fits a series and extrapolates it. fitted has one entry per value.
type model func(values []float64, periods int) (fitted, forecast []float64)

// holtLinear is Holt's linear trend method. fitted[i] is the one-step-ahead
// prediction made before values[i] is seen; the forecast for horizon h is
// level + h*trend from the final state.
func holtLinear(values []float64, periods int) ([]float64, []float64) {
	level := values[0]
	trend := 0.0
	if len(values) > 1 {
		trend = values[1] - values[0]
	}

	fitted := make([]float64, len(values))
	for i, v := range values {
		fitted[i] = level + trend
		newLevel := Alpha*v + (1-Alpha)*(level+trend)
		trend = Beta*(newLevel-level) + (1-Beta)*trend
		level = newLevel
	}

	forecast := make([]float64, periods)
	for h := range forecast {
		forecast[h] = level + float64(h+1)*trend
	}
	return fitted, forecast
}

// movingAverage forecasts every horizon as the mean of the last window
// historical values. Predictions are not rolled back into the window.
// fitted[0] is the first actual; later fits average up to window prior values.
func movingAverage(values []float64, periods int) ([]float64, []float64) {
	window := min(MovingAverageWindow, len(values))

	fitted := make([]float64, len(values))
	fitted[0] = values[0]
	for i := 1; i < len(values); i++ {
		fitted[i] = mean(values[max(0, i-window):i])
	}

	next := mean(values[len(values)-window:])
	forecast := make([]float64, periods)
	for h := range forecast {
		forecast[h] = next
	}
	return fitted, forecast
}

// simpleExponential smooths the level only, so its forecast is flat
func simpleExponential(values []float64, periods int) ([]float64, []float64) {
	level := values[0]

	fitted := make([]float64, len(values))
	for i, v := range values {
		fitted[i] = level
		level = Alpha*v + (1-Alpha)*level
	}

	forecast := make([]float64, periods)
	for h := range forecast {
		forecast[h] = level
	}
	return fitted, forecast
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

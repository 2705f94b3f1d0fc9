package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mmynk/receiptsplit/internal/sanitizer"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRPC("/x", "ok", time.Second)
		m.ObserveExtraction("model", "ok", time.Second)
		m.ObserveFallback("a", "b")
		m.ObserveSanitizer(sanitizer.Report{})
	})
}

func TestObserveSanitizer(t *testing.T) {
	m := New()

	m.ObserveSanitizer(sanitizer.Report{
		Flipped: []sanitizer.FlippedLine{
			{Name: "Discount", Before: decimal.NewFromInt(5), After: decimal.NewFromInt(-5)},
			{Name: "Coupon", Before: decimal.NewFromInt(2), After: decimal.NewFromInt(-2)},
		},
		RoundOff: &sanitizer.RoundOffOutcome{Corrected: true},
	})
	m.ObserveSanitizer(sanitizer.Report{
		RoundOff: &sanitizer.RoundOffOutcome{Skipped: sanitizer.SkipDiscrepancyTooLarge},
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sanitizerCorrections.WithLabelValues("sign_flip")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sanitizerCorrections.WithLabelValues("round_off")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sanitizerCorrections.WithLabelValues("total_mismatch")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveFallback("gemini-2.0-flash", "gemini-2.5-flash")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `receiptsplit_extraction_fallbacks_total{from="gemini-2.0-flash",to="gemini-2.5-flash"} 1`))
}

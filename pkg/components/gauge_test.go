package components

import (
	"strings"
	"testing"
)

func TestRenderGaugeHalf(t *testing.T) {
	bar := RenderGauge(0.5, 10, GaugeStyle{})
	want := strings.Repeat("█", 5) + strings.Repeat("░", 5)
	if bar != want {
		t.Errorf("RenderGauge(0.5, 10) = %q, want %q", bar, want)
	}
}

func TestRenderGaugeEmpty(t *testing.T) {
	bar := RenderGauge(0, 10, GaugeStyle{})
	want := strings.Repeat("░", 10)
	if bar != want {
		t.Errorf("RenderGauge(0, 10) = %q, want %q", bar, want)
	}
}

func TestRenderGaugeFull(t *testing.T) {
	bar := RenderGauge(1, 10, GaugeStyle{})
	want := strings.Repeat("█", 10)
	if bar != want {
		t.Errorf("RenderGauge(1, 10) = %q, want %q", bar, want)
	}
}

func TestRenderGaugeSubCellBoundary(t *testing.T) {
	// 0.734 of 10 cells is 58.72 eighths, rounded to 59: seven full cells
	// plus a 3/8 block.
	bar := RenderGauge(0.734, 10, GaugeStyle{})
	want := strings.Repeat("█", 7) + "▍" + strings.Repeat("░", 2)
	if bar != want {
		t.Errorf("RenderGauge(0.734, 10) = %q, want %q", bar, want)
	}
}

func TestRenderGaugeWidthIsExact(t *testing.T) {
	for _, ratio := range []float64{0, 0.1, 0.25, 0.5, 0.734, 0.99, 1} {
		bar := RenderGauge(ratio, 20, GaugeStyle{})
		if vis := VisibleLen(bar); vis != 20 {
			t.Errorf("RenderGauge(%v, 20) visible width = %d, want 20", ratio, vis)
		}
	}
}

func TestRenderGaugeClampsRatio(t *testing.T) {
	over := RenderGauge(1.5, 10, GaugeStyle{})
	if over != RenderGauge(1, 10, GaugeStyle{}) {
		t.Errorf("ratio > 1 should render as full, got %q", over)
	}
	under := RenderGauge(-0.2, 10, GaugeStyle{})
	if under != RenderGauge(0, 10, GaugeStyle{}) {
		t.Errorf("ratio < 0 should render as empty, got %q", under)
	}
}

func TestRenderGaugeZeroWidth(t *testing.T) {
	if bar := RenderGauge(0.5, 0, GaugeStyle{}); bar != "" {
		t.Errorf("RenderGauge with width 0 = %q, want empty", bar)
	}
}

func TestRenderGaugePercentLabel(t *testing.T) {
	bar := RenderGauge(0.734, 10, GaugeStyle{ShowPercent: true})
	if !strings.HasSuffix(bar, " 73%") {
		t.Errorf("RenderGauge should end with %q, got %q", " 73%", bar)
	}
}

func TestRenderGaugeColors(t *testing.T) {
	style := GaugeStyle{FilledColor: "#4ec970", EmptyColor: "#3e3e3e"}
	bar := RenderGauge(0.5, 10, style)
	if !strings.Contains(bar, "\x1b[38;2;78;201;112m") {
		t.Errorf("gauge should contain filled color escape: %q", bar)
	}
	if !strings.Contains(bar, "\x1b[38;2;62;62;62m") {
		t.Errorf("gauge should contain empty color escape: %q", bar)
	}
}

func TestRenderGaugePlainWithoutColors(t *testing.T) {
	bar := RenderGauge(0.5, 10, GaugeStyle{ShowPercent: true})
	if strings.Contains(bar, "\x1b[") {
		t.Errorf("uncolored gauge should contain no escapes: %q", bar)
	}
}

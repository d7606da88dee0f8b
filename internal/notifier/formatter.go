package notifier

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"SignalsPro/internal/calculator"
	"SignalsPro/internal/model"
	"SignalsPro/internal/session"
)

const rangeLookback = 20

// TimeframeLabel renders a candle size in seconds as "1m", "5m" or "15m".
func TimeframeLabel(granularity int) string {
	if granularity%60 == 0 {
		return fmt.Sprintf("%dm", granularity/60)
	}
	return fmt.Sprintf("%ds", granularity)
}

func actionBadge(a model.Action) string {
	switch a {
	case model.ActionCall:
		return "🟢 CALL"
	case model.ActionPut:
		return "🔴 PUT"
	default:
		return "⏸ HOLD"
	}
}

func patternLabel(p model.Pattern) string {
	switch p {
	case model.PatternBullishEngulfing:
		return "Bullish engulfing"
	case model.PatternBearishEngulfing:
		return "Bearish engulfing"
	default:
		return "None"
	}
}

// FormatSignalReport formats an analysis into a Telegram message.
func FormatSignalReport(a *model.Analysis) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", html.EscapeString(a.Asset), TimeframeLabel(a.Granularity)))
	b.WriteString(fmt.Sprintf("Signal: <b>%s</b> (%d%%)\n", actionBadge(a.Signal.Action), a.Signal.Confidence))
	b.WriteString(fmt.Sprintf("Valid until: %s UTC\n\n", a.ValidUntil.UTC().Format("15:04:05")))

	b.WriteString("📈 <b>Indicators</b>\n")
	b.WriteString(fmt.Sprintf("  RSI(%d): %.2f\n", a.Snapshot.RSIPeriod, a.Snapshot.RSI))
	b.WriteString(fmt.Sprintf("  SMA(%d): %.5f\n", a.Snapshot.SMAPeriod, a.Snapshot.SMA))
	b.WriteString(fmt.Sprintf("  Pattern: %s\n", patternLabel(a.Pattern)))
	b.WriteString(fmt.Sprintf("  Last close: %.5f\n", a.LastClose))
	if high, low, err := calculator.PriceRange(a.Candles, rangeLookback); err == nil {
		b.WriteString(fmt.Sprintf("  Range(%d): %.5f – %.5f\n", rangeLookback, low, high))
	}

	if a.Signal.Action.Tradable() {
		b.WriteString(fmt.Sprintf("\nSend /order to place a %dm demo %s.", a.ExpiryMinutes(), a.Signal.Action))
	} else {
		b.WriteString("\nNo action recommended.")
	}
	return b.String()
}

// FormatBacktestReport formats a backtest summary.
func FormatBacktestReport(r *session.BacktestReport) string {
	var b strings.Builder
	res := r.Result

	b.WriteString(fmt.Sprintf("🧪 <b>Backtest %s</b> | %s\n\n", html.EscapeString(r.Asset), TimeframeLabel(r.Granularity)))
	b.WriteString(fmt.Sprintf("Candles: %d (window %d)\n", r.Candles, r.Window))
	b.WriteString(fmt.Sprintf("Wins: %d | Losses: %d\n", res.Wins, res.Losses))
	b.WriteString(fmt.Sprintf("Accuracy: <b>%.2f%%</b>\n", res.Accuracy))
	b.WriteString(fmt.Sprintf("Holds skipped: %d\n", res.Holds))
	if res.Flats > 0 {
		b.WriteString(fmt.Sprintf("Flat closes: %d (scored as %s)\n", res.Flats, r.Flat))
	}
	if res.Scored() == 0 {
		b.WriteString("\nNo tradable predictions in this history.")
	}
	return b.String()
}

// FormatOrderResult formats an accepted order.
func FormatOrderResult(res *model.OrderResult) string {
	var b strings.Builder
	req := res.Request
	b.WriteString("✅ <b>Order placed</b>\n\n")
	b.WriteString(fmt.Sprintf("%s %s\n", actionBadge(req.Direction), html.EscapeString(req.Asset)))
	b.WriteString(fmt.Sprintf("Amount: %.2f | Expiry: %dm\n", req.Amount, req.ExpiryMinutes))
	b.WriteString(fmt.Sprintf("Order ID: <code>%s</code>\n", html.EscapeString(res.OrderID)))
	if res.Balance > 0 {
		b.WriteString(fmt.Sprintf("Balance: %.2f\n", res.Balance))
	}
	if !res.PlacedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Placed at: %s UTC\n", res.PlacedAt.UTC().Format(time.DateTime)))
	}
	return b.String()
}

// FormatError maps an error to the message shown to the operator.
func FormatError(err error) string {
	var (
		unavailable *model.MarketDataUnavailableError
		short       *model.InsufficientDataError
		rejected    *model.OrderRejectedError
	)
	switch {
	case errors.Is(err, model.ErrNoSignal):
		return "ℹ️ No signal yet. Use /signal first."
	case errors.Is(err, model.ErrHoldSignal):
		return "⏸ Last signal is HOLD. No action recommended, no order placed."
	case errors.Is(err, model.ErrUnsupportedGranularity):
		return "⚠️ Unsupported timeframe. Use 1m, 5m or 15m."
	case errors.As(err, &unavailable):
		msg := fmt.Sprintf("⚠️ Market data unavailable for %s (%s).",
			html.EscapeString(unavailable.Asset), TimeframeLabel(unavailable.Granularity))
		if unavailable.Got > 0 || unavailable.Err == nil {
			msg += fmt.Sprintf(" Got %d candles, need %d.", unavailable.Got, unavailable.Need)
		}
		return msg
	case errors.As(err, &short):
		return fmt.Sprintf("⚠️ Not enough data: need %d candles, got %d.", short.Need, short.Got)
	case errors.As(err, &rejected):
		reason := rejected.Reason
		if reason == "" {
			reason = "declined by broker"
		}
		return fmt.Sprintf("❌ Order rejected: %s", html.EscapeString(reason))
	default:
		return fmt.Sprintf("❌ Error: %s", html.EscapeString(err.Error()))
	}
}

// FormatAssets lists the configured assets and timeframes.
func FormatAssets(assets, timeframes []string, defaultAsset, defaultTimeframe string) string {
	var b strings.Builder
	b.WriteString("📋 <b>Assets</b>\n")
	for _, a := range assets {
		mark := ""
		if a == defaultAsset {
			mark = " (default)"
		}
		b.WriteString(fmt.Sprintf("  • %s%s\n", html.EscapeString(a), mark))
	}
	b.WriteString(fmt.Sprintf("\nTimeframes: %s (default %s)", strings.Join(timeframes, ", "), defaultTimeframe))
	return b.String()
}

package scheduler

import (
	"context"
	"fmt"
	"strings"

	"SignalsPro/internal/notifier"
	"SignalsPro/internal/session"
)

const helpText = `Available commands:
• /signal [ASSET] [TF]: analyse and generate a signal
• /backtest [ASSET] [TF]: score the strategy on recent history
• /order: place a demo order for the last signal
• /last: show the last signal
• /assets: list assets and timeframes`

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// "/signal@my_bot" in group chats
	name := strings.ToLower(strings.SplitN(fields[0], "@", 2)[0])
	args := fields[1:]

	switch name {
	case "/signal":
		asset, gran, err := s.resolveTarget(args)
		if err != nil {
			return "⚠️ " + err.Error()
		}
		a, err := s.Session.Analyze(ctx, asset, gran, session.TriggerCommand)
		if err != nil {
			return notifier.FormatError(err)
		}
		return notifier.FormatSignalReport(a)
	case "/backtest":
		asset, gran, err := s.resolveTarget(args)
		if err != nil {
			return "⚠️ " + err.Error()
		}
		report, err := s.Session.Backtest(ctx, asset, gran)
		if err != nil {
			return notifier.FormatError(err)
		}
		return notifier.FormatBacktestReport(report)
	case "/order":
		res, err := s.Session.ExecuteLast(ctx)
		if err != nil {
			return notifier.FormatError(err)
		}
		return notifier.FormatOrderResult(res)
	case "/last":
		last, ok := s.Session.Last()
		if !ok {
			return "ℹ️ No signal yet. Use /signal first."
		}
		return notifier.FormatSignalReport(&last)
	case "/assets":
		return notifier.FormatAssets(s.Config.Market.Assets, s.Config.TimeframeLabels(),
			s.Config.Market.DefaultAsset, s.Config.Market.DefaultTimeframe)
	default:
		return helpText
	}
}

// resolveTarget reads optional asset and timeframe arguments, falling back
// to the configured defaults.
func (s *Scheduler) resolveTarget(args []string) (string, int, error) {
	asset := s.Config.Market.DefaultAsset
	tf := s.Config.Market.DefaultTimeframe
	if len(args) > 0 {
		known, ok := s.lookupAsset(args[0])
		if !ok {
			return "", 0, fmt.Errorf("unknown asset %q, see /assets", args[0])
		}
		asset = known
	}
	if len(args) > 1 {
		tf = args[1]
	}
	gran, err := s.Config.Granularity(tf)
	if err != nil {
		return "", 0, err
	}
	return asset, gran, nil
}

func (s *Scheduler) lookupAsset(name string) (string, bool) {
	for _, a := range s.Config.Market.Assets {
		if strings.EqualFold(a, name) {
			return a, true
		}
	}
	return "", false
}

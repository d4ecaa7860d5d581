package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/salabet/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

// RenderText writes a human readable settlement summary.
func RenderText(w io.Writer, report usecase.SettlementReport) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	line := func(parts ...string) {
		_, _ = buf.WriteString(strings.Join(parts, ""))
		_ = buf.WriteByte('\n')
	}

	header := "settlement run " + report.RunID
	switch {
	case report.DryRun && report.Force:
		header += " (dry run, force)"
	case report.DryRun:
		header += " (dry run)"
	case report.Force:
		header += " (force)"
	}
	line(header)
	line("  matches processed:     ", strconv.Itoa(report.MatchesProcessed))
	line("  predictions processed: ", strconv.Itoa(report.PredictionsProcessed))
	line("  won / lost / skipped:  ", strconv.Itoa(report.Won), " / ", strconv.Itoa(report.Lost), " / ", strconv.Itoa(report.Skipped))
	line("  users updated:         ", strconv.Itoa(report.UsersUpdated))
	line("  leaderboards updated:  ", strconv.Itoa(report.LeaderboardsUpdated))
	if !report.StartedAt.IsZero() && !report.FinishedAt.IsZero() {
		line("  duration:              ", report.FinishedAt.Sub(report.StartedAt).String())
	}
	line("  errors:                ", strconv.Itoa(report.ErrorCount()))

	for _, item := range report.Errors {
		parts := []string{"    - [", item.Stage, "]"}
		parts = appendField(parts, "prediction", item.PredictionID)
		parts = appendField(parts, "match", item.MatchID)
		parts = appendField(parts, "user", item.UserID)
		parts = appendField(parts, "room", item.RoomID)
		parts = append(parts, ": ", item.Message)
		line(parts...)
	}

	if len(report.Predictions) > 0 {
		line("predictions:")
		for _, p := range report.Predictions {
			line("  ", p.PredictionID,
				" match=", p.MatchID,
				" room=", p.RoomID,
				" user=", p.UserID,
				" predicted=", p.Predicted,
				" actual=", p.Actual,
				" rules=", p.RuleSet,
				" points=", strconv.Itoa(p.Points),
				" status=", string(p.Status),
				" delta=", signed(p.PointsDelta),
			)
		}
	}

	if len(report.UserDeltas) > 0 {
		line("user deltas:")
		for _, d := range report.UserDeltas {
			line("  ", d.UserID, " ", signed(d.Delta))
		}
	}

	_, err := w.Write(buf.B)
	return err
}

func RenderJSON(w io.Writer, report usecase.SettlementReport) error {
	if report.Errors == nil {
		report.Errors = []usecase.SettlementError{}
	}
	encoded, err := sonic.ConfigStd.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	encoded = append(encoded, '\n')
	_, err = w.Write(encoded)
	return err
}

func appendField(parts []string, name, value string) []string {
	if value == "" {
		return parts
	}
	return append(parts, " ", name, "=", value)
}

func signed(v int) string {
	if v > 0 {
		return "+" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

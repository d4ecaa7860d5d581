package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/salabet/internal/domain/leaderboard"
	"github.com/riskibarqy/salabet/internal/usecase"
)

type leaderboardDTO struct {
	RoomID  string                `json:"room_id"`
	Period  string                `json:"period"`
	Entries []leaderboardEntryDTO `json:"entries"`
}

type leaderboardEntryDTO struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Points int    `json:"points"`
}

func (h *Handler) GetRoomLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoomLeaderboard")
	defer span.End()

	if h.leaderboardService == nil {
		writeError(ctx, w, fmt.Errorf("%w: leaderboard service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	roomID := strings.TrimSpace(r.PathValue("roomID"))
	var period time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("period")); raw != "" {
		parsed, err := leaderboard.ParsePeriod(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: period must be YYYY-MM-DD", usecase.ErrInvalidInput))
			return
		}
		period = parsed
	} else {
		period = time.Now()
	}

	entries, err := h.leaderboardService.List(ctx, roomID, period)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(ctx, roomID, period, entries))
}

func leaderboardToDTO(ctx context.Context, roomID string, period time.Time, entries []leaderboard.Entry) leaderboardDTO {
	_, span := startSpan(ctx, "httpapi.leaderboardToDTO")
	defer span.End()

	out := leaderboardDTO{
		RoomID:  roomID,
		Period:  leaderboard.FormatPeriod(period),
		Entries: make([]leaderboardEntryDTO, 0, len(entries)),
	}
	for _, entry := range entries {
		out.Entries = append(out.Entries, leaderboardEntryDTO{
			Rank:   entry.Rank,
			UserID: entry.UserID,
			Points: entry.Points,
		})
	}
	return out
}

package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/salabet/internal/usecase"
)

const maxJobRequestBytes = 64 << 10

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

type settleJobRequest struct {
	MatchID string `json:"match_id" validate:"omitempty,max=64"`
	RoomID  string `json:"room_id" validate:"omitempty,max=64"`
	DryRun  bool   `json:"dry_run"`
	Verbose bool   `json:"verbose"`
	Force   bool   `json:"force"`
}

// RunSettlementJob runs one settlement synchronously. Item failures are part of the
// report and still answer 200; only run-level failures map to an error status.
func (h *Handler) RunSettlementJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSettlementJob")
	defer span.End()

	if h.settlementService == nil {
		writeError(ctx, w, fmt.Errorf("%w: settlement service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeSettleJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.settlementService.Settle(ctx, usecase.SettleInput{
		MatchID: req.MatchID,
		RoomID:  req.RoomID,
		DryRun:  req.DryRun,
		Verbose: req.Verbose,
		Force:   req.Force,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run settlement job failed",
			"match_id", req.MatchID,
			"room_id", req.RoomID,
			"dry_run", req.DryRun,
			"force", req.Force,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func decodeSettleJobRequest(r *http.Request) (settleJobRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJobRequestBytes+1))
	if err != nil {
		return settleJobRequest{}, fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(body) > maxJobRequestBytes {
		return settleJobRequest{}, fmt.Errorf("%w: request body too large", usecase.ErrInvalidInput)
	}

	var req settleJobRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}
	if err := strictJSON.Unmarshal(body, &req); err != nil {
		return settleJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return req, nil
}

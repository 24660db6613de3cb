package slot

import (
	"errors"
	"net/http"

	dto "haunted_slot/internal/api/dto/slot"
	"haunted_slot/internal/converter"
	"haunted_slot/internal/engine"
	"haunted_slot/internal/service"
	"haunted_slot/pkg/req"
	"haunted_slot/pkg/resp"

	"go.uber.org/zap"
)

type HandlerDeps struct {
	Serv service.SlotService
	Log  *zap.Logger
}

type Handler struct {
	serv service.SlotService
	log  *zap.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{serv: deps.Serv, log: log}
}

func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.SpinRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.serv.Spin(r.Context(), converter.ToSlotSpin(payload))
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSpinResponse(result))
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.DepositRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	balance, err := h.serv.Deposit(r.Context(), payload.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, dto.DepositResponse{Balance: balance})
}

// CheckData баланс, остаток фриспинов и пулы
func (h *Handler) CheckData(w http.ResponseWriter, r *http.Request) {
	data, err := h.serv.CheckData(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToDataResponse(data))
}

func (h *Handler) Jackpots(w http.ResponseWriter, r *http.Request) {
	pools, err := h.serv.Jackpots(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToJackpotsResponse(pools))
}

func (h *Handler) BetOptions(w http.ResponseWriter, _ *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, dto.BetOptionsResponse{Bets: h.serv.BetOptions()})
}

func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStatsResponse(h.serv.Stats()))
}

// writeError отказы игроку отдаются с текстом, остальное как 500 без подробностей
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		resp.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, engine.ErrInvalidBet), errors.Is(err, service.ErrInvalidAmount):
		resp.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrInsufficientCredits):
		resp.WriteError(w, http.StatusPaymentRequired, err.Error())
	default:
		h.log.Error("slot request failed", zap.Error(err))
		resp.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

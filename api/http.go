package api

import (
	"encoding/json"
	"github.com/go-stack/stack"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/idena-network/indance-go/common"
	"github.com/idena-network/indance-go/log"
	"github.com/idena-network/indance-go/vm/embedded"
	"github.com/pkg/errors"
	"github.com/rcrowley/go-metrics"
	"net/http"
	"strconv"
	"time"
)

const (
	failedRequestLogPeriod = time.Minute
	receiptWriteWait       = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origins are checked by the CORS layer of the node
	CheckOrigin: func(r *http.Request) bool { return true },
}

var errBadRequest = errors.New("bad request")

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type buyDancerRequest struct {
	Tier byte `json:"tier"`
}

type handler struct {
	api       *GameApi
	log       log.Logger
	throttled log.ThrottlingLogger
}

// NewHandler routes the game HTTP API to api. Metrics of registry are served at /metrics.
func NewHandler(api *GameApi, registry metrics.Registry) http.Handler {
	logger := log.New("component", "api")
	h := &handler{api: api, log: logger, throttled: log.NewThrottlingLogger(logger, failedRequestLogPeriod)}

	r := mux.NewRouter()
	r.Use(h.recoverer)
	r.HandleFunc("/params", h.handleParams).Methods(http.MethodGet)
	r.HandleFunc("/tiers", h.handleTiers).Methods(http.MethodGet)
	r.HandleFunc("/supply", h.handleSupply).Methods(http.MethodGet)
	if registry != nil {
		r.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			metrics.WriteJSONOnce(registry, w)
		}).Methods(http.MethodGet)
	}

	r.HandleFunc("/ws/receipts", h.handleReceipts).Methods(http.MethodGet)

	r.HandleFunc("/accounts/{address}", h.handleAccount).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{address}/balance", h.handleBalance).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{address}/claimable", h.handleClaimable).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{address}/floors/{index:[0-9]+}", h.handleDanceFloor).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{address}/claim", h.handleClaim).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{address}/floors", h.handleBuyFloor).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{address}/dancers", h.handleBuyDancer).Methods(http.MethodPost)
	return r
}

func (h *handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.log.Error("API handler panicked", "path", r.URL.Path, "err", rec, "stack", stack.Trace().TrimRuntime())
				writeJSON(w, http.StatusInternalServerError, errorResponse{errorBody{Code: "Internal", Message: "internal error"}})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func statusOf(code string) int {
	switch code {
	case "NotFound":
		return http.StatusNotFound
	case "InvalidTier", "UnknownMethod", "BadRequest":
		return http.StatusBadRequest
	case "":
		return http.StatusInternalServerError
	default:
		return http.StatusConflict
	}
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := embedded.ErrorCode(err)
	if errors.Is(err, errBadRequest) {
		code = "BadRequest"
	}
	status := statusOf(code)
	message := err.Error()
	switch {
	case status == http.StatusInternalServerError:
		code, message = "Internal", "internal error"
		h.log.Error("API request failed", "path", r.URL.Path, "err", err)
	case code != "BadRequest":
		// contract errors are reported by their stable message
		message = errors.Cause(err).Error()
		fallthrough
	default:
		h.throttled.Debug("API request rejected", "path", r.URL.Path, "code", code)
	}
	writeJSON(w, status, errorResponse{errorBody{Code: code, Message: message}})
}

func (h *handler) address(r *http.Request) (common.Address, error) {
	addr, err := common.ParseAddress(mux.Vars(r)["address"])
	if err != nil {
		return common.Address{}, errors.Wrap(errBadRequest, err.Error())
	}
	return addr, nil
}

func (h *handler) handleParams(w http.ResponseWriter, r *http.Request) {
	params, err := h.api.Params()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, params)
}

func (h *handler) handleTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.api.Tiers()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tiers)
}

func (h *handler) handleSupply(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.api.Supply())
}

func (h *handler) handleAccount(w http.ResponseWriter, r *http.Request) {
	addr, err := h.address(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	acc, err := h.api.Account(addr)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

func (h *handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	addr, err := h.address(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"balance": h.api.Balance(addr)})
}

func (h *handler) handleClaimable(w http.ResponseWriter, r *http.Request) {
	addr, err := h.address(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	amount, err := h.api.Claimable(addr)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"claimable": amount})
}

func (h *handler) handleDanceFloor(w http.ResponseWriter, r *http.Request) {
	addr, err := h.address(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	index, err := strconv.ParseUint(mux.Vars(r)["index"], 10, 32)
	if err != nil {
		h.writeError(w, r, errors.Wrap(errBadRequest, "invalid floor index"))
		return
	}
	floor, err := h.api.DanceFloor(addr, uint32(index))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, floor)
}

func (h *handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	addr, err := h.address(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.api.Claim(addr)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleBuyFloor(w http.ResponseWriter, r *http.Request) {
	addr, err := h.address(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.api.BuyFloor(addr)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleBuyDancer(w http.ResponseWriter, r *http.Request) {
	addr, err := h.address(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req buyDancerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errors.Wrap(errBadRequest, "invalid request body"))
		return
	}
	result, err := h.api.BuyDancer(addr, req.Tier)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleReceipts streams a ReceiptEvent for every call applied after the connection was opened.
func (h *handler) handleReceipts(w http.ResponseWriter, r *http.Request) {
	events := h.api.feed.subscribe()
	defer h.api.feed.unsubscribe(events)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.throttled.Debug("Receipt stream upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case e := <-events:
			conn.SetWriteDeadline(time.Now().Add(receiptWriteWait))
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

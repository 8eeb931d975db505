package httpinterface

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/application/escrow"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/api"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const maxBodySize = 1 << 20

// EscrowService is the set of escrow operations served over HTTP.
type EscrowService interface {
	Config() escrow.Config
	Fingerprint(terms domain.OfferTerms) (common.Hash, error)
	PredictAddress(terms domain.OfferTerms) (common.Address, error)
	CreateOffer(ctx context.Context, req escrow.CreateOfferRequest) (*domain.Offer, error)
	AcceptOffer(ctx context.Context, req escrow.AcceptOfferRequest) (*domain.Offer, error)
	CancelOffer(ctx context.Context, req escrow.CancelOfferRequest) (*domain.Offer, error)
	BatchCancelOffers(
		ctx context.Context, caller common.Address, low, high uint64,
	) (*escrow.BatchCancelResult, error)
	GetOffer(ctx context.Context, id common.Hash) (*domain.Offer, error)
	GetOfferBySequence(ctx context.Context, sequence uint64) (*domain.Offer, error)
	ListOffers(ctx context.Context, status *domain.OfferStatus) ([]domain.Offer, error)
	GetFees(ctx context.Context) (*domain.FeeAccount, error)
	CollectFees(ctx context.Context, caller common.Address) (*big.Int, error)
	CraftReward(ctx context.Context, req escrow.CraftRewardRequest) (*domain.Craft, error)
	GetCraft(ctx context.Context, id string) (*domain.Craft, error)
	ListCrafts(ctx context.Context, recipient common.Address) ([]domain.Craft, error)
	Approve(ctx context.Context, req escrow.ApprovalRequest) error
	Balance(
		ctx context.Context, contract, owner common.Address, id *big.Int,
	) (*escrow.AssetBalance, error)
}

type handler struct {
	svc      EscrowService
	webhooks WebhookService
	metrics  *metrics
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

func (h *handler) getConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toEngineConfig(h.svc.Config()))
}

func (h *handler) fingerprint(w http.ResponseWriter, r *http.Request) {
	terms, err := decodeTerms(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := h.svc.Fingerprint(terms)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.FingerprintResponse{ID: id.Hex()})
}

func (h *handler) predictAddress(w http.ResponseWriter, r *http.Request) {
	terms, err := decodeTerms(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := h.svc.Fingerprint(terms)
	if err != nil {
		writeError(w, err)
		return
	}
	addr, err := h.svc.PredictAddress(terms)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.AddressResponse{ID: id.Hex(), Address: addr.Hex()})
}

func (h *handler) createOffer(w http.ResponseWriter, r *http.Request) {
	var body api.CreateOfferRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	req, err := parseCreateOfferRequest(body)
	if err != nil {
		writeError(w, err)
		return
	}
	req.Caller = callerFromContext(r.Context())

	offer, err := h.svc.CreateOffer(r.Context(), *req)
	if err != nil {
		h.handleEngineError(w, "create", err)
		return
	}
	h.metrics.recordTransition(offer.Status.String())
	writeJSON(w, http.StatusCreated, toOffer(*offer))
}

func (h *handler) listOffers(w http.ResponseWriter, r *http.Request) {
	var status *domain.OfferStatus
	if name := r.URL.Query().Get("status"); name != "" {
		s, err := domain.ParseOfferStatus(name)
		if err != nil {
			writeError(w, badRequest("%s", err))
			return
		}
		status = &s
	}
	offers, err := h.svc.ListOffers(r.Context(), status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ListOffersResponse{Offers: toOffers(offers)})
}

// getOffer resolves the offer by id, or by sequence number if the path
// parameter is a plain decimal number.
func (h *handler) getOffer(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["id"]

	var (
		offer *domain.Offer
		err   error
	)
	if sequence, perr := strconv.ParseUint(key, 10, 64); perr == nil {
		offer, err = h.svc.GetOfferBySequence(r.Context(), sequence)
	} else {
		var id common.Hash
		if id, err = parseHash(key); err == nil {
			offer, err = h.svc.GetOffer(r.Context(), id)
		}
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOffer(*offer))
}

func (h *handler) acceptOffer(w http.ResponseWriter, r *http.Request) {
	id, err := parseHash(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	var body api.AcceptOfferRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	req, err := parseAcceptOfferRequest(body)
	if err != nil {
		writeError(w, err)
		return
	}
	req.Caller = callerFromContext(r.Context())
	req.OfferID = id

	offer, err := h.svc.AcceptOffer(r.Context(), *req)
	if err != nil {
		h.handleEngineError(w, "accept", err)
		return
	}
	h.metrics.recordTransition(offer.Status.String())
	writeJSON(w, http.StatusOK, toOffer(*offer))
}

func (h *handler) cancelOffer(w http.ResponseWriter, r *http.Request) {
	id, err := parseHash(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	var body api.CancelOfferRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	auth, err := parseAuthorization(body.Auth)
	if err != nil {
		writeError(w, err)
		return
	}

	offer, err := h.svc.CancelOffer(r.Context(), escrow.CancelOfferRequest{
		Caller:  callerFromContext(r.Context()),
		OfferID: id,
		Auth:    auth,
	})
	if err != nil {
		h.handleEngineError(w, "cancel", err)
		return
	}
	h.metrics.recordTransition(offer.Status.String())
	writeJSON(w, http.StatusOK, toOffer(*offer))
}

func (h *handler) batchCancelOffers(w http.ResponseWriter, r *http.Request) {
	var body api.BatchCancelRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.svc.BatchCancelOffers(
		r.Context(), callerFromContext(r.Context()), body.Low, body.High,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	for range res.Cancelled {
		h.metrics.recordTransition(domain.OfferStatusCancelled.String())
	}
	writeJSON(w, http.StatusOK, api.BatchCancelResponse{
		Count:     res.Count(),
		Cancelled: toHashes(res.Cancelled),
		Skipped:   toHashes(res.Skipped),
	})
}

func (h *handler) getFees(w http.ResponseWriter, r *http.Request) {
	account, err := h.svc.GetFees(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeeAccount(*account))
}

func (h *handler) collectFees(w http.ResponseWriter, r *http.Request) {
	amount, err := h.svc.CollectFees(r.Context(), callerFromContext(r.Context()))
	if err != nil {
		h.handleEngineError(w, "collect", err)
		return
	}
	h.metrics.recordFeesCollected(amount)
	writeJSON(w, http.StatusOK, api.CollectFeesResponse{Amount: toInteger(amount)})
}

func (h *handler) craftReward(w http.ResponseWriter, r *http.Request) {
	var body api.CraftRewardRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	req, err := parseCraftRewardRequest(body)
	if err != nil {
		writeError(w, err)
		return
	}
	req.Caller = callerFromContext(r.Context())

	craft, err := h.svc.CraftReward(r.Context(), *req)
	if err != nil {
		h.handleEngineError(w, "craft", err)
		return
	}
	h.metrics.rewardsCrafted.Inc()
	writeJSON(w, http.StatusCreated, toCraft(*craft))
}

func (h *handler) listCrafts(w http.ResponseWriter, r *http.Request) {
	recipient, err := parseOptionalAddress(
		"recipient", r.URL.Query().Get("recipient"),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	crafts, err := h.svc.ListCrafts(r.Context(), recipient)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ListCraftsResponse{Crafts: toCrafts(crafts)})
}

func (h *handler) getCraft(w http.ResponseWriter, r *http.Request) {
	craft, err := h.svc.GetCraft(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCraft(*craft))
}

func (h *handler) approve(w http.ResponseWriter, r *http.Request) {
	contract, err := parseAddress("contract", mux.Vars(r)["contract"])
	if err != nil {
		writeError(w, err)
		return
	}
	var body api.ApprovalRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	req, err := parseApprovalRequest(body)
	if err != nil {
		writeError(w, err)
		return
	}
	req.Owner = callerFromContext(r.Context())
	req.Contract = contract

	if err := h.svc.Approve(r.Context(), *req); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) getBalance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	contract, err := parseAddress("contract", vars["contract"])
	if err != nil {
		writeError(w, err)
		return
	}
	owner, err := parseAddress("owner", vars["owner"])
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := parseOptionalInteger("id", r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	balance, err := h.svc.Balance(r.Context(), contract, owner, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBalance(*balance))
}

func (h *handler) handleEngineError(
	w http.ResponseWriter, operation string, err error,
) {
	var batchErr *escrow.BatchExecutionError
	if errors.As(err, &batchErr) {
		h.metrics.recordBatchFailure(operation)
	}
	writeError(w, err)
}

func parseCreateOfferRequest(body api.CreateOfferRequest) (*escrow.CreateOfferRequest, error) {
	terms, err := parseTerms(body.Terms)
	if err != nil {
		return nil, err
	}
	makerFee, err := parseOptionalInteger("maker fee", body.MakerFee)
	if err != nil {
		return nil, err
	}
	taker, err := parseOptionalAddress("taker", body.Taker)
	if err != nil {
		return nil, err
	}
	value, err := parseOptionalInteger("value", body.Value)
	if err != nil {
		return nil, err
	}
	auth, err := parseAuthorization(body.Auth)
	if err != nil {
		return nil, err
	}
	return &escrow.CreateOfferRequest{
		Terms:     terms,
		MakerFee:  makerFee,
		Taker:     taker,
		IsPrivate: body.IsPrivate,
		Value:     value,
		Auth:      auth,
	}, nil
}

func parseAcceptOfferRequest(body api.AcceptOfferRequest) (*escrow.AcceptOfferRequest, error) {
	taker, err := parseOptionalAddress("taker", body.Taker)
	if err != nil {
		return nil, err
	}
	takerFee, err := parseOptionalInteger("taker fee", body.TakerFee)
	if err != nil {
		return nil, err
	}
	value, err := parseOptionalInteger("value", body.Value)
	if err != nil {
		return nil, err
	}
	auth, err := parseAuthorization(body.Auth)
	if err != nil {
		return nil, err
	}
	return &escrow.AcceptOfferRequest{
		Taker:    taker,
		TakerFee: takerFee,
		Value:    value,
		Auth:     auth,
	}, nil
}

func parseCraftRewardRequest(body api.CraftRewardRequest) (*escrow.CraftRewardRequest, error) {
	rewardID, err := parseInteger("reward id", body.RewardID)
	if err != nil {
		return nil, err
	}
	recipient, err := parseOptionalAddress("recipient", body.Recipient)
	if err != nil {
		return nil, err
	}
	rewards, err := parseLegs(body.Rewards)
	if err != nil {
		return nil, fmt.Errorf("reward %w", err)
	}
	auth, err := parseAuthorization(body.Auth)
	if err != nil {
		return nil, err
	}
	return &escrow.CraftRewardRequest{
		RewardID:  rewardID,
		Recipient: recipient,
		Rewards:   rewards,
		Auth:      auth,
	}, nil
}

func parseApprovalRequest(body api.ApprovalRequest) (*escrow.ApprovalRequest, error) {
	spender, err := parseAddress("spender", body.Spender)
	if err != nil {
		return nil, err
	}
	amount, err := parseOptionalInteger("amount", body.Amount)
	if err != nil {
		return nil, err
	}
	id, err := parseOptionalInteger("id", body.ID)
	if err != nil {
		return nil, err
	}
	return &escrow.ApprovalRequest{
		Spender:    spender,
		Amount:     amount,
		ID:         id,
		ApproveAll: body.ApproveAll,
	}, nil
}

func decodeTerms(r *http.Request) (domain.OfferTerms, error) {
	var body api.OfferTerms
	if err := decodeBody(r, &body); err != nil {
		return domain.OfferTerms{}, err
	}
	return parseTerms(body)
}

// decodeBody decodes the JSON body of the request into v. An empty body
// leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return badRequest("invalid body: %s", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("error while writing response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind := errorKind(err)
	status := statusOf(kind)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("internal error")
	}
	writeJSON(w, status, api.ErrorResponse{Error: err.Error(), Kind: kind})
}

// Package api defines the JSON messages of the FioraSwap HTTP interface.
// Integers are strings in decimal or 0x-prefixed hex notation, addresses and
// hashes are 0x-prefixed hex strings.
package api

const (
	// CallerHeader carries the caller address when token authentication is
	// disabled.
	CallerHeader = "X-Caller-Address"
	// AuthorizationHeader carries the bearer token of the caller.
	AuthorizationHeader = "Authorization"
)

type Leg struct {
	Standard  string   `json:"standard"`
	Contract  string   `json:"contract,omitempty"`
	IDs       []string `json:"ids,omitempty"`
	Amounts   []string `json:"amounts,omitempty"`
	OriginTag uint64   `json:"origin_tag,omitempty"`
}

type OfferTerms struct {
	Maker     string `json:"maker"`
	MakerLegs []Leg  `json:"maker_legs"`
	TakerLegs []Leg  `json:"taker_legs"`
	Nonce     string `json:"nonce"`
}

// Authorization is a signed endorsement, the signature is hex encoded.
type Authorization struct {
	Nonce     string `json:"nonce"`
	Signature string `json:"signature"`
}

type Party struct {
	Address string `json:"address"`
	Fee     string `json:"fee"`
	Legs    []Leg  `json:"legs"`
	Settled bool   `json:"settled"`
}

type Offer struct {
	ID        string `json:"id"`
	Sequence  uint64 `json:"sequence"`
	Status    string `json:"status"`
	Maker     Party  `json:"maker"`
	Taker     Party  `json:"taker"`
	IsPrivate bool   `json:"is_private"`
	Nonce     string `json:"nonce"`
	Escrow    string `json:"escrow"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

type FingerprintResponse struct {
	ID string `json:"id"`
}

type AddressResponse struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

type CreateOfferRequest struct {
	Terms     OfferTerms     `json:"terms"`
	MakerFee  string         `json:"maker_fee,omitempty"`
	Taker     string         `json:"taker,omitempty"`
	IsPrivate bool           `json:"is_private,omitempty"`
	Value     string         `json:"value,omitempty"`
	Auth      *Authorization `json:"auth,omitempty"`
}

type AcceptOfferRequest struct {
	Taker    string         `json:"taker,omitempty"`
	TakerFee string         `json:"taker_fee,omitempty"`
	Value    string         `json:"value,omitempty"`
	Auth     *Authorization `json:"auth,omitempty"`
}

type CancelOfferRequest struct {
	Auth *Authorization `json:"auth,omitempty"`
}

type ListOffersResponse struct {
	Offers []Offer `json:"offers"`
}

type BatchCancelRequest struct {
	Low  uint64 `json:"low"`
	High uint64 `json:"high"`
}

type BatchCancelResponse struct {
	Count     int      `json:"count"`
	Cancelled []string `json:"cancelled"`
	Skipped   []string `json:"skipped"`
}

type FeeAccount struct {
	Currency       string `json:"currency"`
	Balance        string `json:"balance"`
	TotalCollected string `json:"total_collected"`
	TotalWithdrawn string `json:"total_withdrawn"`
	UpdatedAt      int64  `json:"updated_at"`
}

type CollectFeesResponse struct {
	Amount string `json:"amount"`
}

type CraftRewardRequest struct {
	RewardID  string         `json:"reward_id"`
	Recipient string         `json:"recipient,omitempty"`
	Rewards   []Leg          `json:"rewards"`
	Auth      *Authorization `json:"auth,omitempty"`
}

type Craft struct {
	ID         string `json:"id"`
	RewardID   string `json:"reward_id"`
	Recipient  string `json:"recipient"`
	Rewards    []Leg  `json:"rewards"`
	Nonce      string `json:"nonce,omitempty"`
	Authorizer string `json:"authorizer"`
	CraftedAt  int64  `json:"crafted_at"`
}

type ListCraftsResponse struct {
	Crafts []Craft `json:"crafts"`
}

// ApprovalRequest lets the caller allow the spender to move its assets.
// Amount is for fungible tokens, ID for a single non-fungible token and
// ApproveAll for operator approvals.
type ApprovalRequest struct {
	Spender    string `json:"spender"`
	Amount     string `json:"amount,omitempty"`
	ID         string `json:"id,omitempty"`
	ApproveAll *bool  `json:"approve_all,omitempty"`
}

type Balance struct {
	Standard string `json:"standard"`
	Contract string `json:"contract"`
	Owner    string `json:"owner"`
	ID       string `json:"id,omitempty"`
	Balance  string `json:"balance"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is returned with any non 2xx status. Kind is the name of the
// error category, ie. UnknownOffer or ValueMismatch.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// EngineConfig exposes the parameters clients need to sign authorizations.
type EngineConfig struct {
	ChainID             string `json:"chain_id"`
	CoreAddress         string `json:"core_address"`
	Owner               string `json:"owner"`
	Authorizer          string `json:"authorizer"`
	EscrowTemplate      string `json:"escrow_template"`
	CreateAuthority     string `json:"create_authority"`
	AcceptAuthority     string `json:"accept_authority"`
	CancelAuthority     string `json:"cancel_authority"`
	MaxBatchCancelRange uint64 `json:"max_batch_cancel_range"`
}

// AddWebhookRequest registers an endpoint notified of the given event, or
// of every event with "*". A non empty secret signs the notifications.
type AddWebhookRequest struct {
	Event    string `json:"event"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret,omitempty"`
}

type AddWebhookResponse struct {
	ID string `json:"id"`
}

type Webhook struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Endpoint  string `json:"endpoint"`
	IsSecured bool   `json:"is_secured"`
}

type ListWebhooksResponse struct {
	Webhooks []Webhook `json:"webhooks"`
}

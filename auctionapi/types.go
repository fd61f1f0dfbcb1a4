// Package auctionapi defines the JSON wire types the auction server speaks.
// Every request carries a "type" discriminator; the server answers each
// connection with exactly one response.
package auctionapi

// Request type discriminators.
const (
	TypePing            = "ping"
	TypePlaceBid        = "place_bid"
	TypeCurrentBidder   = "current_bidder"
	TypeAuthorizedActor = "authorized_actor"
	TypeWindow          = "window"
	TypeBeforeAction    = "before_action"
	TypeAfterAction     = "after_action"
	TypeAdvanceCounter  = "advance_counter"
	TypeErrorResponse   = "error"
)

// Machine-readable error codes carried in ErrorResponse.
const (
	CodeInvalidSubject    = "invalid_subject"
	CodeSelfBidding       = "self_bidding_not_allowed"
	CodeInvalidAmount     = "invalid_amount"
	CodeBidTooLow         = "bid_too_low"
	CodeInsufficientFunds = "insufficient_funds"
	CodeReentrantCall     = "reentrant_call"
	CodeUnauthorizedActor = "unauthorized_actor"
	CodeCounterRegression = "counter_regression"
	CodeBadRequest        = "bad_request"
	CodeInternal          = "internal_error"
)

// BaseRequest is decoded first to dispatch on the request type.
type BaseRequest struct {
	Type string `json:"type"`
}

// PlaceBidRequest places a bid for the liquidation right on a subject.
// Amount is a decimal string in base token units.
type PlaceBidRequest struct {
	Type    string `json:"type"`
	Subject string `json:"subject"`
	Bidder  string `json:"bidder"`
	Amount  string `json:"amount"`
}

// PlaceBidResponse acknowledges an accepted bid.
type PlaceBidResponse struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Subject string `json:"subject"`
	Window  uint64 `json:"window"`
	Bidder  string `json:"bidder"`
	Amount  string `json:"amount"`
}

// SubjectRequest queries per-subject state (current_bidder,
// authorized_actor).
type SubjectRequest struct {
	Type    string `json:"type"`
	Subject string `json:"subject"`
}

// LeaderResponse answers current_bidder and authorized_actor. An empty
// identity means no leader / no restriction.
type LeaderResponse struct {
	Type     string `json:"type"`
	Subject  string `json:"subject"`
	Identity string `json:"identity"`
	Amount   string `json:"amount"`
}

// WindowResponse answers window queries.
type WindowResponse struct {
	Type            string `json:"type"`
	Window          uint64 `json:"window"`
	BlocksRemaining uint64 `json:"blocks_remaining"`
	WindowSize      uint64 `json:"window_size"`
}

// ActionRequest asks the gate about (before_action) or notifies it of
// (after_action) a privileged action on a subject.
type ActionRequest struct {
	Type    string `json:"type"`
	Subject string `json:"subject"`
	Actor   string `json:"actor"`
}

// ActionResponse acknowledges an allowed before_action or any
// after_action. A rejected before_action comes back as an ErrorResponse
// with code unauthorized_actor.
type ActionResponse struct {
	Type    string `json:"type"`
	Allowed bool   `json:"allowed"`
}

// AdvanceCounterRequest reports a new value of the host's monotonic
// counter.
type AdvanceCounterRequest struct {
	Type    string `json:"type"`
	Counter uint64 `json:"counter"`
}

// AdvanceCounterResponse acknowledges the counter report with the derived
// window position.
type AdvanceCounterResponse struct {
	Type            string `json:"type"`
	Counter         uint64 `json:"counter"`
	Window          uint64 `json:"window"`
	BlocksRemaining uint64 `json:"blocks_remaining"`
}

// PingResponse answers ping.
type PingResponse struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorResponse reports any failed request.
type ErrorResponse struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

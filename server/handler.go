package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lienworks/liqauction/auctionapi"
	"github.com/lienworks/liqauction/core"
)

// handleRequest dispatches one decoded request and returns the response
// value to encode. Never returns nil.
func (s *Server) handleRequest(raw []byte) any {
	var base auctionapi.BaseRequest
	if err := json.Unmarshal(raw, &base); err != nil {
		log.Printf("ERROR: Failed to decode base request: %v", err)
		return errorResponse(auctionapi.CodeBadRequest, fmt.Sprintf("malformed request: %v", err))
	}

	log.Printf("INFO: Received request type: %s", base.Type)

	switch base.Type {
	case auctionapi.TypePing:
		return auctionapi.PingResponse{
			Type:      "pong",
			Message:   "auction server is healthy",
			Timestamp: time.Now().Unix(),
		}

	case auctionapi.TypePlaceBid:
		return s.handlePlaceBid(raw)

	case auctionapi.TypeCurrentBidder:
		return s.handleSubjectQuery(raw, func(subject core.Identity) (core.Identity, decimal.Decimal) {
			return s.engine.Processor.CurrentBidder(subject)
		})

	case auctionapi.TypeAuthorizedActor:
		return s.handleSubjectQuery(raw, func(subject core.Identity) (core.Identity, decimal.Decimal) {
			return s.engine.Auth.AuthorizedActor(subject)
		})

	case auctionapi.TypeWindow:
		return auctionapi.WindowResponse{
			Type:            auctionapi.TypeWindow,
			Window:          s.engine.Clock.CurrentWindow(),
			BlocksRemaining: s.engine.Clock.BlocksRemaining(),
			WindowSize:      s.engine.Clock.WindowSize(),
		}

	case auctionapi.TypeBeforeAction:
		return s.handleBeforeAction(raw)

	case auctionapi.TypeAfterAction:
		var req auctionapi.ActionRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return errorResponse(auctionapi.CodeBadRequest, fmt.Sprintf("malformed after_action request: %v", err))
		}
		s.engine.Gate.AfterAction(core.Identity(req.Subject), core.Identity(req.Actor))
		return auctionapi.ActionResponse{Type: auctionapi.TypeAfterAction, Allowed: true}

	case auctionapi.TypeAdvanceCounter:
		return s.handleAdvanceCounter(raw)

	default:
		return errorResponse(auctionapi.CodeBadRequest, fmt.Sprintf("unknown request type: %s", base.Type))
	}
}

func (s *Server) handlePlaceBid(raw []byte) any {
	var req auctionapi.PlaceBidRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return errorResponse(auctionapi.CodeBadRequest, fmt.Sprintf("malformed place_bid request: %v", err))
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return errorResponse(auctionapi.CodeInvalidAmount, fmt.Sprintf("unparseable amount %q", req.Amount))
	}

	s.mu.Lock()
	err = s.engine.Processor.PlaceBid(core.Identity(req.Subject), core.Identity(req.Bidder), amount)
	window := s.engine.Clock.CurrentWindow()
	s.mu.Unlock()

	if err != nil {
		log.Printf("INFO: bid rejected: subject=%s bidder=%s amount=%s: %v", req.Subject, req.Bidder, req.Amount, err)
		return errorResponse(errorCode(err), err.Error())
	}

	log.Printf("INFO: bid accepted: subject=%s window=%d bidder=%s amount=%s", req.Subject, window, req.Bidder, req.Amount)
	return auctionapi.PlaceBidResponse{
		Type:    auctionapi.TypePlaceBid,
		Success: true,
		Subject: req.Subject,
		Window:  window,
		Bidder:  req.Bidder,
		Amount:  amount.String(),
	}
}

func (s *Server) handleSubjectQuery(raw []byte, query func(core.Identity) (core.Identity, decimal.Decimal)) any {
	var req auctionapi.SubjectRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return errorResponse(auctionapi.CodeBadRequest, fmt.Sprintf("malformed query: %v", err))
	}

	identity, amount := query(core.Identity(req.Subject))
	return auctionapi.LeaderResponse{
		Type:     req.Type,
		Subject:  req.Subject,
		Identity: string(identity),
		Amount:   amount.String(),
	}
}

func (s *Server) handleBeforeAction(raw []byte) any {
	var req auctionapi.ActionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return errorResponse(auctionapi.CodeBadRequest, fmt.Sprintf("malformed before_action request: %v", err))
	}

	if err := s.engine.Gate.BeforeAction(core.Identity(req.Subject), core.Identity(req.Actor)); err != nil {
		log.Printf("INFO: action rejected: subject=%s actor=%s: %v", req.Subject, req.Actor, err)
		return errorResponse(errorCode(err), err.Error())
	}
	return auctionapi.ActionResponse{Type: auctionapi.TypeBeforeAction, Allowed: true}
}

func (s *Server) handleAdvanceCounter(raw []byte) any {
	var req auctionapi.AdvanceCounterRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return errorResponse(auctionapi.CodeBadRequest, fmt.Sprintf("malformed advance_counter request: %v", err))
	}

	s.mu.Lock()
	err := s.counter.Set(req.Counter)
	s.mu.Unlock()

	if err != nil {
		return errorResponse(errorCode(err), err.Error())
	}

	return auctionapi.AdvanceCounterResponse{
		Type:            auctionapi.TypeAdvanceCounter,
		Counter:         req.Counter,
		Window:          s.engine.Clock.CurrentWindow(),
		BlocksRemaining: s.engine.Clock.BlocksRemaining(),
	}
}

func (s *Server) respond(w io.Writer, response any) {
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("ERROR: Failed to encode response: %v", err)
	}
}

func errorResponse(code, message string) auctionapi.ErrorResponse {
	return auctionapi.ErrorResponse{
		Type:    auctionapi.TypeErrorResponse,
		Code:    code,
		Message: message,
	}
}

// errorCode maps core errors to wire codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidSubject):
		return auctionapi.CodeInvalidSubject
	case errors.Is(err, core.ErrSelfBid):
		return auctionapi.CodeSelfBidding
	case errors.Is(err, core.ErrInvalidAmount):
		return auctionapi.CodeInvalidAmount
	case errors.Is(err, core.ErrBidTooLow):
		return auctionapi.CodeBidTooLow
	case errors.Is(err, core.ErrInsufficientFunds):
		return auctionapi.CodeInsufficientFunds
	case errors.Is(err, core.ErrReentrantCall):
		return auctionapi.CodeReentrantCall
	case errors.Is(err, core.ErrUnauthorizedActor):
		return auctionapi.CodeUnauthorizedActor
	case errors.Is(err, core.ErrCounterRegression):
		return auctionapi.CodeCounterRegression
	default:
		return auctionapi.CodeInternal
	}
}

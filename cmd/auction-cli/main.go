// Command auction-cli sends a single request to the auction daemon and
// prints the JSON response.
//
// Usage:
//
//	auction-cli [flags] <op>
//
// where <op> is one of: ping, place-bid, current-bidder, authorized-actor,
// window, before-action, after-action, advance-counter.
package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/lienworks/liqauction/auctionapi"
)

func main() {
	var (
		addr    = pflag.String("addr", "127.0.0.1:7345", "Auction daemon address")
		subject = pflag.String("subject", "", "Auction subject (borrower identity)")
		bidder  = pflag.String("bidder", "", "Bidder identity")
		actor   = pflag.String("actor", "", "Acting identity for gate checks")
		amount  = pflag.String("amount", "", "Bid amount (decimal string)")
		counter = pflag.Uint64("counter", 0, "New monotonic counter value")
	)
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: exactly one operation required\n")
		pflag.Usage()
		os.Exit(1)
	}

	request, err := buildRequest(pflag.Arg(0), *subject, *bidder, *actor, *amount, *counter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	response, err := roundTrip(*addr, request)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	fmt.Println(string(response))
}

func buildRequest(op, subject, bidder, actor, amount string, counter uint64) (any, error) {
	switch op {
	case "ping":
		return auctionapi.BaseRequest{Type: auctionapi.TypePing}, nil
	case "place-bid":
		if subject == "" || bidder == "" || amount == "" {
			return nil, fmt.Errorf("place-bid requires --subject, --bidder and --amount")
		}
		return auctionapi.PlaceBidRequest{
			Type:    auctionapi.TypePlaceBid,
			Subject: subject,
			Bidder:  bidder,
			Amount:  amount,
		}, nil
	case "current-bidder":
		return subjectRequest(auctionapi.TypeCurrentBidder, subject)
	case "authorized-actor":
		return subjectRequest(auctionapi.TypeAuthorizedActor, subject)
	case "window":
		return auctionapi.BaseRequest{Type: auctionapi.TypeWindow}, nil
	case "before-action":
		return actionRequest(auctionapi.TypeBeforeAction, subject, actor)
	case "after-action":
		return actionRequest(auctionapi.TypeAfterAction, subject, actor)
	case "advance-counter":
		return auctionapi.AdvanceCounterRequest{
			Type:    auctionapi.TypeAdvanceCounter,
			Counter: counter,
		}, nil
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
}

func subjectRequest(reqType, subject string) (any, error) {
	if subject == "" {
		return nil, fmt.Errorf("%s requires --subject", reqType)
	}
	return auctionapi.SubjectRequest{Type: reqType, Subject: subject}, nil
}

func actionRequest(reqType, subject, actor string) (any, error) {
	if subject == "" || actor == "" {
		return nil, fmt.Errorf("%s requires --subject and --actor", reqType)
	}
	return auctionapi.ActionRequest{Type: reqType, Subject: subject, Actor: actor}, nil
}

// roundTrip writes one request, half-closes, and reads the full response.
func roundTrip(addr string, request any) ([]byte, error) {
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(30 * time.Second))

	if err := json.NewEncoder(conn).Encode(request); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.CloseWrite(); err != nil {
			return nil, fmt.Errorf("close write side: %w", err)
		}
	}

	var response json.RawMessage
	if err := json.NewDecoder(conn).Decode(&response); err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return response, nil
}

package client

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/betbot/goperp/perp/types"
	"github.com/betbot/goperp/perp/wire"
)

func testRegistries() (*MarketRegistry, *TokenRegistry) {
	markets := NewMarketRegistry(MarketSpec{
		MarketID:      1,
		Symbol:        "btcusd",
		PriceDecimals: 2,
		SizeDecimals:  6,
	})
	tokens := NewTokenRegistry(TokenSpec{
		TokenID:  1,
		Symbol:   "usdc",
		Decimals: 6,
	})
	return markets, tokens
}

func TestClient_CreateAndRevokeSession(t *testing.T) {
	wallet := testWalletSigner(t)
	session := testSessionSigner(t)
	markets, tokens := testRegistries()

	ch := &fakeChannel{receipt: &types.Receipt{Payload: types.CreateSessionResult{SessionID: 55}}}
	c := NewClient(ch, wallet, session, markets, tokens)
	c.SetClock(fixedClock(1_000_000))

	sess, err := c.CreateSession(context.Background(), 0)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.SessionID != 55 {
		t.Fatalf("sessionID got=%d want=55", sess.SessionID)
	}
	if want := uint64(1_000_000) + SessionTTL; sess.ExpiryTimestamp != want {
		t.Fatalf("expiry got=%d want=%d", sess.ExpiryTimestamp, want)
	}
	if c.SessionID() != 55 {
		t.Fatalf("active sessionID got=%d want=55", c.SessionID())
	}

	// The submitted action carries both pubkeys.
	encodedLen := len(ch.calls[0]) - 64
	action, err := wire.DecodeAction(ch.calls[0][:encodedLen])
	if err != nil {
		t.Fatalf("DecodeAction: %v", err)
	}
	cs := action.Payload.(types.CreateSession)
	if len(cs.UserPubkey) != 33 || len(cs.SessionPubkey) != 32 {
		t.Fatalf("pubkey lengths got=(%d,%d) want=(33,32)", len(cs.UserPubkey), len(cs.SessionPubkey))
	}

	ch.receipt = &types.Receipt{Payload: types.RevokeSessionResult{}}
	if err := c.RevokeSession(context.Background(), 0); err != nil {
		t.Fatalf("RevokeSession: %v", err)
	}
	if c.SessionID() != 0 {
		t.Fatalf("active sessionID after revoke got=%d want=0", c.SessionID())
	}
}

func TestClient_SetActiveSession(t *testing.T) {
	markets, tokens := testRegistries()
	ch := &fakeChannel{receipt: &types.Receipt{Payload: types.CancelOrderResult{OrderID: 3}}}
	c := NewClient(ch, nil, testSessionSigner(t), markets, tokens)
	c.SetClock(fixedClock(1))
	c.SetActiveSession(77)

	result, err := c.CancelOrder(context.Background(), 3)
	if err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if result.OrderID != 3 {
		t.Fatalf("orderID got=%d want=3", result.OrderID)
	}

	action, err := wire.DecodeAction(ch.calls[0][:len(ch.calls[0])-64])
	if err != nil {
		t.Fatalf("DecodeAction: %v", err)
	}
	if got := action.Payload.(types.CancelOrderByID).SessionID; got != 77 {
		t.Fatalf("sessionID got=%d want=77", got)
	}
}

func TestClient_PlaceOrderBySymbol(t *testing.T) {
	markets, tokens := testRegistries()
	ch := &fakeChannel{receipt: &types.Receipt{Payload: types.PlaceOrderResult{OrderID: 1234, Posted: true}}}
	c := NewClient(ch, nil, testSessionSigner(t), markets, tokens)
	c.SetClock(fixedClock(1))
	c.SetActiveSession(1)

	result, err := c.PlaceOrder(context.Background(), OrderRequest{
		Symbol:   "BTCUSD", // registry lookup is case-insensitive
		Side:     types.SideBid,
		FillMode: types.FillModeLimit,
		Price:    decimal.RequireFromString("431.55"),
		Size:     decimal.RequireFromString("0.5"),
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if result.OrderID != 1234 || !result.Posted {
		t.Fatalf("result got=%+v", result)
	}

	action, err := wire.DecodeAction(ch.calls[0][:len(ch.calls[0])-64])
	if err != nil {
		t.Fatalf("DecodeAction: %v", err)
	}
	p := action.Payload.(types.PlaceOrder)
	if p.Price != 43155 {
		t.Fatalf("price got=%d want=43155", p.Price)
	}
	if p.Size != 500_000 {
		t.Fatalf("size got=%d want=500000", p.Size)
	}
	if p.MarketID != 1 {
		t.Fatalf("marketID got=%d want=1", p.MarketID)
	}
}

func TestClient_PlaceOrderUnknownMarket(t *testing.T) {
	markets, tokens := testRegistries()
	ch := &fakeChannel{}
	c := NewClient(ch, nil, testSessionSigner(t), markets, tokens)
	c.SetActiveSession(1)

	_, err := c.PlaceOrder(context.Background(), OrderRequest{
		Symbol:   "ethusd",
		Side:     types.SideBid,
		FillMode: types.FillModeLimit,
	})
	if err == nil {
		t.Fatal("expected error for unregistered market")
	}
	if len(ch.calls) != 0 {
		t.Fatalf("channel calls got=%d want=0", len(ch.calls))
	}
}

func TestClient_WithdrawZeroAmountNeverSent(t *testing.T) {
	markets, tokens := testRegistries()
	ch := &fakeChannel{}
	c := NewClient(ch, nil, testSessionSigner(t), markets, tokens)
	c.SetClock(fixedClock(1))
	c.SetActiveSession(1)

	err := c.Withdraw(context.Background(), "usdc", decimal.Zero)
	if got := validationReason(t, err); got != types.ReasonNonPositiveAmount {
		t.Fatalf("reason got=%q want=%q", got, types.ReasonNonPositiveAmount)
	}
	if len(ch.calls) != 0 {
		t.Fatalf("channel calls got=%d want=0", len(ch.calls))
	}
}

func TestClient_Withdraw(t *testing.T) {
	markets, tokens := testRegistries()
	ch := &fakeChannel{receipt: &types.Receipt{Payload: types.WithdrawResult{}}}
	c := NewClient(ch, nil, testSessionSigner(t), markets, tokens)
	c.SetClock(fixedClock(1))
	c.SetActiveSession(1)

	if err := c.Withdraw(context.Background(), "usdc", decimal.RequireFromString("2.5")); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	action, err := wire.DecodeAction(ch.calls[0][:len(ch.calls[0])-64])
	if err != nil {
		t.Fatalf("DecodeAction: %v", err)
	}
	w := action.Payload.(types.Withdraw)
	if w.Amount != 2_500_000 || w.TokenID != 1 || w.SessionID != 1 {
		t.Fatalf("withdraw got=%+v", w)
	}
}

func TestClient_Transfer(t *testing.T) {
	markets, tokens := testRegistries()
	ch := &fakeChannel{receipt: &types.Receipt{Payload: types.TransferResult{ToAccountID: 900}}}
	c := NewClient(ch, nil, testSessionSigner(t), markets, tokens)
	c.SetClock(fixedClock(1))
	c.SetActiveSession(1)

	result, err := c.Transfer(context.Background(), TransferRequest{
		FromAccountID: 10,
		TokenSymbol:   "usdc",
		Amount:        decimal.New(1, 0),
	})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if result.ToAccountID != 900 {
		t.Fatalf("toAccountID got=%d want=900", result.ToAccountID)
	}

	action, err := wire.DecodeAction(ch.calls[0][:len(ch.calls[0])-64])
	if err != nil {
		t.Fatalf("DecodeAction: %v", err)
	}
	tr := action.Payload.(types.Transfer)
	if tr.ToAccountID != nil {
		t.Fatalf("ToAccountID got=%v want=nil (open new account)", *tr.ToAccountID)
	}
	if tr.Amount != 1_000_000 {
		t.Fatalf("amount got=%d want=1000000", tr.Amount)
	}
}

package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/betbot/goperp/perp/client"
	"github.com/betbot/goperp/perp/signing"
	"github.com/betbot/goperp/perp/types"
	"github.com/betbot/goperp/pkg/config"
	"github.com/betbot/goperp/pkg/logger"
	"github.com/betbot/goperp/pkg/ratelimit"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: perp-trade [-config config.yaml] <command> [args]

commands:
  create-session
  revoke-session [-session id]
  place-order   -market SYMBOL -side ask|bid -mode limit|post|ioc|fok [-price P] [-size S] [-quote Q] [-reduce]
  cancel-order  -order ID
  withdraw      -token SYMBOL -amount A
  transfer      -from ACCOUNT [-to ACCOUNT] -token SYMBOL -amount A

密钥从环境变量读取：GOPERP_WALLET_KEY / GOPERP_SESSION_SEED`)
	os.Exit(2)
}

func main() {
	configPath := flag.String("config", "config.yaml", "config file path")
	timeout := flag.Duration("timeout", 30*time.Second, "per-call timeout")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, OutputFile: cfg.LogFile}); err != nil {
		fatal(err)
	}

	c, err := buildClient(cfg)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, c, flag.Arg(0), flag.Args()[1:]); err != nil {
		fatal(err)
	}
}

func buildClient(cfg *config.Config) (*client.Client, error) {
	var wallet *signing.PrivateKeyWalletSigner
	if cfg.WalletPrivateKey != "" {
		w, err := signing.NewWalletSignerFromHex(cfg.WalletPrivateKey)
		if err != nil {
			return nil, err
		}
		wallet = w
	}
	var session *signing.Ed25519SessionSigner
	if cfg.SessionSeed != "" {
		seed, err := hex.DecodeString(cfg.SessionSeed)
		if err != nil {
			return nil, fmt.Errorf("解析会话种子失败: %w", err)
		}
		s, err := signing.NewSessionSignerFromSeed(seed)
		if err != nil {
			return nil, err
		}
		session = s
	}

	var channel client.ByteChannel
	switch cfg.Transport {
	case "ws":
		ws, err := client.DialWS(context.Background(), cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		channel = ws
	default:
		hc := client.NewHTTPChannel(cfg.Endpoint)
		if cfg.ActionPath != "" {
			hc.SetPath(cfg.ActionPath)
		}
		channel = hc
	}

	markets := client.NewMarketRegistry()
	for _, m := range cfg.Markets {
		markets.Add(client.MarketSpec{
			MarketID:      m.MarketID,
			Symbol:        m.Symbol,
			PriceDecimals: m.PriceDecimals,
			SizeDecimals:  m.SizeDecimals,
		})
	}
	tokens := client.NewTokenRegistry()
	for _, t := range cfg.Tokens {
		tokens.Add(client.TokenSpec{TokenID: t.TokenID, Symbol: t.Symbol, Decimals: t.Decimals})
	}

	c := client.NewClient(channel, wallet, session, markets, tokens)
	if cfg.RateLimit.Capacity > 0 {
		c.SetRateLimiter(ratelimit.NewTokenBucket(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	}
	return c, nil
}

func run(ctx context.Context, c *client.Client, cmd string, args []string) error {
	switch cmd {
	case "create-session":
		session, err := c.CreateSession(ctx, 0)
		if err != nil {
			return err
		}
		fmt.Printf("session_id=%d expiry=%d\n", session.SessionID, session.ExpiryTimestamp)
		return nil

	case "revoke-session":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		sessionID := fs.Uint64("session", 0, "session id (0 = active)")
		_ = fs.Parse(args)
		return c.RevokeSession(ctx, *sessionID)

	case "place-order":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		market := fs.String("market", "", "market symbol")
		side := fs.String("side", "", "ask|bid")
		mode := fs.String("mode", "limit", "limit|post|ioc|fok")
		price := fs.String("price", "0", "limit price")
		size := fs.String("size", "0", "base size")
		quote := fs.String("quote", "0", "quote size")
		reduce := fs.Bool("reduce", false, "reduce only")
		_ = fs.Parse(args)

		s, err := parseSide(*side)
		if err != nil {
			return err
		}
		m, err := parseFillMode(*mode)
		if err != nil {
			return err
		}
		result, err := c.PlaceOrder(ctx, client.OrderRequest{
			Symbol:       *market,
			Side:         s,
			FillMode:     m,
			IsReduceOnly: *reduce,
			Price:        mustDecimal(*price),
			Size:         mustDecimal(*size),
			QuoteSize:    mustDecimal(*quote),
		})
		if err != nil {
			return err
		}
		fmt.Printf("order_id=%d posted=%v\n", result.OrderID, result.Posted)
		return nil

	case "cancel-order":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		orderID := fs.Uint64("order", 0, "order id")
		_ = fs.Parse(args)
		result, err := c.CancelOrder(ctx, *orderID)
		if err != nil {
			return err
		}
		fmt.Printf("cancelled order_id=%d\n", result.OrderID)
		return nil

	case "withdraw":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		token := fs.String("token", "", "token symbol")
		amount := fs.String("amount", "", "amount")
		_ = fs.Parse(args)
		return c.Withdraw(ctx, *token, mustDecimal(*amount))

	case "transfer":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		from := fs.Uint64("from", 0, "source account id")
		to := fs.Uint64("to", 0, "destination account id (0 = new account)")
		token := fs.String("token", "", "token symbol")
		amount := fs.String("amount", "", "amount")
		_ = fs.Parse(args)

		req := client.TransferRequest{
			FromAccountID: *from,
			TokenSymbol:   *token,
			Amount:        mustDecimal(*amount),
		}
		if *to != 0 {
			req.ToAccountID = to
		}
		result, err := c.Transfer(ctx, req)
		if err != nil {
			return err
		}
		fmt.Printf("to_account_id=%d\n", result.ToAccountID)
		return nil

	default:
		usage()
		return nil
	}
}

func parseSide(s string) (types.Side, error) {
	switch s {
	case "ask", "sell":
		return types.SideAsk, nil
	case "bid", "buy":
		return types.SideBid, nil
	default:
		return 0, fmt.Errorf("无效的 side: %q（支持: ask/bid）", s)
	}
}

func parseFillMode(s string) (types.FillMode, error) {
	switch s {
	case "limit":
		return types.FillModeLimit, nil
	case "post":
		return types.FillModePostOnly, nil
	case "ioc":
		return types.FillModeImmediateOrCancel, nil
	case "fok":
		return types.FillModeFillOrKill, nil
	default:
		return 0, fmt.Errorf("无效的 mode: %q（支持: limit/post/ioc/fok）", s)
	}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		fatal(fmt.Errorf("无效的数量 %q: %w", s, err))
	}
	return d
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	os.Exit(1)
}

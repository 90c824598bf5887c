// Command signal posts a test entry or exit signal to a running Trade
// Logbook server, the same shape a TradingView alert would deliver. Handy
// for checking a webhook URL before pointing real alerts at it.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

func main() {
	var (
		serverURL = flag.String("server", "http://localhost:3000", "base URL of the logbook server")
		token     = flag.String("token", "", "webhook token from /api/v1/auth/user")
		action    = flag.String("action", "entry", "signal action: entry or exit")
		symbol    = flag.String("symbol", "", "instrument symbol")
		direction = flag.String("direction", "long", "trade direction: long or short")
		price     = flag.Float64("price", 0, "signal price")
		quantity  = flag.Float64("quantity", 0, "quantity (entry only; server defaults to 1)")
		strategy  = flag.String("strategy", "", "strategy label (entry only)")
	)
	flag.Parse()

	if *token == "" || *symbol == "" || *price <= 0 {
		fmt.Fprintln(os.Stderr, "usage: signal -token <webhook-token> -symbol <SYM> -price <p> [-action entry|exit] [-direction long|short] [-quantity q] [-strategy s]")
		os.Exit(2)
	}

	payload := map[string]any{
		"action":    *action,
		"symbol":    *symbol,
		"direction": *direction,
		"price":     *price,
		"time":      time.Now().UTC().Format(time.RFC3339),
	}
	if *quantity > 0 {
		payload["quantity"] = *quantity
	}
	if *strategy != "" {
		payload["strategy"] = *strategy
	}

	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	resp, err := client.R().
		SetBody(payload).
		Post(fmt.Sprintf("%s/api/v1/webhook/%s", *serverURL, *token))
	if err != nil {
		fmt.Fprintf(os.Stderr, "send signal: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n%s\n", resp.Status(), resp.Body())
	if resp.StatusCode() >= 400 {
		os.Exit(1)
	}
}

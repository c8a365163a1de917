// Package cli is the terminal front end of the SwapMarket client. It wires
// the API client, the optimistic engine, and the application services into a
// small REPL, and renders the state the services own.
package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/swapmarket/internal/client/api"
	"github.com/dmitrijs2005/swapmarket/internal/client/config"
	"github.com/dmitrijs2005/swapmarket/internal/client/optimistic"
	"github.com/dmitrijs2005/swapmarket/internal/client/services"
	"github.com/dmitrijs2005/swapmarket/internal/client/session"
	"github.com/dmitrijs2005/swapmarket/internal/logging"
)

type App struct {
	config *config.Config
	log    logging.Logger
	client *api.HTTPClient
	engine *optimistic.Engine

	sess          *session.Session
	follow        services.FollowService
	notifications services.NotificationService
	trades        services.TradeService
	otp           *services.OtpFlow

	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	client := api.NewHTTPClient(c.ServerBaseURL)
	engine := optimistic.NewEngine()

	app := &App{
		config: c,
		log:    log,
		client: client,
		engine: engine,
		reader: bufio.NewReader(os.Stdin),
	}

	if c.AccessToken != "" {
		client.SetAccessToken(c.AccessToken)
		sess, err := session.Parse(c.AccessToken)
		if err != nil {
			log.Warn(context.Background(), "access token is not parseable, continuing anonymously", "error", err)
		} else {
			app.sess = sess
		}
	}

	app.notifications = services.NewNotificationService(client, engine, log)
	app.trades = services.NewTradeService(client, engine, log)
	app.otp = services.NewOtpFlow(client, engine, log, c.OtpTTL)

	return app, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()
	defer a.otp.Cancel()

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) status() string {
	if a.sess == nil {
		return "(anonymous)"
	}
	return "(" + a.sess.Nickname + ")"
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/killallgit/agentchat/pkg/config"
	"github.com/killallgit/agentchat/pkg/conn"
	"github.com/killallgit/agentchat/pkg/headless"
	"github.com/killallgit/agentchat/pkg/logger"
	"github.com/killallgit/agentchat/pkg/protocol"
	"github.com/killallgit/agentchat/pkg/render"
	"github.com/killallgit/agentchat/pkg/session"
	"github.com/killallgit/agentchat/pkg/tui"
	"github.com/mattn/go-isatty"
)

// AppConfig contains all configuration needed to run the application
type AppConfig struct {
	Config          *config.Config
	Headless        bool
	Prompt          string
	ContinueHistory bool
}

// RunApplication is the main entry point for the application logic
func RunApplication(ctx context.Context, appCfg *AppConfig) error {
	log := logger.WithComponent("app")
	settings := appCfg.Config

	clientID := resolveClientID(settings.Server.ClientID)
	endpoint, err := conn.EndpointURL(settings.Server.URL, clientID, settings.Server.Model)
	if err != nil {
		return err
	}
	log.Info("Application starting", "endpoint", endpoint, "client_id", clientID, "headless", appCfg.Headless || appCfg.Prompt != "")

	if settings.History.Enabled {
		path := config.ResolvePath(settings.History.File)
		if err := logger.InitHistoryFile(path, appCfg.ContinueHistory); err != nil {
			log.Warn("History disabled", "reason", err)
			settings.History.Enabled = false
		}
	}

	manager := conn.New(newConnConfig(settings, endpoint))
	ctrl := session.New(manager, session.Options{
		ClientID: clientID,
		Encoder:  protocol.NewEncoder(protocol.Format(settings.Server.OutboundFormat), settings.Server.ProjectID),
		History:  settings.History.Enabled,
	})

	if appCfg.Headless || appCfg.Prompt != "" {
		return runHeadless(ctx, manager, ctrl, settings, appCfg.Prompt)
	}

	renderer := render.New(render.Options{
		Markdown:  settings.Render.Markdown,
		CodeTheme: settings.Render.CodeTheme,
	})
	bridge := tui.NewBridge(manager)
	if err := manager.Connect(ctx); err != nil {
		bridge.Stop()
		return fmt.Errorf("failed to connect to %s: %w", endpoint, err)
	}
	return tui.StartApp(ctx, manager, bridge, ctrl, renderer)
}

func runHeadless(ctx context.Context, manager *conn.Manager, ctrl *session.Controller, settings *config.Config, prompt string) error {
	opts := headless.Options{
		Prompt: strings.TrimSpace(prompt),
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
	if settings.Render.Markdown && isatty.IsTerminal(os.Stdout.Fd()) {
		opts.Renderer = render.New(render.Options{
			Markdown:  true,
			CodeTheme: settings.Render.CodeTheme,
		})
	}
	return headless.Run(ctx, manager, ctrl, opts)
}

// resolveClientID returns id, or a fresh random id when id is empty
func resolveClientID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}

func newConnConfig(settings *config.Config, endpoint string) conn.Config {
	return conn.Config{
		URL:              endpoint,
		HandshakeTimeout: settings.Server.HandshakeTimeout,
		WriteTimeout:     settings.Server.WriteTimeout,
		ReadLimit:        settings.Server.ReadLimit,
	}
}

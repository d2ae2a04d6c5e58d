// Command telnet-echo is a small standalone server exercising the telnet
// package end to end: it accepts connections, negotiates the options the
// package supports by default, and echoes back everything it receives.
package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/huhlig/termionix/internal/config"
	"github.com/huhlig/termionix/internal/logger"
	"github.com/huhlig/termionix/telnet"
)

func main() {
	var (
		configPath string
		listenAddr string
		logLevel   string
	)

	root := &cobra.Command{
		Use:   "telnet-echo",
		Short: "A telnet option-negotiation and echo smoke-test server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &config.Config{ListenAddr: ":2323", LogLevel: "info"}
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cfg = loaded
			}
			if listenAddr != "" {
				cfg.ListenAddr = listenAddr
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			log := logger.Setup(cfg.LogLevel, false)
			return serve(cfg, log)
		},
	}

	root.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	root.Flags().StringVarP(&listenAddr, "listen", "l", "", "override listenAddr (e.g. :2323)")
	root.Flags().StringVar(&logLevel, "log-level", "", "override logLevel (debug|info|warn|error)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(cfg *config.Config, log *slog.Logger) error {
	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.ListenAddr, err)
	}
	defer ln.Close()

	log.Info("telnet-echo listening", "addr", cfg.ListenAddr)

	metrics := telnet.NoopSink()

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Error("accept failed", "err", err)
			continue
		}
		go handleConn(conn, log, metrics, cfg)
	}
}

func handleConn(conn net.Conn, log *slog.Logger, metrics telnet.Sink, cfg *config.Config) {
	opts := []telnet.Option{
		telnet.WithMetrics(metrics),
		telnet.WithFlushStrategy(flushStrategyFromConfig(cfg.Flush)),
	}
	if len(cfg.Charsets) > 0 {
		opts = append(opts, telnet.WithCharsets(cfg.Charsets))
	}
	if cfg.MSSP.Name != "" {
		opts = append(opts, telnet.WithMSSPProvider(func() map[string]string {
			vars := map[string]string{"NAME": cfg.MSSP.Name}
			for k, v := range cfg.MSSP.Extra {
				vars[k] = v
			}
			return vars
		}))
	}

	h := telnet.NewConnection(conn, log, opts...)
	defer h.Close()

	h.Send(telnet.SendText("Welcome to telnet-echo.\r\n"), true)

	for {
		ev, ok := h.NextEvent()
		if !ok {
			return
		}
		switch ev.Kind {
		case telnet.EventData:
			h.Send(telnet.SendBytes(ev.Data), true)
		case telnet.EventWindowSize:
			log.Info("window size", "width", ev.Width, "height", ev.Height)
		case telnet.EventTerminalType:
			log.Info("terminal type", "name", ev.TermType)
		case telnet.EventOptionChanged:
			log.Debug("option changed", "option", telnet.OptionNames[ev.Option], "side", ev.Side, "enabled", ev.Enabled)
		case telnet.EventDisconnected:
			return
		}
	}
}

func flushStrategyFromConfig(cfg config.FlushConfig) telnet.FlushStrategy {
	switch cfg.Strategy {
	case "immediate":
		return telnet.FlushImmediate()
	case "manual":
		return telnet.FlushManual()
	case "threshold":
		return telnet.FlushOnThreshold(cfg.Threshold)
	default:
		return telnet.FlushOnNewline()
	}
}

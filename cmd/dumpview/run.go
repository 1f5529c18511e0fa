package main

import (
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dumpview/dumpview/pkg/dumpapi"
	"github.com/dumpview/dumpview/pkg/dumpcfg"
	"github.com/dumpview/dumpview/pkg/dumpnet"
	"github.com/dumpview/dumpview/pkg/dumpstore"
	"github.com/dumpview/dumpview/pkg/dumptui"
	"github.com/dumpview/dumpview/pkg/dumptui/events"
	"github.com/dumpview/dumpview/pkg/dumptui/styles"
)

// cmdline arguments
var bindAddr string
var apiMode bool
var apiAddr string
var headless bool
var lightTheme bool
var verbose bool
var configPath string

func init() {
	rootCmd.Flags().StringVar(&bindAddr, "bind", dumpcfg.DefaultBind, "Address to listen on for incoming dumps.")
	rootCmd.Flags().BoolVar(&apiMode, "api", false, "Enable the read-only REST API server.")
	rootCmd.Flags().StringVar(&apiAddr, "api-addr", dumpcfg.DefaultAPIAddr, "Address for the REST API server.")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "Run without the terminal UI (ingestion and API only).")
	rootCmd.Flags().BoolVar(&lightTheme, "light", false, "Use the light color palette.")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output.")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML configuration file.")
}

var rootCmd = &cobra.Command{
	Use:   "dumpview [port]",
	Short: "Inspect structured debug dumps pushed over TCP.",
	Long: `dumpview listens on a TCP port for JSON dumps pushed by external
processes and renders them in a live terminal UI. Select an entry to see
the dumped value as a tree along with the captured backtrace.`,
	Example: "  dumpview                  # listen on 127.0.0.1:9337\n" +
		"  dumpview 7000             # listen on port 7000\n" +
		"  dumpview --api            # also serve the REST API\n" +
		"  dumpview --headless --api # no UI, API only",
	Args: cobra.MaximumNArgs(1),
	Run:  runCmd,
}

// resolveConfig overlays command line flags on the config file values.
func resolveConfig(cmd *cobra.Command, args []string) dumpcfg.Config {
	cfg, err := dumpcfg.Load(configPath)
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	if cmd.Flags().Changed("bind") {
		cfg.Bind = bindAddr
	}
	if cmd.Flags().Changed("api") {
		cfg.API = apiMode
	}
	if cmd.Flags().Changed("api-addr") {
		cfg.APIAddr = apiAddr
	}
	if lightTheme {
		cfg.Theme = "light"
	}

	if len(args) == 1 {
		port, err := strconv.Atoi(args[0])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", args[0])
		}
		cfg.Port = port
	}

	return cfg
}

// setupLogging configures logrus from flags and config.
func setupLogging(cfg dumpcfg.Config) {
	if verbose {
		log.SetLevel(log.DebugLevel)
		return
	}
	if cfg.LogLevel != "" {
		level, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			log.Fatalf("Invalid log level %q: %s", cfg.LogLevel, err)
		}
		log.SetLevel(level)
	}
}

// setupTheme picks the palette: explicit config wins, otherwise the
// terminal background decides.
func setupTheme(cfg dumpcfg.Config) {
	switch cfg.Theme {
	case "light":
		styles.SetDarkTheme(false)
	case "dark":
		styles.SetDarkTheme(true)
	default:
		styles.SetDarkTheme(termenv.HasDarkBackground())
	}
}

// setupSignalHandler triggers shutdown on the first signal and forces an
// exit on the second.
func setupSignalHandler(bus *events.Bus, triggerShutdown func()) {
	go func() {
		sigChan := make(chan os.Signal, 2)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		<-sigChan
		bus.Publish(events.Event{Type: events.ShutdownStarted, Timestamp: time.Now()})
		if headless {
			log.Infof("Shutting down... (press Ctrl+C again to force)")
		}
		triggerShutdown()

		<-sigChan
		log.Warnf("Forced shutdown")
		os.Exit(1)
	}()
}

func runCmd(cmd *cobra.Command, args []string) {
	cfg := resolveConfig(cmd, args)
	setupLogging(cfg)
	if !headless {
		setupTheme(cfg)
	}

	store := dumpstore.NewStore()
	bus := events.NewBus(1000)
	bus.Start()

	listenAddr := net.JoinHostPort(cfg.Bind, strconv.Itoa(cfg.Port))
	netManager := dumpnet.NewManager(listenAddr, store, bus)
	if err := netManager.Start(); err != nil {
		log.Fatalf("Listen error: %s", err)
	}

	stopListenCh := make(chan struct{})
	var stopOnce sync.Once
	triggerShutdown := func() {
		stopOnce.Do(func() {
			close(stopListenCh)
		})
	}

	setupSignalHandler(bus, triggerShutdown)

	var apiManager *dumpapi.Manager
	if cfg.API {
		apiManager = dumpapi.Init(store, netManager, cfg.APIAddr, netManager.Addr(), Version)
		go func() {
			if err := apiManager.Run(); err != nil {
				log.Errorf("API server error: %s", err)
			}
		}()
		go func() {
			<-stopListenCh
			apiManager.Stop()
		}()
	}

	var tuiManager *dumptui.Manager
	if headless {
		log.Infof("Running headless. Press [Ctrl-C] to stop.")
		<-stopListenCh
	} else {
		tuiManager = dumptui.Init(store, bus, netManager, stopListenCh,
			triggerShutdown, Version, netManager.Addr())
		if err := tuiManager.Run(); err != nil {
			log.Errorf("TUI error: %s", err)
		}
		triggerShutdown()
	}

	performShutdown(netManager, tuiManager, apiManager, store, bus)
}

// performShutdown drains every subsystem with a bounded wait so a stuck
// component cannot hang the exit.
func performShutdown(netManager *dumpnet.Manager, tuiManager *dumptui.Manager,
	apiManager *dumpapi.Manager, store *dumpstore.Store, bus *events.Bus) {

	netManager.Stop()

	if tuiManager != nil {
		tuiManager.Stop()
		select {
		case <-tuiManager.Done():
			log.Debugf("TUI cleanup complete")
		case <-time.After(time.Second):
			log.Debugf("Timeout waiting for TUI cleanup")
		}
	}

	if apiManager != nil {
		apiManager.Stop()
		select {
		case <-apiManager.Done():
			log.Debugf("API server cleanup complete")
		case <-time.After(time.Second):
			log.Debugf("Timeout waiting for API cleanup")
		}
	}

	store.Stop()
	bus.Stop()

	log.Infof("Clean exit")
}

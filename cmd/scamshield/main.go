package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scamshield/scamshield/internal/api"
	"github.com/scamshield/scamshield/internal/config"
	"github.com/scamshield/scamshield/internal/logging"
	"github.com/scamshield/scamshield/internal/session"
	"github.com/scamshield/scamshield/internal/storage"
	"github.com/scamshield/scamshield/internal/ui"
	"github.com/scamshield/scamshield/internal/validate"
	"github.com/scamshield/scamshield/internal/wallet"
)

var version = "dev"

func main() {
	cmd := "tui"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "tui":
		if err := runTUI(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "wallet":
		if err := runWallet(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "check":
		if err := runCheck(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("scamshield %s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: scamshield [command]

Commands:
  tui       Start the interactive terminal UI (default)
  wallet    Manage the local keystore (init, show)
  check     Check an address against verified scam reports
  version   Print version information
`)
}

func runTUI() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Log to file only; stdout belongs to the TUI.
	logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogDir, false)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logCloser.Close()

	slog.Info("starting scamshield tui",
		"version", version,
		"network", cfg.Network,
		"apiBaseURL", cfg.APIBaseURL,
	)

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open local storage: %w", err)
	}
	defer store.Close()

	signer, err := wallet.Open(cfg.KeystoreFile, 0)
	if err != nil {
		// Votes are still possible without a keystore, just unsigned.
		slog.Info("no local keystore, votes will carry no digest", "error", err)
		signer = nil
	}

	sess := session.NewStore(store)
	app := ui.NewApp(sess, store, signer, cfg.APIBaseURL, version)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func runWallet() error {
	fs := flag.NewFlagSet("wallet", flag.ExitOnError)
	keystore := fs.String("keystore", "", "Keystore file path (default: from config)")
	index := fs.Uint("index", 0, "Account index to derive")

	sub := "show"
	args := os.Args[2:]
	if len(args) > 0 && (args[0] == "init" || args[0] == "show") {
		sub = args[0]
		args = args[1:]
	}
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	path := cfg.KeystoreFile
	if *keystore != "" {
		path = *keystore
	}

	switch sub {
	case "init":
		mnemonic, err := wallet.GenerateMnemonic()
		if err != nil {
			return err
		}
		if err := wallet.WriteKeystore(path, mnemonic); err != nil {
			return err
		}
		signer, err := wallet.Open(path, uint32(*index))
		if err != nil {
			return err
		}
		fmt.Printf("keystore: %s\n", path)
		fmt.Printf("address:  %s\n", signer.Address())
		fmt.Println("\nRecovery phrase (write it down, it is shown once):")
		fmt.Println(mnemonic)
		return nil

	case "show":
		signer, err := wallet.Open(path, uint32(*index))
		if err != nil {
			return err
		}
		fmt.Printf("keystore: %s\n", path)
		fmt.Printf("address:  %s\n", signer.Address())
		return nil
	}
	return fmt.Errorf("unknown wallet subcommand")
}

func runCheck() error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	fs.Parse(os.Args[2:])
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: scamshield check <address>")
	}
	address := fs.Arg(0)
	if err := validate.Address(address); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogDir, false)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logCloser.Close()

	client := api.NewClient(cfg.APIBaseURL, api.IdentityFunc(func() string { return "" }))
	check, err := client.ScammerCheck(context.Background(), address)
	if err != nil {
		return fmt.Errorf("check address: %w", err)
	}

	if !check.Reported {
		fmt.Printf("%s has no verified scam reports\n", address)
		return nil
	}
	fmt.Printf("%s is flagged: %d verified report(s), risk %s\n",
		address, check.ReportCount, check.RiskLevel.Label())
	return nil
}

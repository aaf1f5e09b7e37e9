package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/tinytelemetry/hourglass/internal/model"
	"github.com/tinytelemetry/hourglass/internal/socketrpc"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var socketPath string
	var showVersion bool
	var confirm bool
	var asJSON bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/hourglass/config.yml)")
	flag.StringVar(&socketPath, "socket", "", "override socket path of the running clock")
	flag.BoolVar(&confirm, "confirm", false, "allow duration changes to discard a countdown in progress")
	flag.BoolVar(&asJSON, "json", false, "print the status as JSON")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), usage)
		fmt.Fprintln(flag.CommandLine.Output(), "\nflags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("Hourglass Control\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCtlConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if socketPath != "" {
		cfg.SocketPath = socketPath
	}

	if err := run(cfg, flag.Args(), confirm, asJSON); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg ctlConfig, args []string, confirm, asJSON bool) error {
	client, err := socketrpc.Dial(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("cannot connect to the clock at %s: %w\nIs hourglass running with control enabled?", cfg.SocketPath, err)
	}
	defer client.Close()

	st, err := runCommand(client, args, confirm)
	if err != nil {
		var rpcErr *socketrpc.RPCError
		if errors.As(err, &rpcErr) && rpcErr.Message == model.ErrRunInProgress.Error() {
			return fmt.Errorf("%w (pass -confirm)", err)
		}
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	fmt.Println(formatStatus(st))
	return nil
}

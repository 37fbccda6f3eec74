// lessonctl is the control CLI for lessond.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"lessond/internal/config"
	"lessond/internal/ipc"
)

var (
	configPath = flag.String("config", "", "path to config file")
	asJSON     = flag.Bool("json", false, "print raw JSON output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	switch cmd := flag.Arg(0); cmd {
	case "ping":
		cmdPing()
	case "status":
		cmdStatus()
	case "reload":
		cmdReload()
	case "mode":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: lessonctl mode <none|blackboard|whiteboard>")
			os.Exit(1)
		}
		cmdMode(flag.Arg(1))
	case "interrupt":
		cmdInterrupt()
	case "shutdown":
		cmdShutdown()
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `lessonctl - Control utility for lessond

Usage: lessonctl [options] <command> [args]

Commands:
  ping            Check that the daemon is running
  status          Show display state, automation state and counters
  reload          Reload the automation rules file
  mode <mode>     Switch overlay mode (none, blackboard, whiteboard)
  interrupt       Inject user activity, cancelling a pending automation
  shutdown        Stop the daemon
  help            Show this help message

Options:
  -config <path>  Path to config file (default: ~/.lessond/config.toml)
  -json           Print raw JSON output`)
}

func dial() *ipc.Client {
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	client, err := ipc.Dial(cfg.IPC.SocketPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Is lessond running?")
		os.Exit(1)
	}
	return client
}

func cmdPing() {
	client := dial()
	defer client.Close()

	if err := client.Ping(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("lessond is running")
}

func cmdStatus() {
	client := dial()
	defer client.Close()

	st, err := client.Status()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		out, _ := json.MarshalIndent(st, "", "  ")
		fmt.Println(string(out))
		return
	}

	fmt.Println("=== lessond Status ===")
	fmt.Printf("Version:  %s\n", st.Version)
	fmt.Printf("Uptime:   %s\n", st.Uptime.Truncate(time.Second))
	fmt.Println()

	d := st.Display
	fmt.Println("Display:")
	if d.Countdown == "" {
		fmt.Println("  No activity resolved")
	} else {
		fmt.Printf("  Highlight: %s\n", orDash(d.Highlight))
		fmt.Printf("  Countdown: %s (%s, %d%%)\n", d.Countdown, d.Activity, d.Progress)
		if d.Pending {
			fmt.Println("  Waiting for the first node to start")
		}
	}
	fmt.Printf("  Mode:      %s\n", d.Mode)
	if d.PointerHidden {
		fmt.Println("  Pointer:   hidden")
	}
	if len(d.Tomorrow) > 0 {
		fmt.Printf("  Tomorrow:  %s\n", strings.Join(d.Tomorrow, ", "))
	}
	if d.WindowOpen {
		fmt.Printf("  Window:    %q\n", d.WindowText)
	}
	fmt.Println()

	e := st.Engine
	fmt.Println("Automation:")
	fmt.Printf("  State:     %s\n", e.State)
	if e.Lesson != "" {
		fmt.Printf("  Lesson:    %s (triggered: %v)\n", e.Lesson, e.Triggered)
	}
	if !e.Deadline.IsZero() {
		fmt.Printf("  Deadline:  %s\n", e.Deadline.Format(time.RFC3339))
	}
	fmt.Printf("  Counters:  armed=%d committed=%d cancelled=%d skipped=%d\n",
		e.Armed, e.Committed, e.Cancelled, e.Skipped)
}

func cmdReload() {
	client := dial()
	defer client.Close()

	rr, err := client.Reload()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !rr.Success {
		fmt.Fprintf(os.Stderr, "Reload failed: %s\n", rr.Error)
		os.Exit(1)
	}
	fmt.Printf("Rules reloaded: %d active\n", rr.Rules)
}

func cmdMode(mode string) {
	client := dial()
	defer client.Close()

	if err := client.SetMode(mode); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Mode set to %s\n", mode)
}

func cmdInterrupt() {
	client := dial()
	defer client.Close()

	if err := client.Interrupt(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Activity injected")
}

func cmdShutdown() {
	client := dial()
	defer client.Close()

	if err := client.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Shutdown requested")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

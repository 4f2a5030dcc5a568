// Package cmd provides CLI commands for the QR bot.
//
// Commands:
//   - run: long-poll Telegram and serve conversions
//   - version: print version information
//
// Signal handling and graceful shutdown are implemented via context
// cancellation.
package cmd

import (
	"fmt"
	"os"
)

// Execute is the main entry point for the qr-bot CLI.
func Execute() error {
	if len(os.Args) < 2 {
		return runBot()
	}

	switch os.Args[1] {
	case "run":
		return runBot()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("qr-bot - Telegram bot that converts text to QR codes and back")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  qr-bot run         Start the bot (long polling)")
	fmt.Println("  qr-bot --version   Show version information")
	fmt.Println("  qr-bot --help      Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  QR_BOT_TOKEN       Required: Telegram bot token")
	fmt.Println("  QR_SPOOL_DIR       Optional: artifact spool directory")
	fmt.Println("  QR_LANG            Optional: reply language (en, uz)")
	fmt.Println("  QR_LOG_LEVEL       Optional: debug, info, warn, error")
	fmt.Println("  QR_LOG_JSON        Optional: JSON log output")
	fmt.Println("  QR_RETAIN_UPLOADS  Optional: keep uploads until their TTL")
}

// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/ember/main.go
// Summary: Entry point for the ember terminal.
// Usage: ember [command args...]; with no arguments the configured shell
//        (or $SHELL) is launched.

package main

import (
	"flag"
	"log"

	"github.com/emberterm/ember/config"
	"github.com/emberterm/ember/internal/app"
)

func main() {
	flag.Parse()
	cfg, err := config.Load()
	if err != nil {
		log.Printf("config: %v (using defaults)", err)
	}
	if err := app.Run(cfg, flag.Args()); err != nil {
		log.Fatalf("ember: %v", err)
	}
}

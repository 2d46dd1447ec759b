package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vlxref/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:   "lsp [paths...]",
	Short: "Serve the index to editors over the Language Server Protocol",
	Long: `Index the project, then speak LSP on stdin/stdout. Open dump buffers are
re-indexed as they are edited; a Verilog source is answered from the dump
named after it (top.v from top.v.vcst).`,
	RunE: runLSP,
}

func runLSP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := loadWorkspace(cmd, args, true)
	if err != nil {
		return err
	}
	defer w.Close()
	// stdout carries the protocol
	w.cfg.quiet = true
	if err := w.index(ctx); err != nil {
		return err
	}

	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Session:        w.session,
		Extensions:     w.extensions,
		MaxDiagnostics: w.cfg.maxDiagnostics,
		Log:            cmd.ErrOrStderr(),
	})
	err = server.Run(ctx)
	if errors.Is(err, lsp.ErrExit) {
		return nil
	}
	return err
}

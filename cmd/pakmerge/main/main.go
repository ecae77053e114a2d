package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/arthur-debert/pakmerge/cmd/pakmerge"
	"github.com/arthur-debert/pakmerge/pkg/errors"
	"github.com/arthur-debert/pakmerge/pkg/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := pakmerge.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		renderer, rerr := ui.NewRenderer(ui.FormatAuto, os.Stderr)
		if rerr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		} else {
			_ = renderer.RenderError(err)
		}
		if errors.IsUserCanceled(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

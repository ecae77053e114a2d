// Package prompt asks the user which archive variant to install.
package prompt

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/arthur-debert/pakmerge/pkg/catalog"
	"github.com/arthur-debert/pakmerge/pkg/errors"
	"github.com/arthur-debert/pakmerge/pkg/logging"
	"github.com/arthur-debert/pakmerge/pkg/ui"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// CancelOption is appended to every variant list
const CancelOption = "Cancel installation"

// SelectFunc shows title and returns the picked option
type SelectFunc func(title string, options []string, defaultOption string) (string, error)

// Chooser asks for variants one at a time on the terminal
type Chooser struct {
	mu     sync.Mutex
	sel    SelectFunc
	logger zerolog.Logger
}

var _ catalog.VariantChooser = (*Chooser)(nil)

// New creates a Chooser using pterm's interactive select
func New() *Chooser {
	return NewWithSelect(ptermSelect)
}

// NewWithSelect creates a Chooser around a custom select function
func NewWithSelect(sel SelectFunc) *Chooser {
	return &Chooser{sel: sel, logger: logging.GetLogger("ui.prompt")}
}

func ptermSelect(title string, options []string, defaultOption string) (string, error) {
	return pterm.DefaultInteractiveSelect.
		WithOptions(options).
		WithDefaultOption(defaultOption).
		WithMaxHeight(len(options)).
		Show(title)
}

// ChooseVariant implements catalog.VariantChooser. Prompts are serialized
// since only one can own the terminal.
func (c *Chooser) ChooseVariant(ctx context.Context, req catalog.VariantRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	options := append(append([]string(nil), req.Candidates...), CancelOption)
	title := fmt.Sprintf("This mod has %d variants of %s. Pick the one to install", len(req.Candidates), req.Basename)

	choice, err := c.sel(title, options, req.Default)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "variant prompt failed")
	}
	if choice == CancelOption {
		c.logger.Info().Str("basename", req.Basename).Msg("Variant selection canceled")
		return "", errors.UserCanceled("installation canceled during variant selection").
			WithDetail("basename", req.Basename)
	}

	c.logger.Debug().
		Str("basename", req.Basename).
		Str("choice", choice).
		Msg("Variant chosen")
	return choice, nil
}

// ForTerminal returns an interactive chooser when stdin and stdout are
// terminals and catalog.FirstVariant otherwise.
func ForTerminal() catalog.VariantChooser {
	if ui.IsTerminal(os.Stdin) && ui.IsTerminal(os.Stdout) {
		return New()
	}
	return catalog.FirstVariant
}

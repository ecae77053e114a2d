package catalog

import (
	"context"
	"sort"

	"github.com/arthur-debert/pakmerge/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// VariantRequest asks for one archive among several sharing a basename
type VariantRequest struct {
	// Basename shared by all candidates
	Basename string
	// Candidates are the full package paths, in file-list order
	Candidates []string
	// Default is the candidate preselected for the user
	Default string
}

// VariantChooser picks one candidate for an ambiguous archive basename.
// Returning an error with code ErrUserCanceled aborts the install.
type VariantChooser interface {
	ChooseVariant(ctx context.Context, req VariantRequest) (string, error)
}

// ChooserFunc adapts a function to VariantChooser
type ChooserFunc func(ctx context.Context, req VariantRequest) (string, error)

// ChooseVariant implements VariantChooser
func (f ChooserFunc) ChooseVariant(ctx context.Context, req VariantRequest) (string, error) {
	return f(ctx, req)
}

// FirstVariant always picks the first candidate
var FirstVariant = ChooserFunc(func(_ context.Context, req VariantRequest) (string, error) {
	return req.Candidates[0], nil
})

// archiveGroups maps an archive basename to its paths in file-list order
type archiveGroups map[string][]string

// ambiguous returns the basenames with more than one candidate, sorted
func (g archiveGroups) ambiguous() []string {
	var out []string
	for base, paths := range g {
		if len(paths) > 1 {
			out = append(out, base)
		}
	}
	sort.Strings(out)
	return out
}

// selectVariants prompts for every ambiguous basename. Prompts run
// concurrently; the returned map is keyed by basename so applying it does
// not depend on completion order.
func (c *Cataloger) selectVariants(ctx context.Context, groups archiveGroups) (map[string]string, error) {
	bases := groups.ambiguous()
	if len(bases) == 0 {
		return nil, nil
	}

	chooser := c.opts.Chooser
	if chooser == nil {
		chooser = FirstVariant
	}

	choices := make([]string, len(bases))
	g, gctx := errgroup.WithContext(ctx)
	for i, base := range bases {
		candidates := groups[base]
		g.Go(func() error {
			choice, err := chooser.ChooseVariant(gctx, VariantRequest{
				Basename:   base,
				Candidates: append([]string(nil), candidates...),
				Default:    candidates[0],
			})
			if err != nil {
				if errors.IsUserCanceled(err) {
					return err
				}
				return errors.Wrapf(err, errors.ErrInstallFailed, "variant selection for %s failed", base).
					WithDetail("basename", base)
			}
			if !contains(candidates, choice) {
				return errors.Newf(errors.ErrInvalidInput, "%q is not a variant of %s", choice, base).
					WithDetail("basename", base)
			}
			choices[i] = choice
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	selected := make(map[string]string, len(bases))
	for i, base := range bases {
		selected[base] = choices[i]
		c.logger.Info().
			Str("basename", base).
			Str("choice", choices[i]).
			Int("candidates", len(groups[base])).
			Msg("Variant selected")
	}
	return selected, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

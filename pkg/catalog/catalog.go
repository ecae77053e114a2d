package catalog

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/pakmerge/pkg/config"
	"github.com/arthur-debert/pakmerge/pkg/errors"
	"github.com/arthur-debert/pakmerge/pkg/logging"
	"github.com/arthur-debert/pakmerge/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxNameAttempts bounds regeneration when a generated name is already taken
const maxNameAttempts = 16

// Options configures a Cataloger
type Options struct {
	// ModType is set on the mod so the host routes it through the merge pipeline
	ModType string
	// RootMarker is the path segment non-archive files are re-rooted at
	RootMarker string
	// Extension identifies archive files, matched case-insensitively
	Extension string
	// NamePattern and FallbackName optionally normalize original basenames
	NamePattern  *regexp.Regexp
	FallbackName string
	// Chooser resolves variants; nil picks the first candidate
	Chooser VariantChooser
	// NewName generates a random name without extension; nil uses uuid v4
	NewName func() string
}

// OptionsFromConfig derives Options from the configuration
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	opts := Options{
		ModType:      cfg.Game.ModType,
		RootMarker:   cfg.Game.RootMarker,
		Extension:    cfg.Archive.Extension,
		FallbackName: cfg.Catalog.FallbackName,
	}
	if cfg.Catalog.NamePattern != "" {
		re, err := regexp.Compile(cfg.Catalog.NamePattern)
		if err != nil {
			return Options{}, errors.Wrap(err, errors.ErrConfigInvalid, "invalid catalog.name_pattern")
		}
		opts.NamePattern = re
	}
	return opts, nil
}

// Result is the outcome of cataloging one mod package
type Result struct {
	// Instructions start with setmodtype, then copy/attribute in file order
	Instructions []types.Instruction
	// Dictionary is the pakDictionary carried by the attribute instruction
	Dictionary types.PakDictionary
	// ModType is the value of the setmodtype instruction
	ModType string
	// Dropped lists the variant paths that were not chosen
	Dropped []string
}

// Cataloger builds install instructions for mod packages
type Cataloger struct {
	opts   Options
	logger zerolog.Logger
}

// New creates a Cataloger
func New(opts Options) *Cataloger {
	if opts.NewName == nil {
		opts.NewName = randomName
	}
	return &Cataloger{
		opts:   opts,
		logger: logging.GetLogger("catalog"),
	}
}

func randomName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Catalog computes the install instructions for files, the package's
// relative paths as listed by the host. Directory markers end in a path
// separator and are skipped.
func (c *Cataloger) Catalog(ctx context.Context, files []string) (*Result, error) {
	done := logging.LogOperationStart(c.logger, "catalog")
	defer done()

	groups := c.groupArchives(files)
	selected, err := c.selectVariants(ctx, groups)
	if err != nil {
		return nil, err
	}

	filtered, dropped := applyVariants(files, selected, c.isArchive)
	rootIdx := rootStripIndex(files, c.opts.RootMarker)

	result := &Result{
		Instructions: []types.Instruction{types.SetModType(c.opts.ModType)},
		Dictionary:   types.PakDictionary{},
		ModType:      c.opts.ModType,
		Dropped:      dropped,
	}
	hasDictionary := false

	for _, file := range filtered {
		if isDirMarker(file) {
			continue
		}

		if !c.isArchive(file) {
			result.Instructions = append(result.Instructions,
				types.Copy(file, stripRoot(file, rootIdx)))
			continue
		}

		generated, err := c.uniqueName(result.Dictionary)
		if err != nil {
			return nil, err
		}
		result.Dictionary[generated] = c.originalName(file)

		if !hasDictionary {
			// The attribute shares the dictionary map, so later archives
			// land in this one instruction.
			result.Instructions = append(result.Instructions,
				types.Attribute(types.AttributePakDictionary, result.Dictionary))
			hasDictionary = true
		}
		result.Instructions = append(result.Instructions, types.Copy(file, generated))

		c.logger.Debug().
			Str("source", file).
			Str("generated", generated).
			Str("original", result.Dictionary[generated]).
			Msg("Renamed archive")
	}

	c.logger.Info().
		Int("files", len(files)).
		Int("archives", len(result.Dictionary)).
		Int("instructions", len(result.Instructions)).
		Int("dropped", len(dropped)).
		Msg("Cataloged mod package")

	return result, nil
}

func (c *Cataloger) isArchive(file string) bool {
	return IsArchive(file, c.opts.Extension)
}

func (c *Cataloger) groupArchives(files []string) archiveGroups {
	groups := archiveGroups{}
	for _, file := range files {
		if isDirMarker(file) || !c.isArchive(file) {
			continue
		}
		base := baseName(file)
		groups[base] = append(groups[base], file)
	}
	return groups
}

// originalName is the basename recorded in the dictionary
func (c *Cataloger) originalName(file string) string {
	base := baseName(file)
	if c.opts.NamePattern != nil && c.opts.FallbackName != "" && !c.opts.NamePattern.MatchString(base) {
		c.logger.Debug().
			Str("basename", base).
			Str("fallback", c.opts.FallbackName).
			Msg("Archive name does not match pattern, using fallback")
		return c.opts.FallbackName
	}
	return base
}

func (c *Cataloger) uniqueName(used types.PakDictionary) (string, error) {
	for i := 0; i < maxNameAttempts; i++ {
		name := c.opts.NewName() + c.opts.Extension
		if _, taken := used[name]; !taken {
			return name, nil
		}
	}
	return "", errors.Newf(errors.ErrInternal, "could not generate a unique archive name after %d attempts", maxNameAttempts)
}

// applyVariants drops every archive whose basename has a selected variant
// other than itself. Order of the remaining files is preserved.
func applyVariants(files []string, selected map[string]string, isArchive func(string) bool) ([]string, []string) {
	if len(selected) == 0 {
		return files, nil
	}
	var kept, dropped []string
	for _, file := range files {
		if !isDirMarker(file) && isArchive(file) {
			if choice, ok := selected[baseName(file)]; ok && choice != file {
				dropped = append(dropped, file)
				continue
			}
		}
		kept = append(kept, file)
	}
	return kept, dropped
}

// IsArchive reports whether path has the archive extension, ignoring case
func IsArchive(path, extension string) bool {
	return strings.EqualFold(filepath.Ext(path), extension)
}

func isDirMarker(file string) bool {
	return strings.HasSuffix(file, "/") || strings.HasSuffix(file, "\\") ||
		strings.HasSuffix(file, string(filepath.Separator))
}

// segments splits on both separators; host listings may use either
func segments(file string) []string {
	return strings.Split(strings.ReplaceAll(filepath.ToSlash(file), "\\", "/"), "/")
}

func baseName(file string) string {
	segs := segments(file)
	return segs[len(segs)-1]
}

// rootStripIndex finds the first path containing the root marker segment
// and returns the marker's index in it, or 0.
func rootStripIndex(files []string, marker string) int {
	if marker == "" {
		return 0
	}
	for _, file := range files {
		for i, seg := range segments(file) {
			if strings.EqualFold(seg, marker) {
				return i
			}
		}
	}
	return 0
}

// stripRoot drops the first idx segments of file. Files shallower than
// the marker keep their basename.
func stripRoot(file string, idx int) string {
	segs := segments(file)
	if idx >= len(segs) {
		idx = len(segs) - 1
	}
	return filepath.FromSlash(strings.Join(segs[idx:], "/"))
}

// Support is the answer to an installer support query
type Support struct {
	Supported     bool
	RequiredFiles []string
}

// TestSupported reports whether a package for gameID can be installed by the
// cataloger: it must target the configured game and contain an archive.
func TestSupported(files []string, gameID string, cfg *config.Config) Support {
	support := Support{RequiredFiles: []string{}}
	if gameID != cfg.Game.ID {
		return support
	}
	for _, file := range files {
		if !isDirMarker(file) && IsArchive(file, cfg.Archive.Extension) {
			support.Supported = true
			break
		}
	}
	return support
}

// Package curation filters the store listing locales the distribution platform rejects.
package curation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/zerr"
)

// Listing file names inside a locale directory.
const (
	TitleFile            = "title.txt"
	ShortDescriptionFile = "short-description.txt"
	FullDescriptionFile  = "full-description.txt"
)

// Curator removes excluded locales from listing sets and listing trees.
type Curator struct {
	excluded map[string]struct{}
	logger   ports.Logger
}

// New creates a Curator for the given exclusion set.
func New(excluded []string, logger ports.Logger) *Curator {
	set := make(map[string]struct{}, len(excluded))
	for _, code := range excluded {
		set[code] = struct{}{}
	}
	return &Curator{excluded: set, logger: logger}
}

// Excluded reports whether code is in the exclusion set.
func (c *Curator) Excluded(code string) bool {
	_, ok := c.excluded[code]
	return ok
}

// Curate returns the listings whose code is not excluded, preserving order.
func (c *Curator) Curate(listings []domain.LocaleListing) []domain.LocaleListing {
	out := make([]domain.LocaleListing, 0, len(listings))
	for _, l := range listings {
		if !c.Excluded(l.Code) {
			out = append(out, l)
		}
	}
	return out
}

// Prune deletes the excluded locale directories below root and returns the removed
// codes. Other directories are never touched. A missing root is not an error.
func (c *Curator) Prune(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read listings"), "path", root)
	}

	var removed []string
	for _, e := range entries {
		if !e.IsDir() || !c.Excluded(e.Name()) {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if err := os.RemoveAll(dir); err != nil {
			return removed, zerr.With(zerr.Wrap(err, "failed to remove locale"), "path", dir)
		}
		c.logger.Info(fmt.Sprintf("removed excluded locale %s", e.Name()))
		removed = append(removed, e.Name())
	}
	return removed, nil
}

// Load reads every locale directory below root, sorted by code. Missing listing
// files leave the corresponding field empty.
func Load(root string) ([]domain.LocaleListing, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read listings"), "path", root)
	}

	var listings []domain.LocaleListing
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		listing := domain.LocaleListing{Code: e.Name(), Dir: dir}
		for name, field := range map[string]*string{
			TitleFile:            &listing.Title,
			ShortDescriptionFile: &listing.ShortDescription,
			FullDescriptionFile:  &listing.FullDescription,
		} {
			data, err := os.ReadFile(filepath.Join(dir, name)) // #nosec G304 -- below the listings root
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to read listing"), "path", filepath.Join(dir, name))
			}
			*field = strings.TrimSpace(string(data))
		}
		listings = append(listings, listing)
	}

	slices.SortFunc(listings, func(a, b domain.LocaleListing) int {
		return strings.Compare(a.Code, b.Code)
	})
	return listings, nil
}

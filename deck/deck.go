// Package deck reads .ydk deck lists and classifies card art by frame color.
package deck

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

// ErrEmptyDeck is returned for deck files without a single main-deck card.
var ErrEmptyDeck = errors.New("deck: main deck is empty")

// Deck is a parsed .ydk file. Card ids keep the order of the file.
type Deck struct {
	Name  string
	Main  []string
	Extra []string
	Side  []string
}

// Size returns the number of cards that take part in a game (main + extra).
func (d *Deck) Size() int { return len(d.Main) + len(d.Extra) }

// Parse reads a .ydk deck list. Sections start with "#main", "#extra" or
// "!side"; every other line beginning with '#' is a comment. Blank lines are
// ignored. Cards listed before any section header belong to the main deck.
func Parse(name string, r io.Reader) (*Deck, error) {
	d := &Deck{Name: name}
	section := &d.Main
	sc := bufio.NewScanner(r)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case strings.EqualFold(line, "#main"):
			section = &d.Main
			continue
		case strings.EqualFold(line, "#extra"):
			section = &d.Extra
			continue
		case strings.EqualFold(line, "!side"):
			section = &d.Side
			continue
		case strings.HasPrefix(line, "#"):
			continue
		}
		if _, err := strconv.ParseUint(line, 10, 64); err != nil {
			return nil, fmt.Errorf("deck: %s line %d: invalid card id %q", name, lineNo, line)
		}
		*section = append(*section, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("deck: read %s: %w", name, err)
	}
	if len(d.Main) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDeck, name)
	}
	return d, nil
}

// Load opens and parses the deck file at p in fsys. The deck is named after
// the file without its extension.
func Load(fsys fs.FS, p string) (*Deck, error) {
	f, err := fsys.Open(p)
	if err != nil {
		return nil, fmt.Errorf("deck: open %s: %w", p, err)
	}
	defer f.Close()
	return Parse(strings.TrimSuffix(path.Base(p), path.Ext(p)), f)
}

// List returns the names of the .ydk files in dir, sorted.
func List(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("deck: list %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(path.Ext(e.Name()), ".ydk") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names, nil
}

// FilePath returns the path of the named deck inside dir.
func FilePath(dir, name string) string {
	return path.Join(dir, name+".ydk")
}

// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Mutation site templates and FoldX instruction rendering

package mutation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrArity is returned when a sequence does not have one residue per site
	ErrArity = errors.New("sequence length does not match number of sites")
	// ErrInvalidSite is returned for a malformed site definition
	ErrInvalidSite = errors.New("invalid mutation site")
	// ErrEmptyTemplate is returned for a template without sites
	ErrEmptyTemplate = errors.New("template has no sites")
)

// LegacyPlaceholder marks the substituted residue in a legacy format string
const LegacyPlaceholder = "{}"

// DefaultLegacyTemplate is the 9-site template for 3PWN_Repair.pdb (chain L)
const DefaultLegacyTemplate = "LL1{},LL2{},YL3{},GL4{},FL5{},VL6{},NL7{},YL8{},IL9{};"

// Site is one mutated residue: the residue found in the structure file,
// its chain, and its residue number.
type Site struct {
	WildType string `yaml:"wild_type" json:"wild_type"`
	Chain    string `yaml:"chain" json:"chain"`
	Position int    `yaml:"position" json:"position"`
}

// String returns the site in FoldX notation without the new residue (e.g. "LL1")
func (s Site) String() string {
	return fmt.Sprintf("%s%s%d", s.WildType, s.Chain, s.Position)
}

// Validate checks that the site is usable in an instruction line
func (s Site) Validate() error {
	if len(s.WildType) != 1 || !unicode.IsUpper(rune(s.WildType[0])) {
		return fmt.Errorf("%w: wild type %q must be a single upper-case residue code", ErrInvalidSite, s.WildType)
	}
	if len(s.Chain) != 1 || !isChainID(rune(s.Chain[0])) {
		return fmt.Errorf("%w: chain %q must be a single letter or digit", ErrInvalidSite, s.Chain)
	}
	return nil
}

// Template is the ordered list of sites a peptide is threaded onto.
// Residue i of the peptide replaces Sites[i].
type Template struct {
	Structure string `yaml:"structure,omitempty" json:"structure,omitempty"`
	Sites     []Site `yaml:"sites" json:"sites"`
}

// Arity returns the number of sites, i.e. the required peptide length
func (t *Template) Arity() int {
	return len(t.Sites)
}

// Validate checks every site and rejects duplicated chain/position pairs
func (t *Template) Validate() error {
	if len(t.Sites) == 0 {
		return ErrEmptyTemplate
	}

	seen := make(map[string]int, len(t.Sites))
	for i, site := range t.Sites {
		if err := site.Validate(); err != nil {
			return fmt.Errorf("site %d: %w", i+1, err)
		}
		key := site.Chain + strconv.Itoa(site.Position)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: sites %d and %d both target chain %s position %d",
				ErrInvalidSite, prev+1, i+1, site.Chain, site.Position)
		}
		seen[key] = i
	}

	return nil
}

// Render builds the FoldX instruction line for sequence, e.g.
// "LL1A,LL2A,YL3C,...;". The line has no trailing newline.
func (t *Template) Render(sequence string) (string, error) {
	residues := []rune(sequence)
	if len(residues) != len(t.Sites) {
		return "", fmt.Errorf("%w: %q has %d residues, template has %d sites",
			ErrArity, sequence, len(residues), len(t.Sites))
	}

	parts := make([]string, len(t.Sites))
	for i, site := range t.Sites {
		parts[i] = site.String() + string(residues[i])
	}

	return strings.Join(parts, ",") + ";", nil
}

// Legacy returns the template as a format string with one placeholder per site
func (t *Template) Legacy() string {
	parts := make([]string, len(t.Sites))
	for i, site := range t.Sites {
		parts[i] = site.String() + LegacyPlaceholder
	}
	return strings.Join(parts, ",") + ";"
}

// ParseLegacy converts a format string such as "LL1{},LL2{},YL3{};" into a
// Template. Each comma-separated entry is wild type, chain, residue number
// and a trailing placeholder.
func ParseLegacy(format string) (*Template, error) {
	format = strings.TrimSpace(format)
	format = strings.TrimSuffix(format, ";")
	if format == "" {
		return nil, ErrEmptyTemplate
	}

	entries := strings.Split(format, ",")
	tmpl := &Template{Sites: make([]Site, 0, len(entries))}

	for i, entry := range entries {
		site, err := parseLegacyEntry(strings.TrimSpace(entry))
		if err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i+1, entry, err)
		}
		tmpl.Sites = append(tmpl.Sites, site)
	}

	if err := tmpl.Validate(); err != nil {
		return nil, err
	}

	return tmpl, nil
}

func parseLegacyEntry(entry string) (Site, error) {
	if !strings.HasSuffix(entry, LegacyPlaceholder) {
		return Site{}, fmt.Errorf("%w: missing %s placeholder", ErrInvalidSite, LegacyPlaceholder)
	}
	entry = strings.TrimSuffix(entry, LegacyPlaceholder)

	// <WT><Chain><Position>
	if len(entry) < 3 {
		return Site{}, fmt.Errorf("%w: too short", ErrInvalidSite)
	}

	pos, err := strconv.Atoi(entry[2:])
	if err != nil {
		return Site{}, fmt.Errorf("%w: residue number %q", ErrInvalidSite, entry[2:])
	}

	site := Site{
		WildType: entry[0:1],
		Chain:    entry[1:2],
		Position: pos,
	}
	return site, site.Validate()
}

func isChainID(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

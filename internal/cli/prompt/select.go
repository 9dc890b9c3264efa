// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
)

// Sentinel errors for package selection.
var (
	ErrNoPackages         = errors.New("no packages to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Selector handles interactive prompts.
type Selector struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return NewSelectorWithIO(os.Stdin, os.Stdout)
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{reader: bufio.NewReader(r), writer: w}
}

// SelectPackage prompts for one of cat's packages by number and returns
// its index. The current default is preselected on empty input.
//
// Returns:
//   - ErrNoPackages if the category is empty
//   - ErrInvalidSelection if the input is not a listed number
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func (s *Selector) SelectPackage(cat *pkgconfig.PackageCategory) (int, error) {
	if len(cat.Packages) == 0 {
		return 0, errors.Wrapf(ErrNoPackages, "category %q", cat.Name)
	}

	def := 0
	if cat.DefaultPackage != nil && cat.Default() != nil {
		def = *cat.DefaultPackage
	}

	fmt.Fprintf(s.writer, "Packages in %q:\n", cat.Name)
	for i, p := range cat.Packages {
		mark := " "
		if i == def {
			mark = "*"
		}
		fmt.Fprintf(s.writer, " %s[%d] %s\n", mark, i+1, p.Name)
	}
	fmt.Fprintf(s.writer, "Select [%d]: ", def+1)

	input, err := s.readLine()
	if err != nil {
		return 0, err
	}
	if input == "" {
		return def, nil
	}

	n, err := strconv.Atoi(input)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}
	if n < 1 || n > len(cat.Packages) {
		return 0, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", n, len(cat.Packages))
	}
	return n - 1, nil
}

// Confirm asks the user to type word and reports whether they did.
func (s *Selector) Confirm(message, word string) (bool, error) {
	fmt.Fprintf(s.writer, "%s\nType %q to continue: ", message, word)
	input, err := s.readLine()
	if errors.Is(err, ErrSelectionCancelled) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return input == word, nil
}

func (s *Selector) readLine() (string, error) {
	input, err := s.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && input != "" {
			return strings.TrimSpace(input), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "reading selection")
	}
	return strings.TrimSpace(input), nil
}

// FuzzyPackage opens a fuzzy finder over cat's packages, previewing each
// package's binders and paths. Aborting is ErrSelectionCancelled.
func FuzzyPackage(cat *pkgconfig.PackageCategory) (int, error) {
	if len(cat.Packages) == 0 {
		return 0, errors.Wrapf(ErrNoPackages, "category %q", cat.Name)
	}

	idx, err := fuzzyfinder.Find(
		cat.Packages,
		func(i int) string {
			return cat.Packages[i].Name
		},
		fuzzyfinder.WithHeader("select the default package of "+cat.Name),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return Describe(&cat.Packages[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return 0, ErrSelectionCancelled
		}
		return 0, errors.Wrap(err, "fuzzy selection failed")
	}
	return idx, nil
}

// Describe renders a package for previews.
func Describe(p *pkgconfig.RunnablePackage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Package: %s\n\nBinders:\n", p.Name)
	for _, bd := range p.Binders {
		fmt.Fprintf(&b, "  %s -> %s\n", bd.AliasPath(), bd.ExecutablePath())
	}
	if len(p.IncludedPaths) > 0 {
		fmt.Fprintf(&b, "\nIncluded:\n  %s\n", strings.Join(p.IncludedPaths, "\n  "))
	}
	if len(p.ExcludedPaths) > 0 {
		fmt.Fprintf(&b, "\nExcluded:\n  %s\n", strings.Join(p.ExcludedPaths, "\n  "))
	}
	return b.String()
}

package utils

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Message keys every poll type translation file is expected to provide.
const (
	MessageKeyHelp                  = "help"
	MessageKeyGetIn                 = "getIn"
	MessageKeyGetOut                = "getOut"
	MessageKeyFoodPoll              = "foodPoll"
	MessageKeyNamedFoodPoll         = "namedFoodPoll"
	MessageKeyFoodPollStart         = "foodPollStart"
	MessageKeyNamedFoodPollStart    = "namedFoodPollStart"
	MessageKeyFoodPollCanceled      = "foodPollCanceled"
	MessageKeyNamedFoodPollCanceled = "namedFoodPollCanceled"
	MessageKeyTimeFormatError       = "timeFormatError"
	MessageKeyTimeInPastError       = "timeInPastError"
	MessageKeyTimeExistsError       = "timeExistsError"
)

var translationFilePattern = regexp.MustCompile(`^translations-(.*)\.yaml$`)

// ErrUnknownPollType is returned when no translation set is registered for
// a poll type.
var ErrUnknownPollType = errors.New("unknown poll type")

// Bundle stores the translation sets of all discovered poll types and
// resolves message keys to display strings.
//
// A translation file is named translations-<type>.yaml and maps message
// keys to either a single string or a list of equivalent phrasings.
// Occurrences of "{}" in a phrasing are substituted with the message
// arguments from left to right.
type Bundle struct {
	translations map[string]map[string][]string
}

// NewBundle loads all translation files in dir and returns a bundle. A
// malformed file is a configuration error and fails the whole load.
func NewBundle(dir string) (*Bundle, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open translations directory")
	}

	b := &Bundle{translations: map[string]map[string][]string{}}
	for _, file := range files {
		m := translationFilePattern.FindStringSubmatch(file.Name())
		if m == nil {
			continue
		}

		set, err := loadTranslationFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load translation file %s", file.Name())
		}
		b.translations[m[1]] = set
	}

	return b, nil
}

// Types returns all poll types the bundle has translations for, sorted.
func (b *Bundle) Types() []string {
	types := make([]string, 0, len(b.translations))
	for t := range b.translations {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// HasType returns true if a translation set is registered for the given
// poll type.
func (b *Bundle) HasType(pollType string) bool {
	_, ok := b.translations[pollType]
	return ok
}

// Resolve returns the display string for a message key of a poll type.
// A negative variant picks one of the available phrasings uniformly at
// random, any other value selects that phrasing.
func (b *Bundle) Resolve(pollType, messageKey string, variant int, args ...string) (string, error) {
	variants, err := b.variants(pollType, messageKey)
	if err != nil {
		return "", err
	}

	if variant < 0 {
		variant = rand.Intn(len(variants))
	}
	if variant >= len(variants) {
		return "", errors.Errorf("message %q of poll type %q has no variant %d", messageKey, pollType, variant)
	}

	text := variants[variant]
	for _, arg := range args {
		text = strings.Replace(text, "{}", arg, 1)
	}
	return text, nil
}

// VariantCount returns the number of equivalent phrasings registered for a
// message key of a poll type.
func (b *Bundle) VariantCount(pollType, messageKey string) (int, error) {
	variants, err := b.variants(pollType, messageKey)
	if err != nil {
		return 0, err
	}
	return len(variants), nil
}

func (b *Bundle) variants(pollType, messageKey string) ([]string, error) {
	set, ok := b.translations[pollType]
	if !ok {
		return nil, errors.Wrap(ErrUnknownPollType, pollType)
	}
	variants, ok := set[messageKey]
	if !ok || len(variants) == 0 {
		return nil, errors.Errorf("poll type %q has no message %q", pollType, messageKey)
	}
	return variants, nil
}

func loadTranslationFile(path string) (map[string][]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, err
	}

	set := map[string][]string{}
	for key, value := range raw {
		switch v := value.(type) {
		case []interface{}:
			variants := make([]string, 0, len(v))
			for _, item := range v {
				variants = append(variants, fmt.Sprint(item))
			}
			set[key] = variants
		default:
			set[key] = []string{fmt.Sprint(v)}
		}
	}
	return set, nil
}

package envp

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
	"github.com/miruken-go/resource/config"
	"github.com/miruken-go/resource/config/koanfp"
)

// P returns a config.Provider over the environment variables
// starting with prefix.  The files are loaded into the environment
// first without overriding variables already set.  Without files
// an optional .env file is loaded.
//
// Names are mapped to paths by dropping the prefix, treating
// a double underscore as a path separator and a single underscore
// as a word break.
//	RESOURCE_REJECT_UNCONSTRUCTIBLE -> rejectUnconstructible
//	RESOURCE_HTTP__REALM            -> http.realm
func P(prefix string, files ...string) (config.Provider, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("envp: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("envp: %w", err)
	}
	k := koanf.New(".")
	if err := k.Load(env.Provider(prefix, ".", func(name string) string {
		return Path(strings.TrimPrefix(name, prefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("envp: %w", err)
	}
	return koanfp.P(k), nil
}

// Path converts an environment variable name into a config path.
func Path(name string) string {
	sections := strings.Split(strings.Trim(name, "_"), "__")
	for i, section := range sections {
		var sb strings.Builder
		for j, word := range strings.Split(section, "_") {
			if word == "" {
				continue
			}
			word = strings.ToLower(word)
			if j > 0 && sb.Len() > 0 {
				word = strings.ToUpper(word[:1]) + word[1:]
			}
			sb.WriteString(word)
		}
		sections[i] = sb.String()
	}
	return strings.Join(sections, ".")
}

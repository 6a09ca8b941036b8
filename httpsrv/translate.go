package httpsrv

import (
	"fmt"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	entrans "github.com/go-playground/validator/v10/translations/en"
	"github.com/miruken-go/resource"
)

// English returns a translator for parameter validation messages
// in english.  It registers the default translations with the
// resource validator, so it must be called before serving requests.
func English() (ut.Translator, error) {
	locale := en.New()
	uni    := ut.New(locale, locale)
	trans, ok := uni.GetTranslator(locale.Locale())
	if !ok {
		return nil, fmt.Errorf("httpsrv: no translator for %q", locale.Locale())
	}
	if err := entrans.RegisterDefaultTranslations(resource.Validator(), trans); err != nil {
		return nil, fmt.Errorf("httpsrv: %w", err)
	}
	return trans, nil
}

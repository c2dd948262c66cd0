package panel

import (
	"github.com/go-faster/errors"

	"github.com/arnac-io/multisig-panel/pkg/core"
	"github.com/arnac-io/multisig-panel/pkg/i18n"
)

// Message renders err for an operator whose Accept-Language is lang.
func Message(lang string, err error) string {
	if err == nil {
		return ""
	}
	var e *core.Error
	if errors.As(err, &e) && e.MessageID != "" {
		if msg := i18n.T(lang, i18n.C{MessageID: e.MessageID, TemplateData: e.Data}); msg != "" {
			return msg
		}
	}
	return err.Error()
}

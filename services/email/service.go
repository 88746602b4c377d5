package emailsvc

import (
	"io"

	"github.com/pkg/errors"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
)

// New returns the email service selected by conf.Email.Service; console output goes to out.
func New(conf *core.Config, logger core.Logger, out io.Writer) (core.EmailService, error) {
	switch conf.Email.Service {
	case core.EmailConsole, "":
		return NewConsoleService(conf, out), nil
	case core.EmailSendgrid:
		if conf.Email.SendgridApiKey == "" {
			return nil, errors.New("sendgrid api key is not set")
		}
		return NewSendgridService(conf, logger), nil
	}
	return nil, errors.Errorf("unknown email service %q", conf.Email.Service)
}

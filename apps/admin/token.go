package main

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/Sathishnaik786/Employee-Management-System-sub000/apps/api/echo"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/user"
)

type tokenRequest struct {
	id    string
	name  string
	email string
	roles string
	perms string
}

// token issues an API token for the given identity, signed with the configured secret key.
func (cli *commandLine) token(req tokenRequest) error {
	usr := user.User{
		ID:          req.id,
		Name:        req.name,
		Email:       req.email,
		Roles:       core.SplitCSV(req.roles),
		Permissions: core.SplitCSV(req.perms),
	}

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	user.InitValidators(validate, translator, cli.reg)
	if err := usr.Validate(validate); err != nil {
		var vErrs validator.ValidationErrors
		if !errors.As(err, &vErrs) {
			return err
		}
		flds := make([]core.FieldError, 0, len(vErrs))
		for _, fe := range vErrs {
			flds = append(flds, core.FieldError{Field: fe.Field(), Error: fe.Translate(translator)})
		}
		return core.NewValidationError(nil, flds...)
	}

	tok, err := echoapi.GenerateToken(echoapi.GetUserClaims(usr, cli.conf), cli.conf.SecretKey)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, tok)
	return nil
}

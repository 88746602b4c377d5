package user

import (
	"sort"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
)

var (
	allRolesTag  = "allroles"
	allRolesText = "invalid roles"

	permissionTag  = "permission"
	permissionText = "{0} contains an unknown permission"
)

// InitValidators registers the user validators; known permissions are the ones required by reg's actions.
func InitValidators(validate *validator.Validate, translator ut.Translator, reg *lifecycle.Registry) {
	_ = validate.RegisterValidation(allRolesTag, allRolesValidation)
	core.RegisterCustomTranslation(validate, translator, allRolesTag, allRolesText)

	known := reg.Permissions()
	_ = validate.RegisterValidation(permissionTag, func(fl validator.FieldLevel) bool {
		perm := lifecycle.ParsePermission(fl.Field().String())
		idx := sort.Search(len(known), func(i int) bool { return known[i] >= perm })
		return idx < len(known) && known[idx] == perm
	})
	core.RegisterCustomTranslation(validate, translator, permissionTag, permissionText)
}

// Validate cleans & validates u.
func (u *User) Validate(validate *validator.Validate) error {
	u.ID = core.CleanString(u.ID)
	u.Name = core.CleanString(u.Name)
	u.Email = core.CleanString(u.Email, true /* lower */)
	for i, role := range u.Roles {
		u.Roles[i] = core.CleanString(role, true /* lower */)
	}
	return validate.Struct(u)
}

// Custom Validators

// allRolesValidation checks that provided user roles are all in AllRoles
func allRolesValidation(fl validator.FieldLevel) bool {
	roles, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	for _, role := range roles {
		if _, known := rolePriorities[role]; !known {
			return false
		}
	}
	return true
}

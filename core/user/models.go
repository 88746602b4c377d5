package user

import (
	"strings"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
)

// Roles
const (
	// Admin
	RoleAdmin      = "admin:"
	RoleAdminOwner = "admin:owner"

	// HR
	RoleHR        = "hr:"
	RoleHRManager = "hr:manager"

	// Faculty
	RoleFaculty      = "faculty:"
	RoleFacultyGuide = "faculty:guide"

	// Finance
	RoleFinance = "finance:"

	// Employee
	RoleEmployee = "employee:"

	// Student
	RoleStudent = "student:"
)

var (
	AdminRoles    = []string{RoleAdmin, RoleAdminOwner}
	HRRoles       = []string{RoleHR, RoleHRManager}
	FacultyRoles  = []string{RoleFaculty, RoleFacultyGuide}
	FinanceRoles  = []string{RoleFinance}
	EmployeeRoles = []string{RoleEmployee}
	StudentRoles  = []string{RoleStudent}
	AllRoles      = getAllRoles()

	rolePriorities = map[string]int{
		// Admins: 50 - 41
		RoleAdminOwner: 50,
		RoleAdmin:      41,

		// HR: 40 - 31
		RoleHRManager: 32,
		RoleHR:        31,

		// Faculty & Finance: 30 - 21
		RoleFacultyGuide: 23,
		RoleFaculty:      22,
		RoleFinance:      21,

		// Employees: 20 - 11
		RoleEmployee: 11,

		// Students: 10 - 1
		RoleStudent: 1,
	}

	// RolePermissions is the single table mapping roles to lifecycle capabilities.
	RolePermissions = map[string][]lifecycle.Permission{
		RoleAdmin: {
			lifecycle.PermWorkflowAction,
			lifecycle.PermWorkflowStart,
			lifecycle.PermWorkflowApprove,
			lifecycle.PermInterviewManage,
			lifecycle.PermDocumentVerify,
			lifecycle.PermGuideAllocate,
		},
		RoleAdminOwner: {
			lifecycle.PermWorkflowAction,
			lifecycle.PermWorkflowStart,
			lifecycle.PermWorkflowApprove,
			lifecycle.PermInterviewManage,
			lifecycle.PermDocumentVerify,
			lifecycle.PermGuideAllocate,
			lifecycle.PermPaymentInitiate,
			lifecycle.PermPaymentConfirm,
			lifecycle.PermLeaveApprove,
			lifecycle.PermLeaveHRReview,
		},
		RoleHR:           {lifecycle.PermLeaveHRReview, lifecycle.PermWorkflowStart},
		RoleHRManager:    {lifecycle.PermLeaveHRReview, lifecycle.PermLeaveApprove, lifecycle.PermWorkflowStart, lifecycle.PermWorkflowApprove},
		RoleFaculty:      {lifecycle.PermWorkflowAction, lifecycle.PermInterviewManage},
		RoleFacultyGuide: {lifecycle.PermWorkflowAction, lifecycle.PermInterviewManage, lifecycle.PermGuideAllocate},
		RoleFinance:      {lifecycle.PermPaymentInitiate, lifecycle.PermPaymentConfirm},
		RoleEmployee:     {lifecycle.PermLeaveRequest, lifecycle.PermWorkflowStart},
		RoleStudent:      {lifecycle.PermApplicationSubmit},
	}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Employee", Value: RoleEmployee},
		{Name: "Finance", Value: RoleFinance},
		{Name: "Faculty", Value: RoleFaculty},
		{Name: "Faculty Guide", Value: RoleFacultyGuide},
		{Name: "HR", Value: RoleHR},
		{Name: "HR Manager", Value: RoleHRManager},
		{Name: "Admin", Value: RoleAdmin},
		{Name: "Admin Owner", Value: RoleAdminOwner},
	}
)

func getAllRoles() []string {
	all := make([]string, 0, 9)
	all = append(all, AdminRoles...)
	all = append(all, HRRoles...)
	all = append(all, FacultyRoles...)
	all = append(all, FinanceRoles...)
	all = append(all, EmployeeRoles...)
	all = append(all, StudentRoles...)
	return all
}

func RolePriority(role string) int {
	return rolePriorities[role]
}

func MaxRolePriority(roles []string) int {
	var max int
	for _, role := range roles {
		if RolePriority(role) > max {
			max = RolePriority(role)
		}
	}
	return max
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// User is the authenticated caller, as asserted by the identity provider.
type User struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name"`
	Email       string   `json:"email" validate:"omitempty,email"`
	Roles       []string `json:"roles" validate:"omitempty,allroles"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,permission"`
}

func (u *User) RoleStartsWith(prefix string) bool {
	for _, role := range u.Roles {
		if strings.HasPrefix(role, prefix) {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.RoleStartsWith(RoleAdmin)
}

func (u *User) IsStudent() bool {
	return u.RoleStartsWith(RoleStudent)
}

// Capabilities returns the union of the permissions granted by the user's roles and their explicit permissions.
// Unknown roles grant nothing.
func (u *User) Capabilities() lifecycle.Capabilities {
	caps := lifecycle.NewCapabilities()
	for _, role := range u.Roles {
		caps.Add(RolePermissions[role]...)
	}
	for _, perm := range u.Permissions {
		caps.Add(lifecycle.Permission(perm))
	}
	return caps
}

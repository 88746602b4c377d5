package lifecycle

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_PermittedActions(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		name    string
		process ProcessType
		status  Status
		caps    Capabilities
		want    []ActionID
	}{
		{
			name: "initiate payment", process: ProcessPhDAdmission, status: PhDDocumentsVerified,
			caps: NewCapabilities(PermPaymentInitiate), want: []ActionID{ActionInitiatePayment},
		},
		{name: "initiate payment without capability", process: ProcessPhDAdmission, status: PhDDocumentsVerified, caps: NewCapabilities(), want: []ActionID{}},
		{name: "nil capabilities", process: ProcessPhDAdmission, status: PhDDocumentsVerified, want: []ActionID{}},
		{
			name: "payment permission in wrong status", process: ProcessPhDAdmission, status: PhDPaymentPending,
			caps: NewCapabilities(PermPaymentInitiate), want: []ActionID{},
		},
		{
			name: "confirm payment", process: ProcessPhDAdmission, status: PhDPaymentPending,
			caps: NewCapabilities(PermPaymentInitiate, PermPaymentConfirm), want: []ActionID{ActionConfirmPayment},
		},
		{
			name: "scrutiny", process: ProcessPhDAdmission, status: PhDSubmitted,
			caps: NewCapabilities(PermWorkflowAction), want: []ActionID{ActionApproveScrutiny, ActionRejectScrutiny},
		},
		{
			name: "terminal", process: ProcessPhDAdmission, status: PhDGuideAllocated,
			caps: NewCapabilities(PermGuideAllocate, PermWorkflowAction, PermPaymentConfirm), want: []ActionID{},
		},
		{
			name: "unknown status", process: ProcessPhDAdmission, status: "NOT_A_REAL_STATUS",
			caps: NewCapabilities(PermWorkflowAction), want: []ActionID{},
		},
		{
			name: "lower case status & permission", process: ProcessPhDAdmission, status: "documents_verified",
			caps: NewCapabilities("payment_initiate"), want: []ActionID{ActionInitiatePayment},
		},
		{
			name: "leave pending: requester & approver", process: ProcessLeave, status: LeavePending,
			caps: NewCapabilities(PermLeaveRequest, PermLeaveApprove),
			want: []ActionID{ActionCancelLeave, ActionManagerApprove, ActionManagerReject},
		},
		{
			name: "workflow approval", process: ProcessWorkflow, status: WorkflowAwaitingApproval,
			caps: NewCapabilities(PermWorkflowApprove), want: []ActionID{ActionApprove, ActionReject},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.PermittedActions(tt.process, tt.status, tt.caps)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// same input, same answer
			again, err := reg.PermittedActions(tt.process, tt.status, tt.caps)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestRegistry_PermittedActions_unknownProcess(t *testing.T) {
	reg := DefaultRegistry()

	_, err := reg.PermittedActions("payroll", "DRAFT", NewCapabilities(PermWorkflowAction))
	assert.True(t, IsUnknownProcessType(err))
}

func TestRegistry_Permits(t *testing.T) {
	reg := DefaultRegistry()
	caps := NewCapabilities(PermPaymentInitiate)

	tests := []struct {
		name       string
		status     Status
		action     ActionID
		wantFound  bool
		wantAllows bool
	}{
		{name: "allowed", status: PhDDocumentsVerified, action: ActionInitiatePayment, wantFound: true, wantAllows: true},
		{name: "lower case action", status: PhDDocumentsVerified, action: "initiate_payment", wantFound: true, wantAllows: true},
		{name: "wrong status", status: PhDSubmitted, action: ActionInitiatePayment, wantFound: true},
		{name: "missing permission", status: PhDPaymentPending, action: ActionConfirmPayment, wantFound: true},
		{name: "undeclared action", status: PhDDocumentsVerified, action: "PRINT_OFFER_LETTER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act, ok, err := reg.Permits(ProcessPhDAdmission, tt.status, caps, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAllows, ok)
			assert.Equal(t, tt.wantFound, act.ID != "")
		})
	}
}

func TestCapabilities(t *testing.T) {
	caps := NewCapabilities(" payment_confirm ", PermPaymentInitiate, "")
	caps.Add(PermWorkflowAction, PermPaymentInitiate)

	assert.Len(t, caps, 3)
	assert.True(t, caps.Has(PermPaymentConfirm))
	assert.True(t, caps.HasAll([]Permission{PermPaymentConfirm, PermWorkflowAction}))
	assert.True(t, caps.HasAll(nil))
	assert.False(t, caps.HasAll([]Permission{PermPaymentConfirm, PermGuideAllocate}))
	assert.Equal(t, []Permission{PermPaymentConfirm, PermPaymentInitiate, PermWorkflowAction}, caps.List())

	var none Capabilities
	assert.False(t, none.Has(PermWorkflowAction))
	assert.True(t, none.HasAll(nil))
}

func TestRegistry_Permissions(t *testing.T) {
	perms := DefaultRegistry().Permissions()

	assert.Contains(t, perms, PermPaymentInitiate)
	assert.Contains(t, perms, PermLeaveHRReview)
	assert.True(t, sort.SliceIsSorted(perms, func(i, j int) bool { return perms[i] < perms[j] }))
}

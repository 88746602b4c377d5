package lifecycle

// Process types
const (
	ProcessPhDAdmission ProcessType = "phd_admission"
	ProcessLeave        ProcessType = "leave_request"
	ProcessWorkflow     ProcessType = "workflow"
)

// Permissions
const (
	PermApplicationSubmit Permission = "APPLICATION_SUBMIT"
	PermWorkflowAction    Permission = "WORKFLOW_ACTION"
	PermInterviewManage   Permission = "INTERVIEW_MANAGE"
	PermDocumentVerify    Permission = "DOCUMENT_VERIFY"
	PermPaymentInitiate   Permission = "PAYMENT_INITIATE"
	PermPaymentConfirm    Permission = "PAYMENT_CONFIRM"
	PermGuideAllocate     Permission = "GUIDE_ALLOCATE"

	PermLeaveRequest  Permission = "LEAVE_REQUEST"
	PermLeaveApprove  Permission = "LEAVE_APPROVE"
	PermLeaveHRReview Permission = "LEAVE_HR_REVIEW"

	PermWorkflowStart   Permission = "WORKFLOW_START"
	PermWorkflowApprove Permission = "WORKFLOW_APPROVE"
)

// PhD admission statuses
const (
	PhDDraft              Status = "DRAFT"
	PhDSubmitted          Status = "SUBMITTED"
	PhDScrutinyApproved   Status = "SCRUTINY_APPROVED"
	PhDInterviewScheduled Status = "INTERVIEW_SCHEDULED"
	PhDInterviewCompleted Status = "INTERVIEW_COMPLETED"
	PhDDocumentsVerified  Status = "DOCUMENTS_VERIFIED"
	PhDPaymentPending     Status = "PAYMENT_PENDING"
	PhDPaymentCompleted   Status = "PAYMENT_COMPLETED"
	PhDGuideAllocated     Status = "GUIDE_ALLOCATED"
	PhDRejected           Status = "REJECTED"
)

// PhD admission actions
const (
	ActionSubmitApplication ActionID = "SUBMIT_APPLICATION"
	ActionApproveScrutiny   ActionID = "APPROVE_SCRUTINY"
	ActionRejectScrutiny    ActionID = "REJECT_SCRUTINY"
	ActionScheduleInterview ActionID = "SCHEDULE_INTERVIEW"
	ActionCompleteInterview ActionID = "COMPLETE_INTERVIEW"
	ActionVerifyDocuments   ActionID = "VERIFY_DOCUMENTS"
	ActionInitiatePayment   ActionID = "INITIATE_PAYMENT"
	ActionConfirmPayment    ActionID = "CONFIRM_PAYMENT"
	ActionAllocateGuide     ActionID = "ALLOCATE_GUIDE"
)

// Leave request statuses & actions
const (
	LeaveDraft           Status = "DRAFT"
	LeavePending         Status = "PENDING"
	LeaveManagerApproved Status = "MANAGER_APPROVED"
	LeaveHRApproved      Status = "HR_APPROVED"
	LeaveRejected        Status = "REJECTED"
	LeaveCancelled       Status = "CANCELLED"

	ActionSubmitLeave    ActionID = "SUBMIT_LEAVE"
	ActionCancelLeave    ActionID = "CANCEL_LEAVE"
	ActionManagerApprove ActionID = "MANAGER_APPROVE"
	ActionManagerReject  ActionID = "MANAGER_REJECT"
	ActionHRApprove      ActionID = "HR_APPROVE"
	ActionHRReject       ActionID = "HR_REJECT"
)

// Workflow instance statuses & actions
const (
	WorkflowCreated          Status = "CREATED"
	WorkflowInProgress       Status = "IN_PROGRESS"
	WorkflowAwaitingApproval Status = "AWAITING_APPROVAL"
	WorkflowApproved         Status = "APPROVED"
	WorkflowRejected         Status = "REJECTED"

	ActionStart           ActionID = "START"
	ActionRequestApproval ActionID = "REQUEST_APPROVAL"
	ActionApprove         ActionID = "APPROVE"
	ActionReject          ActionID = "REJECT"
)

// PhDAdmission is the doctoral admission process.
func PhDAdmission() Process {
	return Process{
		Type: ProcessPhDAdmission,
		Name: "PhD Admission",
		Statuses: []Status{
			PhDDraft,
			PhDSubmitted,
			PhDScrutinyApproved,
			PhDInterviewScheduled,
			PhDInterviewCompleted,
			PhDDocumentsVerified,
			PhDPaymentPending,
			PhDPaymentCompleted,
			PhDGuideAllocated,
		},
		Rejected: []Status{PhDRejected},
		Stages: []Stage{
			{Key: "application", Label: "Application Submitted", Order: 1, Statuses: []Status{PhDDraft}},
			{Key: "scrutiny", Label: "Scrutiny", Order: 2, Statuses: []Status{PhDSubmitted}},
			{Key: "interview", Label: "Interview", Order: 3, Statuses: []Status{PhDScrutinyApproved, PhDInterviewScheduled}},
			{Key: "documents", Label: "Document Verification", Order: 4, Statuses: []Status{PhDInterviewCompleted}},
			{Key: "payment", Label: "Fee Payment", Order: 5, Statuses: []Status{PhDDocumentsVerified, PhDPaymentPending}},
			{Key: "guide", Label: "Guide Allocation", Order: 6, Statuses: []Status{PhDPaymentCompleted, PhDGuideAllocated}},
		},
		Actions: []Action{
			{
				ID: ActionSubmitApplication, Label: "Submit application",
				From: []Status{PhDDraft}, Requires: []Permission{PermApplicationSubmit},
				Target: PhDSubmitted, Endpoint: "submit",
			},
			{
				ID: ActionApproveScrutiny, Label: "Approve scrutiny",
				From: []Status{PhDSubmitted}, Requires: []Permission{PermWorkflowAction},
				Target: PhDScrutinyApproved, Endpoint: "scrutiny/approve",
			},
			{
				ID: ActionRejectScrutiny, Label: "Reject scrutiny",
				From: []Status{PhDSubmitted}, Requires: []Permission{PermWorkflowAction},
				Target: PhDRejected, Endpoint: "scrutiny/reject",
			},
			{
				ID: ActionScheduleInterview, Label: "Schedule interview",
				From: []Status{PhDScrutinyApproved}, Requires: []Permission{PermInterviewManage},
				Target: PhDInterviewScheduled, Endpoint: "interview/schedule",
			},
			{
				ID: ActionCompleteInterview, Label: "Complete interview",
				From: []Status{PhDInterviewScheduled}, Requires: []Permission{PermInterviewManage},
				Target: PhDInterviewCompleted, Endpoint: "interview/complete",
			},
			{
				ID: ActionVerifyDocuments, Label: "Verify documents",
				From: []Status{PhDInterviewCompleted}, Requires: []Permission{PermDocumentVerify},
				Target: PhDDocumentsVerified, Endpoint: "documents/verify",
			},
			{
				ID: ActionInitiatePayment, Label: "Initiate payment",
				From: []Status{PhDDocumentsVerified}, Requires: []Permission{PermPaymentInitiate},
				Target: PhDPaymentPending, Endpoint: "payment/initiate",
			},
			{
				ID: ActionConfirmPayment, Label: "Confirm payment",
				From: []Status{PhDPaymentPending}, Requires: []Permission{PermPaymentConfirm},
				Target: PhDPaymentCompleted, Endpoint: "payment/confirm",
			},
			{
				ID: ActionAllocateGuide, Label: "Allocate guide",
				From: []Status{PhDPaymentCompleted}, Requires: []Permission{PermGuideAllocate},
				Target: PhDGuideAllocated, Endpoint: "guide/allocate",
			},
		},
	}
}

// LeaveRequest is the employee leave approval process.
func LeaveRequest() Process {
	return Process{
		Type:     ProcessLeave,
		Name:     "Leave Request",
		Statuses: []Status{LeaveDraft, LeavePending, LeaveManagerApproved, LeaveHRApproved},
		Rejected: []Status{LeaveRejected, LeaveCancelled},
		Stages: []Stage{
			{Key: "request", Label: "Leave Request", Order: 1, Statuses: []Status{LeaveDraft}},
			{Key: "manager", Label: "Manager Approval", Order: 2, Statuses: []Status{LeavePending}},
			{Key: "hr", Label: "HR Approval", Order: 3, Statuses: []Status{LeaveManagerApproved, LeaveHRApproved}},
		},
		Actions: []Action{
			{
				ID: ActionSubmitLeave, Label: "Submit request",
				From: []Status{LeaveDraft}, Requires: []Permission{PermLeaveRequest},
				Target: LeavePending, Endpoint: "submit",
			},
			{
				ID: ActionCancelLeave, Label: "Cancel request",
				From: []Status{LeaveDraft, LeavePending}, Requires: []Permission{PermLeaveRequest},
				Target: LeaveCancelled, Endpoint: "cancel",
			},
			{
				ID: ActionManagerApprove, Label: "Approve",
				From: []Status{LeavePending}, Requires: []Permission{PermLeaveApprove},
				Target: LeaveManagerApproved, Endpoint: "manager/approve",
			},
			{
				ID: ActionManagerReject, Label: "Reject",
				From: []Status{LeavePending}, Requires: []Permission{PermLeaveApprove},
				Target: LeaveRejected, Endpoint: "manager/reject",
			},
			{
				ID: ActionHRApprove, Label: "HR approve",
				From: []Status{LeaveManagerApproved}, Requires: []Permission{PermLeaveHRReview},
				Target: LeaveHRApproved, Endpoint: "hr/approve",
			},
			{
				ID: ActionHRReject, Label: "HR reject",
				From: []Status{LeaveManagerApproved}, Requires: []Permission{PermLeaveHRReview},
				Target: LeaveRejected, Endpoint: "hr/reject",
			},
		},
	}
}

// WorkflowInstance is the generic approval workflow.
func WorkflowInstance() Process {
	return Process{
		Type:     ProcessWorkflow,
		Name:     "Workflow Instance",
		Statuses: []Status{WorkflowCreated, WorkflowInProgress, WorkflowAwaitingApproval, WorkflowApproved},
		Rejected: []Status{WorkflowRejected},
		Stages: []Stage{
			{Key: "initiated", Label: "Initiated", Order: 1, Statuses: []Status{WorkflowCreated}},
			{Key: "processing", Label: "Processing", Order: 2, Statuses: []Status{WorkflowInProgress}},
			{Key: "approval", Label: "Approval", Order: 3, Statuses: []Status{WorkflowAwaitingApproval, WorkflowApproved}},
		},
		Actions: []Action{
			{
				ID: ActionStart, Label: "Start",
				From: []Status{WorkflowCreated}, Requires: []Permission{PermWorkflowStart},
				Target: WorkflowInProgress, Endpoint: "start",
			},
			{
				ID: ActionRequestApproval, Label: "Request approval",
				From: []Status{WorkflowInProgress}, Requires: []Permission{PermWorkflowAction},
				Target: WorkflowAwaitingApproval, Endpoint: "request-approval",
			},
			{
				ID: ActionApprove, Label: "Approve",
				From: []Status{WorkflowAwaitingApproval}, Requires: []Permission{PermWorkflowApprove},
				Target: WorkflowApproved, Endpoint: "approve",
			},
			{
				ID: ActionReject, Label: "Reject",
				From: []Status{WorkflowAwaitingApproval}, Requires: []Permission{PermWorkflowApprove},
				Target: WorkflowRejected, Endpoint: "reject",
			},
		},
	}
}

// Builtin returns the definitions shipped with the application.
func Builtin() []Process {
	return []Process{PhDAdmission(), LeaveRequest(), WorkflowInstance()}
}

// DefaultRegistry returns a new Registry holding the Builtin processes.
// It panics if a builtin definition is invalid.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, p := range Builtin() {
		if err := reg.Register(p); err != nil {
			panic(err)
		}
	}
	return reg
}

package models

// RequestStatus is the applicant-facing lifecycle state of a verification.
type RequestStatus string

const (
	RequestStatusPending           RequestStatus = "pending"
	RequestStatusProcessing        RequestStatus = "processing"
	RequestStatusPendingAssignment RequestStatus = "pending_assignment"
	RequestStatusCompleted         RequestStatus = "completed"
	RequestStatusRequiresReview    RequestStatus = "requires_review"
	RequestStatusFailed            RequestStatus = "failed"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending:           {RequestStatusProcessing, RequestStatusPendingAssignment},
	RequestStatusProcessing:        {RequestStatusCompleted, RequestStatusRequiresReview, RequestStatusFailed},
	RequestStatusPendingAssignment: {RequestStatusCompleted, RequestStatusRequiresReview, RequestStatusFailed},
	RequestStatusRequiresReview:    {RequestStatusCompleted, RequestStatusFailed},
}

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusProcessing, RequestStatusPendingAssignment,
		RequestStatusCompleted, RequestStatusRequiresReview, RequestStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is a legal forward move from s.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusFailed
}

func (s RequestStatus) String() string { return string(s) }

// ResponseStatus is the institution-facing lifecycle state.
type ResponseStatus string

const (
	ResponseStatusPending        ResponseStatus = "pending"
	ResponseStatusProcessing     ResponseStatus = "processing"
	ResponseStatusCompleted      ResponseStatus = "completed"
	ResponseStatusFailed         ResponseStatus = "failed"
	ResponseStatusRequiresReview ResponseStatus = "requires_review"
	ResponseStatusDiscrepancy    ResponseStatus = "discrepancy"
)

// failed → processing is only reachable through an explicit retry, which
// checks the attempt ceiling before calling CanTransitionTo.
var responseTransitions = map[ResponseStatus][]ResponseStatus{
	ResponseStatusPending:        {ResponseStatusProcessing},
	ResponseStatusProcessing:     {ResponseStatusCompleted, ResponseStatusFailed, ResponseStatusRequiresReview, ResponseStatusDiscrepancy},
	ResponseStatusRequiresReview: {ResponseStatusProcessing},
	ResponseStatusFailed:         {ResponseStatusProcessing},
}

func (s ResponseStatus) IsValid() bool {
	switch s {
	case ResponseStatusPending, ResponseStatusProcessing, ResponseStatusCompleted,
		ResponseStatusFailed, ResponseStatusRequiresReview, ResponseStatusDiscrepancy:
		return true
	}
	return false
}

func (s ResponseStatus) CanTransitionTo(next ResponseStatus) bool {
	for _, allowed := range responseTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsImmutable reports whether the response can no longer change.
func (s ResponseStatus) IsImmutable() bool {
	return s == ResponseStatusCompleted || s == ResponseStatusDiscrepancy
}

// IsSettled reports whether processing has ended, successfully or not.
func (s ResponseStatus) IsSettled() bool {
	switch s {
	case ResponseStatusCompleted, ResponseStatusDiscrepancy, ResponseStatusRequiresReview, ResponseStatusFailed:
		return true
	}
	return false
}

func (s ResponseStatus) String() string { return string(s) }

// Process is the institution's processing mode, copied onto the request when
// it is routed.
type Process string

const (
	ProcessAuto   Process = "auto"
	ProcessManual Process = "manual"
)

// Route is the dispatcher's decision for a request.
type Route string

const (
	RouteAPIAuto    Route = "api_auto"
	RouteAIDocument Route = "ai_document"
	RouteManual     Route = "manual"
	RouteAPIManual  Route = "api_manual"
)

func (r Route) Process() Process {
	if r == RouteAPIAuto || r == RouteAIDocument {
		return ProcessAuto
	}
	return ProcessManual
}

// InitialStatus is the request status entered when the route is applied.
func (r Route) InitialStatus() RequestStatus {
	if r.Process() == ProcessAuto {
		return RequestStatusProcessing
	}
	return RequestStatusPendingAssignment
}

// ResponseType is the closed set of institution response origins.
type ResponseType string

const (
	ResponseTypeManual     ResponseType = "manual"
	ResponseTypeAPIAuto    ResponseType = "api_auto"
	ResponseTypeAPIManual  ResponseType = "api_manual"
	ResponseTypeAIDocument ResponseType = "ai_document"
)

func (t ResponseType) IsValid() bool {
	switch t {
	case ResponseTypeManual, ResponseTypeAPIAuto, ResponseTypeAPIManual, ResponseTypeAIDocument:
		return true
	}
	return false
}

// ResponseType maps a route to the response type it produces.
func (r Route) ResponseType() ResponseType {
	switch r {
	case RouteAPIAuto:
		return ResponseTypeAPIAuto
	case RouteAPIManual:
		return ResponseTypeAPIManual
	case RouteAIDocument:
		return ResponseTypeAIDocument
	default:
		return ResponseTypeManual
	}
}

// MirrorResponseStatus maps a settled response status onto the request.
// Returns false when the response status has no request-level counterpart.
func MirrorResponseStatus(s ResponseStatus) (RequestStatus, bool) {
	switch s {
	case ResponseStatusCompleted:
		return RequestStatusCompleted, true
	case ResponseStatusRequiresReview, ResponseStatusDiscrepancy:
		return RequestStatusRequiresReview, true
	case ResponseStatusFailed:
		return RequestStatusFailed, true
	}
	return "", false
}

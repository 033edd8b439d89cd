package rbac

type Role string
type Action string

const (
	RoleSubmitter Role = "submitter"
	RoleReviewer  Role = "reviewer"
	RoleAdmin     Role = "admin"
)

const (
	ActionRead    Action = "read"
	ActionSubmit  Action = "submit"
	ActionComment Action = "comment"
	ActionVote    Action = "vote"
	ActionReview  Action = "review"
	ActionAdmin   Action = "admin"
)

func Can(role Role, action Action) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleReviewer:
		return action == ActionRead || action == ActionSubmit || action == ActionComment || action == ActionVote || action == ActionReview
	case RoleSubmitter:
		return action == ActionRead || action == ActionSubmit || action == ActionComment || action == ActionVote
	default:
		return false
	}
}

// CanReview is independent of the stored role for staff accounts.
func CanReview(role Role, isStaff bool) bool {
	if isStaff {
		return true
	}
	return role == RoleReviewer || role == RoleAdmin
}

func Normalize(role string) Role {
	switch Role(role) {
	case RoleSubmitter, RoleReviewer, RoleAdmin:
		return Role(role)
	default:
		return RoleSubmitter
	}
}

func Valid(role string) bool {
	switch Role(role) {
	case RoleSubmitter, RoleReviewer, RoleAdmin:
		return true
	default:
		return false
	}
}

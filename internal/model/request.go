package model

type UpsertUserRequest struct {
	CurrentUser *UserProfile `json:"currentUser"`
}

type UpdateRoleRequest struct {
	Role Role `json:"role"`
}

type TokenRequest struct {
	Email string `json:"email"`
}

type AddClassRequest struct {
	AddedClass *Class `json:"addedClass"`
}

type UpdateClassRequest struct {
	UpdateInfo *ClassUpdate `json:"updateInfo"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type FeedbackRequest struct {
	Feedback string `json:"feedback"`
}

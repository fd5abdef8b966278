package model

const ClassStatusPending = "pending"

type Class struct {
	ID              string  `json:"_id,omitempty" bson:"_id,omitempty"`
	ClassName       string  `json:"className" bson:"className"`
	ClassImage      string  `json:"classImage,omitempty" bson:"classImage,omitempty"`
	InstructorName  string  `json:"instructorName,omitempty" bson:"instructorName,omitempty"`
	InstructorEmail string  `json:"instructorEmail" bson:"instructorEmail"`
	AvailableSeats  int     `json:"availableSeats" bson:"availableSeats"`
	Price           float64 `json:"price" bson:"price"`
	Enrolled        int     `json:"enrolled" bson:"enrolled"`
	Status          string  `json:"status,omitempty" bson:"status,omitempty"`
	Feedback        string  `json:"feedback,omitempty" bson:"feedback,omitempty"`
}

// ClassUpdate carries the instructor-editable fields. Nil fields are left
// untouched by the update.
type ClassUpdate struct {
	ClassName      *string  `json:"className,omitempty" bson:"className,omitempty"`
	ClassImage     *string  `json:"classImage,omitempty" bson:"classImage,omitempty"`
	AvailableSeats *int     `json:"availableSeats,omitempty" bson:"availableSeats,omitempty"`
	Price          *float64 `json:"price,omitempty" bson:"price,omitempty"`
}

func (u ClassUpdate) Empty() bool {
	return u.ClassName == nil && u.ClassImage == nil && u.AvailableSeats == nil && u.Price == nil
}

type ClassStatusUpdate struct {
	Status string `json:"status" bson:"status"`
}

type ClassFeedbackUpdate struct {
	Feedback string `json:"feedback" bson:"feedback"`
}

// ClassOwner is written only when PATCH /class/:id creates the document.
type ClassOwner struct {
	InstructorEmail string `json:"instructorEmail" bson:"instructorEmail"`
	Status          string `json:"status" bson:"status"`
}

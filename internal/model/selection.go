package model

// Selection links a student (Email) to a class they picked.
type Selection struct {
	ID              string  `json:"_id,omitempty" bson:"_id,omitempty"`
	ClassID         string  `json:"classId" bson:"classId"`
	Email           string  `json:"email" bson:"email"`
	ClassName       string  `json:"className,omitempty" bson:"className,omitempty"`
	ClassImage      string  `json:"classImage,omitempty" bson:"classImage,omitempty"`
	InstructorName  string  `json:"instructorName,omitempty" bson:"instructorName,omitempty"`
	InstructorEmail string  `json:"instructorEmail,omitempty" bson:"instructorEmail,omitempty"`
	Price           float64 `json:"price,omitempty" bson:"price,omitempty"`
}

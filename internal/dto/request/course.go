package request

// CourseRequest is the body of POST /api/course, sent as JSON or as multipart
// fields next to an optional "thumbnail" file.
type CourseRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=10000"`
}

// CourseUpdateRequest replaces the non-empty fields of a course.
type CourseUpdateRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"max=10000"`
}

type LessonRequest struct {
	CourseID string `json:"courseId" validate:"required,uuid"`
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content" validate:"required,max=100000"`
}

type LessonUpdateRequest struct {
	Title   string `json:"title" validate:"max=200"`
	Content string `json:"content" validate:"max=100000"`
}

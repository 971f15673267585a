package model

// SubmitRequest is the form-encoded or JSON submission of a finished questionnaire.
// Either Message (pre-formatted by the browser) or Answers must be present.
type SubmitRequest struct {
	Message string `json:"message" form:"message" binding:"max=20000"`
	UserID  int64  `json:"user_id" form:"user_id" binding:"required_without=UserIDAlias"`
	// UserIDAlias carries the camelCase userId posted by the legacy page.
	UserIDAlias int64  `json:"userId" form:"userId"`
	Username    string `json:"username" form:"username" binding:"max=64"`
	// FirstName and LastName are only used when the server composes the message.
	FirstName string            `json:"first_name" form:"first_name" binding:"max=256"`
	LastName  string            `json:"last_name" form:"last_name" binding:"max=256"`
	Type      QuestionnaireType `json:"type" form:"type" binding:"required,oneof=infant child woman man"`
	Lang      string            `json:"lang" form:"lang" binding:"omitempty,oneof=ru en de"`

	Answers    map[string]Answer `json:"answers" form:"-"`
	Additional map[string]string `json:"additional" form:"-"`
}

// ResolveUserID folds the userId alias into UserID when user_id is absent.
func (r *SubmitRequest) ResolveUserID() {
	if r.UserID == 0 {
		r.UserID = r.UserIDAlias
	}
	r.UserIDAlias = 0
}

// AnswerSet returns the structured answers carried by the request.
func (r *SubmitRequest) AnswerSet() AnswerSet {
	return AnswerSet{Answers: r.Answers, Additional: r.Additional}
}

// Attachment is one file relayed to the operator chat.
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// SubmitResult reports what reached the operator chat.
type SubmitResult struct {
	MessageID    int64 `json:"message_id"`
	FilesTotal   int   `json:"files_total"`
	FilesSuccess int   `json:"files_success"`
}

// ValidateRequest asks the server to check answers against a schema.
// A nil Section validates the whole questionnaire.
type ValidateRequest struct {
	Answers    map[string]Answer `json:"answers"`
	Additional map[string]string `json:"additional"`
	Section    *int              `json:"section" binding:"omitempty,min=0"`
}

// ValidateResponse lists missing required answers, currently visible
// questions and the questions whose elaboration field applies.
type ValidateResponse struct {
	Valid            bool              `json:"valid"`
	Errors           map[string]string `json:"errors"`
	Visible          []string          `json:"visible"`
	AdditionalFields []string          `json:"additional_fields"`
}

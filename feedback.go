package agentcore

import "errors"

// userFeedbackError is returned by the Permission Engine when a Dialog
// reports that the user declined a tool call but left a reason. It is
// carried back to the LLM as the tool result rather than treated as a
// system failure, so the model can adjust its next attempt.
type userFeedbackError struct {
	feedback string
}

func (e *userFeedbackError) Error() string {
	return e.feedback
}

// NewUserFeedback wraps a user's declined-with-reason response as an
// error the Permission Engine can return from its tool-call check.
func NewUserFeedback(feedback string) error {
	return &userFeedbackError{feedback: feedback}
}

// IsUserFeedback reports whether err originated from a user declining a
// prompt with feedback, returning that feedback text.
func IsUserFeedback(err error) (string, bool) {
	var fb *userFeedbackError
	if errors.As(err, &fb) {
		return fb.feedback, true
	}
	return "", false
}

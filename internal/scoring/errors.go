package scoring

import "errors"

var (
	// ErrEmptyJobDescription marks a scoring request without a job
	// description. Scores degrade to 0 and the status is still computed.
	ErrEmptyJobDescription = errors.New("job description is empty")

	// ErrModelUnavailable is reported when no role classifier artifact was
	// loaded. The predicted role is left absent.
	ErrModelUnavailable = errors.New("role classifier is not available")

	ErrEmbedding = errors.New("embedding failed")
)

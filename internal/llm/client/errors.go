package client

import "fmt"

// TransportError means the backend call itself failed (unreachable,
// unauthorized, aborted). The pipeline treats it as backend instability
// and goes straight to the fallback artifact.
type TransportError struct {
	Provider string
	Model    string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("llm transport failure (%s/%s): %v", e.Provider, e.Model, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// EmptyResponseError means the backend answered but the trimmed response
// was empty. Treated as a validation failure, so it enters the refiner.
type EmptyResponseError struct {
	Provider string
	Model    string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("llm returned an empty response (%s/%s)", e.Provider, e.Model)
}

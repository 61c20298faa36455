package models

// ViewState is what a client renders for a fetched resource.
// Backend failures are reported as StateEmpty, never as a separate error state.
type ViewState string

const (
	StateLoading   ViewState = "loading"
	StateEmpty     ViewState = "empty"
	StatePopulated ViewState = "populated"
	StateNotFound  ViewState = "not_found"
)

// StateFor returns the state for a loaded collection of n items
func StateFor(n int) ViewState {
	if n == 0 {
		return StateEmpty
	}
	return StatePopulated
}

package model

// ViewState is the fetch lifecycle of a read-only page.
type ViewState string

const (
	ViewStateIdle    ViewState = "idle"
	ViewStateLoading ViewState = "loading"
	ViewStateLoaded  ViewState = "loaded"
	ViewStateErrored ViewState = "errored"
)

// FormState is the lifecycle of a side-effecting form.
type FormState string

const (
	FormStateIdle       FormState = "idle"
	FormStateSubmitting FormState = "submitting"
	FormStateSuccess    FormState = "success"
	FormStateFailure    FormState = "failure"
)

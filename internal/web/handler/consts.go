package handler

const (
	// ErrNilDepsFatalLogMsg is used if a router, cfg or client pointer is nil.
	ErrNilDepsFatalLogMsg = "router, cfg, hydra client or directory provider is nil"

	// GenericLoginError is shown to the end user for both "user not found" and
	// "wrong password", so the two cannot be told apart from the response.
	GenericLoginError = "Invalid login or password."
)

package answer

// AskRequest is the request for the answer.ask service.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is the response from the answer.ask service. Answer is the raw model
// text; callers reduce it to a single word.
type AskResponse struct {
	Answer string `json:"answer"`
}

package dto

// GeminiAPIRequest is the request payload for the Gemini generateContent API.
type GeminiAPIRequest struct {
	Contents []GeminiContent `json:"contents"`
}

// GeminiContent represents the content of a request or response.
type GeminiContent struct {
	Parts []GeminiPart `json:"parts"`
}

// GeminiPart is a part of the content.
type GeminiPart struct {
	Text string `json:"text"`
}

// GeminiAPIResponse is the response from the Gemini API.
type GeminiAPIResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
}

// GeminiCandidate is a candidate response from the Gemini API.
type GeminiCandidate struct {
	Content GeminiContent `json:"content"`
}

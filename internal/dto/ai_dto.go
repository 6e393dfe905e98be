package dto

type AiAskRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	// Context is free-form text prepended to the prompt.
	Context string `json:"context"`
	// PdfId pulls extracted paper text into the prompt as well.
	PdfId       string  `json:"pdf_id"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
}

type AiAskResponse struct {
	Response string `json:"response"`
	Model    string `json:"model"`
	Provider string `json:"provider"`
}

type SummarizePaperResponse struct {
	PaperId string `json:"paper_id"`
	Summary string `json:"summary"`
	Model   string `json:"model"`
}

type AiModelsResponse struct {
	Provider string   `json:"provider"`
	Default  string   `json:"default"`
	Models   []string `json:"models"`
}

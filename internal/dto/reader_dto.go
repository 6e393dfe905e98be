package dto

type OpenReaderResponse struct {
	PaperId     string `json:"paper_id"`
	SessionId   string `json:"session_id"`
	NoteContent string `json:"note_content"`
}

type HighlightPosition struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type AddHighlightRequest struct {
	Page     int               `json:"page" validate:"required,min=1"`
	Text     string            `json:"text" validate:"required"`
	Color    string            `json:"color"`
	Position HighlightPosition `json:"position"`
}

type HighlightResponse struct {
	Id       string            `json:"id"`
	Page     int               `json:"page"`
	Text     string            `json:"text"`
	Color    string            `json:"color"`
	Position HighlightPosition `json:"position"`
}

type HighlightSetResponse struct {
	PaperId    string              `json:"paper_id"`
	Highlights []HighlightResponse `json:"highlights"`
	CanUndo    bool                `json:"can_undo"`
	CanRedo    bool                `json:"can_redo"`
}

type NoteChangeRequest struct {
	Content string `json:"content"`
}

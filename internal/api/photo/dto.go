package photo

import "DrunkDetect/internal/entity"

type AnalyzeRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
}

type AnalyzeResponse struct {
	Detection   entity.DetectionResult `json:"detection"`
	Summary     string                 `json:"summary"`
	SummaryHTML string                 `json:"summary_html"`
	// Fallback is set when Summary is a canned message instead of model output.
	Fallback  bool   `json:"fallback"`
	MIMEType  string `json:"mime_type"`
	ImageSize string `json:"image_size"`
}

const (
	FallbackAnalysisError = "An error occurred while analyzing the image. Please try again later."
	FallbackEmptyAnalysis = "Could not analyze the image."

	SummaryMarker = "**Summary**:"

	AnalysisPrompt = `You are an expert in facial analysis and psychology. Analyze the facial expression in this image in great detail.
Describe the perceived primary emotion, any secondary emotions, and the specific muscle movements (Facial Action Units, if possible) that indicate these emotions.
Provide a nuanced interpretation of the person's potential emotional state. Do not comment on intoxication. Structure your response in clear, well-formatted markdown.
Finally, add a "Summary" section at the very end. This section should start with the word "**Summary**" followed by a colon. This section should be a concise, one-paragraph conclusion of your findings. In the summary, use markdown bolding to highlight the most important keywords and phrases.`
)

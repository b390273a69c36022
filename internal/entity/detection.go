package entity

type Emotion string

const (
	EmotionAngry     Emotion = "Angry"
	EmotionHappy     Emotion = "Happy"
	EmotionSad       Emotion = "Sad"
	EmotionSurprised Emotion = "Surprised"
	EmotionNeutral   Emotion = "Neutral"
	EmotionFearful   Emotion = "Fearful"
	EmotionDisgusted Emotion = "Disgusted"

	EmotionAnalyzing Emotion = "Analyzing..."
)

// Emotions lists the labels a detector may report, in display order.
var Emotions = []Emotion{
	EmotionAngry,
	EmotionHappy,
	EmotionSad,
	EmotionSurprised,
	EmotionNeutral,
	EmotionFearful,
	EmotionDisgusted,
}

func (e Emotion) String() string {
	return string(e)
}

type IntoxicationStatus string

const (
	IntoxicationSober       IntoxicationStatus = "Sober"
	IntoxicationIntoxicated IntoxicationStatus = "Intoxicated"
	IntoxicationAnalyzing   IntoxicationStatus = "Analyzing..."
)

func (s IntoxicationStatus) String() string {
	return string(s)
}

type DetectionResult struct {
	Emotion      Emotion            `json:"emotion"`
	Confidence   float64            `json:"confidence"`
	Intoxication IntoxicationStatus `json:"intoxication"`
}

// AnalyzingResult is shown while no detection has been produced yet and after a session stops.
func AnalyzingResult() DetectionResult {
	return DetectionResult{
		Emotion:      EmotionAnalyzing,
		Confidence:   0,
		Intoxication: IntoxicationAnalyzing,
	}
}

func (r DetectionResult) IsAnalyzing() bool {
	return r.Emotion == EmotionAnalyzing && r.Intoxication == IntoxicationAnalyzing
}

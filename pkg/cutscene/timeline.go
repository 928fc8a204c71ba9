package cutscene

import "time"

// Cutscene names used as registry keys.
const (
	NameIntro = "intro"
	NameOutro = "outro"
)

// Intro states, in order.
const (
	IntroWhite    = "white"
	IntroFrame1   = "frame1"
	IntroFrame2   = "frame2"
	IntroFrame3   = "frame3"
	IntroFrame4   = "frame4"
	IntroFrame5   = "frame5"
	IntroSlicing  = "slicing"
	IntroComplete = "complete"
)

// Outro states, in order.
const (
	OutroFrame1 = "frame1"
	OutroFrame2 = "frame2"
	OutroFrame3 = "frame3"
	OutroFrame4 = "frame4"
	OutroFrame5 = "frame5"
	OutroDone   = "done"
)

// Intro is the opening cutscene: a white screen, five character frames,
// the slicing wipe and completion at 2.3s.
func Intro() Sequence {
	return FromOffsets(
		Step{IntroWhite, 0},
		Step{IntroFrame1, 500 * time.Millisecond},
		Step{IntroFrame2, 800 * time.Millisecond},
		Step{IntroFrame3, 1100 * time.Millisecond},
		Step{IntroFrame4, 1300 * time.Millisecond},
		Step{IntroFrame5, 1400 * time.Millisecond},
		Step{IntroSlicing, 1800 * time.Millisecond},
		Step{IntroComplete, 2300 * time.Millisecond},
	)
}

// Outro is the send-off cutscene played before leaving the viewer.
func Outro() Sequence {
	return FromOffsets(
		Step{OutroFrame1, 0},
		Step{OutroFrame2, 400 * time.Millisecond},
		Step{OutroFrame3, 800 * time.Millisecond},
		Step{OutroFrame4, 1200 * time.Millisecond},
		Step{OutroFrame5, 1600 * time.Millisecond},
		Step{OutroDone, 2000 * time.Millisecond},
	)
}

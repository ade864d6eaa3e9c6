package model

// Motion is one entry of a motion group declared by a model manifest.
type Motion struct {
	// File is the motion file path, relative to the manifest directory.
	File string

	// FadeIn is the fade-in duration in seconds.
	FadeIn float64

	// FadeOut is the fade-out duration in seconds.
	FadeOut float64
}

// MotionGroupIdle is the group a model plays when nothing else is requested.
const MotionGroupIdle = "Idle"

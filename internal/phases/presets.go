package phases

import "time"

// Splash phase names.
const (
	SplashLottie       = "lottie"
	SplashFallingImage = "falling-image"
	SplashFadeOut      = "fade-out"
	SplashComplete     = "complete"
)

// Celebration phase names.
const (
	CelebrationBurst = "burst"
	CelebrationFade  = "fade"
	CelebrationEnd   = "end"
)

const (
	// DefaultCelebration is the confetti duration used when none is configured.
	DefaultCelebration = 5 * time.Second
	// MaxCelebration bounds the confetti so it always ends before eight seconds.
	MaxCelebration = 7 * time.Second

	celebrationFadeLead = time.Second
)

// Splash is the intro sequence: animation, falling image, fade, removal.
func Splash() Sequence {
	return Sequence{
		{Name: SplashLottie, At: 0},
		{Name: SplashFallingImage, At: 3 * time.Second},
		{Name: SplashFadeOut, At: 5300 * time.Millisecond},
		{Name: SplashComplete, At: 6300 * time.Millisecond},
	}
}

// Celebration returns the confetti sequence lasting total, clamped to
// (0, MaxCelebration].
func Celebration(total time.Duration) Sequence {
	if total <= 0 {
		total = DefaultCelebration
	}
	if total > MaxCelebration {
		total = MaxCelebration
	}
	fade := total - celebrationFadeLead
	if fade <= 0 {
		fade = total / 2
	}
	if fade <= 0 {
		return Sequence{{Name: CelebrationBurst, At: 0}, {Name: CelebrationEnd, At: total}}
	}
	return Sequence{
		{Name: CelebrationBurst, At: 0},
		{Name: CelebrationFade, At: fade},
		{Name: CelebrationEnd, At: total},
	}
}

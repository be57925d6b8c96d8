// Package pattern builds the countable box layouts shown in each round.
package pattern

type AnimationType string

const (
	AnimationStatic  AnimationType = "static"
	AnimationSlide   AnimationType = "slide"
	AnimationStagger AnimationType = "stagger"
	AnimationFade    AnimationType = "fade"
)

type Box struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
}

type AnimationConfig struct {
	Direction    string  `json:"direction,omitempty"`
	Speed        float64 `json:"speed,omitempty"`
	StaggerDelay int64   `json:"staggerDelay,omitempty"`
	FadeDuration int64   `json:"fadeDuration,omitempty"`
}

// Animation is owned by the whole group. VisibleDuration is in milliseconds.
type Animation struct {
	Type            AnimationType    `json:"type"`
	VisibleDuration int64            `json:"visibleDuration"`
	Config          *AnimationConfig `json:"config,omitempty"`
}

type BoxGroup struct {
	Boxes        []Box     `json:"boxes"`
	CorrectCount int       `json:"correctCount"`
	Animation    Animation `json:"animation"`
}

type Generator interface {
	Generate(round int) BoxGroup
}

type GeneratorFunc func(round int) BoxGroup

func (f GeneratorFunc) Generate(round int) BoxGroup {
	return f(round)
}

// Default selects a pattern by round number, harder patterns in later rounds.
var Default Generator = GeneratorFunc(Generate)

func Generate(round int) BoxGroup {
	return SelectPattern(round)()
}

func SelectPattern(round int) func() BoxGroup {
	switch {
	case round <= 3:
		return SimpleStatic
	case round <= 6:
		if round%2 == 0 {
			return SlidingPlane
		}
		return SimpleStatic
	default:
		patterns := []func() BoxGroup{SimpleStatic, SlidingPlane, SnakeStaggered}
		return patterns[(round-7)%len(patterns)]
	}
}

// Empty is the placeholder payload of a room that has not started a round yet.
func Empty() BoxGroup {
	return BoxGroup{
		Boxes:     []Box{},
		Animation: Animation{Type: AnimationStatic, VisibleDuration: 3000},
	}
}

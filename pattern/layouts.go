package pattern

const boxSize = 1

// SimpleStatic is a 2x2 grid, visible for three seconds.
func SimpleStatic() BoxGroup {
	const spacing = 2
	color := "#60a5fa"
	boxes := []Box{
		{X: -spacing, Y: 0, Z: -spacing, Size: boxSize, Color: color},
		{X: spacing, Y: 0, Z: -spacing, Size: boxSize, Color: color},
		{X: -spacing, Y: 0, Z: spacing, Size: boxSize, Color: color},
		{X: spacing, Y: 0, Z: spacing, Size: boxSize, Color: color},
	}
	return BoxGroup{
		Boxes:        boxes,
		CorrectCount: len(boxes),
		Animation:    Animation{Type: AnimationStatic, VisibleDuration: 3000},
	}
}

// SlidingPlane is a row of five boxes sliding right.
func SlidingPlane() BoxGroup {
	const spacing = 1.5
	color := "#34d399"
	boxes := make([]Box, 0, 5)
	for i := -2; i <= 2; i++ {
		boxes = append(boxes, Box{X: spacing * float64(i), Size: boxSize, Color: color})
	}
	return BoxGroup{
		Boxes:        boxes,
		CorrectCount: len(boxes),
		Animation: Animation{
			Type:            AnimationSlide,
			VisibleDuration: 2000,
			Config:          &AnimationConfig{Direction: "right", Speed: 2},
		},
	}
}

// SnakeStaggered is an L-shaped snake whose boxes appear 100ms apart.
func SnakeStaggered() BoxGroup {
	const spacing = 1.5
	color := "#f472b6"
	boxes := make([]Box, 0, 9)
	for i := -2; i <= 2; i++ {
		boxes = append(boxes, Box{X: spacing * float64(i), Size: boxSize, Color: color})
	}
	for i := 1; i <= 4; i++ {
		boxes = append(boxes, Box{X: spacing * 2, Y: spacing * float64(i), Size: boxSize, Color: color})
	}
	return BoxGroup{
		Boxes:        boxes,
		CorrectCount: len(boxes),
		Animation: Animation{
			Type:            AnimationStagger,
			VisibleDuration: 1500,
			Config:          &AnimationConfig{StaggerDelay: 100},
		},
	}
}

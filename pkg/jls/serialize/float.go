package serialize

import "math"

func f32bits(v float32) uint32 {
	return math.Float32bits(v)
}

func f32frombits(v uint32) float32 {
	return math.Float32frombits(v)
}

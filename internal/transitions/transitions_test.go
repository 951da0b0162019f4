package transitions

import (
	"math"
	"testing"

	"github.com/matjam/smoothtft/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/gween"
)

const eps = 1e-9

func TestEndpoints(t *testing.T) {
	for _, k := range Kinds() {
		if k.Overshoots() {
			continue
		}
		t.Run(k.String(), func(t *testing.T) {
			assert.InDelta(t, 0, k.Pos(0), eps, "pos(0)")
			assert.InDelta(t, 1, k.Pos(1), eps, "pos(1)")
		})
	}
}

func TestEaseOutIdentity(t *testing.T) {
	for _, k := range Kinds() {
		for i := 0; i <= 20; i++ {
			p := float64(i) / 20
			assert.InDelta(t, 1-k.Pos(1-p), k.EaseOut(p), eps, "%v at %v", k, p)
		}
	}
}

func TestEaseInOutMidpoint(t *testing.T) {
	for _, k := range Kinds() {
		assert.Equal(t, k.Pos(1)/2, k.EaseInOut(0.5), k.String())
	}
}

func TestEaseInIsPos(t *testing.T) {
	for _, k := range Kinds() {
		for i := 0; i <= 10; i++ {
			p := float64(i) / 10
			assert.Equal(t, k.Pos(p), k.EaseIn(p))
		}
	}
}

func TestEaseInOutSecondHalf(t *testing.T) {
	// 2 - pos(2(1-p))/2
	assert.InDelta(t, 2-Quad.Pos(0.5)/2, Quad.EaseInOut(0.75), eps)
	assert.InDelta(t, 0.125, Quad.EaseInOut(0.25), eps)
}

func TestScenarioValues(t *testing.T) {
	assert.Equal(t, 0.25, Linear.EaseIn(0.25))
	assert.InDelta(t, 0.25, Quad.EaseIn(0.5), eps)
	assert.InDelta(t, 0.875, Cubic.EaseOut(0.5), eps)
}

func TestBounceTerminatesAtBoundaries(t *testing.T) {
	assert.Equal(t, 1.0, Bounce.Pos(1.0))
	assert.InDelta(t, 0, Bounce.Pos(0), eps)

	// every sample lands inside the unit interval
	for i := 0; i <= 1000; i++ {
		v := Bounce.Pos(float64(i) / 1000)
		assert.GreaterOrEqual(t, v, -eps)
		assert.LessOrEqual(t, v, 1+eps)
	}
}

func TestBounceReturnsOutsideUnitInterval(t *testing.T) {
	for _, v := range []float64{
		Bounce.EaseOut(1.125),
		Bounce.EaseInOut(1.5),
		Bounce.Pos(-1),
		Bounce.Pos(-0.1),
	} {
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
	}
}

func TestOvershootingCurvesAreNotClamped(t *testing.T) {
	assert.Less(t, Back.Pos(0.3), 0.0)
	assert.InDelta(t, -0.5, Elastic.Pos(1), eps)
	assert.Greater(t, Back.EaseOut(0.7), 1.0)
}

func TestInputIsNotValidated(t *testing.T) {
	assert.Equal(t, 2.0, Linear.Pos(2))
	assert.Equal(t, 4.0, Quad.Pos(-2))
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("wobble")
	assert.Error(t, err)
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func TestParse(t *testing.T) {
	tr, err := Parse("bounce:ease-out")
	require.NoError(t, err)
	assert.Equal(t, Transition{Kind: Bounce, Mode: types.EasingEaseOut}, tr)
	assert.Equal(t, "bounce:ease-out", tr.String())

	tr, err = Parse("Sine")
	require.NoError(t, err)
	assert.Equal(t, Transition{Kind: Sine, Mode: types.EasingEaseIn}, tr)

	_, err = Parse("sine:sideways")
	assert.Error(t, err)
}

func TestTransitionAt(t *testing.T) {
	out := Transition{Kind: Cubic, Mode: types.EasingEaseOut}
	assert.InDelta(t, 0.875, out.At(0.5), eps)

	inOut := Transition{Kind: Quad, Mode: types.EasingEaseInOut}
	assert.InDelta(t, Quad.EaseInOut(0.3), inOut.At(0.3), eps)

	var zero Transition
	assert.Equal(t, 0.4, zero.At(0.4))
}

func TestTweenDrivesGween(t *testing.T) {
	tr := Transition{Kind: Quad, Mode: types.EasingEaseIn}
	tween := gween.New(0, 100, 1, tr.Tween())

	v, done := tween.Update(0.5)
	assert.False(t, done)
	assert.InDelta(t, 25, v, 0.01)

	v, done = tween.Update(0.5)
	assert.True(t, done)
	assert.InDelta(t, 100, v, 0.01)
}

package detector

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestDistance3D(t *testing.T) {
	t.Run("3-4-5 triangle in the xy plane", func(t *testing.T) {
		a := Landmark{X: 0, Y: 0}
		b := Landmark{X: 0.03, Y: 0.04}

		if got := Distance3D(a, b); math.Abs(got-0.05) > epsilon {
			t.Errorf("expected distance 0.05, got %f", got)
		}
	})

	t.Run("identical points have zero distance", func(t *testing.T) {
		p := Landmark{X: 0.5, Y: 0.5, Z: 0.2}

		if got := Distance3D(p, p); got != 0 {
			t.Errorf("expected distance 0, got %f", got)
		}
	})

	t.Run("missing depth is treated as zero", func(t *testing.T) {
		a := Landmark{X: 0, Y: 0, Z: 0.05}
		b := Landmark{X: 0, Y: 0}

		if got := Distance3D(a, b); math.Abs(got-0.05) > epsilon {
			t.Errorf("expected distance 0.05, got %f", got)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		a := Landmark{X: 0.1, Y: 0.2, Z: 0.3}
		b := Landmark{X: 0.4, Y: 0.6, Z: 0.9}

		if Distance3D(a, b) != Distance3D(b, a) {
			t.Error("expected Distance3D to be symmetric")
		}
	})
}

func TestLandmark_Point2D(t *testing.T) {
	l := Landmark{ID: 4, X: 0.25, Y: 0.75, Z: 0.1}
	p := l.Point2D()

	if p.X != 0.25 || p.Y != 0.75 {
		t.Errorf("expected point (0.25, 0.75), got (%f, %f)", p.X, p.Y)
	}
}

func TestFixtures(t *testing.T) {
	t.Run("hand fixtures carry 21 numbered landmarks", func(t *testing.T) {
		for name, points := range map[string][]Landmark{
			"thumbs up": ThumbsUpLandmarks(),
			"open palm": OpenPalmLandmarks(),
			"fist":      FistLandmarks(),
		} {
			if len(points) != NumLandmarks {
				t.Errorf("%s: expected %d landmarks, got %d", name, NumLandmarks, len(points))
			}
			for i, p := range points {
				if p.ID != i {
					t.Errorf("%s: landmark %d has id %d", name, i, p.ID)
				}
			}
		}
	})

	t.Run("pose fixture covers every named keypoint index", func(t *testing.T) {
		points := PoseStandingLandmarks()
		if len(points) != PoseNumLandmarks {
			t.Fatalf("expected %d landmarks, got %d", PoseNumLandmarks, len(points))
		}
		for _, idx := range []int{PoseNose, PoseLeftShoulder, PoseRightShoulder, PoseLeftWrist, PoseRightWrist, PoseLeftHip, PoseRightHip} {
			if points[idx].Visibility == nil {
				t.Errorf("expected visibility on landmark %d", idx)
			}
		}
	})
}

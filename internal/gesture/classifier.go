package gesture

import (
	"github.com/ayusman/signspeak/internal/detector"
)

// OKDistance is the thumb-tip to index-tip distance below which the hand
// reads as the OK sign.
const OKDistance = 0.05

// Finger positions in an ExtensionVector.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
)

// ExtensionVector holds one "extended" flag per finger, thumb first.
type ExtensionVector [5]bool

// Count returns the number of extended fingers.
func (e ExtensionVector) Count() int {
	n := 0
	for _, ext := range e {
		if ext {
			n++
		}
	}
	return n
}

// Only reports whether exactly the given fingers are extended.
func (e ExtensionVector) Only(fingers ...int) bool {
	var want ExtensionVector
	for _, f := range fingers {
		want[f] = true
	}
	return e == want
}

// fingerJoints pairs each non-thumb fingertip with its PIP joint.
var fingerJoints = [4][2]int{
	{detector.IndexTip, detector.IndexPIP},
	{detector.MiddleTip, detector.MiddlePIP},
	{detector.RingTip, detector.RingPIP},
	{detector.PinkyTip, detector.PinkyPIP},
}

// Extensions computes the extension vector for 21 landmarks.
//
// The thumb direction depends on which way the hand faces: when the index
// knuckle is right of the pinky knuckle the thumb is extended if its tip is
// right of its base, and the reverse otherwise. This keeps mirrored camera
// input correct. The other fingers are extended when the tip is above the
// PIP joint (smaller y).
func Extensions(points []detector.Point3D) ExtensionVector {
	var ext ExtensionVector
	if len(points) != detector.NumLandmarks {
		return ext
	}

	tip, base := points[detector.ThumbTip], points[detector.ThumbMCP]
	if points[detector.IndexMCP].X > points[detector.PinkyMCP].X {
		ext[Thumb] = tip.X > base.X
	} else {
		ext[Thumb] = tip.X < base.X
	}

	for i, j := range fingerJoints {
		ext[Index+i] = points[j[0]].Y < points[j[1]].Y
	}

	return ext
}

// Classify maps one frame of landmarks to a sign.
// Anything other than exactly 21 points, and any pose no rule covers,
// yields None.
func Classify(points []detector.Point3D) Label {
	if len(points) != detector.NumLandmarks {
		return None
	}

	ext := Extensions(points)
	count := ext.Count()
	pinch := detector.PlanarDistance(points[detector.ThumbTip], points[detector.IndexTip])

	// Rules are ordered most specific first; the first match wins.
	switch {
	case pinch < OKDistance && count >= 3:
		return OK
	case ext.Only(Thumb, Index, Pinky):
		return ILoveYou
	case ext.Only(Index, Middle):
		return Peace
	case count == 5 && points[detector.MiddleMCP].Y < points[detector.Wrist].Y:
		return Stop
	case ext[Index] && !ext[Middle] && !ext[Ring] && !ext[Pinky]:
		return One
	case ext[Index] && ext[Middle] && !ext[Ring] && !ext[Pinky]:
		return Two
	case ext.Only(Index, Middle, Ring):
		return Three
	case ext.Only(Index, Middle, Ring, Pinky):
		return Four
	case count == 5:
		return Hello
	case ext[Thumb] && count == 1:
		return Good
	case count == 0:
		return Yes
	case !ext[Index] && ext[Middle] && ext[Ring] && ext[Pinky]:
		return Help
	case count >= 4 && ext[Thumb]:
		return ThankYou
	}

	return None
}

// ClassifyHand classifies a detected hand; a nil hand yields None.
func ClassifyHand(hand *detector.HandLandmarks) Label {
	if hand == nil {
		return None
	}
	return Classify(hand.Points[:])
}

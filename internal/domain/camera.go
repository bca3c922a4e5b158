package domain

// CameraAngle is an optional framing tag. The zero value means none selected.
type CameraAngle string

const (
	AngleWide         CameraAngle = "wide"
	AngleCloseUp      CameraAngle = "close-up"
	AngleMedium       CameraAngle = "medium"
	AngleExtremeClose CameraAngle = "extreme-close"
	AngleBirdEye      CameraAngle = "bird-eye"
	AngleLow          CameraAngle = "low-angle"
	AngleHigh         CameraAngle = "high-angle"
	AngleDutch        CameraAngle = "dutch"
	AngleOverShoulder CameraAngle = "over-shoulder"
	AnglePointOfView  CameraAngle = "point-of-view"
)

// CameraAngles lists the known angle tags in display order.
var CameraAngles = []CameraAngle{
	AngleWide, AngleCloseUp, AngleMedium, AngleExtremeClose, AngleBirdEye,
	AngleLow, AngleHigh, AngleDutch, AngleOverShoulder, AnglePointOfView,
}

// Phrase returns the prompt wording for the tag; unknown tags pass through as-is.
func (a CameraAngle) Phrase() string {
	switch a {
	case AngleWide:
		return "wide angle shot"
	case AngleCloseUp:
		return "close-up shot"
	case AngleMedium:
		return "medium shot"
	case AngleExtremeClose:
		return "extreme close-up"
	case AngleBirdEye:
		return "bird's eye view"
	case AngleLow:
		return "low angle shot"
	case AngleHigh:
		return "high angle shot"
	case AngleDutch:
		return "dutch angle"
	case AngleOverShoulder:
		return "over-the-shoulder shot"
	case AnglePointOfView:
		return "point of view shot"
	default:
		return string(a)
	}
}

// CameraMode is an optional camera movement tag. The zero value means none selected.
type CameraMode string

const (
	ModeHandheld CameraMode = "handheld"
	ModeSteady   CameraMode = "steady"
	ModeTracking CameraMode = "tracking"
	ModeDolly    CameraMode = "dolly"
	ModePan      CameraMode = "pan"
	ModeTilt     CameraMode = "tilt"
	ModeZoom     CameraMode = "zoom"
	ModeStatic   CameraMode = "static"
	ModeOrbital  CameraMode = "orbital"
	ModeCrane    CameraMode = "crane"
)

// CameraModes lists the known mode tags in display order.
var CameraModes = []CameraMode{
	ModeHandheld, ModeSteady, ModeTracking, ModeDolly, ModePan,
	ModeTilt, ModeZoom, ModeStatic, ModeOrbital, ModeCrane,
}

// Phrase returns the prompt wording for the tag; unknown tags pass through as-is.
func (m CameraMode) Phrase() string {
	switch m {
	case ModeHandheld:
		return "handheld camera movement"
	case ModeSteady:
		return "steady camera movement"
	case ModeTracking:
		return "tracking shot"
	case ModeDolly:
		return "dolly shot"
	case ModePan:
		return "panning camera"
	case ModeTilt:
		return "tilting camera"
	case ModeZoom:
		return "zoom effect"
	case ModeStatic:
		return "static camera"
	case ModeOrbital:
		return "orbital camera movement"
	case ModeCrane:
		return "crane shot"
	default:
		return string(m)
	}
}

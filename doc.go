/*
Package lottie renders Lottie (bodymovin) vector animations to raster frames.

An Animation is loaded from JSON with Open, Decode or DecodeBytes and rendered
one frame at a time with RenderSync into a Surface of packed 32bit ARGB pixels.
The pixconv subpackage converts rendered surfaces to the RGBA channel order
expected by the standard image encoders.
*/
package lottie

import "fmt"

type LottieVersion struct {
	Major, Minor, Patch uint
}

func (v LottieVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v LottieVersion) Equal(o LottieVersion) bool {
	return v.Major == o.Major && v.Minor == o.Minor && v.Patch == o.Patch
}

func (v LottieVersion) After(o LottieVersion) bool {
	switch {
	case v.Major == o.Major:
		switch {
		case v.Minor == o.Minor:
			return v.Patch > o.Patch
		case v.Minor > o.Minor:
			return true
		case v.Minor < o.Minor:
			return false
		}
	case v.Major > o.Major:
		return true
	case v.Major < o.Major:
		return false
	}
	return false
}

func (v LottieVersion) Before(o LottieVersion) bool {
	return !v.Equal(o) && !v.After(o)
}

var Version = LottieVersion{0, 3, 0}
